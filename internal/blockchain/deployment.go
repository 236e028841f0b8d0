package blockchain

import (
	"encoding/json"
	"fmt"
	"os"
)

// Deployment describes which registry contract instance is live: the address,
// the network profile it was deployed to, and optional connection overrides.
// It is written by the deploy tooling and read on every ledger operation, so a
// contract deployed while the server is running is picked up without a
// restart. Absence of the file means no contract is deployed and every ledger
// operation must degrade to "unavailable".
type Deployment struct {
	Address    string `json:"address"`
	Network    string `json:"network"`
	RPCURL     string `json:"rpcUrl,omitempty"`
	ChainID    int64  `json:"chainId,omitempty"`
	DeployedAt string `json:"deployedAt"`
}

// NetworkInfo is the human-facing view of the active deployment, used by the
// UI to link transactions to a block explorer on public networks.
type NetworkInfo struct {
	Network     string  `json:"network"`
	ExplorerURL *string `json:"explorerUrl"`
}

// explorerBases maps public network profiles to their block explorers. Local
// development networks have no explorer.
var explorerBases = map[string]string{
	"sepolia": "https://sepolia.etherscan.io",
	"mainnet": "https://etherscan.io",
}

// LoadDeployment reads the deployment descriptor from path. A missing file is
// not an error: it returns (nil, nil) and callers treat it as "no contract
// deployed". A file that exists but cannot be parsed is a real error.
func LoadDeployment(path string) (*Deployment, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading deployment descriptor: %w", err)
	}

	var d Deployment
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parsing deployment descriptor %s: %w", path, err)
	}
	if d.Address == "" {
		return nil, fmt.Errorf("deployment descriptor %s: address is empty", path)
	}
	return &d, nil
}

// Info derives the explorer link for the deployment's network.
func (d *Deployment) Info() NetworkInfo {
	info := NetworkInfo{Network: d.Network}
	if base, ok := explorerBases[d.Network]; ok {
		url := base
		info.ExplorerURL = &url
	}
	return info
}
