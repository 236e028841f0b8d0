package blockchain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDeploymentMissingFile(t *testing.T) {
	d, err := LoadDeployment(filepath.Join(t.TempDir(), "contract-deployment.json"))

	require.NoError(t, err, "a missing descriptor is not an error")
	assert.Nil(t, d)
}

func TestLoadDeploymentValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contract-deployment.json")
	payload := `{
		"address": "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		"network": "localhost",
		"chainId": 31337,
		"deployedAt": "2025-01-15T10:00:00.000Z"
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	d, err := LoadDeployment(path)
	require.NoError(t, err)
	require.NotNil(t, d)

	assert.Equal(t, "0x5FbDB2315678afecb367f032d93F642f64180aa3", d.Address)
	assert.Equal(t, "localhost", d.Network)
	assert.Equal(t, int64(31337), d.ChainID)
}

func TestLoadDeploymentMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contract-deployment.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadDeployment(path)
	assert.Error(t, err, "an unreadable descriptor that exists is a real error")
}

func TestLoadDeploymentEmptyAddress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contract-deployment.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"network":"localhost"}`), 0o644))

	_, err := LoadDeployment(path)
	assert.Error(t, err)
}

func TestDeploymentInfoExplorerLinks(t *testing.T) {
	local := Deployment{Address: "0xabc", Network: "localhost"}
	assert.Nil(t, local.Info().ExplorerURL, "local networks have no explorer")

	sepolia := Deployment{Address: "0xabc", Network: "sepolia"}
	info := sepolia.Info()
	require.NotNil(t, info.ExplorerURL)
	assert.Equal(t, "https://sepolia.etherscan.io", *info.ExplorerURL)
}
