package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"badgeflow/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// registryABI mirrors the BadgeRegistry contract. The ABI is identical across
// network profiles; only the RPC endpoint and signing key differ.
const registryABI = `[
	{"type":"function","name":"registerBadge","stateMutability":"nonpayable","inputs":[{"name":"badgeId","type":"string"},{"name":"dataHash","type":"bytes32"}],"outputs":[]},
	{"type":"function","name":"getBadge","stateMutability":"view","inputs":[{"name":"badgeId","type":"string"}],"outputs":[{"name":"dataHash","type":"bytes32"},{"name":"issuer","type":"address"},{"name":"timestamp","type":"uint256"},{"name":"exists","type":"bool"}]},
	{"type":"function","name":"verifyBadge","stateMutability":"view","inputs":[{"name":"badgeId","type":"string"},{"name":"expectedHash","type":"bytes32"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"totalBadges","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

// LedgerRecord is the on-chain view of a badge: what the registry contract
// returns from getBadge. Written exclusively by the registration flow,
// read-only to everything else.
type LedgerRecord struct {
	DataHash  common.Hash
	Issuer    common.Address
	Timestamp int64
	Exists    bool
}

// WriteReceipt is the confirmation returned after an anchoring transaction is
// mined.
type WriteReceipt struct {
	TxHash          string
	BlockNumber     int64
	ContractAddress string
}

// Ledger abstracts the registry contract for the registration and
// verification flows, so both can be exercised against a fake in tests.
type Ledger interface {
	// ProbeAvailability reports whether the node answers and a contract is
	// deployed. It never returns an error; every failure reads as false.
	ProbeAvailability(ctx context.Context) bool
	// ReadBadgeRecord fetches the on-chain record for a badge id. Errors
	// propagate; the caller converts them to an "unavailable" outcome.
	ReadBadgeRecord(ctx context.Context, badgeID string) (*LedgerRecord, error)
	// WriteBadgeRecord submits the anchoring transaction and blocks until it
	// is mined or ctx expires.
	WriteBadgeRecord(ctx context.Context, badgeID string, dataHash common.Hash) (*WriteReceipt, error)
	// NetworkInfo describes the active deployment, or the configured default
	// network when none is deployed.
	NetworkInfo() NetworkInfo
}

// Client talks to the ledger node and the deployed BadgeRegistry contract.
// It is constructed once at startup and shared: concurrent writes each submit
// an independent transaction and the transactor handles nonce assignment per
// submission. The contract binding itself is resolved lazily from the
// deployment descriptor on every call, so deploying a contract while the
// server runs requires no restart.
type Client struct {
	cfg       *config.BlockchainConfig
	eth       *ethclient.Client
	parsedABI abi.ABI
	logger    *zap.Logger
}

// NewClient dials the configured RPC endpoint and prepares the contract ABI.
// Dialing an HTTP endpoint does not contact the node, so construction only
// fails on configuration errors; reachability is probed per operation.
func NewClient(cfg *config.BlockchainConfig, logger *zap.Logger) (*Client, error) {
	parsed, err := abi.JSON(strings.NewReader(registryABI))
	if err != nil {
		return nil, fmt.Errorf("parsing registry ABI: %w", err)
	}

	eth, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dialing ledger node %s: %w", cfg.RPCURL, err)
	}

	logger.Info("Ledger client initialized",
		zap.String("rpc_url", cfg.RPCURL),
		zap.String("network", cfg.Network),
		zap.String("deployment_file", cfg.DeploymentFile),
	)

	return &Client{
		cfg:       cfg,
		eth:       eth,
		parsedABI: parsed,
		logger:    logger,
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// deployment re-reads the descriptor. Nil means no contract is deployed.
func (c *Client) deployment() *Deployment {
	d, err := LoadDeployment(c.cfg.DeploymentFile)
	if err != nil {
		c.logger.Warn("Deployment descriptor unreadable, treating as not deployed",
			zap.String("path", c.cfg.DeploymentFile),
			zap.Error(err),
		)
		return nil
	}
	return d
}

// bind resolves the contract instance from the current deployment descriptor.
func (c *Client) bind() (*bind.BoundContract, *Deployment) {
	d := c.deployment()
	if d == nil {
		return nil, nil
	}
	addr := common.HexToAddress(d.Address)
	return bind.NewBoundContract(addr, c.parsedABI, c.eth, c.eth, c.eth), d
}

// ProbeAvailability asks the node for the current block height and checks the
// deployment descriptor. One short retry absorbs transient connection
// hiccups; beyond that the ledger simply reads as unavailable.
func (c *Client) ProbeAvailability(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RPCTimeout)
	defer cancel()

	probe := func() error {
		_, err := c.eth.BlockNumber(ctx)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(200*time.Millisecond), 1),
		ctx,
	)
	if err := backoff.Retry(probe, policy); err != nil {
		c.logger.Debug("Ledger node unreachable", zap.Error(err))
		return false
	}

	return c.deployment() != nil
}

// ReadBadgeRecord calls the registry's read-only lookup for badgeID.
func (c *Client) ReadBadgeRecord(ctx context.Context, badgeID string) (*LedgerRecord, error) {
	contract, _ := c.bind()
	if contract == nil {
		return nil, fmt.Errorf("no registry contract deployed")
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RPCTimeout)
	defer cancel()

	var out []interface{}
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "getBadge", badgeID); err != nil {
		return nil, fmt.Errorf("getBadge(%s): %w", badgeID, err)
	}
	if len(out) != 4 {
		return nil, fmt.Errorf("getBadge(%s): unexpected return arity %d", badgeID, len(out))
	}

	dataHash, ok := out[0].([32]byte)
	if !ok {
		return nil, fmt.Errorf("getBadge(%s): unexpected dataHash type %T", badgeID, out[0])
	}
	issuer, ok := out[1].(common.Address)
	if !ok {
		return nil, fmt.Errorf("getBadge(%s): unexpected issuer type %T", badgeID, out[1])
	}
	timestamp, ok := out[2].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("getBadge(%s): unexpected timestamp type %T", badgeID, out[2])
	}
	exists, ok := out[3].(bool)
	if !ok {
		return nil, fmt.Errorf("getBadge(%s): unexpected exists type %T", badgeID, out[3])
	}

	return &LedgerRecord{
		DataHash:  common.Hash(dataHash),
		Issuer:    issuer,
		Timestamp: timestamp.Int64(),
		Exists:    exists,
	}, nil
}

// WriteBadgeRecord submits registerBadge(badgeID, dataHash) with the
// configured signing key and waits for the transaction to be mined. The wait
// is bounded by ConfirmTimeout so a stalled node cannot hold a request open
// indefinitely.
func (c *Client) WriteBadgeRecord(ctx context.Context, badgeID string, dataHash common.Hash) (*WriteReceipt, error) {
	contract, deployment := c.bind()
	if contract == nil {
		return nil, fmt.Errorf("no registry contract deployed")
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(c.cfg.SignerKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parsing signer key: %w", err)
	}

	chainID := big.NewInt(c.cfg.ChainID)
	if deployment.ChainID != 0 {
		chainID = big.NewInt(deployment.ChainID)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("building transactor: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.ConfirmTimeout)
	defer cancel()
	opts.Context = ctx

	tx, err := contract.Transact(opts, "registerBadge", badgeID, dataHash)
	if err != nil {
		return nil, fmt.Errorf("submitting registerBadge(%s): %w", badgeID, err)
	}

	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return nil, fmt.Errorf("awaiting confirmation of %s: %w", tx.Hash().Hex(), err)
	}

	return &WriteReceipt{
		TxHash:          receipt.TxHash.Hex(),
		BlockNumber:     receipt.BlockNumber.Int64(),
		ContractAddress: deployment.Address,
	}, nil
}

// NetworkInfo reports the active deployment's network, falling back to the
// configured profile when nothing is deployed yet.
func (c *Client) NetworkInfo() NetworkInfo {
	if d := c.deployment(); d != nil {
		return d.Info()
	}
	return NetworkInfo{Network: c.cfg.Network}
}

var _ Ledger = (*Client)(nil)
