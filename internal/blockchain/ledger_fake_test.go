package blockchain

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// fakeLedger is an in-memory Ledger used to exercise the registrar and
// verifier without a node.
type fakeLedger struct {
	mu        sync.Mutex
	available bool
	records   map[string]*LedgerRecord
	writeErr  error
	readErr   error
	network   NetworkInfo
	writes    int
}

func newFakeLedger(available bool) *fakeLedger {
	return &fakeLedger{
		available: available,
		records:   map[string]*LedgerRecord{},
		network:   NetworkInfo{Network: "localhost"},
	}
}

func (f *fakeLedger) ProbeAvailability(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available
}

func (f *fakeLedger) ReadBadgeRecord(_ context.Context, badgeID string) (*LedgerRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	if record, ok := f.records[badgeID]; ok {
		return record, nil
	}
	return &LedgerRecord{Exists: false}, nil
}

func (f *fakeLedger) WriteBadgeRecord(_ context.Context, badgeID string, dataHash common.Hash) (*WriteReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.writes++
	f.records[badgeID] = &LedgerRecord{
		DataHash:  dataHash,
		Issuer:    common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		Timestamp: 1736935200,
		Exists:    true,
	}
	return &WriteReceipt{
		TxHash:          fmt.Sprintf("0x%064d", f.writes),
		BlockNumber:     int64(f.writes),
		ContractAddress: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
	}, nil
}

func (f *fakeLedger) NetworkInfo() NetworkInfo {
	return f.network
}

var _ Ledger = (*fakeLedger)(nil)
