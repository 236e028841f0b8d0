package blockchain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// RegistrationStatus tags the outcome of an anchoring attempt. A fleet where
// every badge is "skipped" has a configuration problem; one where badges are
// "failed" has a node problem.
type RegistrationStatus string

const (
	// RegistrationSkipped means the ledger was unavailable or no contract is
	// deployed; no transaction was attempted.
	RegistrationSkipped RegistrationStatus = "skipped"
	// RegistrationFailed means a transaction was attempted but submission or
	// confirmation failed.
	RegistrationFailed RegistrationStatus = "failed"
	// RegistrationConfirmed means the anchor transaction was mined.
	RegistrationConfirmed RegistrationStatus = "confirmed"
)

// RegistrationOutcome reports what happened when a badge hash was anchored.
// On RegistrationConfirmed the receipt fields are set; otherwise Reason says
// why not.
type RegistrationOutcome struct {
	Status          RegistrationStatus `json:"status"`
	TxHash          string             `json:"tx_hash,omitempty"`
	BlockNumber     int64              `json:"block_number,omitempty"`
	ContractAddress string             `json:"contract_address,omitempty"`
	Reason          string             `json:"reason,omitempty"`
}

// Confirmed reports whether the anchor transaction was mined.
func (o *RegistrationOutcome) Confirmed() bool {
	return o.Status == RegistrationConfirmed
}

// Registrar anchors badge hashes on the ledger. Badge issuance must never
// fail or block because the ledger is down, so every failure path degrades to
// a non-confirmed outcome instead of an error.
type Registrar struct {
	ledger Ledger
	logger *zap.Logger
}

// NewRegistrar creates a registrar over the given ledger client.
func NewRegistrar(ledger Ledger, logger *zap.Logger) *Registrar {
	return &Registrar{ledger: ledger, logger: logger}
}

func skipped(reason string) *RegistrationOutcome {
	return &RegistrationOutcome{Status: RegistrationSkipped, Reason: reason}
}

func failed(reason string) *RegistrationOutcome {
	return &RegistrationOutcome{Status: RegistrationFailed, Reason: reason}
}

// RegisterBadge computes the canonical hash for data and writes it to the
// registry contract, waiting for confirmation. It never returns an error:
// an unreachable node or undeployed contract yields a skipped outcome, a
// rejected or unconfirmed transaction yields a failed one. The caller is
// responsible for persisting the receipt onto the badge record; this method
// touches no store.
func (r *Registrar) RegisterBadge(ctx context.Context, data BadgeData) *RegistrationOutcome {
	if err := data.Validate(); err != nil {
		// Caller bug, not an environmental condition. Still reported through
		// the outcome so issuance cannot be broken by the anchoring path.
		r.logger.Error("Refusing to anchor invalid badge data", zap.Error(err))
		return failed(err.Error())
	}

	if !r.ledger.ProbeAvailability(ctx) {
		r.logger.Debug("Ledger unavailable, skipping badge anchoring",
			zap.String("badge_id", data.ID),
		)
		return skipped("ledger node unreachable or no contract deployed")
	}

	hash, err := ComputeBadgeHash(data)
	if err != nil {
		r.logger.Error("Badge hash computation failed",
			zap.String("badge_id", data.ID),
			zap.Error(err),
		)
		return failed(err.Error())
	}

	receipt, err := r.ledger.WriteBadgeRecord(ctx, data.ID, common.HexToHash(hash))
	if err != nil {
		r.logger.Warn("Badge anchoring failed",
			zap.String("badge_id", data.ID),
			zap.String("data_hash", hash),
			zap.Error(err),
		)
		return failed(err.Error())
	}

	r.logger.Info("Badge anchored on ledger",
		zap.String("badge_id", data.ID),
		zap.String("data_hash", hash),
		zap.String("tx_hash", receipt.TxHash),
		zap.Int64("block_number", receipt.BlockNumber),
	)

	return &RegistrationOutcome{
		Status:          RegistrationConfirmed,
		TxHash:          receipt.TxHash,
		BlockNumber:     receipt.BlockNumber,
		ContractAddress: receipt.ContractAddress,
	}
}
