package blockchain

import (
	"context"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"
)

// VerificationStatus is the terminal outcome of comparing a badge's current
// store data against its on-chain anchor.
type VerificationStatus string

const (
	// StatusUnavailable: node unreachable, no contract deployed, or the read
	// call failed. Nothing can be concluded about the badge.
	StatusUnavailable VerificationStatus = "unavailable"
	// StatusNotRegistered: ledger reachable but no record exists for this id.
	StatusNotRegistered VerificationStatus = "not_registered"
	// StatusVerified: the on-chain digest equals the freshly computed digest.
	StatusVerified VerificationStatus = "verified"
	// StatusMismatch: an anchor exists but differs from the recomputed digest.
	// Terminal and non-retryable; either tampering or a hash-input bug.
	StatusMismatch VerificationStatus = "mismatch"
)

// VerificationResult carries everything a caller needs to render or act on a
// verification: the computed hash is always present, the on-chain fields only
// when a record exists.
type VerificationResult struct {
	Status       VerificationStatus `json:"status"`
	OnChainHash  *string            `json:"onChainHash"`
	ComputedHash string             `json:"computedHash"`
	Issuer       *string            `json:"issuer"`
	Timestamp    *int64             `json:"timestamp"`
	Message      string             `json:"message"`
}

// Verifier checks badges against their on-chain anchors. It performs no
// writes and is safe to call concurrently and repeatedly for the same badge.
type Verifier struct {
	ledger Ledger
	logger *zap.Logger
}

// NewVerifier creates a verifier over the given ledger client.
func NewVerifier(ledger Ledger, logger *zap.Logger) *Verifier {
	return &Verifier{ledger: ledger, logger: logger}
}

// VerifyBadge recomputes the canonical hash from data and compares it against
// the registry record. The caller supplies the badge's current primary-store
// fields, never a cached hash; tampering with the store changes the computed
// hash and shows up as a mismatch. It never returns an error; every failure
// mode maps to one of the four statuses.
func (v *Verifier) VerifyBadge(ctx context.Context, data BadgeData) *VerificationResult {
	computed, err := ComputeBadgeHash(data)
	if err != nil {
		v.logger.Error("Badge hash computation failed during verification",
			zap.String("badge_id", data.ID),
			zap.Error(err),
		)
		return &VerificationResult{
			Status:  StatusUnavailable,
			Message: "Could not compute badge hash.",
		}
	}

	result := &VerificationResult{ComputedHash: computed}

	if !v.ledger.ProbeAvailability(ctx) {
		result.Status = StatusUnavailable
		result.Message = "Ledger node is not reachable or no registry contract is deployed."
		return result
	}

	record, err := v.ledger.ReadBadgeRecord(ctx, data.ID)
	if err != nil {
		v.logger.Warn("On-chain badge lookup failed",
			zap.String("badge_id", data.ID),
			zap.Error(err),
		)
		result.Status = StatusUnavailable
		result.Message = "Failed to read the on-chain badge record."
		return result
	}

	if !record.Exists {
		result.Status = StatusNotRegistered
		result.Message = "Badge not found on the ledger."
		return result
	}

	onChain := hexutil.Encode(record.DataHash[:])
	issuer := record.Issuer.Hex()
	timestamp := record.Timestamp
	result.OnChainHash = &onChain
	result.Issuer = &issuer
	result.Timestamp = &timestamp

	if onChain == computed {
		result.Status = StatusVerified
		result.Message = "Badge data matches the on-chain record."
		return result
	}

	// Must be visible to an operator, not silently absorbed into a response.
	v.logger.Warn("Badge data does not match its on-chain anchor",
		zap.String("badge_id", data.ID),
		zap.String("computed_hash", computed),
		zap.String("on_chain_hash", onChain),
		zap.String("issuer", issuer),
	)
	result.Status = StatusMismatch
	result.Message = "WARNING: badge data does not match the on-chain record."
	return result
}
