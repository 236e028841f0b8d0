package blockchain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// BadgeData is the immutable identity of an earned badge. These five fields,
// and only these five, feed the canonical hash; cosmetic badge metadata
// (color, icon, category) can change without affecting on-chain verification.
type BadgeData struct {
	ID        string `json:"id"`
	MissionID string `json:"mission_id"`
	UserID    string `json:"user_id"`
	BadgeName string `json:"badge_name"`
	EarnedAt  string `json:"earned_at"`
}

// Validate rejects tuples that cannot be anchored or looked up on-chain.
// Empty strings are legal hash inputs for every field except ID, which is the
// contract's lookup key. A failure here is a caller bug, not an environmental
// condition, and must surface before any ledger interaction.
func (d BadgeData) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("badge data: id is required")
	}
	return nil
}

// stringArgs encodes five dynamic strings the same way
// AbiCoder.defaultAbiCoder().encode(["string"×5], ...) does, so hashes stay
// comparable with anchors written by other clients of the same contract.
var stringArgs abi.Arguments

func init() {
	stringType, err := abi.NewType("string", "", nil)
	if err != nil {
		panic(fmt.Sprintf("blockchain: building string ABI type: %v", err))
	}
	stringArgs = abi.Arguments{
		{Name: "id", Type: stringType},
		{Name: "missionId", Type: stringType},
		{Name: "userId", Type: stringType},
		{Name: "badgeName", Type: stringType},
		{Name: "earnedAt", Type: stringType},
	}
}

// ComputeBadgeHash derives the canonical digest for a badge: the five identity
// fields ABI-encoded in order as dynamic strings, then Keccak-256. The result
// is a lowercase 0x-prefixed 66-character hex string. Pure function; identical
// input always yields identical output.
func ComputeBadgeHash(data BadgeData) (string, error) {
	encoded, err := stringArgs.Pack(
		data.ID,
		data.MissionID,
		data.UserID,
		data.BadgeName,
		data.EarnedAt,
	)
	if err != nil {
		return "", fmt.Errorf("encoding badge data: %w", err)
	}
	return hexutil.Encode(crypto.Keccak256(encoded)), nil
}
