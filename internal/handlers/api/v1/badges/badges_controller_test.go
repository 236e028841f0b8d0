package badges

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"badgeflow/internal/blockchain"
	"badgeflow/internal/models"
	"badgeflow/internal/response"
	"badgeflow/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubBadgeService serves one known badge and a canned verification result.
type stubBadgeService struct {
	badge  *models.EarnedBadge
	verify *services.VerifyBadgeResponse
}

func (s *stubBadgeService) ListByUser(context.Context, string) ([]models.EarnedBadge, error) {
	return []models.EarnedBadge{*s.badge}, nil
}

func (s *stubBadgeService) GetByID(_ context.Context, id string) (*models.EarnedBadge, error) {
	if id == s.badge.ID {
		return s.badge, nil
	}
	return nil, services.EntityNotFoundError("badge", id)
}

func (s *stubBadgeService) Delete(context.Context, string) error { return nil }

func (s *stubBadgeService) ResetByUser(context.Context, string) (int64, error) { return 0, nil }

func (s *stubBadgeService) Verify(_ context.Context, id string) (*services.VerifyBadgeResponse, error) {
	if id == s.badge.ID {
		return s.verify, nil
	}
	return nil, services.EntityNotFoundError("badge", id)
}

func (s *stubBadgeService) NetworkInfo() blockchain.NetworkInfo {
	return blockchain.NetworkInfo{Network: "localhost"}
}

var _ services.BadgeService = (*stubBadgeService)(nil)

func newVerifyFixture(verify *services.VerifyBadgeResponse) *BadgeController {
	badge := &models.EarnedBadge{
		ID:        "badge-001",
		MissionID: "mission-1",
		UserID:    "user-1",
		BadgeName: "Reading Master",
		EarnedAt:  "2025-01-15T10:00:00.000Z",
	}
	verify.Badge = badge

	sc := &services.ServiceCollection{
		BadgeService: &stubBadgeService{badge: badge, verify: verify},
	}
	builder := response.NewBuilder(response.DefaultConfig(), zap.NewNop())
	return NewBadgeController(sc, zap.NewNop(), builder)
}

func TestVerifyBadgeWireFormat(t *testing.T) {
	onChain := "0xabcdef0000000000000000000000000000000000000000000000000000000000"
	controller := newVerifyFixture(&services.VerifyBadgeResponse{
		Status:       blockchain.StatusVerified,
		OnChainHash:  &onChain,
		ComputedHash: onChain,
		Message:      "Badge data matches the on-chain record.",
		Network:      "localhost",
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/verify/badge-001", nil)
	controller.VerifyBadge(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))

	// camelCase contract fields expected by verification clients
	for _, key := range []string{
		"status", "onChainHash", "computedHash", "issuer", "timestamp",
		"message", "txHash", "blockNumber", "contractAddress",
		"network", "explorerUrl", "badge",
	} {
		assert.Contains(t, payload, key)
	}

	var status string
	require.NoError(t, json.Unmarshal(payload["status"], &status))
	assert.Equal(t, "verified", status)
}

func TestVerifyBadgeAllStatusesReturn200(t *testing.T) {
	for _, status := range []blockchain.VerificationStatus{
		blockchain.StatusUnavailable,
		blockchain.StatusNotRegistered,
		blockchain.StatusVerified,
		blockchain.StatusMismatch,
	} {
		controller := newVerifyFixture(&services.VerifyBadgeResponse{Status: status, Network: "localhost"})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/verify/badge-001", nil)
		controller.VerifyBadge(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, "status %s must not be an HTTP error", status)
	}
}

func TestVerifyBadgeUnknownIDIs404(t *testing.T) {
	controller := newVerifyFixture(&services.VerifyBadgeResponse{Status: blockchain.StatusVerified})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/verify/missing", nil)
	controller.VerifyBadge(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBadgeIsPublic(t *testing.T) {
	controller := newVerifyFixture(&services.VerifyBadgeResponse{Status: blockchain.StatusVerified})

	// No auth context attached.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/badges/badge-001", nil)
	controller.GetBadge(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExtractIDFromPath(t *testing.T) {
	assert.Equal(t, "badge-001", extractIDFromPath("/api/v1/verify/badge-001", 4))
	assert.Equal(t, "badge-001", extractIDFromPath("/api/v1/badges/badge-001", 4))
	assert.Equal(t, "", extractIDFromPath("/api/v1/verify", 4))
}
