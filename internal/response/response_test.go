package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"badgeflow/internal/contextutils"
	"badgeflow/internal/models"
	"badgeflow/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) *APIResponse {
	t.Helper()
	var envelope APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return &envelope
}

func TestWriteSuccessEnvelope(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(contextutils.WithRequestID(req.Context(), "req-1"))

	builder.WriteSuccess(rec, req, map[string]string{"hello": "world"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	envelope := decodeEnvelope(t, rec)
	assert.True(t, envelope.Success)
	assert.Equal(t, "req-1", envelope.RequestID)
	assert.Equal(t, "v1", envelope.Version)
	assert.NotZero(t, envelope.Timestamp)
}

func TestWriteErrorMapsStatusCodes(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	cases := []struct {
		err  error
		code int
	}{
		{services.NewValidationError("bad input", nil), http.StatusBadRequest},
		{services.NewUnauthorizedError("no token"), http.StatusUnauthorized},
		{services.NewForbiddenError("nope"), http.StatusForbidden},
		{services.NewNotFoundError("missing"), http.StatusNotFound},
		{services.NewConflictError("dup", "MISSION_ALREADY_COMPLETED"), http.StatusConflict},
		{services.NewInternalError("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		builder.WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)

		assert.Equal(t, tc.code, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.False(t, envelope.Success)
		require.NotNil(t, envelope.Error)
	}
}

func TestInternalErrorsAreMasked(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	rec := httptest.NewRecorder()
	builder.WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil),
		services.NewInternalError("pool exhausted on conn 17"))

	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "An internal error occurred", envelope.Error.Message)
	assert.NotContains(t, rec.Body.String(), "pool exhausted")
}

func TestConflictCarriesCode(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	rec := httptest.NewRecorder()
	builder.WriteError(rec, httptest.NewRequest(http.MethodPost, "/", nil),
		services.NewConflictError("mission already completed", "MISSION_ALREADY_COMPLETED"))

	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "CONFLICT", envelope.Error.Type)
	assert.Equal(t, "MISSION_ALREADY_COMPLETED", envelope.Error.Code)
}

func TestWriteNoContent(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	rec := httptest.NewRecorder()
	builder.WriteNoContent(rec, httptest.NewRequest(http.MethodDelete, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestWritePaginatedResponse(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())

	page := models.NewPaginatedResponse([]string{"a", "b"}, 5, models.PaginationParams{Limit: 2, Offset: 0})

	rec := httptest.NewRecorder()
	WritePaginatedResponse(builder, rec, httptest.NewRequest(http.MethodGet, "/", nil), page)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data models.PaginatedResponse[string] `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, int64(5), envelope.Data.Total)
	assert.True(t, envelope.Data.HasMore)
	assert.Equal(t, 3, envelope.Data.TotalPages)
}
