package errors

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAPIError(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")

	assert.Equal(t, "bad input", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", err.ErrorCode)
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("limit", "must be a positive integer")

	require.NotNil(t, err.Details)
	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "limit", detail.Field)
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	problem := NewProblemDetails(
		http.StatusServiceUnavailable,
		TypeSnapshotNotReady,
		"Snapshot Not Ready",
		"No dashboard snapshot available yet",
		"/api/dashboard/summary",
	).WithExtension("trace_id", "abc123")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, TypeSnapshotNotReady, decoded["type"])
	assert.Equal(t, float64(http.StatusServiceUnavailable), decoded["status"])
	assert.Equal(t, "abc123", decoded["trace_id"])
}

func TestErrorToProblem(t *testing.T) {
	h := NewErrorHandler(testLogger(), false)
	r := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil)

	t.Run("api error maps to domain type", func(t *testing.T) {
		problem := h.ErrorToProblem(ErrSnapshotNotReady, r)
		assert.Equal(t, TypeSnapshotNotReady, problem.Type)
		assert.Equal(t, http.StatusServiceUnavailable, problem.Status)
	})

	t.Run("refresh error carries cause", func(t *testing.T) {
		problem := h.ErrorToProblem(RefreshError(assert.AnError), r)
		assert.Equal(t, TypeRefreshFailed, problem.Type)
		assert.Equal(t, assert.AnError.Error(), problem.Extensions["details"])
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		problem := h.ErrorToProblem(assert.AnError, r)
		assert.Equal(t, TypeInternal, problem.Type)
		assert.Equal(t, http.StatusInternalServerError, problem.Status)
	})
}

func TestHandleError(t *testing.T) {
	h := NewErrorHandler(testLogger(), false)
	r := httptest.NewRequest(http.MethodGet, "/api/dashboard/summary", nil)
	w := httptest.NewRecorder()

	h.HandleError(w, r, ErrSnapshotNotReady)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	assert.Equal(t, "SNAPSHOT_NOT_READY", decoded["error_code"])
}
