package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"predefined invalid request", ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format"},
		{"invalid request with cause", InvalidRequestWithError(stderrors.New("unexpected EOF")), http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format"},
		{"field validation", ErrValidation("top_n", "top_n must be at most 20"), http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed"},
		{"export", ExportError(stderrors.New("disk full")), http.StatusInternalServerError, "EXPORT_FAILED", "CSV export failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestAPIErrorDetails(t *testing.T) {
	err := ErrValidation("agg_mode", "agg_mode must be one of: count, cost")
	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "agg_mode", detail.Field)

	multi := NewValidationErrors([]ValidationError{{Field: "top_n"}, {Field: "agg_mode"}})
	assert.Len(t, multi.Details.(ValidationErrors).Errors, 2)
}

func TestAPIErrorRender(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/dashboard/kpis", nil)

	require.NoError(t, render.Render(w, r, NewErrorResponse(ErrInvalidRequest)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "INVALID_REQUEST", body["error"].(map[string]interface{})["error_code"])
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, ExportError(stderrors.New("disk full")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"EXPORT_FAILED"`)
	assert.Contains(t, w.Body.String(), "disk full")
}

func TestProblemDetailsMarshal(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "top_n too large", "/api/dashboard/ranking").
		WithExtension("trace_id", "abc").
		WithExtension("status", 999)

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, TypeValidation, body["type"])
	assert.Equal(t, float64(400), body["status"], "standard members win over extensions")
	assert.Equal(t, "abc", body["trace_id"])
	assert.Equal(t, "/api/dashboard/ranking", body["instance"])

	bare, err := json.Marshal(&ProblemDetails{Type: TypeInternal, Title: "x", Status: 500})
	require.NoError(t, err)
	assert.NotContains(t, string(bare), "detail")
}
