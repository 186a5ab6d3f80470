package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mpidash/internal/middleware"
	"mpidash/internal/shared/testutil"
)

func TestClientLogHandler_Handle(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedLevel  slog.Level
		expectedCode   string
	}{
		{
			name:           "valid log entry",
			body:           `{"level":"info","message":"map rendered","view":"map","data":{"points":3}}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelInfo,
		},
		{
			name:           "error level",
			body:           `{"level":"error","message":"chart failed"}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelError,
		},
		{
			name:           "missing level defaults to info",
			body:           `{"message":"no level"}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelInfo,
		},
		{
			name:           "invalid JSON",
			body:           `{"level":`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name:           "unknown level",
			body:           `{"level":"fatal","message":"x"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_FAILED",
		},
		{
			name:           "missing message",
			body:           `{"level":"info"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			validation := middleware.NewValidationMiddleware(logger, nil)
			handler := NewClientLogHandler(validation, logger)

			req := httptest.NewRequest(http.MethodPost, "/api/log", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handler.Handle(rec, req)

			require.Equal(t, tt.expectedStatus, rec.Code)
			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))

			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, true, response["success"])
				assert.Len(t, logs.GetRecordsByLevel(tt.expectedLevel), 1)
				return
			}
			assert.Equal(t, false, response["success"])
			errorData, ok := response["error"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.expectedCode, errorData["error_code"])
		})
	}
}

func TestClientLogHandler_LargePayload(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewClientLogHandler(nil, logger)

	data := make(map[string]interface{})
	for i := 0; i < 100; i++ {
		data[strings.Repeat("k", i+1)] = i
	}
	body, err := json.Marshal(map[string]interface{}{"level": "debug", "message": "big", "data": data})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/log", bytes.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)
}
