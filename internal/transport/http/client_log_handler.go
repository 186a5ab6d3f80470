package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "mpidash/internal/errors"
	"mpidash/internal/infrastructure"
)

// ClientLogHandler lets the dashboard UI forward its own log lines into the
// service log.
type ClientLogHandler struct {
	validator RequestValidator
	logger    *slog.Logger
}

// NewClientLogHandler creates a new client log handler
func NewClientLogHandler(validator RequestValidator, logger *slog.Logger) *ClientLogHandler {
	return &ClientLogHandler{
		validator: validator,
		logger:    logger.With(slog.String("handler", "client_log")),
	}
}

// LogRequest represents a client log entry
type LogRequest struct {
	Level   string                 `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Message string                 `json:"message" validate:"required,max=2000"`
	View    string                 `json:"view,omitempty" validate:"omitempty,max=64"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// Handle handles POST /api/log
func (h *ClientLogHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		apierrors.WriteError(w, apierrors.InvalidRequestWithError(err))
		return
	}
	if h.validator != nil {
		if err := h.validator.ValidateStruct(req); err != nil {
			if apiErr, ok := err.(*apierrors.APIError); ok {
				apierrors.WriteError(w, apiErr)
				return
			}
			apierrors.WriteError(w, apierrors.InvalidRequestWithError(err))
			return
		}
	}

	attrs := []slog.Attr{
		slog.String("source", "client"),
		slog.String("view", req.View),
	}
	if req.Data != nil {
		attrs = append(attrs, slog.Any("data", req.Data))
	}
	h.logger.LogAttrs(r.Context(), infrastructure.ParseLogLevel(req.Level), req.Message, attrs...)

	render.JSON(w, r, map[string]interface{}{"success": true})
}
