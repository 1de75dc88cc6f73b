package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse represents the API error response format
type ErrorResponse struct {
	Error     bool   `json:"error"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorHandler handles errors and sends appropriate HTTP responses
type ErrorHandler struct {
	logger *zap.Logger
	debug  bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorHandler{logger: logger, debug: debug}
}

// Handle processes an error and sends an HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	requestID := w.Header().Get("X-Request-ID")
	status := HTTPStatus(err)

	response := ErrorResponse{
		Error:     true,
		Type:      string(ErrorTypeInternal),
		Message:   "An internal error occurred",
		RequestID: requestID,
	}

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", requestID),
		zap.Error(err),
	}

	if appErr := GetAppError(err); appErr != nil && appErr.Type != ErrorTypeInternal {
		response.Type = string(appErr.Type)
		response.Message = appErr.Message
		h.logger.Info("Request rejected", fields...)
	} else {
		h.logger.Error("Request failed", fields...)
		if h.debug {
			response.Message = err.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(response); encErr != nil {
		h.logger.Error("Failed to encode error response", zap.Error(encErr))
	}
}
