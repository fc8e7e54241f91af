package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// ErrorHandler provides centralized error handling for HTTP responses
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError converts any error to a structured API response and renders it
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	apiErr := h.toAPIError(err)

	// The request ID middleware echoes the ID on the response header.
	reqID := w.Header().Get("X-Request-ID")
	if apiErr.StatusCode >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("request_id", reqID),
			slog.String("path", r.URL.Path),
			slog.String("error_code", apiErr.ErrorCode),
			slog.String("error", err.Error()))
	} else {
		h.logger.WarnContext(r.Context(), "request rejected",
			slog.String("request_id", reqID),
			slog.String("path", r.URL.Path),
			slog.String("error_code", apiErr.ErrorCode),
			slog.String("error", err.Error()))
	}

	render.Status(r, apiErr.StatusCode)
	render.JSON(w, r, NewErrorResponse(apiErr))
}

// toAPIError maps application errors onto API errors. The claims error
// taxonomy has two user-facing kinds: the data source missing notice and
// the generic processing failure.
func (h *ErrorHandler) toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrTypeDataSource:
			return DataSourceNotFoundError(appErr)
		case ErrTypeNotFound:
			return NotFoundError(appErr.Message)
		case ErrTypeValidation:
			return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", appErr.Message, nil)
		default:
			return ProcessingError(appErr)
		}
	}

	return ProcessingError(err)
}
