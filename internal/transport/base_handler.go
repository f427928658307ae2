package transport

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"

	errors "github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/pkg/logger"
)

const maxBodyBytes = 1 << 20

// Envelope wraps every JSON response.
type Envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Code      string      `json:"code,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Errors    []string    `json:"errors,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	h.WriteJSON(w, status, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}

// WriteError writes an error envelope
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string, errs ...string) {
	h.WriteJSON(w, status, Envelope{
		Success:   false,
		Message:   message,
		Errors:    errs,
		Timestamp: time.Now().UTC(),
	})
}

// HandleServiceError maps an error returned by a service to a response.
// Internal failures are logged in full and reduced to a generic message.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	lg := h.requestLogger(r)

	appErr, ok := errors.IsAppError(err)
	if !ok || appErr.Type == errors.ErrorTypeInternal {
		lg.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		code := string(errors.ErrCodeInternal)
		if ok {
			code = string(appErr.Code)
		}
		h.WriteJSON(w, http.StatusInternalServerError, Envelope{
			Success:   false,
			Message:   "An internal error occurred",
			Code:      code,
			Timestamp: time.Now().UTC(),
		})
		return
	}

	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusBadRequest
	}
	if status >= http.StatusInternalServerError {
		lg.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		lg.Debug("request rejected", "path", r.URL.Path, "code", appErr.Code, "error", err)
	}

	h.WriteJSON(w, status, Envelope{
		Success:   false,
		Message:   appErr.Message,
		Code:      string(appErr.Code),
		Errors:    appErr.FieldMessages(),
		Timestamp: time.Now().UTC(),
	})
}

// requestLogger prefers the logger carrying the request's trace id.
func (h *BaseHandler) requestLogger(r *http.Request) *slog.Logger {
	if logger.Has(r.Context()) {
		return logger.From(r.Context())
	}
	return h.Logger
}

// DecodeJSON reads the request body into dst. Unknown fields are rejected.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return errors.NewValidationError("Request body is empty", errors.ErrCodeInvalidRequest)
		}
		return errors.NewValidationError("Invalid request body", errors.ErrCodeInvalidRequest).WithCause(err)
	}
	return nil
}

// ParseID reads a positive integer URL parameter.
func (h *BaseHandler) ParseID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationFieldError(name, name+" must be a positive integer", errors.ErrCodeInvalidFormat)
	}
	return id, nil
}

// QueryInt64 reads an optional integer query parameter.
func (h *BaseHandler) QueryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.NewValidationFieldError(name, name+" must be an integer", errors.ErrCodeInvalidFormat)
	}
	return &v, nil
}

// QueryString reads an optional query parameter.
func (h *BaseHandler) QueryString(r *http.Request, name string) *string {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	return &raw
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	return ExtractBearerToken(r)
}

func ExtractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}
