package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/bank-cards/internal/apperror"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Timestamp        time.Time         `json:"timestamp"`
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Path             string            `json:"path"`
	ValidationErrors map[string]string `json:"validation_errors,omitempty"`
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindUnauthorized, apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindInvalidOperation, apperror.KindInsufficientFunds, apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperror.KindTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError replies with the status and body for err. Internal errors are
// logged and their details are hidden from the client.
func WriteError(w http.ResponseWriter, r *http.Request, log *logrus.Logger, err error) {
	kind := apperror.KindOf(err)
	status := StatusFor(kind)
	body := ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   err.Error(),
		Path:      r.URL.Path,
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		body.Message = appErr.Message
		if kind == apperror.KindValidation && len(appErr.Fields) > 0 {
			body.ValidationErrors = make(map[string]string, len(appErr.Fields))
			for k, v := range appErr.Fields {
				if s, ok := v.(string); ok {
					body.ValidationErrors[k] = s
				}
			}
		}
	}
	if status >= http.StatusInternalServerError {
		entry := log.WithError(err).WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path})
		if appErr != nil {
			entry = entry.WithFields(logrus.Fields(appErr.Fields))
		}
		entry.Error("Request failed")
		if kind == apperror.KindInternal {
			body.Message = "An unexpected internal server error occurred"
		}
	}
	WriteJSON(w, status, body)
}
