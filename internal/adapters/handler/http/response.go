package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// envelope is the body of every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: true, Message: message})
}

// writeError maps a domain error kind to its status code. Internal errors
// are logged with their cause and answered with a generic message.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var derr *domain.Error
	message := domain.ErrInternal.Message
	if errors.As(err, &derr) && derr.Kind != domain.KindInternal {
		message = derr.Message
	}

	var status int
	switch kind := domain.KindOf(err); kind {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindAuth:
		status = http.StatusUnauthorized
	case domain.KindForbidden:
		status = http.StatusForbidden
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindInternal:
		status = http.StatusInternalServerError
		logger.Error("request failed", zap.Error(err))
	default:
		status = http.StatusInternalServerError
		logger.Error("unknown error kind", zap.Stringer("kind", kind), zap.Error(err))
	}
	if status < http.StatusInternalServerError {
		logger.Debug("request rejected", zap.Int("status", status), zap.String("message", message))
	}

	writeJSON(w, status, envelope{Success: false, Message: message})
}

// decodeJSON reads a JSON body into v. An empty body is allowed when optional is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	return domain.Validation("Invalid request body")
}
