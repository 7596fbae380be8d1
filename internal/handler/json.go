package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/oakmill/taskman/internal/apperr"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		_, _ = w.Write([]byte("{}"))
		return
	}
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondError maps an error kind to its HTTP status. Unclassified errors
// are dependency/storage failures: logged in full, reported without detail.
func respondError(w http.ResponseWriter, err error) {
	var status int
	var message string

	switch {
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
		message = errMessage(err, apperr.ErrValidation)
	case errors.Is(err, apperr.ErrAuth):
		status = http.StatusBadRequest
		message = errMessage(err, apperr.ErrAuth)
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
		message = errMessage(err, apperr.ErrNotFound)
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
		message = errMessage(err, apperr.ErrConflict)
	case errors.Is(err, apperr.ErrDependency):
		status = http.StatusBadGateway
		message = "service unavailable"
		slog.Error("dependency failure", "error", err)
	default:
		status = http.StatusInternalServerError
		message = "internal error"
		slog.Error("request failed", "error", err)
	}

	respondJSON(w, status, map[string]string{"error": message})
}

// errMessage strips the trailing ": <kind>" wrap so clients see the
// human-readable part only.
func errMessage(err, kind error) string {
	msg := err.Error()
	suffix := ": " + kind.Error()
	if len(msg) > len(suffix) && msg[len(msg)-len(suffix):] == suffix {
		return msg[:len(msg)-len(suffix)]
	}
	return msg
}

func decodeBody(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}
