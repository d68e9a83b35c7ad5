package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jobtracker/jobtracker-go/internal/model"
	"github.com/jobtracker/jobtracker-go/internal/service"
)

const maxBodyBytes = 1 << 20 // 1MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.MessageResponse{Message: msg})
}

// decodeBody reads a JSON request body into v. Unknown fields are ignored;
// request types only expose the fields a client may set. On failure the
// response has been written and false is returned.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps service errors onto status codes. Anything not
// recognised is a store or runtime failure and is logged, not echoed.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, validationResponse{Message: ve.Error(), Fields: ve.Fields})
	case errors.Is(err, service.ErrEmailTaken):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrNotAuthorized):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrJobNotFound),
		errors.Is(err, service.ErrSkillNotFound),
		errors.Is(err, service.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

type validationResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
