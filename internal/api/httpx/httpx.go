package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/oyilmaz/ratehub/internal/apperr"
)

type APIError struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// WriteAppError renders any error through the taxonomy mapping. Internal
// errors are logged and masked.
func WriteAppError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	code := apperr.CodeOf(err)
	msg := err.Error()
	var details interface{}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		details = ae.Details
	}
	if code == apperr.CodeInternal {
		slog.Error("internal error", "err", err)
		msg = "internal error"
	}
	WriteError(w, status, string(code), msg, details)
}

// Decode unmarshals a JSON request body, turning malformed input into a
// validation error.
func Decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("malformed request body", nil)
	}
	return nil
}
