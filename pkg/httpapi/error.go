package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/folioworks/vitae/pkg/composables"
)

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

// WriteError answers with the standard envelope. When the request carries a
// request id the envelope's meta echoes it, so clients can quote it back.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) error {
	var meta map[string]string
	if r != nil {
		if requestID := composables.UseRequestID(r.Context()); requestID != "" {
			meta = map[string]string{"request_id": requestID}
		}
	}
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}
