package httpapi

import (
	"encoding/json"
	"net/http"
)

// error codes surfaced in the envelope; stable strings the frontend
// can switch on
const (
	codeInternal      = "internal_error"
	codeInvalidID     = "invalid_id"
	codeInvalidJSON   = "invalid_json"
	codeListFailed    = "list_failed"
	codeDeleteFailed  = "delete_failed"
	codeStatusFailed  = "status_failed"
	codeKeyringFailed = "keyring_failed"
	codeStreamUnsupp  = "stream_unsupported"
)

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteJSON(w, status, errorEnvelope{Error: apiError{
		Code:      code,
		Message:   message,
		RequestID: RequestIDFrom(r.Context()),
	}})
}
