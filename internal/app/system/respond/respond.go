// internal/app/system/respond/respond.go

// Package respond writes the JSON result envelope every operation returns:
// {"success":true,"data":...} or {"success":false,"error":...,"code":...}.
// Extra machine-readable context (dependent counts, field names) rides along
// as additional top-level keys so the caller can render a remediation prompt.
package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type envelope map[string]interface{}

// Data writes a success envelope with the given payload.
func Data(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, envelope{"success": true, "data": data})
}

// Err writes a failure envelope with a human-readable message and an optional
// machine-readable code. Extra key/value pairs are merged into the envelope.
func Err(w http.ResponseWriter, status int, message, code string, extra map[string]interface{}) {
	body := envelope{"success": false, "error": message}
	if code != "" {
		body["code"] = code
	}
	for k, v := range extra {
		body[k] = v
	}
	write(w, status, body)
}

// Internal logs err and writes a generic failure carrying no internal detail.
func Internal(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	if log != nil {
		log.Error("internal error", zap.String("op", op), zap.Error(err))
	}
	Err(w, http.StatusInternalServerError, "An internal error occurred.", "INTERNAL", nil)
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
