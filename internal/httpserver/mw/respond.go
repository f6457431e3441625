package mw

import (
	"encoding/json"
	"net/http"
)

// notice mirrors the admin notification body so rejected requests read
// the same as failed commands.
type notice struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func writeNotice(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(notice{Type: "error", Message: message})
}

func writeForbidden(w http.ResponseWriter) {
	writeNotice(w, http.StatusForbidden, "Forbidden")
}
