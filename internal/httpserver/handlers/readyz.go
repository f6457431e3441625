package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready    bool   `json:"ready"`
	Products int    `json:"products"`
	Reason   string `json:"reason,omitempty"`
}

// Readyz reports ready once the storefront catalog has been loaded at
// least once, even when it loaded empty.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")

		store := d.Storefront.Store()
		if store.LastLoad().IsZero() {
			writeJSON(d, w, http.StatusServiceUnavailable, readyzResponse{
				Reason: "catalog not loaded yet",
			})
			return
		}
		writeJSON(d, w, http.StatusOK, readyzResponse{
			Ready:    true,
			Products: store.Count(),
		})
	}
}
