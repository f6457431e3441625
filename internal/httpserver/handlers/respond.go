package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/admin"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

func writeJSON(d deps.Deps, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		d.Logger.Debug("failed to write response", logger.Error(err))
	}
}

func writeNotice(d deps.Deps, w http.ResponseWriter, status int, n admin.Notice) {
	writeJSON(d, w, status, n)
}

func badRequest(d deps.Deps, w http.ResponseWriter, msg string) {
	writeNotice(d, w, http.StatusBadRequest, admin.Notice{Type: admin.NoticeError, Message: msg})
}

// pathID reads the {id} URL parameter.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}

func hasPathID(r *http.Request) bool {
	return chi.URLParam(r, "id") != ""
}
