package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/handlers"
)

func init() { Register(registerOps, adminOnly, adminHostOnly) }

func registerOps(r chi.Router, d deps.Deps) {
	r.Post("/reload", handlers.Reload(d))
	r.Get("/infra", handlers.Infra(d))
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
}
