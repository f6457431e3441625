package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/mw"
)

func init() { Register(registerAdmin, adminOnly, adminHostOnly) }

func registerAdmin(r chi.Router, d deps.Deps) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/products", handlers.AdminProducts(d))
		r.Post("/products", handlers.AdminSubmit(d))
		r.Get("/products/{id}", handlers.AdminEdit(d))
		r.Put("/products/{id}", handlers.AdminSubmit(d))
		r.Delete("/products/{id}", handlers.AdminDelete(d))

		r.With(mw.RateLimit(mw.RateLimitConfig{
			Burst:        d.ImportBurst,
			RefillPerMin: d.ImportRefill,
			MaxEntries:   1024,
			TrustProxy:   d.TrustProxy,
		})).Post("/import", handlers.AdminImport(d))
		r.Get("/export", handlers.AdminExport(d))
		r.Get("/export/text", handlers.AdminExportText(d))
		r.Post("/save", handlers.AdminSave(d))

		r.Post("/new", handlers.AdminNew(d))
		r.Post("/cancel", handlers.AdminCancel(d))
		r.Post("/shortcut", handlers.AdminShortcut(d))
		r.Get("/session", handlers.AdminSession(d))
		r.Get("/stats", handlers.AdminStats(d))
	})
}
