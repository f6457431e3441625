package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/handlers"
)

func init() { Register(registerStorefront) }

func registerStorefront(r chi.Router, d deps.Deps) {
	r.Get("/products.json", handlers.ProductsJSON(d))
	r.Route("/api/store", func(r chi.Router) {
		r.Get("/products", handlers.StoreProducts(d))
		r.Get("/products/{id}", handlers.StoreProduct(d))
		r.Get("/categories", handlers.StoreCategories(d))
	})
}
