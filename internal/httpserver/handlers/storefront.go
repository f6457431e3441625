package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/shelf/internal/admin"
	"github.com/MrSnakeDoc/shelf/internal/catalog"
	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/storefront"
	"github.com/MrSnakeDoc/shelf/internal/transfer"
)

// StoreProducts lists the visible products. "category" is the category
// button, "dropdown" the category select and "q" the search text.
func StoreProducts(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		criteria := domain.Criteria{
			Button:   q.Get("category"),
			Dropdown: q.Get("dropdown"),
			Query:    q.Get("q"),
		}

		visible, hit := d.Storefront.Search(r.Context(), criteria)
		if d.Cache != nil {
			d.Metrics.ObserveCacheLookup(hit)
			if hit {
				w.Header().Set("X-Cache", "HIT")
			} else {
				w.Header().Set("X-Cache", "MISS")
			}
		}

		writeJSON(d, w, http.StatusOK, storefront.GridOf(visible))
	}
}

// StoreProduct renders the detail view of one product and counts the
// view when redis is available.
func StoreProduct(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			badRequest(d, w, "Invalid product id")
			return
		}

		detail, err := d.Storefront.Product(id)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, catalog.ErrNotFound) {
				status = http.StatusNotFound
			}
			writeNotice(d, w, status, admin.Notice{Type: admin.NoticeError, Message: "Product not found"})
			return
		}

		if d.Cache != nil {
			if _, err := d.Cache.IncrementViews(r.Context(), id); err != nil {
				d.Logger.Debug("failed to count product view",
					logger.Int("id", id),
					logger.Error(err))
			}
		}

		writeJSON(d, w, http.StatusOK, detail)
	}
}

type categoryOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// StoreCategories lists the category selector options, "all" first.
func StoreCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tax := d.Storefront.Taxonomy()
		options := []categoryOption{{Key: domain.CategoryAll, Label: "All"}}
		if tax != nil {
			for _, c := range tax.Categories {
				options = append(options, categoryOption{Key: c.Key, Label: c.Label})
			}
		}
		writeJSON(d, w, http.StatusOK, options)
	}
}

// ProductsJSON serves the published catalog as the static products.json.
func ProductsJSON(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := transfer.ExportJSON(d.Storefront.Store().All())
		if err != nil {
			d.Logger.Error("failed to render products.json", logger.Error(err))
			writeNotice(d, w, http.StatusInternalServerError, admin.Notice{Type: admin.NoticeError, Message: "Error loading products"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		if _, err := w.Write(data); err != nil {
			d.Logger.Debug("failed to write response", logger.Error(err))
		}
	}
}
