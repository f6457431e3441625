package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/admin"
	"github.com/MrSnakeDoc/shelf/internal/catalog"
	"github.com/MrSnakeDoc/shelf/internal/config"
	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/metrics"
	"github.com/MrSnakeDoc/shelf/internal/storefront"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	front := catalog.NewStore()
	if err := front.LoadJSON([]byte(`[{"id":1,"name":"Lamp","description":"Desk lamp","price":12,"category":"home"}]`)); err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	tax := domain.DefaultTaxonomy()

	cfg := &config.Config{
		RequestTimeout: 5 * time.Second,
		CORSOrigins:    []string{"*"},
	}
	d := deps.Deps{
		Logger:        logger.Nop(),
		StartTime:     time.Now(),
		AdminCIDRs:    []string{"10.0.0.0/8"},
		Storefront:    storefront.NewCatalog(front, tax, nil, 0, logger.Nop()),
		Admin:         admin.NewSession(catalog.NewStore(), tax, nil, nil),
		Taxonomy:      tax,
		Metrics:       metrics.New(),
		ReloadTrigger: make(chan struct{}, 1),
	}
	return NewRouter(cfg, logger.Nop(), d)
}

func TestRouter_Access(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		remoteAddr string
		wantStatus int
	}{
		{"healthz is open", http.MethodGet, "/healthz", "192.0.2.1:4000", http.StatusOK},
		{"readyz is open", http.MethodGet, "/readyz", "192.0.2.1:4000", http.StatusOK},
		{"storefront is open", http.MethodGet, "/api/store/products", "192.0.2.1:4000", http.StatusOK},
		{"products.json is open", http.MethodGet, "/products.json", "192.0.2.1:4000", http.StatusOK},
		{"admin from outside", http.MethodGet, "/api/admin/session", "192.0.2.1:4000", http.StatusForbidden},
		{"admin from inside", http.MethodGet, "/api/admin/session", "10.1.2.3:4000", http.StatusOK},
		{"metrics from outside", http.MethodGet, "/metrics", "192.0.2.1:4000", http.StatusForbidden},
		{"metrics from inside", http.MethodGet, "/metrics", "10.1.2.3:4000", http.StatusOK},
		{"reload from inside", http.MethodPost, "/reload", "10.1.2.3:4000", http.StatusAccepted},
		{"unknown route", http.MethodGet, "/nope", "192.0.2.1:4000", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.RemoteAddr = tt.remoteAddr
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouter_CORSAndHead(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/store/products", nil)
	req.Header.Set("Origin", "https://shop.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("preflight status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}

	req = httptest.NewRequest(http.MethodHead, "/api/store/products", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("HEAD status = %d, want 200", w.Code)
	}
}

func TestRouter_StorefrontBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/store/products?category=home", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, `"name":"Lamp"`) || !strings.Contains(body, "£12.00") {
		t.Errorf("unexpected body: %s", body)
	}
}
