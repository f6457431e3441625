package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
)

type componentStatus struct {
	OK             bool   `json:"ok"`
	ProductsLoaded *int   `json:"products_loaded,omitempty"`
	Revision       uint64 `json:"revision,omitempty"`
	LastReload     string `json:"last_reload,omitempty"`
	Source         string `json:"source,omitempty"`
	Unsaved        *bool  `json:"unsaved_changes,omitempty"`
	Mode           string `json:"mode,omitempty"`
	Impact         string `json:"impact,omitempty"`
	Error          string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of each component and an overall mode:
// "empty" when the storefront has nothing to show, "degraded" when redis
// is configured but unreachable, "optimal" otherwise.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storefront := d.Storefront.Store()
		published := storefront.Count()
		lastReload := storefront.LastLoad()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		state := d.Admin.State()

		components := map[string]componentStatus{
			"storefront": {
				OK:             published > 0,
				ProductsLoaded: &published,
				Revision:       storefront.Revision(),
				LastReload:     lastReloadStr,
				Source:         d.ProductsSource,
			},
			"admin": {
				OK:             true,
				ProductsLoaded: &state.Count,
				Unsaved:        &state.Dirty,
			},
			"redis": checkRedis(r.Context(), d),
		}

		writeJSON(d, w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	if sf, exists := components["storefront"]; exists && !sf.OK {
		return "empty"
	}
	if redis, exists := components["redis"]; exists && !redis.OK && redis.Mode != "disabled" {
		return "degraded"
	}
	return "optimal"
}

func checkRedis(parent context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "query-cache-and-view-counters-off",
		}
	}

	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "query-cache-and-view-counters-off",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "query-cache-and-view-counters-on",
	}
}
