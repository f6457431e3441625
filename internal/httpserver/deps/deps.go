package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/shelf/internal/admin"
	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/metrics"
	"github.com/MrSnakeDoc/shelf/internal/storefront"
	redisstore "github.com/MrSnakeDoc/shelf/internal/store/redis"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time     // for testing, defaults to time.Now
	AllowedHosts   []string             // Host headers allowed on admin routes
	AdminCIDRs     []string             // IPs allowed on admin and reload routes
	TrustProxy     bool                 // true if running behind a trusted reverse proxy (e.g., cloudflared)
	ProductsSource string               // where the storefront catalog is read from
	Storefront     *storefront.Catalog  // published, read-only catalog
	Admin          *admin.Session       // admin working copy and editor state
	Taxonomy       *domain.Taxonomy     // categories and keyword table
	Cache          *redisstore.Store    // nil when redis is disabled
	RedisClient    *redis.Client        // nil when redis is disabled
	Metrics        *metrics.Metrics     // nil disables metrics
	ReloadTrigger  chan struct{}        // Channel to trigger a storefront reload
	MaxImportBytes int64                // upload limit for admin imports
	ImportBurst    int                  // import requests allowed back to back per client
	ImportRefill   int                  // import tokens regained per minute per client
}

// Now returns the current time through TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
