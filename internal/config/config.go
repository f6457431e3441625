package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline enforced by the router

	LogLevel      string // "debug" | "info" | "warn" | "error"
	PrettyLog     bool   // true => colored console, false => JSON
	LogFile       string // optional rotated JSON log file
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	ProductsFile   string        // products.json served to the storefront and written by admin saves
	ProductsURL    string        // optional remote products.json, read-only (takes precedence for loading)
	TaxonomyFile   string        // optional YAML category/keyword table
	ReloadInterval time.Duration // storefront reload period (0 = manual only)
	FetchTimeout   time.Duration // timeout for ProductsURL requests
	MaxImportBytes int64         // upload size limit for admin imports

	// Redis (optional, empty address disables the query cache and view counters)
	RedisAddr           string
	RedisUser           string
	RedisPassword       string
	RedisDB             int
	RedisDT             time.Duration // dial timeout
	RedisRT             time.Duration // read timeout
	RedisWT             time.Duration // write timeout
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt
	RedisPoolSize       int
	RedisConnectTimeout time.Duration // total time spent retrying the first connection
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisWarnThreshold  int           // warn after this many attempts
	CacheTTL            time.Duration // lifetime of cached storefront queries

	AllowedHosts []string // optional, restrict admin routes to these Host headers
	AdminCIDRs   []string // optional, restrict admin routes to these IPs / CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For style headers
	CORSOrigins  []string // Access-Control-Allow-Origin values, "*" by default

	ImportBurst        int // import requests allowed back to back per client
	ImportRefillPerMin int // import tokens regained per minute per client
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SHELF_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SHELF_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("SHELF_REQUEST_TIMEOUT", 10*time.Second),

		// Logging
		LogLevel:      getenv("SHELF_LOG_LEVEL", "info"),
		PrettyLog:     mustBool("SHELF_PRETTY_LOG", true),
		LogFile:       getenv("SHELF_LOG_FILE", ""),
		LogMaxSizeMB:  getenvInt("SHELF_LOG_MAX_SIZE_MB", 64),
		LogMaxBackups: getenvInt("SHELF_LOG_MAX_BACKUPS", 7),
		LogMaxAgeDays: getenvInt("SHELF_LOG_MAX_AGE_DAYS", 7),

		// Catalog sources
		ProductsFile:   getenv("SHELF_PRODUCTS_FILE", "products.json"),
		ProductsURL:    getenv("SHELF_PRODUCTS_URL", ""),
		TaxonomyFile:   getenv("SHELF_TAXONOMY_FILE", ""),
		ReloadInterval: mustDuration("SHELF_RELOAD_INTERVAL", 5*time.Minute),
		FetchTimeout:   mustDuration("SHELF_FETCH_TIMEOUT", 10*time.Second),
		MaxImportBytes: getenvInt64("SHELF_MAX_IMPORT_BYTES", 5<<20),

		// Redis settings
		RedisAddr:           getenv("SHELF_REDIS_ADDR", ""),
		RedisUser:           getenv("SHELF_REDIS_USERNAME", ""),
		RedisPassword:       getenv("SHELF_REDIS_PASSWORD", ""),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),
		CacheTTL:            mustDuration("SHELF_CACHE_TTL", 10*time.Minute),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("SHELF_ALLOWED_HOSTS", "")),
		AdminCIDRs:   parseAllowedIPs(getenv("SHELF_ADMIN_CIDRS", "")),
		TrustProxy:   mustBool("SHELF_TRUST_PROXY", false),
		CORSOrigins:  splitAndTrim(getenv("SHELF_CORS_ORIGINS", "*")),

		ImportBurst:        getenvInt("SHELF_IMPORT_BURST", 5),
		ImportRefillPerMin: getenvInt("SHELF_IMPORT_REFILL_PER_MIN", 10),
	}

	if cfg.RedisAddr != "" {
		cfg.RedisDB = requireEnvInt("SHELF_REDIS_DB")
	}

	if cfg.MaxImportBytes <= 0 {
		panic(fmt.Sprintf("❌ FATAL: SHELF_MAX_IMPORT_BYTES must be positive, got %d", cfg.MaxImportBytes))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
