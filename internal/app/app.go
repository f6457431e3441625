package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/shelf/internal/admin"
	"github.com/MrSnakeDoc/shelf/internal/catalog"
	"github.com/MrSnakeDoc/shelf/internal/config"
	"github.com/MrSnakeDoc/shelf/internal/httpserver"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/metrics"
	"github.com/MrSnakeDoc/shelf/internal/redis"
	"github.com/MrSnakeDoc/shelf/internal/scheduler"
	"github.com/MrSnakeDoc/shelf/internal/sources/productfile"
	"github.com/MrSnakeDoc/shelf/internal/sources/taxonomy"
	redisstore "github.com/MrSnakeDoc/shelf/internal/store/redis"
	"github.com/MrSnakeDoc/shelf/internal/storefront"
	"github.com/MrSnakeDoc/shelf/internal/utils"
	"github.com/MrSnakeDoc/shelf/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reloader    *scheduler.CatalogReloader
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(logger.Options{
		Level:      cfg.LogLevel,
		Pretty:     cfg.PrettyLog,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})

	tax, err := taxonomy.NewLoader(cfg.TaxonomyFile).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}
	loggerClient.Info("taxonomy loaded",
		logger.Strings("categories", tax.Keys()))

	// Redis is optional: without it the storefront runs uncached.
	var (
		redisClient *goredis.Client
		cache       *redisstore.Store
	)
	if cfg.RedisEnabled() {
		redisClient, err = redis.New(context.Background(), redis.Options{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Error("redis unavailable, continuing without query cache",
				logger.Error(err))
		} else {
			cache = redisstore.NewStore(redisClient)
		}
	} else {
		loggerClient.Info("redis not configured, query cache and view counters disabled")
	}

	m := metrics.New()
	loader := productfile.NewLoader(cfg.ProductsFile, cfg.ProductsURL, cfg.FetchTimeout)
	reloadTrigger := make(chan struct{}, 1)

	// Storefront: read-only copy refreshed from products.json.
	published := catalog.NewStore()
	var queryCache storefront.QueryCache
	var flusher scheduler.QueryFlusher
	if cache != nil {
		queryCache, flusher = cache, cache
	}
	reloader := scheduler.NewCatalogReloader(
		loader,
		published,
		flusher,
		m,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)
	front := storefront.NewCatalog(published, tax, queryCache, cfg.CacheTTL, loggerClient)

	// Admin: a separate working copy, written back on save.
	working := catalog.NewStore()
	seedWorkingCopy(context.Background(), loader, working, loggerClient)
	m.ObserveCatalogSize(metrics.SurfaceAdmin, working.Count())

	writePath := cfg.ProductsFile
	if cfg.ProductsURL != "" {
		loggerClient.Warn("products are read from a URL, admin saves are disabled",
			logger.String("url", cfg.ProductsURL))
		writePath = ""
	}
	session := admin.NewSession(working, tax, productfile.NewWriter(writePath), func() {
		select {
		case reloadTrigger <- struct{}{}:
		default:
		}
	})

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AdminCIDRs:     cfg.AdminCIDRs,
		TrustProxy:     cfg.TrustProxy,
		ProductsSource: loader.Source(),
		Storefront:     front,
		Admin:          session,
		Taxonomy:       tax,
		Cache:          cache,
		RedisClient:    redisClient,
		Metrics:        m,
		ReloadTrigger:  reloadTrigger,
		MaxImportBytes: cfg.MaxImportBytes,
		ImportBurst:    cfg.ImportBurst,
		ImportRefill:   cfg.ImportRefillPerMin,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		reloader:    reloader,
	}, nil
}

// seedWorkingCopy fills the admin store from products.json. A missing or
// unreadable file leaves the editor blank.
func seedWorkingCopy(ctx context.Context, loader *productfile.Loader, store *catalog.Store, log logger.Logger) {
	products, err := loader.Load(ctx)
	switch {
	case errors.Is(err, productfile.ErrMissing):
		log.Info("no products file yet, admin starts blank",
			logger.String("source", loader.Source()))
	case err != nil:
		log.Warn("failed to load products for admin, starting blank",
			logger.String("source", loader.Source()),
			logger.Error(err))
	default:
		store.Load(products)
		log.Info("admin working copy loaded",
			logger.Int("count", len(products)))
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting shelf %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.reloader.Start(ctx); err != nil {
		return fmt.Errorf("failed to start catalog reloader: %w", err)
	}
	a.logger.Info("catalog reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.reloader.Stop()
		return err
	}

	a.reloader.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		utils.CloseLogged(a.redisClient, a.logger, "redis")
	}

	a.logger.Info("✅ shelf stopped cleanly")
	_ = a.logger.Sync()
	return nil
}
