package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/catalog"
	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/metrics"
	"github.com/MrSnakeDoc/shelf/internal/sources/productfile"
)

// CatalogSource reads the published catalog.
type CatalogSource interface {
	Load(ctx context.Context) ([]domain.Product, error)
	Source() string
}

// QueryFlusher drops cached storefront queries after a reload.
type QueryFlusher interface {
	FlushQueries(ctx context.Context) (int, error)
}

// CatalogReloader keeps the storefront store in sync with products.json.
type CatalogReloader struct {
	source        CatalogSource
	store         *catalog.Store
	cache         QueryFlusher
	metrics       *metrics.Metrics
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCatalogReloader creates a reloader. cache and m may be nil; an
// interval of zero disables periodic reloads.
func NewCatalogReloader(
	source CatalogSource,
	store *catalog.Store,
	cache QueryFlusher,
	m *metrics.Metrics,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CatalogReloader {
	return &CatalogReloader{
		source:        source,
		store:         store,
		cache:         cache,
		metrics:       m,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the catalog once, then keeps reloading it in the background.
// An unreadable catalog is not fatal: the storefront starts empty and the
// next reload tries again.
func (cr *CatalogReloader) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("catalog reloader not started: %w", err)
	}

	if err := cr.Reload(ctx); err != nil {
		if errors.Is(err, productfile.ErrMissing) {
			cr.logger.Warn("products file not found, starting with an empty catalog",
				logger.String("source", cr.source.Source()))
		} else {
			cr.logger.Error("failed to load catalog, starting with an empty catalog",
				logger.String("source", cr.source.Source()),
				logger.Error(err))
		}
		cr.store.Load(nil)
	}

	var tick <-chan time.Time
	var ticker *time.Ticker
	if cr.interval > 0 {
		ticker = time.NewTicker(cr.interval)
		tick = ticker.C
	}

	go func() {
		if ticker != nil {
			defer ticker.Stop()
		}
		for {
			select {
			case <-tick:
				cr.reloadLogged(ctx)
			case <-cr.manualTrigger:
				cr.logger.Info("manual catalog reload triggered")
				cr.reloadLogged(ctx)
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (cr *CatalogReloader) Stop() {
	close(cr.stopCh)
}

func (cr *CatalogReloader) reloadLogged(ctx context.Context) {
	if err := cr.Reload(ctx); err != nil {
		cr.logger.Error("failed to reload catalog",
			logger.String("source", cr.source.Source()),
			logger.Error(err))
	}
}

// Reload replaces the storefront catalog with the current source. The
// previous catalog stays published when the source cannot be read.
func (cr *CatalogReloader) Reload(ctx context.Context) error {
	products, err := cr.source.Load(ctx)
	cr.metrics.ObserveReload(metrics.Outcome(err))
	if err != nil {
		return err
	}

	cr.store.Load(products)
	cr.metrics.ObserveCatalogSize(metrics.SurfaceStorefront, len(products))
	cr.logger.Info("catalog reloaded",
		logger.String("source", cr.source.Source()),
		logger.Int("count", len(products)),
		logger.Uint64("revision", cr.store.Revision()))

	// Best effort: stale entries are unreachable anyway once the revision moves.
	if cr.cache != nil {
		n, err := cr.cache.FlushQueries(ctx)
		if err != nil {
			cr.logger.Warn("failed to flush query cache", logger.Error(err))
		} else if n > 0 {
			cr.logger.Debug("query cache flushed", logger.Int("keys", n))
		}
	}
	return nil
}
