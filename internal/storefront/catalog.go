package storefront

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/catalog"
	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

// QueryCache keeps the positions a query selected within one catalog
// generation.
type QueryCache interface {
	GetQueryResult(ctx context.Context, key string) ([]int, bool, error)
	SetQueryResult(ctx context.Context, key string, positions []int, ttl time.Duration) error
}

// Catalog answers storefront queries over the published store.
type Catalog struct {
	store    *catalog.Store
	taxonomy *domain.Taxonomy
	cache    QueryCache
	ttl      time.Duration
	log      logger.Logger
}

// NewCatalog builds the storefront view. cache may be nil.
func NewCatalog(store *catalog.Store, tax *domain.Taxonomy, cache QueryCache, ttl time.Duration, log logger.Logger) *Catalog {
	return &Catalog{store: store, taxonomy: tax, cache: cache, ttl: ttl, log: log}
}

func (c *Catalog) Store() *catalog.Store       { return c.store }
func (c *Catalog) Taxonomy() *domain.Taxonomy { return c.taxonomy }

// Search returns the visible products for criteria and whether the
// answer came from the cache.
func (c *Catalog) Search(ctx context.Context, criteria domain.Criteria) ([]domain.Product, bool) {
	products, rev := c.store.Snapshot()
	if c.cache == nil {
		return c.taxonomy.StorefrontFilter(products, criteria), false
	}

	key := c.queryKey(rev, criteria)
	if positions, ok, err := c.cache.GetQueryResult(ctx, key); err != nil {
		c.log.Debug("query cache lookup failed", logger.Error(err))
	} else if ok {
		if visible, valid := pick(products, positions); valid {
			return visible, true
		}
	}

	visible, positions := c.filterPositions(products, criteria)
	if err := c.cache.SetQueryResult(ctx, key, positions, c.ttl); err != nil {
		c.log.Debug("query cache store failed", logger.Error(err))
	}
	return visible, false
}

func (c *Catalog) filterPositions(products []domain.Product, criteria domain.Criteria) ([]domain.Product, []int) {
	visible := make([]domain.Product, 0, len(products))
	positions := make([]int, 0, len(products))
	for i, p := range products {
		if !c.taxonomy.Visible(p, criteria) {
			continue
		}
		visible = append(visible, p)
		positions = append(positions, i)
	}
	return visible, positions
}

func pick(products []domain.Product, positions []int) ([]domain.Product, bool) {
	out := make([]domain.Product, 0, len(positions))
	for _, i := range positions {
		if i < 0 || i >= len(products) {
			return nil, false
		}
		out = append(out, products[i])
	}
	return out, true
}

// queryKey identifies a query within a catalog generation: the revision
// plus the load time, which tells apart restarts of the process.
func (c *Catalog) queryKey(rev uint64, criteria domain.Criteria) string {
	h := sha1.New()
	h.Write([]byte(strings.ToLower(criteria.EffectiveCategory())))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(strings.TrimSpace(criteria.Query))))
	generation := strconv.FormatUint(rev, 10) + "-" + strconv.FormatInt(c.store.LastLoad().UnixNano(), 36)
	return generation + ":" + hex.EncodeToString(h.Sum(nil))
}

// Product returns the detail view of one product.
func (c *Catalog) Product(id int) (Detail, error) {
	p, err := c.store.Get(id)
	if err != nil {
		return Detail{}, err
	}
	return DetailOf(p), nil
}
