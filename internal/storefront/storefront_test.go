package storefront

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/catalog"
	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

type mapCache struct {
	mu      sync.Mutex
	entries map[string][]int
	gets    int
	failGet bool
}

func (m *mapCache) GetQueryResult(_ context.Context, key string) ([]int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.failGet {
		return nil, false, errors.New("unavailable")
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *mapCache) SetQueryResult(_ context.Context, key string, positions []int, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = positions
	return nil
}

func loadedStore(t *testing.T) *catalog.Store {
	t.Helper()
	s := catalog.NewStore()
	err := s.LoadJSON([]byte(`[
		{"id":1,"name":"Laptop","description":"Fast","category":"tech","price":999.5,"image":"https://img.example.com/l.png"},
		{"id":2,"name":"Phone stand","description":"Desk gadget"},
		{"id":3,"name":"Oak table","description":"Kitchen","category":"home","links":["https://www.acme.com/t","","https://b.example.org/x","https://c.com","https://d.com","https://e.com"]}
	]`))
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	return s
}

func resultIDs(products []domain.Product) []int {
	out := make([]int, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID())
	}
	return out
}

func TestSearchWithoutCache(t *testing.T) {
	c := NewCatalog(loadedStore(t), domain.DefaultTaxonomy(), nil, time.Minute, logger.Nop())

	got, hit := c.Search(context.Background(), domain.Criteria{Button: "tech"})
	if hit {
		t.Errorf("hit = true without a cache")
	}
	if ids := resultIDs(got); len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("Search(tech) = %v, want [1 2]", ids)
	}
}

func TestSearchUsesCache(t *testing.T) {
	store := loadedStore(t)
	cache := &mapCache{entries: map[string][]int{}}
	c := NewCatalog(store, domain.DefaultTaxonomy(), cache, time.Minute, logger.Nop())
	ctx := context.Background()
	criteria := domain.Criteria{Button: "tech", Dropdown: "all", Query: "stand"}

	first, hit := c.Search(ctx, criteria)
	if hit || len(first) != 1 || first[0].ID() != 2 {
		t.Fatalf("first Search = %v hit=%v", resultIDs(first), hit)
	}

	second, hit := c.Search(ctx, criteria)
	if !hit || len(second) != 1 || second[0].ID() != 2 {
		t.Errorf("second Search = %v hit=%v, want cached [2]", resultIDs(second), hit)
	}

	// a mutation starts a new generation
	store.Remove(2)
	third, hit := c.Search(ctx, criteria)
	if hit || len(third) != 0 {
		t.Errorf("Search after mutation = %v hit=%v", resultIDs(third), hit)
	}

	cache.failGet = true
	if got, _ := c.Search(ctx, domain.Criteria{}); len(got) != 2 {
		t.Errorf("Search with failing cache = %v", resultIDs(got))
	}
}

func TestSearchCachedMatchesUncached(t *testing.T) {
	store := catalog.NewStore()
	err := store.LoadJSON([]byte(`[
		{"id":1,"name":"Smart phone","description":"Android","category":"tech"},
		{"id":2,"name":"Smart phone","description":"Refurbished","category":null},
		{"id":3,"name":"Smart phone","description":"Spare","category":""},
		{"id":4,"name":"Kitchen scale","description":"Digital"},
		{"id":5,"name":"Running shoes","description":"Outdoor","category":"LIFESTYLE"}
	]`))
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	tax := domain.DefaultTaxonomy()
	plain := NewCatalog(store, tax, nil, time.Minute, logger.Nop())
	cached := NewCatalog(store, tax, &mapCache{entries: map[string][]int{}}, time.Minute, logger.Nop())
	ctx := context.Background()

	criteria := []domain.Criteria{
		{},
		{Button: "tech"},
		{Button: "all", Dropdown: "ALL"},
		{Button: "tech", Dropdown: "home"},
		{Dropdown: "lifestyle"},
		{Button: "tech", Query: " SPARE "},
		{Query: "smart"},
		{Button: "toys"},
	}
	for _, cr := range criteria {
		want := resultIDs(tax.StorefrontFilter(store.All(), cr))
		for _, c := range []*Catalog{plain, cached, cached} {
			got, _ := c.Search(ctx, cr)
			if ids := resultIDs(got); !equalIDs(ids, want) {
				t.Errorf("Search(%+v) = %v, want %v", cr, ids, want)
			}
		}
	}
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDetail(t *testing.T) {
	c := NewCatalog(loadedStore(t), domain.DefaultTaxonomy(), nil, 0, logger.Nop())

	d, err := c.Product(3)
	if err != nil {
		t.Fatalf("Product(3) error = %v", err)
	}
	if len(d.Links) != 4 {
		t.Fatalf("links = %+v, want 4", d.Links)
	}
	if d.Links[0].Label != "Buy Link 1" || d.Links[0].Supplier != "acme" || d.Links[1].URL != "https://b.example.org/x" {
		t.Errorf("links = %+v", d.Links)
	}
	if d.Message != "" || d.Image != "" {
		t.Errorf("detail = %+v", d)
	}

	d, _ = c.Product(2)
	if len(d.Links) != 0 || d.Message != NoLinksMessage {
		t.Errorf("detail without links = %+v", d)
	}

	if _, err := c.Product(42); !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("Product(42) error = %v", err)
	}
}

func TestGrid(t *testing.T) {
	g := GridOf(loadedStore(t).All())
	if g.Count != 3 || g.Message != "" {
		t.Fatalf("GridOf() = %+v", g)
	}
	if g.Cards[0].Price != "£999.50" || g.Cards[0].Image == "" {
		t.Errorf("card = %+v", g.Cards[0])
	}

	empty := GridOf(nil)
	if empty.Message != NoProductsMessage || empty.Cards == nil {
		t.Errorf("GridOf(nil) = %+v", empty)
	}
}
