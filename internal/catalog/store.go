package catalog

import (
	"errors"
	"sync"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

var ErrNotFound = errors.New("product not found")

// Store holds one ordered collection of products. Every operation is
// atomic; readers get copies and never observe a partial update.
type Store struct {
	mu       sync.RWMutex
	products []domain.Product
	revision uint64
	lastLoad time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Load replaces the whole collection.
func (s *Store) Load(source []domain.Product) {
	products := cloneAll(source)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = products
	s.revision++
	s.lastLoad = time.Now()
}

// LoadJSON replaces the collection with a JSON array of products. On any
// decoding error the store is left untouched.
func (s *Store) LoadJSON(raw []byte) error {
	products, err := domain.ParseProducts(raw)
	if err != nil {
		return err
	}
	s.Load(products)
	return nil
}

// Upsert merges data into the product whose id is *existingID, or appends
// it under a fresh id when existingID is nil or matches nothing. The id
// field of data is ignored. It returns the stored record and whether it
// was created.
func (s *Store) Upsert(data domain.Product, existingID *int) (domain.Product, bool) {
	patch := data.Clone()
	patch.Delete("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.revision++

	if existingID != nil {
		for i, p := range s.products {
			if p.ID() == *existingID {
				s.products[i] = p.Merge(patch)
				return s.products[i].Clone(), false
			}
		}
	}

	created := patch.WithID(s.nextID())
	s.products = append(s.products, created)
	return created.Clone(), true
}

func (s *Store) nextID() int {
	maxID := 0
	for _, p := range s.products {
		if id := p.ID(); id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// Remove deletes the product with id. It reports whether one was found.
func (s *Store) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.products[:0:0]
	for _, p := range s.products {
		if p.ID() != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(s.products) {
		return false
	}
	s.products = kept
	s.revision++
	return true
}

// All returns a copy of every product in stored order.
func (s *Store) All() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.products)
}

// Filtered returns copies of the products matching pred, in stored order.
func (s *Store) Filtered(pred func(domain.Product) bool) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if pred(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Get returns the product with id.
func (s *Store) Get(id int) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID() == id {
			return p.Clone(), nil
		}
	}
	return domain.Product{}, ErrNotFound
}

// Snapshot returns the products together with the revision they belong to.
func (s *Store) Snapshot() ([]domain.Product, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.products), s.revision
}

// Revision increments on every mutation.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.revision
}

// LastLoad is the time of the last Load, zero if the store was never loaded.
func (s *Store) LastLoad() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastLoad
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.products)
}

// CategoryCount is the number of distinct non-empty categories.
func (s *Store) CategoryCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return countCategories(s.products)
}

func countCategories(products []domain.Product) int {
	seen := make(map[string]struct{})
	for _, p := range products {
		if key, state := p.Category(); state == domain.CategorySet {
			seen[key] = struct{}{}
		}
	}
	return len(seen)
}

func cloneAll(products []domain.Product) []domain.Product {
	out := make([]domain.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}
