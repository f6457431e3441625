package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// CategoryAll is the selector value that disables category filtering.
const CategoryAll = "all"

// UncategorizedLabel is displayed for products without a category.
const UncategorizedLabel = "Uncategorized"

// Category is one entry of the taxonomy. Keywords feed the storefront
// heuristic for products that carry no category field.
type Category struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Keywords []string `json:"keywords,omitempty"`
}

// Taxonomy is the ordered list of known categories.
type Taxonomy struct {
	Categories []Category
}

// DefaultTaxonomy is used when no taxonomy file is configured.
func DefaultTaxonomy() *Taxonomy {
	return &Taxonomy{Categories: []Category{
		{Key: "tech", Label: "Tech", Keywords: []string{"tech", "electronic", "gadget", "phone", "computer", "laptop"}},
		{Key: "home", Label: "Home", Keywords: []string{"home", "kitchen", "furniture", "decor", "garden"}},
		{Key: "lifestyle", Label: "Lifestyle", Keywords: []string{"fitness", "health", "beauty", "fashion", "outdoor"}},
	}}
}

func (t *Taxonomy) lookup(key string) (Category, bool) {
	if t == nil {
		return Category{}, false
	}
	folded := fold(strings.TrimSpace(key))
	for _, c := range t.Categories {
		if fold(c.Key) == folded {
			return c, true
		}
	}
	return Category{}, false
}

// Known reports whether key names a taxonomy category.
func (t *Taxonomy) Known(key string) bool {
	_, ok := t.lookup(key)
	return ok
}

// Keys returns the category keys in taxonomy order.
func (t *Taxonomy) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, 0, len(t.Categories))
	for _, c := range t.Categories {
		keys = append(keys, c.Key)
	}
	return keys
}

// Keywords returns the heuristic keywords for key, nil for unknown keys.
func (t *Taxonomy) Keywords(key string) []string {
	c, ok := t.lookup(key)
	if !ok {
		return nil
	}
	return c.Keywords
}

// CategoryLabel returns the stored category, or UncategorizedLabel.
func CategoryLabel(p Product) string {
	if key, state := p.Category(); state == CategorySet {
		return key
	}
	return UncategorizedLabel
}

func fold(s string) string {
	return cases.Fold().String(s)
}
