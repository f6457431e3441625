package domain

import "strings"

// Criteria is the storefront filter state: the selected category button,
// the category dropdown and the search box.
type Criteria struct {
	Button   string `json:"button"`
	Dropdown string `json:"dropdown"`
	Query    string `json:"query"`
}

// EffectiveCategory resolves the two category selectors into one: a
// dropdown choice other than "all" wins over the button.
func (c Criteria) EffectiveCategory() string {
	if d := strings.TrimSpace(c.Dropdown); d != "" && !strings.EqualFold(d, CategoryAll) {
		return d
	}
	if b := strings.TrimSpace(c.Button); b != "" {
		return b
	}
	return CategoryAll
}

// AdminFilter keeps the products in category (empty or "all" keeps every
// product) whose name or description contains query. Order is preserved.
func AdminFilter(products []Product, category, query string) []Product {
	category = strings.TrimSpace(category)
	needle := fold(strings.TrimSpace(query))

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if !allCategories(category) && !categoryEquals(p, category) {
			continue
		}
		if !matchesText(p, needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// StorefrontFilter keeps the products Visible under c, in order.
func (t *Taxonomy) StorefrontFilter(products []Product, c Criteria) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if t.Visible(p, c) {
			out = append(out, p)
		}
	}
	return out
}

// Visible is the storefront predicate: the effective category first, then
// the search text.
func (t *Taxonomy) Visible(p Product, c Criteria) bool {
	if category := c.EffectiveCategory(); !allCategories(category) && !t.MatchesCategory(p, category) {
		return false
	}
	return MatchesQuery(p, c.Query)
}

// MatchesCategory is the storefront category predicate. A product without
// a category (field absent, null or empty) matches when its name or
// description contains one of that category's keywords; a product whose
// category is set but different never does.
func (t *Taxonomy) MatchesCategory(p Product, category string) bool {
	if _, state := p.Category(); state == CategorySet {
		return categoryEquals(p, category)
	}
	haystack := fold(p.Name() + " " + p.Description())
	for _, kw := range t.Keywords(category) {
		if kw = fold(kw); kw != "" && strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// MatchesQuery reports whether name or description contains query,
// ignoring case and surrounding space. An empty query matches everything.
func MatchesQuery(p Product, query string) bool {
	return matchesText(p, fold(strings.TrimSpace(query)))
}

func matchesText(p Product, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(fold(p.Name()), needle) ||
		strings.Contains(fold(p.Description()), needle)
}

func categoryEquals(p Product, category string) bool {
	key, state := p.Category()
	return state == CategorySet && fold(key) == fold(category)
}

func allCategories(category string) bool {
	return category == "" || strings.EqualFold(category, CategoryAll)
}
