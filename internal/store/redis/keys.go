package redis

import (
	"fmt"
	"strconv"
)

const (
	// KeyPrefixQuery prefixes cached storefront query results
	KeyPrefixQuery = "shelf:query:"
	// KeyViews is the hash of product id -> view count
	KeyViews = "shelf:views"
)

// QueryKey returns the Redis key of a cached query.
func QueryKey(query string) string {
	return KeyPrefixQuery + query
}

// ViewField returns the hash field holding a product's view count.
func ViewField(id int) string {
	return strconv.Itoa(id)
}

// ParseViewField is the inverse of ViewField.
func ParseViewField(field string) (int, error) {
	id, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("invalid view field %q: %w", field, err)
	}
	return id, nil
}
