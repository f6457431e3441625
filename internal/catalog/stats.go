package catalog

import (
	"github.com/montanaflynn/stats"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

// Summary is the admin dashboard view of a catalog.
type Summary struct {
	TotalProducts   int          `json:"totalProducts"`
	TotalCategories int          `json:"totalCategories"`
	Price           PriceSummary `json:"price"`
}

type PriceSummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// Summary computes the statistics of the current collection.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Summarize(s.products)
}

// Summarize counts products and distinct categories and describes the
// price distribution. Prices are all zero for an empty collection.
func Summarize(products []domain.Product) Summary {
	sum := Summary{
		TotalProducts:   len(products),
		TotalCategories: countCategories(products),
	}
	if len(products) == 0 {
		return sum
	}

	prices := make(stats.Float64Data, 0, len(products))
	for _, p := range products {
		prices = append(prices, p.Price())
	}

	// errors only signal empty input, handled above
	sum.Price.Min, _ = prices.Min()
	sum.Price.Max, _ = prices.Max()
	sum.Price.Median, _ = prices.Median()
	mean, _ := prices.Mean()
	sum.Price.Mean, _ = stats.Round(mean, 2)
	return sum
}
