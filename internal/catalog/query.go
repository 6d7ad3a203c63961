package catalog

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
	// SortNewest reverses the filtered order. It is not chronological.
	SortNewest SortKey = "newest"
)

func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(s); k {
	case SortFeatured, SortPriceAsc, SortPriceDesc, SortRating, SortNewest:
		return k, true
	}
	return SortFeatured, false
}

var (
	DefaultMinPrice = decimal.Zero
	DefaultMaxPrice = decimal.NewFromInt(9999)
)

// FilterSpec bounds are inclusive. MinPrice > MaxPrice is allowed and matches nothing.
type FilterSpec struct {
	Category Category        `json:"category"`
	MinPrice decimal.Decimal `json:"min_price"`
	MaxPrice decimal.Decimal `json:"max_price"`
	Search   string          `json:"search"`
}

func DefaultFilter() FilterSpec {
	return FilterSpec{
		Category: CategoryAll,
		MinPrice: DefaultMinPrice,
		MaxPrice: DefaultMaxPrice,
	}
}

// Query filters products by category, price and search text, then orders the survivors by key.
// The input slice is not modified. The result is never nil.
func Query(products []Product, spec FilterSpec, key SortKey) []Product {
	q := strings.ToLower(strings.TrimSpace(spec.Search))

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if spec.Category != CategoryAll && p.Category != spec.Category {
			continue
		}
		if p.Price.LessThan(spec.MinPrice) || p.Price.GreaterThan(spec.MaxPrice) {
			continue
		}
		if q != "" && !matchesSearch(p, q) {
			continue
		}
		out = append(out, p)
	}

	switch key {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b Product) int { return b.Price.Cmp(a.Price) })
	case SortRating:
		slices.SortStableFunc(out, func(a, b Product) int {
			switch {
			case a.Rating > b.Rating:
				return -1
			case a.Rating < b.Rating:
				return 1
			}
			return 0
		})
	case SortNewest:
		slices.Reverse(out)
	}
	return out
}

// Tags are stored lower-case and are matched as-is.
func matchesSearch(p Product, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(string(p.Category)), q) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(t, q) {
			return true
		}
	}
	return false
}
