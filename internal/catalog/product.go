package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryAll        Category = "all"
	CategoryHome       Category = "home"
	CategoryKitchen    Category = "kitchen"
	CategoryLighting   Category = "lighting"
	CategoryFashion    Category = "fashion"
	CategoryStationery Category = "stationery"
)

var categoryNames = []struct {
	ID   Category
	Name string
}{
	{CategoryAll, "All Objects"},
	{CategoryHome, "Home"},
	{CategoryKitchen, "Kitchen"},
	{CategoryLighting, "Lighting"},
	{CategoryFashion, "Fashion"},
	{CategoryStationery, "Stationery"},
}

// Known reports whether c is one of the product categories. "all" is a filter value, not a category.
func (c Category) Known() bool {
	for _, n := range categoryNames[1:] {
		if n.ID == c {
			return true
		}
	}
	return false
}

type Product struct {
	ID            int                 `json:"id"`
	Name          string              `json:"name"`
	Category      Category            `json:"category"`
	Price         decimal.Decimal     `json:"price"`
	OriginalPrice decimal.NullDecimal `json:"original_price"`
	Rating        float64             `json:"rating"`
	ReviewCount   int                 `json:"reviews"`
	Badge         string              `json:"badge,omitempty"`
	Description   string              `json:"description"`
	Details       []string            `json:"details"`
	Images        []string            `json:"images"`
	Tags          []string            `json:"tags"`
}

// Cover is the default image shown on cards and in the cart.
func (p Product) Cover() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func (p Product) Discounted() bool {
	return p.OriginalPrice.Valid
}

var (
	ErrDuplicateID    = errors.New("duplicate product id")
	ErrInvalidProduct = errors.New("invalid product")
)

func (p Product) validate() error {
	switch {
	case p.ID <= 0:
		return fmt.Errorf("%w: id must be positive", ErrInvalidProduct)
	case p.Name == "":
		return fmt.Errorf("%w: name required", ErrInvalidProduct)
	case !p.Category.Known():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, p.Category)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: negative price", ErrInvalidProduct)
	case p.OriginalPrice.Valid && p.OriginalPrice.Decimal.LessThanOrEqual(p.Price):
		return fmt.Errorf("%w: original price must exceed price", ErrInvalidProduct)
	case p.Rating < 0 || p.Rating > 5:
		return fmt.Errorf("%w: rating out of range", ErrInvalidProduct)
	case p.ReviewCount < 0:
		return fmt.Errorf("%w: negative review count", ErrInvalidProduct)
	case len(p.Images) == 0:
		return fmt.Errorf("%w: at least one image required", ErrInvalidProduct)
	}
	return nil
}
