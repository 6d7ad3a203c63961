package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsDuplicateIDs(t *testing.T) {
	ps := SampleProducts()
	ps = append(ps, ps[0])

	_, err := New(ps)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateID))
}

func TestNew_RejectsInvalidProducts(t *testing.T) {
	base := SampleProducts()[1]

	cases := map[string]func(p *Product){
		"zero id":          func(p *Product) { p.ID = 0 },
		"unknown category": func(p *Product) { p.Category = "garden" },
		"negative price":   func(p *Product) { p.Price = decimal.NewFromInt(-1) },
		"original below":   func(p *Product) { p.OriginalPrice = decimal.NewNullDecimal(p.Price) },
		"rating":           func(p *Product) { p.Rating = 5.1 },
		"no images":        func(p *Product) { p.Images = nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := base
			mutate(&p)
			_, err := New([]Product{p})
			assert.ErrorIs(t, err, ErrInvalidProduct)
		})
	}
}

func TestCatalog_LookupAndFeatured(t *testing.T) {
	c := sample(t)

	p, ok := c.Lookup(7)
	require.True(t, ok)
	assert.Equal(t, "Stone Pestle & Mortar", p.Name)
	assert.Equal(t, p.Images[0], p.Cover())

	_, ok = c.Lookup(99)
	assert.False(t, ok)

	assert.Equal(t, []int{1, 2, 3, 4}, ids(c.Featured(4)))
	assert.Len(t, c.Featured(100), 12)
}

func TestCatalog_Categories(t *testing.T) {
	c := sample(t)

	got := c.Categories()
	want := []CategoryCount{
		{ID: CategoryAll, Name: "All Objects", Count: 12},
		{ID: CategoryHome, Name: "Home", Count: 4},
		{ID: CategoryKitchen, Name: "Kitchen", Count: 3},
		{ID: CategoryLighting, Name: "Lighting", Count: 2},
		{ID: CategoryFashion, Name: "Fashion", Count: 2},
		{ID: CategoryStationery, Name: "Stationery", Count: 1},
	}
	assert.Equal(t, want, got)
}

func TestCatalog_AllIsACopy(t *testing.T) {
	c := sample(t)

	all := c.All()
	all[0].Name = "changed"

	p, _ := c.Lookup(1)
	assert.Equal(t, "Obsidian Ceramic Vase", p.Name)
}

func TestFileStore_LoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
products:
  - id: 20
    name: Ash Stool
    category: home
    price: 149.5
    original_price: 180
    rating: 4.2
    reviews: 3
    images: [a.jpg]
    tags: [ash, stool]
  - id: 21
    name: Ink Set
    category: stationery
    price: 30
    images: [b.jpg]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := Build(context.Background(), NewFileStore(path))
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	p, ok := c.Lookup(20)
	require.True(t, ok)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("149.5")))
	assert.True(t, p.Discounted())
	assert.Equal(t, []string{"ash", "stool"}, p.Tags)

	p, _ = c.Lookup(21)
	assert.False(t, p.Discounted())
}

func TestFileStore_MissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, s.Ping(context.Background()))
	_, err := s.Load(context.Background())
	assert.Error(t, err)
}
