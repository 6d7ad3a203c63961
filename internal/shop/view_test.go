package shop

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LuxeStore/internal/catalog"
	"LuxeStore/internal/debounce"
)

func newView(t *testing.T) (*View, *debounce.FakeClock, *[]int) {
	t.Helper()
	cat, err := catalog.New(catalog.SampleProducts())
	require.NoError(t, err)

	clk := debounce.NewFakeClock()
	var sizes []int
	v := NewView(cat, Options{
		Clock:       clk,
		SearchDelay: 300 * time.Millisecond,
		Observer:    func(n int) { sizes = append(sizes, n) },
	})
	return v, clk, &sizes
}

func ids(ps []catalog.Product) []int {
	out := make([]int, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestView_NotYetQueried(t *testing.T) {
	v, _, _ := newView(t)

	_, ok := v.Result()
	assert.False(t, ok)

	v.SetPriceRange("500", "600")
	res, ok := v.Result()
	assert.True(t, ok)
	assert.Equal(t, 0, res.Count)
	assert.NotNil(t, res.Products)
}

func TestView_CategoryFilter(t *testing.T) {
	v, _, sizes := newView(t)

	res := v.SetCategory(catalog.CategoryKitchen)
	assert.Equal(t, []int{4, 7, 11}, ids(res.Products))
	assert.Equal(t, []int{3}, *sizes)
}

func TestView_PriceRangeParsing(t *testing.T) {
	v, _, _ := newView(t)

	cases := []struct {
		min, max         string
		wantMin, wantMax decimal.Decimal
	}{
		{"", "", catalog.DefaultMinPrice, catalog.DefaultMaxPrice},
		{"abc", "0", catalog.DefaultMinPrice, catalog.DefaultMaxPrice},
		{" 50 ", "120", decimal.NewFromInt(50), decimal.NewFromInt(120)},
		{"200", "100", decimal.NewFromInt(200), decimal.NewFromInt(100)},
	}
	for _, tc := range cases {
		res := v.SetPriceRange(tc.min, tc.max)
		assert.True(t, tc.wantMin.Equal(res.Filter.MinPrice), "min %q", tc.min)
		assert.True(t, tc.wantMax.Equal(res.Filter.MaxPrice), "max %q", tc.max)
	}

	res, _ := v.Result()
	assert.Empty(t, res.Products)
}

func TestView_SearchIsDebounced(t *testing.T) {
	v, clk, sizes := newView(t)
	v.Refresh()

	for _, s := range []string{"b", "br", "bra", "brass "} {
		v.TypeSearch(s)
		clk.Advance(50 * time.Millisecond)
	}
	assert.True(t, v.Pending())
	res, _ := v.Result()
	assert.Equal(t, "", res.Filter.Search)
	assert.Len(t, *sizes, 1)

	clk.Advance(300 * time.Millisecond)
	assert.False(t, v.Pending())

	res, _ = v.Result()
	assert.Equal(t, "brass", res.Filter.Search)
	assert.Contains(t, ids(res.Products), 3)
	assert.Len(t, *sizes, 2)
}

func TestView_CloseCancelsSearch(t *testing.T) {
	v, clk, sizes := newView(t)

	v.TypeSearch("lamp")
	v.Close()
	clk.Advance(time.Second)

	_, ok := v.Result()
	assert.False(t, ok)
	assert.Empty(t, *sizes)
}

func TestView_SortNewestReversesFeatured(t *testing.T) {
	v, _, _ := newView(t)

	featured := v.SetSort(catalog.SortFeatured)
	newest := v.SetSort(catalog.SortNewest)

	want := ids(featured.Products)
	for i, j := 0, len(want)-1; i < j; i, j = i+1, j-1 {
		want[i], want[j] = want[j], want[i]
	}
	assert.Equal(t, want, ids(newest.Products))
}
