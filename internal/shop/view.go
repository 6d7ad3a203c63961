// Package shop keeps the per-shopper browse state: the active filter, the sort
// order, the debounced search box and the last query result.
package shop

import (
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"LuxeStore/internal/catalog"
	"LuxeStore/internal/debounce"
)

// Querier runs the catalog query. *catalog.Catalog implements it.
type Querier interface {
	Query(spec catalog.FilterSpec, key catalog.SortKey) []catalog.Product
}

type Result struct {
	Filter   catalog.FilterSpec `json:"filter"`
	Sort     catalog.SortKey    `json:"sort"`
	Count    int                `json:"count"`
	Products []catalog.Product  `json:"products"`
}

type Options struct {
	Clock debounce.Clock
	// SearchDelay defaults to debounce.DefaultDelay.
	SearchDelay time.Duration
	// Observer is told the size of every result.
	Observer func(n int)
}

type View struct {
	catalog  Querier
	search   *debounce.Debouncer
	observer func(n int)

	mu     sync.Mutex
	filter catalog.FilterSpec
	sort   catalog.SortKey
	draft  string
	result *Result
}

func NewView(q Querier, opts Options) *View {
	return &View{
		catalog:  q,
		search:   debounce.New(opts.Clock, opts.SearchDelay),
		observer: opts.Observer,
		filter:   catalog.DefaultFilter(),
		sort:     catalog.SortFeatured,
	}
}

func (v *View) SetCategory(c catalog.Category) Result {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.filter.Category = c
	return v.refreshLocked()
}

// SetPriceRange takes the raw input text. Blank, unparsable or zero bounds fall
// back to catalog.DefaultMinPrice and catalog.DefaultMaxPrice.
func (v *View) SetPriceRange(minText, maxText string) Result {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.filter.MinPrice = parseBound(minText, catalog.DefaultMinPrice)
	v.filter.MaxPrice = parseBound(maxText, catalog.DefaultMaxPrice)
	return v.refreshLocked()
}

func parseBound(text string, def decimal.Decimal) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil || d.IsZero() {
		return def
	}
	return d
}

func (v *View) SetSort(k catalog.SortKey) Result {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.sort = k
	return v.refreshLocked()
}

// TypeSearch records a keystroke. The query runs once typing settles; a newer
// keystroke discards the pending evaluation.
func (v *View) TypeSearch(raw string) {
	v.mu.Lock()
	v.draft = raw
	v.mu.Unlock()

	v.search.Trigger(v.settleSearch)
}

func (v *View) settleSearch() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.filter.Search = strings.TrimSpace(v.draft)
	v.refreshLocked()
}

// Refresh re-runs the query with the current state.
func (v *View) Refresh() Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.refreshLocked()
}

// Result returns the last query result; false means nothing has been queried yet.
func (v *View) Result() (Result, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.result == nil {
		return Result{}, false
	}
	return *v.result, true
}

// Pending reports whether a search evaluation is scheduled.
func (v *View) Pending() bool { return v.search.Pending() }

func (v *View) Filter() (catalog.FilterSpec, catalog.SortKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter, v.sort
}

// Close cancels any pending search.
func (v *View) Close() { v.search.Cancel() }

func (v *View) refreshLocked() Result {
	products := v.catalog.Query(v.filter, v.sort)
	res := Result{Filter: v.filter, Sort: v.sort, Count: len(products), Products: products}
	v.result = &res
	if v.observer != nil {
		v.observer(res.Count)
	}
	return res
}
