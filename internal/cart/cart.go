// Package cart owns a shopper's cart lines and wishlist.
//
// Every mutation is persisted before it returns. Caller input never produces an
// error: unknown product ids are accepted and priced at zero, absent lines make
// removals and quantity changes no-ops.
package cart

import (
	"context"
	"math"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"LuxeStore/internal/catalog"
	"LuxeStore/internal/kv"
	"LuxeStore/internal/notify"
)

// Lookup resolves product ids. *catalog.Catalog implements it.
type Lookup interface {
	Lookup(id int) (catalog.Product, bool)
}

const (
	msgAdded          = "Added to cart"
	msgRemoved        = "Item removed"
	msgWishlistAdd    = "Saved to wishlist ♡"
	msgWishlistRemove = "Removed from wishlist"
)

type Deps struct {
	Catalog  Lookup
	Store    kv.Store
	Notifier notify.Notifier
	Log      *zap.Logger
}

type Cart struct {
	catalog  Lookup
	store    kv.Store
	notifier notify.Notifier
	log      *zap.Logger

	mu       sync.Mutex
	lines    []Line
	wishlist []int
}

// Restore reads both collections from the store. A missing, corrupt or
// unreadable entry degrades to an empty collection.
func Restore(ctx context.Context, d Deps) *Cart {
	c := &Cart{
		catalog:  d.Catalog,
		store:    d.Store,
		notifier: d.Notifier,
		log:      d.Log,
		lines:    []Line{},
		wishlist: []int{},
	}
	if c.notifier == nil {
		c.notifier = notify.Discard
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}

	if raw, ok := c.read(ctx, KeyCart); ok {
		c.lines = DecodeCart(raw)
	}
	if raw, ok := c.read(ctx, KeyWishlist); ok {
		c.wishlist = DecodeWishlist(raw)
	}
	return c
}

func (c *Cart) read(ctx context.Context, key string) (string, bool) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("state read failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return raw, ok
}

// AddToCart merges into an existing line or appends a new one. qty below 1 counts as 1.
func (c *Cart) AddToCart(ctx context.Context, productID, qty int) {
	if qty < 1 {
		qty = 1
	}

	c.mu.Lock()
	if i := c.indexOf(productID); i >= 0 {
		c.lines[i].Qty = addQty(c.lines[i].Qty, qty)
	} else {
		c.lines = append(c.lines, Line{ProductID: productID, Qty: qty})
	}
	c.persist(ctx)
	c.mu.Unlock()

	c.notifier.Notify(notify.Success, msgAdded)
}

func (c *Cart) RemoveFromCart(ctx context.Context, productID int) {
	c.mu.Lock()
	if i := c.indexOf(productID); i >= 0 {
		c.lines = slices.Delete(c.lines, i, i+1)
	}
	c.persist(ctx)
	c.mu.Unlock()

	c.notifier.Notify(notify.Default, msgRemoved)
}

// UpdateQuantity adds delta to the line, never going below 1 or above math.MaxInt.
func (c *Cart) UpdateQuantity(ctx context.Context, productID, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.lines[i].Qty = max(1, addQty(c.lines[i].Qty, delta))
	c.persist(ctx)
}

// ToggleWishlist reports whether the product is in the wishlist afterwards.
func (c *Cart) ToggleWishlist(ctx context.Context, productID int) bool {
	c.mu.Lock()
	added := true
	if i := slices.Index(c.wishlist, productID); i >= 0 {
		c.wishlist = slices.Delete(c.wishlist, i, i+1)
		added = false
	} else {
		c.wishlist = append(c.wishlist, productID)
	}
	c.persist(ctx)
	c.mu.Unlock()

	if added {
		c.notifier.Notify(notify.Default, msgWishlistAdd)
	} else {
		c.notifier.Notify(notify.Default, msgWishlistRemove)
	}
	return added
}

func (c *Cart) IsInWishlist(productID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Contains(c.wishlist, productID)
}

// Subtotal prices every line at the current catalog price. Lines for unknown products add nothing.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotal()
}

func (c *Cart) subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		p, ok := c.catalog.Lookup(l.ProductID)
		if !ok {
			continue
		}
		sum = sum.Add(p.Price.Mul(decimal.NewFromInt(int64(l.Qty))))
	}
	return sum
}

// ItemCount is the sum of quantities, the badge number.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.itemCount()
}

func (c *Cart) itemCount() int {
	n := 0
	for _, l := range c.lines {
		n = addQty(n, l.Qty)
	}
	return n
}

// addQty is a + b saturated at math.MaxInt. a is never negative.
func addQty(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.lines)
}

func (c *Cart) Wishlist() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.wishlist)
}

// WishlistProducts resolves the wishlist in order, skipping ids the catalog does not know.
func (c *Cart) WishlistProducts() []catalog.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]catalog.Product, 0, len(c.wishlist))
	for _, id := range c.wishlist {
		if p, ok := c.catalog.Lookup(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// Checkout hands a snapshot to place and, once place succeeds, removes exactly
// what the snapshot held: its line quantities and its wishlist ids. Mutations
// that land while place runs are kept. On error nothing is removed.
func (c *Cart) Checkout(ctx context.Context, place func(Snapshot) error) error {
	c.mu.Lock()
	snap := c.snapshot()
	saved := slices.Clone(c.wishlist)
	c.mu.Unlock()

	if err := place(snap); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range snap.Lines {
		i := c.indexOf(l.ProductID)
		if i < 0 {
			continue
		}
		if c.lines[i].Qty <= l.Qty {
			c.lines = slices.Delete(c.lines, i, i+1)
		} else {
			c.lines[i].Qty -= l.Qty
		}
	}
	c.wishlist = slices.DeleteFunc(c.wishlist, func(id int) bool {
		return slices.Contains(saved, id)
	})
	c.persist(ctx)
	return nil
}

type SnapshotLine struct {
	ProductID int              `json:"product_id"`
	Qty       int              `json:"qty"`
	Product   *catalog.Product `json:"product,omitempty"`
	Missing   bool             `json:"missing,omitempty"`
	LineTotal decimal.Decimal  `json:"line_total"`
}

type Snapshot struct {
	Lines     []SnapshotLine `json:"lines"`
	ItemCount int            `json:"item_count"`
	Totals
}

func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Cart) snapshot() Snapshot {
	lines := make([]SnapshotLine, 0, len(c.lines))
	for _, l := range c.lines {
		sl := SnapshotLine{ProductID: l.ProductID, Qty: l.Qty, LineTotal: decimal.Zero}
		if p, ok := c.catalog.Lookup(l.ProductID); ok {
			sl.Product = &p
			sl.LineTotal = p.Price.Mul(decimal.NewFromInt(int64(l.Qty)))
		} else {
			sl.Missing = true
		}
		lines = append(lines, sl)
	}
	return Snapshot{
		Lines:     lines,
		ItemCount: c.itemCount(),
		Totals:    ComputeTotals(c.subtotal()),
	}
}

func (c *Cart) indexOf(productID int) int {
	return slices.IndexFunc(c.lines, func(l Line) bool { return l.ProductID == productID })
}

// persist writes both collections under their own keys. Failures are logged, not returned.
// Caller holds c.mu.
func (c *Cart) persist(ctx context.Context) {
	if err := c.store.Set(ctx, KeyCart, EncodeCart(c.lines)); err != nil {
		c.log.Warn("cart write failed", zap.Error(err))
	}
	if err := c.store.Set(ctx, KeyWishlist, EncodeWishlist(c.wishlist)); err != nil {
		c.log.Warn("wishlist write failed", zap.Error(err))
	}
}
