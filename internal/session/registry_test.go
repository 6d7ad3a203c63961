package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LuxeStore/internal/catalog"
	"LuxeStore/internal/debounce"
	"LuxeStore/internal/kv"
	"LuxeStore/internal/notify"
)

type fakeNow struct{ t time.Time }

func (f *fakeNow) now() time.Time { return f.t }

func newRegistry(t *testing.T, store kv.Store) (*Registry, *fakeNow, *int) {
	t.Helper()
	cat, err := catalog.New(catalog.SampleProducts())
	require.NoError(t, err)

	clk := &fakeNow{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	active := new(int)
	r := NewRegistry(Deps{
		Catalog: cat,
		Store:   store,
		Clock:   debounce.NewFakeClock(),
		Active:  func(n int) { *active = n },
		Now:     clk.now,
	})
	return r, clk, active
}

func TestRegistry_NewAndGet(t *testing.T) {
	ctx := context.Background()
	r, _, active := newRegistry(t, kv.NewMemStore())

	s, err := r.New(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, *active)

	again, err := r.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, s, again)

	_, err = r.Get(ctx, "../../etc")
	assert.ErrorIs(t, err, ErrBadSessionID)
}

func TestRegistry_StateIsNamespacedAndRestored(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemStore()
	r, clk, active := newRegistry(t, store)

	a, _ := r.New(ctx)
	b, _ := r.New(ctx)
	a.Cart.AddToCart(ctx, 1, 2)
	b.Cart.ToggleWishlist(ctx, 5)

	raw, ok, err := store.Get(ctx, KeyPrefix(a.ID)+"cart")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":1,"qty":2}]`, raw)
	assert.Empty(t, b.Cart.Lines())

	clk.t = clk.t.Add(time.Hour)
	assert.Equal(t, 2, r.Sweep(30*time.Minute))
	assert.Equal(t, 0, *active)

	restored, err := r.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.NotSame(t, a, restored)
	assert.Equal(t, 2, restored.Cart.ItemCount())
}

func TestRegistry_SweepKeepsRecent(t *testing.T) {
	ctx := context.Background()
	r, clk, _ := newRegistry(t, kv.NewMemStore())

	old, _ := r.New(ctx)
	clk.t = clk.t.Add(20 * time.Minute)
	fresh, _ := r.New(ctx)
	clk.t = clk.t.Add(15 * time.Minute)

	assert.Equal(t, 1, r.Sweep(30*time.Minute))
	assert.Equal(t, 1, r.Len())

	_, err := r.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, fresh.ID)
}

func TestRegistry_SweepSkipsSessionsInUse(t *testing.T) {
	ctx := context.Background()
	r, clk, _ := newRegistry(t, kv.NewMemStore())

	s, _ := r.New(ctx)
	release := s.hold()
	clk.t = clk.t.Add(time.Hour)

	assert.Equal(t, 0, r.Sweep(30*time.Minute))
	again, err := r.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, s, again)

	release()
	clk.t = clk.t.Add(time.Hour)
	assert.Equal(t, 1, r.Sweep(30*time.Minute))
}

func TestRegistry_ConcurrentRestoreYieldsOneSession(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemStore()
	r, clk, _ := newRegistry(t, store)

	s, _ := r.New(ctx)
	s.Cart.AddToCart(ctx, 1, 1)
	clk.t = clk.t.Add(time.Hour)
	require.Equal(t, 1, r.Sweep(30*time.Minute))

	const n = 8
	got := make([]*Session, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i], _ = r.Get(ctx, s.ID)
		}()
	}
	wg.Wait()

	require.NotNil(t, got[0])
	for _, g := range got[1:] {
		assert.Same(t, got[0], g)
	}
	assert.Equal(t, 1, r.Len())
	assert.NotNil(t, got[0].Feed)
	assert.NotNil(t, got[0].Checkout)
	assert.Equal(t, 1, got[0].Cart.ItemCount())
}

func TestRegistry_NotificationsReachFeed(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newRegistry(t, kv.NewMemStore())

	s, _ := r.New(ctx)
	s.Cart.AddToCart(ctx, 3, 1)
	r.Notifier(s.ID).Notify(notify.Error, "Please fix the errors above")

	got := s.Feed.Drain()
	require.Len(t, got, 2)
	assert.Equal(t, "Added to cart", got[0].Message)
	assert.Equal(t, notify.Error, got[1].Severity)
}

func TestTokens_RoundTrip(t *testing.T) {
	tok := NewTokens("0123456789abcdef0123456789abcdef", time.Hour)

	raw, err := tok.Issue("sid-1")
	require.NoError(t, err)

	c, err := tok.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", c.SessionID)

	other := NewTokens("ffffffffffffffffffffffffffffffff", time.Hour)
	_, err = other.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokens("0123456789abcdef0123456789abcdef", -time.Minute)
	raw, _ = expired.Issue("sid-1")
	_, err = tok.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
