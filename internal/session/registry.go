// Package session maps anonymous shoppers to their state: one cart, one shop
// view and one notification feed each.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"LuxeStore/internal/cart"
	"LuxeStore/internal/catalog"
	"LuxeStore/internal/checkout"
	"LuxeStore/internal/debounce"
	"LuxeStore/internal/kv"
	"LuxeStore/internal/notify"
	"LuxeStore/internal/shop"
)

var ErrBadSessionID = errors.New("bad session id")

type Session struct {
	ID       string
	Cart     *cart.Cart
	Shop     *shop.View
	Feed     *notify.Feed
	Notifier notify.Notifier
	// Checkout tracks field feedback on the checkout form.
	Checkout *checkout.Tracker

	lastSeen atomic.Int64
	inflight atomic.Int32
}

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

// hold pins the session against eviction until the returned func is called.
func (s *Session) hold() func() {
	s.inflight.Add(1)
	return func() { s.inflight.Add(-1) }
}

func (s *Session) busy() bool { return s.inflight.Load() > 0 }

func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

type Deps struct {
	Catalog *catalog.Catalog
	Store   kv.Store
	Bus     *notify.Bus
	Log     *zap.Logger
	// Form backs every session's checkout tracker. Defaults to checkout.NewForm().
	Form    *checkout.Form

	Clock       debounce.Clock
	SearchDelay time.Duration
	// QueryObserver is told the size of every shop query.
	QueryObserver func(n int)
	// Active is told the live session count after every change.
	Active func(n int)
	Now    func() time.Time
}

type Registry struct {
	d Deps

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(d Deps) *Registry {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Bus == nil {
		d.Bus = notify.NewBus()
	}
	if d.Form == nil {
		d.Form = checkout.NewForm()
	}
	return &Registry{d: d, sessions: make(map[string]*Session)}
}

// KeyPrefix is the storage namespace of one session.
func KeyPrefix(id string) string { return "session/" + id + "/" }

// New starts a fresh session with an empty cart and wishlist.
func (r *Registry) New(ctx context.Context) (*Session, error) {
	return r.Get(ctx, uuid.NewString())
}

// Get returns the live session, restoring it from storage when it is not in
// memory. Storage is read outside the registry lock; when two requests restore
// the same id at once the first one inserted wins.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrBadSessionID
	}

	if s, ok := r.lookup(id); ok {
		return s, nil
	}

	notifier := r.d.Bus.For(id)
	fresh := &Session{
		ID:       id,
		Notifier: notifier,
		Checkout: checkout.NewTracker(r.d.Form),
		Cart: cart.Restore(ctx, cart.Deps{
			Catalog:  r.d.Catalog,
			Store:    kv.Prefixed(r.d.Store, KeyPrefix(id)),
			Notifier: notifier,
			Log:      r.d.Log.With(zap.String("session", id)),
		}),
		Shop: shop.NewView(r.d.Catalog, shop.Options{
			Clock:       r.d.Clock,
			SearchDelay: r.d.SearchDelay,
			Observer:    r.d.QueryObserver,
		}),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.d.Now()
	if s, ok := r.sessions[id]; ok {
		fresh.Shop.Close()
		s.touch(now)
		return s, nil
	}

	feed, err := r.d.Bus.Attach(id, notify.DefaultFeedCapacity)
	if err != nil {
		fresh.Shop.Close()
		return nil, err
	}
	fresh.Feed = feed
	fresh.touch(now)
	r.sessions[id] = fresh
	r.reportLocked()
	return fresh, nil
}

func (r *Registry) lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if ok {
		s.touch(r.d.Now())
	}
	return s, ok
}

// Notifier publishes to the session's feed.
func (r *Registry) Notifier(id string) notify.Notifier { return r.d.Bus.For(id) }

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle for longer than idle that no request is using.
// Their persisted state stays in storage and is restored on the next request.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.d.Now().Add(-idle)
	n := 0
	for id, s := range r.sessions {
		if s.busy() || s.LastSeen().After(cutoff) {
			continue
		}
		r.evictLocked(id, s)
		n++
	}
	if n > 0 {
		r.reportLocked()
	}
	return n
}

func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		r.evictLocked(id, s)
	}
	r.reportLocked()
}

func (r *Registry) evictLocked(id string, s *Session) {
	s.Shop.Close()
	r.d.Bus.Detach(id)
	delete(r.sessions, id)
}

func (r *Registry) reportLocked() {
	if r.d.Active != nil {
		r.d.Active(len(r.sessions))
	}
}
