// Package notify carries transient user-facing notifications ("toasts") from state
// changes to whoever is displaying them.
package notify

import (
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"
)

type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Default Severity = "default"
)

type Notification struct {
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

type Notifier interface {
	Notify(sev Severity, message string)
}

type NotifierFunc func(sev Severity, message string)

func (f NotifierFunc) Notify(sev Severity, message string) { f(sev, message) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(Severity, string) {})

// Bus fans notifications out per session. Publishing is synchronous, so a
// notification is visible in the attached Feed as soon as Notify returns.
type Bus struct {
	bus evbus.Bus
	now func() time.Time

	mu    sync.Mutex
	feeds map[string]func(Notification)
}

func NewBus() *Bus {
	return &Bus{
		bus:   evbus.New(),
		now:   time.Now,
		feeds: make(map[string]func(Notification)),
	}
}

func topic(sessionID string) string { return "notify:" + sessionID }

// For returns a Notifier publishing to the session's topic. With no Feed
// attached the notifications are dropped.
func (b *Bus) For(sessionID string) Notifier {
	t := topic(sessionID)
	return NotifierFunc(func(sev Severity, message string) {
		if !b.bus.HasCallback(t) {
			return
		}
		b.bus.Publish(t, Notification{Severity: sev, Message: message, At: b.now()})
	})
}

// Attach subscribes a new Feed to the session, replacing any previous one.
func (b *Bus) Attach(sessionID string, capacity int) (*Feed, error) {
	f := NewFeed(capacity)
	handler := func(n Notification) { f.Push(n) }

	b.mu.Lock()
	defer b.mu.Unlock()

	t := topic(sessionID)
	if prev, ok := b.feeds[sessionID]; ok {
		_ = b.bus.Unsubscribe(t, prev)
		delete(b.feeds, sessionID)
	}
	if err := b.bus.Subscribe(t, handler); err != nil {
		return nil, err
	}
	b.feeds[sessionID] = handler
	return f, nil
}

func (b *Bus) Detach(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if h, ok := b.feeds[sessionID]; ok {
		_ = b.bus.Unsubscribe(topic(sessionID), h)
		delete(b.feeds, sessionID)
	}
}

const DefaultFeedCapacity = 20

// Feed buffers undelivered notifications. When full the oldest is dropped.
type Feed struct {
	mu    sync.Mutex
	cap   int
	items []Notification
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultFeedCapacity
	}
	return &Feed{cap: capacity}
}

func (f *Feed) Push(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.items) == f.cap {
		f.items = append(f.items[:0], f.items[1:]...)
	}
	f.items = append(f.items, n)
}

func (f *Feed) Notify(sev Severity, message string) {
	f.Push(Notification{Severity: sev, Message: message, At: time.Now()})
}

// Drain returns the buffered notifications oldest first and empties the feed.
func (f *Feed) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.items
	f.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
