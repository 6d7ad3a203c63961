// Package kv is the durable string key-value storage behind cart and wishlist state.
//
// Writes are synchronous: when Set returns nil the value survives a process restart
// (for the durable backends).
package kv

import (
	"context"
	"errors"
	"fmt"
)

var ErrClosed = errors.New("kv: store closed")

type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

const (
	DriverMemory   = "memory"
	DriverBolt     = "bolt"
	DriverPebble   = "pebble"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver string
	// Path is the database file (bolt) or directory (pebble).
	Path string
	// DSN is the postgres connection string.
	DSN string
}

func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverMemory, "":
		return NewMemStore(), nil
	case DriverBolt:
		return OpenBolt(opts.Path)
	case DriverPebble:
		return OpenPebble(opts.Path)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.DSN)
	}
	return nil, fmt.Errorf("kv: unknown driver %q", opts.Driver)
}

// Prefixed scopes every key of s under prefix. Close is a no-op; the parent store owns the handle.
func Prefixed(s Store, prefix string) Store {
	return prefixed{s: s, prefix: prefix}
}

type prefixed struct {
	s      Store
	prefix string
}

func (p prefixed) Get(ctx context.Context, key string) (string, bool, error) {
	return p.s.Get(ctx, p.prefix+key)
}

func (p prefixed) Set(ctx context.Context, key, value string) error {
	return p.s.Set(ctx, p.prefix+key, value)
}

func (p prefixed) Delete(ctx context.Context, key string) error {
	return p.s.Delete(ctx, p.prefix+key)
}

func (p prefixed) Ping(ctx context.Context) error { return p.s.Ping(ctx) }

func (p prefixed) Close() error { return nil }
