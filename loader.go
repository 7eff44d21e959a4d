package fanout

import (
	"context"
	"errors"
	"sync"
)

// ErrConfiguration marks errors returned when the registry cannot be loaded.
var ErrConfiguration = errors.New("failed to load configuration")

// Loader produces the destination registry for an invocation.
type Loader interface {
	Load(ctx context.Context) (*Registry, error)
}

// LoaderFunc is a function adapter for Loader.
type LoaderFunc func(ctx context.Context) (*Registry, error)

// Load implements the Loader interface.
func (f LoaderFunc) Load(ctx context.Context) (*Registry, error) {
	return f(ctx)
}

// StaticLoader returns a Loader that always yields a registry over ds.
func StaticLoader(ds ...Destination) Loader {
	reg := NewRegistry(ds)
	return LoaderFunc(func(context.Context) (*Registry, error) {
		return reg, nil
	})
}

// CacheLoader wraps l so the first successful registry is reused for the
// rest of the process. Failed loads are not cached and are retried on the
// next call.
func CacheLoader(l Loader) Loader {
	return &cachedLoader{next: l}
}

type cachedLoader struct {
	next Loader

	mu  sync.Mutex
	reg *Registry
}

func (c *cachedLoader) Load(ctx context.Context) (*Registry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reg != nil {
		return c.reg, nil
	}
	reg, err := c.next.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.reg = reg
	return reg, nil
}
