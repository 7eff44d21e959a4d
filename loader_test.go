package fanout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticLoader(t *testing.T) {
	reg, err := StaticLoader(Queue("q", "url")).Load(context.Background())

	require.NoError(t, err)
	assert.Len(t, reg.All(), 1)
}

func TestCacheLoader(t *testing.T) {
	t.Run("reuses first successful registry", func(t *testing.T) {
		var calls int
		l := CacheLoader(LoaderFunc(func(context.Context) (*Registry, error) {
			calls++
			return NewRegistry([]Destination{Queue("q", "url")}), nil
		}))

		first, err := l.Load(context.Background())
		require.NoError(t, err)
		second, err := l.Load(context.Background())
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries after failure", func(t *testing.T) {
		var calls int
		l := CacheLoader(LoaderFunc(func(context.Context) (*Registry, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("not yet")
			}
			return NewRegistry(nil), nil
		}))

		_, err := l.Load(context.Background())
		require.Error(t, err)

		reg, err := l.Load(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, reg)
		assert.Equal(t, 2, calls)
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		var mu sync.Mutex
		var calls int
		l := CacheLoader(LoaderFunc(func(context.Context) (*Registry, error) {
			mu.Lock()
			calls++
			mu.Unlock()
			return NewRegistry(nil), nil
		}))

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = l.Load(context.Background())
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, calls)
	})
}
