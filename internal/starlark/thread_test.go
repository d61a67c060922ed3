package starlark

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestThreadPool_GetPut(t *testing.T) {
	pool := NewThreadPool(5)

	thread := pool.Get("first")
	require.NotNil(t, thread)
	assert.Equal(t, "first", thread.Name)

	thread.SetLocal(contextKey, context.Background())
	pool.Put(thread)
	assert.Equal(t, 1, pool.Size())

	reused := pool.Get("second")
	assert.Same(t, thread, reused)
	assert.Equal(t, 0, pool.Size())
	assert.Equal(t, "second", reused.Name)
	assert.Nil(t, reused.Local(contextKey), "context must not leak between uses")
}

func TestThreadPool_MaxSize(t *testing.T) {
	pool := NewThreadPool(2)

	threads := make([]*starlark.Thread, 3)
	for i := range threads {
		threads[i] = pool.Get("t")
	}
	for _, thread := range threads {
		pool.Put(thread)
	}

	assert.Equal(t, 2, pool.Size())
}

func TestThreadPool_DefaultSize(t *testing.T) {
	pool := NewThreadPool(0)
	held := make([]*starlark.Thread, 12)
	for i := range held {
		held[i] = pool.Get("t")
	}
	for _, thread := range held {
		pool.Put(thread)
	}
	assert.Equal(t, 10, pool.Size())
}

func TestThreadPool_Concurrent(t *testing.T) {
	pool := NewThreadPool(10)
	var wg sync.WaitGroup

	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Put(pool.Get("concurrent"))
		}()
	}

	wg.Wait()
	assert.LessOrEqual(t, pool.Size(), 10)
}
