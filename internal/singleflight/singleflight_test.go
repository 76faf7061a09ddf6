package singleflight

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inFlight[T any](g *Group[T]) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.m)
}

func TestNew(t *testing.T) {
	g := New[string]()
	require.NotNil(t, g)
	assert.NotNil(t, g.m)
	assert.Equal(t, 0, inFlight(g))
}

func TestDo(t *testing.T) {
	g := New[string]()

	val, err, shared := g.Do("key1", func() (string, error) {
		return "hello", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "hello", val)
	assert.False(t, shared)
	assert.Equal(t, 0, inFlight(g))
}

func TestDoError(t *testing.T) {
	g := New[*int]()
	expectedErr := errors.New("test error")

	val, err, _ := g.Do("key1", func() (*int, error) {
		return nil, expectedErr
	})

	assert.ErrorIs(t, err, expectedErr)
	assert.Nil(t, val)
}

func TestDoDuplicateCalls(t *testing.T) {
	g := New[string]()

	var calls int32
	release := make(chan struct{})
	fn := func() (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "result", nil
	}

	const numCalls = 10
	var wg sync.WaitGroup
	results := make([]string, numCalls)
	errs := make([]error, numCalls)
	sharedCount := int32(0)

	for i := 0; i < numCalls; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			var shared bool
			results[index], errs[index], shared = g.Do("same-key", fn)
			if shared {
				atomic.AddInt32(&sharedCount, 1)
			}
		}(i)
	}

	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		c, ok := g.m["same-key"]
		return ok && c.dups == numCalls-1
	}, time.Second, time.Millisecond)

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, int32(numCalls), atomic.LoadInt32(&sharedCount))
	for i := range results {
		assert.NoError(t, errs[i])
		assert.Equal(t, "result", results[i])
	}
}

func TestDoRunsAgainAfterCompletion(t *testing.T) {
	g := New[int]()
	n := 0
	fn := func() (int, error) {
		n++
		return n, nil
	}

	first, _, _ := g.Do("k", fn)
	second, _, _ := g.Do("k", fn)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestDoPanicReleasesKey(t *testing.T) {
	g := New[*int]()

	assert.Panics(t, func() {
		_, _, _ = g.Do("key1", func() (*int, error) {
			panic("boom")
		})
	})
	assert.Equal(t, 0, inFlight(g))

	n := 7
	val, err, shared := g.Do("key1", func() (*int, error) {
		return &n, nil
	})
	require.NoError(t, err)
	assert.Equal(t, &n, val)
	assert.False(t, shared)
}

func TestDoPanicFailsWaiters(t *testing.T) {
	g := New[string]()

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		defer func() { _ = recover() }()
		_, _, _ = g.Do("key1", func() (string, error) {
			close(started)
			<-release
			panic("boom")
		})
	}()
	<-started

	done := make(chan error, 1)
	go func() {
		_, err, _ := g.Do("key1", func() (string, error) {
			return "unused", nil
		})
		done <- err
	}()

	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		c, ok := g.m["key1"]
		return ok && c.dups == 1
	}, time.Second, time.Millisecond)
	close(release)

	assert.ErrorIs(t, <-done, errPanicked)
}

func BenchmarkDo(b *testing.B) {
	g := New[string]()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = g.Do("bench-key", func() (string, error) {
			return "result", nil
		})
	}
}
