// Package singleflight collapses concurrent calls for the same key into one
// execution whose result is handed to every caller.
package singleflight

import (
	"errors"
	"sync"
)

// errPanicked is handed to the callers waiting on a call whose fn panicked.
// The panic itself propagates to the caller that ran fn.
var errPanicked = errors.New("singleflight: call panicked")

// Group manages a set of in-flight calls keyed by string.
// The zero value is not usable; call New.
type Group[T any] struct {
	mu sync.Mutex
	m  map[string]*call[T]
}

type call[T any] struct {
	wg   sync.WaitGroup
	val  T
	err  error
	dups int
}

// New creates a new Group.
func New[T any]() *Group[T] {
	return &Group[T]{
		m: make(map[string]*call[T]),
	}
}

// Do executes fn for key unless a call for key is already running, in which
// case it waits for that call and returns its results. shared reports whether
// the result was delivered to more than one caller.
//
// A key is forgotten as soon as its call returns or panics, so a later Do
// starts a fresh execution.
func (g *Group[T]) Do(key string, fn func() (T, error)) (v T, err error, shared bool) {
	g.mu.Lock()
	if c, ok := g.m[key]; ok {
		c.dups++
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &call[T]{}
	c.wg.Add(1)
	g.m[key] = c
	g.mu.Unlock()

	normalReturn := false
	defer func() {
		if !normalReturn {
			c.err = errPanicked
		}
		g.mu.Lock()
		if g.m[key] == c {
			delete(g.m, key)
		}
		shared = c.dups > 0
		g.mu.Unlock()
		c.wg.Done()
	}()

	c.val, c.err = fn()
	normalReturn = true

	return c.val, c.err, shared
}
