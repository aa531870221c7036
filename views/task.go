package views

import (
	"context"
	"sync"
)

// Lifetime is the span between a view's Mount and Unmount. Fetches started
// on it share its context; their results are applied only while it is alive.
type Lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	alive bool
	wg    sync.WaitGroup
}

func NewLifetime(parent context.Context) *Lifetime {
	ctx, cancel := context.WithCancel(parent)
	return &Lifetime{ctx: ctx, cancel: cancel, alive: true}
}

func (l *Lifetime) Context() context.Context { return l.ctx }

func (l *Lifetime) Alive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.alive
}

// End cancels outstanding fetches; anything they return afterwards is dropped.
func (l *Lifetime) End() {
	l.mu.Lock()
	l.alive = false
	l.mu.Unlock()
	l.cancel()
}

// Wait blocks until every task started on l has finished.
func (l *Lifetime) Wait() {
	l.wg.Wait()
}

// apply runs fn only if l is still alive, holding the lock so End cannot
// interleave with a half-applied result.
func (l *Lifetime) apply(fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.alive {
		return false
	}
	fn()
	return true
}

// Task is one fetch bound to a view's lifetime.
type Task struct {
	done    chan struct{}
	applied bool
}

// Done is closed when the fetch has returned, applied or not.
func (t *Task) Done() <-chan struct{} { return t.done }

// Applied reports whether the result reached the view. Valid after Done.
func (t *Task) Applied() bool { return t.applied }

// Fetch loads into target on l. The target switches to loading right away.
func Fetch[T any](l *Lifetime, target *Remote[T], fetch func(ctx context.Context) (T, error)) *Task {
	target.start()
	return Go(l, fetch, func(v T, err error) {
		if err != nil {
			target.fail(err)
			return
		}
		target.resolve(v)
	})
}

// Go runs fetch in the background and hands its result to apply if the
// lifetime is still alive when it returns.
func Go[T any](l *Lifetime, fetch func(ctx context.Context) (T, error), apply func(T, error)) *Task {
	t := &Task{done: make(chan struct{})}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer close(t.done)
		v, err := fetch(l.ctx)
		t.applied = l.apply(func() { apply(v, err) })
	}()
	return t
}
