package views

import "sync"

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusFailed
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusFailed:
		return "failed"
	case StatusReady:
		return "ready"
	default:
		return "idle"
	}
}

// Remote holds one piece of server data the way a screen shows it:
// loading, failed with an error, or ready with a value.
type Remote[T any] struct {
	mu     sync.RWMutex
	status Status
	data   T
	err    error
}

func (r *Remote[T]) start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = StatusLoading
	r.err = nil
}

func (r *Remote[T]) resolve(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = StatusReady
	r.data = v
	r.err = nil
}

func (r *Remote[T]) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = StatusFailed
	r.err = err
}

// update changes a ready value in place.
func (r *Remote[T]) update(fn func(T) T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == StatusReady {
		r.data = fn(r.data)
	}
}

func (r *Remote[T]) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

func (r *Remote[T]) Data() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data
}

func (r *Remote[T]) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}
