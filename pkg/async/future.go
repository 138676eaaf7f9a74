// Package async provides a one-shot future and a blocking bridge that turns
// it into a plain (value, ok) result on the calling goroutine.
package async

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrCancelled is reported by Result for a cancelled future
var ErrCancelled = errors.New("future cancelled")

// Status describes how a future settled
type Status int

const (
	Pending Status = iota
	Completed
	Faulted
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case Faulted:
		return "faulted"
	case Cancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// Future holds a value that becomes available once. The first call to
// Resolve, Reject or Cancel settles it; later calls are ignored.
type Future[T any] struct {
	mu     sync.Mutex
	done   chan struct{}
	status Status
	value  T
	err    error
}

// NewFuture creates a pending future
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved creates a future already completed with v
func Resolved[T any](v T) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(v)
	return f
}

// Go runs fn on a new goroutine and settles the returned future with its
// outcome. A panic in fn faults the future.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := NewFuture[T]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.Reject(fmt.Errorf("panic: %v", r))
			}
		}()
		v, err := fn()
		if err != nil {
			f.Reject(err)
			return
		}
		f.Resolve(v)
	}()
	return f
}

// Resolve completes the future with v
func (f *Future[T]) Resolve(v T) bool {
	return f.settle(Completed, v, nil)
}

// Reject faults the future with err
func (f *Future[T]) Reject(err error) bool {
	var zero T
	if err == nil {
		err = errors.New("future rejected")
	}
	return f.settle(Faulted, zero, err)
}

// Cancel marks the future cancelled
func (f *Future[T]) Cancel() bool {
	var zero T
	return f.settle(Cancelled, zero, ErrCancelled)
}

func (f *Future[T]) settle(status Status, v T, err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != Pending {
		return false
	}
	f.status = status
	f.value = v
	f.err = err
	close(f.done)
	return true
}

// Done is closed once the future settles
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Status returns the current state
func (f *Future[T]) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Result returns the settled value and error. It does not block; on a
// pending future it returns the zero value and a nil error.
func (f *Future[T]) Result() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

// Await blocks until f settles and returns its value. A nil future returns
// immediately with ok=false. Cancelled and faulted futures also yield
// ok=false; their error is swallowed here. If ctx ends first the wait is
// abandoned with ok=false. A nil ctx waits without a deadline.
func Await[T any](ctx context.Context, f *Future[T]) (T, bool) {
	var zero T
	if f == nil {
		return zero, false
	}
	if ctx == nil {
		ctx = context.Background()
	}

	select {
	case <-f.Done():
	case <-ctx.Done():
		return zero, false
	}

	if f.Status() != Completed {
		return zero, false
	}
	v, _ := f.Result()
	return v, true
}
