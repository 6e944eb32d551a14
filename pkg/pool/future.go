package pool

import (
	"sync"
)

// State of a Future.
type State int

const (
	Pending State = iota
	Resolved
	Failed
)

func (s State) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// Future is a one-shot result holder. It leaves the Pending state exactly
// once; the first Resolve or Fail wins and later calls are rejected.
type Future[T any] struct {
	mu    sync.Mutex
	state State
	value T
	err   error
	done  chan struct{}
}

func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolve completes the future with v.
func (f *Future[T]) Resolve(v T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Pending {
		return ErrAlreadyCompleted
	}
	f.value = v
	f.state = Resolved
	close(f.done)
	return nil
}

// Fail completes the future with err.
func (f *Future[T]) Fail(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Pending {
		return ErrAlreadyCompleted
	}
	f.err = err
	f.state = Failed
	close(f.done)
	return nil
}

// Await blocks until the future is completed. Every call returns the same
// value and error.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.value, f.err
}

func (f *Future[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Done is closed once the future is completed.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}
