package pool

import (
	"container/list"
	"sync"
)

// taskQueue is an unbounded FIFO. push never blocks, pop blocks until an item
// is available.
type taskQueue[T any] struct {
	mu       sync.Mutex
	nonEmpty *sync.Cond
	l        *list.List
}

func newTaskQueue[T any]() *taskQueue[T] {
	q := &taskQueue[T]{l: list.New()}
	q.nonEmpty = sync.NewCond(&q.mu)
	return q
}

func (q *taskQueue[T]) push(t T) {
	q.mu.Lock()
	q.l.PushBack(t)
	q.mu.Unlock()
	q.nonEmpty.Signal()
}

func (q *taskQueue[T]) pop() T {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.l.Len() == 0 {
		q.nonEmpty.Wait()
	}
	f := q.l.Front()
	q.l.Remove(f)
	return f.Value.(T)
}

func (q *taskQueue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.l.Len()
}
