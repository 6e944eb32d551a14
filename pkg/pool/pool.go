// Package pool runs work on a fixed set of goroutines and hands results back
// through Futures matched by task id.
//
// A pool either shares payloads with its workers or isolates them behind a
// Codec, so a worker never holds a reference to the caller's data. Both
// flavors are the same WorkerPool with a different strategy.
package pool

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var _ Pool[int, int] = (*WorkerPool[int, int])(nil)

// Func is one unit of work.
type Func[A, R any] func(A) (R, error)

// Pool is the contract shared by every pool flavor.
type Pool[A, R any] interface {
	// Submit queues fn(args) and returns its Future. It fails with
	// ErrPoolClosed once Shutdown has started; the work is not queued then.
	Submit(fn Func[A, R], args A) (*Future[R], error)

	// Shutdown stops the workers after the queued work is done and waits
	// until every Future has been completed. Calling it again is a no-op.
	Shutdown()

	Size() int
	Mode() Mode
}

type Option func(*options)

type options struct {
	mode    Mode
	codec   Codec
	logger  *zap.Logger
	metrics *Metrics
}

func WithMode(m Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithCodec sets the codec of an isolated pool. Shared pools ignore it.
func WithCodec(c Codec) Option {
	return func(o *options) { o.codec = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

type job[A, R any] struct {
	id   uint64
	fn   Func[A, R]
	in   any
	err  error
	stop bool
}

type outcome struct {
	id    uint64
	ok    bool
	value any
	err   error
}

// WorkerPool is a fixed-size pool of worker goroutines plus one dispatcher
// goroutine that completes Futures.
type WorkerPool[A, R any] struct {
	size     int
	mode     Mode
	strategy strategy[A, R]
	logger   *zap.Logger
	metrics  poolMetrics

	mu      sync.Mutex
	closed  bool
	nextID  uint64
	futures map[uint64]*Future[R]

	tasks      *taskQueue[job[A, R]]
	results    chan outcome
	workers    sync.WaitGroup
	dispatched chan struct{}
	stopOnce   sync.Once
}

// New starts a pool of n workers.
func New[A, R any](n int, opts ...Option) (*WorkerPool[A, R], error) {
	if n < 1 {
		return nil, ErrInvalidSize
	}
	o := options{mode: Shared, codec: jsonCodec, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	p := &WorkerPool[A, R]{
		size:       n,
		mode:       o.mode,
		logger:     o.logger.With(zap.String("pool", string(o.mode))),
		metrics:    o.metrics.forMode(o.mode),
		futures:    make(map[uint64]*Future[R]),
		tasks:      newTaskQueue[job[A, R]](),
		results:    make(chan outcome, n),
		dispatched: make(chan struct{}),
	}
	switch o.mode {
	case Shared:
		p.strategy = sharedStrategy[A, R]{}
	case Isolated:
		p.strategy = isolatedStrategy[A, R]{codec: o.codec}
	default:
		return nil, errors.Wrapf(ErrUnknownMode, "%q", o.mode)
	}

	go p.dispatch()
	for i := range n {
		p.workers.Add(1)
		go p.worker(i)
	}
	p.logger.Debug("Pool started", zap.Int("workers", n))
	return p, nil
}

func (p *WorkerPool[A, R]) Size() int {
	return p.size
}

func (p *WorkerPool[A, R]) Mode() Mode {
	return p.mode
}

func (p *WorkerPool[A, R]) Submit(fn Func[A, R], args A) (*Future[R], error) {
	// an isolated pool takes its snapshot of args here
	in, err := p.strategy.enter(args)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrPoolClosed
	}

	id := p.nextID
	p.nextID++
	fut := NewFuture[R]()
	p.futures[id] = fut
	p.tasks.push(job[A, R]{id: id, fn: fn, in: in, err: err})

	if p.metrics.enabled() {
		p.metrics.submitted.Inc()
	}
	return fut, nil
}

func (p *WorkerPool[A, R]) Shutdown() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.logger.Debug("Pool stopping", zap.Int("backlog", p.tasks.len()))
		for range p.size {
			p.tasks.push(job[A, R]{stop: true})
		}
		p.mu.Unlock()

		p.workers.Wait()
		close(p.results)
		<-p.dispatched

		p.mu.Lock()
		stragglers := p.futures
		p.futures = make(map[uint64]*Future[R])
		p.mu.Unlock()
		for id, fut := range stragglers {
			_ = fut.Fail(&TaskError{ID: id, Msg: ErrPoolClosed.Error(), cause: ErrPoolClosed})
		}

		p.logger.Debug("Pool stopped",
			zap.Uint64("tasks", p.nextID),
			zap.Int("stragglers", len(stragglers)))
	})
}

func (p *WorkerPool[A, R]) worker(id int) {
	defer p.workers.Done()

	for {
		j := p.tasks.pop()
		if j.stop {
			p.logger.Debug("Worker stopped", zap.Int("worker", id))
			return
		}
		p.results <- p.run(j)
	}
}

// run executes one job. Failures and panics end up in the outcome, never in
// the worker loop.
func (p *WorkerPool[A, R]) run(j job[A, R]) (out outcome) {
	out.id = j.id
	if j.err != nil {
		out.err = j.err
		return out
	}

	if p.metrics.enabled() {
		start := time.Now()
		p.metrics.active.Inc()
		defer func() {
			p.metrics.active.Dec()
			p.metrics.latency.Observe(time.Since(start).Seconds())
		}()
	}

	defer func() {
		if v := recover(); v != nil {
			p.logger.Error("Task panicked",
				zap.Uint64("task", j.id),
				zap.Any("panic", v),
				zap.ByteString("stack", debug.Stack()))
			out.ok, out.value = false, nil
			out.err = p.panicError(v)
		}
	}()

	v, err := p.strategy.exec(j.fn, j.in)
	if err != nil {
		out.err = err
		return out
	}
	out.ok, out.value = true, v
	return out
}

// dispatch is the only goroutine that completes pool Futures.
func (p *WorkerPool[A, R]) dispatch() {
	defer close(p.dispatched)

	for out := range p.results {
		p.mu.Lock()
		fut, ok := p.futures[out.id]
		delete(p.futures, out.id)
		p.mu.Unlock()

		if !ok {
			p.logger.Warn("Result for unknown task", zap.Uint64("task", out.id))
			continue
		}
		p.complete(fut, out)
	}
}

// panicError turns a recovered value into the task error. Isolated pools
// keep only its text.
func (p *WorkerPool[A, R]) panicError(v any) error {
	err, ok := v.(error)
	if !ok {
		return fmt.Errorf("panic: %v", v)
	}
	if p.mode == Isolated {
		return errors.New(err.Error())
	}
	return err
}

func (p *WorkerPool[A, R]) complete(fut *Future[R], out outcome) {
	// the dispatcher must outlive any outcome
	defer func() {
		if v := recover(); v != nil {
			p.logger.Error("Completing task panicked",
				zap.Uint64("task", out.id),
				zap.Any("panic", v),
				zap.ByteString("stack", debug.Stack()))
			_ = fut.Fail(&TaskError{ID: out.id, Msg: fmt.Sprintf("panic: %v", v)})
			if p.metrics.enabled() {
				p.metrics.failed.Inc()
			}
		}
	}()

	if out.ok {
		res, err := p.strategy.leave(out.value)
		if err == nil {
			if err := fut.Resolve(res); err != nil {
				p.logger.Error("Future resolved twice", zap.Uint64("task", out.id))
			}
			if p.metrics.enabled() {
				p.metrics.completed.Inc()
			}
			return
		}
		out.err = err
	}

	p.logger.Debug("Task failed", zap.Uint64("task", out.id), zap.Error(out.err))
	if err := fut.Fail(&TaskError{ID: out.id, Msg: out.err.Error(), cause: out.err}); err != nil {
		p.logger.Error("Future resolved twice", zap.Uint64("task", out.id))
	}
	if p.metrics.enabled() {
		p.metrics.failed.Inc()
	}
}
