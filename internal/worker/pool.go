// Package worker provides a bounded worker pool for deriving per-game data
// in parallel.
package worker

import (
	"sync"
	"sync/atomic"
)

// Item is one unit of work. Index records submission order so callers can
// restore it from the unordered results.
type Item[T any] struct {
	Value T
	Index int
}

// Result is the outcome of processing one Item.
type Result[T, R any] struct {
	Input T
	Value R
	Index int
	Err   error
}

// ProcessFunc processes one item. It must be safe to call from several
// goroutines at once.
type ProcessFunc[T, R any] func(item Item[T]) (R, error)

// Pool runs a fixed number of workers over a buffered work channel.
type Pool[T, R any] struct {
	numWorkers  int
	bufferSize  int
	workChan    chan Item[T]
	resultChan  chan Result[T, R]
	processFunc ProcessFunc[T, R]
	wg          sync.WaitGroup
	stopped     atomic.Bool
}

type config struct {
	workers    int
	bufferSize int
}

// PoolOption configures a Pool.
type PoolOption func(*config)

// WithWorkers sets the number of worker goroutines. Values below 1 are
// ignored.
func WithWorkers(n int) PoolOption {
	return func(c *config) {
		if n >= 1 {
			c.workers = n
		}
	}
}

// WithBufferSize sets the channel buffer size. Values below 1 are ignored.
func WithBufferSize(size int) PoolOption {
	return func(c *config) {
		if size >= 1 {
			c.bufferSize = size
		}
	}
}

// NewPool creates a pool. Default: 1 worker, buffer size of 10.
func NewPool[T, R any](processFunc ProcessFunc[T, R], opts ...PoolOption) *Pool[T, R] {
	c := config{workers: 1, bufferSize: 10}
	for _, opt := range opts {
		opt(&c)
	}
	return &Pool[T, R]{
		numWorkers:  c.workers,
		bufferSize:  c.bufferSize,
		workChan:    make(chan Item[T], c.bufferSize),
		resultChan:  make(chan Result[T, R], c.bufferSize),
		processFunc: processFunc,
	}
}

// Start starts the worker goroutines.
func (p *Pool[T, R]) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool[T, R]) worker() {
	defer p.wg.Done()

	for item := range p.workChan {
		if p.IsStopped() {
			continue // drain without processing
		}
		v, err := p.processFunc(item)
		p.resultChan <- Result[T, R]{Input: item.Value, Value: v, Index: item.Index, Err: err}
	}
}

// Submit queues an item, blocking while the buffer is full.
func (p *Pool[T, R]) Submit(item Item[T]) {
	p.workChan <- item
}

// Stop makes workers skip any item they have not started yet.
func (p *Pool[T, R]) Stop() {
	p.stopped.Store(true)
}

// IsStopped reports whether Stop was called.
func (p *Pool[T, R]) IsStopped() bool {
	return p.stopped.Load()
}

// Close closes the work channel and waits for the workers. The result
// channel is closed once they are done.
func (p *Pool[T, R]) Close() {
	close(p.workChan)
	p.wg.Wait()
	close(p.resultChan)
}

// Results returns the result channel.
func (p *Pool[T, R]) Results() <-chan Result[T, R] {
	return p.resultChan
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool[T, R]) NumWorkers() int {
	return p.numWorkers
}
