package organize

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/JaimeStill/clearcase/pkg/lifecycle"
)

var (
	ErrPoolFull   = errors.New("worker pool queue is full")
	ErrPoolClosed = errors.New("worker pool is closed")
)

// Executor runs parse work away from the caller.
type Executor interface {
	Submit(fn func()) error
}

// Direct runs work on the calling goroutine.
type Direct struct{}

func (Direct) Submit(fn func()) error {
	fn()
	return nil
}

// Pool is a fixed set of worker goroutines fed from a bounded queue.
type Pool struct {
	jobs   chan func()
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPool starts workers goroutines draining a queue of the given depth.
func NewPool(workers, queue int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queue < 0 {
		queue = 0
	}

	p := &Pool{
		jobs:   make(chan func(), queue),
		logger: logger.With("system", "organize.pool"),
	}

	for range workers {
		p.wg.Go(p.work)
	}

	p.logger.Info("worker pool started", "workers", workers, "queue", queue)
	return p
}

// Submit queues fn without blocking.
func (p *Pool) Submit(fn func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.jobs <- fn:
		return nil
	default:
		return ErrPoolFull
	}
}

// Close stops accepting work and waits for queued work to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

// Register closes the pool when lc shuts down.
func (p *Pool) Register(lc *lifecycle.Coordinator) {
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		p.Close()
	})
}

func (p *Pool) work() {
	for fn := range p.jobs {
		fn()
	}
}

// dispatch hands fn to exec and falls back to running it inline when exec
// refuses the work.
func dispatch(exec Executor, fn func(), logger *slog.Logger) {
	if exec == nil {
		fn()
		return
	}
	if err := exec.Submit(fn); err != nil {
		logger.Debug("executor refused work, running inline", "error", err)
		fn()
	}
}
