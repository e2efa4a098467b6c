package organize

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// State is the controller's position in an organize cycle.
type State int

const (
	Idle State = iota
	FastUpdated
	Debouncing
	Parsing
	Merged
	ErrorFallback
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FastUpdated:
		return "fast_updated"
	case Debouncing:
		return "debouncing"
	case Parsing:
		return "parsing"
	case Merged:
		return "merged"
	case ErrorFallback:
		return "error_fallback"
	}
	return "unknown"
}

// Controller drives one editing session. Every Update emits the fast scan
// immediately and restarts the debounce timer; when the timer fires the
// structured parse runs and its merged result is emitted. Each input gets a
// generation number and results belonging to a superseded generation are
// dropped, so the callback never sees an older parse after a newer input.
//
// The merge callback is invoked serially and must not call back into the
// Controller.
type Controller struct {
	pipeline *Pipeline
	onMerge  func(Result)
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	gen    uint64
	state  State
	text   string
	timer  *time.Timer
	closed bool

	emitMu sync.Mutex
}

// NewController creates a Controller that reports results to onMerge.
func NewController(pipeline *Pipeline, onMerge func(Result), logger *slog.Logger) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		pipeline: pipeline,
		onMerge:  onMerge,
		logger:   logger.With("system", "organize.controller"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Update records a new version of the notes.
func (c *Controller) Update(text string) {
	fast := c.pipeline.Scan(text)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.gen++
	gen := c.gen
	c.text = text
	c.state = FastUpdated
	c.stopTimer()
	c.timer = time.AfterFunc(c.pipeline.cfg.Debounce, func() { c.fire(gen) })
	c.mu.Unlock()

	c.emit(gen, fast)

	c.mu.Lock()
	if c.gen == gen && c.state == FastUpdated {
		c.state = Debouncing
	}
	c.mu.Unlock()
}

// OrganizeNow parses text without waiting for the debounce delay and returns
// the merged result. The result is also emitted unless newer input arrived
// in the meantime.
func (c *Controller) OrganizeNow(ctx context.Context, text string) Result {
	fast := c.pipeline.Scan(text)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fast
	}
	c.gen++
	gen := c.gen
	c.text = text
	c.stopTimer()
	c.state = FastUpdated
	c.mu.Unlock()

	c.emit(gen, fast)

	if !c.begin(gen) {
		return fast
	}
	r := c.pipeline.Run(ctx, text)
	c.finish(gen, r)
	return r
}

// Close stops the pending timer and abandons in-flight parses. Later input is
// ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.stopTimer()
	c.cancel()
	c.state = Idle
}

func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	text := c.text
	c.mu.Unlock()

	if !c.begin(gen) {
		return
	}
	r := c.pipeline.Run(c.ctx, text)
	c.finish(gen, r)
}

// begin moves gen into Parsing. It reports false when gen is stale.
func (c *Controller) begin(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen {
		return false
	}
	c.timer = nil
	c.state = Parsing
	return true
}

func (c *Controller) finish(gen uint64, r Result) {
	c.mu.Lock()
	current := !c.closed && gen == c.gen
	c.mu.Unlock()

	if !current {
		c.logger.Debug("discarding stale parse", "generation", gen)
		return
	}

	if r.Fallback {
		c.logger.Warn("organize fell back to fast result", "generation", gen, "error", r.Err)
	}

	c.emit(gen, r)

	c.mu.Lock()
	if gen == c.gen && !c.closed {
		c.state = Merged
		if r.Fallback {
			c.state = ErrorFallback
		}
	}
	c.mu.Unlock()
}

// emit delivers r when gen is still the newest input. Emissions are
// serialized so a stale result can never overtake a newer one.
func (c *Controller) emit(gen uint64, r Result) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	current := !c.closed && gen == c.gen
	c.mu.Unlock()

	if !current || c.onMerge == nil {
		return
	}
	c.onMerge(r)
}

func (c *Controller) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
