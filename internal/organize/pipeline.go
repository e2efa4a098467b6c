// Package organize runs incident notes through the fast scanner and the
// structured parser. Pipeline is the stateless request path; Controller adds
// the debounced, generation-tagged flow used while notes are being typed.
package organize

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/clearcase/internal/scan"
	"github.com/JaimeStill/clearcase/internal/structure"
)

// Defaults for Config fields left at zero.
const (
	DefaultDebounce  = 500 * time.Millisecond
	DefaultTimeout   = 10 * time.Second
	DefaultCacheSize = 256
)

// ErrParseTimeout is returned when the structured parse outlives its deadline.
var ErrParseTimeout = errors.New("structured parse timed out")

// Config tunes the pipeline and controller.
type Config struct {
	Debounce time.Duration
	Timeout  time.Duration
	// CacheSize bounds the number of parsed texts kept. The least recently
	// used entry is evicted first.
	CacheSize int
}

func (c Config) withDefaults() Config {
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.CacheSize <= 0 {
		c.CacheSize = DefaultCacheSize
	}
	return c
}

// Result merges the fast scan with the structured parse. Structured is nil
// until a parse completes; Fallback is set when the parse failed and only the
// fast result is available.
type Result struct {
	Text       string              `json:"-"`
	Fast       scan.Result         `json:"fast"`
	Structured *structure.Incident `json:"structured,omitempty"`
	Fallback   bool                `json:"fallback"`
	Err        error               `json:"-"`
	Error      string              `json:"error,omitempty"`
}

func (r *Result) fail(err error) {
	r.Structured = nil
	r.Fallback = true
	r.Err = err
	r.Error = err.Error()
}

// Pipeline parses notes with an offloaded, time-limited parser. Results are
// cached by text hash in a bounded LRU and concurrent parses of the same text share one call.
// Cached incidents are shared between callers and must not be modified.
type Pipeline struct {
	parser structure.Parser
	exec   Executor
	cfg    Config
	logger *slog.Logger
	group  singleflight.Group
	cache  *lru.Cache[string, structure.Incident]
}

// NewPipeline creates a Pipeline. A nil exec runs parses on the caller.
func NewPipeline(parser structure.Parser, exec Executor, cfg Config, logger *slog.Logger) *Pipeline {
	cfg = cfg.withDefaults()
	cache, _ := lru.New[string, structure.Incident](cfg.CacheSize)
	return &Pipeline{
		parser: parser,
		exec:   exec,
		cfg:    cfg,
		logger: logger.With("system", "organize"),
		cache:  cache,
	}
}

// Scan runs only the fast scanner.
func (p *Pipeline) Scan(text string) Result {
	return Result{Text: text, Fast: scan.QuickScan(text)}
}

// Run scans text and waits for its structured parse. Parse failures and
// timeouts are reported in the Result, never as a panic.
func (p *Pipeline) Run(ctx context.Context, text string) Result {
	r := p.Scan(text)

	inc, err := p.parse(ctx, text)
	if err != nil {
		p.logger.Warn("structured parse failed, using fast result", "error", err)
		r.fail(err)
		return r
	}

	r.Structured = &inc
	return r
}

// Parse returns only the structured incident for text. Pipeline satisfies
// structure.Parser so callers outside the editing flow share its cache,
// executor and timeout.
func (p *Pipeline) Parse(ctx context.Context, text string) (structure.Incident, error) {
	return p.parse(ctx, text)
}

func (p *Pipeline) parse(ctx context.Context, text string) (structure.Incident, error) {
	key := hash(text)

	if inc, ok := p.cache.Get(key); ok {
		return inc, nil
	}

	ch := p.group.DoChan(key, func() (any, error) {
		inc, err := p.offload(context.WithoutCancel(ctx), text)
		if err != nil {
			return nil, err
		}
		p.cache.Add(key, inc)
		return inc, nil
	})

	select {
	case <-ctx.Done():
		return structure.Incident{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return structure.Incident{}, res.Err
		}
		return res.Val.(structure.Incident), nil
	}
}

type parsed struct {
	inc structure.Incident
	err error
}

func (p *Pipeline) offload(ctx context.Context, text string) (structure.Incident, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	done := make(chan parsed, 1)
	dispatch(p.exec, func() {
		defer func() {
			if v := recover(); v != nil {
				done <- parsed{err: fmt.Errorf("parser panic: %v", v)}
			}
		}()
		inc, err := p.parser.Parse(ctx, text)
		done <- parsed{inc: inc, err: err}
	}, p.logger)

	select {
	case <-ctx.Done():
		return structure.Incident{}, fmt.Errorf("%w after %s", ErrParseTimeout, p.cfg.Timeout)
	case res := <-done:
		if res.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return structure.Incident{}, fmt.Errorf("%w after %s", ErrParseTimeout, p.cfg.Timeout)
		}
		if res.err != nil {
			return structure.Incident{}, fmt.Errorf("parse notes: %w", res.err)
		}
		res.inc.Normalize()
		return res.inc, nil
	}
}

func hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
