// Package voice rewrites incident narrative into a consistent author
// perspective and optionally polishes it through the remote grammar function.
package voice

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/clearcase/internal/remote"
)

// Perspective is the narrative voice an incident is written in.
type Perspective string

const (
	FirstPerson Perspective = "first_person"
	ThirdPerson Perspective = "third_person"
)

// ParsePerspective maps user input to a Perspective. Unknown values default to
// FirstPerson.
func ParsePerspective(s string) Perspective {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "third", "third_person", "third-person":
		return ThirdPerson
	default:
		return FirstPerson
	}
}

type replacement struct {
	pattern *regexp.Regexp
	with    string
}

var firstPersonRules = []replacement{
	{regexp.MustCompile(`(?i)\b(to|at|with|for|from|about|toward|towards|told|asked|called|accused|blamed|warned|gave|showed|sent|emailed|texted|paid|fired|suspended|let)\s+you\b`), "$1 me"},
	{regexp.MustCompile(`(?i)\byou\s+were\b`), "I was"},
	{regexp.MustCompile(`(?i)\byou\s+are\b`), "I am"},
	{regexp.MustCompile(`(?i)\byou're\b`), "I'm"},
	{regexp.MustCompile(`(?i)\byou've\b`), "I've"},
	{regexp.MustCompile(`(?i)\byourself\b`), "myself"},
	{regexp.MustCompile(`(?i)\byours\b`), "mine"},
	{regexp.MustCompile(`(?i)\byour\b`), "my"},
	{regexp.MustCompile(`(?i)\byou\b`), "I"},
}

var thirdPersonRules = []replacement{
	{regexp.MustCompile(`\bI\s+am\b|\bI'm\b`), "the employee is"},
	{regexp.MustCompile(`\bI\s+was\b`), "the employee was"},
	{regexp.MustCompile(`\bI've\b`), "the employee has"},
	{regexp.MustCompile(`\bI'd\b`), "the employee had"},
	{regexp.MustCompile(`\bI'll\b`), "the employee will"},
	{regexp.MustCompile(`\bI\b`), "the employee"},
	{regexp.MustCompile(`(?i)\bmyself\b`), "themselves"},
	{regexp.MustCompile(`(?i)\bmine\b`), "the employee's"},
	{regexp.MustCompile(`(?i)\bmy\b`), "the employee's"},
	{regexp.MustCompile(`(?i)\bme\b`), "the employee"},
}

var sentenceStart = regexp.MustCompile(`(^|[.!?]\s+)the employee`)

// Rewrite converts text to perspective p. It is a pure transform; text already
// in the target voice comes back unchanged.
func Rewrite(s string, p Perspective) string {
	if strings.TrimSpace(s) == "" {
		return s
	}

	rules := firstPersonRules
	if p == ThirdPerson {
		rules = thirdPersonRules
	}

	out := s
	for _, r := range rules {
		out = r.pattern.ReplaceAllString(out, r.with)
	}

	if p == ThirdPerson {
		out = sentenceStart.ReplaceAllString(out, "${1}The employee")
	}
	return out
}

// Improver polishes narrative text.
type Improver interface {
	ImproveGrammar(ctx context.Context, text string) (remote.Improvement, error)
}

// BatchImprover polishes several texts in one call. Improvers that implement
// it let NormalizeAll send a single request.
type BatchImprover interface {
	ImproveGrammarBatch(ctx context.Context, texts []string) ([]remote.Improvement, error)
}

// Normalizer applies Rewrite and then, when an Improver is configured, the
// remote grammar pass. Improved results are cached per instance.
type Normalizer struct {
	improver Improver
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[string]string
}

// New creates a Normalizer. A nil improver disables the grammar pass.
func New(improver Improver, logger *slog.Logger) *Normalizer {
	return &Normalizer{
		improver: improver,
		logger:   logger.With("system", "voice"),
		cache:    make(map[string]string),
	}
}

// Normalize rewrites s to perspective p and improves its grammar. When the
// grammar pass fails the rewritten text is returned along with the error.
func (n *Normalizer) Normalize(ctx context.Context, s string, p Perspective) (string, error) {
	rewritten := Rewrite(s, p)
	if n.improver == nil || strings.TrimSpace(rewritten) == "" {
		return rewritten, nil
	}

	if improved, ok := n.cached(rewritten); ok {
		return improved, nil
	}
	return n.improve(ctx, rewritten)
}

// improve sends s through the improver and caches the result.
func (n *Normalizer) improve(ctx context.Context, s string) (string, error) {
	result, err := n.improver.ImproveGrammar(ctx, s)
	if err != nil {
		n.logger.Warn("grammar improvement skipped", "error", err)
		return s, fmt.Errorf("improve grammar: %w", err)
	}

	improved := improvedText(s, result)
	n.store(s, improved)
	return improved, nil
}

func improvedText(s string, result remote.Improvement) string {
	if result.HasChanges && strings.TrimSpace(result.ImprovedText) != "" {
		return result.ImprovedText
	}
	return s
}

// NormalizeAll normalizes every entry of texts. Uncached entries go to the
// improver in one batch when it supports batches; otherwise, or when the batch
// fails, they are improved one at a time concurrently. Entries whose grammar
// pass fails keep their rewritten form; the first such error is returned.
func (n *Normalizer) NormalizeAll(ctx context.Context, texts []string, p Perspective) ([]string, error) {
	out := make([]string, len(texts))
	for i, s := range texts {
		out[i] = Rewrite(s, p)
	}
	if n.improver == nil {
		return out, nil
	}

	var pending []int
	for i, s := range out {
		if strings.TrimSpace(s) == "" {
			continue
		}
		if improved, ok := n.cached(s); ok {
			out[i] = improved
			continue
		}
		pending = append(pending, i)
	}
	if len(pending) == 0 {
		return out, nil
	}

	if batch, ok := n.improver.(BatchImprover); ok && len(pending) > 1 {
		if n.improveBatch(ctx, batch, out, pending) {
			return out, nil
		}
	}

	return out, n.improveEach(ctx, out, pending)
}

// improveBatch improves out[i] for every i in pending with one call. It
// reports whether the batch succeeded; on failure out is left untouched.
func (n *Normalizer) improveBatch(ctx context.Context, batch BatchImprover, out []string, pending []int) bool {
	inputs := make([]string, len(pending))
	for j, i := range pending {
		inputs[j] = out[i]
	}

	results, err := batch.ImproveGrammarBatch(ctx, inputs)
	if err != nil || len(results) != len(inputs) {
		n.logger.Warn("grammar batch failed, improving texts individually", "texts", len(inputs), "error", err)
		return false
	}

	for j, i := range pending {
		improved := improvedText(inputs[j], results[j])
		n.store(inputs[j], improved)
		out[i] = improved
	}
	return true
}

func (n *Normalizer) improveEach(ctx context.Context, out []string, pending []int) error {
	errs := make([]error, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for j, i := range pending {
		g.Go(func() error {
			out[i], errs[j] = n.improve(gctx, out[i])
			return nil
		})
	}
	g.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (n *Normalizer) cached(s string) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	v, ok := n.cache[s]
	return v, ok
}

func (n *Normalizer) store(key, value string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cache[key] = value
}
