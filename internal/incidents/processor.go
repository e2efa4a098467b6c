package incidents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/clearcase/internal/categories"
	"github.com/JaimeStill/clearcase/internal/dates"
	"github.com/JaimeStill/clearcase/internal/names"
	"github.com/JaimeStill/clearcase/internal/text"
	"github.com/JaimeStill/clearcase/internal/voice"
)

// Options controls a single Process call.
type Options struct {
	Perspective voice.Perspective
	RawNotes    string
	// Reference anchors year-less and relative dates. Zero means now.
	Reference time.Time
}

// Outcome is the result of processing a draft. Issues lists recoverable
// failures that left parts of the incident at their fallback values.
type Outcome struct {
	Incident ProcessedIncident
	Issues   []error
}

// Processor merges a Draft with the category cache, the date resolver and
// voice normalization into a ProcessedIncident.
type Processor struct {
	cache  *categories.Cache
	voice  *voice.Normalizer
	logger *slog.Logger
	now    func() time.Time
}

// NewProcessor creates a Processor. A nil cache disables category stickiness;
// a nil normalizer limits voice handling to the local rewrite.
func NewProcessor(cache *categories.Cache, normalizer *voice.Normalizer, logger *slog.Logger) *Processor {
	return &Processor{
		cache:  cache,
		voice:  normalizer,
		logger: logger.With("system", "processor"),
		now:    time.Now,
	}
}

// Process produces a new ProcessedIncident from d. It never fails: problems
// with the cache or the grammar pass are reported through Outcome.Issues and
// the affected fields keep their draft values.
func (p *Processor) Process(ctx context.Context, d Draft, opts Options) Outcome {
	var out Outcome

	ref := opts.Reference
	if ref.IsZero() {
		ref = p.now()
	}

	inc := ProcessedIncident{
		Incident: Incident{
			Title:     strings.TrimSpace(d.Title),
			Date:      strings.TrimSpace(d.Date),
			Who:       names.FormatList(names.Parse(d.Who)),
			What:      text.Clean(d.What),
			Where:     text.Collapse(d.Where),
			When:      text.Collapse(d.When),
			Witnesses: names.FormatList(names.Parse(d.Witnesses)),
			Notes:     text.Clean(d.Notes),
			RawNotes:  opts.RawNotes,
		},
	}

	original := dateSource(d, opts.RawNotes)
	inc.OriginalEventDateText = original
	if canonical, ok := dates.ResolveDate(original, ref); ok {
		inc.CanonicalEventDate = canonical
	}
	if inc.Date == "" {
		inc.Date = original
	}

	cached := ""
	if strings.TrimSpace(opts.RawNotes) != "" {
		inc.IncidentKey = categories.Fingerprint(opts.RawNotes, keyDate(inc))
		if p.cache != nil {
			cached, _ = p.cache.Get(ctx, inc.IncidentKey)
		}
	}

	inc.Category = chooseCategory(cached, d.Category, inc.Notes+"\n"+inc.What)

	if cached == "" && inc.IncidentKey != "" && p.cache != nil {
		written, err := p.cache.Save(ctx, inc.IncidentKey, inc.Category, false)
		switch {
		case err != nil:
			p.logger.Warn("category mapping not saved", "key", inc.IncidentKey, "error", err)
			out.Issues = append(out.Issues, err)
		case !written:
			if stored, ok := p.cache.Get(ctx, inc.IncidentKey); ok {
				inc.Category = stored
			}
		}
	}

	perspective := opts.Perspective
	if perspective == "" {
		perspective = voice.FirstPerson
	}

	if p.voice == nil {
		inc.Notes = voice.Rewrite(inc.Notes, perspective)
		inc.What = voice.Rewrite(inc.What, perspective)
	} else {
		normalized, err := p.voice.NormalizeAll(ctx, []string{inc.Notes, inc.What}, perspective)
		inc.Notes, inc.What = normalized[0], normalized[1]
		if err != nil {
			out.Issues = append(out.Issues, err)
		}
	}

	out.Incident = inc
	return out
}

// ConfirmCategory records category as the user's explicit choice for key. It
// replaces any automatic mapping and is never overwritten by one.
func (p *Processor) ConfirmCategory(ctx context.Context, key, category string) (string, error) {
	canonical, ok := categories.Canonical(category)
	if !ok {
		return "", fmt.Errorf("%w: %q", categories.ErrInvalidCategory, category)
	}

	if p.cache == nil {
		return canonical, nil
	}

	if _, err := p.cache.Save(ctx, key, canonical, true); err != nil {
		return "", err
	}

	p.logger.Info("category confirmed", "key", key, "category", canonical)
	return canonical, nil
}

// dateSource picks the text the event date is read from: the explicit date,
// then when if it names a date, then the first date found in the raw notes.
func dateSource(d Draft, rawNotes string) string {
	if date := strings.TrimSpace(d.Date); date != "" {
		return date
	}
	if found := dates.ExtractDateText(d.When); found != "" {
		return found
	}
	return dates.ExtractDateText(rawNotes)
}

// keyDate is the date folded into the incident key. The canonical form keeps
// the key stable when the author rephrases the same day.
func keyDate(inc ProcessedIncident) string {
	if inc.CanonicalEventDate != "" {
		return inc.CanonicalEventDate
	}
	return inc.OriginalEventDateText
}

func chooseCategory(cached, proposed, narrative string) string {
	if cached != "" {
		return cached
	}
	if canonical, ok := categories.Canonical(proposed); ok {
		return canonical
	}
	return categories.Infer(narrative)
}
