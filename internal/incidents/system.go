package incidents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/clearcase/internal/categories"
	"github.com/JaimeStill/clearcase/internal/structure"
	"github.com/JaimeStill/clearcase/internal/voice"
	"github.com/JaimeStill/clearcase/pkg/pagination"
)

// Store persists processed incidents.
type Store interface {
	Save(ctx context.Context, p ProcessedIncident) (*ProcessedIncident, error)
	All(ctx context.Context) ([]ProcessedIncident, error)
	Find(ctx context.Context, id uuid.UUID) (*ProcessedIncident, error)
	Delete(ctx context.Context, id uuid.UUID) error

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[ProcessedIncident], error)

	DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error)
}

// System defines the public contract for incident domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[ProcessedIncident], error)

	Find(ctx context.Context, id uuid.UUID) (*ProcessedIncident, error)
	Submit(ctx context.Context, cmd SubmitCommand) (*ProcessedIncident, error)
	Update(ctx context.Context, id uuid.UUID, cmd SubmitCommand) (*ProcessedIncident, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, cmd CategoryCommand) (*ProcessedIncident, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error)
}

type system struct {
	store      Store
	processor  *Processor
	parser     structure.Parser
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the incident System. Notes submitted without a draft are
// organized by parser before processing.
func New(
	store Store,
	processor *Processor,
	parser structure.Parser,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &system{
		store:      store,
		processor:  processor,
		parser:     parser,
		logger:     logger.With("system", "incidents"),
		pagination: pagination,
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger, s.pagination)
}

func (s *system) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[ProcessedIncident], error) {
	page.Normalize(s.pagination)
	return s.store.List(ctx, page, filters)
}

func (s *system) Find(ctx context.Context, id uuid.UUID) (*ProcessedIncident, error) {
	return s.store.Find(ctx, id)
}

func (s *system) Submit(ctx context.Context, cmd SubmitCommand) (*ProcessedIncident, error) {
	processed, err := s.process(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return s.store.Save(ctx, processed)
}

func (s *system) Update(ctx context.Context, id uuid.UUID, cmd SubmitCommand) (*ProcessedIncident, error) {
	existing, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Title == "" {
		cmd.Title = existing.Title
	}
	if strings.TrimSpace(cmd.RawNotes) == "" {
		cmd.RawNotes = existing.RawNotes
	}

	processed, err := s.process(ctx, cmd)
	if err != nil {
		return nil, err
	}

	processed.ID = existing.ID
	processed.CreatedAt = existing.CreatedAt
	return s.store.Save(ctx, processed)
}

func (s *system) UpdateCategory(ctx context.Context, id uuid.UUID, cmd CategoryCommand) (*ProcessedIncident, error) {
	existing, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	key := existing.IncidentKey
	if key == "" {
		key = KeyFor(existing.Incident)
	}

	category, err := s.processor.ConfirmCategory(ctx, key, cmd.Category)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Category = category
	updated.IncidentKey = key
	return s.store.Save(ctx, updated)
}

func (s *system) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

func (s *system) DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	return s.store.DeleteMany(ctx, ids)
}

func (s *system) process(ctx context.Context, cmd SubmitCommand) (ProcessedIncident, error) {
	if err := cmd.Validate(); err != nil {
		return ProcessedIncident{}, err
	}

	var draft Draft
	if cmd.Draft != nil {
		draft = *cmd.Draft
	} else {
		parsed, err := s.parse(ctx, cmd.RawNotes)
		if err != nil {
			s.logger.Warn("organize failed, using local parse", "error", err)
			parsed = structure.ParseNotes(cmd.RawNotes)
		}
		draft = DraftFrom(parsed)
	}

	if cmd.Title != "" {
		draft.Title = cmd.Title
	}

	outcome := s.processor.Process(ctx, draft, Options{
		Perspective: voice.ParsePerspective(cmd.Perspective),
		RawNotes:    cmd.RawNotes,
	})

	for _, issue := range outcome.Issues {
		s.logger.Warn("incident processed with issues", "error", issue)
	}

	return outcome.Incident, nil
}

func (s *system) parse(ctx context.Context, notes string) (structure.Incident, error) {
	if s.parser == nil {
		return structure.ParseNotes(notes), nil
	}
	return s.parser.Parse(ctx, notes)
}

// KeyFor computes the incident key of a stored incident that predates key
// tracking. Incidents without raw notes are keyed on their narrative.
func KeyFor(inc Incident) string {
	notes := inc.RawNotes
	if strings.TrimSpace(notes) == "" {
		notes = fmt.Sprintf("%s\n%s", inc.What, inc.Notes)
	}
	return categories.Fingerprint(notes, inc.Date)
}
