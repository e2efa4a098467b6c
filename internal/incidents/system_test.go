package incidents_test

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/clearcase/internal/categories"
	"github.com/JaimeStill/clearcase/internal/incidents"
	"github.com/JaimeStill/clearcase/internal/names"
	"github.com/JaimeStill/clearcase/internal/structure"
	"github.com/JaimeStill/clearcase/pkg/pagination"
)

type memoryStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]incidents.ProcessedIncident
	order []uuid.UUID
}

func newMemoryStore() *memoryStore {
	return &memoryStore{items: make(map[uuid.UUID]incidents.ProcessedIncident)}
}

func (s *memoryStore) Save(_ context.Context, p incidents.ProcessedIncident) (*incidents.ProcessedIncident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
		p.CreatedAt = now
		s.order = append(s.order, p.ID)
	} else if _, ok := s.items[p.ID]; !ok {
		return nil, incidents.ErrNotFound
	}
	p.UpdatedAt = now
	s.items[p.ID] = p
	return &p, nil
}

func (s *memoryStore) All(context.Context) ([]incidents.ProcessedIncident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]incidents.ProcessedIncident, 0, len(s.order))
	for _, id := range s.order {
		if p, ok := s.items[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memoryStore) Find(_ context.Context, id uuid.UUID) (*incidents.ProcessedIncident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.items[id]
	if !ok {
		return nil, incidents.ErrNotFound
	}
	return &p, nil
}

func (s *memoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return incidents.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *memoryStore) List(ctx context.Context, page pagination.PageRequest, filters incidents.Filters) (*pagination.PageResult[incidents.ProcessedIncident], error) {
	all, _ := s.All(ctx)
	var matched []incidents.ProcessedIncident
	for _, p := range all {
		if filters.Category != nil && p.Category != *filters.Category {
			continue
		}
		matched = append(matched, p)
	}
	result := pagination.NewPageResult(matched, len(matched), page.Page, page.PageSize)
	return &result, nil
}

func (s *memoryStore) DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	n := 0
	for _, id := range ids {
		if s.Delete(ctx, id) == nil {
			n++
		}
	}
	return n, nil
}

type failingParser struct{}

func (failingParser) Parse(context.Context, string) (structure.Incident, error) {
	return structure.Incident{}, errors.New("remote down")
}

func newSystem(parser structure.Parser) (incidents.System, *memoryStore) {
	store := newMemoryStore()
	p, _ := newProcessor(categories.NewMemoryStore())
	cfg := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
	return incidents.New(store, p, parser, discard(), cfg), store
}

func TestSystemSubmit(t *testing.T) {
	ctx := context.Background()
	sys, store := newSystem(structure.Local{})

	inc, err := sys.Submit(ctx, incidents.SubmitCommand{
		Title:    "Warehouse accusation",
		RawNotes: endToEndNotes,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if inc.ID == uuid.Nil {
		t.Error("ID not assigned")
	}
	if inc.Title != "Warehouse accusation" {
		t.Errorf("Title = %q", inc.Title)
	}
	if inc.Category != "Accusation" {
		t.Errorf("Category = %q, want Accusation", inc.Category)
	}
	if inc.RawNotes != endToEndNotes {
		t.Error("RawNotes not kept")
	}

	all, _ := store.All(ctx)
	if len(all) != 1 {
		t.Errorf("stored %d incidents, want 1", len(all))
	}
}

func TestSystemSubmitFallsBackToLocalParse(t *testing.T) {
	sys, _ := newSystem(failingParser{})

	inc, err := sys.Submit(context.Background(), incidents.SubmitCommand{RawNotes: endToEndNotes})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if inc.Category != "Accusation" || inc.OriginalEventDateText != "7/22" {
		t.Errorf("incident = %+v, want local parse result", inc)
	}
}

func TestSystemSubmitValidation(t *testing.T) {
	sys, _ := newSystem(nil)

	tests := []struct {
		name string
		cmd  incidents.SubmitCommand
		want error
		code int
	}{
		{"notes too long", incidents.SubmitCommand{RawNotes: strings.Repeat("a", incidents.MaxNotesLength+1)}, incidents.ErrNotesTooLong, http.StatusRequestEntityTooLarge},
		{"title too long", incidents.SubmitCommand{RawNotes: "x", Title: strings.Repeat("t", incidents.MaxTitleLength+1)}, incidents.ErrTitleTooLong, http.StatusRequestEntityTooLarge},
		{"empty", incidents.SubmitCommand{RawNotes: "  "}, incidents.ErrEmptyNotes, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sys.Submit(context.Background(), tt.cmd)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Submit error = %v, want %v", err, tt.want)
			}
			if got := incidents.MapHTTPStatus(err); got != tt.code {
				t.Errorf("MapHTTPStatus = %d, want %d", got, tt.code)
			}
		})
	}

	if _, err := sys.Submit(context.Background(), incidents.SubmitCommand{
		RawNotes: strings.Repeat("é", incidents.MaxNotesLength),
	}); err != nil {
		t.Errorf("Submit at the limit: %v", err)
	}
}

func TestSystemUpdateCategoryIsSticky(t *testing.T) {
	ctx := context.Background()
	sys, _ := newSystem(nil)

	inc, err := sys.Submit(ctx, incidents.SubmitCommand{RawNotes: endToEndNotes})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	updated, err := sys.UpdateCategory(ctx, inc.ID, incidents.CategoryCommand{Category: "harassment"})
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if updated.Category != "Harassment" {
		t.Errorf("Category = %q, want Harassment", updated.Category)
	}

	draft := incidents.Draft{Category: "Theft", Date: inc.Date}
	edited, err := sys.Update(ctx, inc.ID, incidents.SubmitCommand{Draft: &draft})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if edited.Category != "Harassment" {
		t.Errorf("Category after edit = %q, want Harassment", edited.Category)
	}
	if edited.ID != inc.ID || !edited.CreatedAt.Equal(inc.CreatedAt) {
		t.Error("Update changed identity")
	}

	if _, err := sys.UpdateCategory(ctx, inc.ID, incidents.CategoryCommand{Category: "Nope"}); incidents.MapHTTPStatus(err) != http.StatusBadRequest {
		t.Errorf("UpdateCategory(unknown) error = %v, want bad request", err)
	}
}

func TestSystemListAndDelete(t *testing.T) {
	ctx := context.Background()
	sys, _ := newSystem(nil)

	var ids []uuid.UUID
	for _, notes := range []string{
		"He yelled at me in the office.",
		"Someone stole my phone from the locker.",
		"My manager screamed at the team.",
	} {
		inc, err := sys.Submit(ctx, incidents.SubmitCommand{RawNotes: notes})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		ids = append(ids, inc.ID)
	}

	category := "Verbal Abuse"
	page, err := sys.List(ctx, pagination.PageRequest{}, incidents.Filters{Category: &category})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 2 || page.PageSize != 20 {
		t.Errorf("List = total %d page size %d, want 2 and 20", page.Total, page.PageSize)
	}

	if err := sys.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := sys.Find(ctx, ids[0]); !errors.Is(err, incidents.ErrNotFound) {
		t.Errorf("Find after delete = %v, want ErrNotFound", err)
	}

	n, err := sys.DeleteMany(ctx, ids)
	if err != nil || n != 2 {
		t.Errorf("DeleteMany = (%d, %v), want (2, nil)", n, err)
	}
}

func TestDraftFrom(t *testing.T) {
	parsed := structure.ParseNotes(endToEndNotes)
	d := incidents.DraftFrom(parsed)

	if d.Date != "7/22" || d.When != "9:00 AM" || d.Category != "Accusation" {
		t.Errorf("DraftFrom = %+v", d)
	}
	if d.Where != parsed.Where {
		t.Errorf("Where = %q, want %q", d.Where, parsed.Where)
	}
	if got := names.Parse(d.Witnesses); !slices.Equal(got, []string{"Tom"}) {
		t.Errorf("Witnesses = %v, want [Tom]", got)
	}
}
