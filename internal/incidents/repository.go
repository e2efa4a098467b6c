package incidents

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/clearcase/pkg/pagination"
	"github.com/JaimeStill/clearcase/pkg/query"
	"github.com/JaimeStill/clearcase/pkg/repository"
)

// Repository is the PostgreSQL Store.
type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRepository creates a Store over db.
func NewRepository(db *sql.DB, logger *slog.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger.With("system", "incidents.repository"),
	}
}

// Save inserts p when its ID is nil and replaces the stored record otherwise.
func (r *Repository) Save(ctx context.Context, p ProcessedIncident) (*ProcessedIncident, error) {
	who, err := encodeNames(p.Who)
	if err != nil {
		return nil, fmt.Errorf("marshal who: %w", err)
	}
	witnesses, err := encodeNames(p.Witnesses)
	if err != nil {
		return nil, fmt.Errorf("marshal witnesses: %w", err)
	}

	insert := p.ID == uuid.Nil
	if insert {
		p.ID = uuid.New()
	}

	args := []any{
		p.ID,
		p.Title,
		p.Date,
		p.Category,
		who,
		p.What,
		p.Where,
		p.When,
		witnesses,
		p.Notes,
		p.RawNotes,
		p.CanonicalEventDate,
		p.OriginalEventDateText,
		p.IncidentKey,
	}

	q := `
		INSERT INTO incidents(id, title, date, category, who, what, location, time_text, witnesses,
			notes, raw_notes, canonical_event_date, original_event_date_text, incident_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		` + returning

	if !insert {
		q = `
		UPDATE incidents SET
			title = $2, date = $3, category = $4, who = $5, what = $6, location = $7,
			time_text = $8, witnesses = $9, notes = $10, raw_notes = $11,
			canonical_event_date = $12, original_event_date_text = $13, incident_key = $14,
			updated_at = NOW()
		WHERE id = $1
		` + returning
	}

	saved, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (ProcessedIncident, error) {
		return repository.QueryOne(ctx, tx, q, args, scanIncident)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("incident saved", "id", saved.ID, "category", saved.Category, "created", insert)
	return &saved, nil
}

// All returns every incident, newest first.
func (r *Repository) All(ctx context.Context) ([]ProcessedIncident, error) {
	q, args := query.NewBuilder(projection, defaultSort).Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanIncident)
	if err != nil {
		return nil, fmt.Errorf("query incidents: %w", err)
	}
	return items, nil
}

// Find returns the incident with id.
func (r *Repository) Find(ctx context.Context, id uuid.UUID) (*ProcessedIncident, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanIncident)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

// List returns a page of incidents matching filters. Search matches title,
// narrative and location. The page request must already be normalized.
func (r *Repository) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[ProcessedIncident], error) {
	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "What", "Where", "Notes")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count incidents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanIncident)
	if err != nil {
		return nil, fmt.Errorf("query incidents: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

// Delete removes the incident with id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM incidents WHERE id = $1", id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("incident deleted", "id", id)
	return nil
}

// DeleteMany removes every listed incident and reports how many existed.
func (r *Repository) DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	placeholders := ""
	for i := range values {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", i+1)
	}

	n, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		res, err := tx.ExecContext(ctx, "DELETE FROM incidents WHERE id IN ("+placeholders+")", values...)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	})
	if err != nil {
		return 0, fmt.Errorf("delete incidents: %w", err)
	}

	r.logger.Info("incidents deleted", "requested", len(ids), "deleted", n)
	return int(n), nil
}
