package incidents

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/JaimeStill/clearcase/pkg/query"
	"github.com/JaimeStill/clearcase/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "incidents", "i").
	Project("id", "ID").
	Project("title", "Title").
	Project("date", "Date").
	Project("category", "Category").
	Project("who", "Who").
	Project("what", "What").
	Project("location", "Where").
	Project("time_text", "When").
	Project("witnesses", "Witnesses").
	Project("notes", "Notes").
	Project("raw_notes", "RawNotes").
	Project("canonical_event_date", "CanonicalEventDate").
	Project("original_event_date_text", "OriginalEventDateText").
	Project("incident_key", "IncidentKey").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

const returning = `RETURNING id, title, date, category, who, what, location, time_text, witnesses,
		notes, raw_notes, canonical_event_date, original_event_date_text, incident_key,
		created_at, updated_at`

// Filters contains optional filtering criteria for incident queries.
// Category and CanonicalEventDate use exact matching; Where uses
// case-insensitive contains matching.
type Filters struct {
	Category           *string `json:"category,omitempty"`
	CanonicalEventDate *string `json:"canonical_event_date,omitempty"`
	Where              *string `json:"where,omitempty"`
	IncidentKey        *string `json:"incident_key,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Category", f.Category).
		WhereEquals("CanonicalEventDate", f.CanonicalEventDate).
		WhereContains("Where", f.Where).
		WhereEquals("IncidentKey", f.IncidentKey)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("category"); c != "" {
		f.Category = &c
	}

	if d := values.Get("canonical_event_date"); d != "" {
		f.CanonicalEventDate = &d
	}

	if w := values.Get("where"); w != "" {
		f.Where = &w
	}

	if k := values.Get("incident_key"); k != "" {
		f.IncidentKey = &k
	}

	return f
}

func scanIncident(s repository.Scanner) (ProcessedIncident, error) {
	var (
		p            ProcessedIncident
		whoRaw       []byte
		witnessesRaw []byte
	)

	err := s.Scan(
		&p.ID,
		&p.Title,
		&p.Date,
		&p.Category,
		&whoRaw,
		&p.What,
		&p.Where,
		&p.When,
		&witnessesRaw,
		&p.Notes,
		&p.RawNotes,
		&p.CanonicalEventDate,
		&p.OriginalEventDateText,
		&p.IncidentKey,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}

	if p.Who, err = decodeNames(whoRaw); err != nil {
		return p, fmt.Errorf("unmarshal who: %w", err)
	}
	if p.Witnesses, err = decodeNames(witnessesRaw); err != nil {
		return p, fmt.Errorf("unmarshal witnesses: %w", err)
	}

	return p, nil
}

func decodeNames(raw []byte) ([]string, error) {
	list := []string{}
	if len(raw) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return []string{}, err
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

func encodeNames(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	return json.Marshal(list)
}
