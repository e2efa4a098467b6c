// Package incidents implements the incident domain for ClearCase.
// It turns drafts produced by the organizer or typed by the user into
// processed, persisted incident records with canonical dates and sticky
// categories.
package incidents

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/clearcase/internal/dates"
	"github.com/JaimeStill/clearcase/internal/names"
	"github.com/JaimeStill/clearcase/internal/structure"
)

// Input limits enforced at submission.
const (
	MaxNotesLength = 10000
	MaxTitleLength = 80
)

// Incident is an organized incident record.
type Incident struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Category  string    `json:"category"`
	Who       []string  `json:"who"`
	What      string    `json:"what"`
	Where     string    `json:"where"`
	When      string    `json:"when"`
	Witnesses []string  `json:"witnesses"`
	Notes     string    `json:"notes"`
	RawNotes  string    `json:"raw_notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProcessedIncident is an Incident that went through the Processor. Empty
// derived fields mean the value could not be determined.
type ProcessedIncident struct {
	Incident
	CanonicalEventDate    string `json:"canonical_event_date,omitempty"`
	OriginalEventDateText string `json:"original_event_date_text,omitempty"`
	IncidentKey           string `json:"incident_key,omitempty"`
}

// Draft is an unprocessed incident as proposed by the organizer or the user.
// Who and Witnesses accept any of the shapes names.Who understands.
type Draft struct {
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Category  string    `json:"category"`
	Who       names.Who `json:"who"`
	What      string    `json:"what"`
	Where     string    `json:"where"`
	When      string    `json:"when"`
	Witnesses names.Who `json:"witnesses"`
	Notes     string    `json:"notes"`
}

// DraftFrom flattens a structured parse into a Draft. When carries the time
// of the first timed event.
func DraftFrom(s structure.Incident) Draft {
	d := Draft{
		Date:      s.Date,
		Category:  s.Category,
		Who:       names.FromList(s.Who.All()),
		What:      s.WhatHappened,
		Where:     s.Where,
		Witnesses: names.FromList(s.Witnesses),
		Notes:     strings.Join(s.Notes, "\n"),
	}

	for _, e := range s.Timeline {
		if e.Time != "" {
			d.When = e.Time
			break
		}
	}

	if d.When == "" {
		if t, ok := dates.ResolveTime(s.WhatHappened); ok {
			d.When = t.Display
		}
	}

	return d
}

// SubmitCommand carries raw notes and an optional draft for creating or
// re-processing an incident. Without a draft the notes are parsed first.
type SubmitCommand struct {
	Title       string `json:"title"`
	RawNotes    string `json:"raw_notes"`
	Perspective string `json:"perspective"`
	Draft       *Draft `json:"incident,omitempty"`
}

// Validate enforces the submission limits.
func (c SubmitCommand) Validate() error {
	if len([]rune(c.RawNotes)) > MaxNotesLength {
		return ErrNotesTooLong
	}
	if len([]rune(c.Title)) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(c.RawNotes) == "" && c.Draft == nil {
		return ErrEmptyNotes
	}
	return nil
}

// CategoryCommand is an explicit category choice made by the user.
type CategoryCommand struct {
	Category string `json:"category"`
}

// DeleteManyCommand lists incidents to remove in one request.
type DeleteManyCommand struct {
	IDs []uuid.UUID `json:"ids"`
}
