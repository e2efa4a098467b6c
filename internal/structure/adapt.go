package structure

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/clearcase/internal/categories"
	"github.com/JaimeStill/clearcase/internal/dates"
	"github.com/JaimeStill/clearcase/internal/names"
	"github.com/JaimeStill/clearcase/internal/remote"
	"github.com/JaimeStill/clearcase/internal/text"
)

// ErrNoIncidents is returned when the remote organizer answers without any
// incident.
var ErrNoIncidents = errors.New("remote organizer returned no incidents")

// Organizer is the remote organize-incidents capability.
type Organizer interface {
	Organize(ctx context.Context, notes string) ([]remote.APIIncident, error)
}

// Remote is a Parser that delegates to the remote organizer and adapts the
// first incident it returns.
type Remote struct {
	organizer Organizer
}

// NewRemote creates a Parser over organizer.
func NewRemote(organizer Organizer) *Remote {
	return &Remote{organizer: organizer}
}

func (r *Remote) Parse(ctx context.Context, notes string) (Incident, error) {
	incidents, err := r.organizer.Organize(ctx, notes)
	if err != nil {
		return Incident{}, err
	}
	if len(incidents) == 0 {
		return Incident{}, fmt.Errorf("%w: %w", remote.ErrOrganizeFailed, ErrNoIncidents)
	}
	return Adapt(incidents[0]), nil
}

// AdaptAll adapts every incident of a remote response.
func AdaptAll(incidents []remote.APIIncident) []Incident {
	out := make([]Incident, len(incidents))
	for i, api := range incidents {
		out[i] = Adapt(api)
	}
	return out
}

// Adapt maps the flat remote incident onto Incident. Names in who are sorted
// into role buckets by their role keywords, the timeline is a single untimed
// event built from what, and a category outside the taxonomy is re-inferred
// from the narrative.
func Adapt(api remote.APIIncident) Incident {
	inc := Incident{
		Date:         api.Date,
		Who:          names.Partition(names.Parse(api.Who)),
		Where:        text.Collapse(api.Where),
		WhatHappened: text.Collapse(api.What),
		Witnesses:    names.Parse(api.Witnesses),
		Notes:        text.Lines(api.Notes),
	}

	if inc.Date == "" {
		inc.Date = dates.ExtractDateText(api.When)
	}

	if category, ok := categories.Canonical(api.Category); ok {
		inc.Category = category
	} else {
		inc.Category = categories.Infer(api.What + "\n" + api.Notes)
	}

	if inc.WhatHappened != "" {
		inc.Timeline = []Event{{Event: inc.WhatHappened, Quotes: quotes(inc.WhatHappened)}}
	}

	inc.Normalize()
	return inc
}
