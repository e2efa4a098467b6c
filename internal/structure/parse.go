package structure

import (
	"context"
	"regexp"
	"strings"

	"github.com/JaimeStill/clearcase/internal/categories"
	"github.com/JaimeStill/clearcase/internal/dates"
	"github.com/JaimeStill/clearcase/internal/names"
	"github.com/JaimeStill/clearcase/internal/text"
)

var wherePattern = regexp.MustCompile(`(?i)\b(?:at|in|near|inside|outside|behind|by)\s+the\s+((?:[a-z]+\s+){0,2}?` +
	`(?:warehouse|office|store|break\s*room|parking\s+(?:lot|garage)|loading\s+dock|dock|kitchen|lobby|` +
	`(?:meeting|conference|locker|stock|back|supply)\s*room|hallway|cafeteria|plant|site|shop|floor|` +
	`front\s+desk|register|yard|clinic|restaurant|factory|facility|entrance|elevator))\b`)

// Parser turns raw notes into a structured incident.
type Parser interface {
	Parse(ctx context.Context, notes string) (Incident, error)
}

// Local is the in-process Parser backed by ParseNotes.
type Local struct{}

func (Local) Parse(ctx context.Context, notes string) (Incident, error) {
	if err := ctx.Err(); err != nil {
		return Incident{}, err
	}
	return ParseNotes(notes), nil
}

// ParseNotes decomposes notes into a structured incident. It is pure:
// identical notes always produce an identical incident.
func ParseNotes(notes string) Incident {
	clean := text.Clean(notes)
	doc := splitSections(clean)

	var inc Incident
	var narrative []string
	preamble := segments(doc.preamble)
	for _, seg := range preamble {
		if classify(&inc, seg) || len(preamble) > 1 && isNoise(seg) {
			continue
		}
		narrative = append(narrative, seg)
	}
	inc.WhatHappened = strings.Join(narrative, " ")

	var witnesses []string
	for _, p := range doc.parts {
		switch p.kind {
		case timelineSection:
			inc.Timeline = append(inc.Timeline, parseTimeline(p.body)...)
		case requestsSection:
			for _, line := range text.Lines(p.body) {
				line = bulletPattern.ReplaceAllString(line, "")
				inc.RequestsAndResponses = append(inc.RequestsAndResponses, parseRequest(line))
			}
		case quotesSection, notesSection:
			inc.Notes = append(inc.Notes, text.Lines(p.body)...)
		case detailsSection:
			for _, seg := range segments(p.body) {
				if !classify(&inc, seg) && len(seg) >= minNoteLength {
					inc.Notes = append(inc.Notes, seg)
				}
			}
		case witnessesSection:
			witnesses = append(witnesses, text.Lines(p.body)...)
		case locationSection:
			if inc.Where == "" {
				inc.Where = strings.TrimRight(text.Collapse(p.body), " .;,")
			}
		case outcomeSection:
			inc.OutcomeOrNext = strings.TrimSpace(inc.OutcomeOrNext + " " + text.Collapse(p.body))
		case policySection:
			for _, line := range text.Lines(p.body) {
				inc.PolicyOrProcedure = append(inc.PolicyOrProcedure, bulletPattern.ReplaceAllString(line, ""))
			}
		case evidenceSection:
			for _, line := range text.Lines(p.body) {
				inc.EvidenceOrTests = append(inc.EvidenceOrTests, parseEvidence(bulletPattern.ReplaceAllString(line, "")))
			}
		}
	}

	if !doc.has(timelineSection) {
		inc.Timeline = narrativeTimeline(narrative, inc.WhatHappened)
	}

	inc.Witnesses = names.Parse(names.FromList(witnesses))
	inc.Who = extractPeople(strings.Join(append([]string{doc.preamble}, doc.bodies(
		timelineSection, requestsSection, quotesSection, detailsSection, outcomeSection,
	)...), "\n"))
	inc.Date = dates.ExtractDateText(clean)
	if inc.Where == "" {
		inc.Where = findWhere(clean)
	}
	inc.Category = categories.Infer(clean)

	inc.Normalize()
	return inc
}

// narrativeTimeline builds events from the narrative sentences that carry a
// time. Without any, the whole narrative becomes one untimed event.
func narrativeTimeline(narrative []string, what string) []Event {
	var events []Event
	for _, seg := range narrative {
		if _, ok := dates.ResolveTime(seg); ok {
			events = append(events, parseEvent(seg))
		}
	}
	if len(events) == 0 && what != "" {
		events = []Event{{Event: what, Quotes: quotes(what)}}
	}
	return events
}

func findWhere(s string) string {
	m := wherePattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.ToLower(text.Collapse(m[1]))
}
