// Package structure decomposes raw incident notes into a StructuredIncident:
// sections, timeline, requests and responses, policy notes, evidence, people
// and witnesses. ParseNotes is the local, deterministic parser; Adapt maps the
// flat remote organize result onto the same shape.
package structure

import "github.com/JaimeStill/clearcase/internal/names"

// Response is the outcome of a request made during an incident.
type Response string

const (
	Approved Response = "approved"
	Denied   Response = "denied"
	Unknown  Response = "unknown"
)

// Event is one entry of the incident timeline. Time is the display form
// ("9:00 AM") or empty when the entry carried no time.
type Event struct {
	Time   string   `json:"time"`
	Event  string   `json:"event"`
	Quotes []string `json:"quotes"`
}

// Request is a request raised during the incident and how it was answered.
type Request struct {
	Request  string   `json:"request"`
	Response Response `json:"response"`
	ByWhom   string   `json:"by_whom,omitempty"`
}

// Evidence is a test, lab or sample mentioned in the notes.
type Evidence struct {
	Type   string `json:"type"`
	Detail string `json:"detail,omitempty"`
	Status string `json:"status,omitempty"`
}

// Incident is the structured form of one set of notes. Date holds the
// author's date text before canonicalization.
type Incident struct {
	Date                 string       `json:"date,omitempty"`
	Category             string       `json:"category"`
	Who                  names.People `json:"who"`
	Where                string       `json:"where,omitempty"`
	Timeline             []Event      `json:"timeline"`
	WhatHappened         string       `json:"what_happened"`
	RequestsAndResponses []Request    `json:"requests_and_responses"`
	PolicyOrProcedure    []string     `json:"policy_or_procedure"`
	EvidenceOrTests      []Evidence   `json:"evidence_or_tests"`
	Witnesses            []string     `json:"witnesses"`
	OutcomeOrNext        string       `json:"outcome_or_next,omitempty"`
	Notes                []string     `json:"notes"`
}

// Normalize replaces every nil list with an empty one so the incident always
// encodes lists as [] rather than null.
func (i *Incident) Normalize() {
	i.Who.Normalize()
	if i.Timeline == nil {
		i.Timeline = []Event{}
	}
	for j := range i.Timeline {
		if i.Timeline[j].Quotes == nil {
			i.Timeline[j].Quotes = []string{}
		}
	}
	if i.RequestsAndResponses == nil {
		i.RequestsAndResponses = []Request{}
	}
	if i.PolicyOrProcedure == nil {
		i.PolicyOrProcedure = []string{}
	}
	if i.EvidenceOrTests == nil {
		i.EvidenceOrTests = []Evidence{}
	}
	if i.Witnesses == nil {
		i.Witnesses = []string{}
	}
	if i.Notes == nil {
		i.Notes = []string{}
	}
}
