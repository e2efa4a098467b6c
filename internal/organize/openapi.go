package organize

import (
	"github.com/JaimeStill/clearcase/internal/incidents"
	"github.com/JaimeStill/clearcase/pkg/openapi"
)

func notesOp(summary, description, schema string) *openapi.Operation {
	return &openapi.Operation{
		Summary:     summary,
		Description: description,
		Tags:        []string{"notes"},
		RequestBody: openapi.RequestBodyJSON("NotesRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON(summary+" result", schema),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
		},
	}
}

var (
	scanOp     = notesOp("Scan notes", "Extracts the first time and case number without a full parse.", "PipelineResult")
	parseOp    = notesOp("Parse notes", "Runs the fast scan and the structured parse. A failed parse reports fallback.", "PipelineResult")
	organizeOp = notesOp("Organize notes", "Splits notes into incidents through the remote organizer, parsing locally when it is unavailable.", "OrganizeResponse")
)

// Schemas returns the component schemas referenced by note operations.
func Schemas() map[string]*openapi.Schema {
	list := func() *openapi.Schema {
		return &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}
	}
	maxNotes := incidents.MaxNotesLength

	return map[string]*openapi.Schema{
		"NotesRequest": {
			Type:       "object",
			Required:   []string{"text"},
			Properties: map[string]*openapi.Schema{"text": {Type: "string", MaxLength: &maxNotes}},
		},
		"FastScan": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"time":        {Type: "string", Example: "9:00 AM"},
				"case_number": {Type: "string", Example: "4521"},
			},
		},
		"StructuredIncident": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"date":                   {Type: "string"},
				"category":               {Type: "string"},
				"who":                    {Type: "object", Description: "People grouped by role"},
				"where":                  {Type: "string"},
				"timeline":               {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"what_happened":          {Type: "string"},
				"requests_and_responses": {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"policy_or_procedure":    list(),
				"evidence_or_tests":      {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"witnesses":              list(),
				"outcome_or_next":        {Type: "string"},
				"notes":                  list(),
			},
		},
		"PipelineResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"fast":       openapi.SchemaRef("FastScan"),
				"structured": openapi.SchemaRef("StructuredIncident"),
				"fallback":   {Type: "boolean"},
				"error":      {Type: "string"},
			},
		},
		"OrganizeResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"incidents": {Type: "array", Items: openapi.SchemaRef("StructuredIncident")},
				"fallback":  {Type: "boolean"},
				"error":     {Type: "string"},
			},
		},
	}
}
