package incidents

import "github.com/JaimeStill/clearcase/pkg/openapi"

var (
	listOp = &openapi.Operation{
		Summary: "List incidents",
		Tags:    []string{"incidents"},
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search title, what, where and notes", false),
			openapi.QueryParam("sort", "string", "Sort fields", false),
			openapi.QueryParam("category", "string", "Exact category", false),
			openapi.QueryParam("canonical_event_date", "string", "Exact event date (YYYY-MM-DD)", false),
			openapi.QueryParam("where", "string", "Location contains", false),
			openapi.QueryParam("incident_key", "string", "Incident key", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Incident page", "IncidentPage"),
		},
	}

	findOp = &openapi.Operation{
		Summary:    "Get incident",
		Tags:       []string{"incidents"},
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Incident ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Incident", "Incident"),
			404: openapi.ResponseRef("NotFound"),
		},
	}

	submitOp = &openapi.Operation{
		Summary:     "Submit incident",
		Description: "Processes raw notes or an organized draft and stores the result.",
		Tags:        []string{"incidents"},
		RequestBody: openapi.RequestBodyJSON("SubmitCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created incident", "Incident"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
		},
	}

	searchOp = &openapi.Operation{
		Summary:     "Search incidents",
		Tags:        []string{"incidents"},
		RequestBody: openapi.RequestBodyJSON("SearchRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Incident page", "IncidentPage"),
			400: openapi.ResponseRef("BadRequest"),
		},
	}

	deleteManyOp = &openapi.Operation{
		Summary:     "Delete incidents",
		Tags:        []string{"incidents"},
		RequestBody: openapi.RequestBodyJSON("DeleteManyCommand", true),
		Responses: map[int]*openapi.Response{
			204: {Description: "Deleted"},
			400: openapi.ResponseRef("BadRequest"),
		},
	}

	updateOp = &openapi.Operation{
		Summary:     "Update incident",
		Description: "Re-processes the incident from the submitted notes or draft.",
		Tags:        []string{"incidents"},
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Incident ID")},
		RequestBody: openapi.RequestBodyJSON("SubmitCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated incident", "Incident"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	}

	updateCategoryOp = &openapi.Operation{
		Summary:     "Set incident category",
		Description: "Stores an explicit category choice and remembers it for the incident key.",
		Tags:        []string{"incidents"},
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Incident ID")},
		RequestBody: openapi.RequestBodyJSON("CategoryCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated incident", "Incident"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	}

	deleteOp = &openapi.Operation{
		Summary:    "Delete incident",
		Tags:       []string{"incidents"},
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Incident ID")},
		Responses: map[int]*openapi.Response{
			204: {Description: "Deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	}
)

func stringList() *openapi.Schema {
	return &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}
}

// Schemas returns the component schemas referenced by incident operations.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Incident": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                       {Type: "string", Format: "uuid"},
				"title":                    {Type: "string"},
				"date":                     {Type: "string"},
				"category":                 {Type: "string"},
				"who":                      stringList(),
				"what":                     {Type: "string"},
				"where":                    {Type: "string"},
				"when":                     {Type: "string"},
				"witnesses":                stringList(),
				"notes":                    {Type: "string"},
				"raw_notes":                {Type: "string"},
				"canonical_event_date":     {Type: "string", Description: "YYYY-MM-DD"},
				"original_event_date_text": {Type: "string"},
				"incident_key":             {Type: "string", Example: "inc_1a2b3c4d5e6f7a8b"},
				"created_at":               {Type: "string", Format: "date-time"},
				"updated_at":               {Type: "string", Format: "date-time"},
			},
		},
		"IncidentPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Incident")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"Draft": {
			Type:        "object",
			Description: "Who and witnesses accept a string, a list, or a list of {name} objects.",
			Properties: map[string]*openapi.Schema{
				"title":     {Type: "string"},
				"date":      {Type: "string"},
				"category":  {Type: "string"},
				"what":      {Type: "string"},
				"where":     {Type: "string"},
				"when":      {Type: "string"},
				"notes":     {Type: "string"},
				"who":       {},
				"witnesses": {},
			},
		},
		"SubmitCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"title":       {Type: "string", MaxLength: intPtr(MaxTitleLength)},
				"raw_notes":   {Type: "string", MaxLength: intPtr(MaxNotesLength)},
				"perspective": {Type: "string"},
				"incident":    openapi.SchemaRef("Draft"),
			},
		},
		"SearchRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":                 {Type: "integer"},
				"page_size":            {Type: "integer"},
				"search":               {Type: "string"},
				"sort":                 {Type: "string"},
				"category":             {Type: "string"},
				"canonical_event_date": {Type: "string"},
				"where":                {Type: "string"},
				"incident_key":         {Type: "string"},
			},
		},
		"CategoryCommand": {
			Type:       "object",
			Required:   []string{"category"},
			Properties: map[string]*openapi.Schema{"category": {Type: "string"}},
		},
		"DeleteManyCommand": {
			Type:       "object",
			Required:   []string{"ids"},
			Properties: map[string]*openapi.Schema{"ids": {Type: "array", Items: &openapi.Schema{Type: "string", Format: "uuid"}}},
		},
	}
}

func intPtr(n int) *int { return &n }
