package structure

import (
	"regexp"
	"strings"
)

type section int

const (
	timelineSection section = iota
	requestsSection
	quotesSection
	detailsSection
	witnessesSection
	notesSection
	locationSection
	outcomeSection
	policySection
	evidenceSection
)

// headerPattern matches a section header at the start of a line or directly
// after a sentence terminator, so headers typed inline ("... Case #4521.
// Timeline: 9:00 AM ...") are recognized too.
var headerPattern = regexp.MustCompile(`(?i)(?:^|\n|[.!?]["”']?[ \t]+)[ \t]*(?:#+[ \t]*)?` +
	`(timeline|requests?[ \t]*(?:/|&|and)[ \t]*responses?|requests?|important[ \t]+quotes|quotes|` +
	`additional[ \t]+details|details|witnesses|witness|notes|location|where|` +
	`outcome[ \t]*/[ \t]*next[ \t]+steps|outcome|next[ \t]+steps|` +
	`polic(?:y|ies)(?:[ \t]*/[ \t]*procedures?)?|procedures?|evidence(?:[ \t]*/[ \t]*tests?)?)[ \t]*:`)

type part struct {
	kind section
	body string
}

type document struct {
	preamble string
	parts    []part
}

func (d document) has(kind section) bool {
	for _, p := range d.parts {
		if p.kind == kind {
			return true
		}
	}
	return false
}

func (d document) bodies(kinds ...section) []string {
	var out []string
	for _, p := range d.parts {
		for _, k := range kinds {
			if p.kind == k {
				out = append(out, p.body)
			}
		}
	}
	return out
}

// splitSections cuts s at every recognized header. Text before the first
// header is the preamble; each header's body runs to the next header or the
// end of s.
func splitSections(s string) document {
	matches := headerPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return document{preamble: s}
	}

	doc := document{preamble: trimBody(s[:matches[0][2]])}
	for i, m := range matches {
		end := len(s)
		if i+1 < len(matches) {
			end = matches[i+1][2]
		}
		doc.parts = append(doc.parts, part{
			kind: kindOf(s[m[2]:m[3]]),
			body: trimBody(s[m[1]:end]),
		})
	}
	return doc
}

func trimBody(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "# \t\n"))
}

func kindOf(header string) section {
	h := strings.ToLower(header)
	switch {
	case strings.HasPrefix(h, "timeline"):
		return timelineSection
	case strings.HasPrefix(h, "request"):
		return requestsSection
	case strings.Contains(h, "quote"):
		return quotesSection
	case strings.Contains(h, "details"):
		return detailsSection
	case strings.HasPrefix(h, "witness"):
		return witnessesSection
	case strings.HasPrefix(h, "notes"):
		return notesSection
	case strings.HasPrefix(h, "location"), strings.HasPrefix(h, "where"):
		return locationSection
	case strings.HasPrefix(h, "outcome"), strings.HasPrefix(h, "next"):
		return outcomeSection
	case strings.HasPrefix(h, "polic"), strings.HasPrefix(h, "procedure"):
		return policySection
	default:
		return evidenceSection
	}
}
