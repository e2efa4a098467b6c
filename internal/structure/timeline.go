package structure

import (
	"regexp"
	"strings"

	"github.com/JaimeStill/clearcase/internal/dates"
	"github.com/JaimeStill/clearcase/internal/text"
)

var (
	bulletPattern     = regexp.MustCompile(`^(?:[-*•·]+|\d+[.)])\s+`)
	leadPrefixPattern = regexp.MustCompile(`(?i)^[\s\-–—*•(\[]*(?:(?:at|around|about|approximately|approx\.?|by|~|@)\s*)?$`)
	eventLeadPattern  = regexp.MustCompile(`^[\s\-–—:,;)\]]+`)
	quotePattern      = regexp.MustCompile(`"([^"]+)"|“([^”]+)”`)
)

// parseTimeline returns one event per line of body, further split wherever a
// sentence opens with its own time.
func parseTimeline(body string) []Event {
	var events []Event
	for _, line := range text.Lines(body) {
		line = bulletPattern.ReplaceAllString(line, "")
		for _, clause := range clauses(line) {
			events = append(events, parseEvent(clause))
		}
	}
	return events
}

// clauses groups the sentences of line so that each group begins with the
// first sentence or with a sentence that leads with a time.
func clauses(line string) []string {
	var out []string
	for _, s := range text.Sentences(line) {
		if _, ok := leadingTime(s); ok || len(out) == 0 {
			out = append(out, s)
			continue
		}
		out[len(out)-1] += " " + s
	}
	return out
}

func leadingTime(s string) (dates.Token, bool) {
	tokens := dates.FindTimes(s)
	if len(tokens) == 0 {
		return dates.Token{}, false
	}
	tok := tokens[0]
	if !leadPrefixPattern.MatchString(s[:tok.Start]) {
		return dates.Token{}, false
	}
	return tok, true
}

// parseEvent pulls a leading time off clause. A clause with a time later in
// the text keeps its full wording and takes that time.
func parseEvent(clause string) Event {
	ev := Event{Event: clause, Quotes: quotes(clause)}

	if tok, ok := leadingTime(clause); ok {
		ev.Time = tok.Display
		ev.Event = strings.TrimSpace(eventLeadPattern.ReplaceAllString(clause[tok.End:], ""))
		return ev
	}

	if t, ok := dates.ResolveTime(clause); ok {
		ev.Time = t.Display
	}
	return ev
}

func quotes(s string) []string {
	var out []string
	for _, m := range quotePattern.FindAllStringSubmatch(s, -1) {
		q := m[1]
		if q == "" {
			q = m[2]
		}
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	if out == nil {
		return []string{}
	}
	return out
}
