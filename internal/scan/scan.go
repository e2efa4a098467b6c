// Package scan is the low-latency first pass over raw incident notes. It
// pulls a time hint and a case number out of the text and performs no I/O,
// so it can run on every edit. Regular expressions only ever run over short
// windows located by plain substring search.
package scan

import (
	"regexp"
	"strings"

	"github.com/JaimeStill/clearcase/internal/dates"
	"github.com/JaimeStill/clearcase/internal/text"
)

// Result is the minimal header extracted by QuickScan. Empty fields mean the
// value was not found.
type Result struct {
	Time       string `json:"time,omitempty"`
	CaseNumber string `json:"case_number,omitempty"`
}

const (
	headerWindow = 48
	caseWindow   = 80
)

var (
	sectionPattern = regexp.MustCompile(`(?i)(?:requests?(?:\s*(?:/|&|and)\s*responses?)?|important\s+quotes|additional\s+details|witnesses|notes)\s*$`)
	casePattern    = regexp.MustCompile(`(?i)^case\b\s*(?:#|number|num\.?|no\.?|id)?\s*[:#]?\s*([a-z0-9][a-z0-9-]*)`)
)

// QuickScan extracts the time and case number hints from text. The time comes
// from the Timeline section when the notes have one, otherwise from the first
// time expression anywhere in the text.
func QuickScan(s string) Result {
	var r Result

	if t, ok := dates.ResolveTime(timeRegion(s)); ok {
		r.Time = t.Display
	}
	r.CaseNumber = findCase(s)

	return r
}

// timeRegion returns the body of the Timeline section, or s itself when no
// Timeline header is present.
func timeRegion(s string) string {
	start := timelineEnd(s)
	if start < 0 {
		return s
	}

	region := s[start:]
	if end := nextSection(region); end >= 0 {
		region = region[:end]
	}
	return region
}

// timelineEnd returns the offset just past a "Timeline:" header, or -1.
func timelineEnd(s string) int {
	for i := text.IndexFold(s, "timeline", 0); i >= 0; i = text.IndexFold(s, "timeline", i+1) {
		if !opensSection(s, i) {
			continue
		}
		k := i + len("timeline")
		for k < len(s) && isSpace(s[k]) {
			k++
		}
		if k < len(s) && s[k] == ':' {
			return k + 1
		}
	}
	return -1
}

// nextSection returns the offset where the next section header after the
// timeline begins, or -1. Headers are found from their colon back.
func nextSection(region string) int {
	for c := strings.IndexByte(region, ':'); c >= 0; {
		if c > 0 && isLetter(lastNonSpace(region[:c])) {
			lo := max(0, c-headerWindow)
			if loc := sectionPattern.FindStringIndex(region[lo:c]); loc != nil {
				start := lo + loc[0]
				if start == 0 || !text.IsWordByte(region[start-1]) {
					if opensSection(region, start) {
						return start
					}
				}
			}
		}
		next := strings.IndexByte(region[c+1:], ':')
		if next < 0 {
			break
		}
		c += next + 1
	}
	return -1
}

// opensSection reports whether offset i begins a line or follows the end of
// a sentence.
func opensSection(s string, i int) bool {
	k := i
	for k > 0 && isSpace(s[k-1]) {
		if s[k-1] == '\n' {
			return true
		}
		k--
	}
	return k == 0 || strings.IndexByte(".!?", s[k-1]) >= 0
}

func findCase(s string) string {
	for i := text.IndexFold(s, "case", 0); i >= 0; i = text.IndexFold(s, "case", i+1) {
		if i > 0 && text.IsWordByte(s[i-1]) {
			continue
		}
		window := s[i:min(len(s), i+caseWindow)]
		m := casePattern.FindStringSubmatch(window)
		if m == nil {
			continue
		}
		if value := strings.TrimRight(m[1], "-"); hasDigit(value) {
			return value
		}
	}
	return ""
}

func lastNonSpace(s string) byte {
	s = strings.TrimRight(s, " \t\r\n\f")
	if s == "" {
		return 0
	}
	return s[len(s)-1]
}

func hasDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

func isLetter(b byte) bool {
	return 'a' <= b|0x20 && b|0x20 <= 'z'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
