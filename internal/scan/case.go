package scan

import (
	"regexp"
	"strings"
)

var caseLabelPattern = regexp.MustCompile(`(?i)^\s*(?:case\b\s*(?:#|number|num\.?|no\.?|id)?|#)\s*[:#]?\s*`)

const caseTrailing = " \t.,;:!?)]}\"'"

// CaseLabel carries the two display forms of a case number.
type CaseLabel struct {
	Bare     string `json:"bare"`
	Prefixed string `json:"prefixed"`
}

// NormalizeCaseValue strips leading labels ("Case", "Case #", "Case No.",
// "Case ID", a bare "#") and trailing punctuation from raw, leaving the value
// that is stored.
func NormalizeCaseValue(raw string) string {
	value := strings.TrimSpace(raw)
	for {
		stripped := caseLabelPattern.ReplaceAllString(value, "")
		if stripped == value {
			break
		}
		value = stripped
	}
	return strings.TrimRight(value, caseTrailing)
}

// FormatCase returns the bare ("1234") and prefixed ("Case 1234") forms of
// raw. A value that normalizes to nothing returns the zero CaseLabel.
func FormatCase(raw string) CaseLabel {
	bare := NormalizeCaseValue(raw)
	if bare == "" {
		return CaseLabel{}
	}
	return CaseLabel{Bare: bare, Prefixed: "Case " + bare}
}
