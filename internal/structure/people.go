package structure

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/JaimeStill/clearcase/internal/names"
)

const (
	nameExpr  = `([A-Z][a-zA-Z'-]+(?:\s+[A-Z][a-zA-Z'-]+){0,2})`
	roleWords = `(?i:(shop\s+steward|union\s+steward|steward|union\s+rep(?:resentative)?|union\s+delegate|` +
		`security\s+guard|security\s+officer|security|guard|loss\s+prevention(?:\s+officer)?|` +
		`assistant\s+manager|store\s+manager|shift\s+manager|general\s+manager|manager|` +
		`supervisor|boss|foreman|superintendent|director|team\s+lead))`
)

var (
	rolePrefixPattern = regexp.MustCompile(`\b` + roleWords + `,?\s+` + nameExpr)
	roleSuffixPattern = regexp.MustCompile(nameExpr + `\s*(?:\(|,\s*)(?i:(?:my|the|our|a|an)\s+)?` + roleWords + `\b`)
	accuserPattern    = regexp.MustCompile(nameExpr + `\s+(?i:(?:had\s+)?(?:falsely\s+)?accused\s+me)\b`)
	accusedByPattern  = regexp.MustCompile(`(?i:\baccused\s+(?:me\s+)?by\s+)` + nameExpr)
	accusedPattern    = regexp.MustCompile(`(?i:\baccused)\s+` + nameExpr)
	possessivePattern = regexp.MustCompile(`'s$`)
)

// stopwords are capitalized words that start sentences or name dates rather
// than people.
var stopwords = map[string]bool{
	"i": true, "the": true, "a": true, "an": true, "on": true, "at": true, "in": true,
	"then": true, "when": true, "after": true, "before": true, "today": true,
	"yesterday": true, "tonight": true, "this": true, "that": true, "he": true,
	"she": true, "they": true, "we": true, "my": true, "our": true, "his": true,
	"her": true, "their": true, "it": true, "case": true, "timeline": true,
	"witnesses": true, "notes": true, "and": true, "but": true, "so": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true, "january": true,
	"february": true, "march": true, "april": true, "may": true, "june": true,
	"july": true, "august": true, "september": true, "october": true,
	"november": true, "december": true,
}

type candidate struct {
	bucket names.Bucket
	name   string
	pos    int
}

// extractPeople finds role-tagged and accusation-tagged names in s and sorts
// them into exclusive buckets. When a name qualifies for several buckets the
// bucket precedence of names.Bucket decides.
func extractPeople(s string) names.People {
	var found []candidate

	for _, m := range rolePrefixPattern.FindAllStringSubmatchIndex(s, -1) {
		found = appendCandidate(found, names.Role(s[m[0]:m[1]]), s[m[4]:m[5]], m[0])
	}
	for _, m := range roleSuffixPattern.FindAllStringSubmatchIndex(s, -1) {
		found = appendCandidate(found, names.Role(s[m[0]:m[1]]), s[m[2]:m[3]], m[0])
	}
	for _, m := range accuserPattern.FindAllStringSubmatchIndex(s, -1) {
		found = appendCandidate(found, names.Accusers, s[m[2]:m[3]], m[0])
	}
	for _, m := range accusedByPattern.FindAllStringSubmatchIndex(s, -1) {
		found = appendCandidate(found, names.Accusers, s[m[2]:m[3]], m[0])
	}
	for _, m := range accusedPattern.FindAllStringSubmatchIndex(s, -1) {
		found = appendCandidate(found, names.Accused, s[m[2]:m[3]], m[0])
	}

	slices.SortStableFunc(found, func(a, b candidate) int {
		if c := cmp.Compare(a.bucket, b.bucket); c != 0 {
			return c
		}
		return cmp.Compare(a.pos, b.pos)
	})

	var p names.People
	for _, c := range found {
		p.Add(c.bucket, c.name)
	}
	p.Normalize()
	return p
}

// appendCandidate strips role words from the captured name ("Manager Jane
// Smith" after "Security"). A capture made only of role words is dropped.
func appendCandidate(found []candidate, b names.Bucket, raw string, pos int) []candidate {
	name := cleanName(raw)
	if name == "" {
		return found
	}
	if stripped := names.StripRole(name); stripped != name {
		name = stripped
	} else if names.Role(name) != names.Others {
		return found
	}
	return append(found, candidate{bucket: b, name: name, pos: pos})
}

// cleanName drops stopwords from both ends of raw and a trailing possessive.
func cleanName(raw string) string {
	words := strings.Fields(raw)
	for len(words) > 0 && stopwords[strings.ToLower(words[0])] {
		words = words[1:]
	}
	for len(words) > 0 && stopwords[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	if len(words) == 0 {
		return ""
	}
	words[len(words)-1] = possessivePattern.ReplaceAllString(words[len(words)-1], "")
	return strings.Join(words, " ")
}
