package structure

import (
	"regexp"
	"strings"

	"github.com/JaimeStill/clearcase/internal/names"
	"github.com/JaimeStill/clearcase/internal/text"
)

// minNoteLength drops fragments shorter than this from free notes.
const minNoteLength = 10

var (
	requestPattern  = regexp.MustCompile(`(?i)\brequest`)
	approvedPattern = regexp.MustCompile(`(?i)\b(?:approv\w*|grant\w*|allowed)\b`)
	deniedPattern   = regexp.MustCompile(`(?i)\b(?:den(?:y|ied|ies|ial)|reject\w*|refus\w*|declin\w*)\b`)
	byWhomPattern   = regexp.MustCompile(`(?i:\bby\s+)(?i:(?:my|the|our|a|an)\s+)?([A-Za-z][\w'-]*(?:\s+[A-Z][\w'-]*){0,2})`)
	policyPattern   = regexp.MustCompile(`(?i)\b(?:polic(?:y|ies)|procedures?)\b`)
	evidencePattern = regexp.MustCompile(`(?i)\b(?:(drug|alcohol|urine|blood|breath)\s+)?(tests?|tested|testing|labs?|samples?)\b`)
	unclearPattern  = regexp.MustCompile(`(?i)\b(?:confus\w*|unclear)\b`)
)

// segments splits s into lines and then sentences.
// isNoise reports whether seg is a lone short word ("ok", "n/a") rather than
// a sentence.
func isNoise(seg string) bool {
	return len(seg) < minNoteLength && !strings.ContainsAny(strings.TrimSpace(seg), " \t")
}

func segments(s string) []string {
	var out []string
	for _, line := range text.Lines(s) {
		line = bulletPattern.ReplaceAllString(line, "")
		out = append(out, text.Sentences(line)...)
	}
	return out
}

// classify routes seg into requests, policy notes or evidence and reports
// whether it was claimed.
func classify(inc *Incident, seg string) bool {
	switch {
	case requestPattern.MatchString(seg) && (approvedPattern.MatchString(seg) || deniedPattern.MatchString(seg)):
		inc.RequestsAndResponses = append(inc.RequestsAndResponses, parseRequest(seg))
	case policyPattern.MatchString(seg):
		inc.PolicyOrProcedure = append(inc.PolicyOrProcedure, seg)
	case evidencePattern.MatchString(seg):
		inc.EvidenceOrTests = append(inc.EvidenceOrTests, parseEvidence(seg))
	default:
		return false
	}
	return true
}

func parseRequest(seg string) Request {
	return Request{
		Request:  seg,
		Response: respond(seg),
		ByWhom:   byWhom(seg),
	}
}

// respond returns the response mentioned last in seg, so "denied, then
// approved on appeal" reads as approved.
func respond(seg string) Response {
	approved := lastIndex(approvedPattern, seg)
	denied := lastIndex(deniedPattern, seg)

	switch {
	case approved < 0 && denied < 0:
		return Unknown
	case approved > denied:
		return Approved
	default:
		return Denied
	}
}

func lastIndex(re *regexp.Regexp, s string) int {
	all := re.FindAllStringIndex(s, -1)
	if len(all) == 0 {
		return -1
	}
	return all[len(all)-1][0]
}

func byWhom(seg string) string {
	m := byWhomPattern.FindStringSubmatch(seg)
	if m == nil {
		return ""
	}
	return strings.Trim(names.StripRole(m[1]), " .,;:!?")
}

func parseEvidence(seg string) Evidence {
	ev := Evidence{Type: "evidence", Detail: seg, Status: "performed"}

	if m := evidencePattern.FindStringSubmatch(seg); m != nil {
		kind := strings.ToLower(m[2])
		switch {
		case strings.HasPrefix(kind, "lab"):
			kind = "lab"
		case strings.HasPrefix(kind, "sample"):
			kind = "sample"
		default:
			kind = "test"
		}
		if m[1] != "" {
			kind = strings.ToLower(m[1]) + " " + kind
		}
		ev.Type = kind
	}

	if unclearPattern.MatchString(seg) {
		ev.Status = "unclear"
	}
	return ev
}
