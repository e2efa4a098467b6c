// Package categories owns the incident category taxonomy, keyword inference
// over note text, and the sticky category cache keyed by incident
// fingerprint.
package categories

import (
	"regexp"
	"slices"
	"strings"
)

// Other is the catch-all category used when nothing else applies.
const Other = "Other"

// Group is a named set of categories.
type Group struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

var taxonomy = []Group{
	{
		Name: "Workplace Conduct",
		Categories: []string{
			"Harassment",
			"Discrimination",
			"Retaliation",
			"Bullying",
			"Accusation",
			"Verbal Abuse",
			"Unprofessional Conduct",
		},
	},
	{
		Name: "Policy & Compliance",
		Categories: []string{
			"Policy Violation",
			"Safety Violation",
			"Attendance",
			"Drug/Alcohol Testing",
			"Wage & Hour",
			"Accommodation Request",
		},
	},
	{
		Name: "Operational/Incident-Based",
		Categories: []string{
			"Workplace Injury",
			"Theft",
			"Property Damage",
			"Security Incident",
			"Disciplinary Action",
			"Workplace Violence",
		},
	},
	{
		Name:       "Other",
		Categories: []string{Other},
	},
}

// Taxonomy returns a copy of the category groups in display order.
func Taxonomy() []Group {
	groups := make([]Group, len(taxonomy))
	for i, g := range taxonomy {
		groups[i] = Group{Name: g.Name, Categories: slices.Clone(g.Categories)}
	}
	return groups
}

// Canonical returns the taxonomy spelling of category, matched without regard
// to case or surrounding whitespace.
func Canonical(category string) (string, bool) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", false
	}
	for _, g := range taxonomy {
		for _, c := range g.Categories {
			if strings.EqualFold(c, category) {
				return c, true
			}
		}
	}
	return "", false
}

type rule struct {
	category string
	pattern  *regexp.Regexp
}

// rules are evaluated in order and the first match wins. Accusations are
// checked before the conduct they allege so that "accused me of theft" is
// filed as an accusation.
var rules = []rule{
	{"Accusation", regexp.MustCompile(`(?i)\baccus|\bfalsely\b|\bblamed\b|\balleg`)},
	{"Retaliation", regexp.MustCompile(`(?i)\bretaliat|\bpayback\b|\bpunished\s+(?:me\s+)?for\s+(?:reporting|complaining)`)},
	{"Harassment", regexp.MustCompile(`(?i)\bharass|\bsexual|\binappropriate(?:ly)?\s+touch|\bunwanted\b|\bstalk`)},
	{"Discrimination", regexp.MustCompile(`(?i)\bdiscriminat|\bracis|\bsexis|\bslurs?\b|\bbecause\s+(?:of\s+)?(?:my|i\s+am)\s+(?:race|gender|age|religion|disability|pregnan)`)},
	{"Workplace Violence", regexp.MustCompile(`(?i)\bpunch|\bshov|\bassault|\bweapon|\bthreaten(?:ed)?\s+to\s+(?:hurt|kill|hit)|\bhit\s+me\b|\bphysical\s+fight`)},
	{"Bullying", regexp.MustCompile(`(?i)\bbull(?:y|ied|ies|ying)\b|\bintimidat|\bhumiliat|\bmock(?:ed|ing)?\b`)},
	{"Verbal Abuse", regexp.MustCompile(`(?i)\byell|\bscream|\bcurs(?:e|ed|ing)\b|\bswore\b|\bswear|\binsult|\bname[-\s]calling`)},
	{"Theft", regexp.MustCompile(`(?i)\btheft\b|\bstole|\bsteal|\bshoplift|\brobbe(?:d|ry)\b|\bmissing\s+(?:money|cash|items?|tools?)`)},
	{"Workplace Injury", regexp.MustCompile(`(?i)\binjur|\bsprain|\bfracture|\bslipped\b|\bfell\b|\bburn(?:ed|t)\b|\bstitches\b`)},
	{"Safety Violation", regexp.MustCompile(`(?i)\bunsafe\b|\bsafety\b|\bhazard|\bosha\b|\bppe\b|\blockout\b`)},
	{"Drug/Alcohol Testing", regexp.MustCompile(`(?i)\b(?:drug|alcohol|urine)\s+(?:test|screen)|\bbreathalyzer|\bdrug\s+screen`)},
	{"Wage & Hour", regexp.MustCompile(`(?i)\bovertime\b|\bpaycheck|\bunpaid\b|\bwages?\b|\bpay\s+stub|\bhours\s+(?:were\s+)?cut|\bmissed\s+(?:meal|lunch)\s+break`)},
	{"Accommodation Request", regexp.MustCompile(`(?i)\baccommodat|\bdoctor'?s\s+note|\blight\s+duty|\bmedical\s+leave|\bfmla\b`)},
	{"Attendance", regexp.MustCompile(`(?i)\btardy\b|\babsen(?:t|ce)\b|\bno[-\s]call|\battendance\b|\bclocked\s+in\s+late|\bcame\s+in\s+late`)},
	{"Property Damage", regexp.MustCompile(`(?i)\bdamag|\bvandal|\bbroke\s+the\b|\bsmashed\b`)},
	{"Security Incident", regexp.MustCompile(`(?i)\btrespass|\bbreak[-\s]in\b|\bintruder|\bunauthori[sz]ed\b|\balarm\s+went\s+off`)},
	{"Disciplinary Action", regexp.MustCompile(`(?i)\bwrite[-\s]?up\b|\bwritten\s+up\b|\bsuspen(?:d|ded|sion)\b|\bterminat|\bfired\b|\bdisciplin|\bfinal\s+warning`)},
	{"Policy Violation", regexp.MustCompile(`(?i)\bpolicy\b|\bpolicies\b|\bprocedure|\bviolat`)},
	{"Unprofessional Conduct", regexp.MustCompile(`(?i)\bunprofessional|\brude(?:ly)?\b|\bdisrespect|\bgossip`)},
}

// Infer returns the first taxonomy category whose keywords appear in text, or
// Other when none do.
func Infer(text string) string {
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r.category
		}
	}
	return Other
}
