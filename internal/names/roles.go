package names

import (
	"regexp"
	"slices"
	"strings"

	"github.com/JaimeStill/clearcase/internal/text"
)

// Bucket is a role category within an incident's people.
type Bucket int

// Buckets are declared in precedence order: when a name qualifies for more
// than one bucket, the lowest value wins.
const (
	UnionStewards Bucket = iota
	Security
	Managers
	Accusers
	Accused
	Others
)

func (b Bucket) String() string {
	switch b {
	case UnionStewards:
		return "union_stewards"
	case Security:
		return "security"
	case Managers:
		return "managers"
	case Accusers:
		return "accusers"
	case Accused:
		return "accused"
	default:
		return "others"
	}
}

type roleRule struct {
	bucket  Bucket
	pattern *regexp.Regexp
}

// roleRules are matched in order; the first matching rule decides the bucket.
var roleRules = []roleRule{
	{UnionStewards, regexp.MustCompile(`(?i)\b(?:shop\s+)?stewards?\b|\bunion\s+rep(?:resentative)?s?\b|\bunion\s+delegates?\b`)},
	{Security, regexp.MustCompile(`(?i)\bsecurity(?:\s+(?:guard|officer))?s?\b|\bguards?\b|\bloss\s+prevention\b`)},
	{Managers, regexp.MustCompile(`(?i)\b(?:assistant\s+|general\s+|store\s+|shift\s+)?(?:manager|supervisor|boss|foreman|superintendent|director)s?\b|\bteam\s+lead\b`)},
}

var (
	roleDecorPattern = regexp.MustCompile(`(?i)^\s*(?:my|the|our|a|an)\s+`)
	emptyParens      = regexp.MustCompile(`\(\s*\)|\[\s*\]`)
)

// Role returns the bucket implied by role keywords in s. Names without a
// role keyword fall into Others. Precedence follows roleRules:
// union stewards, then security, then managers.
func Role(s string) Bucket {
	for _, r := range roleRules {
		if r.pattern.MatchString(s) {
			return r.bucket
		}
	}
	return Others
}

// StripRole removes role keywords and leftover decoration from s
// ("Jane Doe (manager)" -> "Jane Doe"). When nothing but the role remains the
// trimmed input is returned unchanged.
func StripRole(s string) string {
	stripped := s
	for _, r := range roleRules {
		stripped = r.pattern.ReplaceAllString(stripped, " ")
	}
	stripped = emptyParens.ReplaceAllString(stripped, " ")
	stripped = roleDecorPattern.ReplaceAllString(stripped, "")
	stripped = strings.Trim(text.Collapse(stripped), trimCutset+",-–")

	if stripped == "" {
		return strings.TrimSpace(s)
	}
	return stripped
}

// People holds the names of an incident sorted into mutually exclusive role
// buckets. All lists are non-nil after Normalize.
type People struct {
	Accused       []string `json:"accused"`
	Accusers      []string `json:"accusers"`
	Managers      []string `json:"managers"`
	UnionStewards []string `json:"union_stewards"`
	Security      []string `json:"security"`
	Others        []string `json:"others"`
}

// Partition assigns each name to the bucket its role keywords imply and
// strips the role words from the stored name.
func Partition(list []string) People {
	var p People
	for _, raw := range list {
		p.Add(Role(raw), StripRole(raw))
	}
	p.Normalize()
	return p
}

// Add places name in bucket b unless the name already appears in any bucket.
// It reports whether the name was added.
func (p *People) Add(b Bucket, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || p.Contains(name) {
		return false
	}
	list := p.list(b)
	*list = append(*list, name)
	return true
}

// Contains reports whether name appears in any bucket, ignoring case.
func (p *People) Contains(name string) bool {
	for _, list := range p.lists() {
		if slices.ContainsFunc(*list, func(n string) bool { return strings.EqualFold(n, name) }) {
			return true
		}
	}
	return false
}

// All returns every name across buckets in precedence order.
func (p *People) All() []string {
	var all []string
	for _, list := range p.lists() {
		all = append(all, *list...)
	}
	if all == nil {
		return []string{}
	}
	return all
}

// Normalize replaces nil bucket lists with empty slices.
func (p *People) Normalize() {
	for _, list := range p.lists() {
		if *list == nil {
			*list = []string{}
		}
	}
}

func (p *People) list(b Bucket) *[]string {
	switch b {
	case UnionStewards:
		return &p.UnionStewards
	case Security:
		return &p.Security
	case Managers:
		return &p.Managers
	case Accusers:
		return &p.Accusers
	case Accused:
		return &p.Accused
	default:
		return &p.Others
	}
}

func (p *People) lists() []*[]string {
	return []*[]string{
		&p.UnionStewards,
		&p.Security,
		&p.Managers,
		&p.Accusers,
		&p.Accused,
		&p.Others,
	}
}
