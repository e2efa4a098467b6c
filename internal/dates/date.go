// Package dates resolves the fuzzy date and time expressions found in incident
// notes into canonical values: ISO dates for storage and "h:mm AM/PM" times for
// display.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISOLayout is the canonical event date layout.
const ISOLayout = "2006-01-02"

const monthNames = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

var (
	isoPattern      = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	slashPattern    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?\b`)
	dashPattern     = regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{4}|\d{2})\b`)
	relativePattern = regexp.MustCompile(`(?i)\b(today|yesterday|tonight|this\s+(?:morning|afternoon|evening)|last\s+(?:night|(monday|tuesday|wednesday|thursday|friday|saturday|sunday)))\b`)
	monthDayPattern = regexp.MustCompile(`(?i)\b` + monthNames + `\.?(?:\s+(\d{1,2})(?:st|nd|rd|th)?)?(?:,?\s+(\d{4}))?\b`)
	dayMonthPattern = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?` + monthNames + `\.?(?:,?\s+(\d{4}))?\b`)
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// resolver converts one regexp submatch into a calendar date relative to ref.
type resolver func(m []string, ref time.Time) (time.Time, bool)

type datePattern struct {
	pattern *regexp.Regexp
	resolve resolver
}

// groups are tried in order: numeric, relative, then month-name forms.
// Within a group the earliest valid match wins.
var groups = [][]datePattern{
	{{isoPattern, resolveISO}, {slashPattern, resolveNumeric}, {dashPattern, resolveNumeric}},
	{{relativePattern, resolveRelative}},
	{{monthDayPattern, resolveMonthDay}, {dayMonthPattern, resolveDayMonth}},
}

// ResolveDate finds the first recognizable date expression in text and
// returns it as an ISO date. Expressions without a year assume the year of
// ref; when that lands strictly after ref the previous year is used, since
// incidents are recorded after they happen. It returns false when text holds
// no valid date.
func ResolveDate(text string, ref time.Time) (string, bool) {
	_, date, ok := find(text, ref)
	if !ok {
		return "", false
	}
	return date.Format(ISOLayout), true
}

// ExtractDateText returns the first substring of text that resolves to a
// valid date, or the empty string. The substring keeps the author's phrasing
// so it can be displayed when canonicalization is lossy.
func ExtractDateText(text string) string {
	match, _, _ := find(text, time.Now())
	return match
}

func find(text string, ref time.Time) (string, time.Time, bool) {
	if strings.TrimSpace(text) == "" {
		return "", time.Time{}, false
	}

	for _, group := range groups {
		start := -1
		var match string
		var date time.Time

		for _, p := range group {
			for _, idx := range p.pattern.FindAllStringSubmatchIndex(text, -1) {
				if start >= 0 && idx[0] >= start {
					break
				}
				m := submatches(text, idx)
				if d, ok := p.resolve(m, ref); ok {
					start, match, date = idx[0], strings.TrimSpace(m[0]), d
					break
				}
			}
		}

		if start >= 0 {
			return match, date, true
		}
	}
	return "", time.Time{}, false
}

func submatches(text string, idx []int) []string {
	m := make([]string, len(idx)/2)
	for i := range m {
		if idx[2*i] >= 0 {
			m[i] = text[idx[2*i]:idx[2*i+1]]
		}
	}
	return m
}

func resolveISO(m []string, _ time.Time) (time.Time, bool) {
	return civil(atoi(m[1]), atoi(m[2]), atoi(m[3]))
}

func resolveNumeric(m []string, ref time.Time) (time.Time, bool) {
	month, day := atoi(m[1]), atoi(m[2])
	if m[3] == "" {
		return pastDate(month, day, ref)
	}
	return civil(expandYear(m[3]), month, day)
}

func resolveRelative(m []string, ref time.Time) (time.Time, bool) {
	today := day(ref)
	phrase := strings.ToLower(strings.Join(strings.Fields(m[1]), " "))

	switch {
	case phrase == "yesterday" || phrase == "last night":
		return today.AddDate(0, 0, -1), true
	case m[2] != "":
		target := weekdays[strings.ToLower(m[2])]
		delta := (int(today.Weekday()) - int(target) + 7) % 7
		if delta == 0 {
			delta = 7
		}
		return today.AddDate(0, 0, -delta), true
	default:
		return today, true
	}
}

func resolveMonthDay(m []string, ref time.Time) (time.Time, bool) {
	return monthDate(m[1], m[2], m[3], ref)
}

func resolveDayMonth(m []string, ref time.Time) (time.Time, bool) {
	return monthDate(m[2], m[1], m[3], ref)
}

// monthDate builds a date from a month name plus optional day and year. A
// month with neither day nor year ("may") is not treated as a date. A month
// with a year but no day resolves to the first of the month.
func monthDate(name, dayText, yearText string, ref time.Time) (time.Time, bool) {
	month, ok := monthNumber(name)
	if !ok || (dayText == "" && yearText == "") {
		return time.Time{}, false
	}

	d := 1
	if dayText != "" {
		d = atoi(dayText)
	}

	if yearText == "" {
		return pastDate(month, d, ref)
	}
	return civil(atoi(yearText), month, d)
}

// pastDate resolves a month and day without a year. The year of ref is tried
// first and decremented when the result falls after ref. February 29 walks
// back to the nearest leap year.
func pastDate(month, d int, ref time.Time) (time.Time, bool) {
	if month < 1 || month > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}

	today := day(ref)
	year := today.Year()

	date, ok := civilBack(year, month, d)
	if !ok {
		return time.Time{}, false
	}
	if date.After(today) {
		return civilBack(date.Year()-1, month, d)
	}
	return date, true
}

func civilBack(year, month, d int) (time.Time, bool) {
	for range 8 {
		if date, ok := civil(year, month, d); ok {
			return date, true
		}
		year--
	}
	return time.Time{}, false
}

// civil returns the calendar date or false when the fields do not name a real
// day (2/30, 13/1).
func civil(year, month, d int) (time.Time, bool) {
	if month < 1 || month > 12 || d < 1 {
		return time.Time{}, false
	}
	date := time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC)
	if date.Month() != time.Month(month) || date.Day() != d {
		return time.Time{}, false
	}
	return date, true
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func expandYear(s string) int {
	y := atoi(s)
	if len(s) == 2 {
		y += 2000
	}
	return y
}

func monthNumber(name string) (int, bool) {
	name = strings.ToLower(strings.TrimSuffix(name, "."))
	if len(name) < 3 {
		return 0, false
	}
	switch name[:3] {
	case "jan":
		return 1, true
	case "feb":
		return 2, true
	case "mar":
		return 3, true
	case "apr":
		return 4, true
	case "may":
		return 5, true
	case "jun":
		return 6, true
	case "jul":
		return 7, true
	case "aug":
		return 8, true
	case "sep":
		return 9, true
	case "oct":
		return 10, true
	case "nov":
		return 11, true
	case "dec":
		return 12, true
	}
	return 0, false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
