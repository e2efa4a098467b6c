package dates

import (
	"strconv"
	"strings"

	"github.com/JaimeStill/clearcase/internal/text"
)

// Time is a resolved time of day in its display ("2:30 PM") and canonical
// ("14:30") forms.
type Time struct {
	Display   string `json:"display"`
	Canonical string `json:"canonical"`
}

// Token is a time expression located in a larger text. Start and End are byte
// offsets of Text within the source.
type Token struct {
	Time
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// bareKeywords introduce a bare hour ("at 9"). Longer forms come first.
var bareKeywords = []string{"approximately", "approx.", "approx", "around", "about", "at"}

// bareFollowers are the lowercase words allowed directly after a bare hour.
// Any other lowercase word marks a quantity ("about 5 minutes").
var bareFollowers = map[string]bool{
	"and": true, "or": true, "but": true, "when": true, "then": true,
	"the": true, "my": true, "we": true, "he": true, "she": true,
	"they": true, "on": true, "in": true, "so": true, "while": true,
	"before": true, "after": true, "until": true, "sharp": true,
	"tonight": true, "today": true, "this": true, "that": true,
	"yesterday": true, "last": true, "i": true,
}

var namedTimes = []struct {
	word string
	hour int
}{
	{"midnight", 0},
	{"midday", 12},
	{"noon", 12},
}

// ResolveTime returns the first time expression in text. Meridiem forms
// ("9am", "9:30 p.m."), 24-hour clocks ("14:30"), "noon" and "midnight" are
// recognized, as is a bare hour after "at", "around", "about" or
// "approximately", which is read as a 24-hour value. Resolving a Display
// value returns it unchanged.
func ResolveTime(s string) (Time, bool) {
	t, ok := nextTime(s, 0)
	return t.Time, ok
}

// FindTimes returns every non-overlapping time expression in s in order of
// appearance.
func FindTimes(s string) []Token {
	var tokens []Token
	for pos := 0; ; {
		t, ok := nextTime(s, pos)
		if !ok {
			return tokens
		}
		tokens = append(tokens, t)
		pos = t.End
	}
}

// nextTime returns the first time expression starting at or after pos. At a
// given offset the longest form wins.
func nextTime(s string, pos int) (Token, bool) {
	for i := pos; i < len(s); i++ {
		if i > 0 && text.IsWordByte(s[i-1]) {
			continue
		}
		switch c := s[i]; {
		case isDigit(c):
			if t, ok := matchNumeric(s, i); ok {
				return t, true
			}
		case c|0x20 == 'n' || c|0x20 == 'm':
			if t, ok := matchNamed(s, i); ok {
				return t, true
			}
		}
	}
	return Token{}, false
}

func matchNumeric(s string, start int) (Token, bool) {
	end := start
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end-start > 2 {
		return Token{}, false
	}
	hour := atoi(s[start:end])

	if t, ok := matchMeridiem(s, start, end, hour); ok {
		return t, true
	}
	if t, ok := matchClock(s, start, end, hour); ok {
		return t, true
	}
	return matchBare(s, start, end, hour)
}

// matchMeridiem reads "9am", "9 a.m." and "9:30 PM" starting at the hour.
func matchMeridiem(s string, start, end, hour int) (Token, bool) {
	k := end
	minute := 0
	if m, ok := minutes(s, k); ok {
		minute = m
		k += 3
	}
	if k < len(s) && isSpace(s[k]) {
		k++
	}
	if k >= len(s) {
		return Token{}, false
	}
	half := s[k] | 0x20
	if half != 'a' && half != 'p' {
		return Token{}, false
	}
	k++
	if k < len(s) && s[k] == '.' {
		k++
	}
	if k < len(s) && isSpace(s[k]) {
		k++
	}
	if k >= len(s) || s[k]|0x20 != 'm' {
		return Token{}, false
	}
	k++
	if k < len(s) && text.IsWordByte(s[k]) {
		return Token{}, false
	}
	if k < len(s) && s[k] == '.' {
		k++
	}

	if hour < 1 || hour > 12 {
		return Token{}, false
	}
	switch {
	case half == 'a' && hour == 12:
		hour = 0
	case half == 'p' && hour != 12:
		hour += 12
	}
	return token(s, start, k, hour, minute), true
}

// matchClock reads 24-hour "14:30" forms.
func matchClock(s string, start, end, hour int) (Token, bool) {
	if hour > 23 {
		return Token{}, false
	}
	minute, ok := minutes(s, end)
	if !ok {
		return Token{}, false
	}
	k := end + 3
	if k < len(s) && text.IsWordByte(s[k]) {
		return Token{}, false
	}
	return token(s, start, k, hour, minute), true
}

// matchBare reads an hour introduced by a keyword ("around 17"). Hours
// followed by a fraction, a date separator or a quantity word are skipped.
func matchBare(s string, start, end, hour int) (Token, bool) {
	if hour > 23 || !afterKeyword(s, start) || quantityFollows(s[end:]) {
		return Token{}, false
	}
	return token(s, start, end, hour, 0), true
}

func matchNamed(s string, start int) (Token, bool) {
	for _, n := range namedTimes {
		end := start + len(n.word)
		if end > len(s) || !strings.EqualFold(s[start:end], n.word) {
			continue
		}
		if end < len(s) && text.IsWordByte(s[end]) {
			continue
		}
		return token(s, start, end, n.hour, 0), true
	}
	return Token{}, false
}

// minutes reads ":MM" at offset k.
func minutes(s string, k int) (int, bool) {
	if k+3 > len(s) || s[k] != ':' || s[k+1] < '0' || s[k+1] > '5' || !isDigit(s[k+2]) {
		return 0, false
	}
	return int(s[k+1]-'0')*10 + int(s[k+2]-'0'), true
}

func afterKeyword(s string, start int) bool {
	k := start
	for k > 0 && isSpace(s[k-1]) {
		k--
	}
	if k == start {
		return false
	}
	head := s[:k]
	for _, kw := range bareKeywords {
		n := len(head) - len(kw)
		if n < 0 || !strings.EqualFold(head[n:], kw) {
			continue
		}
		if n == 0 || !text.IsWordByte(head[n-1]) {
			return true
		}
	}
	return false
}

func quantityFollows(rest string) bool {
	if rest == "" {
		return false
	}
	if text.IsWordByte(rest[0]) {
		return true
	}
	if len(rest) > 1 && strings.IndexByte(":/.", rest[0]) >= 0 && isDigit(rest[1]) {
		return true
	}

	rest = strings.TrimLeft(rest, " \t")
	end := 0
	for end < len(rest) && (text.IsWordByte(rest[end]) || rest[end] == '\'') {
		end++
	}
	word := rest[:end]
	switch {
	case word == "":
		return false
	case strings.EqualFold(word, "o'clock"):
		return false
	case word[0] < 'a' || word[0] > 'z':
		return false
	}
	return !bareFollowers[word]
}

func token(s string, start, end, hour, minute int) Token {
	return Token{
		Time:  format(hour, minute),
		Text:  s[start:end],
		Start: start,
		End:   end,
	}
}

func format(hour, minute int) Time {
	suffix := " AM"
	if hour >= 12 {
		suffix = " PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	mm := pad(minute)
	return Time{
		Display:   strconv.Itoa(h) + ":" + mm + suffix,
		Canonical: pad(hour) + ":" + mm,
	}
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
