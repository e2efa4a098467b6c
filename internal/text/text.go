// Package text provides the string cleaning primitives shared by the notes
// pipeline: value coercion, newline and whitespace normalization, case folding,
// and line and sentence segmentation.
package text

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	blankRunPattern   = regexp.MustCompile(`\n{3,}`)
	spaceRunPattern   = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// abbreviations never end a sentence when followed by whitespace.
var abbreviations = map[string]bool{
	"no": true, "mr": true, "mrs": true, "ms": true, "dr": true,
	"st": true, "vs": true, "jr": true, "sr": true, "approx": true,
	"dept": true, "ext": true, "ref": true,
}

// Coerce converts an arbitrary value into a string. Nil yields the empty
// string; strings pass through; numbers and booleans use their canonical
// formatting; everything else falls back to fmt.
func Coerce(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Clean normalizes line endings, converts tabs and runs of horizontal
// whitespace to a single space, trims every line, and collapses three or more
// consecutive newlines into a single blank line.
func Clean(s string) string {
	s = NormalizeNewlines(s)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRunPattern.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankRunPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Collapse replaces every run of whitespace (including newlines) with a single
// space and trims the result.
func Collapse(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// Fold collapses whitespace and lowercases the result. Two strings that differ
// only in capitalization or spacing fold to the same value.
func Fold(s string) string {
	return strings.ToLower(Collapse(s))
}

// Lines returns the trimmed, non-empty lines of s.
func Lines(s string) []string {
	raw := strings.Split(NormalizeNewlines(s), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Sentences splits s into sentences. A sentence ends at '.', '!' or '?'
// followed by whitespace and an uppercase letter, a digit, or an opening
// quote. Known abbreviations ("No.", "Dr.") and lowercase
// continuations ("9 a.m. my manager") do not end a sentence.
func Sentences(s string) []string {
	s = Collapse(s)
	if s == "" {
		return []string{}
	}

	var sentences []string
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 < len(s) && s[i+1] != ' ' {
			continue
		}
		if i+1 < len(s) && !opensSentence(s[i+2:]) {
			continue
		}
		if c == '.' && abbreviations[strings.ToLower(lastWord(s[start:i]))] {
			continue
		}

		if sentence := strings.TrimSpace(s[start : i+1]); sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}

	if rest := strings.TrimSpace(s[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// TitleWords uppercases the first letter of every space-separated word and
// lowercases the remainder ("john SMITH" -> "John Smith"). Hyphenated and
// apostrophe parts are capitalized independently ("o'neil-smith" ->
// "O'Neil-Smith").
func TitleWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upper := true
	for _, r := range s {
		switch {
		case r == ' ' || r == '-' || r == '\'':
			b.WriteRune(r)
			upper = true
		case upper:
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func opensSentence(rest string) bool {
	r, _ := utf8.DecodeRuneInString(rest)
	return unicode.IsUpper(r) || unicode.IsDigit(r) || r == '"' || r == '“' || r == '\''
}

func lastWord(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexAny(s, " ("); i >= 0 {
		return s[i+1:]
	}
	return s
}

// IsWordByte reports whether b is an ASCII letter, digit or underscore.
func IsWordByte(b byte) bool {
	return b == '_' || '0' <= b && b <= '9' || 'a' <= b|0x20 && b|0x20 <= 'z'
}

// IndexFold returns the byte offset of the first ASCII case-insensitive
// occurrence of word in s at or after from, or -1. Word must be lowercase.
func IndexFold(s, word string, from int) int {
	if word == "" {
		return from
	}
	first := word[0]
	for i := from; i+len(word) <= len(s); i++ {
		if s[i]|0x20 != first {
			continue
		}
		if strings.EqualFold(s[i:i+len(word)], word) {
			return i
		}
	}
	return -1
}
