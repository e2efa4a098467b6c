package names

import (
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/JaimeStill/clearcase/internal/text"
)

var (
	separatorPattern   = regexp.MustCompile(`(?i)\s*(?:,|;|\band\b)\s*`)
	otherPrefixPattern = regexp.MustCompile(`(?i)^others?\s*:\s*`)
)

const trimCutset = " \t\n.!?:\"'“”()[]"

// Parse flattens w into a deduplicated list of names in first-seen order. It
// never fails: malformed elements are skipped with a warning and a value that
// yields nothing returns an empty, non-nil slice. Names keep their source
// casing; use FormatList when displaying.
func Parse(w Who) []string {
	return parse(w, slog.Default())
}

func parse(w Who, logger *slog.Logger) []string {
	var parts []string

	switch w.kind {
	case KindNone:
	case KindString:
		parts = split(w.str)
	case KindList:
		for _, s := range w.list {
			parts = append(parts, split(s)...)
		}
	case KindRecords:
		for i, r := range w.records {
			if r.Invalid {
				logger.Warn("who record skipped", "index", i, "reason", "missing name")
				continue
			}
			parts = append(parts, split(r.Name)...)
		}
	case KindObject:
		parts = parseObject(w.object, logger)
	default:
		logger.Warn("who value skipped", "kind", w.kind)
	}

	return dedupe(parts)
}

func parseObject(obj map[string]any, logger *slog.Logger) []string {
	if name, ok := obj["name"].(string); ok {
		return split(name)
	}

	keys := slices.Sorted(maps.Keys(obj))

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		switch v := obj[k].(type) {
		case string, float64, bool, int, int64:
			if s := text.Coerce(v); s != "" {
				values = append(values, s)
			}
		}
	}

	if len(values) == 0 {
		logger.Warn("who object skipped", "reason", "no primitive values")
		return nil
	}
	return split(strings.Join(values, ", "))
}

func split(s string) []string {
	s = text.Collapse(s)
	if s == "" {
		return nil
	}

	raw := separatorPattern.Split(s, -1)
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		part = otherPrefixPattern.ReplaceAllString(strings.TrimSpace(part), "")
		part = strings.Trim(part, trimCutset)
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func dedupe(parts []string) []string {
	seen := make(map[string]bool, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// FormatList capitalizes every word of each name and removes duplicates that
// only differed in casing. It is applied once, when names are displayed or
// merged into a stored incident.
func FormatList(list []string) []string {
	formatted := make([]string, 0, len(list))
	for _, name := range list {
		if name = strings.TrimSpace(name); name != "" {
			formatted = append(formatted, text.TitleWords(name))
		}
	}
	return dedupe(formatted)
}
