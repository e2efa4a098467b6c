// Package names normalizes the free-form "who" field of an incident into a
// deduplicated list of display names and sorts names into role buckets.
package names

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// Kind identifies which shape a Who value carries.
type Kind int

const (
	KindNone Kind = iota
	KindString
	KindList
	KindRecords
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindRecords:
		return "records"
	case KindObject:
		return "object"
	default:
		return "none"
	}
}

// Record is a single entry of a list-of-objects who value. Invalid marks a
// source element that carried no usable name.
type Record struct {
	Name    string `json:"name"`
	Invalid bool   `json:"-"`
}

// Who is a tagged union over every shape the who field arrives in: a free
// string, a list of strings, a list of {name} objects, or an arbitrary object.
// The zero value is KindNone.
type Who struct {
	kind    Kind
	str     string
	list    []string
	records []Record
	object  map[string]any
}

// FromString wraps a free-text who value such as "Alice, Bob and Carol".
func FromString(s string) Who {
	return Who{kind: KindString, str: s}
}

// FromList wraps a list of name strings.
func FromList(list []string) Who {
	if list == nil {
		return Who{}
	}
	return Who{kind: KindList, list: slices.Clone(list)}
}

// FromRecords wraps a list of {name} objects.
func FromRecords(records []Record) Who {
	if records == nil {
		return Who{}
	}
	return Who{kind: KindRecords, records: slices.Clone(records)}
}

// FromObject wraps an arbitrary object. Objects with a string "name" key
// contribute that name; any other object is salvaged from its primitive values.
func FromObject(obj map[string]any) Who {
	if obj == nil {
		return Who{}
	}
	return Who{kind: KindObject, object: maps.Clone(obj)}
}

// Kind reports which shape w carries.
func (w Who) Kind() Kind {
	return w.kind
}

// IsZero reports whether w carries no value.
func (w Who) IsZero() bool {
	return w.kind == KindNone
}

// UnmarshalJSON accepts null, a string, an array of strings and/or objects,
// or an object. Unsupported shapes decode to KindNone rather than failing so
// that a malformed who field never rejects the surrounding payload.
func (w *Who) UnmarshalJSON(data []byte) error {
	*w = Who{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	*w = fromValue(raw)
	return nil
}

// MarshalJSON encodes the parsed name list.
func (w Who) MarshalJSON() ([]byte, error) {
	return json.Marshal(Parse(w))
}

func fromValue(raw any) Who {
	switch v := raw.(type) {
	case string:
		return FromString(v)
	case []any:
		return fromArray(v)
	case map[string]any:
		return FromObject(v)
	case float64, bool:
		return FromObject(map[string]any{"value": v})
	default:
		return Who{}
	}
}

func fromArray(items []any) Who {
	strs := make([]string, 0, len(items))
	allStrings := true
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			allStrings = false
			break
		}
		strs = append(strs, s)
	}
	if allStrings {
		return FromList(strs)
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			records = append(records, Record{Name: v})
		case map[string]any:
			name, ok := v["name"].(string)
			records = append(records, Record{Name: name, Invalid: !ok})
		default:
			records = append(records, Record{Invalid: true})
		}
	}
	return FromRecords(records)
}
