package names_test

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/JaimeStill/clearcase/internal/names"
)

func TestParseShapesConverge(t *testing.T) {
	want := []string{"Alice", "Bob", "Carol"}

	tests := []struct {
		name string
		who  names.Who
	}{
		{"free string", names.FromString("Alice, Bob and Carol")},
		{"list of strings", names.FromList([]string{"Alice", "Bob", "Carol"})},
		{"list of records", names.FromRecords([]names.Record{{Name: "Alice"}, {Name: "Bob"}, {Name: "Carol"}})},
		{"semicolons", names.FromString("Alice; Bob; Carol")},
		{"uppercase AND", names.FromString("Alice AND Bob, Carol")},
		{"record with joined names", names.FromRecords([]names.Record{{Name: "Alice, Bob"}, {Name: "Carol"}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names.Parse(tt.who)
			if !slices.Equal(got, want) {
				t.Errorf("Parse() = %v, want %v", got, want)
			}
		})
	}
}

func TestParseEmptyInputs(t *testing.T) {
	tests := []struct {
		name string
		who  names.Who
	}{
		{"zero value", names.Who{}},
		{"nil list", names.FromList(nil)},
		{"empty object", names.FromObject(map[string]any{})},
		{"nil object", names.FromObject(nil)},
		{"blank string", names.FromString("   ")},
		{"invalid records", names.FromRecords([]names.Record{{Invalid: true}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names.Parse(tt.who)
			if got == nil {
				t.Fatal("Parse() returned nil, want empty slice")
			}
			if len(got) != 0 {
				t.Errorf("Parse() = %v, want empty", got)
			}
		})
	}
}

func TestParseJSONShapes(t *testing.T) {
	tests := []struct {
		name string
		json string
		want []string
	}{
		{"null", `null`, []string{}},
		{"string", `"Alice, Bob and Carol"`, []string{"Alice", "Bob", "Carol"}},
		{"strings", `["Alice","Bob","Carol"]`, []string{"Alice", "Bob", "Carol"}},
		{"records", `[{"name":"Alice"},{"name":"Bob"},{"name":"Carol"}]`, []string{"Alice", "Bob", "Carol"}},
		{"mixed array", `["Alice",{"name":"Bob"},42,{"role":"x"}]`, []string{"Alice", "Bob"}},
		{"object with name", `{"name":"Alice and Bob"}`, []string{"Alice", "Bob"}},
		{"object salvage", `{"b":"Bob","a":"Alice","n":null}`, []string{"Alice", "Bob"}},
		{"empty object", `{}`, []string{}},
		{"number", `7`, []string{"7"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w names.Who
			if err := json.Unmarshal([]byte(tt.json), &w); err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}
			got := names.Parse(w)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Parse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseCleansParts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"others label", "Others: Tom, Jerry", []string{"Tom", "Jerry"}},
		{"other label", "other: Tom", []string{"Tom"}},
		{"trailing period", "Tom.", []string{"Tom"}},
		{"duplicates keep first", "Tom, Ann, Tom", []string{"Tom", "Ann"}},
		{"case preserved", "john SMITH", []string{"john SMITH"}},
		{"and inside a name", "Alexander Sanders", []string{"Alexander Sanders"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names.Parse(names.FromString(tt.in))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatList(t *testing.T) {
	got := names.FormatList([]string{"john SMITH", "John Smith", "mary o'neil-jones", " "})
	want := []string{"John Smith", "Mary O'Neil-Jones"}
	if !slices.Equal(got, want) {
		t.Errorf("FormatList() = %v, want %v", got, want)
	}
}

func TestWhoMarshalJSON(t *testing.T) {
	data, err := json.Marshal(names.FromString("Alice and Bob"))
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != `["Alice","Bob"]` {
		t.Errorf("Marshal = %s, want [\"Alice\",\"Bob\"]", data)
	}
}

func TestRole(t *testing.T) {
	tests := []struct {
		in   string
		want names.Bucket
	}{
		{"Jane Doe (manager)", names.Managers},
		{"Supervisor Ray", names.Managers},
		{"Shop steward Lee", names.UnionStewards},
		{"union rep Kim", names.UnionStewards},
		{"Security guard Al", names.Security},
		{"Security Manager Jane", names.Security},
		{"Steward and manager Pat", names.UnionStewards},
		{"Tom", names.Others},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := names.Role(tt.in); got != tt.want {
				t.Errorf("Role(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPartition(t *testing.T) {
	p := names.Partition([]string{
		"Jane Doe (manager)",
		"Security Manager Rick",
		"Steward Lee",
		"Tom",
		"Tom",
	})

	if !slices.Equal(p.Managers, []string{"Jane Doe"}) {
		t.Errorf("Managers = %v, want [Jane Doe]", p.Managers)
	}
	if !slices.Equal(p.Security, []string{"Rick"}) {
		t.Errorf("Security = %v, want [Rick]", p.Security)
	}
	if !slices.Equal(p.UnionStewards, []string{"Lee"}) {
		t.Errorf("UnionStewards = %v, want [Lee]", p.UnionStewards)
	}
	if !slices.Equal(p.Others, []string{"Tom"}) {
		t.Errorf("Others = %v, want [Tom]", p.Others)
	}
	if p.Accused == nil || p.Accusers == nil {
		t.Error("Partition left nil buckets")
	}
}

func TestPeopleAddIsExclusive(t *testing.T) {
	var p names.People
	if !p.Add(names.Managers, "Jane Doe") {
		t.Fatal("first Add returned false")
	}
	if p.Add(names.Accusers, "jane doe") {
		t.Error("Add accepted a name already present in another bucket")
	}
	if got := p.All(); !slices.Equal(got, []string{"Jane Doe"}) {
		t.Errorf("All() = %v, want [Jane Doe]", got)
	}
}
