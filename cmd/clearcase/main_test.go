package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/clearcase/internal/categories"
	"github.com/JaimeStill/clearcase/internal/incidents"
	"github.com/JaimeStill/clearcase/internal/scan"
)

const notes = "On 7/22 around 9am, my manager Jane Doe accused me of theft at the warehouse. Case #4521. Timeline: 9:00 AM - accused me in front of team. Witnesses: Tom."

func run(t *testing.T, cmd *cobra.Command, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScanCmd(t *testing.T) {
	out, err := run(t, scanCmd(), notes)
	if err != nil {
		t.Fatalf("scan error = %v", err)
	}

	var got scan.Result
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.CaseNumber != "4521" {
		t.Errorf("case number = %q, want 4521", got.CaseNumber)
	}
	if got.Time != "9:00 AM" {
		t.Errorf("time = %q, want 9:00 AM", got.Time)
	}
}

func TestParseCmd(t *testing.T) {
	out, err := run(t, parseCmd(), notes)
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := got["structured"]; !ok {
		t.Fatalf("structured result missing: %s", out)
	}
	if got["fallback"] != false {
		t.Errorf("fallback = %v, error = %v", got["fallback"], got["error"])
	}
}

func TestReadNotesErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "   \n", incidents.ErrEmptyNotes},
		{"too long", strings.Repeat("a", incidents.MaxNotesLength+1), incidents.ErrNotesTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, scanCmd(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWatchCmd(t *testing.T) {
	lines := "On 7/22 around 9am, my manager Jane Doe accused me of theft at the warehouse.\nCase #4521.\n"
	out, err := run(t, watchCmd(), lines, "--debounce", "1h")
	if err != nil {
		t.Fatalf("watch error = %v", err)
	}

	var results []map[string]any
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var r map[string]any
		if err := dec.Decode(&r); err != nil {
			t.Fatalf("decode %q: %v", out, err)
		}
		results = append(results, r)
	}

	if len(results) != 4 {
		t.Fatalf("results = %d, want 2 fast updates, a forced fast scan and the merge: %s", len(results), out)
	}
	for i, r := range results[:3] {
		if _, ok := r["structured"]; ok {
			t.Errorf("result %d carries a structured parse before the final merge", i)
		}
	}
	last := results[3]
	if _, ok := last["structured"]; !ok {
		t.Errorf("final result missing structured parse: %v", last)
	}
	fast, _ := last["fast"].(map[string]any)
	if fast["case_number"] != "4521" {
		t.Errorf("final fast scan = %v, want case 4521", fast)
	}
}

func TestWatchCmdEmptyInput(t *testing.T) {
	if _, err := run(t, watchCmd(), "\n  \n"); !errors.Is(err, incidents.ErrEmptyNotes) {
		t.Errorf("error = %v, want ErrEmptyNotes", err)
	}
}

func TestCaseCmd(t *testing.T) {
	out, err := run(t, caseCmd(), "", "Case", "No.", "1234.")
	if err != nil {
		t.Fatalf("case error = %v", err)
	}

	var got scan.CaseLabel
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got != (scan.CaseLabel{Bare: "1234", Prefixed: "Case 1234"}) {
		t.Errorf("label = %+v", got)
	}

	if _, err := run(t, caseCmd(), "", "Case"); err == nil {
		t.Error("case with no number returned nil error")
	}
}

func TestFingerprintCmd(t *testing.T) {
	out, err := run(t, fingerprintCmd(), notes, "--date", "2024-07-22")
	if err != nil {
		t.Fatalf("fingerprint error = %v", err)
	}

	want := categories.Fingerprint(notes, "2024-07-22")
	if strings.TrimSpace(out) != want {
		t.Errorf("key = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestProcessCmdInvalidReference(t *testing.T) {
	_, err := run(t, processCmd(), notes, "--reference", "March 3")
	if err == nil || !strings.Contains(err.Error(), "invalid reference date") {
		t.Errorf("error = %v, want invalid reference date", err)
	}
}

func TestCategoriesCmd(t *testing.T) {
	out, err := run(t, categoriesCmd(), "")
	if err != nil {
		t.Fatalf("categories error = %v", err)
	}
	for _, group := range categories.Taxonomy() {
		if !strings.Contains(out, group.Name) {
			t.Errorf("output missing group %q", group.Name)
		}
	}
}
