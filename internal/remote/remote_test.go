package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/JaimeStill/clearcase/internal/names"
	"github.com/JaimeStill/clearcase/internal/remote"
)

func newClient(t *testing.T, handler http.HandlerFunc) *remote.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return remote.New(remote.Config{BaseURL: srv.URL + "/", Token: "secret", Timeout: time.Second}, slog.Default())
}

func TestOrganize(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/organize-incidents" {
			t.Errorf("path = %s, want /organize-incidents", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req["notes"] != "raw notes" {
			t.Errorf("request body = %v (%v)", req, err)
		}

		w.Write([]byte(`{"ok":true,"incidents":[{"date":"7/22","category":"Theft","who":["Jane Doe (manager)","Tom"],"what":"Accused of theft","witnesses":"Tom and Ann","notes":"line one\nline two"}]}`))
	})

	incidents, err := client.Organize(context.Background(), "raw notes")
	if err != nil {
		t.Fatalf("Organize() error = %v", err)
	}
	if len(incidents) != 1 {
		t.Fatalf("Organize() returned %d incidents, want 1", len(incidents))
	}

	inc := incidents[0]
	if inc.Category != "Theft" || inc.Date != "7/22" {
		t.Errorf("incident = %+v", inc)
	}
	if got := names.Parse(inc.Witnesses); !slices.Equal(got, []string{"Tom", "Ann"}) {
		t.Errorf("witnesses = %v", got)
	}
}

func TestOrganizeFencedBody(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("```json\n{\"ok\":true,\"incidents\":[{\"category\":\"Safety\",\"what\":\"Wet floor\"}]}\n```"))
	})

	incidents, err := client.Organize(context.Background(), "notes")
	if err != nil {
		t.Fatalf("Organize() error = %v", err)
	}
	if len(incidents) != 1 || incidents[0].What != "Wet floor" {
		t.Errorf("incidents = %+v", incidents)
	}
}

func TestOrganizeFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `{}`, remote.ErrOrganizeFailed},
		{"not ok", http.StatusOK, `{"ok":false,"error":"quota","code":"E429"}`, remote.ErrOrganizeFailed},
		{"malformed body", http.StatusOK, `<html>`, remote.ErrOrganizeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			if _, err := client.Organize(context.Background(), "notes"); !errors.Is(err, tt.wantErr) {
				t.Errorf("Organize() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOrganizeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client := remote.New(remote.Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, slog.Default())
	if _, err := client.Organize(context.Background(), "notes"); !errors.Is(err, remote.ErrOrganizeFailed) {
		t.Errorf("Organize() error = %v, want ErrOrganizeFailed", err)
	}
}

func TestNotConfigured(t *testing.T) {
	client := remote.New(remote.Config{}, slog.Default())

	_, err := client.Organize(context.Background(), "notes")
	if !errors.Is(err, remote.ErrNotConfigured) {
		t.Errorf("Organize() error = %v, want ErrNotConfigured", err)
	}
	if status := remote.MapHTTPStatus(err); status != http.StatusServiceUnavailable {
		t.Errorf("MapHTTPStatus() = %d, want %d", status, http.StatusServiceUnavailable)
	}
}

func TestImproveGrammar(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text  string   `json:"text"`
			Texts []string `json:"texts"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		if req.Texts != nil {
			results := make([]remote.Improvement, len(req.Texts))
			for i, s := range req.Texts {
				results[i] = remote.Improvement{ImprovedText: s + ".", HasChanges: true}
			}
			json.NewEncoder(w).Encode(map[string]any{"results": results})
			return
		}
		json.NewEncoder(w).Encode(remote.Improvement{ImprovedText: req.Text + ".", HasChanges: true})
	})

	got, err := client.ImproveGrammar(context.Background(), "i was late")
	if err != nil {
		t.Fatalf("ImproveGrammar() error = %v", err)
	}
	if got.ImprovedText != "i was late." || !got.HasChanges {
		t.Errorf("ImproveGrammar() = %+v", got)
	}

	batch, err := client.ImproveGrammarBatch(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("ImproveGrammarBatch() error = %v", err)
	}
	if len(batch) != 2 || batch[1].ImprovedText != "b." {
		t.Errorf("ImproveGrammarBatch() = %+v", batch)
	}
}

func TestImproveGrammarFailure(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ImproveGrammar(context.Background(), "text")
	if !errors.Is(err, remote.ErrGrammarFailed) {
		t.Errorf("ImproveGrammar() error = %v, want ErrGrammarFailed", err)
	}
	if status := remote.MapHTTPStatus(err); status != http.StatusBadGateway {
		t.Errorf("MapHTTPStatus() = %d, want %d", status, http.StatusBadGateway)
	}
}
