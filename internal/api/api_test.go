package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/clearcase/internal/api"
	"github.com/JaimeStill/clearcase/internal/categories"
	"github.com/JaimeStill/clearcase/internal/config"
	"github.com/JaimeStill/clearcase/internal/infrastructure"
	"github.com/JaimeStill/clearcase/pkg/database"
	"github.com/JaimeStill/clearcase/pkg/middleware"
	"github.com/JaimeStill/clearcase/pkg/pagination"
)

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     "1m",
			WriteTimeout:    "15m",
			ShutdownTimeout: "30s",
		},
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "clearcase",
			User:            "clearcase",
			Password:        "clearcase",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Categories: config.CategoriesConfig{
			Backend:  config.BackendMemory,
			BlobKey:  "categories/mappings.json",
			RedisKey: "clearcase:categories",
		},
		Organize: config.OrganizeConfig{
			Debounce: "500ms",
			Timeout:  "10s",
			Workers:  2,
			Queue:    4,
			Parser:   config.ParserLocal,
		},
		Remote: config.RemoteConfig{Timeout: "30s"},
		API: config.APIConfig{
			BasePath:    "/api",
			MaxBodySize: "1MB",
			CORS: middleware.CORSConfig{
				Enabled: false,
			},
			Pagination: pagination.Config{
				DefaultPageSize: 20,
				MaxPageSize:     100,
			},
		},
		ShutdownTimeout: "30s",
		Version:         "0.1.0",
	}
}

func setupInfra(t *testing.T, cfg *config.Config) *infrastructure.Infrastructure {
	t.Helper()
	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	return infra
}

func TestNewModule(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t, cfg)

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	if m.Prefix() != "/api" {
		t.Errorf("prefix: got %s, want /api", m.Prefix())
	}
}

func TestNewRuntime(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t, cfg)

	runtime := api.NewRuntime(cfg, infra)

	if runtime.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default page size: got %d, want 20", runtime.Pagination.DefaultPageSize)
	}
	if runtime.Logger == nil {
		t.Error("runtime logger is nil")
	}
	if runtime.Database == nil {
		t.Error("runtime database is nil")
	}
	if runtime.Storage == nil {
		t.Error("runtime storage is nil")
	}
	if runtime.Lifecycle == nil {
		t.Error("runtime lifecycle is nil")
	}
	if runtime.Remote != nil {
		t.Error("remote client created without base_url")
	}
}

func TestNewRuntimeRemote(t *testing.T) {
	cfg := validConfig()
	cfg.Remote = config.RemoteConfig{
		BaseURL: "https://functions.example.com",
		Timeout: "5s",
		Grammar: true,
	}
	infra := setupInfra(t, cfg)

	runtime := api.NewRuntime(cfg, infra)
	if runtime.Remote == nil {
		t.Fatal("remote client is nil")
	}
	if !runtime.Grammar {
		t.Error("grammar disabled")
	}

	domain := api.NewDomain(runtime)
	if domain.Organizer == nil {
		t.Error("organizer is nil with remote configured")
	}
}

func TestNewDomain(t *testing.T) {
	cfg := validConfig()
	infra := setupInfra(t, cfg)
	runtime := api.NewRuntime(cfg, infra)

	domain := api.NewDomain(runtime)
	if domain == nil {
		t.Fatal("NewDomain() returned nil")
	}
	if domain.Incidents == nil || domain.Pipeline == nil || domain.Categories == nil {
		t.Errorf("domain systems missing: %+v", domain)
	}
	if domain.Organizer != nil {
		t.Error("organizer set without remote")
	}
}

func serve(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	cfg := validConfig()
	m, err := api.NewModule(cfg, setupInfra(t, cfg))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	m.Serve(rec, req)
	return rec
}

func TestCategoriesTaxonomy(t *testing.T) {
	rec := serve(t, "GET", "/api/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var groups []categories.Group
	if err := json.NewDecoder(rec.Body).Decode(&groups); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(groups) != len(categories.Taxonomy()) {
		t.Errorf("groups = %d, want %d", len(groups), len(categories.Taxonomy()))
	}
}

func TestCategoryMappingNotFound(t *testing.T) {
	rec := serve(t, "GET", "/api/categories/mappings/inc_0000000000000000", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestNotesScanThroughModule(t *testing.T) {
	rec := serve(t, "POST", "/api/notes/scan", `{"text":"Case #4521 at 9:00 AM"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "4521") {
		t.Errorf("body = %s, want case number", rec.Body.String())
	}
}

func TestBodyLimit(t *testing.T) {
	body := `{"text":"` + strings.Repeat("a", 2<<20) + `"}`
	rec := serve(t, "POST", "/api/notes/scan", body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestOpenAPISpec(t *testing.T) {
	rec := serve(t, "GET", "/api/openapi.json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var spec struct {
		Paths      map[string]map[string]any `json:"paths"`
		Components struct {
			Schemas map[string]any `json:"schemas"`
		} `json:"components"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&spec); err != nil {
		t.Fatalf("decode: %v", err)
	}

	wantPaths := map[string]string{
		"/incidents":                 "post",
		"/incidents/{id}/category":   "put",
		"/notes/organize":            "post",
		"/categories/mappings/{key}": "get",
	}
	for path, method := range wantPaths {
		item, ok := spec.Paths[path]
		if !ok {
			t.Errorf("missing path %s", path)
			continue
		}
		if _, ok := item[method]; !ok {
			t.Errorf("%s: missing %s operation", path, method)
		}
	}

	for _, name := range []string{"Incident", "SubmitCommand", "NotesRequest", "CategoryMapping"} {
		if _, ok := spec.Components.Schemas[name]; !ok {
			t.Errorf("missing schema %s", name)
		}
	}
}
