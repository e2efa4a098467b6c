package storage_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/JaimeStill/clearcase/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func TestNewReturnsSystem(t *testing.T) {
	cfg := &storage.Config{
		ContainerName:    "clearcase",
		ConnectionString: azuriteConnString,
	}

	sys, err := storage.New(cfg, slog.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sys == nil {
		t.Fatal("New() returned nil system")
	}
}

func TestNewInvalidConnectionString(t *testing.T) {
	cfg := &storage.Config{
		ContainerName:    "clearcase",
		ConnectionString: "not-a-connection-string",
	}

	if _, err := storage.New(cfg, slog.Default()); err == nil {
		t.Fatal("expected error for invalid connection string, got nil")
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", storage.ErrNotFound, http.StatusNotFound},
		{"empty key", storage.ErrEmptyKey, http.StatusBadRequest},
		{"invalid key", storage.ErrInvalidKey, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("load mappings: %w", storage.ErrNotFound), http.StatusNotFound},
		{"unknown", fmt.Errorf("unexpected failure"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := storage.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKeyValidation(t *testing.T) {
	azure, err := storage.New(&storage.Config{
		ContainerName:    "clearcase",
		ConnectionString: azuriteConnString,
	}, slog.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	systems := map[string]storage.System{
		"azure":  azure,
		"memory": storage.NewMemory(slog.Default()),
	}

	keys := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"empty key", "", storage.ErrEmptyKey},
		{"path traversal", "categories/../secrets/key", storage.ErrInvalidKey},
		{"double dot in middle", "categories/..hidden/mappings.json", storage.ErrInvalidKey},
	}

	ctx := context.Background()

	for sysName, sys := range systems {
		for _, tt := range keys {
			t.Run(sysName+"/"+tt.name, func(t *testing.T) {
				if err := sys.Upload(ctx, tt.key, bytes.NewReader(nil), "application/json"); !errors.Is(err, tt.wantErr) {
					t.Errorf("Upload() error = %v, want %v", err, tt.wantErr)
				}
				if _, err := sys.Download(ctx, tt.key); !errors.Is(err, tt.wantErr) {
					t.Errorf("Download() error = %v, want %v", err, tt.wantErr)
				}
				if err := sys.Delete(ctx, tt.key); !errors.Is(err, tt.wantErr) {
					t.Errorf("Delete() error = %v, want %v", err, tt.wantErr)
				}
				if _, err := sys.Exists(ctx, tt.key); !errors.Is(err, tt.wantErr) {
					t.Errorf("Exists() error = %v, want %v", err, tt.wantErr)
				}
			})
		}
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	sys := storage.NewMemory(slog.Default())
	key := "categories/mappings.json"

	if ok, err := sys.Exists(ctx, key); err != nil || ok {
		t.Fatalf("Exists() before upload = %v, %v", ok, err)
	}
	if _, err := sys.Download(ctx, key); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Download() missing error = %v, want ErrNotFound", err)
	}

	body := []byte(`{"inc_0011223344556677":{"category":"Harassment"}}`)
	if err := sys.Upload(ctx, key, bytes.NewReader(body), "application/json"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	rc, err := sys.Download(ctx, key)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	got, _ := io.ReadAll(rc)
	rc.Close()
	if !bytes.Equal(got, body) {
		t.Errorf("Download() = %s, want %s", got, body)
	}

	if err := sys.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := sys.Delete(ctx, key); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
