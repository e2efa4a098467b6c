package cache_test

import (
	"log/slog"
	"testing"

	"github.com/JaimeStill/clearcase/pkg/cache"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
		addr    string
		db      int
	}{
		{"default port", "redis://localhost:6379", false, "localhost:6379", 0},
		{"database index", "redis://cache.internal:6380/2", false, "cache.internal:6380", 2},
		{"bad scheme", "http://localhost:6379", true, "", 0},
		{"bad database", "redis://localhost:6379/x", true, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, err := cache.New(tt.url, slog.Default())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			opts := sys.Client().Options()
			if opts.Addr != tt.addr {
				t.Errorf("addr = %s, want %s", opts.Addr, tt.addr)
			}
			if opts.DB != tt.db {
				t.Errorf("db = %d, want %d", opts.DB, tt.db)
			}
		})
	}
}
