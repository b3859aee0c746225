package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vibes/internal/api/memory"
	"vibes/internal/api/postgrest"
	"vibes/internal/config"
	"vibes/internal/log"
)

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{DataBackend: "memory", DataDir: "seed", APITimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Type != MemoryBackend || cfg.DataDirectory != "seed" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sqlite"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestNewMemory(t *testing.T) {
	b, err := New(context.Background(), Config{Type: MemoryBackend, DataDirectory: t.TempDir()}, log.Discard())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := b.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", b)
	}
}

func TestNewPostgRESTToleratesUnreachableAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	b, err := New(context.Background(), Config{Type: PostgRESTBackend, BaseURL: srv.URL, Timeout: time.Second}, log.Discard())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := b.(*postgrest.Client); !ok {
		t.Fatalf("expected postgrest client, got %T", b)
	}
	if err := b.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping error from a 503 API")
	}
}

func TestValidateRequiresBaseURL(t *testing.T) {
	if err := (Config{Type: PostgRESTBackend}).Validate(); err == nil {
		t.Fatalf("expected error without base URL")
	}
}
