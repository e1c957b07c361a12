package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":3000" {
		t.Fatalf("expected addr :3000, got %q", cfg.Addr)
	}
	if cfg.Origins() != "http://localhost:5173" {
		t.Fatalf("unexpected origins %q", cfg.Origins())
	}
	if !cfg.InMemory() {
		t.Fatal("expected in-memory store by default")
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Fatalf("expected 5s shutdown timeout, got %s", cfg.ShutdownTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHESS_ADDR", ":8080")
	t.Setenv("CHESS_ALLOW_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("CHESS_DB_PATH", "/tmp/chess.db")
	t.Setenv("CHESS_SHUTDOWN_TIMEOUT", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DBPath != "/tmp/chess.db" || cfg.InMemory() {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Origins() != "https://a.example,https://b.example" {
		t.Fatalf("unexpected origins %q", cfg.Origins())
	}
	if cfg.ShutdownTimeout != 250*time.Millisecond {
		t.Fatalf("unexpected timeout %s", cfg.ShutdownTimeout)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"unparseable", "soon", "parse env:"},
		{"zero", "0s", "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CHESS_SHUTDOWN_TIMEOUT", tt.value)
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %v", tt.want, err)
			}
		})
	}
}
