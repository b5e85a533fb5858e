package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.TickMS != 100 {
		t.Errorf("TickMS = %d, want default 100", cfg.TickMS)
	}
	if cfg.Socket != "" || cfg.DB != "" {
		t.Errorf("cfg = %+v, want empty paths", cfg)
	}
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mull.yaml")
	data := `
socket: /run/agent.sock
db: /var/lib/mull/archive.sqlite
tick_ms: 250
theme:
  accent: "#00D7FF"
  timer: "#FF87FF"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Socket != "/run/agent.sock" {
		t.Errorf("Socket = %q", cfg.Socket)
	}
	if cfg.DB != "/var/lib/mull/archive.sqlite" {
		t.Errorf("DB = %q", cfg.DB)
	}
	if cfg.TickMS != 250 {
		t.Errorf("TickMS = %d", cfg.TickMS)
	}
	if cfg.Theme.Accent != "#00D7FF" || cfg.Theme.Timer != "#FF87FF" {
		t.Errorf("Theme = %+v", cfg.Theme)
	}
	if cfg.Theme.Dim != "" {
		t.Errorf("Dim = %q, want unset", cfg.Theme.Dim)
	}
}

func TestLoadMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mull.yaml")
	if err := os.WriteFile(path, []byte("socket: [unterminated"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestTickPeriodClamps(t *testing.T) {
	cases := []struct {
		ms   int
		want time.Duration
	}{
		{0, 50 * time.Millisecond},
		{10, 50 * time.Millisecond},
		{100, 100 * time.Millisecond},
		{999, 999 * time.Millisecond},
		{5000, time.Second},
	}
	for _, c := range cases {
		cfg := Config{TickMS: c.ms}
		if got := cfg.TickPeriod(); got != c.want {
			t.Errorf("TickPeriod(%d) = %v, want %v", c.ms, got, c.want)
		}
	}
}
