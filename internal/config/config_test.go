package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anandk/placement/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("load default config: %v", err)
	}
	if cfg.Addr == "" || cfg.DatabasePath == "" {
		t.Fatalf("expected defaults populated, got %+v", cfg)
	}
	if cfg.SessionTimeout != 30*time.Minute {
		t.Fatalf("expected 30m session timeout, got %v", cfg.SessionTimeout)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("expected 5m cache ttl, got %v", cfg.CacheTTL)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("PLACEMENT_DATABASE_PATH", "/tmp/alt.db")
	t.Setenv("PLACEMENT_NOTIFY_WORKERS", "7")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DatabasePath != "/tmp/alt.db" {
		t.Fatalf("env override ignored, got %q", cfg.DatabasePath)
	}
	if cfg.NotifyWorkers != 7 {
		t.Fatalf("expected 7 workers, got %d", cfg.NotifyWorkers)
	}
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	body := "addr: \":9090\"\ndatabase_path: \"college.db\"\nreports_dir: \"out\"\n"
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadConfig(p)
	if err != nil {
		t.Fatalf("load yaml config: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.DatabasePath != "college.db" || cfg.ReportsDir != "out" {
		t.Fatalf("yaml values not applied: %+v", cfg)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := config.LoadConfig("does-not-exist.yaml"); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
