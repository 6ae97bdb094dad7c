package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/pagenav/internal/nav"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != "8090" {
		t.Errorf("expected default port %q, got %q", "8090", cfg.Port)
	}
	if cfg.ClassPrefix != "usa" {
		t.Errorf("expected default class_prefix %q, got %q", "usa", cfg.ClassPrefix)
	}
	if cfg.Scope != "document" {
		t.Errorf("expected default scope %q, got %q", "document", cfg.Scope)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pagenav.yml")

	original := DefaultConfig()
	original.ClassPrefix = "gov"
	original.Title = "Contents"
	original.HeadingLevel = "h2"
	original.Scope = "panel"
	original.WorkerCount = 2
	original.JobTTL = 15 * time.Minute

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.ClassPrefix != "gov" {
		t.Errorf("class_prefix: got %q, want %q", loaded.ClassPrefix, "gov")
	}
	if loaded.Title != "Contents" {
		t.Errorf("title: got %q, want %q", loaded.Title, "Contents")
	}
	if loaded.HeadingLevel != "h2" {
		t.Errorf("heading_level: got %q, want %q", loaded.HeadingLevel, "h2")
	}
	if loaded.Scope != "panel" {
		t.Errorf("scope: got %q, want %q", loaded.Scope, "panel")
	}
	if loaded.WorkerCount != 2 {
		t.Errorf("worker_count: got %d, want %d", loaded.WorkerCount, 2)
	}
	if loaded.JobTTL != 15*time.Minute {
		t.Errorf("job_ttl: got %s, want %s", loaded.JobTTL, 15*time.Minute)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("expected default port, got %q", cfg.Port)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("port: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PAGENAV_PORT", "9999")
	t.Setenv("PAGENAV_CLASS_PREFIX", "gov")
	t.Setenv("PAGENAV_WORKER_COUNT", "7")
	t.Setenv("PAGENAV_JOB_TTL", "30m")
	t.Setenv("PAGENAV_SANITIZE", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9999" {
		t.Errorf("port: got %q, want %q", cfg.Port, "9999")
	}
	if cfg.ClassPrefix != "gov" {
		t.Errorf("class_prefix: got %q, want %q", cfg.ClassPrefix, "gov")
	}
	if cfg.WorkerCount != 7 {
		t.Errorf("worker_count: got %d, want %d", cfg.WorkerCount, 7)
	}
	if cfg.JobTTL != 30*time.Minute {
		t.Errorf("job_ttl: got %s, want %s", cfg.JobTTL, 30*time.Minute)
	}
	if cfg.Sanitize {
		t.Error("sanitize: got true, want false")
	}
}

func TestLoadClampsNonPositive(t *testing.T) {
	t.Setenv("PAGENAV_WORKER_COUNT", "0")
	t.Setenv("PAGENAV_MAX_QUEUE_SIZE", "-1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("worker_count: got %d, want %d", cfg.WorkerCount, 4)
	}
	if cfg.MaxQueueSize != 100 {
		t.Errorf("max_queue_size: got %d, want %d", cfg.MaxQueueSize, 100)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"empty port", func(c *Config) { c.Port = "" }, true},
		{"empty prefix", func(c *Config) { c.ClassPrefix = "" }, true},
		{"bad heading level", func(c *Config) { c.HeadingLevel = "div" }, true},
		{"same ranks", func(c *Config) { c.SubRank = "h2" }, true},
		{"bad scope", func(c *Config) { c.Scope = "galaxy" }, true},
		{"panel scope", func(c *Config) { c.Scope = "panel" }, false},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		err := cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: expected error=%v, got %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestNavConfigAndShell(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClassPrefix = "gov"
	cfg.Scope = "panel"

	nc := cfg.NavConfig()
	if nc.Prefix != "gov" || nc.Scope != nav.ScopePanel {
		t.Errorf("expected gov/panel nav config, got %+v", nc)
	}

	shell := cfg.Shell()
	if shell.NavTitle != "" {
		t.Errorf("expected no data-title for the default title, got %q", shell.NavTitle)
	}
	if shell.NavClass() != "gov-in-page-nav" {
		t.Errorf("expected nav class %q, got %q", "gov-in-page-nav", shell.NavClass())
	}

	cfg.Title = "Contents"
	if got := cfg.Shell().NavTitle; got != "Contents" {
		t.Errorf("expected data-title %q, got %q", "Contents", got)
	}
}
