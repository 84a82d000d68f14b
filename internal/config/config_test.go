package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidatesAfterNormalize(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Sync.Days != 2 {
		t.Fatalf("expected default sync window of 2 days, got %d", cfg.Sync.Days)
	}
	if cfg.Sync.OnCollision != CollisionOverwrite {
		t.Fatalf("expected overwrite collision default, got %q", cfg.Sync.OnCollision)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if path == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Extractor.Workers != 4 {
		t.Fatalf("expected default workers, got %d", cfg.Extractor.Workers)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
staging_dir = "` + filepath.Join(dir, "staging") + `"
catalog_path = "` + filepath.Join(dir, "catalog.db") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[sync]
days = 7
on_collision = "rename"

[extractor]
workers = 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Sync.Days != 7 || cfg.Sync.OnCollision != CollisionRename {
		t.Fatalf("overrides not applied: %+v", cfg.Sync)
	}
	if cfg.Extractor.Workers != 2 {
		t.Fatalf("expected 2 workers, got %d", cfg.Extractor.Workers)
	}
	if cfg.Extractor.TimeoutSeconds != 30 {
		t.Fatalf("expected default timeout backfilled, got %d", cfg.Extractor.TimeoutSeconds)
	}
}

func TestValidateRejectsBadCollisionPolicy(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	cfg.Sync.OnCollision = "skip"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "on_collision") {
		t.Fatalf("expected collision policy error, got %v", err)
	}
}

func TestValidateRejectsZeroDayWindow(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	cfg.Sync.Days = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative sync window")
	}
}

func TestCreateSampleReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("stale = true\n"), 0o644); err != nil {
		t.Fatalf("seed stale file: %v", err)
	}
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample over existing file failed: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Sync.Days != 2 {
		t.Fatalf("sample should carry defaults, got days=%d", cfg.Sync.Days)
	}
}
