package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/graphorder/pkg/errors"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graphorder.toml")
	content := `
[rgb]
strategy = "approx-1"
iterations = 30
min_partition_size = 16
sort_leaves = false
parallelism = 8

[cache]
dir = "/tmp/graphorder-cache"
ttl_days = 7
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	cfg, loaded, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if loaded != path {
		t.Errorf("loaded path = %q, want %q", loaded, path)
	}
	if cfg.RGB.Strategy != "approx-1" {
		t.Errorf("Strategy = %q, want %q", cfg.RGB.Strategy, "approx-1")
	}
	if cfg.RGB.Iterations != 30 {
		t.Errorf("Iterations = %d, want 30", cfg.RGB.Iterations)
	}
	if cfg.RGB.MinPartitionSize != 16 {
		t.Errorf("MinPartitionSize = %d, want 16", cfg.RGB.MinPartitionSize)
	}
	if cfg.RGB.SortLeaves == nil || *cfg.RGB.SortLeaves {
		t.Error("SortLeaves should be explicitly false")
	}
	if cfg.RGB.DegreeSort != nil {
		t.Error("DegreeSort should be unset")
	}
	if cfg.Cache.Dir != "/tmp/graphorder-cache" {
		t.Errorf("Cache.Dir = %q, want %q", cfg.Cache.Dir, "/tmp/graphorder-cache")
	}
	if cfg.Cache.TTLDays != 7 {
		t.Errorf("Cache.TTLDays = %d, want 7", cfg.Cache.TTLDays)
	}
}

func TestLoadConfigMissingExplicit(t *testing.T) {
	_, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("loadConfig() error = nil, want FILE_NOT_FOUND")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[rgb\nbroken"), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	_, _, err := loadConfig(path)
	if err == nil {
		t.Fatal("loadConfig() error = nil, want INVALID_CONFIG")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error code = %v, want INVALID_CONFIG", errors.GetCode(err))
	}
}

func TestLoadConfigNoneFound(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, loaded, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if loaded != "" {
		t.Errorf("loaded path = %q, want empty", loaded)
	}
	if cfg.RGB.Strategy != "" || cfg.Cache.Dir != "" {
		t.Errorf("config should be zero, got %+v", cfg)
	}
}
