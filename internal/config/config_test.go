package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Catalog != "src/api/json/catalog.json" {
		t.Errorf("expected default catalog path, got %q", cfg.Catalog)
	}
	if cfg.Out != "build" {
		t.Errorf("expected default out 'build', got %q", cfg.Out)
	}
	if cfg.SchemasDir != "schemas" {
		t.Errorf("expected default schemas dir 'schemas', got %q", cfg.SchemasDir)
	}
	if cfg.Source != "src/schemas/json" {
		t.Errorf("expected default source dir, got %q", cfg.Source)
	}
	if cfg.Concurrency != 10 {
		t.Errorf("expected default concurrency 10, got %d", cfg.Concurrency)
	}
	if cfg.Retry.Attempts != 4 {
		t.Errorf("expected default retry attempts 4, got %d", cfg.Retry.Attempts)
	}
	if cfg.Retry.Backoff != time.Second {
		t.Errorf("expected default retry backoff 1s, got %v", cfg.Retry.Backoff)
	}
	if cfg.Retry.MaxBackoff != 30*time.Second {
		t.Errorf("expected default retry max backoff 30s, got %v", cfg.Retry.MaxBackoff)
	}
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
catalog: data/catalog.json
out: dist
schemas_dir: json
concurrency: 20
progress: true
retry:
  attempts: 6
  backoff: 2s
  max_backoff: 60s
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.Catalog != "data/catalog.json" {
		t.Errorf("expected catalog 'data/catalog.json', got %q", cfg.Catalog)
	}
	if cfg.Out != "dist" {
		t.Errorf("expected out 'dist', got %q", cfg.Out)
	}
	if cfg.SchemasDir != "json" {
		t.Errorf("expected schemas dir 'json', got %q", cfg.SchemasDir)
	}
	if cfg.Source != "src/schemas/json" {
		t.Errorf("expected source to keep its default, got %q", cfg.Source)
	}
	if cfg.Concurrency != 20 {
		t.Errorf("expected concurrency 20, got %d", cfg.Concurrency)
	}
	if !cfg.Progress {
		t.Error("expected progress true")
	}
	if cfg.Retry.Attempts != 6 {
		t.Errorf("expected retry attempts 6, got %d", cfg.Retry.Attempts)
	}
	if cfg.Retry.Backoff != 2*time.Second {
		t.Errorf("expected retry backoff 2s, got %v", cfg.Retry.Backoff)
	}
	if cfg.Retry.MaxBackoff != 60*time.Second {
		t.Errorf("expected retry max backoff 60s, got %v", cfg.Retry.MaxBackoff)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadFromFileBadDuration(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("retry:\n  backoff: nonsense\n"), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	if _, err := LoadFromFile(configPath); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestMerge(t *testing.T) {
	cfg := Default()
	merged := cfg.Merge(Config{
		Out:         "elsewhere",
		Concurrency: 3,
		Retry:       RetryConfig{Attempts: 2},
	})

	if merged.Out != "elsewhere" {
		t.Errorf("expected out 'elsewhere', got %q", merged.Out)
	}
	if merged.Concurrency != 3 {
		t.Errorf("expected concurrency 3, got %d", merged.Concurrency)
	}
	if merged.Retry.Attempts != 2 {
		t.Errorf("expected retry attempts 2, got %d", merged.Retry.Attempts)
	}
	// Untouched fields keep their values.
	if merged.Catalog != cfg.Catalog {
		t.Errorf("expected catalog unchanged, got %q", merged.Catalog)
	}
	if merged.Retry.Backoff != cfg.Retry.Backoff {
		t.Errorf("expected retry backoff unchanged, got %v", merged.Retry.Backoff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"missing catalog", func(c *Config) { c.Catalog = "" }, true},
		{"missing out", func(c *Config) { c.Out = "" }, true},
		{"missing schemas dir", func(c *Config) { c.SchemasDir = "" }, true},
		{"schemas dir with slash", func(c *Config) { c.SchemasDir = "a/b" }, true},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, true},
		{"zero attempts", func(c *Config) { c.Retry.Attempts = 0 }, true},
		{"negative backoff", func(c *Config) { c.Retry.Backoff = -time.Second }, true},
		{"empty source is allowed", func(c *Config) { c.Source = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
