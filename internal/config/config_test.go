package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"photowall/internal/config"
	"photowall/internal/services"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PHOTOWALL_NTFY_TOPIC", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantOutput := filepath.Join(tempHome, "Pictures", "photowall")
	if cfg.Paths.OutputDir != wantOutput {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, wantOutput)
	}
	if cfg.Paths.LogDir != "" {
		t.Fatalf("expected empty log dir, got %q", cfg.Paths.LogDir)
	}
	if cfg.Grid.Rows != 3 || cfg.Grid.Columns != 3 {
		t.Fatalf("unexpected grid shape: %dx%d", cfg.Grid.Rows, cfg.Grid.Columns)
	}
	if cfg.Export.CompressionLevel != 9 {
		t.Fatalf("expected maximum compression by default, got %d", cfg.Export.CompressionLevel)
	}
	if cfg.Quality() != 0.8 {
		t.Fatalf("expected default quality 0.8, got %v", cfg.Quality())
	}
	if cfg.Sort.Key != "nameAsc" {
		t.Fatalf("unexpected sort key: %q", cfg.Sort.Key)
	}
	if cfg.RenderTimeout() != 0 {
		t.Fatalf("expected render deadline disabled, got %v", cfg.RenderTimeout())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Paths.OutputDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected output directory to exist: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "photowall.toml")

	type payload struct {
		Grid struct {
			Rows    int    `toml:"rows"`
			Columns int    `toml:"columns"`
			Align   string `toml:"alignment"`
		} `toml:"grid"`
		Export struct {
			Format               string `toml:"format"`
			Threshold            int    `toml:"threshold"`
			RenderTimeoutSeconds int    `toml:"render_timeout_seconds"`
		} `toml:"export"`
		Paths struct {
			OutputDir string `toml:"output_dir"`
		} `toml:"paths"`
	}
	custom := payload{}
	custom.Grid.Rows = 2
	custom.Grid.Columns = 4
	custom.Grid.Align = " Start "
	custom.Export.Format = ".JPG"
	custom.Export.Threshold = 1
	custom.Export.RenderTimeoutSeconds = 30
	custom.Paths.OutputDir = filepath.Join(tempDir, "out")
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Grid.Rows != 2 || cfg.Grid.Columns != 4 {
		t.Fatalf("expected 2x4 grid, got %dx%d", cfg.Grid.Rows, cfg.Grid.Columns)
	}
	if cfg.Grid.Alignment != "start" {
		t.Fatalf("expected normalized alignment, got %q", cfg.Grid.Alignment)
	}
	if cfg.Export.Format != "jpg" {
		t.Fatalf("expected normalized format jpg, got %q", cfg.Export.Format)
	}
	if cfg.Export.Threshold != 1 {
		t.Fatalf("expected threshold 1, got %d", cfg.Export.Threshold)
	}
	if cfg.RenderTimeout() != 30*time.Second {
		t.Fatalf("expected 30s render deadline, got %v", cfg.RenderTimeout())
	}
	if cfg.Grid.MaxWidth != config.Default().Grid.MaxWidth {
		t.Fatalf("expected default max width to survive partial file, got %d", cfg.Grid.MaxWidth)
	}
}

func TestEnvOverridesNtfyTopic(t *testing.T) {
	t.Setenv("PHOTOWALL_NTFY_TOPIC", "https://ntfy.example/wall")
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.example/wall" {
		t.Fatalf("expected env topic, got %q", cfg.Notifications.NtfyTopic)
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero rows", func(c *config.Config) { c.Grid.Rows = 0 }, "grid.rows"},
		{"negative columns", func(c *config.Config) { c.Grid.Columns = -2 }, "grid.columns"},
		{"negative gap", func(c *config.Config) { c.Grid.RowGap = -1 }, "grid.row_gap"},
		{"narrow width", func(c *config.Config) { c.Grid.MaxWidth = 30 }, "grid.max_width"},
		{"capacity overflow", func(c *config.Config) { c.Grid.Rows = 1 << 62 }, "overflows"},
		{"quality range", func(c *config.Config) { c.Export.Quality = 101 }, "export.quality"},
		{"negative threshold", func(c *config.Config) { c.Export.Threshold = -1 }, "export.threshold"},
		{"compression range", func(c *config.Config) { c.Export.CompressionLevel = 10 }, "export.compression_level"},
		{"workers", func(c *config.Config) { c.Export.Workers = -1 }, "export.workers"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"ntfy url", func(c *config.Config) { c.Notifications.NtfyTopic = "my-topic" }, "notifications.ntfy_topic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("expected configuration error marker, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Export.Threshold != config.Default().Export.Threshold {
		t.Fatalf("sample threshold %d differs from default %d", cfg.Export.Threshold, config.Default().Export.Threshold)
	}
}
