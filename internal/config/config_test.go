package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"cantor/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.LogLevelEnv, "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "cantor", "config.toml"); resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "cantor"); cfg.Paths.DataDir != want {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, want)
	}
	if !filepath.IsAbs(cfg.Paths.CatalogPath) {
		t.Fatalf("expected absolute catalog path, got %q", cfg.Paths.CatalogPath)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Alignment.FitWindow != 200 || cfg.Scoring.TolCents != 50 {
		t.Fatalf("unexpected pipeline defaults: %+v %+v", cfg.Alignment, cfg.Scoring)
	}
}

func TestLoadCustomConfig(t *testing.T) {
	t.Setenv(config.LogLevelEnv, "")
	dir := t.TempDir()
	path := filepath.Join(dir, "cantor.toml")
	body := `
[paths]
data_dir = "` + filepath.ToSlash(filepath.Join(dir, "data")) + `"

[scoring]
tolerance_cents = 35
workers = 3

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution %q exists=%v", resolved, exists)
	}
	if cfg.Scoring.TolCents != 35 || cfg.Scoring.Workers != 3 {
		t.Fatalf("scoring not applied: %+v", cfg.Scoring)
	}
	if cfg.Scoring.MaxSamples != 2000 {
		t.Fatalf("unset fields keep defaults, got max_samples=%d", cfg.Scoring.MaxSamples)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
	if want := filepath.Join(dir, "data", "catalog.db"); cfg.Paths.CatalogPath != want {
		t.Fatalf("catalog path = %q, want %q", cfg.Paths.CatalogPath, want)
	}
}

func TestLogLevelEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.LogLevelEnv, "warn")
	t.Chdir(t.TempDir())

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected env override, got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cantor.toml")
	if err := os.WriteFile(path, []byte("[scoring]\ntolerence_cents = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"band width", func(c *config.Config) { c.Alignment.BandWidth = 0 }, "alignment.band_width"},
		{"even median", func(c *config.Config) { c.Pitch.MedianWindow = 4 }, "pitch.median_window"},
		{"savgol order", func(c *config.Config) { c.Pitch.SavGolOrder = 11 }, "pitch.savgol_order"},
		{"note tolerance", func(c *config.Config) { c.Notes.TolCents = 0 }, "notes.tolerance_cents"},
		{"loudness window", func(c *config.Config) { c.Phrases.LoudnessWindow = 20 }, "phrases.loudness_window"},
		{"workers", func(c *config.Config) { c.Scoring.Workers = -1 }, "scoring.workers"},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleMatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var sample config.Config
	if err := toml.Unmarshal(data, &sample); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	def := config.Default()
	if sample.Alignment != def.Alignment || sample.Pitch != def.Pitch || sample.Notes != def.Notes ||
		sample.Phrases != def.Phrases || sample.Scoring != def.Scoring || sample.Logging != def.Logging {
		t.Fatalf("sample config drifted from defaults:\n%+v\n%+v", sample, def)
	}
}

func TestRunDirNestsUnderSongDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = "/data"
	if got := cfg.RunDir("my-song"); got != filepath.Join("/data", "songs", "my-song", "runs") {
		t.Fatalf("RunDir = %q", got)
	}
}
