package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains storage locations.
type Paths struct {
	DataDir     string `toml:"data_dir"`
	CatalogPath string `toml:"catalog_path"`
	LogDir      string `toml:"log_dir"`
}

// Alignment tunes chroma alignment and warp fitting.
type Alignment struct {
	BandWidth    float64 `toml:"band_width"`
	LengthRatio  float64 `toml:"length_ratio"`
	Downsample   int     `toml:"downsample"`
	FitWindow    int     `toml:"fit_window"`
	MaxDTWCells  int     `toml:"max_dtw_cells"`
	MergeSlope   float64 `toml:"merge_slope"`
	MergeOffset  float64 `toml:"merge_offset"`
	MergeQuality float64 `toml:"merge_quality"`
}

// Pitch tunes reference pitch cleanup and warping.
type Pitch struct {
	FPS                 float64 `toml:"fps"`
	SmoothingAlpha      float64 `toml:"smoothing_alpha"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	MedianWindow        int     `toml:"median_window"`
	SavGolWindow        int     `toml:"savgol_window"`
	SavGolOrder         int     `toml:"savgol_order"`
}

// Notes tunes note-bin segmentation.
type Notes struct {
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	MinDuration         float64 `toml:"min_duration"`
	TolCents            float64 `toml:"tolerance_cents"`
}

// Phrases tunes phrase detection and song-level features.
type Phrases struct {
	MinLength      float64 `toml:"min_length"`
	BeatsPerPhrase int     `toml:"beats_per_phrase"`
	BeatsPerBar    int     `toml:"beats_per_bar"`
	LoudnessWindow int     `toml:"loudness_window"`
}

// Scoring tunes the phrase scorer.
type Scoring struct {
	TolCents       float64 `toml:"tolerance_cents"`
	MaxSamples     int     `toml:"max_samples"`
	Workers        int     `toml:"workers"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	ChartPoints    int     `toml:"chart_points"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cantor.
//
// Configuration sections:
//   - Paths: song assets, catalog database, and logs
//   - Alignment: chroma DTW and warp fitting
//   - Pitch: reference pitch cleanup and karaoke-grid warping
//   - Notes: note-bin segmentation
//   - Phrases: phrase detection, downbeats, loudness smoothing
//   - Scoring: per-phrase scoring and report charts
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Alignment Alignment `toml:"alignment"`
	Pitch     Pitch     `toml:"pitch"`
	Notes     Notes     `toml:"notes"`
	Phrases   Phrases   `toml:"phrases"`
	Scoring   Scoring   `toml:"scoring"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cantor.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, filepath.Dir(c.Paths.CatalogPath)} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SongDir returns the directory holding a song's assets.
func (c *Config) SongDir(slug string) string {
	return filepath.Join(c.Paths.DataDir, "songs", slug)
}

// RunDir returns the directory holding a song's scoring results.
func (c *Config) RunDir(slug string) string {
	return filepath.Join(c.SongDir(slug), "runs")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
