package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAlignment(); err != nil {
		return err
	}
	if err := c.validatePitch(); err != nil {
		return err
	}
	if err := c.validateNotes(); err != nil {
		return err
	}
	if err := c.validatePhrases(); err != nil {
		return err
	}
	if err := c.validateScoring(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAlignment() error {
	a := c.Alignment
	if a.BandWidth <= 0 || a.BandWidth > 1 {
		return errors.New("alignment.band_width must be in (0, 1]")
	}
	if a.LengthRatio <= 0 || a.LengthRatio >= 1 {
		return errors.New("alignment.length_ratio must be in (0, 1)")
	}
	if a.Downsample < 1 {
		return errors.New("alignment.downsample must be at least 1")
	}
	if a.FitWindow < 2 {
		return errors.New("alignment.fit_window must be at least 2")
	}
	if a.MaxDTWCells < 0 {
		return errors.New("alignment.max_dtw_cells must be non-negative")
	}
	if a.MergeQuality < 0 || a.MergeQuality > 1 {
		return errors.New("alignment.merge_quality must be between 0 and 1")
	}
	return nil
}

func (c *Config) validatePitch() error {
	p := c.Pitch
	if p.FPS <= 0 {
		return errors.New("pitch.fps must be positive")
	}
	if p.SmoothingAlpha <= 0 || p.SmoothingAlpha > 1 {
		return errors.New("pitch.smoothing_alpha must be in (0, 1]")
	}
	if p.ConfidenceThreshold < 0 || p.ConfidenceThreshold > 1 {
		return errors.New("pitch.confidence_threshold must be between 0 and 1")
	}
	if p.MedianWindow < 1 || p.MedianWindow%2 == 0 {
		return errors.New("pitch.median_window must be a positive odd number")
	}
	if p.SavGolWindow < 1 || p.SavGolWindow%2 == 0 {
		return errors.New("pitch.savgol_window must be a positive odd number")
	}
	if p.SavGolOrder < 0 || p.SavGolOrder >= p.SavGolWindow {
		return fmt.Errorf("pitch.savgol_order must be between 0 and %d", p.SavGolWindow-1)
	}
	return nil
}

func (c *Config) validateNotes() error {
	n := c.Notes
	if n.ConfidenceThreshold < 0 || n.ConfidenceThreshold > 1 {
		return errors.New("notes.confidence_threshold must be between 0 and 1")
	}
	if n.MinDuration <= 0 {
		return errors.New("notes.min_duration must be positive")
	}
	if n.TolCents <= 0 {
		return errors.New("notes.tolerance_cents must be positive")
	}
	return nil
}

func (c *Config) validatePhrases() error {
	p := c.Phrases
	if p.MinLength <= 0 {
		return errors.New("phrases.min_length must be positive")
	}
	if p.BeatsPerPhrase < 1 || p.BeatsPerBar < 1 {
		return errors.New("phrases.beats_per_phrase and phrases.beats_per_bar must be at least 1")
	}
	if p.LoudnessWindow < 1 || p.LoudnessWindow%2 == 0 {
		return errors.New("phrases.loudness_window must be a positive odd number")
	}
	return nil
}

func (c *Config) validateScoring() error {
	s := c.Scoring
	if s.TolCents <= 0 {
		return errors.New("scoring.tolerance_cents must be positive")
	}
	if s.MaxSamples < 3 {
		return errors.New("scoring.max_samples must be at least 3")
	}
	if s.Workers < 0 {
		return errors.New("scoring.workers must be non-negative (0 uses all CPUs)")
	}
	if s.TimeoutSeconds < 0 {
		return errors.New("scoring.timeout_seconds must be non-negative")
	}
	if s.ChartPoints < 0 {
		return errors.New("scoring.chart_points must be non-negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
