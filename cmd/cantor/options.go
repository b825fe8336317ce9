package main

import (
	"time"

	"cantor/internal/align"
	"cantor/internal/config"
	"cantor/internal/notes"
	"cantor/internal/phrase"
	"cantor/internal/pitch"
	"cantor/internal/reference"
	"cantor/internal/score"
	"cantor/internal/warp"
)

func builderOptions(cfg *config.Config) reference.Options {
	return reference.Options{
		Align: align.Options{
			BandWidth:   cfg.Alignment.BandWidth,
			LengthRatio: cfg.Alignment.LengthRatio,
			Downsample:  cfg.Alignment.Downsample,
			MaxCells:    cfg.Alignment.MaxDTWCells,
		},
		Warp: warp.FitOptions{
			Window:       cfg.Alignment.FitWindow,
			MergeSlope:   cfg.Alignment.MergeSlope,
			MergeOffset:  cfg.Alignment.MergeOffset,
			MergeQuality: cfg.Alignment.MergeQuality,
		},
		Clean: pitch.CleanOptions{
			ConfidenceThreshold: cfg.Pitch.ConfidenceThreshold,
			MedianWindow:        cfg.Pitch.MedianWindow,
			SavGolWindow:        cfg.Pitch.SavGolWindow,
			SavGolOrder:         cfg.Pitch.SavGolOrder,
		},
		Pitch: pitch.Options{
			FPS:   cfg.Pitch.FPS,
			Alpha: cfg.Pitch.SmoothingAlpha,
		},
		Notes: notes.Options{
			ConfidenceThreshold: cfg.Notes.ConfidenceThreshold,
			MinDuration:         cfg.Notes.MinDuration,
			TolCents:            cfg.Notes.TolCents,
		},
		Phrases: phrase.Options{
			MinLength:      cfg.Phrases.MinLength,
			BeatsPerPhrase: cfg.Phrases.BeatsPerPhrase,
		},
		BeatsPerBar:    cfg.Phrases.BeatsPerBar,
		LoudnessWindow: cfg.Phrases.LoudnessWindow,
	}
}

func scorerOptions(cfg *config.Config) score.Options {
	return score.Options{
		TolCents:    cfg.Scoring.TolCents,
		MaxSamples:  cfg.Scoring.MaxSamples,
		MaxCells:    cfg.Alignment.MaxDTWCells,
		Workers:     cfg.Scoring.Workers,
		Timeout:     time.Duration(cfg.Scoring.TimeoutSeconds) * time.Second,
		ChartPoints: cfg.Scoring.ChartPoints,
	}
}
