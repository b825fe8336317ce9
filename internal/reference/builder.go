package reference

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cantor/internal/align"
	"cantor/internal/faults"
	"cantor/internal/features"
	"cantor/internal/logging"
	"cantor/internal/notes"
	"cantor/internal/phrase"
	"cantor/internal/pitch"
	"cantor/internal/warp"
)

// Options collects the stage options used by Build.
type Options struct {
	Align          align.Options
	Warp           warp.FitOptions
	Clean          pitch.CleanOptions
	Pitch          pitch.Options
	Notes          notes.Options
	Phrases        phrase.Options
	BeatsPerBar    int
	LoudnessWindow int
}

// Builder turns feature bundles into reference assets.
type Builder struct {
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

// NewBuilder constructs a Builder.
func NewBuilder(opts Options, logger *slog.Logger) *Builder {
	return &Builder{
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "reference"),
		now:    time.Now,
	}
}

// Build runs the full pipeline. Contract violations abort the build;
// missing or degenerate upstream features are substituted and recorded.
func (b *Builder) Build(ctx context.Context, in *Inputs) (*Asset, error) {
	if in == nil {
		return nil, faults.Contract("reference build", "nil feature bundle")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	logger := b.logger.With(logging.String(logging.FieldSongID, in.SongID))
	duration := in.Duration
	if duration == 0 {
		duration = in.Karaoke.Times[len(in.Karaoke.Times)-1]
	}
	var degradations []faults.Degradation

	stage := func(name string) error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("reference build %s: %w", name, err)
		}
		logger.Debug("stage started", logging.String(logging.FieldStage, name))
		return nil
	}

	if err := stage("align"); err != nil {
		return nil, err
	}
	aligned, err := align.New(b.opts.Align, logger).Align(in.Karaoke.Chroma, in.Reference.Chroma, in.Karaoke.Times, in.Reference.Times)
	if err != nil {
		return nil, err
	}

	if err := stage("warp"); err != nil {
		return nil, err
	}
	segments, err := warp.Fit(aligned.TK, aligned.TRef, b.opts.Warp)
	if err != nil {
		return nil, err
	}
	idx, err := warp.NewIndex(segments)
	if err != nil {
		return nil, err
	}

	if err := stage("pitch"); err != nil {
		return nil, err
	}
	cleaned, err := pitch.Clean(in.Reference.Pitch.Reference(), b.opts.Clean)
	if err != nil {
		return nil, err
	}
	contour, err := pitch.Warp(cleaned, idx, duration, b.opts.Pitch)
	if err != nil {
		return nil, err
	}
	if contour.Uncovered > 0 {
		degradations = append(degradations, faults.Degradation{
			Kind:   faults.KindUncoveredTime,
			Stage:  "pitch",
			Detail: "grid frames mapped through the nearest warp segment",
			Count:  contour.Uncovered,
		})
	}

	if err := stage("notes"); err != nil {
		return nil, err
	}
	bins, err := notes.Segment(contour.Times, contour.F0, contour.Conf, b.opts.Notes)
	if err != nil {
		return nil, err
	}

	if err := stage("features"); err != nil {
		return nil, err
	}
	phrases, err := phrase.Detect(in.Onsets, in.Beats, duration, b.opts.Phrases)
	if err != nil {
		return nil, err
	}
	if len(phrases) == 0 && duration > 0 {
		phrases = []phrase.Phrase{{ID: 1, Start: 0, End: duration}}
		degradations = append(degradations, faults.Degradation{
			Kind:   faults.KindInsufficientData,
			Stage:  "phrases",
			Detail: "no phrase boundaries detected; scoring the song as one phrase",
		})
	}

	tempo := in.Tempo
	if tempo <= 0 {
		tempo, err = features.EstimateTempo(in.Beats)
		if err != nil {
			tempo = features.DefaultTempo
			degradations = append(degradations, upstream(logger, "tempo", err, fmt.Sprintf("using default tempo %.0f bpm", tempo)))
		}
	}

	keyChroma := in.KeyChroma
	if len(keyChroma) == 0 {
		keyChroma = in.Karaoke.Chroma
	}
	key, err := features.EstimateKey(keyChroma)
	if err != nil {
		key = features.DefaultKey
		degradations = append(degradations, upstream(logger, "key", err, "using default key "+key.String()))
	}

	var loudness []features.LoudnessPoint
	if len(in.Loudness.Times) > 0 {
		loudness, err = features.LoudnessProfile(in.Loudness.Times, in.Loudness.RMS, b.opts.LoudnessWindow)
		if err != nil {
			return nil, err
		}
	} else {
		degradations = append(degradations, upstream(logger, "loudness",
			faults.Wrap(faults.ErrUpstreamFeature, "loudness", "", "no RMS frames", nil), "loudness curve omitted"))
	}

	noteOpts := b.opts.Notes.WithDefaults()
	asset := &Asset{
		Version:       Version,
		SongID:        in.SongID,
		FPS:           b.opts.Pitch.WithDefaults().FPS,
		Duration:      duration,
		SampleRate:    in.SampleRate,
		HopLength:     in.HopLength,
		BeatsK:        nonNil(in.Beats),
		DownbeatsK:    features.Downbeats(in.Beats, b.opts.BeatsPerBar),
		Tempo:         tempo,
		PhrasesK:      phrases,
		Key:           key.String(),
		KeyConfidence: key.Confidence,
		WarpT: WarpMapping{
			TK:       aligned.TK,
			TRef:     aligned.TRef,
			Quality:  aligned.Quality,
			Method:   string(aligned.Method),
			Segments: idx.Segments(),
		},
		F0RefOnK:    notes.Sparse(contour.Times, contour.F0, contour.Conf),
		NoteBins:    nonNilBins(bins),
		LoudnessRef: loudness,
		Config: BuildConfig{
			PitchConfThreshold: noteOpts.ConfidenceThreshold,
			NoteToleranceCents: noteOpts.TolCents,
			MinNoteDuration:    noteOpts.MinDuration,
		},
		Degradations: degradations,
		GeneratedAt:  b.now().UTC(),
	}
	if asset.LoudnessRef == nil {
		asset.LoudnessRef = []features.LoudnessPoint{}
	}
	if asset.Degradations == nil {
		asset.Degradations = []faults.Degradation{}
	}

	logger.Info("reference built",
		logging.String("align_method", asset.WarpT.Method),
		logging.Int("segments", len(asset.WarpT.Segments)),
		logging.Int("note_bins", len(asset.NoteBins)),
		logging.Int("phrases", len(asset.PhrasesK)),
		logging.Int("degradations", len(asset.Degradations)),
	)
	return asset, nil
}

func upstream(logger *slog.Logger, stage string, err error, impact string) faults.Degradation {
	logging.WarnWithContext(logger, "upstream feature unavailable", "upstream_feature",
		logging.String(logging.FieldStage, stage),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "re-run feature extraction for "+stage),
		logging.String(logging.FieldImpact, impact),
	)
	return faults.Degradation{Kind: faults.KindUpstreamFeature, Stage: stage, Detail: err.Error() + "; " + impact}
}

func nonNil(v []float64) []float64 {
	if v == nil {
		return []float64{}
	}
	return v
}

func nonNilBins(v []notes.Bin) []notes.Bin {
	if v == nil {
		return []notes.Bin{}
	}
	return v
}
