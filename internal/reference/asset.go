package reference

import (
	"fmt"
	"time"

	"cantor/internal/faults"
	"cantor/internal/features"
	"cantor/internal/fileutil"
	"cantor/internal/notes"
	"cantor/internal/phrase"
	"cantor/internal/timeseries"
	"cantor/internal/warp"
)

// Version is written to every asset and required on load.
const Version = "2.0"

// WarpMapping is the alignment and its fitted segments.
type WarpMapping struct {
	TK       []float64      `json:"tk"`
	TRef     []float64      `json:"tref"`
	Quality  float64        `json:"quality"`
	Method   string         `json:"method"`
	Segments []warp.Segment `json:"segments"`
}

// BuildConfig records the thresholds an asset was built with.
type BuildConfig struct {
	PitchConfThreshold float64 `json:"pitch_conf_threshold"`
	NoteToleranceCents float64 `json:"note_tolerance_cents"`
	MinNoteDuration    float64 `json:"min_note_duration"`
}

// Asset is the persisted reference for one song. All times are on the
// karaoke timeline.
type Asset struct {
	Version       string                   `json:"version"`
	SongID        string                   `json:"song_id"`
	FPS           float64                  `json:"fps"`
	Duration      float64                  `json:"duration"`
	SampleRate    int                      `json:"sample_rate"`
	HopLength     int                      `json:"hop_length"`
	BeatsK        []float64                `json:"beats_k"`
	DownbeatsK    []float64                `json:"downbeats_k"`
	Tempo         float64                  `json:"tempo"`
	PhrasesK      []phrase.Phrase          `json:"phrases_k"`
	Key           string                   `json:"key"`
	KeyConfidence float64                  `json:"key_confidence"`
	WarpT         WarpMapping              `json:"warp_T"`
	F0RefOnK      []notes.PitchSample      `json:"f0_ref_on_k"`
	NoteBins      []notes.Bin              `json:"note_bins"`
	LoudnessRef   []features.LoudnessPoint `json:"loudness_ref"`
	Config        BuildConfig              `json:"config"`
	Degradations  []faults.Degradation     `json:"degradations"`
	GeneratedAt   time.Time                `json:"generated_at"`
}

// Degraded reports whether any fail-soft substitution was made.
func (a *Asset) Degraded() bool { return len(a.Degradations) > 0 }

// PitchSeries returns the voiced reference contour used for scoring.
func (a *Asset) PitchSeries() timeseries.Series {
	s := timeseries.Series{
		Times:  make([]float64, len(a.F0RefOnK)),
		Values: make([]float64, len(a.F0RefOnK)),
	}
	for i, p := range a.F0RefOnK {
		s.Times[i] = p.T
		s.Values[i] = p.F0
	}
	return s
}

// Index rebuilds the segment index from the stored segments.
func (a *Asset) Index() (*warp.Index, error) {
	return warp.NewIndex(a.WarpT.Segments)
}

// Validate checks the invariants a scorer relies on.
func (a *Asset) Validate() error {
	if a.Version != Version {
		return faults.Contract("reference asset", fmt.Sprintf("unsupported version %q", a.Version))
	}
	if a.SongID == "" {
		return faults.Contract("reference asset", "missing song_id")
	}
	if err := phrase.Validate(a.PhrasesK); err != nil {
		return err
	}
	if len(a.WarpT.Segments) == 0 {
		return faults.Contract("reference asset", "no warp segments")
	}
	ps := a.PitchSeries()
	if err := timeseries.ValidateTimes(ps.Times); err != nil {
		return fmt.Errorf("reference asset f0_ref_on_k: %w", err)
	}
	if err := notes.Validate(a.NoteBins); err != nil {
		return err
	}
	return nil
}

// Save writes the asset atomically to path.
func Save(path string, a *Asset) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("save reference: %w", err)
	}
	if err := fileutil.WriteJSON(path, a); err != nil {
		return fmt.Errorf("save reference: %w", err)
	}
	return nil
}

// Load reads and validates an asset.
func Load(path string) (*Asset, error) {
	var a Asset
	if err := fileutil.ReadJSON(path, &a); err != nil {
		return nil, fmt.Errorf("load reference: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("load reference %s: %w", path, err)
	}
	return &a, nil
}
