package reference

import (
	"fmt"

	"cantor/internal/faults"
	"cantor/internal/fileutil"
	"cantor/internal/pitch"
)

// Track is a chroma sequence with one 12-bin vector per frame time.
type Track struct {
	Times  []float64   `json:"times"`
	Chroma [][]float64 `json:"chroma"`
}

// PitchTrack is the neural tracker's output for the isolated vocal.
type PitchTrack struct {
	Times      []float64 `json:"times"`
	F0         []float64 `json:"f0"`
	Confidence []float64 `json:"confidence"`
}

// Reference converts the track for the pitch package.
func (p PitchTrack) Reference() pitch.Reference {
	return pitch.Reference{Times: p.Times, F0: p.F0, Conf: p.Confidence}
}

// RMSTrack is frame-level amplitude of the reference vocal.
type RMSTrack struct {
	Times []float64 `json:"times"`
	RMS   []float64 `json:"rms"`
}

// VocalTrack is the reference recording's features.
type VocalTrack struct {
	Track
	Pitch PitchTrack `json:"pitch"`
}

// Inputs is the feature bundle consumed by Build. Tempo 0 means derive it
// from Beats; an empty KeyChroma means use the karaoke chroma.
type Inputs struct {
	SongID     string      `json:"song_id"`
	SampleRate int         `json:"sample_rate"`
	HopLength  int         `json:"hop_length"`
	Duration   float64     `json:"duration"`
	Karaoke    Track       `json:"karaoke"`
	Reference  VocalTrack  `json:"reference"`
	Beats      []float64   `json:"beats"`
	Tempo      float64     `json:"tempo"`
	Onsets     []float64   `json:"onsets"`
	KeyChroma  [][]float64 `json:"key_chroma"`
	Loudness   RMSTrack    `json:"loudness"`
}

// Validate checks the fields the pipeline cannot default.
func (in Inputs) Validate() error {
	if len(in.Karaoke.Times) == 0 {
		return faults.Contract("feature bundle", "karaoke track is empty")
	}
	if len(in.Reference.Times) == 0 {
		return faults.Contract("feature bundle", "reference track is empty")
	}
	if in.Duration < 0 {
		return faults.Contract("feature bundle", fmt.Sprintf("negative duration %g", in.Duration))
	}
	if err := in.Reference.Pitch.Reference().Validate(); err != nil {
		return err
	}
	return nil
}

// LoadInputs reads a feature bundle from disk.
func LoadInputs(path string) (*Inputs, error) {
	var in Inputs
	if err := fileutil.ReadJSON(path, &in); err != nil {
		return nil, fmt.Errorf("load feature bundle: %w", err)
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("load feature bundle: %w", err)
	}
	return &in, nil
}
