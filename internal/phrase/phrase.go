// Package phrase models the scoring units of a song and derives them from
// onset or beat times.
package phrase

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"cantor/internal/faults"
	"cantor/internal/timeseries"
)

const (
	DefaultMinLength      = 2.0
	DefaultBeatsPerPhrase = 4
	// fallbackBeatInterval is assumed when fewer than two beats are known.
	fallbackBeatInterval = 2.0
)

// Phrase is a span of the karaoke timeline scored as one unit.
type Phrase struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns End - Start.
func (p Phrase) Duration() float64 { return p.End - p.Start }

// Validate requires a non-empty, ordered, non-overlapping list of phrases
// with positive length.
func Validate(phrases []Phrase) error {
	if len(phrases) == 0 {
		return faults.Contract("phrases", "empty phrase list")
	}
	for i, p := range phrases {
		if !(p.End > p.Start) {
			return faults.Contract("phrases", fmt.Sprintf("phrase %d: end %g not after start %g", p.ID, p.End, p.Start))
		}
		if i > 0 && p.Start < phrases[i-1].End {
			return faults.Contract("phrases", fmt.Sprintf("phrase %d overlaps phrase %d", p.ID, phrases[i-1].ID))
		}
	}
	return nil
}

// Options tunes Detect. Zero values take the defaults.
type Options struct {
	MinLength      float64
	BeatsPerPhrase int
}

func (o Options) withDefaults() Options {
	if o.MinLength <= 0 {
		o.MinLength = DefaultMinLength
	}
	if o.BeatsPerPhrase <= 0 {
		o.BeatsPerPhrase = DefaultBeatsPerPhrase
	}
	return o
}

// Detect builds phrases from onsets, falling back to fixed beat groups when
// fewer than two onsets exist.
func Detect(onsets, beats []float64, duration float64, opts Options) ([]Phrase, error) {
	opts = opts.withDefaults()
	if len(onsets) >= 2 {
		return FromOnsets(onsets, duration, opts.MinLength)
	}
	return FromBeats(beats, duration, opts.BeatsPerPhrase, opts.MinLength)
}

// FromOnsets turns each gap between consecutive onsets longer than
// minLength into a phrase, plus a closing phrase from the last onset to
// duration. IDs are sequential from 1.
func FromOnsets(onsets []float64, duration, minLength float64) ([]Phrase, error) {
	if err := timeseries.ValidateTimes(onsets); err != nil {
		return nil, fmt.Errorf("phrase onsets: %w", err)
	}
	var out []Phrase
	add := func(start, end float64) {
		if end-start > minLength {
			out = append(out, Phrase{ID: len(out) + 1, Start: start, End: end})
		}
	}
	for i := 1; i < len(onsets); i++ {
		add(onsets[i-1], onsets[i])
	}
	if len(onsets) > 0 {
		add(onsets[len(onsets)-1], duration)
	}
	return out, nil
}

// FromBeats groups beatsPerPhrase mean beat intervals into each phrase,
// starting at the first beat (or 0) and stopping at duration. When a group
// is no longer than minLength it is widened by whole groups until it is.
// A trailing remainder no longer than minLength is dropped.
func FromBeats(beats []float64, duration float64, beatsPerPhrase int, minLength float64) ([]Phrase, error) {
	if err := timeseries.ValidateTimes(beats); err != nil {
		return nil, fmt.Errorf("phrase beats: %w", err)
	}
	if beatsPerPhrase <= 0 {
		return nil, faults.Contract("phrase beats", "beats per phrase must be positive")
	}
	interval := fallbackBeatInterval
	if len(beats) >= 2 {
		interval = stat.Mean(timeseries.Diff(beats), nil)
	}
	group := interval * float64(beatsPerPhrase)
	span := group
	if span <= minLength {
		span = group * (math.Floor(minLength/group) + 1)
	}

	start := 0.0
	if len(beats) > 0 {
		start = beats[0]
	}
	var out []Phrase
	for ; start < duration; start += span {
		end := min(start+span, duration)
		if end-start <= minLength {
			break
		}
		out = append(out, Phrase{ID: len(out) + 1, Start: start, End: end})
	}
	return out, nil
}
