package features

import (
	"fmt"

	"cantor/internal/faults"
	"cantor/internal/timeseries"
)

const (
	DefaultBeatsPerBar = 4
	DefaultTempo       = 120.0
)

// Downbeats keeps every beatsPerBar-th beat starting with the first.
func Downbeats(beats []float64, beatsPerBar int) []float64 {
	if beatsPerBar <= 0 {
		beatsPerBar = DefaultBeatsPerBar
	}
	out := make([]float64, 0, len(beats)/beatsPerBar+1)
	for i := 0; i < len(beats); i += beatsPerBar {
		out = append(out, beats[i])
	}
	return out
}

// EstimateTempo returns beats per minute from the median inter-beat interval.
func EstimateTempo(beats []float64) (float64, error) {
	if len(beats) < 2 {
		return 0, faults.Wrap(faults.ErrUpstreamFeature, "tempo", "estimate", "fewer than two beats", nil)
	}
	if err := timeseries.ValidateTimes(beats); err != nil {
		return 0, fmt.Errorf("tempo: %w", err)
	}
	return 60 / timeseries.Median(timeseries.Diff(beats)), nil
}
