package features

import (
	"fmt"
	"math"

	"cantor/internal/dsp"
	"cantor/internal/timeseries"
)

const (
	DefaultLoudnessWindow = 21
	loudnessOrder         = 3
	amplitudeFloor        = 1e-5
	dynamicRangeDB        = 80
)

// LoudnessPoint is one sample of the relative loudness curve. The LUFS key is
// kept for document compatibility; values are dB relative to the loudest
// frame, not integrated loudness.
type LoudnessPoint struct {
	T    float64 `json:"t"`
	LUFS float64 `json:"LUFS"`
}

// LoudnessProfile converts RMS amplitude to dB below the track maximum,
// floors it at -80 dB and smooths it with a Savitzky–Golay filter.
func LoudnessProfile(times, rms []float64, window int) ([]LoudnessPoint, error) {
	if _, err := timeseries.New(times, rms); err != nil {
		return nil, fmt.Errorf("loudness: %w", err)
	}
	if len(times) == 0 {
		return nil, nil
	}
	if window <= 0 {
		window = DefaultLoudnessWindow
	}

	peak := amplitudeFloor
	for _, v := range rms {
		peak = math.Max(peak, v)
	}
	ref := 20 * math.Log10(peak)
	db := make([]float64, len(rms))
	for i, v := range rms {
		db[i] = math.Max(20*math.Log10(math.Max(amplitudeFloor, v))-ref, -dynamicRangeDB)
	}

	smoothed, err := dsp.SavitzkyGolay(db, window, loudnessOrder)
	if err != nil {
		return nil, fmt.Errorf("loudness: %w", err)
	}
	out := make([]LoudnessPoint, len(times))
	for i := range times {
		out[i] = LoudnessPoint{T: times[i], LUFS: smoothed[i]}
	}
	return out, nil
}
