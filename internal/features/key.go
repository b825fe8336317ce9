package features

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"cantor/internal/faults"
)

// Krumhansl–Schmuckler key profiles, tonic first.
var (
	majorProfile = []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minorProfile = []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
	pitchClasses = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
)

// Key is an estimated tonal centre.
type Key struct {
	Tonic      string  `json:"tonic"`
	Mode       string  `json:"mode"`
	Confidence float64 `json:"confidence"`
}

// DefaultKey is substituted when no key can be estimated.
var DefaultKey = Key{Tonic: "C", Mode: "major", Confidence: 0.5}

// String returns e.g. "A minor".
func (k Key) String() string { return k.Tonic + " " + k.Mode }

// EstimateKey averages frame-major chroma and picks the rotated profile with
// the highest Pearson correlation. Confidence is that correlation.
func EstimateKey(chroma [][]float64) (Key, error) {
	if len(chroma) == 0 {
		return Key{}, faults.Wrap(faults.ErrUpstreamFeature, "key", "estimate", "no chroma frames", nil)
	}
	mean := make([]float64, 12)
	frames := 0
	for _, frame := range chroma {
		if len(frame) != 12 {
			continue
		}
		for i, v := range frame {
			mean[i] += v
		}
		frames++
	}
	if frames == 0 {
		return Key{}, faults.Wrap(faults.ErrUpstreamFeature, "key", "estimate", "no 12-bin chroma frames", nil)
	}
	if stat.Variance(mean, nil) == 0 {
		return Key{}, faults.Wrap(faults.ErrUpstreamFeature, "key", "estimate", "flat chroma", nil)
	}

	best := Key{Confidence: math.Inf(-1)}
	for root := range 12 {
		for _, mode := range []struct {
			name    string
			profile []float64
		}{{"major", majorProfile}, {"minor", minorProfile}} {
			r := stat.Correlation(mean, rotate(mode.profile, root), nil)
			if r > best.Confidence {
				best = Key{Tonic: pitchClasses[root], Mode: mode.name, Confidence: r}
			}
		}
	}
	return best, nil
}

// rotate moves the profile's tonic weight to pitch class root.
func rotate(profile []float64, root int) []float64 {
	out := make([]float64, 12)
	for i := range out {
		out[i] = profile[(i-root+12)%12]
	}
	return out
}
