package pitch

import (
	"fmt"
	"math"

	"cantor/internal/faults"
	"cantor/internal/timeseries"
	"cantor/internal/warp"
)

const (
	DefaultFPS   = 50
	DefaultAlpha = 0.3
)

// Reference is an index-aligned pitch track: F0 in Hz (0 = unvoiced) and
// tracker confidence in [0, 1] at each of Times.
type Reference struct {
	Times []float64
	F0    []float64
	Conf  []float64
}

// Validate checks the track's shape.
func (r Reference) Validate() error {
	if len(r.F0) != len(r.Times) || len(r.Conf) != len(r.Times) {
		return fmt.Errorf("reference pitch: %w (times=%d f0=%d conf=%d)",
			timeseries.ErrLengthMismatch, len(r.Times), len(r.F0), len(r.Conf))
	}
	if err := timeseries.ValidateTimes(r.Times); err != nil {
		return fmt.Errorf("reference pitch: %w", err)
	}
	return nil
}

// Options tunes Warp. Zero values take the defaults.
type Options struct {
	FPS   float64
	Alpha float64
}

// WithDefaults fills zero fields with the package defaults.
func (o Options) WithDefaults() Options {
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	if o.Alpha <= 0 || o.Alpha > 1 {
		o.Alpha = DefaultAlpha
	}
	return o
}

// Contour is a reference pitch track sampled on the karaoke grid.
type Contour struct {
	Times     []float64
	F0        []float64
	Conf      []float64
	Uncovered int
}

// Len reports the number of grid frames.
func (c Contour) Len() int { return len(c.Times) }

// Series returns the f0 curve as a timeseries.
func (c Contour) Series() timeseries.Series {
	return timeseries.Series{Times: c.Times, Values: c.F0}
}

// Warp samples ref on the grid i/FPS for i in [0, durationK·FPS).
func Warp(ref Reference, idx *warp.Index, durationK float64, opts Options) (Contour, error) {
	if err := ref.Validate(); err != nil {
		return Contour{}, err
	}
	if idx == nil {
		return Contour{}, faults.Contract("pitch warp", "nil segment index")
	}
	if durationK < 0 || math.IsNaN(durationK) || math.IsInf(durationK, 0) {
		return Contour{}, faults.Contract("pitch warp", "karaoke duration must be finite and non-negative")
	}
	opts = opts.WithDefaults()

	f0At, err := timeseries.NewInterpolator(ref.Times, ref.F0, 0)
	if err != nil {
		return Contour{}, fmt.Errorf("pitch warp: %w", err)
	}
	confAt, err := timeseries.NewInterpolator(ref.Times, ref.Conf, 0)
	if err != nil {
		return Contour{}, fmt.Errorf("pitch warp: %w", err)
	}

	n := int(durationK * opts.FPS)
	out := Contour{
		Times: make([]float64, n),
		F0:    make([]float64, n),
		Conf:  make([]float64, n),
	}
	for i := range n {
		tk := float64(i) / opts.FPS
		tref, covered := idx.Map(tk)
		if !covered {
			out.Uncovered++
		}
		out.Times[i] = tk
		out.F0[i] = f0At.At(tref)
		out.Conf[i] = confAt.At(tref)
	}
	out.F0 = smoothVoiced(out.F0, opts.Alpha)
	return out, nil
}

// smoothVoiced runs an EMA that restarts at every voicing boundary.
func smoothVoiced(raw []float64, alpha float64) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		if i == 0 || v <= 0 || raw[i-1] <= 0 {
			out[i] = v
			continue
		}
		out[i] = alpha*v + (1-alpha)*out[i-1]
	}
	return out
}
