// Package notes reduces a dense pitch contour to discrete note bins, the
// targets a singer is scored against.
package notes

import (
	"fmt"

	"cantor/internal/faults"
	"cantor/internal/timeseries"
)

// Defaults applied by Options.WithDefaults.
const (
	DefaultConfidenceThreshold = 0.3
	DefaultMinDuration         = 0.2
	DefaultTolCents            = 40
)

// Bin is a stable pitch region.
type Bin struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	F0       float64 `json:"f0"`
	TolCents float64 `json:"tol_cents"`
}

// Duration returns End - Start.
func (b Bin) Duration() float64 { return b.End - b.Start }

// Options tunes Segment. Zero values take the defaults.
type Options struct {
	ConfidenceThreshold float64
	MinDuration         float64
	TolCents            float64
}

// WithDefaults fills zero fields with the package defaults.
func (o Options) WithDefaults() Options {
	if o.ConfidenceThreshold <= 0 {
		o.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if o.MinDuration <= 0 {
		o.MinDuration = DefaultMinDuration
	}
	if o.TolCents <= 0 {
		o.TolCents = DefaultTolCents
	}
	return o
}

// Segment emits one bin per maximal voiced run that lasts at least
// MinDuration. A bin's pitch is the median of the run.
func Segment(times, f0, conf []float64, opts Options) ([]Bin, error) {
	if len(f0) != len(times) || len(conf) != len(times) {
		return nil, fmt.Errorf("note bins: %w (times=%d f0=%d conf=%d)",
			timeseries.ErrLengthMismatch, len(times), len(f0), len(conf))
	}
	if err := timeseries.ValidateTimes(times); err != nil {
		return nil, fmt.Errorf("note bins: %w", err)
	}
	opts = opts.WithDefaults()

	voiced := func(i int) bool { return f0[i] > 0 && conf[i] > opts.ConfidenceThreshold }

	var bins []Bin
	for i := 0; i < len(times); {
		if !voiced(i) {
			i++
			continue
		}
		start := i
		for i < len(times) && voiced(i) {
			i++
		}
		if times[i-1]-times[start] < opts.MinDuration {
			continue
		}
		bins = append(bins, Bin{
			Start:    times[start],
			End:      times[i-1],
			F0:       timeseries.Median(f0[start:i]),
			TolCents: opts.TolCents,
		})
	}
	return bins, nil
}

// Validate checks ordering and positivity of bins.
func Validate(bins []Bin) error {
	for i, b := range bins {
		if b.End <= b.Start {
			return faults.Contract("note bins", fmt.Sprintf("bin %d ends before it starts", i))
		}
		if b.F0 <= 0 {
			return faults.Contract("note bins", fmt.Sprintf("bin %d has non-positive f0", i))
		}
		if i > 0 && b.Start < bins[i-1].End {
			return faults.Contract("note bins", fmt.Sprintf("bin %d overlaps its predecessor", i))
		}
	}
	return nil
}

// PitchSample is one voiced frame of a sparse contour.
type PitchSample struct {
	T    float64 `json:"t"`
	F0   float64 `json:"f0"`
	Conf float64 `json:"conf"`
}

// Sparse keeps the frames with f0 > 0.
func Sparse(times, f0, conf []float64) []PitchSample {
	out := make([]PitchSample, 0, len(times))
	for i := range times {
		if i >= len(f0) || f0[i] <= 0 {
			continue
		}
		var c float64
		if i < len(conf) {
			c = conf[i]
		}
		out = append(out, PitchSample{T: times[i], F0: f0[i], Conf: c})
	}
	return out
}

// Dense expands samples back onto a grid of n frames at fps, leaving
// missing frames unvoiced.
func Dense(samples []PitchSample, fps float64, n int) (times, f0, conf []float64) {
	times = make([]float64, n)
	f0 = make([]float64, n)
	conf = make([]float64, n)
	for i := range times {
		times[i] = float64(i) / fps
	}
	for _, s := range samples {
		i := int(s.T*fps + 0.5)
		if i < 0 || i >= n {
			continue
		}
		f0[i] = s.F0
		conf[i] = s.Conf
	}
	return times, f0, conf
}
