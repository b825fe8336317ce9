package warp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"cantor/internal/faults"
	"cantor/internal/timeseries"
)

// Defaults for zero FitOptions fields.
const (
	DefaultWindow       = 200
	DefaultMergeSlope   = 0.01
	DefaultMergeOffset  = 0.1
	DefaultMergeQuality = 0.8

	r2Epsilon = 1e-8
)

// Segment maps karaoke time t in [TKStart, TKEnd] to reference time A·t + B.
type Segment struct {
	TKStart float64 `json:"tk_start"`
	TKEnd   float64 `json:"tk_end"`
	A       float64 `json:"a"`
	B       float64 `json:"b"`
	Quality float64 `json:"quality"`
}

// Map applies the segment's linear map.
func (s Segment) Map(tk float64) float64 { return s.A*tk + s.B }

// Contains reports whether tk falls in the closed segment span.
func (s Segment) Contains(tk float64) bool { return tk >= s.TKStart && tk <= s.TKEnd }

// FitOptions controls windowing and merging. Zero values take the defaults.
type FitOptions struct {
	Window       int
	MergeSlope   float64
	MergeOffset  float64
	MergeQuality float64
}

func (o FitOptions) withDefaults() FitOptions {
	if o.Window <= 1 {
		o.Window = DefaultWindow
	}
	if o.MergeSlope <= 0 {
		o.MergeSlope = DefaultMergeSlope
	}
	if o.MergeOffset <= 0 {
		o.MergeOffset = DefaultMergeOffset
	}
	if o.MergeQuality <= 0 {
		o.MergeQuality = DefaultMergeQuality
	}
	return o
}

// Fit approximates the pairs (tk[i], tref[i]) with linear segments. Short
// inputs get one global line; longer inputs are fitted over half-overlapping
// windows and adjacent near-identical segments are merged.
func Fit(tk, tref []float64, opts FitOptions) ([]Segment, error) {
	if len(tk) != len(tref) {
		return nil, fmt.Errorf("warp fit: %w (tk=%d tref=%d)", timeseries.ErrLengthMismatch, len(tk), len(tref))
	}
	if len(tk) < 2 {
		return nil, faults.Contract("warp fit", "need at least two alignment pairs")
	}
	if err := timeseries.ValidateTimes(tk); err != nil {
		return nil, fmt.Errorf("warp fit: %w", err)
	}
	for _, v := range tref {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, faults.Contract("warp fit", "reference times must be finite")
		}
	}

	opts = opts.withDefaults()
	n := len(tk)
	if n < opts.Window {
		return []Segment{fitSpan(tk, tref)}, nil
	}

	step := max(opts.Window/2, 1)
	var raw []Segment
	for start := 0; start+opts.Window <= n; start += step {
		end := start + opts.Window
		raw = append(raw, fitSpan(tk[start:end], tref[start:end]))
	}
	return merge(raw, opts), nil
}

func fitSpan(x, y []float64) Segment {
	b, a := stat.LinearRegression(x, y, nil, false)
	return Segment{
		TKStart: x[0],
		TKEnd:   x[len(x)-1],
		A:       a,
		B:       b,
		Quality: rSquared(x, y, a, b),
	}
}

func rSquared(x, y []float64, a, b float64) float64 {
	mean := stat.Mean(y, nil)
	var ssRes, ssTot float64
	for i := range x {
		r := y[i] - (a*x[i] + b)
		ssRes += r * r
		d := y[i] - mean
		ssTot += d * d
	}
	return 1 - ssRes/(ssTot+r2Epsilon)
}

func merge(raw []Segment, opts FitOptions) []Segment {
	if len(raw) == 0 {
		return nil
	}
	out := []Segment{raw[0]}
	for _, cur := range raw[1:] {
		prev := &out[len(out)-1]
		if math.Abs(cur.A-prev.A) < opts.MergeSlope &&
			math.Abs(cur.B-prev.B) < opts.MergeOffset &&
			prev.Quality > opts.MergeQuality && cur.Quality > opts.MergeQuality {
			prev.TKEnd = cur.TKEnd
			prev.A = (prev.A + cur.A) / 2
			prev.B = (prev.B + cur.B) / 2
			prev.Quality = math.Min(prev.Quality, cur.Quality)
			continue
		}
		out = append(out, cur)
	}
	return out
}
