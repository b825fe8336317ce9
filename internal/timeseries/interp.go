package timeseries

import (
	"gonum.org/v1/gonum/interp"
)

// Interpolator evaluates a piecewise-linear function through a series. Queries
// outside the sampled range resolve to a fixed fill value.
type Interpolator struct {
	pl     interp.PiecewiseLinear
	lo, hi float64
	single float64
	n      int
	fill   float64
}

// NewInterpolator fits times/values. Outside [times[0], times[n-1]] At
// returns fill.
func NewInterpolator(times, values []float64, fill float64) (*Interpolator, error) {
	if _, err := New(times, values); err != nil {
		return nil, err
	}
	ip := &Interpolator{n: len(times), fill: fill}
	switch len(times) {
	case 0:
		return ip, nil
	case 1:
		ip.lo, ip.hi, ip.single = times[0], times[0], values[0]
		return ip, nil
	}
	if err := ip.pl.Fit(times, values); err != nil {
		return nil, err
	}
	ip.lo, ip.hi = times[0], times[len(times)-1]
	return ip, nil
}

// At returns the interpolated value at t.
func (ip *Interpolator) At(t float64) float64 {
	if ip.n == 0 || t < ip.lo || t > ip.hi {
		return ip.fill
	}
	if ip.n == 1 {
		return ip.single
	}
	return ip.pl.Predict(t)
}

// Clamped evaluates a piecewise-linear function through xs/ys, holding the end
// values outside the sampled range. xs must be strictly increasing.
func Clamped(xs, ys []float64) (func(float64) float64, error) {
	if _, err := New(xs, ys); err != nil {
		return nil, err
	}
	switch len(xs) {
	case 0:
		return func(float64) float64 { return 0 }, nil
	case 1:
		v := ys[0]
		return func(float64) float64 { return v }, nil
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, err
	}
	return pl.Predict, nil
}

// Linspace returns n evenly spaced values over [start, end].
func Linspace(start, end float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = end
	return out
}
