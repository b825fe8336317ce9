package dsp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"cantor/internal/faults"
)

// SavitzkyGolay smooths values with a least-squares polynomial of the given
// order fitted over a sliding window. The first and last window/2 samples are
// evaluated from the polynomial fitted to the first and last full window.
//
// A window longer than the input shrinks to the largest odd length that
// fits; when that leaves no room for the polynomial the input is returned
// unchanged.
func SavitzkyGolay(values []float64, window, order int) ([]float64, error) {
	if window < 1 || window%2 == 0 {
		return nil, faults.Contract("savitzky-golay", "window must be a positive odd number")
	}
	if order < 0 {
		return nil, faults.Contract("savitzky-golay", "order must be non-negative")
	}
	n := len(values)
	out := append([]float64(nil), values...)
	if window > n {
		window = n
		if window%2 == 0 {
			window--
		}
	}
	if window <= order {
		return out, nil
	}

	proj, err := projection(window, order)
	if err != nil {
		return nil, fmt.Errorf("savitzky-golay: %w", err)
	}
	half := window / 2

	// Interior samples use the centre row of the projection as FIR weights.
	weights := make([]float64, window)
	for j := range weights {
		weights[j] = proj.At(0, j)
	}
	for i := half; i < n-half; i++ {
		var acc float64
		for j, w := range weights {
			acc += w * values[i-half+j]
		}
		out[i] = acc
	}

	fitEdge(out, values[:window], proj, 0, 0, half)
	fitEdge(out, values[n-window:], proj, n-window, n-half, n)
	return out, nil
}

// fitEdge fits the polynomial to segment, which starts at out[base], and
// evaluates it at out indices [from, to).
func fitEdge(out, segment []float64, proj *mat.Dense, base, from, to int) {
	var coef mat.VecDense
	coef.MulVec(proj, mat.NewVecDense(len(segment), segment))
	half := len(segment) / 2
	for i := from; i < to; i++ {
		x := float64(i - base - half)
		var v float64
		for p := coef.Len() - 1; p >= 0; p-- {
			v = v*x + coef.AtVec(p)
		}
		out[i] = v
	}
}

// projection returns the (order+1)×window pseudo-inverse of the Vandermonde
// matrix over centred positions -window/2 … window/2. Row p maps a window of
// samples to the coefficient of x^p.
func projection(window, order int) (*mat.Dense, error) {
	half := window / 2
	vander := mat.NewDense(window, order+1, nil)
	for i := range window {
		x := float64(i - half)
		for p := 0; p <= order; p++ {
			vander.Set(i, p, math.Pow(x, float64(p)))
		}
	}
	ident := mat.NewDense(window, window, nil)
	for i := range window {
		ident.Set(i, i, 1)
	}
	var proj mat.Dense
	if err := proj.Solve(vander, ident); err != nil {
		return nil, err
	}
	return &proj, nil
}
