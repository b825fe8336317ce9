package dsp

import (
	"sort"

	"cantor/internal/faults"
)

// MedianFilter replaces every sample with the median of the size samples
// centred on it. Edges reflect the signal about its boundary
// (d c b a | a b c d), so the output has the input's length.
func MedianFilter(values []float64, size int) ([]float64, error) {
	if size < 1 || size%2 == 0 {
		return nil, faults.Contract("median filter", "size must be a positive odd number")
	}
	n := len(values)
	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}
	half := size / 2
	window := make([]float64, size)
	for i := range values {
		for k := -half; k <= half; k++ {
			window[k+half] = values[reflect(i+k, n)]
		}
		sort.Float64s(window)
		out[i] = window[half]
	}
	return out, nil
}

func reflect(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - 1 - i
	}
	return i
}
