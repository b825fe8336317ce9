package timeseries

import (
	"fmt"
	"math"
	"sort"

	"cantor/internal/faults"
)

var (
	// ErrNonMonotonic indicates a time array that is not strictly increasing.
	ErrNonMonotonic = fmt.Errorf("%w: times must be strictly increasing", faults.ErrContract)
	// ErrLengthMismatch indicates parallel arrays of different lengths.
	ErrLengthMismatch = fmt.Errorf("%w: parallel arrays differ in length", faults.ErrContract)
)

// Series is an ordered sequence of samples. Times is strictly increasing and
// index aligned with Values.
type Series struct {
	Times  []float64
	Values []float64
}

// New validates and wraps times and values. The slices are not copied.
func New(times, values []float64) (Series, error) {
	if len(times) != len(values) {
		return Series{}, fmt.Errorf("%w (times=%d values=%d)", ErrLengthMismatch, len(times), len(values))
	}
	if err := ValidateTimes(times); err != nil {
		return Series{}, err
	}
	return Series{Times: times, Values: values}, nil
}

// ValidateTimes reports ErrNonMonotonic unless times is strictly increasing
// and free of NaN.
func ValidateTimes(times []float64) error {
	for i, t := range times {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("%w (index %d is not finite)", ErrNonMonotonic, i)
		}
		if i > 0 && t <= times[i-1] {
			return fmt.Errorf("%w (index %d: %g after %g)", ErrNonMonotonic, i, t, times[i-1])
		}
	}
	return nil
}

// Len returns the number of samples.
func (s Series) Len() int { return len(s.Times) }

// Window returns the samples with start <= t <= end. The result shares
// backing arrays with s.
func (s Series) Window(start, end float64) Series {
	if end < start || len(s.Times) == 0 {
		return Series{}
	}
	lo := sort.SearchFloat64s(s.Times, start)
	hi := sort.Search(len(s.Times), func(i int) bool { return s.Times[i] > end })
	if lo >= hi {
		return Series{}
	}
	return Series{Times: s.Times[lo:hi], Values: s.Values[lo:hi]}
}

// Voiced returns a copy holding only samples with a positive value.
func (s Series) Voiced() Series {
	out := Series{
		Times:  make([]float64, 0, len(s.Values)),
		Values: make([]float64, 0, len(s.Values)),
	}
	for i, v := range s.Values {
		if v > 0 {
			out.Times = append(out.Times, s.Times[i])
			out.Values = append(out.Values, v)
		}
	}
	return out
}

// Decimate keeps at most limit samples, evenly spaced by index and always
// including the first and last sample. limit <= 0 or a short series returns s.
func (s Series) Decimate(limit int) Series {
	n := len(s.Times)
	if limit <= 0 || n <= limit {
		return s
	}
	if limit == 1 {
		return Series{Times: s.Times[:1], Values: s.Values[:1]}
	}
	out := Series{Times: make([]float64, limit), Values: make([]float64, limit)}
	step := float64(n-1) / float64(limit-1)
	for k := 0; k < limit; k++ {
		idx := int(math.Round(float64(k) * step))
		out.Times[k] = s.Times[idx]
		out.Values[k] = s.Values[idx]
	}
	return out
}
