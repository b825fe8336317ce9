package pitch

import (
	"fmt"

	"cantor/internal/dsp"
)

const (
	DefaultConfidenceThreshold = 0.3
	DefaultMedianWindow        = 5
	DefaultSavGolWindow        = 11
	DefaultSavGolOrder         = 3
)

// CleanOptions tunes Clean. Zero values take the defaults.
type CleanOptions struct {
	ConfidenceThreshold float64
	MedianWindow        int
	SavGolWindow        int
	SavGolOrder         int
}

func (o CleanOptions) withDefaults() CleanOptions {
	if o.ConfidenceThreshold <= 0 {
		o.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if o.MedianWindow <= 0 {
		o.MedianWindow = DefaultMedianWindow
	}
	if o.SavGolWindow <= 0 {
		o.SavGolWindow = DefaultSavGolWindow
	}
	if o.SavGolOrder <= 0 {
		o.SavGolOrder = DefaultSavGolOrder
	}
	return o
}

// Clean zeroes low-confidence f0 and smooths the remaining voiced samples as
// one contiguous sequence. The input is not modified.
func Clean(ref Reference, opts CleanOptions) (Reference, error) {
	if err := ref.Validate(); err != nil {
		return Reference{}, err
	}
	opts = opts.withDefaults()

	out := Reference{
		Times: append([]float64(nil), ref.Times...),
		F0:    append([]float64(nil), ref.F0...),
		Conf:  append([]float64(nil), ref.Conf...),
	}
	voiced := make([]int, 0, len(out.F0))
	for i := range out.F0 {
		if out.Conf[i] < opts.ConfidenceThreshold {
			out.F0[i] = 0
		}
		if out.Conf[i] > opts.ConfidenceThreshold && out.F0[i] > 0 {
			voiced = append(voiced, i)
		}
	}
	if len(voiced) < opts.MedianWindow {
		return out, nil
	}

	seq := make([]float64, len(voiced))
	for k, i := range voiced {
		seq[k] = out.F0[i]
	}
	seq, err := dsp.MedianFilter(seq, opts.MedianWindow)
	if err != nil {
		return Reference{}, fmt.Errorf("clean pitch: %w", err)
	}
	if len(seq) > opts.SavGolWindow {
		seq, err = dsp.SavitzkyGolay(seq, opts.SavGolWindow, opts.SavGolOrder)
		if err != nil {
			return Reference{}, fmt.Errorf("clean pitch: %w", err)
		}
	}
	for k, i := range voiced {
		// A polynomial fit can dip through zero at a sharp edge; keep the
		// sample voiced.
		if seq[k] > 0 {
			out.F0[i] = seq[k]
		}
	}
	return out, nil
}
