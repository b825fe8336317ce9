package score

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"cantor/internal/dtw"
	"cantor/internal/faults"
	"cantor/internal/timeseries"
)

const (
	DefaultTolCents    = 50
	DefaultMaxSamples  = 2000
	DefaultChartPoints = 500

	minVoicedSamples = 3
	degenerateCost   = 1.0
)

// Status tells a measured phrase from one that had too little voiced data.
type Status string

const (
	StatusScored           Status = "scored"
	StatusInsufficientData Status = "insufficient_data"
)

// Metrics summarises one phrase. Cents are signed: positive means sharp.
// TimingOffset is in seconds; positive means the singer lags. OnBeatPct
// currently mirrors Accuracy.
type Metrics struct {
	Accuracy         float64 `json:"accuracy"`
	MedianCentsError float64 `json:"median_cents_error"`
	OnBeatPct        float64 `json:"on_beat_pct"`
	TimingOffset     float64 `json:"timing_offset"`
	DTWCost          float64 `json:"dtw_cost"`
}

func degenerate() Metrics { return Metrics{DTWCost: degenerateCost} }

// ScorePhrase scores singer against ref over [start, end]. Too few voiced
// samples on either side is not an error: the degenerate metrics are
// returned with StatusInsufficientData.
func ScorePhrase(ref, singer timeseries.Series, start, end float64, opts Options) (Metrics, Status, error) {
	opts = opts.withDefaults()
	if !(end >= start) {
		return Metrics{}, "", faults.Contract("score phrase", fmt.Sprintf("end %g before start %g", end, start))
	}
	if _, err := timeseries.New(ref.Times, ref.Values); err != nil {
		return Metrics{}, "", fmt.Errorf("score phrase reference: %w", err)
	}
	if _, err := timeseries.New(singer.Times, singer.Values); err != nil {
		return Metrics{}, "", fmt.Errorf("score phrase performance: %w", err)
	}

	r := ref.Window(start, end).Voiced().Decimate(opts.MaxSamples)
	s := singer.Window(start, end).Voiced().Decimate(opts.MaxSamples)
	if r.Len() < minVoicedSamples || s.Len() < minVoicedSamples {
		return degenerate(), StatusInsufficientData, nil
	}

	dist, path, err := dtw.DTW(r.Values, s.Values, &dtw.Options{
		Window:     -1,
		ReturnPath: true,
		MaxCells:   opts.MaxCells,
	})
	if err != nil {
		return Metrics{}, "", fmt.Errorf("score phrase: %w", err)
	}

	cents := make([]float64, len(path))
	offsets := make([]float64, len(path))
	within := 0
	for k, c := range path {
		cents[k] = 1200 * math.Log2(s.Values[c.J]/r.Values[c.I])
		offsets[k] = s.Times[c.J] - r.Times[c.I]
		if math.Abs(cents[k]) <= opts.TolCents {
			within++
		}
	}
	accuracy := float64(within) / float64(len(path))
	return Metrics{
		Accuracy:         accuracy,
		MedianCentsError: timeseries.Median(cents),
		OnBeatPct:        accuracy,
		TimingOffset:     stat.Mean(offsets, nil),
		DTWCost:          dist / float64(max(r.Len(), s.Len())),
	}, StatusScored, nil
}
