package score

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"cantor/internal/logging"
	"cantor/internal/phrase"
	"cantor/internal/timeseries"
)

// PhraseResult is one phrase's metrics.
type PhraseResult struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Metrics
	Status Status `json:"status"`
}

// Overall aggregates phrase results.
type Overall struct {
	Accuracy         float64 `json:"accuracy"`
	MedianCentsError float64 `json:"median_cents_error"`
}

// ChartPoint pairs both contours at one time; 0 means unvoiced or outside
// the contour.
type ChartPoint struct {
	T      float64 `json:"t"`
	RefF0  float64 `json:"ref_f0"`
	PerfF0 float64 `json:"perf_f0"`
}

// Charts holds plot-ready series.
type Charts struct {
	PitchTimeline  []ChartPoint `json:"pitch_timeline"`
	PhraseAccuracy []float64    `json:"phrase_accuracy"`
}

// Report is the outcome of scoring one performance.
type Report struct {
	Overall      Overall        `json:"overall"`
	Phrases      []PhraseResult `json:"phrases"`
	Charts       Charts         `json:"charts"`
	Insufficient int            `json:"-"`
	Elapsed      time.Duration  `json:"-"`
}

// Scorer scores performances against a reference contour.
type Scorer struct {
	opts   Options
	logger *slog.Logger
}

// NewScorer constructs a Scorer.
func NewScorer(opts Options, logger *slog.Logger) *Scorer {
	return &Scorer{
		opts:   opts.withDefaults(),
		logger: logging.NewComponentLogger(logger, "score"),
	}
}

// Score rates perf against ref for every phrase. Results keep phrase order.
func (s *Scorer) Score(ctx context.Context, ref, perf timeseries.Series, phrases []phrase.Phrase) (*Report, error) {
	if err := phrase.Validate(phrases); err != nil {
		return nil, err
	}
	if _, err := timeseries.New(ref.Times, ref.Values); err != nil {
		return nil, fmt.Errorf("score reference: %w", err)
	}
	if _, err := timeseries.New(perf.Times, perf.Values); err != nil {
		return nil, fmt.Errorf("score performance: %w", err)
	}
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	logger := logging.WithContext(ctx, s.logger)
	started := time.Now()
	results := make([]PhraseResult, len(phrases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, p := range phrases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, status, err := ScorePhrase(ref, perf, p.Start, p.End, s.opts)
			if err != nil {
				return fmt.Errorf("phrase %d: %w", p.ID, err)
			}
			results[i] = PhraseResult{ID: p.ID, Start: p.Start, End: p.End, Metrics: m, Status: status}
			logger.Debug("phrase scored",
				logging.Int(logging.FieldPhraseID, p.ID),
				logging.String("status", string(status)),
				logging.Float64("accuracy", m.Accuracy),
				logging.Float64("dtw_cost", m.DTWCost),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Overall: Aggregate(results),
		Phrases: results,
		Charts: Charts{
			PitchTimeline:  PitchChart(ref, perf, s.opts.ChartPoints),
			PhraseAccuracy: phraseAccuracy(results),
		},
		Elapsed: time.Since(started),
	}
	for _, r := range results {
		if r.Status == StatusInsufficientData {
			report.Insufficient++
		}
	}
	if report.Insufficient > 0 {
		logging.WarnWithContext(logger, "phrases lacked voiced samples", "score_insufficient_data",
			logging.Int("insufficient", report.Insufficient),
			logging.Int("phrases", len(results)),
			logging.String(logging.FieldErrorHint, "check that the performance pitch track covers the song"),
			logging.String(logging.FieldImpact, "affected phrases score zero accuracy"),
		)
	}
	logger.Info("performance scored",
		logging.Int("phrases", len(results)),
		logging.Float64("accuracy", report.Overall.Accuracy),
		logging.Float64("median_cents_error", report.Overall.MedianCentsError),
		logging.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// Aggregate averages accuracy and takes the median of per-phrase median
// errors. Degenerate phrases count with their zero metrics.
func Aggregate(results []PhraseResult) Overall {
	if len(results) == 0 {
		return Overall{}
	}
	var sum float64
	medians := make([]float64, len(results))
	for i, r := range results {
		sum += r.Accuracy
		medians[i] = r.MedianCentsError
	}
	return Overall{
		Accuracy:         sum / float64(len(results)),
		MedianCentsError: timeseries.Median(medians),
	}
}

// PitchChart samples both contours at n evenly spaced times over their
// combined span. Either contour empty yields no points.
func PitchChart(ref, perf timeseries.Series, n int) []ChartPoint {
	if ref.Len() == 0 || perf.Len() == 0 || n <= 0 {
		return []ChartPoint{}
	}
	lo := min(ref.Times[0], perf.Times[0])
	hi := max(ref.Times[ref.Len()-1], perf.Times[perf.Len()-1])
	refAt, err := timeseries.NewInterpolator(ref.Times, ref.Values, 0)
	if err != nil {
		return []ChartPoint{}
	}
	perfAt, err := timeseries.NewInterpolator(perf.Times, perf.Values, 0)
	if err != nil {
		return []ChartPoint{}
	}
	grid := timeseries.Linspace(lo, hi, n)
	out := make([]ChartPoint, len(grid))
	for i, t := range grid {
		out[i] = ChartPoint{T: t, RefF0: refAt.At(t), PerfF0: perfAt.At(t)}
	}
	return out
}

func phraseAccuracy(results []PhraseResult) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.Accuracy
	}
	return out
}
