package score_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantor/internal/faults"
	"cantor/internal/phrase"
	"cantor/internal/score"
	"cantor/internal/timeseries"
)

func contour(n int, step float64, f func(t float64) float64) timeseries.Series {
	s := timeseries.Series{Times: make([]float64, n), Values: make([]float64, n)}
	for i := range n {
		t := float64(i) * step
		s.Times[i] = t
		s.Values[i] = f(t)
	}
	return s
}

func melody(t float64) float64 {
	if math.Mod(t, 2) > 1.5 {
		return 0
	}
	return 220 + 30*math.Sin(t)
}

func TestScorePhraseExactMatch(t *testing.T) {
	ref := contour(500, 0.02, melody)

	m, status, err := score.ScorePhrase(ref, ref, 0, 10, score.Options{})
	require.NoError(t, err)
	assert.Equal(t, score.StatusScored, status)
	assert.InDelta(t, 1.0, m.Accuracy, 1e-12)
	assert.InDelta(t, 0.0, m.MedianCentsError, 1e-9)
	assert.InDelta(t, 0.0, m.TimingOffset, 1e-12)
	assert.InDelta(t, 0.0, m.DTWCost, 1e-12)
	assert.Equal(t, m.Accuracy, m.OnBeatPct)
}

func TestScorePhraseSharpSinger(t *testing.T) {
	ref := contour(100, 0.02, func(float64) float64 { return 220 })
	sharp := contour(100, 0.02, func(float64) float64 { return 220 * math.Pow(2, 100.0/1200) })

	m, status, err := score.ScorePhrase(ref, sharp, 0, 2, score.Options{})
	require.NoError(t, err)
	assert.Equal(t, score.StatusScored, status)
	assert.Zero(t, m.Accuracy)
	assert.InDelta(t, 100, m.MedianCentsError, 1e-6)
	assert.Greater(t, m.DTWCost, 0.0)
}

func TestScorePhraseLaggingSinger(t *testing.T) {
	ramp := func(t float64) float64 { return 200 + 50*t }
	ref := contour(101, 0.02, ramp)
	late := contour(101, 0.02, func(t float64) float64 { return ramp(t - 0.1) })

	m, _, err := score.ScorePhrase(ref, late, 0, 2, score.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 0.1, m.TimingOffset, 0.01)
}

func TestScorePhraseInsufficientData(t *testing.T) {
	ref := contour(100, 0.02, melody)
	silent := contour(100, 0.02, func(float64) float64 { return 0 })

	m, status, err := score.ScorePhrase(ref, silent, 0, 2, score.Options{})
	require.NoError(t, err)
	assert.Equal(t, score.StatusInsufficientData, status)
	assert.Equal(t, score.Metrics{DTWCost: 1.0}, m)

	// Two voiced samples in the window is still too few.
	_, status, err = score.ScorePhrase(ref, ref, 0, 0.03, score.Options{})
	require.NoError(t, err)
	assert.Equal(t, score.StatusInsufficientData, status)
}

func TestScorePhraseDecimatesLongPhrases(t *testing.T) {
	ref := contour(5000, 0.01, func(t float64) float64 { return 300 + 10*math.Sin(t) })

	m, status, err := score.ScorePhrase(ref, ref, 0, 50, score.Options{MaxSamples: 100})
	require.NoError(t, err)
	assert.Equal(t, score.StatusScored, status)
	assert.InDelta(t, 1.0, m.Accuracy, 1e-12)
}

func TestScorePhraseRejectsInvertedWindow(t *testing.T) {
	ref := contour(10, 0.1, melody)
	_, _, err := score.ScorePhrase(ref, ref, 2, 1, score.Options{})
	assert.True(t, errors.Is(err, faults.ErrContract))
}

func testPhrases() []phrase.Phrase {
	return []phrase.Phrase{
		{ID: 1, Start: 0, End: 2},
		{ID: 2, Start: 2, End: 4},
		{ID: 3, Start: 4, End: 6},
		{ID: 4, Start: 6, End: 8},
	}
}

func TestScorerExactPerformance(t *testing.T) {
	ref := contour(400, 0.02, melody)
	s := score.NewScorer(score.Options{Workers: 2}, nil)

	report, err := s.Score(context.Background(), ref, ref, testPhrases())
	require.NoError(t, err)

	require.Len(t, report.Phrases, 4)
	for i, p := range report.Phrases {
		assert.Equal(t, i+1, p.ID, "phrase order is preserved")
		assert.Equal(t, score.StatusScored, p.Status)
		assert.InDelta(t, 1.0, p.Accuracy, 1e-12)
	}
	assert.InDelta(t, 1.0, report.Overall.Accuracy, 1e-12)
	assert.InDelta(t, 0.0, report.Overall.MedianCentsError, 1e-9)
	assert.Len(t, report.Charts.PitchTimeline, score.DefaultChartPoints)
	assert.Equal(t, []float64{1, 1, 1, 1}, report.Charts.PhraseAccuracy)
	assert.Zero(t, report.Insufficient)
}

func TestScorerAllUnvoicedPerformance(t *testing.T) {
	ref := contour(400, 0.02, melody)
	silent := contour(400, 0.02, func(float64) float64 { return 0 })

	report, err := score.NewScorer(score.Options{}, nil).Score(context.Background(), ref, silent, testPhrases())
	require.NoError(t, err)

	for _, p := range report.Phrases {
		assert.Equal(t, score.StatusInsufficientData, p.Status)
		assert.Equal(t, 1.0, p.DTWCost)
	}
	assert.Zero(t, report.Overall.Accuracy)
	assert.Equal(t, 4, report.Insufficient)
}

func TestScorerRejectsInvalidPhrases(t *testing.T) {
	ref := contour(10, 0.1, melody)
	s := score.NewScorer(score.Options{}, nil)

	_, err := s.Score(context.Background(), ref, ref, nil)
	assert.True(t, errors.Is(err, faults.ErrContract))

	_, err = s.Score(context.Background(), ref, ref, []phrase.Phrase{{ID: 1, Start: 0, End: 2}, {ID: 2, Start: 1, End: 3}})
	assert.True(t, errors.Is(err, faults.ErrContract))
}

func TestScorerHonoursCancellation(t *testing.T) {
	ref := contour(400, 0.02, melody)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := score.NewScorer(score.Options{}, nil).Score(ctx, ref, ref, testPhrases())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAggregate(t *testing.T) {
	got := score.Aggregate([]score.PhraseResult{
		{Metrics: score.Metrics{Accuracy: 1, MedianCentsError: 10}},
		{Metrics: score.Metrics{Accuracy: 0.5, MedianCentsError: -20}},
		{Metrics: score.Metrics{Accuracy: 0, MedianCentsError: 30}},
	})
	assert.InDelta(t, 0.5, got.Accuracy, 1e-12)
	assert.InDelta(t, 10, got.MedianCentsError, 1e-12)
	assert.Equal(t, score.Overall{}, score.Aggregate(nil))
}

func TestPitchChartFillsOutsideContours(t *testing.T) {
	ref := timeseries.Series{Times: []float64{0, 1}, Values: []float64{100, 100}}
	perf := timeseries.Series{Times: []float64{1, 2}, Values: []float64{200, 200}}

	points := score.PitchChart(ref, perf, 3)
	require.Len(t, points, 3)
	assert.Equal(t, score.ChartPoint{T: 0, RefF0: 100, PerfF0: 0}, points[0])
	assert.Equal(t, score.ChartPoint{T: 1, RefF0: 100, PerfF0: 200}, points[1])
	assert.Equal(t, score.ChartPoint{T: 2, RefF0: 0, PerfF0: 200}, points[2])

	assert.Empty(t, score.PitchChart(ref, timeseries.Series{}, 10))
}
