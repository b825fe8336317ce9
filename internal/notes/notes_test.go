package notes_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantor/internal/faults"
	"cantor/internal/notes"
)

func grid(n int, fps float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / fps
	}
	return out
}

func TestSegmentFindsVoicedRuns(t *testing.T) {
	times := grid(100, 50)
	f0 := make([]float64, 100)
	conf := make([]float64, 100)
	// Run A: frames 10..29 (0.38 s) at 220 Hz with one outlier.
	for i := 10; i < 30; i++ {
		f0[i], conf[i] = 220, 0.9
	}
	f0[15] = 440
	// Run B: frames 40..44 (0.08 s), too short.
	for i := 40; i < 45; i++ {
		f0[i], conf[i] = 330, 0.9
	}
	// Run C: frames 60..89 but confidence drops at 75.
	for i := 60; i < 90; i++ {
		f0[i], conf[i] = 262, 0.8
	}
	conf[75] = 0.2

	bins, err := notes.Segment(times, f0, conf, notes.Options{})
	require.NoError(t, err)
	require.Len(t, bins, 3)

	assert.InDelta(t, 0.2, bins[0].Start, 1e-12)
	assert.InDelta(t, 0.58, bins[0].End, 1e-12)
	assert.Equal(t, 220.0, bins[0].F0, "median resists the octave jump")
	assert.Equal(t, float64(notes.DefaultTolCents), bins[0].TolCents)

	assert.InDelta(t, 1.2, bins[1].Start, 1e-12)
	assert.InDelta(t, 1.48, bins[1].End, 1e-12)
	assert.InDelta(t, 1.52, bins[2].Start, 1e-12)
	assert.InDelta(t, 1.78, bins[2].End, 1e-12)

	require.NoError(t, notes.Validate(bins))
	for _, b := range bins {
		assert.GreaterOrEqual(t, b.Duration(), notes.DefaultMinDuration)
	}
}

func TestSegmentEmptyAndUnvoiced(t *testing.T) {
	bins, err := notes.Segment(nil, nil, nil, notes.Options{})
	require.NoError(t, err)
	assert.Empty(t, bins)

	times := grid(10, 50)
	bins, err = notes.Segment(times, make([]float64, 10), make([]float64, 10), notes.Options{})
	require.NoError(t, err)
	assert.Empty(t, bins)
}

func TestSegmentRejectsMismatch(t *testing.T) {
	_, err := notes.Segment([]float64{0, 1}, []float64{1}, []float64{1, 1}, notes.Options{})
	assert.True(t, errors.Is(err, faults.ErrContract))
}

func TestSparseAndDenseRoundTrip(t *testing.T) {
	times := grid(6, 50)
	f0 := []float64{0, 100, 110, 0, 0, 120}
	conf := []float64{0, 0.5, 0.6, 0, 0, 0.7}

	sparse := notes.Sparse(times, f0, conf)
	require.Len(t, sparse, 3)
	assert.Equal(t, notes.PitchSample{T: times[1], F0: 100, Conf: 0.5}, sparse[0])

	gotTimes, gotF0, gotConf := notes.Dense(sparse, 50, 6)
	assert.Equal(t, times, gotTimes)
	assert.Equal(t, f0, gotF0)
	assert.Equal(t, conf, gotConf)
}

func TestOptionsWithDefaultsKeepsExplicitFields(t *testing.T) {
	got := notes.Options{MinDuration: 0.5}.WithDefaults()
	assert.Equal(t, notes.Options{
		ConfidenceThreshold: notes.DefaultConfidenceThreshold,
		MinDuration:         0.5,
		TolCents:            notes.DefaultTolCents,
	}, got)
}
