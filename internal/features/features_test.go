package features_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantor/internal/faults"
	"cantor/internal/features"
)

func TestDownbeats(t *testing.T) {
	beats := []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4}
	assert.Equal(t, []float64{0, 2, 4}, features.Downbeats(beats, 4))
	assert.Empty(t, features.Downbeats(nil, 4))
}

func TestEstimateTempo(t *testing.T) {
	bpm, err := features.EstimateTempo([]float64{0, 0.5, 1.0, 1.5, 2.1})
	require.NoError(t, err)
	assert.InDelta(t, 120, bpm, 1e-9)

	_, err = features.EstimateTempo([]float64{1})
	assert.True(t, errors.Is(err, faults.ErrUpstreamFeature))
}

func profileChroma(profile []float64, root int) [][]float64 {
	frame := make([]float64, 12)
	for i := range frame {
		frame[i] = profile[(i-root+12)%12]
	}
	return [][]float64{frame, frame}
}

func TestEstimateKeyMatchesRotatedProfile(t *testing.T) {
	major := []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minor := []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}

	k, err := features.EstimateKey(profileChroma(major, 7))
	require.NoError(t, err)
	assert.Equal(t, "G major", k.String())
	assert.InDelta(t, 1.0, k.Confidence, 1e-9)

	k, err = features.EstimateKey(profileChroma(minor, 9))
	require.NoError(t, err)
	assert.Equal(t, "A minor", k.String())
}

func TestEstimateKeyRejectsDegenerateChroma(t *testing.T) {
	_, err := features.EstimateKey(nil)
	assert.True(t, errors.Is(err, faults.ErrUpstreamFeature))

	flat := [][]float64{{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}}
	_, err = features.EstimateKey(flat)
	assert.True(t, errors.Is(err, faults.ErrUpstreamFeature))

	assert.Equal(t, "C major", features.DefaultKey.String())
}

func TestLoudnessProfileIsRelativeToPeak(t *testing.T) {
	times := make([]float64, 50)
	rms := make([]float64, 50)
	for i := range times {
		times[i] = float64(i) * 0.02
		rms[i] = 0.5
	}
	rms[49] = 0

	points, err := features.LoudnessProfile(times, rms, 0)
	require.NoError(t, err)
	require.Len(t, points, 50)
	assert.InDelta(t, 0, points[10].LUFS, 1e-6)
	assert.Equal(t, times[10], points[10].T)
	for _, p := range points {
		assert.GreaterOrEqual(t, p.LUFS, -100.0)
	}
}

func TestLoudnessProfileEmpty(t *testing.T) {
	points, err := features.LoudnessProfile(nil, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, points)
}
