package dtw_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cantor/internal/dtw"
	"cantor/internal/faults"
)

// TestDTW_EmptyInput verifies that empty sequences are rejected as contract
// violations.
func TestDTW_EmptyInput(t *testing.T) {
	opts := dtw.DefaultOptions()

	_, _, err := dtw.DTW([]float64{}, []float64{1, 2, 3}, &opts)
	assert.ErrorIs(t, err, dtw.ErrEmptyInput)

	_, _, err = dtw.DTW([]float64{1, 2, 3}, nil, &opts)
	assert.ErrorIs(t, err, dtw.ErrEmptyInput)
	assert.True(t, faults.IsContract(err))
}

func TestDTW_BadOptions(t *testing.T) {
	opts := dtw.DefaultOptions()
	opts.Window = -2
	_, _, err := dtw.DTW([]float64{1}, []float64{1}, &opts)
	assert.ErrorIs(t, err, dtw.ErrBadInput)
}

func TestDTW_MaxCells(t *testing.T) {
	opts := dtw.Options{Window: -1, MaxCells: 8}
	_, _, err := dtw.DTW(make([]float64, 3), make([]float64, 3), &opts)
	assert.ErrorIs(t, err, dtw.ErrTooLarge)

	opts.MaxCells = 9
	_, _, err = dtw.DTW(make([]float64, 3), make([]float64, 3), &opts)
	assert.NoError(t, err)
}

// TestDTW_MaxCellsCountsBandOnly checks that the cap applies to the cells a
// banded run evaluates, not the full matrix.
func TestDTW_MaxCellsCountsBandOnly(t *testing.T) {
	a := []float64{0, 1, 2, 3, 4, 5, 4, 3, 2, 1}
	b := []float64{0, 0, 1, 2, 3, 5, 5, 3, 2, 1}

	uncapped := dtw.Options{Window: 1, ReturnPath: true}
	want, wantPath, err := dtw.DTW(a, b, &uncapped)
	require.NoError(t, err)

	// Rows 1 and 10 admit 2 columns, rows 2-9 admit 3: 28 cells of 100.
	capped := dtw.Options{Window: 1, ReturnPath: true, MaxCells: 28}
	got, gotPath, err := dtw.DTW(a, b, &capped)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, wantPath, gotPath)

	capped.MaxCells = 27
	_, _, err = dtw.DTW(a, b, &capped)
	assert.ErrorIs(t, err, dtw.ErrTooLarge)
}

// TestDTW_IdentityPathIsDiagonal checks that identical sequences, including
// runs of repeated values, align on the diagonal with zero cost.
func TestDTW_IdentityPathIsDiagonal(t *testing.T) {
	a := []float64{1, 1, 1, 2, 2, 3, 3, 3}
	opts := dtw.Options{Window: -1, ReturnPath: true}

	dist, path, err := dtw.DTW(a, a, &opts)
	require.NoError(t, err)
	assert.Equal(t, 0.0, dist)
	require.Len(t, path, len(a))
	for k, c := range path {
		assert.Equal(t, dtw.Coord{I: k, J: k}, c)
	}
}

// TestDTW_SubsequenceMatch mirrors a perfect match with one stretched sample.
func TestDTW_SubsequenceMatch(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{1, 2, 2, 3}
	opts := dtw.Options{Window: -1, ReturnPath: true}

	dist, path, err := dtw.DTW(a, b, &opts)
	require.NoError(t, err)
	assert.Equal(t, 0.0, dist)
	assert.Len(t, path, 4)
	assert.Equal(t, dtw.Coord{I: 0, J: 0}, path[0])
	assert.Equal(t, dtw.Coord{I: 2, J: 3}, path[len(path)-1])
}

func TestDTW_PathIsMonotoneAndContiguous(t *testing.T) {
	a := []float64{0, 3, 1, 4, 1, 5, 9, 2, 6}
	b := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5}
	opts := dtw.Options{Window: 2, ReturnPath: true}

	dist, path, err := dtw.DTW(a, b, &opts)
	require.NoError(t, err)
	assert.False(t, math.IsInf(dist, 1))
	require.NotEmpty(t, path)
	assert.Equal(t, dtw.Coord{I: 0, J: 0}, path[0])
	assert.Equal(t, dtw.Coord{I: len(a) - 1, J: len(b) - 1}, path[len(path)-1])
	for k := 1; k < len(path); k++ {
		di := path[k].I - path[k-1].I
		dj := path[k].J - path[k-1].J
		assert.True(t, di >= 0 && di <= 1 && dj >= 0 && dj <= 1 && di+dj > 0, "step %d: %v -> %v", k, path[k-1], path[k])
	}
}

// TestDTW_BandStillReachesEnd verifies that a zero window widens by the
// length difference instead of producing +Inf.
func TestDTW_BandStillReachesEnd(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{1, 2, 3, 4, 5}
	opts := dtw.Options{Window: 0}

	dist, _, err := dtw.DTW(a, b, &opts)
	require.NoError(t, err)
	assert.False(t, math.IsInf(dist, 1))
	assert.Equal(t, 3.0, dist, "4 and 5 both match against 3")
}

func TestDTW_DistanceMatchesHandComputation(t *testing.T) {
	a := []float64{1, 3, 4}
	b := []float64{1, 4}
	dist, _, err := dtw.DTW(a, b, nil)
	require.NoError(t, err)
	// (1,1)=0, (3,4)=1, (4,4)=0
	assert.Equal(t, 1.0, dist)
}
