package dtw

import (
	"fmt"
	"math"

	"cantor/internal/faults"
)

var (
	// ErrEmptyInput indicates one or both inputs are empty.
	ErrEmptyInput = fmt.Errorf("%w: dtw: input sequences must be non-empty", faults.ErrContract)
	// ErrBadInput indicates invalid options.
	ErrBadInput = fmt.Errorf("%w: dtw: invalid options", faults.ErrContract)
	// ErrTooLarge indicates the cost matrix would exceed Options.MaxCells.
	ErrTooLarge = fmt.Errorf("%w: dtw: cost matrix exceeds cell limit", faults.ErrContract)
)

// DTW returns the accumulated alignment distance between a and b and, when
// opts.ReturnPath is set, the warping path from (0,0) to (n-1,m-1).
// A nil opts behaves like DefaultOptions.
func DTW(a, b []float64, opts *Options) (float64, []Coord, error) {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return 0, nil, ErrEmptyInput
	}
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if o.Window < -1 || o.MaxCells < 0 {
		return 0, nil, fmt.Errorf("%w (window=%d max_cells=%d)", ErrBadInput, o.Window, o.MaxCells)
	}
	cost := newBandMatrix(n, m, o.Window)
	if o.MaxCells > 0 && cost.cells > o.MaxCells {
		return 0, nil, fmt.Errorf("%w (%dx%d band needs %d > %d)", ErrTooLarge, n, m, cost.cells, o.MaxCells)
	}
	cost.allocate()

	for i := 1; i <= n; i++ {
		row := cost.rows[i]
		lo := cost.lo[i]
		for j := lo; j < lo+len(row); j++ {
			best := min3(cost.at(i-1, j-1), cost.at(i-1, j), cost.at(i, j-1))
			row[j-lo] = math.Abs(a[i-1]-b[j-1]) + best
		}
	}

	distance := cost.at(n, m)
	if !o.ReturnPath || math.IsInf(distance, 1) {
		return distance, nil, nil
	}
	return distance, backtrack(cost, n, m), nil
}

// bandMatrix holds the accumulated cost for the evaluated band only. Row 0
// and column 0 are the implicit boundary: zero at (0,0), +Inf elsewhere.
type bandMatrix struct {
	lo    []int
	width []int
	rows  [][]float64
	cells int
}

func newBandMatrix(n, m, window int) *bandMatrix {
	bm := &bandMatrix{lo: make([]int, n+1), width: make([]int, n+1)}
	for i := 1; i <= n; i++ {
		lo, hi := bandRange(i, n, m, window)
		bm.lo[i] = lo
		bm.width[i] = max(0, hi-lo+1)
		bm.cells += bm.width[i]
	}
	return bm
}

func (bm *bandMatrix) allocate() {
	backing := make([]float64, bm.cells)
	bm.rows = make([][]float64, len(bm.lo))
	off := 0
	for i := 1; i < len(bm.lo); i++ {
		bm.rows[i] = backing[off : off+bm.width[i] : off+bm.width[i]]
		off += bm.width[i]
	}
}

// at returns the accumulated cost at 1-based (i, j), +Inf outside the band.
func (bm *bandMatrix) at(i, j int) float64 {
	if i == 0 || j == 0 {
		if i == 0 && j == 0 {
			return 0
		}
		return math.Inf(1)
	}
	k := j - bm.lo[i]
	if k < 0 || k >= len(bm.rows[i]) {
		return math.Inf(1)
	}
	return bm.rows[i][k]
}

// bandRange returns the inclusive 1-based column range evaluated for row i.
func bandRange(i, n, m, window int) (int, int) {
	if window < 0 {
		return 1, m
	}
	lo := i - max(0, n-m) - window
	hi := i + max(0, m-n) + window
	return max(lo, 1), min(hi, m)
}

// backtrack walks from (n,m) to (1,1) choosing the cheapest predecessor.
// Ties prefer the diagonal, then the row step, then the column step.
func backtrack(cost *bandMatrix, n, m int) []Coord {
	path := make([]Coord, 0, n+m)
	i, j := n, m
	for {
		path = append(path, Coord{I: i - 1, J: j - 1})
		if i == 1 && j == 1 {
			break
		}
		diag, up, left := math.Inf(1), math.Inf(1), math.Inf(1)
		if i > 1 && j > 1 {
			diag = cost.at(i-1, j-1)
		}
		if i > 1 {
			up = cost.at(i-1, j)
		}
		if j > 1 {
			left = cost.at(i, j-1)
		}
		switch {
		case diag <= up && diag <= left:
			i--
			j--
		case up <= left:
			i--
		default:
			j--
		}
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

// min3 returns the minimum of three float64 values.
func min3(a, b, c float64) float64 {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
