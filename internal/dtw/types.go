package dtw

// Coord is one index pair on a warping path.
type Coord struct {
	I int
	J int
}

// Options configures a DTW run.
//
//   - Window: Sakoe–Chiba half-width. Row i admits columns
//     [i - max(0, n-m) - Window, i + max(0, m-n) + Window], so the band always
//     contains the end cell. -1 disables the constraint.
//   - ReturnPath: backtrack and return the warping path.
//   - MaxCells: refuse runs whose band needs more than this many cells
//     (n*m when unbanded, 0 means no cap). Only band cells are allocated.
type Options struct {
	Window     int
	ReturnPath bool
	MaxCells   int
}

// DefaultOptions returns an unbanded, distance-only configuration.
func DefaultOptions() Options {
	return Options{Window: -1}
}
