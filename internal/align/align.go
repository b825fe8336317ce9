package align

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"cantor/internal/dtw"
	"cantor/internal/faults"
	"cantor/internal/logging"
	"cantor/internal/timeseries"
)

// Options fields left at zero take these values.
const (
	DefaultBandWidth   = 0.1
	DefaultLengthRatio = 0.1
	DefaultDownsample  = 10

	// LinearQuality is reported for near-synchronous tracks.
	LinearQuality = 0.95
	// DTWQuality is reported for the DTW branch. It is heuristic, not measured.
	DTWQuality = 0.85
)

// Method names the branch that produced an alignment.
type Method string

const (
	MethodLinear Method = "linear"
	MethodDTW    Method = "dtw"
)

// Options tunes the aligner. Zero values take the defaults above.
type Options struct {
	BandWidth   float64
	LengthRatio float64
	Downsample  int
	MaxCells    int
}

func (o Options) withDefaults() Options {
	if o.BandWidth <= 0 {
		o.BandWidth = DefaultBandWidth
	}
	if o.LengthRatio <= 0 {
		o.LengthRatio = DefaultLengthRatio
	}
	if o.Downsample <= 0 {
		o.Downsample = DefaultDownsample
	}
	return o
}

// Result holds one reference time per karaoke frame. TK is a copy of the
// karaoke frame times and TRef[i] is the reference time frame i maps to.
type Result struct {
	TK      []float64
	TRef    []float64
	Quality float64
	Method  Method
}

// Aligner computes karaoke→reference correspondences.
type Aligner struct {
	opts   Options
	logger *slog.Logger
}

// New constructs an Aligner.
func New(opts Options, logger *slog.Logger) *Aligner {
	return &Aligner{
		opts:   opts.withDefaults(),
		logger: logging.NewComponentLogger(logger, "align"),
	}
}

// Align maps every karaoke frame to a reference time. chroma slices are
// frame-major: chromaK[i] is the pitch-class vector at timesK[i].
func (a *Aligner) Align(chromaK, chromaRef [][]float64, timesK, timesRef []float64) (Result, error) {
	if err := validateTrack("karaoke", chromaK, timesK); err != nil {
		return Result{}, err
	}
	if err := validateTrack("reference", chromaRef, timesRef); err != nil {
		return Result{}, err
	}

	nK, nRef := len(timesK), len(timesRef)
	ratio := math.Abs(float64(nK-nRef)) / float64(max(nK, nRef))
	if ratio < a.opts.LengthRatio {
		a.logger.Debug("tracks near-synchronous; using linear alignment",
			logging.Float64("length_ratio", ratio),
			logging.Int("frames_k", nK),
			logging.Int("frames_ref", nRef),
		)
		return linearResample(timesK, timesRef), nil
	}

	res, err := a.alignDTW(chromaK, chromaRef, timesK, timesRef)
	if err != nil {
		return Result{}, err
	}
	a.logger.Debug("aligned with downsampled dtw",
		logging.Float64("length_ratio", ratio),
		logging.Int("frames_k", nK),
		logging.Int("frames_ref", nRef),
	)
	return res, nil
}

func validateTrack(name string, chroma [][]float64, times []float64) error {
	if len(times) == 0 {
		return faults.Contract("align", name+" track is empty")
	}
	if len(chroma) != len(times) {
		return fmt.Errorf("%s track: %w (chroma=%d times=%d)", name, timeseries.ErrLengthMismatch, len(chroma), len(times))
	}
	if err := timeseries.ValidateTimes(times); err != nil {
		return fmt.Errorf("%s track: %w", name, err)
	}
	return nil
}

// linearResample maps karaoke frame i to the reference time at fractional
// index i·(nRef-1)/(nK-1).
func linearResample(timesK, timesRef []float64) Result {
	nK, nRef := len(timesK), len(timesRef)
	tref := make([]float64, nK)
	for i := range tref {
		if nK == 1 || nRef == 1 {
			tref[i] = timesRef[0]
			continue
		}
		pos := float64(i) * float64(nRef-1) / float64(nK-1)
		lo := int(math.Floor(pos))
		if lo >= nRef-1 {
			tref[i] = timesRef[nRef-1]
			continue
		}
		frac := pos - float64(lo)
		tref[i] = timesRef[lo] + frac*(timesRef[lo+1]-timesRef[lo])
	}
	return Result{
		TK:      append([]float64(nil), timesK...),
		TRef:    tref,
		Quality: LinearQuality,
		Method:  MethodLinear,
	}
}

func (a *Aligner) alignDTW(chromaK, chromaRef [][]float64, timesK, timesRef []float64) (Result, error) {
	step := a.opts.Downsample
	seqK, downK := collapse(chromaK, timesK, step)
	seqRef, downRef := collapse(chromaRef, timesRef, step)

	window := int(a.opts.BandWidth * float64(max(len(seqK), len(seqRef))))
	opts := dtw.Options{Window: window, ReturnPath: true, MaxCells: a.opts.MaxCells}
	_, path, err := dtw.DTW(seqK, seqRef, &opts)
	if err != nil {
		return Result{}, fmt.Errorf("align dtw: %w", err)
	}

	// One reference time per downsampled karaoke frame; repeated rows on the
	// path are averaged.
	xs := make([]float64, 0, len(downK))
	ys := make([]float64, 0, len(downK))
	for start := 0; start < len(path); {
		end := start
		for end < len(path) && path[end].I == path[start].I {
			end++
		}
		refs := make([]float64, 0, end-start)
		for _, c := range path[start:end] {
			refs = append(refs, downRef[c.J])
		}
		xs = append(xs, downK[path[start].I])
		ys = append(ys, stat.Mean(refs, nil))
		start = end
	}

	mapTime, err := timeseries.Clamped(xs, ys)
	if err != nil {
		return Result{}, fmt.Errorf("align upsample: %w", err)
	}
	tref := make([]float64, len(timesK))
	for i, t := range timesK {
		tref[i] = mapTime(t)
	}
	return Result{
		TK:      append([]float64(nil), timesK...),
		TRef:    tref,
		Quality: DTWQuality,
		Method:  MethodDTW,
	}, nil
}

// collapse keeps every step-th frame and reduces each kept chroma vector to
// its mean across pitch classes.
func collapse(chroma [][]float64, times []float64, step int) ([]float64, []float64) {
	n := (len(times) + step - 1) / step
	seq := make([]float64, 0, n)
	down := make([]float64, 0, n)
	for i := 0; i < len(times); i += step {
		frame := chroma[i]
		mean := 0.0
		if len(frame) > 0 {
			mean = stat.Mean(frame, nil)
		}
		seq = append(seq, mean)
		down = append(down, times[i])
	}
	return seq, down
}
