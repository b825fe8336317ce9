package score

import (
	"runtime"
	"time"
)

// Options tunes scoring. Zero values take the defaults.
type Options struct {
	// TolCents is the largest |error| counted as in tune.
	TolCents float64
	// MaxSamples caps each side of a phrase before DTW.
	MaxSamples int
	// MaxCells caps the DTW matrix; 0 disables the check.
	MaxCells int
	// Workers bounds concurrent phrases; defaults to GOMAXPROCS.
	Workers int
	// Timeout bounds a whole Score call; 0 means none.
	Timeout     time.Duration
	ChartPoints int
}

func (o Options) withDefaults() Options {
	if o.TolCents <= 0 {
		o.TolCents = DefaultTolCents
	}
	if o.MaxSamples <= 0 {
		o.MaxSamples = DefaultMaxSamples
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.ChartPoints <= 0 {
		o.ChartPoints = DefaultChartPoints
	}
	return o
}
