// Package performance reads a singer's recorded pitch track.
package performance

import (
	"fmt"

	"cantor/internal/faults"
	"cantor/internal/fileutil"
	"cantor/internal/timeseries"
)

// Performance is an index-aligned pitch track; Pitch is Hz with 0 for
// unvoiced frames.
type Performance struct {
	Timestamps []float64 `json:"timestamps"`
	Pitch      []float64 `json:"pitch"`
}

// Validate checks shape and ordering.
func (p *Performance) Validate() error {
	if _, err := timeseries.New(p.Timestamps, p.Pitch); err != nil {
		return fmt.Errorf("performance: %w", err)
	}
	for i, v := range p.Pitch {
		if v < 0 {
			return faults.Contract("performance", fmt.Sprintf("negative pitch at index %d", i))
		}
	}
	return nil
}

// Series returns the track as a timeseries.
func (p *Performance) Series() timeseries.Series {
	return timeseries.Series{Times: p.Timestamps, Values: p.Pitch}
}

// Voiced counts frames with positive pitch.
func (p *Performance) Voiced() int {
	n := 0
	for _, v := range p.Pitch {
		if v > 0 {
			n++
		}
	}
	return n
}

// Load reads and validates a performance document.
func Load(path string) (*Performance, error) {
	var p Performance
	if err := fileutil.ReadJSON(path, &p); err != nil {
		return nil, fmt.Errorf("load performance: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
