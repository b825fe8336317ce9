package warp

import (
	"sort"

	"cantor/internal/faults"
)

// Index answers segment lookups in O(log n). Segments are kept sorted by
// TKStart alongside a running maximum of TKEnd, so the first segment whose
// reach covers tk is found by binary search even when spans overlap.
type Index struct {
	segments []Segment
	reach    []float64
}

// NewIndex copies and sorts segments. An empty slice is a contract error.
func NewIndex(segments []Segment) (*Index, error) {
	if len(segments) == 0 {
		return nil, faults.Contract("warp index", "no segments")
	}
	sorted := append([]Segment(nil), segments...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TKStart < sorted[j].TKStart })

	reach := make([]float64, len(sorted))
	for i, s := range sorted {
		reach[i] = s.TKEnd
		if i > 0 && reach[i-1] > reach[i] {
			reach[i] = reach[i-1]
		}
	}
	return &Index{segments: sorted, reach: reach}, nil
}

// Segments returns the sorted segments.
func (x *Index) Segments() []Segment {
	return append([]Segment(nil), x.segments...)
}

// Len reports the number of segments.
func (x *Index) Len() int { return len(x.segments) }

// Lookup returns the first segment containing tk. When none does it returns
// the segment with the nearest TKStart (lower index on ties) and covered is
// false.
func (x *Index) Lookup(tk float64) (seg Segment, covered bool) {
	n := len(x.segments)
	// Every segment before i ends before tk.
	i := sort.Search(n, func(k int) bool { return x.reach[k] >= tk })
	for k := i; k < n && x.segments[k].TKStart <= tk; k++ {
		if x.segments[k].TKEnd >= tk {
			return x.segments[k], true
		}
	}
	return x.segments[x.nearestStart(tk)], false
}

// Map converts tk to reference time through Lookup.
func (x *Index) Map(tk float64) (tref float64, covered bool) {
	seg, covered := x.Lookup(tk)
	return seg.Map(tk), covered
}

func (x *Index) nearestStart(tk float64) int {
	n := len(x.segments)
	j := sort.Search(n, func(k int) bool { return x.segments[k].TKStart >= tk })
	switch {
	case j == 0:
		return 0
	case j == n:
		return n - 1
	}
	before := tk - x.segments[j-1].TKStart
	after := x.segments[j].TKStart - tk
	if before <= after {
		// Equal TKStart values sort stably; prefer the first of the run.
		k := j - 1
		for k > 0 && x.segments[k-1].TKStart == x.segments[k].TKStart {
			k--
		}
		return k
	}
	return j
}
