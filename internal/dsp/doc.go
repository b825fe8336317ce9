// Package dsp holds the smoothing filters applied to pitch and loudness
// curves: a sliding median with reflected edges and a Savitzky–Golay
// polynomial smoother whose edges are fitted rather than padded.
package dsp
