// Package align maps a karaoke timeline onto a reference recording's
// timeline from per-frame chroma features.
//
// Near-synchronous tracks (frame counts within 10% of each other) are mapped
// by index-proportional resampling. Otherwise both chroma sequences are
// downsampled, collapsed to their per-frame mean, and aligned with a banded
// DTW; the sparse path is then interpolated back onto every karaoke frame.
// The mean collapse trades harmonic specificity for tractability.
package align
