// Package features derives song-level descriptors from the karaoke track's
// extracted features: downbeats, tempo, key and a smoothed loudness curve.
//
// Estimators that can fail on degenerate input return an error; the reference
// builder substitutes DefaultKey or DefaultTempo and records the degradation.
package features
