// Package reference builds and persists the per-song reference asset.
//
// A build consumes a feature bundle (chroma, reference pitch, beats, onsets
// and RMS produced by external extractors) and runs the alignment pipeline:
//
//	align → warp fit → segment index → pitch clean → pitch warp → note bins
//
// alongside the song-level features (phrases, downbeats, tempo, key,
// loudness). Fail-soft substitutions are collected in Asset.Degradations so a
// degraded asset is distinguishable from a clean one.
package reference
