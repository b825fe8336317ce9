// Package warp fits piecewise-linear time maps from alignment pairs and
// answers karaoke→reference lookups against them.
package warp
