// Package main hosts the cantor CLI.
//
// Commands build reference assets from extracted feature bundles, score
// performances against them, and inspect the song/run catalog. The heavy
// lifting lives in internal/reference and internal/score; this package
// resolves configuration, logging and output paths.
package main
