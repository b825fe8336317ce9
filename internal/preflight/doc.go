// Package preflight verifies the environment cantor needs before a build or
// scoring run: configuration validity, writable data and log directories,
// and an openable catalog.
package preflight
