// Package faults classifies pipeline failures.
//
// Contract violations (malformed input the caller must fix) are hard errors
// tagged with ErrContract. Everything else in the alignment and scoring core
// degrades to a safe default; those outcomes are recorded as Degradation
// values so callers can distinguish "degraded but valid" from "clean".
package faults
