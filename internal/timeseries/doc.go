// Package timeseries holds the parallel time/value sequences shared by the
// alignment and scoring stages, with validation, phrase windowing, linear
// interpolation, and order statistics.
package timeseries
