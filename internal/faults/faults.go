package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrContract marks malformed or impossible caller input.
	ErrContract = errors.New("contract violation")
	// ErrInsufficientData marks a sequence too short to align.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrUncoveredTime marks a karaoke time outside every warp segment.
	ErrUncoveredTime = errors.New("uncovered time")
	// ErrUpstreamFeature marks a failed or missing external feature.
	ErrUpstreamFeature = errors.New("upstream feature failure")
)

// Kind names a fail-soft outcome in persisted documents.
type Kind string

const (
	KindInsufficientData Kind = "insufficient_data"
	KindUncoveredTime    Kind = "uncovered_time"
	KindUpstreamFeature  Kind = "upstream_feature"
)

// Degradation records a substitution made instead of failing.
type Degradation struct {
	Kind   Kind   `json:"kind"`
	Stage  string `json:"stage"`
	Detail string `json:"detail"`
	Count  int    `json:"count,omitempty"`
}

// Err returns the sentinel matching the degradation kind.
func (d Degradation) Err() error {
	switch d.Kind {
	case KindInsufficientData:
		return Wrap(ErrInsufficientData, d.Stage, "", d.Detail, nil)
	case KindUncoveredTime:
		return Wrap(ErrUncoveredTime, d.Stage, "", d.Detail, nil)
	default:
		return Wrap(ErrUpstreamFeature, d.Stage, "", d.Detail, nil)
	}
}

// Wrap builds an error message that includes stage context while tagging it
// with marker for later classification. marker should be one of the
// sentinels above; nil defaults to ErrContract.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrContract
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Contract is shorthand for a contract violation raised by stage.
func Contract(stage, message string) error {
	return Wrap(ErrContract, stage, "", message, nil)
}

// IsContract reports whether err is a caller contract violation.
func IsContract(err error) bool {
	return errors.Is(err, ErrContract)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
