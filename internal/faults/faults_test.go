package faults

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsMarkerAndCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(ErrUpstreamFeature, "features", "key", "flat chroma", cause)
	if !errors.Is(err, ErrUpstreamFeature) {
		t.Fatalf("expected upstream marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be wrapped, got %v", err)
	}
	if !strings.Contains(err.Error(), "features: key: flat chroma") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapDefaultsToContract(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !IsContract(err) {
		t.Fatalf("expected contract violation, got %v", err)
	}
	if !strings.Contains(err.Error(), "pipeline failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestDegradationErrMapsKind(t *testing.T) {
	cases := map[Kind]error{
		KindInsufficientData: ErrInsufficientData,
		KindUncoveredTime:    ErrUncoveredTime,
		KindUpstreamFeature:  ErrUpstreamFeature,
	}
	for kind, want := range cases {
		d := Degradation{Kind: kind, Stage: "warp", Detail: "x"}
		if !errors.Is(d.Err(), want) {
			t.Fatalf("kind %s: expected %v, got %v", kind, want, d.Err())
		}
		if IsContract(d.Err()) {
			t.Fatalf("kind %s should not be a contract violation", kind)
		}
	}
}
