package spectrum_test

import (
	"errors"
	"math"
	"testing"

	"github.com/vsariola/ddsynth/spectrum"
)

func TestVerify(t *testing.T) {
	frame := spectrum.Frame{Peaks: []spectrum.Peak{
		{Frequency: 1001, Magnitude: 10},
		{Frequency: 440, Magnitude: 5},
		{Frequency: 452, Magnitude: 1},
	}}
	v, err := spectrum.Verify(frame, 445, spectrum.DefaultTolerance)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if v.Detected != 440 || !v.Accurate || math.Abs(v.Error-5.0/445) > 1e-12 {
		t.Fatalf("Verify = %+v", v)
	}
	v, err = spectrum.Verify(frame, 700, spectrum.DefaultTolerance)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if v.Accurate {
		t.Fatalf("700 Hz should not verify against %+v", v)
	}
	if _, err := spectrum.Verify(spectrum.Frame{}, 440, 0.02); !errors.Is(err, spectrum.ErrNoPeaks) {
		t.Fatalf("Verify of empty frame error = %v, want ErrNoPeaks", err)
	}
	if _, err := spectrum.Verify(frame, 0, 0.02); err == nil {
		t.Fatalf("Verify should reject a non-positive expected frequency")
	}
}
