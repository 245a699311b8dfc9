package spectrum

import (
	"errors"
	"fmt"
	"math"
)

// Verification is the result of comparing the peaks of a Frame against an
// expected frequency.
type Verification struct {
	Expected  float64 // Hz
	Detected  float64 // Hz, the peak closest to Expected
	Error     float64 // relative error |Detected-Expected|/Expected
	Tolerance float64 // maximum accepted relative error
	Accurate  bool
}

// DefaultTolerance is the default relative tolerance for Verify.
const DefaultTolerance = 0.02

// ErrNoPeaks is returned by Verify when the frame has no peaks.
var ErrNoPeaks = errors.New("spectrum has no peaks")

// Verify finds the peak closest to the expected frequency and reports whether
// its relative error is within tolerance.
func Verify(f Frame, expected, tolerance float64) (Verification, error) {
	if !(expected > 0) {
		return Verification{}, fmt.Errorf("expected frequency %v should be > 0", expected)
	}
	if len(f.Peaks) == 0 {
		return Verification{}, ErrNoPeaks
	}
	detected := f.Peaks[0].Frequency
	for _, p := range f.Peaks[1:] {
		if math.Abs(p.Frequency-expected) < math.Abs(detected-expected) {
			detected = p.Frequency
		}
	}
	relErr := math.Abs(detected-expected) / expected
	return Verification{
		Expected:  expected,
		Detected:  detected,
		Error:     relErr,
		Tolerance: tolerance,
		Accurate:  relErr <= tolerance,
	}, nil
}
