package synth

import (
	"fmt"
	"math"
	"sort"

	"github.com/vsariola/ddsynth"
)

type (
	// FixedPoint is the table driven backend: sine values come from the
	// 256-entry quantized waveform table.
	FixedPoint struct{}

	// FloatingPoint computes the sine of the exact phase with math.Sin. It
	// uses the same phase accumulator as FixedPoint, so both oscillate at
	// identical frequencies and differ only by the table quantization.
	FloatingPoint struct{}
)

func (FixedPoint) Increment(frequency float64) uint32 { return PhaseIncrement(frequency) }

func (FixedPoint) Sample(phase uint32) float64 {
	return float64(Sine(phase)) / SineAmplitude
}

func (FloatingPoint) Increment(frequency float64) uint32 { return PhaseIncrement(frequency) }

func (FloatingPoint) Sample(phase uint32) float64 {
	return math.Sin(2 * math.Pi * float64(phase) / phaseScale)
}

var oscillators = map[string]ddsynth.Oscillator{
	"fixed": FixedPoint{},
	"float": FloatingPoint{},
}

// OscillatorByName returns the backend registered with the name "fixed" or
// "float".
func OscillatorByName(name string) (ddsynth.Oscillator, error) {
	if o, ok := oscillators[name]; ok {
		return o, nil
	}
	return nil, fmt.Errorf("unknown oscillator %q, expected one of %v", name, names(oscillators))
}

func names[T any](m map[string]T) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
