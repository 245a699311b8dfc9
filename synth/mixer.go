package synth

import (
	"fmt"
	"math"

	"github.com/vsariola/ddsynth"
)

type (
	// PeakNormalizer sums the voices of each tick and, once the buffer is
	// complete, divides every sample by the largest absolute sample if that
	// exceeds 1. It needs the whole buffer, so it is meant for offline
	// rendering; it is the default.
	PeakNormalizer struct{}

	// AveragingMixer outputs the mean of the active voices of each tick, or 0
	// when none are active. It is causal and can be used for streaming, but
	// the loudness of a voice changes when other voices start or stop.
	AveragingMixer struct{}
)

func (PeakNormalizer) Mix(samples []float64) float64 {
	ret := 0.0
	for _, s := range samples {
		ret += s
	}
	return ret
}

func (PeakNormalizer) Finish(buffer ddsynth.AudioBuffer) {
	peak := float32(0)
	for _, s := range buffer {
		peak = max(peak, float32(math.Abs(float64(s))))
	}
	if peak <= 1 {
		return
	}
	for i := range buffer {
		buffer[i] = min(max(buffer[i]/peak, -1), 1)
	}
}

func (AveragingMixer) Mix(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return PeakNormalizer{}.Mix(samples) / float64(len(samples))
}

func (AveragingMixer) Finish(buffer ddsynth.AudioBuffer) {
	for i := range buffer {
		buffer[i] = min(max(buffer[i], -1), 1)
	}
}

var mixers = map[string]ddsynth.Mixer{
	"peak":    PeakNormalizer{},
	"average": AveragingMixer{},
}

// MixerByName returns the mixer registered with the name "peak" or
// "average".
func MixerByName(name string) (ddsynth.Mixer, error) {
	if m, ok := mixers[name]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("unknown mixer %q, expected one of %v", name, names(mixers))
}
