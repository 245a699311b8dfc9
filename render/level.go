package render

import (
	"math"

	"github.com/viterin/vek/vek32"
	"github.com/vsariola/ddsynth"
)

// Decibel is a level relative to digital full scale (dBFS).
type Decibel float32

// Level is the sample peak and the RMS level of a buffer. Silence measures
// as negative infinity.
type Level struct {
	Peak Decibel
	RMS  Decibel
}

// MeasureLevel measures the level of the whole buffer.
func MeasureLevel(buffer ddsynth.AudioBuffer) Level {
	if len(buffer) == 0 {
		return Level{Peak: Decibel(math.Inf(-1)), RMS: Decibel(math.Inf(-1))}
	}
	tmp := make([]float32, len(buffer))
	power := vek32.Mean(vek32.Mul_Into(tmp, buffer, buffer))
	copy(tmp, buffer)
	vek32.Abs_Inplace(tmp)
	peak := vek32.Max(tmp)
	return Level{
		Peak: amplitude2decibel(peak),
		RMS:  Decibel(10 * math.Log10(float64(power))),
	}
}

func amplitude2decibel(a float32) Decibel {
	return Decibel(20 * math.Log10(float64(a)))
}
