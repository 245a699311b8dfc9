package synth

import (
	"github.com/vsariola/ddsynth"
)

// Voice is one sounding note: a phase accumulator oscillator with a linear
// fade in and fade out. A Voice is idle until triggered and returns to idle
// by itself once its samples have been played, after which it can be
// triggered again.
type Voice struct {
	phase     uint32
	increment uint32
	remaining int
	elapsed   int
	velocity  int
}

// Trigger starts the voice from phase 0. The voice stays active for the given
// number of samples; triggering with samples <= 0 leaves the voice idle.
func (v *Voice) Trigger(increment uint32, samples, velocity int) {
	*v = Voice{increment: increment, remaining: max(samples, 0), velocity: velocity}
}

// Active reports whether the voice still has samples to play.
func (v *Voice) Active() bool { return v.remaining > 0 }

func (v *Voice) Phase() uint32     { return v.phase }
func (v *Voice) Remaining() int    { return v.remaining }
func (v *Voice) Elapsed() int      { return v.elapsed }
func (v *Voice) Velocity() int     { return v.velocity }
func (v *Voice) Increment() uint32 { return v.increment }

// Step returns the output of the voice for the current tick and advances it
// by one sample. The output is the oscillator value at the current phase,
// scaled by velocity/127 and by the envelope. The phase wraps modulo 2^32.
// Step on an idle voice returns 0 and does nothing.
func (v *Voice) Step(osc ddsynth.Oscillator) float64 {
	if v.remaining <= 0 {
		return 0
	}
	gain := float64(v.velocity) / ddsynth.MaxVelocity
	out := osc.Sample(v.phase) * gain * Envelope(v.elapsed, v.remaining)
	v.phase += v.increment
	v.remaining--
	v.elapsed++
	return out
}

// Envelope returns the amplitude scale of a voice that has played elapsed
// samples and has remaining samples left (counting the current one). It rises
// linearly over the first FadeSamples samples and falls linearly over the last
// FadeSamples. When a note is too short for the ramps not to overlap, the
// smaller of the two scales is used; they are never multiplied together.
func Envelope(elapsed, remaining int) float64 {
	scale := 1.0
	if elapsed < ddsynth.FadeSamples {
		scale = float64(elapsed) / ddsynth.FadeSamples
	}
	if remaining < ddsynth.FadeSamples {
		scale = min(scale, float64(remaining)/ddsynth.FadeSamples)
	}
	return max(scale, 0)
}
