package synth

import (
	"errors"
	"fmt"

	"github.com/vsariola/ddsynth"
)

type (
	// Clock is the sample clock of the synthesizer. Every tick it starts the
	// notes scheduled for that tick, steps all active voices, and mixes their
	// outputs into one sample. Ticks are strictly sequential; a Clock must not
	// be used from more than one goroutine.
	Clock struct {
		osc     ddsynth.Oscillator
		mixer   ddsynth.Mixer
		tracks  []trackCursor
		voices  []Voice
		outputs []float64
		limit   int
		tick    int
		length  int
	}

	// ClockOptions configure a Clock.
	ClockOptions struct {
		// MaxVoices limits the voice pool to a fixed number of slots, like a
		// hardware synthesizer with a fixed number of oscillators. Zero means
		// the pool grows as needed.
		MaxVoices int
	}

	trackCursor struct {
		track ddsynth.Track
		next  int // index of the next note to start
		start int // tick on which the next note starts
	}
)

// ErrVoicePool is returned when a score needs more simultaneous voices than
// the fixed voice pool has.
var ErrVoicePool = errors.New("voice pool exhausted")

// NewClock validates the score and returns a Clock positioned at tick 0. The
// clock runs for exactly score.Length() ticks.
func NewClock(score ddsynth.Score, osc ddsynth.Oscillator, mixer ddsynth.Mixer, opts ClockOptions) (*Clock, error) {
	if err := score.Validate(); err != nil {
		return nil, err
	}
	c := &Clock{
		osc:    osc,
		mixer:  mixer,
		tracks: make([]trackCursor, len(score.Tracks)),
		limit:  opts.MaxVoices,
		length: score.Length(),
	}
	sounding := 0
	for i, t := range score.Tracks {
		c.tracks[i] = trackCursor{track: t.Copy()}
		for _, n := range t.Notes {
			if !n.Rest {
				sounding++
				break
			}
		}
	}
	// notes of a track never overlap, so every track needs one slot at most
	if c.limit > 0 && sounding > c.limit {
		return nil, fmt.Errorf("%w: score needs %d voices, pool has %d", ErrVoicePool, sounding, c.limit)
	}
	c.voices = make([]Voice, 0, sounding)
	c.outputs = make([]float64, 0, sounding)
	return c, nil
}

// Len returns the total number of ticks of the clock.
func (c *Clock) Len() int { return c.length }

// Tick returns the index of the next tick to be computed.
func (c *Clock) Tick() int { return c.tick }

// Done reports whether every tick has been computed.
func (c *Clock) Done() bool { return c.tick >= c.length }

// ActiveVoices returns the number of voices sounding after the last tick.
func (c *Clock) ActiveVoices() int {
	ret := 0
	for i := range c.voices {
		if c.voices[i].Active() {
			ret++
		}
	}
	return ret
}

// Render computes ticks into buffer until the buffer is full or the clock is
// done, returning the number of samples written. The samples are mixed but
// not yet finished by the Mixer.
func (c *Clock) Render(buffer []float32) (int, error) {
	n := 0
	for ; n < len(buffer) && !c.Done(); n++ {
		s, err := c.step()
		if err != nil {
			return n, err
		}
		buffer[n] = s
	}
	return n, nil
}

func (c *Clock) step() (float32, error) {
	for i := range c.tracks {
		if err := c.startNotes(&c.tracks[i]); err != nil {
			return 0, err
		}
	}
	c.outputs = c.outputs[:0]
	for i := range c.voices {
		if c.voices[i].Active() {
			c.outputs = append(c.outputs, c.voices[i].Step(c.osc))
		}
	}
	c.tick++
	return float32(c.mixer.Mix(c.outputs)), nil
}

func (c *Clock) startNotes(t *trackCursor) error {
	for t.next < len(t.track.Notes) && t.start == c.tick {
		note := t.track.Notes[t.next]
		samples := note.Samples()
		t.next++
		t.start += samples
		if note.Rest || samples <= 0 {
			continue
		}
		v, err := c.allocate()
		if err != nil {
			return err
		}
		v.Trigger(c.osc.Increment(note.Frequency), samples, t.track.Velocity)
	}
	return nil
}

// allocate returns an idle voice slot, reusing the lowest idle slot before
// growing the pool.
func (c *Clock) allocate() (*Voice, error) {
	for i := range c.voices {
		if !c.voices[i].Active() {
			return &c.voices[i], nil
		}
	}
	if c.limit > 0 && len(c.voices) >= c.limit {
		return nil, fmt.Errorf("%w at tick %d: all %d voices active", ErrVoicePool, c.tick, c.limit)
	}
	c.voices = append(c.voices, Voice{})
	return &c.voices[len(c.voices)-1], nil
}

// Play renders the whole score with the given backend and mixer and returns
// the finished buffer of score.Length() samples.
func Play(score ddsynth.Score, osc ddsynth.Oscillator, mixer ddsynth.Mixer, opts ClockOptions) (ddsynth.AudioBuffer, error) {
	clock, err := NewClock(score, osc, mixer, opts)
	if err != nil {
		return nil, err
	}
	buffer := make(ddsynth.AudioBuffer, clock.Len())
	if _, err := clock.Render(buffer); err != nil {
		return nil, fmt.Errorf("synth.Play failed: %w", err)
	}
	mixer.Finish(buffer)
	return buffer, nil
}
