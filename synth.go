package ddsynth

type (
	// Oscillator is the numeric backend of the synthesizer: it converts
	// frequencies into phase increments of a 32-bit phase accumulator, and
	// phases into waveform values in [-1, 1]. The fixed-point table driven
	// backend and the floating point backend are interchangeable.
	Oscillator interface {
		Increment(frequency float64) uint32
		Sample(phase uint32) float64
	}

	// Mixer combines the voices sounding at one tick into a single sample and
	// post-processes the complete buffer so that every sample ends up in
	// [-1, 1]. A Mixer must not change the relative amplitudes of the voices
	// sounding at the same tick.
	Mixer interface {
		// Mix is called once per tick with the outputs of the active voices;
		// samples is empty when no voice is active.
		Mix(samples []float64) float64
		// Finish is called once the buffer is complete.
		Finish(buffer AudioBuffer)
	}
)
