package ddsynth

type (
	// AudioContext plays audio buffers on an audio device.
	AudioContext interface {
		Play(buffer AudioBuffer) CloserWaiter
		Close() error
	}

	// CloserWaiter is a handle to audio that is being played; Wait blocks
	// until the playback has finished and Close stops it early.
	CloserWaiter interface {
		Close() error
		Wait()
	}
)
