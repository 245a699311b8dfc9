package oto

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/vsariola/ddsynth"
)

type (
	// OtoContext plays ddsynth.AudioBuffers on the default audio device.
	OtoContext struct {
		context *oto.Context
	}

	// OtoPlayback is a buffer being played.
	OtoPlayback struct {
		player *oto.Player
	}
)

const otoBufferSize = 100 * time.Millisecond

// NewContext creates and initializes a new OtoContext for mono float32 audio
// at ddsynth.SampleRate. It blocks until the audio device is ready.
func NewContext() (*OtoContext, error) {
	op := &oto.NewContextOptions{
		SampleRate:   ddsynth.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   otoBufferSize,
	}
	context, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &OtoContext{context: context}, nil
}

// Play starts playing the buffer and returns immediately.
func (c *OtoContext) Play(buffer ddsynth.AudioBuffer) ddsynth.CloserWaiter {
	p := c.context.NewPlayer(bytes.NewReader(FloatBufferToLE(buffer)))
	p.Play()
	return &OtoPlayback{player: p}
}

// Close suspends the audio device; oto contexts cannot be released.
func (c *OtoContext) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

// Wait blocks until the whole buffer has been played.
func (o *OtoPlayback) Wait() {
	for o.player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
}

// Close stops the playback.
func (o *OtoPlayback) Close() error {
	o.player.Pause()
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

// FloatBufferToLE converts a buffer into the float32 little-endian byte
// layout oto expects, clamping samples to [-1, 1].
func FloatBufferToLE(buffer ddsynth.AudioBuffer) []byte {
	ret := make([]byte, 4*len(buffer))
	for i, v := range buffer {
		v = min(max(v, -1), 1)
		binary.LittleEndian.PutUint32(ret[4*i:], math.Float32bits(v))
	}
	return ret
}
