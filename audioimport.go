package ddsynth

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"
)

// ErrSampleRate is returned when decoded audio is not at SampleRate.
var ErrSampleRate = errors.New("unsupported sample rate")

// ReadWav decodes a PCM .wav file into an AudioBuffer. Only the first channel
// is kept and the samples are scaled by the bit depth of the file, so that a
// file written with Wav decodes back to within one quantization step of the
// original buffer.
func ReadWav(r io.ReadSeeker) (AudioBuffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("wav: not a valid wav file")
	}
	if dec.SampleRate != SampleRate {
		return nil, fmt.Errorf("wav: %w: %d Hz, expected %d Hz", ErrSampleRate, dec.SampleRate, SampleRate)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}
	chans := int(dec.NumChans)
	depth := buf.SourceBitDepth
	if depth <= 0 {
		depth = int(dec.BitDepth)
	}
	if chans < 1 || depth < 16 || depth > 32 {
		return nil, fmt.Errorf("wav: unsupported format: %d channels, %d bits", chans, depth)
	}
	scale := float32(int64(1) << (depth - 1))
	ret := make(AudioBuffer, 0, len(buf.Data)/chans)
	// copy first channel only of data stream
	for i := 0; i < len(buf.Data); i += chans {
		ret = append(ret, float32(buf.Data[i])/scale)
	}
	return ret, nil
}
