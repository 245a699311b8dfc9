package ddsynth

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// AudioBuffer is a buffer of mono audio samples at SampleRate, nominally in
// the range [-1, 1].
type AudioBuffer []float32

const (
	wavHeaderSize  = 44
	bytesPerSample = 2
	numChannels    = 1
)

// Wav encodes the samples as a canonical 16-bit mono PCM .wav file.
func Wav(samples []float32) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+bytesPerSample*len(samples)))
	wavHeader(len(samples), buf)
	rawToBuffer(samples, buf)
	return buf.Bytes()
}

// Raw encodes the samples as headerless 16-bit little-endian PCM, i.e. the
// data chunk of the .wav file.
func Raw(samples []float32) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, bytesPerSample*len(samples)))
	rawToBuffer(samples, buf)
	return buf.Bytes()
}

// Wav returns the buffer as a .wav file. See Wav.
func (b AudioBuffer) Wav() []byte { return Wav(b) }

// Raw returns the buffer as 16-bit PCM without a header. See Raw.
func (b AudioBuffer) Raw() []byte { return Raw(b) }

// WriteWav writes the buffer to w as a .wav file.
func (b AudioBuffer) WriteWav(w io.Writer) error {
	if _, err := w.Write(Wav(b)); err != nil {
		return fmt.Errorf("could not write .wav data: %w", err)
	}
	return nil
}

// Preview returns exactly PreviewSamples samples from the start of the
// buffer, padded with silence if the buffer is shorter.
func (b AudioBuffer) Preview() AudioBuffer {
	ret := make(AudioBuffer, PreviewSamples)
	copy(ret, b)
	return ret
}

// Seconds returns the duration of the buffer in seconds.
func (b AudioBuffer) Seconds() float64 {
	return float64(len(b)) / SampleRate
}

// Quantize converts a sample into a signed 16-bit PCM value. The sample is
// first clamped to [-1, 1]; negative values are scaled by 32768 and the rest
// by 32767, truncating towards zero, so that both -1 and 1 reach full scale.
func Quantize(v float32) int16 {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return 0
	case f < -1:
		f = -1
	case f > 1:
		f = 1
	}
	if f < 0 {
		return int16(f * 32768)
	}
	return int16(f * 32767)
}

func rawToBuffer(data []float32, buf *bytes.Buffer) {
	var b [bytesPerSample]byte
	for _, v := range data {
		binary.LittleEndian.PutUint16(b[:], uint16(Quantize(v)))
		buf.Write(b[:])
	}
}

// wavHeader writes the 44 byte header of a 16-bit mono PCM .wav file holding
// sampleCount samples at SampleRate.
func wavHeader(sampleCount int, buf *bytes.Buffer) {
	// Refer to: http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
	dataSize := bytesPerSample * sampleCount
	buf.Write([]byte("RIFF"))
	binary.Write(buf, binary.LittleEndian, uint32(wavHeaderSize-8+dataSize))
	buf.Write([]byte("WAVE"))
	buf.Write([]byte("fmt "))
	binary.Write(buf, binary.LittleEndian, uint32(16))                                    // fmt chunk size
	binary.Write(buf, binary.LittleEndian, uint16(1))                                     // PCM
	binary.Write(buf, binary.LittleEndian, uint16(numChannels))                           // mono
	binary.Write(buf, binary.LittleEndian, uint32(SampleRate))                            // sample rate
	binary.Write(buf, binary.LittleEndian, uint32(SampleRate*numChannels*bytesPerSample)) // avgBytesPerSec
	binary.Write(buf, binary.LittleEndian, uint16(numChannels*bytesPerSample))            // blockAlign
	binary.Write(buf, binary.LittleEndian, uint16(8*bytesPerSample))                      // bits per sample
	buf.Write([]byte("data"))
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
}
