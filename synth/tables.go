package synth

import (
	"fmt"
	"math"

	"github.com/vsariola/ddsynth"
)

const (
	// NumNotes is the number of entries in the note table, MIDI notes 0..127.
	NumNotes = 128
	// SineTableSize is the number of waveform entries per cycle; the top
	// SineTableBits bits of the phase accumulator index the table.
	SineTableSize = 1 << SineTableBits
	SineTableBits = 8
	// SineAmplitude is the table value corresponding to full scale.
	SineAmplitude = math.MaxInt16

	phaseScale = 1 << 32
)

// noteIncrements and sineTable are computed once and never written after
// package initialization.
var (
	noteIncrements = func() (ret [NumNotes]uint32) {
		for i := range ret {
			ret[i] = PhaseIncrement(NoteFrequency(i))
		}
		return
	}()

	sineTable = func() (ret [SineTableSize]int16) {
		// second half is the exact negation of the first to keep the
		// table symmetric regardless of rounding in math.Sin
		for i := 0; i < SineTableSize/2; i++ {
			v := int16(math.Round(math.Sin(2*math.Pi*float64(i)/SineTableSize) * SineAmplitude))
			ret[i] = v
			ret[i+SineTableSize/2] = -v
		}
		return
	}()
)

// PhaseIncrement returns the amount a 32-bit phase accumulator advances per
// sample to oscillate at the given frequency: round(frequency * 2^32 /
// SampleRate), wrapped modulo 2^32 so frequencies above the sample rate
// alias the same way the accumulator does.
func PhaseIncrement(frequency float64) uint32 {
	x := math.Mod(math.Round(frequency*phaseScale/ddsynth.SampleRate), phaseScale)
	if x < 0 {
		x += phaseScale
	}
	return uint32(x)
}

// NoteFrequency returns the equal tempered frequency of a MIDI note number,
// with note 69 (A4) at 440 Hz.
func NoteFrequency(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}

// NoteIncrement returns the precomputed phase increment of a MIDI note
// number. It panics if note is outside 0..127.
func NoteIncrement(note int) uint32 {
	if note < 0 || note >= NumNotes {
		panic(fmt.Sprintf("synth: note %d outside 0..%d", note, NumNotes-1))
	}
	return noteIncrements[note]
}

// Sine returns the quantized sine of the phase, looked up with the top 8 bits
// of the phase, without interpolation.
func Sine(phase uint32) int16 {
	return sineTable[phase>>(32-SineTableBits)]
}
