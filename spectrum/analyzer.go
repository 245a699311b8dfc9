// Package spectrum computes the magnitude spectrum of the start of an audio
// buffer and picks its strongest peaks.
package spectrum

import (
	"fmt"
	"sort"

	"github.com/mjibson/go-dsp/window"
	"github.com/viterin/vek"
	"github.com/vsariola/ddsynth"
)

type (
	// Analyzer windows the first Size samples of a buffer with a Hann window
	// and transforms them. An Analyzer reuses its scratch buffers, so it must
	// not be used from several goroutines at once.
	Analyzer struct {
		size   int
		window []float64
		re, im []float64
		tmp    []float64
	}

	// Frame is the one-sided magnitude spectrum of a buffer: the center
	// frequency and magnitude of the first Size/2 bins, and the strongest
	// local peaks in descending order of magnitude.
	Frame struct {
		Frequencies []float64
		Magnitudes  []float64
		Peaks       []Peak
	}

	// Peak is a bin whose magnitude is strictly greater than that of both of
	// its neighbours.
	Peak struct {
		Bin       int
		Frequency float64
		Magnitude float64
	}
)

// MaxPeaks is the maximum number of peaks reported in a Frame.
const MaxPeaks = 5

// NewAnalyzer returns an Analyzer for the given transform size, which must be
// a power of two and at least 4.
func NewAnalyzer(size int) (*Analyzer, error) {
	if size < 4 || size&(size-1) != 0 {
		return nil, fmt.Errorf("spectrum: %w: %d", ErrNotPowerOfTwo, size)
	}
	return &Analyzer{
		size:   size,
		window: window.Hann(size),
		re:     make([]float64, size),
		im:     make([]float64, size),
		tmp:    make([]float64, size/2),
	}, nil
}

// NewDefaultAnalyzer returns an Analyzer of ddsynth.FFTSize points.
func NewDefaultAnalyzer() *Analyzer {
	a, err := NewAnalyzer(ddsynth.FFTSize)
	if err != nil {
		panic(err)
	}
	return a
}

// Analyze returns the spectrum of buffer computed with a default Analyzer.
func Analyze(buffer ddsynth.AudioBuffer) Frame {
	return NewDefaultAnalyzer().Analyze(buffer)
}

// Size returns the number of samples transformed.
func (a *Analyzer) Size() int { return a.size }

// BinWidth returns the frequency spacing of the bins in Hz.
func (a *Analyzer) BinWidth() float64 { return float64(ddsynth.SampleRate) / float64(a.size) }

// Window returns a copy of the Hann window w[i] = 0.5*(1-cos(2*pi*i/(N-1))).
func (a *Analyzer) Window() []float64 { return append([]float64(nil), a.window...) }

// Analyze transforms the first Size samples of buffer, padded with zeros if
// the buffer is shorter.
func (a *Analyzer) Analyze(buffer ddsynth.AudioBuffer) Frame {
	n := copy32(a.re, buffer)
	clear(a.re[n:])
	clear(a.im)
	vek.Mul_Inplace(a.re, a.window)
	if err := FFT(a.re, a.im); err != nil {
		panic(err) // size is checked by NewAnalyzer
	}
	half := a.size / 2
	ret := Frame{
		Frequencies: make([]float64, half),
		Magnitudes:  make([]float64, half),
	}
	// the spectrum of a real signal is Hermitian, so the upper half is redundant
	vek.Mul_Into(ret.Magnitudes, a.re[:half], a.re[:half])
	vek.Mul_Into(a.tmp, a.im[:half], a.im[:half])
	vek.Add_Inplace(ret.Magnitudes, a.tmp)
	vek.Sqrt_Inplace(ret.Magnitudes)
	binWidth := a.BinWidth()
	for i := range ret.Frequencies {
		ret.Frequencies[i] = float64(i) * binWidth
	}
	ret.Peaks = findPeaks(ret.Frequencies, ret.Magnitudes, MaxPeaks)
	return ret
}

func copy32(dst []float64, src []float32) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = float64(src[i])
	}
	return n
}

// findPeaks returns at most count local maxima of magnitudes, excluding the
// first and last bin, strongest first. Equal magnitudes keep bin order.
func findPeaks(frequencies, magnitudes []float64, count int) []Peak {
	var peaks []Peak
	for i := 1; i < len(magnitudes)-1; i++ {
		if magnitudes[i] > magnitudes[i-1] && magnitudes[i] > magnitudes[i+1] {
			peaks = append(peaks, Peak{Bin: i, Frequency: frequencies[i], Magnitude: magnitudes[i]})
		}
	}
	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].Magnitude > peaks[j].Magnitude })
	if len(peaks) > count {
		peaks = peaks[:count]
	}
	return peaks
}

// PeakFrequencies returns the frequencies of the peaks, strongest first.
func (f Frame) PeakFrequencies() []float64 {
	ret := make([]float64, len(f.Peaks))
	for i, p := range f.Peaks {
		ret[i] = p.Frequency
	}
	return ret
}

// PeakMagnitudes returns the magnitudes of the peaks, strongest first.
func (f Frame) PeakMagnitudes() []float64 {
	ret := make([]float64, len(f.Peaks))
	for i, p := range f.Peaks {
		ret[i] = p.Magnitude
	}
	return ret
}

// Decimate returns a frame with every step-th bin, starting from bin 0, for
// plotting. The peaks are kept as they are. Steps below 1 are treated as 1.
func (f Frame) Decimate(step int) Frame {
	step = max(step, 1)
	ret := Frame{Peaks: append([]Peak(nil), f.Peaks...)}
	for i := 0; i < len(f.Frequencies); i += step {
		ret.Frequencies = append(ret.Frequencies, f.Frequencies[i])
		ret.Magnitudes = append(ret.Magnitudes, f.Magnitudes[i])
	}
	return ret
}
