// Package render runs a score through the whole engine: synthesis, mixing,
// .wav encoding, spectral analysis and level metering.
package render

import (
	"context"
	"fmt"
	"runtime"

	"github.com/vsariola/ddsynth"
	"github.com/vsariola/ddsynth/spectrum"
	"github.com/vsariola/ddsynth/synth"
	"golang.org/x/sync/errgroup"
)

type (
	// Options select the numeric backend and normalization policy of a
	// render. The zero value uses the fixed-point backend, global peak
	// normalization and an unbounded voice pool.
	Options struct {
		Oscillator ddsynth.Oscillator
		Mixer      ddsynth.Mixer
		MaxVoices  int
	}

	// Result is the output of rendering one score.
	Result struct {
		Samples  ddsynth.AudioBuffer
		Wav      []byte
		Spectrum spectrum.Frame
		Level    Level
	}
)

func (o Options) withDefaults() Options {
	if o.Oscillator == nil {
		o.Oscillator = synth.FixedPoint{}
	}
	if o.Mixer == nil {
		o.Mixer = synth.PeakNormalizer{}
	}
	return o
}

// Do renders the score. An invalid score is rejected before anything is
// synthesized and the returned error wraps ddsynth.ErrInvalidScore.
func Do(score ddsynth.Score, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	buffer, err := synth.Play(score, opts.Oscillator, opts.Mixer, synth.ClockOptions{MaxVoices: opts.MaxVoices})
	if err != nil {
		return nil, err
	}
	return &Result{
		Samples:  buffer,
		Wav:      buffer.Wav(),
		Spectrum: spectrum.Analyze(buffer),
		Level:    MeasureLevel(buffer),
	}, nil
}

// All renders independent scores in parallel. Each score gets its own voices
// and buffer; nothing is shared between the renders. If any render fails or
// ctx is cancelled, the first error is returned and all results are
// discarded. A render that has already started runs to completion.
func All(ctx context.Context, scores []ddsynth.Score, opts Options) ([]*Result, error) {
	ret := make([]*Result, len(scores))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, s := range scores {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := Do(s, opts)
			if err != nil {
				return fmt.Errorf("score %d: %w", i, err)
			}
			ret[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}

// SampleCount returns the number of samples rendered.
func (r *Result) SampleCount() int { return len(r.Samples) }

// Duration returns the length of the rendered audio in seconds.
func (r *Result) Duration() float64 { return r.Samples.Seconds() }

// Preview returns the first second of the rendered samples, zero padded.
func (r *Result) Preview() ddsynth.AudioBuffer { return r.Samples.Preview() }
