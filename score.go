package ddsynth

import (
	"errors"
	"fmt"
	"math"
)

type (
	// Score is the arrangement of notes to be synthesized: a set of tracks
	// that all start at t=0 and are mixed together. The order of the tracks
	// does not affect the output.
	Score struct {
		Tracks []Track
	}

	// Track is a monophonic line of notes, played back-to-back in the order
	// they appear. All notes of the track share the same velocity.
	Track struct {
		// Velocity is the loudness of the track, 0..127, like MIDI velocity.
		// 127 means full scale.
		Velocity int
		Notes    []Note `yaml:",flow"`
	}

	// Note is a single tone of a track. Rest notes occupy their duration on
	// the timeline of the track but do not sound; their Frequency is ignored.
	Note struct {
		Frequency float64 `yaml:",omitempty"` // in Hz
		Duration  float64 // in seconds
		Rest      bool    `yaml:",omitempty"`
	}
)

const (
	// SampleRate is the only sample rate the engine supports, in Hz.
	SampleRate = 44100
	// FadeSamples is the length of the linear fade in and fade out of each
	// note, 10 ms at SampleRate.
	FadeSamples = 441
	// FFTSize is the number of leading samples analyzed by the spectrum
	// analyzer.
	FFTSize = 2048
	// PreviewSamples is the length of the waveform preview, exactly one
	// second.
	PreviewSamples = SampleRate
	// MaxVelocity is the velocity corresponding to full scale.
	MaxVelocity = 127
)

// ErrInvalidScore is returned (wrapped, with details) when a Score fails
// validation. No part of an invalid score is ever rendered.
var ErrInvalidScore = errors.New("invalid score")

// Samples returns the number of samples the note lasts, rounded to the nearest
// sample.
func (n Note) Samples() int {
	return int(math.Round(n.Duration * SampleRate))
}

// Duration returns the summed duration of the notes of the track, in seconds.
func (t Track) Duration() float64 {
	ret := 0.0
	for _, n := range t.Notes {
		ret += n.Duration
	}
	return ret
}

// Copy makes a deep copy of a Track.
func (t *Track) Copy() Track {
	notes := make([]Note, len(t.Notes))
	copy(notes, t.Notes)
	return Track{Velocity: t.Velocity, Notes: notes}
}

// Copy makes a deep copy of a Score.
func (s Score) Copy() Score {
	tracks := make([]Track, len(s.Tracks))
	for i, t := range s.Tracks {
		tracks[i] = t.Copy()
	}
	return Score{Tracks: tracks}
}

// Duration returns the duration of the longest track, in seconds.
func (s Score) Duration() float64 {
	ret := 0.0
	for _, t := range s.Tracks {
		ret = max(ret, t.Duration())
	}
	return ret
}

// Length returns the length of the rendered score in samples, i.e. the
// duration of the longest track rounded up to whole samples.
func (s Score) Length() int {
	return int(math.Ceil(s.Duration() * SampleRate))
}

// NumNotes returns the total number of sounding (non-rest) notes in the score.
func (s Score) NumNotes() int {
	ret := 0
	for _, t := range s.Tracks {
		for _, n := range t.Notes {
			if !n.Rest {
				ret++
			}
		}
	}
	return ret
}

// Validate checks that the score can be rendered: it has at least one track,
// every track has at least one note, velocities are within 0..127 and every
// duration, and the frequency of every sounding note, is a positive finite
// number. The returned error wraps ErrInvalidScore.
func (s *Score) Validate() error {
	if len(s.Tracks) == 0 {
		return fmt.Errorf("%w: score contains no tracks", ErrInvalidScore)
	}
	for i, t := range s.Tracks {
		if len(t.Notes) == 0 {
			return fmt.Errorf("%w: track %d contains no notes", ErrInvalidScore, i)
		}
		if t.Velocity < 0 || t.Velocity > MaxVelocity {
			return fmt.Errorf("%w: track %d: velocity %d outside 0..%d", ErrInvalidScore, i, t.Velocity, MaxVelocity)
		}
		for j, n := range t.Notes {
			if !positive(n.Duration) {
				return fmt.Errorf("%w: track %d, note %d: duration %v should be > 0", ErrInvalidScore, i, j, n.Duration)
			}
			if !n.Rest && !positive(n.Frequency) {
				return fmt.Errorf("%w: track %d, note %d: frequency %v should be > 0", ErrInvalidScore, i, j, n.Frequency)
			}
		}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
