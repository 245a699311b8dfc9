// Package midifile converts Standard MIDI Files into scores.
//
// MIDI tracks are polyphonic while score tracks are not, so the notes of each
// MIDI track and channel are packed into as few monophonic score tracks as
// possible: a note goes to the first score track that has finished its
// previous note, and any silence in between becomes a rest.
package midifile

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/vsariola/ddsynth"
	"github.com/vsariola/ddsynth/synth"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type (
	noteEvent struct {
		start, end int64 // microseconds
		key        uint8
		velocity   uint8
	}

	// group is one channel of one MIDI track
	group struct {
		track   int
		channel uint8
	}

	openKey struct {
		group
		key uint8
	}

	lane struct {
		end   int64
		track ddsynth.Track
	}
)

// ErrNoNotes is returned when the file contains no complete notes.
var ErrNoNotes = errors.New("midi file contains no notes")

// ReadFile reads the Standard MIDI File at path. See Read.
func ReadFile(path string) (ddsynth.Score, error) {
	f, err := os.Open(path)
	if err != nil {
		return ddsynth.Score{}, fmt.Errorf("could not open midi file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a Standard MIDI File and converts its notes into a Score. Note
// numbers are converted to equal tempered frequencies and tempo changes are
// honoured. Each score track takes the velocity of its first note.
func Read(r io.Reader) (ddsynth.Score, error) {
	notes := map[group][]noteEvent{}
	open := map[openKey]noteEvent{}
	var last int64
	closeNote := func(k openKey, at int64) {
		if n, ok := open[k]; ok {
			delete(open, k)
			if at > n.start {
				n.end = at
				notes[k.group] = append(notes[k.group], n)
			}
		}
	}
	rd := smf.ReadTracksFrom(r).Do(func(te smf.TrackEvent) {
		last = max(last, te.AbsMicroSeconds)
		msg := midi.Message(te.Message)
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			k := openKey{group{te.TrackNo, ch}, key}
			closeNote(k, te.AbsMicroSeconds) // retriggered without note off
			open[k] = noteEvent{start: te.AbsMicroSeconds, key: key, velocity: vel}
		case msg.GetNoteEnd(&ch, &key):
			closeNote(openKey{group{te.TrackNo, ch}, key}, te.AbsMicroSeconds)
		}
	})
	if err := rd.Error(); err != nil {
		return ddsynth.Score{}, fmt.Errorf("could not read midi file: %w", err)
	}
	for k := range open {
		closeNote(k, last)
	}
	groups := make([]group, 0, len(notes))
	for g := range notes {
		groups = append(groups, g)
	}
	slices.SortFunc(groups, func(a, b group) int {
		if c := cmp.Compare(a.track, b.track); c != 0 {
			return c
		}
		return cmp.Compare(a.channel, b.channel)
	})
	var score ddsynth.Score
	for _, g := range groups {
		for _, l := range pack(notes[g]) {
			score.Tracks = append(score.Tracks, l.track)
		}
	}
	if len(score.Tracks) == 0 {
		return ddsynth.Score{}, ErrNoNotes
	}
	return score, nil
}

// pack distributes possibly overlapping notes into monophonic lanes.
func pack(events []noteEvent) []lane {
	slices.SortStableFunc(events, func(a, b noteEvent) int {
		if c := cmp.Compare(a.start, b.start); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})
	var lanes []lane
	for _, e := range events {
		i := slices.IndexFunc(lanes, func(l lane) bool { return l.end <= e.start })
		if i < 0 {
			lanes = append(lanes, lane{track: ddsynth.Track{Velocity: int(e.velocity)}})
			i = len(lanes) - 1
		}
		l := &lanes[i]
		if gap := e.start - l.end; gap > 0 {
			l.track.Notes = append(l.track.Notes, ddsynth.Note{Duration: seconds(gap), Rest: true})
		}
		l.track.Notes = append(l.track.Notes, ddsynth.Note{
			Frequency: synth.NoteFrequency(int(e.key)),
			Duration:  seconds(e.end - e.start),
		})
		l.end = e.end
	}
	return lanes
}

func seconds(us int64) float64 {
	return float64(us) / 1e6
}
