package midifile_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/vsariola/ddsynth"
	"github.com/vsariola/ddsynth/midifile"
	"github.com/vsariola/ddsynth/synth"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// quarter note is 480 ticks, i.e. 0.5 s at 120 bpm
func encode(t *testing.T, tracks ...smf.Track) *bytes.Buffer {
	t.Helper()
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(480)
	for _, tr := range tracks {
		if err := s.Add(tr); err != nil {
			t.Fatalf("could not add track: %v", err)
		}
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("could not write midi file: %v", err)
	}
	return &buf
}

func TestReadPacksOverlappingNotes(t *testing.T) {
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, midi.NoteOn(0, 69, 100))
	tr.Add(480, midi.NoteOn(0, 72, 80))
	tr.Add(480, midi.NoteOff(0, 69))
	tr.Add(480, midi.NoteOff(0, 72))
	tr.Add(480, midi.NoteOn(0, 69, 90))
	tr.Add(480, midi.NoteOn(0, 69, 0)) // note on with zero velocity ends the note
	tr.Close(0)
	score, err := midifile.Read(encode(t, tr))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	want := ddsynth.Score{Tracks: []ddsynth.Track{
		{Velocity: 100, Notes: []ddsynth.Note{
			{Frequency: 440, Duration: 1},
			{Duration: 1, Rest: true},
			{Frequency: 440, Duration: 0.5},
		}},
		{Velocity: 80, Notes: []ddsynth.Note{
			{Duration: 0.5, Rest: true},
			{Frequency: synth.NoteFrequency(72), Duration: 1},
		}},
	}}
	if diff := cmp.Diff(want, score, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Fatalf("score mismatch (-want +got):\n%s", diff)
	}
	if err := score.Validate(); err != nil {
		t.Fatalf("imported score does not validate: %v", err)
	}
}

func TestReadSeparatesTracksAndChannels(t *testing.T) {
	var a, b smf.Track
	a.Add(0, midi.NoteOn(1, 60, 64))
	a.Add(0, midi.NoteOn(0, 64, 64))
	a.Add(480, midi.NoteOff(1, 60))
	a.Add(0, midi.NoteOff(0, 64))
	a.Close(0)
	b.Add(0, midi.NoteOn(0, 67, 127))
	b.Add(480, midi.NoteOff(0, 67))
	b.Close(0)
	score, err := midifile.Read(encode(t, a, b))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	var got []float64
	for _, tr := range score.Tracks {
		got = append(got, tr.Notes[0].Frequency)
	}
	want := []float64{synth.NoteFrequency(64), synth.NoteFrequency(60), synth.NoteFrequency(67)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("track order mismatch (-want +got):\n%s", diff)
	}
}

func TestReadClosesHangingNotes(t *testing.T) {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 69, 100))
	tr.Add(960, midi.ControlChange(0, 7, 100))
	tr.Close(0)
	score, err := midifile.Read(encode(t, tr))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(score.Tracks) != 1 || len(score.Tracks[0].Notes) != 1 {
		t.Fatalf("unexpected score %+v", score)
	}
	if d := score.Tracks[0].Notes[0].Duration; d < 0.999 || d > 1.001 {
		t.Fatalf("hanging note lasts %v s, want 1 s", d)
	}
}

func TestReadErrors(t *testing.T) {
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(100))
	tr.Close(0)
	if _, err := midifile.Read(encode(t, tr)); !errors.Is(err, midifile.ErrNoNotes) {
		t.Fatalf("Read of a file without notes error = %v, want ErrNoNotes", err)
	}
	if _, err := midifile.Read(bytes.NewBufferString("not a midi file")); err == nil {
		t.Fatalf("Read should fail on garbage")
	}
}
