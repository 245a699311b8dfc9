package synth_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/vsariola/ddsynth"
	"github.com/vsariola/ddsynth/synth"
)

func tone(frequency, duration float64, velocity int) ddsynth.Track {
	return ddsynth.Track{Velocity: velocity, Notes: []ddsynth.Note{{Frequency: frequency, Duration: duration}}}
}

func play(t *testing.T, score ddsynth.Score, osc ddsynth.Oscillator, mixer ddsynth.Mixer) ddsynth.AudioBuffer {
	t.Helper()
	buf, err := synth.Play(score, osc, mixer, synth.ClockOptions{})
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	return buf
}

func TestBufferLength(t *testing.T) {
	scores := []ddsynth.Score{
		{Tracks: []ddsynth.Track{tone(440, 0.5, 127)}},
		{Tracks: []ddsynth.Track{tone(440, 0.5, 127), tone(660, 1.25, 127)}},
		{Tracks: []ddsynth.Track{{Velocity: 90, Notes: []ddsynth.Note{{Frequency: 100, Duration: 0.1}, {Frequency: 200, Duration: 0.2}, {Duration: 0.3, Rest: true}}}}},
		{Tracks: []ddsynth.Track{tone(440, 1.0/3, 127), tone(440, 0.00001, 127)}},
	}
	for i, s := range scores {
		buf := play(t, s, synth.FixedPoint{}, synth.PeakNormalizer{})
		if want := int(math.Ceil(s.Duration() * ddsynth.SampleRate)); len(buf) != want {
			t.Errorf("score %d: len(buffer) = %d, want %d", i, len(buf), want)
		}
	}
}

func TestSteadyStateMatchesTable(t *testing.T) {
	const f, d = 1000.0, 0.5
	buf := play(t, ddsynth.Score{Tracks: []ddsynth.Track{tone(f, d, 127)}}, synth.FixedPoint{}, synth.PeakNormalizer{})
	inc := synth.PhaseIncrement(f)
	n := len(buf)
	for k := ddsynth.FadeSamples; k < n-ddsynth.FadeSamples; k++ {
		want := float32(float64(synth.Sine(uint32(k)*inc)) / synth.SineAmplitude)
		if buf[k] != want {
			t.Fatalf("sample %d = %v, want %v", k, buf[k], want)
		}
	}
}

func TestSteadyStateFloatingPoint(t *testing.T) {
	const f, d = 440.0, 0.25
	buf := play(t, ddsynth.Score{Tracks: []ddsynth.Track{tone(f, d, 127)}}, synth.FloatingPoint{}, synth.PeakNormalizer{})
	inc := synth.PhaseIncrement(f)
	for k := ddsynth.FadeSamples; k < len(buf)-ddsynth.FadeSamples; k++ {
		want := float32(math.Sin(2 * math.Pi * float64(uint32(k)*inc) / (1 << 32)))
		if buf[k] != want {
			t.Fatalf("sample %d = %v, want %v", k, buf[k], want)
		}
	}
}

func TestIsolatedNoteFades(t *testing.T) {
	buf := play(t, ddsynth.Score{Tracks: []ddsynth.Track{tone(440, 0.1, 127)}}, synth.FixedPoint{}, synth.PeakNormalizer{})
	n := len(buf)
	assert(t, buf[0], float32(0))
	for k := 0; k < n; k++ {
		bound := synth.Envelope(k, n-k) + 1e-6
		if math.Abs(float64(buf[k])) > bound {
			t.Fatalf("sample %d = %v exceeds envelope %v", k, buf[k], bound)
		}
	}
}

func TestBackToBackNotes(t *testing.T) {
	track := ddsynth.Track{Velocity: 127, Notes: []ddsynth.Note{
		{Frequency: 440, Duration: 0.01},
		{Duration: 0.01, Rest: true},
		{Frequency: 880, Duration: 0.02},
	}}
	clock, err := synth.NewClock(ddsynth.Score{Tracks: []ddsynth.Track{track}}, constOsc{}, synth.PeakNormalizer{}, synth.ClockOptions{MaxVoices: 1})
	if err != nil {
		t.Fatalf("NewClock failed: %v", err)
	}
	buf := make([]float32, clock.Len())
	n, err := clock.Render(buf)
	if err != nil || n != len(buf) {
		t.Fatalf("Render = %v, %v", n, err)
	}
	assert(t, clock.Done(), true)
	assert(t, clock.ActiveVoices(), 0)
	// the first note fades in and out over its 441 samples
	assert(t, buf[0], float32(0))
	assert(t, buf[220], float32(synth.Envelope(220, 221)))
	// rest
	for k := 441; k < 882; k++ {
		if buf[k] != 0 {
			t.Fatalf("sample %d during rest = %v", k, buf[k])
		}
	}
	// second note starts silent and reaches full scale in the middle
	assert(t, buf[882], float32(0))
	assert(t, buf[882+441], float32(1))
}

func TestStreamingMatchesPlay(t *testing.T) {
	score := ddsynth.Score{Tracks: []ddsynth.Track{tone(440, 0.3, 100), tone(550, 0.2, 60)}}
	want := play(t, score, synth.FixedPoint{}, synth.AveragingMixer{})
	clock, err := synth.NewClock(score, synth.FixedPoint{}, synth.AveragingMixer{}, synth.ClockOptions{})
	if err != nil {
		t.Fatalf("NewClock failed: %v", err)
	}
	var got []float32
	chunk := make([]float32, 1000)
	for !clock.Done() {
		n, err := clock.Render(chunk)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		got = append(got, chunk[:n]...)
	}
	if diff := cmp.Diff([]float32(want), got); diff != "" {
		t.Fatalf("streamed output differs (-play +stream):\n%s", diff)
	}
}

func TestVoicePool(t *testing.T) {
	score := ddsynth.Score{Tracks: []ddsynth.Track{tone(440, 0.1, 127), tone(550, 0.1, 127)}}
	_, err := synth.Play(score, synth.FixedPoint{}, synth.PeakNormalizer{}, synth.ClockOptions{MaxVoices: 1})
	if !errors.Is(err, synth.ErrVoicePool) {
		t.Fatalf("Play error = %v, want ErrVoicePool", err)
	}
	if _, err := synth.Play(score, synth.FixedPoint{}, synth.PeakNormalizer{}, synth.ClockOptions{MaxVoices: 2}); err != nil {
		t.Fatalf("Play with enough voices failed: %v", err)
	}
	// tracks with only rests need no voice
	score.Tracks = append(score.Tracks, ddsynth.Track{Notes: []ddsynth.Note{{Duration: 1, Rest: true}}})
	if _, err := synth.Play(score, synth.FixedPoint{}, synth.PeakNormalizer{}, synth.ClockOptions{MaxVoices: 2}); err != nil {
		t.Fatalf("Play with a rest track failed: %v", err)
	}
}

func TestInvalidScoreRejected(t *testing.T) {
	score := ddsynth.Score{Tracks: []ddsynth.Track{tone(-440, 0.1, 127)}}
	buf, err := synth.Play(score, synth.FixedPoint{}, synth.PeakNormalizer{}, synth.ClockOptions{})
	if !errors.Is(err, ddsynth.ErrInvalidScore) || buf != nil {
		t.Fatalf("Play = %v, %v; want nil, ErrInvalidScore", buf, err)
	}
}

func TestTwoVoicesStayInRange(t *testing.T) {
	single := ddsynth.Score{Tracks: []ddsynth.Track{tone(1000, 0.2, 127)}}
	double := ddsynth.Score{Tracks: []ddsynth.Track{tone(1000, 0.2, 127), tone(1000, 0.2, 127)}}
	for _, mixer := range []ddsynth.Mixer{synth.PeakNormalizer{}, synth.AveragingMixer{}} {
		one := play(t, single, synth.FixedPoint{}, mixer)
		two := play(t, double, synth.FixedPoint{}, mixer)
		peak := 0.0
		for k, s := range two {
			if s < -1 || s > 1 {
				t.Fatalf("%T: sample %d = %v out of range", mixer, k, s)
			}
			peak = max(peak, math.Abs(float64(one[k])))
		}
		// identical voices mix into a scaled copy of one voice
		want := make([]float32, len(one))
		for k := range one {
			want[k] = one[k]
			if _, ok := mixer.(synth.PeakNormalizer); ok {
				want[k] = float32(float64(one[k]) / peak)
			}
		}
		if diff := cmp.Diff(want, []float32(two), cmpopts.EquateApprox(0, 1e-6)); diff != "" {
			t.Fatalf("%T: two voices (-want +got):\n%s", mixer, diff)
		}
	}
}

func TestSingleVoiceMixersAgree(t *testing.T) {
	score := ddsynth.Score{Tracks: []ddsynth.Track{tone(330, 0.2, 100)}}
	peak := play(t, score, synth.FixedPoint{}, synth.PeakNormalizer{})
	avg := play(t, score, synth.FixedPoint{}, synth.AveragingMixer{})
	if diff := cmp.Diff([]float32(peak), []float32(avg)); diff != "" {
		t.Fatalf("mixers differ for one voice (-peak +average):\n%s", diff)
	}
}

func TestPlayIsDeterministic(t *testing.T) {
	score := ddsynth.Score{Tracks: []ddsynth.Track{
		{Velocity: 127, Notes: []ddsynth.Note{{Frequency: 261.63, Duration: 0.1}, {Frequency: 293.66, Duration: 0.1}}},
		tone(392, 0.15, 80),
	}}
	a := play(t, score, synth.FixedPoint{}, synth.PeakNormalizer{})
	b := play(t, score, synth.FixedPoint{}, synth.PeakNormalizer{})
	if !bytes.Equal(a.Wav(), b.Wav()) {
		t.Fatalf("rendering the same score twice produced different .wav files")
	}
}
