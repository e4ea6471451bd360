package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/diggy/internal/config"
	"github.com/vovakirdan/diggy/internal/games/diggy/core"
)

const testRate = beep.SampleRate(44100)

// drain streams s to the end and returns the sample count and peak level.
func drain(t *testing.T, s beep.Streamer) (total int, peak float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	for range 10000 {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("streamer never ended")
	return 0, 0
}

func TestOscillatorLength(t *testing.T) {
	tests := []struct {
		name string
		wave WaveType
	}{
		{"sine", WaveSine},
		{"square", WaveSquare},
		{"saw", WaveSaw},
		{"noise", WaveNoise},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			osc := NewOscillator(440, 50*time.Millisecond, tt.wave, testRate)
			total, peak := drain(t, osc)
			if want := testRate.N(50 * time.Millisecond); total != want {
				t.Errorf("streamed %d samples, want %d", total, want)
			}
			if peak > 1 {
				t.Errorf("peak %f out of range", peak)
			}
			if osc.Err() != nil {
				t.Errorf("Err = %v", osc.Err())
			}
		})
	}
}

func TestSquareWaveValues(t *testing.T) {
	osc := NewOscillator(220, 20*time.Millisecond, WaveSquare, testRate)
	buf := make([][2]float64, 100)
	n, _ := osc.Stream(buf)
	for i := 0; i < n; i++ {
		if v := buf[i][0]; v != 1 && v != -1 {
			t.Fatalf("sample %d = %f, want ±1", i, v)
		}
	}
}

func TestEnvelopeShape(t *testing.T) {
	d := 100 * time.Millisecond
	osc := NewOscillator(0, d, WaveSquare, testRate) // phase stays 0, constant +1
	env := NewEnvelope(osc, d, 10*time.Millisecond, 10*time.Millisecond, testRate)

	buf := make([][2]float64, testRate.N(d))
	n, _ := env.Stream(buf)
	if n != len(buf) {
		t.Fatalf("streamed %d, want %d", n, len(buf))
	}
	if buf[0][0] != 0 {
		t.Errorf("first sample = %f, want 0 at start of attack", buf[0][0])
	}
	if mid := buf[n/2][0]; mid != 1 {
		t.Errorf("sustain sample = %f, want 1", mid)
	}
	if last := buf[n-1][0]; last <= 0 || last > 0.01 {
		t.Errorf("last sample = %f, want near 0", last)
	}
}

func TestSoundFor(t *testing.T) {
	tests := []struct {
		cell core.Cell
		want Sound
		ok   bool
	}{
		{core.Dirt, SoundDig, true},
		{core.Hole, SoundDig, true},
		{core.Gold, SoundBreak, true},
		{core.Diamond, SoundBreak, true},
		{core.Hazard, SoundHurt, true},
		{core.PowerUp, SoundPowerUp, true},
		{core.Sky, 0, false},
		{core.Decoration, 0, false},
	}
	for _, tt := range tests {
		got, ok := SoundFor(tt.cell)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("SoundFor(%v) = (%v, %v), want (%v, %v)", tt.cell, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSoundsEnd(t *testing.T) {
	for _, s := range []Sound{SoundDig, SoundBreak, SoundHurt, SoundPowerUp} {
		t.Run(s.String(), func(t *testing.T) {
			total, peak := drain(t, NewSound(s, testRate, 1))
			if total == 0 {
				t.Error("sound produced no samples")
			}
			if total > testRate.N(time.Second) {
				t.Errorf("sound lasts %d samples, want under a second", total)
			}
			if peak == 0 {
				t.Error("sound is silent")
			}
		})
	}
}

func TestSilentVolume(t *testing.T) {
	_, peak := drain(t, NewSound(SoundHurt, testRate, 0))
	if peak != 0 {
		t.Errorf("peak = %f at volume 0", peak)
	}
}

func TestTracksAreEndless(t *testing.T) {
	for _, tr := range []Track{TrackIdle, TrackAction} {
		st := NewTrack(tr, testRate)
		buf := make([][2]float64, testRate.N(time.Second))
		for range 3 {
			if n, ok := st.Stream(buf); !ok || n != len(buf) {
				t.Fatalf("%v: Stream = (%d, %v)", tr, n, ok)
			}
		}
	}
	if NewTrack(TrackNone, testRate) != nil {
		t.Error("TrackNone should have no streamer")
	}
}

func TestBoardFollowsEvents(t *testing.T) {
	b := NewBoard(config.AudioConfig{Enabled: true, Volume: 0.5, SampleRate: 22050}, nil)

	b.Notify(core.ResetEvent{})
	if b.Track() != TrackIdle {
		t.Errorf("track after reset = %v, want idle", b.Track())
	}

	b.Notify(core.HitEvent{Cell: core.Dirt})
	b.Notify(core.HitEvent{Cell: core.Gold})
	b.Notify(core.HitEvent{Cell: core.Sky})
	b.Notify(core.HitEvent{Cell: core.Hazard})
	b.Notify(core.ScrolledEvent{})

	want := []Sound{SoundDig, SoundBreak, SoundHurt}
	got := b.Played()
	if len(got) != len(want) {
		t.Fatalf("played %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("played[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	b.Notify(core.ScrolledPastThresholdEvent{Depth: 5})
	if b.Track() != TrackAction {
		t.Errorf("track after threshold = %v, want action", b.Track())
	}
	// music + three effects
	if n := b.Active(); n < 2 {
		t.Errorf("mixer has %d streamers", n)
	}

	b.Close()
	if b.Active() != 0 || b.Track() != TrackNone {
		t.Errorf("after Close: active %d, track %v", b.Active(), b.Track())
	}
}

func TestBoardDisabled(t *testing.T) {
	b := NewBoard(config.AudioConfig{Enabled: false, Volume: 1}, nil)
	b.Notify(core.HitEvent{Cell: core.Dirt})
	b.Notify(core.ResetEvent{})

	if len(b.Played()) != 0 || b.Track() != TrackNone || b.Active() != 0 {
		t.Error("disabled board should stay silent")
	}
	if err := b.Start(); err != nil {
		t.Errorf("Start on disabled board: %v", err)
	}
}
