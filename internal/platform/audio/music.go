package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Track is a looping background tune.
type Track int

const (
	TrackNone Track = iota
	TrackIdle
	TrackAction
)

func (t Track) String() string {
	switch t {
	case TrackIdle:
		return "idle"
	case TrackAction:
		return "action"
	}
	return "none"
}

// NewTrack returns an endless streamer for t, or nil for TrackNone.
func NewTrack(t Track, rate beep.SampleRate) beep.Streamer {
	switch t {
	case TrackIdle:
		return &idleGenerator{sr: rate, step: rate.N(450 * time.Millisecond)}
	case TrackAction:
		return &actionGenerator{sr: rate, beat: rate.N(400 * time.Millisecond), kick: rate.N(90 * time.Millisecond)}
	}
	return nil
}

// idlePattern is a slow pentatonic arpeggio.
var idlePattern = []float64{261.63, 329.63, 392.00, 440.00, 392.00, 329.63}

// idleGenerator plays a soft sine arpeggio over a low drone.
type idleGenerator struct {
	sr   beep.SampleRate
	pos  int
	step int
}

func (g *idleGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		note := idlePattern[(g.pos/g.step)%len(idlePattern)]
		inStep := float64(g.pos%g.step) / float64(g.step)
		t := float64(g.pos) / float64(g.sr)

		env := math.Exp(-inStep * 4)
		sample := 0.12*env*math.Sin(2*math.Pi*note*t) + 0.05*math.Sin(2*math.Pi*65.41*t)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *idleGenerator) Err() error { return nil }

// actionGenerator plays a kick on every beat over a pulsing bass.
type actionGenerator struct {
	sr   beep.SampleRate
	pos  int
	beat int
	kick int
}

func (g *actionGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		beatPos := g.pos % g.beat
		t := float64(beatPos) / float64(g.sr)

		kick := 0.0
		if beatPos < g.kick {
			env := 1 - float64(beatPos)/float64(g.kick)
			kick = 0.35 * env * math.Sin(2*math.Pi*60*(1+2*env)*t)
		}

		bassFreq := 110.0
		if (g.pos/g.beat)%4 == 3 {
			bassFreq = 98.0
		}
		gate := 1 - float64(beatPos)/float64(g.beat)
		bass := 0.12 * gate * math.Sin(2*math.Pi*bassFreq*float64(g.pos)/float64(g.sr))

		sample := kick + bass
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *actionGenerator) Err() error { return nil }
