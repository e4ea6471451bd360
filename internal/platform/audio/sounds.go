package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/diggy/internal/games/diggy/core"
)

// Sound identifies a one-shot effect.
type Sound int

const (
	SoundDig Sound = iota
	SoundBreak
	SoundHurt
	SoundPowerUp
)

func (s Sound) String() string {
	switch s {
	case SoundDig:
		return "dig"
	case SoundBreak:
		return "break"
	case SoundHurt:
		return "hurt"
	case SoundPowerUp:
		return "powerup"
	}
	return "unknown"
}

// SoundFor maps the cell a dig cleared to the cue it plays.
func SoundFor(c core.Cell) (Sound, bool) {
	switch c {
	case core.Hole, core.Dirt:
		return SoundDig, true
	case core.Gold, core.Diamond:
		return SoundBreak, true
	case core.Hazard:
		return SoundHurt, true
	case core.PowerUp:
		return SoundPowerUp, true
	}
	return 0, false
}

// Effect durations
const (
	digDuration     = 90 * time.Millisecond
	breakNote       = 70 * time.Millisecond
	hurtDuration    = 220 * time.Millisecond
	powerUpNote     = 60 * time.Millisecond
	effectAttack    = 4 * time.Millisecond
	effectRelease   = 40 * time.Millisecond
	noteRelease     = 30 * time.Millisecond
	hurtRelease     = 120 * time.Millisecond
	breakRingLength = 180 * time.Millisecond
)

// NewSound builds a fresh streamer for s at the given volume.
func NewSound(s Sound, rate beep.SampleRate, volume float64) beep.Streamer {
	var st beep.Streamer
	switch s {
	case SoundDig:
		// Low thud mixed with a burst of grit.
		thud := NewEnvelope(newSweep(140, -600, digDuration, WaveSine, rate), digDuration, effectAttack, effectRelease, rate)
		grit := NewEnvelope(NewOscillator(0, digDuration, WaveNoise, rate), digDuration, effectAttack, effectRelease*2, rate)
		st = beep.Mix(newVolume(thud, 0.7), newVolume(grit, 0.25))
	case SoundBreak:
		// Two quick square notes followed by a ringing sine.
		n1 := NewEnvelope(NewOscillator(987.77, breakNote, WaveSquare, rate), breakNote, effectAttack, noteRelease, rate)
		n2 := NewEnvelope(NewOscillator(1318.51, breakNote, WaveSquare, rate), breakNote, effectAttack, noteRelease, rate)
		ring := NewEnvelope(NewOscillator(1760, breakRingLength, WaveSine, rate), breakRingLength, effectAttack, breakRingLength-effectAttack, rate)
		st = beep.Seq(newVolume(n1, 0.4), newVolume(n2, 0.4), newVolume(ring, 0.3))
	case SoundHurt:
		buzz := NewEnvelope(newSweep(220, -400, hurtDuration, WaveSaw, rate), hurtDuration, effectAttack, hurtRelease, rate)
		st = newVolume(buzz, 0.6)
	case SoundPowerUp:
		notes := make([]beep.Streamer, 0, 4)
		for _, f := range []float64{523.25, 659.25, 783.99, 1046.5} {
			n := NewEnvelope(NewOscillator(f, powerUpNote, WaveSquare, rate), powerUpNote, effectAttack, noteRelease, rate)
			notes = append(notes, newVolume(n, 0.35))
		}
		st = beep.Seq(notes...)
	default:
		return nil
	}
	return newVolume(st, volume)
}
