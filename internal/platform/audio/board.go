package audio

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/diggy/internal/config"
	"github.com/vovakirdan/diggy/internal/games/diggy/core"
)

const defaultSampleRate = 44100

// Board turns playfield events into sound. It is a core.Observer: hits play
// a cue for the cleared cell, crossing the threshold switches to action
// music and a reset goes back to idle music.
type Board struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	volume  float64
	enabled bool
	mixer   *beep.Mixer
	music   *beep.Ctrl
	track   Track
	started bool
	logger  *log.Logger
	played  []Sound
}

// NewBoard creates a board from the audio config. Nothing is audible until
// Start is called.
func NewBoard(cfg config.AudioConfig, logger *log.Logger) *Board {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = defaultSampleRate
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Board{
		rate:    beep.SampleRate(rate),
		volume:  cfg.Volume,
		enabled: cfg.Enabled,
		mixer:   &beep.Mixer{},
		logger:  logger,
	}
}

// Start opens the speaker and begins streaming the mixer.
func (b *Board) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started || !b.enabled {
		return nil
	}
	if err := speaker.Init(b.rate, b.rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(b.mixer)
	b.started = true
	return nil
}

// Close silences everything. The speaker itself stays open.
func (b *Board) Close() {
	b.withMixer(func() {
		if b.music != nil {
			b.music.Paused = true
		}
		b.mixer.Clear()
	})

	b.mu.Lock()
	b.music = nil
	b.track = TrackNone
	b.mu.Unlock()
}

// Notify implements core.Observer.
func (b *Board) Notify(e core.Event) {
	switch ev := e.(type) {
	case core.HitEvent:
		if s, ok := SoundFor(ev.Cell); ok {
			b.Play(s)
		}
	case core.ScrolledPastThresholdEvent:
		b.SwitchMusic(TrackAction)
	case core.ResetEvent:
		b.SwitchMusic(TrackIdle)
	}
}

// Play queues a one-shot effect.
func (b *Board) Play(s Sound) {
	if !b.enabled {
		return
	}
	st := NewSound(s, b.rate, b.volume)
	if st == nil {
		return
	}

	b.mu.Lock()
	b.played = append(b.played, s)
	b.mu.Unlock()

	b.withMixer(func() { b.mixer.Add(st) })
}

// SwitchMusic replaces the background track unless t is already playing.
func (b *Board) SwitchMusic(t Track) {
	b.mu.Lock()
	if !b.enabled || b.track == t {
		b.mu.Unlock()
		return
	}
	old := b.music
	var next *beep.Ctrl
	if st := NewTrack(t, b.rate); st != nil {
		next = &beep.Ctrl{Streamer: newVolume(st, b.volume)}
	}
	b.music = next
	b.track = t
	b.mu.Unlock()

	b.logger.Debug("music", "track", t)
	b.withMixer(func() {
		if old != nil {
			old.Paused = true
			old.Streamer = nil
		}
		if next != nil {
			b.mixer.Add(next)
		}
	})
}

// Track returns the current background track.
func (b *Board) Track() Track {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.track
}

// Played returns the effects played so far, oldest first.
func (b *Board) Played() []Sound {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Sound(nil), b.played...)
}

// Active returns the number of streamers in the mixer.
func (b *Board) Active() int {
	n := 0
	b.withMixer(func() { n = b.mixer.Len() })
	return n
}

// withMixer runs f with the speaker locked when it is streaming the mixer.
func (b *Board) withMixer(f func()) {
	b.mu.Lock()
	started := b.started
	b.mu.Unlock()

	if started {
		speaker.Lock()
		defer speaker.Unlock()
	}
	f()
}
