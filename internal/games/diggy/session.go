package diggy

import (
	"github.com/vovakirdan/diggy/internal/config"
	"github.com/vovakirdan/diggy/internal/games/diggy/core"
)

// Scorer awards points for every cleared cell.
type Scorer struct {
	cfg   config.DiggyConfig
	dm    *config.DifficultyManager
	ticks func() int
	score int
}

// NewScorer creates a scorer using the per-cell values in cfg.
func NewScorer(cfg config.DiggyConfig, dm *config.DifficultyManager, ticks func() int) *Scorer {
	return &Scorer{cfg: cfg, dm: dm, ticks: ticks}
}

// Notify implements core.Observer.
func (s *Scorer) Notify(e core.Event) {
	switch e := e.(type) {
	case core.HitEvent:
		s.score += s.dm.Score(s.cfg.ScoreFor(e.Cell), e.Depth, s.ticks())
	case core.ResetEvent:
		s.score = 0
	}
}

// Score returns the points earned since the last reset.
func (s *Scorer) Score() int { return s.score }

// Health tracks hazard damage and power-up healing.
type Health struct {
	start, max   int
	damage, heal int
	dm           *config.DifficultyManager
	ticks        func() int

	current int
	lastHit core.Cell
}

// NewHealth creates a health tracker from the session settings. A zero
// damage value makes hazards harmless.
func NewHealth(s config.SessionConfig, damage int, dm *config.DifficultyManager, ticks func() int) *Health {
	return &Health{
		start:   s.Health,
		max:     s.MaxHealth,
		damage:  damage,
		heal:    s.PowerUpHeal,
		dm:      dm,
		ticks:   ticks,
		current: s.Health,
		lastHit: core.Hole,
	}
}

// Notify implements core.Observer.
func (h *Health) Notify(e core.Event) {
	switch e := e.(type) {
	case core.HitEvent:
		h.lastHit = e.Cell
		switch e.Cell {
		case core.Hazard:
			if h.damage > 0 {
				h.current = max(0, h.current-h.dm.Damage(h.damage, e.Depth, h.ticks()))
			}
		case core.PowerUp:
			h.current = min(h.max, h.current+h.heal)
		}
	case core.ResetEvent:
		h.current = h.start
		h.lastHit = core.Hole
	}
}

// Current returns the remaining health.
func (h *Health) Current() int { return h.current }

// Max returns the health cap.
func (h *Health) Max() int { return h.max }

// Dead reports whether the run is over.
func (h *Health) Dead() bool { return h.current <= 0 }

// LastHit returns the cell cleared by the most recent dig.
func (h *Health) LastHit() core.Cell { return h.lastHit }

// Surface tracks whether the decorative surface is still on screen.
type Surface struct {
	visible bool
}

// Notify implements core.Observer.
func (s *Surface) Notify(e core.Event) {
	switch e.(type) {
	case core.ScrolledPastThresholdEvent:
		s.visible = false
	case core.ResetEvent:
		s.visible = true
	}
}

// Visible reports whether the surface decoration should be drawn.
func (s *Surface) Visible() bool { return s.visible }
