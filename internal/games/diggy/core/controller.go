package core

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	platformcore "github.com/vovakirdan/diggy/internal/core"
)

// Dir selects the column a dig targets.
type Dir int

const (
	DirStraight Dir = iota // Center column only
	DirLeft                // First column (and center)
	DirRight               // Last column (and center)
)

func (d Dir) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "straight"
	}
}

// ParseDir accepts "left", "right", and "straight" or "down".
func ParseDir(s string) (Dir, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return DirLeft, true
	case "right", "r":
		return DirRight, true
	case "straight", "down", "s":
		return DirStraight, true
	}
	return DirStraight, false
}

// Phase is the controller state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAdvancing
)

func (p Phase) String() string {
	if p == PhaseAdvancing {
		return "advancing"
	}
	return "idle"
}

// Config is the immutable playfield configuration.
type Config struct {
	Width           int // Interactive columns
	Height          int // Stored rows
	DecoWidth       int // Border columns on each side, render only
	InitialOffset   int
	InitialDepth    int
	ScrollThreshold int // Depth after which each step scrolls one row
	Spawn           []SpawnEntry
}

// Validate checks the configuration without building anything.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0:
		return configErr("grid.width", "must be positive, got %d", c.Width)
	case c.Height <= 0:
		return configErr("grid.height", "must be positive, got %d", c.Height)
	case c.DecoWidth < 0:
		return configErr("grid.deco_width", "must not be negative, got %d", c.DecoWidth)
	case c.InitialDepth < 0:
		return configErr("grid.initial_depth", "must not be negative, got %d", c.InitialDepth)
	case c.ScrollThreshold < c.InitialDepth:
		return configErr("grid.scroll_threshold", "must be at least initial_depth %d, got %d", c.InitialDepth, c.ScrollThreshold)
	case c.ScrollThreshold > c.Height-2:
		return configErr("grid.scroll_threshold", "must leave a row to dig below it (max %d), got %d", c.Height-2, c.ScrollThreshold)
	}
	return nil
}

// Cursor is the scroll position: the depth reached and the buffer rotation.
type Cursor struct {
	Depth  int
	Offset int
}

// Step summarizes one completed dig.
type Step struct {
	Hit         HitEvent
	Scrolled    bool
	Regenerated int  // Physical row regenerated, -1 if none
	Crossed     bool // First scroll since reset
}

// Controller owns the grid and advances it one dig at a time.
type Controller struct {
	cfg    Config
	grid   *Grid
	spawn  *SpawnTable
	logger *log.Logger

	phase         Phase
	depth         int
	pastThreshold bool

	observers []Observer
	rebuilder Rebuilder
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver subscribes o to controller events.
func WithObserver(o Observer) Option {
	return func(c *Controller) {
		c.observers = append(c.observers, o)
	}
}

// WithRebuilder sets the consumer of grid snapshots.
func WithRebuilder(r Rebuilder) Option {
	return func(c *Controller) {
		c.rebuilder = r
	}
}

// NewController validates cfg, builds the spawn table and grid, and
// initializes the playfield. Configuration problems fail here, never
// mid-session.
func NewController(cfg Config, rng Source, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	spawn, err := NewSpawnTable(cfg.Spawn, rng)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:    cfg,
		spawn:  spawn,
		grid:   NewGrid(spawn, rng),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.Reset(); err != nil {
		return nil, err
	}
	return c, nil
}

// Subscribe adds an observer after construction.
func (c *Controller) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

// Reset re-initializes the grid and restores the cursor to its configured
// starting values. It replaces state wholesale.
func (c *Controller) Reset() error {
	if c.phase == PhaseAdvancing {
		return ErrStepInProgress
	}
	if err := c.grid.Init(c.cfg.Width, c.cfg.Height, c.cfg.InitialOffset); err != nil {
		return fmt.Errorf("reset playfield: %w", err)
	}
	c.depth = c.cfg.InitialDepth
	c.pastThreshold = false
	c.phase = PhaseIdle

	c.logger.Debug("playfield reset", "width", c.cfg.Width, "height", c.cfg.Height, "offset", c.grid.Offset())
	c.emit(ResetEvent{Depth: c.depth, Offset: c.grid.Offset()})
	c.rebuild()
	return nil
}

// Dig resolves one input in the given direction.
func (c *Controller) Dig(d Dir) (Step, error) {
	switch d {
	case DirLeft:
		return c.DigColumn(0)
	case DirRight:
		return c.DigColumn(c.cfg.Width - 1)
	default:
		return c.DigColumn(c.grid.Center())
	}
}

// DigColumn resolves one input targeting col. Out-of-range columns are
// clamped to the nearest valid column.
func (c *Controller) DigColumn(col int) (Step, error) {
	if c.phase == PhaseAdvancing {
		return Step{}, ErrStepInProgress
	}
	c.phase = PhaseAdvancing
	defer func() { c.phase = PhaseIdle }()

	target := platformcore.Clamp(col, 0, c.cfg.Width-1)
	if target != col {
		c.logger.Debug("dig column clamped", "requested", col, "column", target)
	}

	row := c.PlayerRow() + 1
	prior := c.grid.HitRow(row, target)
	c.depth++

	step := Step{
		Hit:         HitEvent{Cell: prior, Row: row, Col: target, Depth: c.depth},
		Regenerated: -1,
	}
	c.emit(step.Hit)

	if c.depth > c.cfg.ScrollThreshold {
		step.Regenerated = c.grid.Scroll()
		step.Scrolled = true
		c.emit(ScrolledEvent{Depth: c.depth, Offset: c.grid.Offset(), Physical: step.Regenerated})

		if !c.pastThreshold {
			c.pastThreshold = true
			step.Crossed = true
			c.logger.Debug("scrolled past threshold", "depth", c.depth, "offset", c.grid.Offset())
			c.emit(ScrolledPastThresholdEvent{Depth: c.depth, Offset: c.grid.Offset()})
		}
	}

	c.rebuild()
	return step, nil
}

// PlayerRow returns the logical window row the player stands on.
func (c *Controller) PlayerRow() int {
	return c.depth - (c.grid.Offset() - c.cfg.InitialOffset)
}

// Cursor returns the current scroll position.
func (c *Controller) Cursor() Cursor {
	return Cursor{Depth: c.depth, Offset: c.grid.Offset()}
}

// Phase returns the state machine phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// PastThreshold reports whether the player has dug below the surface window.
func (c *Controller) PastThreshold() bool {
	return c.pastThreshold
}

// Config returns the configuration the controller was built with.
func (c *Controller) Config() Config {
	return c.cfg
}

// Snapshot returns a read-only view of the grid.
func (c *Controller) Snapshot() Snapshot {
	return c.grid.Snapshot()
}

// CellAt reads a logical position.
func (c *Controller) CellAt(logicalRow, col int) Cell {
	return c.grid.CellAt(logicalRow, col)
}

func (c *Controller) emit(e Event) {
	for _, o := range c.observers {
		o.Notify(e)
	}
}

func (c *Controller) rebuild() {
	if c.rebuilder != nil {
		c.rebuilder.Rebuild(c.grid.Snapshot())
	}
}
