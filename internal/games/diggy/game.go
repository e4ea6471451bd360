// Package diggy provides the endless dig playfield as an arcade game.
//
// The playfield model lives in the core subpackage and geometry synthesis in
// mesh. This package wires them to session rules (score, health, surface
// visibility) and draws a terminal view of the grid.
package diggy

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/diggy/internal/config"
	platformcore "github.com/vovakirdan/diggy/internal/core"
	"github.com/vovakirdan/diggy/internal/games/diggy/core"
	"github.com/vovakirdan/diggy/internal/games/diggy/mesh"
	"github.com/vovakirdan/diggy/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeClassic Mode = "diggy"     // Hazards hurt, game over at zero health
	ModeZen     Mode = "diggy_zen" // Hazards are harmless, dig forever
)

// Package-level variables for config/difficulty set via CLI
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil {
		p = ""
	}
	difficultyPreset = p
}

func init() {
	registry.Register(string(ModeClassic), func() registry.Game {
		return New(ModeClassic)
	})
	registry.Register(string(ModeZen), func() registry.Game {
		return New(ModeZen)
	})
}

// Game implements the diggy arcade game.
type Game struct {
	mode   Mode
	logger *log.Logger

	// Collaborators supplied by the platform
	renderer  Renderer
	observers []core.Observer

	baseCfg  config.DiggyConfig
	fixedCfg bool
	preset   config.DifficultyPreset
	cfg      config.DiggyConfig // baseCfg with the preset applied

	ctrl    *core.Controller
	synth   *mesh.Synthesizer
	decor   mesh.Decor
	buffers *mesh.Buffers

	scorer  *Scorer
	health  *Health
	surface *Surface

	tick     uint64
	paused   bool
	gameOver bool
	err      error

	screenW int
	screenH int
}

// Option configures a Game.
type Option func(*Game)

// WithConfig uses cfg instead of loading one on every reset.
func WithConfig(cfg config.DiggyConfig) Option {
	return func(g *Game) {
		g.baseCfg = cfg
		g.fixedCfg = true
	}
}

// WithLogger sets the logger shared with the playfield controller.
func WithLogger(l *log.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRenderer sets the consumer of synthesized geometry.
func WithRenderer(r Renderer) Option {
	return func(g *Game) {
		g.renderer = r
	}
}

// WithObserver subscribes o to playfield events, after the session rules.
func WithObserver(o core.Observer) Option {
	return func(g *Game) {
		g.observers = append(g.observers, o)
	}
}

// WithDifficulty applies a preset on every reset, overriding the one set
// with SetDifficultyPreset.
func WithDifficulty(p config.DifficultyPreset) Option {
	return func(g *Game) {
		g.preset = p
	}
}

// New creates a diggy game in the given mode.
func New(mode Mode, opts ...Option) *Game {
	g := &Game{
		mode:   mode,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return string(g.mode)
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeZen {
		return "Diggy (Zen)"
	}
	return "Diggy"
}

// Reset builds a fresh playfield. Configuration problems are kept in Err
// and shown instead of the grid.
func (g *Game) Reset(rc platformcore.RuntimeConfig) {
	g.tick = 0
	g.paused = false
	g.gameOver = false
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH

	g.err = g.build(rc.Seed)
	if g.err != nil {
		g.logger.Error("playfield setup failed", "err", g.err)
	}
}

// Subscribe adds an event observer. It takes effect on the next Reset.
func (g *Game) Subscribe(o core.Observer) {
	g.observers = append(g.observers, o)
}

// SetLogger replaces the logger. It takes effect on the next Reset.
func (g *Game) SetLogger(l *log.Logger) {
	if l != nil {
		g.logger = l
	}
}

// SetRenderer replaces the geometry consumer.
func (g *Game) SetRenderer(r Renderer) {
	g.renderer = r
}

// SetDifficulty validates and stores a preset for the next reset.
func (g *Game) SetDifficulty(name string) error {
	p, err := config.ParsePreset(name)
	if err != nil {
		return err
	}
	g.preset = p
	return nil
}

func (g *Game) build(seed int64) error {
	cfg := g.baseCfg
	if !g.fixedCfg {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.Spawn = append([]config.SpawnConfig(nil), cfg.Spawn...)
	preset := g.preset
	if preset == "" {
		preset = difficultyPreset
	}
	config.ApplyPreset(&cfg, preset)
	g.cfg = cfg

	if err := g.cfg.Validate(); err != nil {
		return err
	}

	cc, err := g.cfg.ControllerConfig()
	if err != nil {
		return err
	}

	templates := mesh.DefaultTemplates()
	if g.cfg.Render.Templates != "" {
		if templates, err = mesh.LoadTemplates(g.cfg.Render.Templates); err != nil {
			return err
		}
	}
	atlas := core.DefaultAtlas(g.cfg.Render.AtlasTiles)
	if g.synth, err = mesh.NewSynthesizer(templates, atlas); err != nil {
		return err
	}
	g.decor = g.synth.BuildDecor(cc.Width, cc.Height, cc.DecoWidth)

	dm := config.NewDifficultyManager(g.cfg.Difficulty)
	ticks := func() int { return int(g.tick) }
	damage := g.cfg.Session.HazardDamage
	if g.mode == ModeZen {
		damage = 0
	}
	g.scorer = NewScorer(g.cfg, dm, ticks)
	g.health = NewHealth(g.cfg.Session, damage, dm, ticks)
	g.surface = &Surface{}

	opts := []core.Option{
		core.WithLogger(g.logger),
		core.WithObserver(g.scorer),
		core.WithObserver(g.health),
		core.WithObserver(g.surface),
		core.WithRebuilder(core.RebuilderFunc(g.rebuild)),
	}
	for _, o := range g.observers {
		opts = append(opts, core.WithObserver(o))
	}

	g.ctrl = nil
	ctrl, err := core.NewController(cc, rand.New(rand.NewSource(seed)), opts...)
	if err != nil {
		return err
	}
	g.ctrl = ctrl
	g.present()
	return nil
}

// rebuild synthesizes the mesh for a new grid state.
func (g *Game) rebuild(snap core.Snapshot) {
	g.buffers = g.synth.Build(snap)
	if g.ctrl != nil {
		g.present()
	}
}

func (g *Game) present() {
	if g.renderer == nil || g.buffers == nil {
		return
	}
	g.renderer.Present(g.Frame())
}

// Step advances the game by one tick. Each dig action resolves one full
// playfield step.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	if g.err != nil || g.ctrl == nil {
		return platformcore.StepResult{State: g.State()}
	}
	g.tick++

	if in.Has(platformcore.ActionRestart) && (g.gameOver || g.paused) {
		_ = g.restart()
		return platformcore.StepResult{State: g.State()}
	}
	if in.Has(platformcore.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.paused || g.gameOver {
		return platformcore.StepResult{State: g.State()}
	}

	dir, ok := digDir(in)
	if !ok {
		return platformcore.StepResult{State: g.State()}
	}
	if _, err := g.ctrl.Dig(dir); err != nil {
		g.logger.Warn("dig rejected", "dir", dir, "err", err)
		return platformcore.StepResult{State: g.State()}
	}
	if g.health.Dead() {
		g.gameOver = true
		g.logger.Info("run over", "mode", g.mode, "score", g.scorer.Score(), "depth", g.ctrl.Cursor().Depth)
	}
	return platformcore.StepResult{State: g.State(), Moved: true}
}

func digDir(in platformcore.InputFrame) (core.Dir, bool) {
	switch {
	case in.Has(platformcore.ActionLeft):
		return core.DirLeft, true
	case in.Has(platformcore.ActionRight):
		return core.DirRight, true
	case in.Has(platformcore.ActionDown):
		return core.DirStraight, true
	}
	return core.DirStraight, false
}

// restart resets the playfield without reseeding.
func (g *Game) restart() error {
	if err := g.ctrl.Reset(); err != nil {
		g.logger.Warn("restart rejected", "err", err)
		return err
	}
	g.tick = 0
	g.paused = false
	g.gameOver = false
	return nil
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	st := platformcore.GameState{
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
	if g.ctrl != nil {
		st.Score = g.scorer.Score()
		st.Depth = g.ctrl.Cursor().Depth
		st.Digs = st.Depth - g.ctrl.Config().InitialDepth
	}
	return st
}

// Err returns the configuration error from the last reset, if any.
func (g *Game) Err() error {
	return g.err
}

// Config returns the configuration in use.
func (g *Game) Config() config.DiggyConfig {
	return g.cfg
}

// Frame returns the current geometry and view state.
func (g *Game) Frame() Frame {
	f := Frame{
		Mesh:  g.buffers,
		Decor: &g.decor,
	}
	if g.ctrl != nil {
		f.Cursor = g.ctrl.Cursor()
		f.PlayerRow = g.ctrl.PlayerRow()
		f.SurfaceVisible = g.surface.Visible()
	}
	if g.synth != nil {
		f.Atlas = g.synth.Atlas()
	}
	return f
}

// Health returns remaining and maximum health.
func (g *Game) Health() (current, maximum int) {
	if g.health == nil {
		return 0, 0
	}
	return g.health.Current(), g.health.Max()
}

// Dig resolves a dig outside the tick loop. It is used by the inspector.
func (g *Game) Dig(dir core.Dir) (core.Step, error) {
	if g.err != nil {
		return core.Step{}, g.err
	}
	if g.ctrl == nil {
		return core.Step{}, fmt.Errorf("diggy: game not started")
	}
	if g.gameOver {
		return core.Step{}, fmt.Errorf("diggy: run is over")
	}
	step, err := g.ctrl.Dig(dir)
	if err != nil {
		return step, err
	}
	if g.health.Dead() {
		g.gameOver = true
	}
	return step, nil
}

// Restart resets the playfield and session without reseeding.
func (g *Game) Restart() error {
	if g.err != nil {
		return g.err
	}
	if g.ctrl == nil {
		return fmt.Errorf("diggy: game not started")
	}
	return g.restart()
}
