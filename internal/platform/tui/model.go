package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/diggy/internal/core"
	"github.com/vovakirdan/diggy/internal/registry"
	"github.com/vovakirdan/diggy/internal/storage"
)

// Model is the Bubble Tea model for a single diggy run.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	player     string

	quitting  bool
	back      bool
	embedded  bool // Hosted inside a SessionModel; back does not quit the program
	runSaved  bool // Whether the current run has been recorded
	lastSaved int64
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, player string) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, fieldHeight(cfg.ScreenH)),
		store:      store,
		logger:     log.New(os.Stderr),
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
		player:     player,
	}
}

// WithLogger returns a copy of m that logs through l.
func (m Model) WithLogger(l *log.Logger) Model {
	if l != nil {
		m.logger = l
	}
	return m
}

// fieldHeight leaves one row for the help footer.
func fieldHeight(h int) int {
	if h > 1 {
		return h - 1
	}
	return h
}

// Init starts the run and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.fieldConfig())
	return tickCmd(m.config.TickRate)
}

func (m Model) fieldConfig() core.RuntimeConfig {
	rc := m.config
	rc.ScreenH = fieldHeight(rc.ScreenH)
	return rc
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keyMapper.Keys().Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.finishRun()
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack:
		m.finishRun()
		m.back = true
		if m.embedded {
			return m, nil
		}
		return m, tea.Quit
	case action != core.ActionNone:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleResize processes window resize events. A run that has not started
// digging is rebuilt for the new size; otherwise only the view is resized.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, fieldHeight(msg.Height))
	m.help.Width = msg.Width

	if m.gameState.Digs == 0 && !m.gameState.GameOver {
		m.game.Reset(m.fieldConfig())
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && (m.gameState.GameOver || m.gameState.Paused) {
		m.finishRun()
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.fieldConfig())
		m.gameState = m.game.State()
		m.runSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver {
		m.finishRun()
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// finishRun records the current run once, if any digging happened.
func (m *Model) finishRun() {
	if m.runSaved || m.store == nil {
		return
	}
	state := m.game.State()
	if state.Digs == 0 && state.Score == 0 {
		return
	}
	m.runSaved = true

	id, err := m.store.SaveRun(storage.Run{
		Mode:   m.game.ID(),
		Player: m.player,
		Score:  state.Score,
		Depth:  state.Depth,
		Seed:   m.config.Seed,
	})
	if err != nil {
		m.logger.Warn("run not saved", "mode", m.game.ID(), "err", err)
		return
	}
	m.lastSaved = id
	m.logger.Debug("run saved", "id", id, "score", state.Score, "depth", state.Depth)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".diggy", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "err", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keyMapper.Keys())
}

// IsQuitting reports whether the player asked to exit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// WentBack reports whether the player left the run for the menu.
func (m Model) WentBack() bool {
	return m.back
}

// LastSavedRun returns the ID of the most recently saved run, or 0.
func (m Model) LastSavedRun() int64 {
	return m.lastSaved
}

// Run starts the Bubble Tea program for one game and reports whether the
// player asked to go back to the menu.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, player string, logger *log.Logger) (back bool, err error) {
	model := NewModel(game, store, cfg, player).WithLogger(logger)

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if fm, ok := final.(Model); ok {
		return fm.WentBack(), nil
	}
	return false, nil
}
