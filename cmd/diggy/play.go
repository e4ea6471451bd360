package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/diggy/internal/config"
	"github.com/vovakirdan/diggy/internal/core"
	"github.com/vovakirdan/diggy/internal/games/diggy"
	"github.com/vovakirdan/diggy/internal/platform/audio"
	"github.com/vovakirdan/diggy/internal/platform/tui"
	"github.com/vovakirdan/diggy/internal/registry"
	"github.com/vovakirdan/diggy/internal/storage"
)

var flagMute bool

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Dig in a mode",
	Long: `Start digging in the specified mode, or pick one from the menu when
no mode is given.

Controls:
  A/Left/H   - Dig left
  D/Right/L  - Dig right
  S/Down/J   - Dig straight down
  P          - Pause
  R          - Restart (after game over)
  Esc/B      - Back
  ?          - Toggle help
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Fewer hazards, more health
  normal - Default spawn table
  hard   - More hazards, less health
  fixed  - No progression, stays at config's initial level

Examples:
  diggy play diggy
  diggy play diggy_zen --difficulty easy
  diggy play --seed 42 --mute
  diggy play --config ./my-diggy.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start diggy with a mode picker menu",
	Long: `Start diggy in interactive menu mode.

Use arrow keys or j/k to pick a mode, left/right to change difficulty,
Tab for the scoreboard and Enter to start digging. Leaving a run with
Esc returns to the menu.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runMenu()
	},
}

func init() {
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
}

// terminalConfig sizes a runtime config to the controlling terminal.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     runSeed(),
	}
}

func playerName() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}

// openStore opens the runs database. Failure is not fatal for play.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		logger.Warn("runs database unavailable", "path", flagDBPath, "err", err)
		return nil
	}
	return store
}

// attachAudio subscribes a sound board to g. The returned function stops it.
func attachAudio(g *diggy.Game, logger *log.Logger) func() {
	if flagMute {
		return func() {}
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		logger.Warn("audio disabled, config did not load", "err", err)
		return func() {}
	}
	board := audio.NewBoard(cfg.Audio, logger)
	if err := board.Start(); err != nil {
		logger.Warn("audio disabled", "err", err)
		return func() {}
	}
	g.Subscribe(board)
	return board.Close
}

func runPlay(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runMenu()
	}
	modeID := args[0]

	if !registry.Exists(modeID) {
		fmt.Fprintln(os.Stderr, "Run 'diggy list' to see available modes.")
		return fmt.Errorf("unknown mode %q", modeID)
	}

	logger := newLogger("diggy", true)
	cfg := terminalConfig()

	game, err := registry.Create(modeID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}
	if g, ok := game.(*diggy.Game); ok {
		g.SetLogger(logger)
		stop := attachAudio(g, logger)
		defer stop()
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	back, err := tui.Run(game, store, cfg, playerName(), logger)
	if err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	if back {
		return tui.Arcade(store, cfg, playerName(), flagDifficulty, logger)
	}
	return nil
}

func runMenu() error {
	logger := newLogger("diggy", true)
	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}
	return tui.Arcade(store, terminalConfig(), playerName(), flagDifficulty, logger)
}
