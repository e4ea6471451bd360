package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/diggy/internal/games/diggy"
	"github.com/vovakirdan/diggy/internal/platform/window"
)

var (
	flagWindowScale int
	flagWindowZen   bool
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Open the 3D playfield window",
	Long: `Draw the synthesized playfield mesh in a desktop window. The camera
eases toward the player after every dig.

This front end is only available in binaries built with:
  go build -tags ebiten ./cmd/diggy

Controls:
  A/Left   - Dig left
  D/Right  - Dig right
  S/Down   - Dig straight down
  P        - Pause
  R        - Restart (after game over)
  Q/Esc    - Quit`,
	Args: cobra.NoArgs,
	RunE: runWindow,
}

func init() {
	windowCmd.Flags().IntVar(&flagWindowScale, "scale", 0, "Pixels per cell (default 48)")
	windowCmd.Flags().BoolVar(&flagWindowZen, "zen", false, "Use zen mode (hazards are harmless)")
	windowCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound")
}

func runWindow(_ *cobra.Command, _ []string) error {
	logger := newLogger("diggy-window", false)

	mode := diggy.ModeClassic
	if flagWindowZen {
		mode = diggy.ModeZen
	}
	game := diggy.New(mode, diggy.WithLogger(logger))
	stop := attachAudio(game, logger)
	defer stop()

	opts := window.DefaultOptions()
	opts.Seed = runSeed()
	opts.Logger = logger
	if flagWindowScale > 0 {
		opts.Scale = flagWindowScale
	}

	err := window.Run(game, opts)
	if errors.Is(err, window.ErrNoWindow) {
		return fmt.Errorf("%w: rebuild with -tags ebiten", err)
	}
	return err
}
