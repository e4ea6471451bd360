package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/diggy/internal/games/diggy"
	"github.com/vovakirdan/diggy/internal/platform/inspect"
)

var (
	flagInspectAddr string
	flagInspectZen  bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Start the HTTP playfield inspector",
	Long: `Serve one playfield over HTTP. The index page shows the grid and
dig buttons. JSON endpoints expose the snapshot, the mesh buffers and an
event stream.

Endpoints:
  GET  /                      - HTML view
  GET  /playfield/            - Snapshot JSON
  POST /playfield/dig/{dir}   - Dig left, right or down
  POST /playfield/reset       - Restart, optionally with ?seed=
  GET  /playfield/mesh.json   - Geometry buffers
  GET  /playfield/mesh.obj    - Geometry as Wavefront OBJ
  GET  /playfield/stream      - Server-sent events

Examples:
  diggy inspect
  diggy inspect --addr 127.0.0.1:9090 --seed 42`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&flagInspectAddr, "addr", ":8080", "HTTP listen address")
	inspectCmd.Flags().BoolVar(&flagInspectZen, "zen", false, "Use zen mode (hazards are harmless)")
}

func runInspect(_ *cobra.Command, _ []string) error {
	logger := newLogger("diggy-inspect", false)

	mode := diggy.ModeClassic
	if flagInspectZen {
		mode = diggy.ModeZen
	}
	game := diggy.New(mode, diggy.WithLogger(logger))
	srv := inspect.New(game, runSeed(), logger)
	if err := game.Err(); err != nil {
		return fmt.Errorf("playfield setup: %w", err)
	}

	fmt.Printf("Inspector listening on %s\n", flagInspectAddr)
	return srv.ListenAndServe(flagInspectAddr)
}
