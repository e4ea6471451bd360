package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	platformcore "github.com/vovakirdan/diggy/internal/core"
	"github.com/vovakirdan/diggy/internal/games/diggy"
	"github.com/vovakirdan/diggy/internal/games/diggy/core"
	"github.com/vovakirdan/diggy/internal/games/diggy/mesh"
)

var (
	flagMeshOut   string
	flagMeshDigs  int
	flagMeshDirs  string
	flagMeshDecor bool
	flagMeshFrom  string
)

var meshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Export playfield geometry",
}

var meshExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the playfield mesh as Wavefront OBJ",
	Long: `Build a playfield, dig it --digs times following the --dirs pattern, and
write the synthesized mesh as OBJ. With --decor the border walls are
written instead.

Examples:
  diggy mesh export --seed 7 --digs 30 --out field.obj
  diggy mesh export --dirs left,down,right,down --digs 12
  diggy mesh export --decor --out walls.obj`,
	Args: cobra.NoArgs,
	RunE: runMeshExport,
}

var meshTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Write the mesh template set as YAML",
	Long: `Print the built-in template set, or a validated copy of --from, as
YAML. The output can be edited and set as render.templates in the
playfield config.`,
	Args: cobra.NoArgs,
	RunE: runMeshTemplates,
}

func init() {
	meshCmd.PersistentFlags().StringVarP(&flagMeshOut, "out", "o", "", "Output file (default stdout)")
	meshExportCmd.Flags().IntVar(&flagMeshDigs, "digs", 0, "Number of digs before export")
	meshExportCmd.Flags().StringVar(&flagMeshDirs, "dirs", "down", "Comma-separated dig pattern (left, right, down)")
	meshExportCmd.Flags().BoolVar(&flagMeshDecor, "decor", false, "Export the border walls instead of the field")
	meshTemplatesCmd.Flags().StringVar(&flagMeshFrom, "from", "", "Template set YAML to validate and re-emit")

	meshCmd.AddCommand(meshExportCmd)
	meshCmd.AddCommand(meshTemplatesCmd)
}

func parseDirs(s string) ([]core.Dir, error) {
	var dirs []core.Dir
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, ok := core.ParseDir(part)
		if !ok {
			return nil, fmt.Errorf("unknown dig direction %q", part)
		}
		dirs = append(dirs, d)
	}
	if len(dirs) == 0 {
		dirs = []core.Dir{core.DirStraight}
	}
	return dirs, nil
}

// output opens --out, or stdout when it is empty.
func output() (io.Writer, func() error, error) {
	if flagMeshOut == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(flagMeshOut)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func runMeshExport(_ *cobra.Command, _ []string) error {
	dirs, err := parseDirs(flagMeshDirs)
	if err != nil {
		return err
	}
	logger := newLogger("diggy-mesh", false)

	game := diggy.New(diggy.ModeZen, diggy.WithLogger(logger))
	seed := runSeed()
	game.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: flagFPS, Seed: seed})
	if err := game.Err(); err != nil {
		return fmt.Errorf("playfield setup: %w", err)
	}

	for i := 0; i < flagMeshDigs; i++ {
		if _, err := game.Dig(dirs[i%len(dirs)]); err != nil {
			return fmt.Errorf("dig %d: %w", i+1, err)
		}
	}

	w, closeOut, err := output()
	if err != nil {
		return err
	}

	frame := game.Frame()
	name, buffers := "playfield", frame.Mesh
	if flagMeshDecor {
		name, buffers = "walls", &frame.Decor.Walls
	}
	if err := mesh.WriteOBJ(w, name, buffers); err != nil {
		_ = closeOut()
		return err
	}
	if err := closeOut(); err != nil {
		return err
	}
	logger.Info("mesh exported", "seed", seed, "digs", flagMeshDigs,
		"vertices", buffers.VertexCount(), "triangles", buffers.TriangleCount())
	return nil
}

func runMeshTemplates(_ *cobra.Command, _ []string) error {
	ts := mesh.DefaultTemplates()
	if flagMeshFrom != "" {
		loaded, err := mesh.LoadTemplates(flagMeshFrom)
		if err != nil {
			return err
		}
		ts = loaded
	}
	data, err := mesh.MarshalTemplates(ts)
	if err != nil {
		return err
	}

	w, closeOut, err := output()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = closeOut()
		return err
	}
	return closeOut()
}
