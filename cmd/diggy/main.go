// diggy is an endless dig playfield for the terminal, a desktop window, and
// the browser.
//
// Usage:
//
//	diggy list                - List available modes
//	diggy play [mode]         - Dig in a mode (menu when omitted)
//	diggy menu                - Start the mode picker
//	diggy scores [mode]       - Show recorded runs
//	diggy board               - Interactive scoreboard
//	diggy serve               - Start SSH server for remote play
//	diggy inspect             - Start the HTTP playfield inspector
//	diggy mesh export         - Write the playfield geometry as OBJ
//	diggy mesh templates      - Write the mesh template set as YAML
//	diggy window              - Open the 3D window (build tag ebiten)
//
// Global flags:
//
//	--fps <rate>           - Set tick rate (default: 30)
//	--seed <value>         - Set RNG seed for reproducible playfields
//	--db <path>            - Set database path (default: ~/.diggy/runs.db)
//	--config <path>        - Custom playfield config YAML
//	--difficulty <preset>  - easy, normal, hard, fixed
//	--log-level <level>    - Log to stderr at debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/diggy/internal/config"
	"github.com/vovakirdan/diggy/internal/games/diggy"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "diggy",
	Short: "Diggy - dig an endless playfield in your terminal",
	Long: `Diggy is an endless digging game. Every dig clears a cell below the
player and, past the scroll threshold, the playfield scrolls up with a
freshly spawned row at the bottom.

Available commands:
  list     - Show all modes
  play     - Dig in a specific mode
  menu     - Interactive mode picker
  scores   - View recorded runs
  board    - Interactive scoreboard
  serve    - Start SSH server for remote play
  inspect  - HTTP inspector for the playfield and its mesh
  mesh     - Export geometry and template sets
  window   - 3D window front end

Examples:
  diggy play
  diggy play diggy_zen --difficulty easy
  diggy serve --ssh :2222
  diggy inspect --addr :8080
  diggy mesh export --digs 40 --out field.obj`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if flagDifficulty != "" {
			if _, err := config.ParsePreset(flagDifficulty); err != nil {
				return err
			}
		}
		diggy.SetConfigPath(flagConfig)
		diggy.SetDifficultyPreset(flagDifficulty)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.diggy/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom playfield config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log to stderr at this level (debug, info, warn, error)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(meshCmd)
	rootCmd.AddCommand(windowCmd)
}

// newLogger returns a stderr logger when --log-level is set. Interactive
// commands get a discard logger otherwise so the alt screen stays clean.
func newLogger(prefix string, interactive bool) *log.Logger {
	if flagLogLevel == "" {
		if interactive {
			return log.New(io.Discard)
		}
		return log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          prefix,
		})
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// runSeed returns --seed, or a time-based seed when it is zero.
func runSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
