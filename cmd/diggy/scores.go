package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/diggy/internal/platform/tui"
	"github.com/vovakirdan/diggy/internal/registry"
	"github.com/vovakirdan/diggy/internal/storage"
)

var (
	flagScoresLimit int
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show recorded runs",
	Long: `Display the best runs for a mode, or a summary of every mode when none
is given.

Examples:
  diggy scores
  diggy scores diggy
  diggy scores diggy_zen --limit 20
  diggy scores diggy --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Interactive scoreboard",
	Long:  `Browse recorded runs for every mode. Tab switches mode, Esc or Q leaves.`,
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return fmt.Errorf("opening runs database: %w", err)
		}
		defer store.Close()

		cfg := terminalConfig()
		_, err = tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
		return err
	},
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all runs of the mode")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening runs database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		if flagClear {
			return fmt.Errorf("--clear needs a mode")
		}
		return printSummary(store)
	}

	modeID := args[0]
	if !registry.Exists(modeID) {
		fmt.Fprintln(os.Stderr, "Run 'diggy list' to see available modes.")
		return fmt.Errorf("unknown mode %q", modeID)
	}

	if flagClear {
		if err := store.ClearRuns(modeID); err != nil {
			return err
		}
		fmt.Printf("Cleared runs for %s.\n", modeID)
		return nil
	}

	runs, err := store.TopRuns(modeID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	title := modeID
	for _, info := range registry.List() {
		if info.ID == modeID {
			title = info.Title
		}
	}
	fmt.Printf("Best Runs - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'diggy play %s' to set the first one!\n", modeID)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-12s  %s\n", "Rank", "Score", "Depth", "Player", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-12s  %s\n", "----", "-----", "-----", "------", "----")
	for i, r := range runs {
		player := r.Player
		if player == "" {
			player = "-"
		}
		fmt.Printf("  %-4d  %-8d  %-6d  %-12s  %s\n",
			i+1, r.Score, r.Depth, player, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.ModeStats(modeID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Runs: %d  Best: %d  Deepest: %d  Avg: %.1f\n",
			stats.Runs, stats.HighScore, stats.MaxDepth, stats.AvgScore)
	}
	return nil
}

func printSummary(store *storage.Store) error {
	all, err := store.AllStats()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	modes := make([]string, 0, len(all))
	for m := range all {
		modes = append(modes, m)
	}
	sort.Strings(modes)

	fmt.Printf("  %-12s  %-5s  %-8s  %-7s  %s\n", "Mode", "Runs", "Best", "Deepest", "Last played")
	fmt.Printf("  %-12s  %-5s  %-8s  %-7s  %s\n", "----", "----", "----", "-------", "-----------")
	for _, m := range modes {
		st := all[m]
		fmt.Printf("  %-12s  %-5d  %-8d  %-7d  %s\n",
			m, st.Runs, st.HighScore, st.MaxDepth, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
