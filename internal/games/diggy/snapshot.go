package diggy

import "github.com/vovakirdan/diggy/internal/games/diggy/core"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying  GameStateType = "playing"
	StatePaused   GameStateType = "paused"
	StateGameOver GameStateType = "game_over"
	StateError    GameStateType = "error"
)

// Snapshot captures the complete game state for determinism testing and
// for the inspector.
type Snapshot struct {
	Tick           uint64        `json:"tick"`
	Mode           string        `json:"mode"`
	Score          int           `json:"score"`
	Health         int           `json:"health"`
	Depth          int           `json:"depth"`
	Offset         int           `json:"offset"`
	PlayerRow      int           `json:"player_row"`
	SurfaceVisible bool          `json:"surface_visible"`
	State          GameStateType `json:"state"`
	Rows           [][]core.Cell `json:"rows"` // Logical order, row 0 at the top of the window
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:  g.tick,
		Mode:  string(g.mode),
		State: StatePlaying,
	}
	switch {
	case g.err != nil:
		s.State = StateError
	case g.gameOver:
		s.State = StateGameOver
	case g.paused:
		s.State = StatePaused
	}
	if g.ctrl == nil {
		return s
	}

	cur := g.ctrl.Cursor()
	s.Score = g.scorer.Score()
	s.Health = g.health.Current()
	s.Depth = cur.Depth
	s.Offset = cur.Offset
	s.PlayerRow = g.ctrl.PlayerRow()
	s.SurfaceVisible = g.surface.Visible()

	snap := g.ctrl.Snapshot()
	s.Rows = make([][]core.Cell, snap.Height)
	for r := range s.Rows {
		row := make([]core.Cell, snap.Width)
		for c := range row {
			row[c] = snap.At(r, c)
		}
		s.Rows[r] = row
	}
	return s
}
