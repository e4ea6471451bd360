package inspect

import (
	"github.com/vovakirdan/diggy/internal/games/diggy"
	"github.com/vovakirdan/diggy/internal/games/diggy/core"
)

//go:generate templ generate -f page.templ

var digDirections = []string{"left", "down", "right"}

// cellClass maps a cell to its CSS class on the index page.
func cellClass(c core.Cell) string {
	return "c-" + c.String()
}

// isPlayerCell reports whether row r, column c holds the player. The player
// always stands in the center column.
func isPlayerCell(s diggy.Snapshot, r, c int) bool {
	if r != s.PlayerRow || len(s.Rows) == 0 {
		return false
	}
	return c == len(s.Rows[0])/2
}
