//go:build !ebiten

package window

import (
	"errors"

	"github.com/vovakirdan/diggy/internal/games/diggy"
)

// ErrNoWindow is returned when the binary was built without the ebiten tag.
var ErrNoWindow = errors.New("window: built without the 'ebiten' tag; rebuild with -tags ebiten")

// Run reports that the window front end is not compiled in.
func Run(*diggy.Game, Options) error {
	return ErrNoWindow
}
