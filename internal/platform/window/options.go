package window

import (
	"io"

	"github.com/charmbracelet/log"
)

// Options configures the window front end.
type Options struct {
	Title       string
	Width       int // Logical pixels
	Height      int
	Scale       int     // Pixels per cell
	TPS         int     // Ticks per second
	Depth       float64 // Cabinet projection depth, in cells per unit z
	CameraSpeed float64
	Focus       float64 // Rows kept above the player
	Seed        int64
	Logger      *log.Logger
}

// DefaultOptions returns a window sized for the default playfield.
func DefaultOptions() Options {
	return Options{
		Title:       "diggy",
		Width:       480,
		Height:      720,
		Scale:       48,
		TPS:         60,
		Depth:       0.35,
		CameraSpeed: 8,
		Focus:       3,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Scale <= 0 {
		o.Scale = d.Scale
	}
	if o.TPS <= 0 {
		o.TPS = d.TPS
	}
	if o.Depth <= 0 {
		o.Depth = d.Depth
	}
	if o.CameraSpeed <= 0 {
		o.CameraSpeed = d.CameraSpeed
	}
	if o.Focus < 0 {
		o.Focus = d.Focus
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}
