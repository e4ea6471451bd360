package diggy

import (
	"github.com/vovakirdan/diggy/internal/games/diggy/core"
	"github.com/vovakirdan/diggy/internal/games/diggy/mesh"
)

// Frame is what a renderer receives after every playfield change.
// Mesh is owned by the game and is only valid until the next frame.
type Frame struct {
	Mesh           *mesh.Buffers
	Decor          *mesh.Decor // Rebuilt only on reset
	SurfaceVisible bool
	Cursor         core.Cursor
	PlayerRow      int
	Atlas          core.Atlas
}

// Renderer consumes synthesized geometry.
type Renderer interface {
	Present(f Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(f Frame)

// Present calls f(frame).
func (f RendererFunc) Present(frame Frame) { f(frame) }
