// Package window draws the synthesized playfield geometry in a desktop
// window. The ebiten front end is only compiled with the "ebiten" build
// tag; camera, projection and atlas code build everywhere.
package window

import (
	"math"

	"github.com/vovakirdan/diggy/internal/games/diggy/mesh"
)

// Camera follows the player down the shaft. Y is the logical row shown at
// the top of the view and eases toward its target every update.
type Camera struct {
	Y      float64
	Speed  float64 // Approach rate per second
	Focus  float64 // Rows kept above the player
	target float64
	offset int
	seen   bool
}

// NewCamera creates a camera that keeps focus rows above the player.
func NewCamera(speed, focus float64) *Camera {
	return &Camera{Speed: speed, Focus: focus}
}

// Follow retargets the camera after a frame. When the playfield scrolled,
// Y shifts by the same amount so the view does not jump, then eases in.
func (c *Camera) Follow(playerRow, offset int) {
	if c.seen {
		c.Y -= float64(offset - c.offset)
	}
	c.offset = offset
	c.target = math.Max(float64(playerRow)-c.Focus, 0)
	if !c.seen {
		c.Y = c.target
		c.seen = true
	}
}

// Snap ends any tween.
func (c *Camera) Snap() {
	c.Y = c.target
}

// Target returns the row the camera is easing toward.
func (c *Camera) Target() float64 {
	return c.target
}

// Update advances the tween by dt seconds.
func (c *Camera) Update(dt float64) {
	if dt <= 0 {
		return
	}
	k := 1 - math.Exp(-c.Speed*dt)
	c.Y += (c.target - c.Y) * k
	if math.Abs(c.target-c.Y) < 1e-3 {
		c.Y = c.target
	}
}

// Projection maps mesh space to screen pixels with a cabinet projection, so
// faces inside holes stay visible from the front.
type Projection struct {
	Scale   float64 // Pixels per cell
	Depth   float64 // Screen shift per unit of z, in cells
	OriginX float64 // Pixel x of mesh x=0
	OriginY float64 // Pixel y of the camera row
}

// Project returns the pixel position of p for a camera at row camY.
func (pr Projection) Project(p mesh.Vec3, camY float64) (x, y float32) {
	z := float64(p.Z)
	px := pr.OriginX + (float64(p.X)+z*pr.Depth)*pr.Scale
	py := pr.OriginY + (-float64(p.Y)-camY-z*pr.Depth)*pr.Scale
	return float32(px), float32(py)
}

// Shade returns a brightness factor for a vertex. Front faces are
// brightest; walls and floors inside holes are darker.
func Shade(p, n mesh.Vec3) float32 {
	switch {
	case n.Z < -0.5 && p.Z > 0.5:
		return 0.45
	case n.Z < -0.5:
		return 1
	case n.Y > 0.5:
		return 0.85
	case n.Y < -0.5:
		return 0.55
	}
	return 0.7
}
