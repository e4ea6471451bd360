// Package core provides fundamental types and utilities for the diggy platform.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

// Rect represents an axis-aligned area on the screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Mod returns i modulo n in the range [0, n) for any sign of i.
// n must be positive.
func Mod(i, n int) int {
	return ((i % n) + n) % n
}

// AddMod returns (a + b) mod n in the range [0, n). Both operands are
// reduced first, so the sum cannot overflow for any a and b.
// n must be positive.
func AddMod(a, b, n int) int {
	return Mod(Mod(a, n)+Mod(b, n), n)
}
