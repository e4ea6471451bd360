// Package core holds the diggy playfield model: cell types, spawn selection,
// the circular row buffer and the scroll controller that drives it.
//
// This package has no dependency on the terminal or any renderer. It emits
// events and snapshots; everything audible or visible is a subscriber.
package core

import (
	"strconv"
	"strings"
)

// Cell is the integer id of a playfield tile.
type Cell int

const (
	Decoration Cell = -1 // Non-interactive border filler
	Hole       Cell = 0
	Dirt       Cell = 1
	Gold       Cell = 2
	Sky        Cell = 3 // Grass-topped surface row
	Diamond    Cell = 4
	Hazard     Cell = 5
	PowerUp    Cell = 6
)

// cellCount is the number of ids including Decoration.
const cellCount = 8

var cellNames = [cellCount]string{
	"decoration", "hole", "dirt", "gold", "sky", "diamond", "hazard", "powerup",
}

// String returns the lowercase name of the cell.
func (c Cell) String() string {
	if !c.Valid() {
		return "cell(" + strconv.Itoa(int(c)) + ")"
	}
	return cellNames[c+1]
}

// Valid reports whether c is one of the known ids.
func (c Cell) Valid() bool {
	return c >= Decoration && c <= PowerUp
}

// IsSolid reports whether the cell blocks the dug tunnel.
// Everything except a hole is solid, decoration included.
func (c Cell) IsSolid() bool {
	return c != Hole
}

// IsSpecial reports whether the cell is a spawnable non-dirt tile.
func (c Cell) IsSpecial() bool {
	switch c {
	case Gold, Diamond, Hazard, PowerUp:
		return true
	}
	return false
}

// ParseCell accepts a cell name ("gold", "power-up") or its numeric id.
func ParseCell(s string) (Cell, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		c := Cell(n)
		return c, c.Valid()
	}

	s = strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
	switch s {
	case "grass":
		return Sky, true
	case "empty":
		return Hole, true
	}
	for i, name := range cellNames {
		if name == s {
			return Cell(i - 1), true
		}
	}
	return Hole, false
}

// UV is a texture coordinate in atlas space.
type UV struct {
	U, V float32
}

// Atlas maps each cell id to the UV offset of its sub-image in a shared
// square texture sheet split into Tiles x Tiles cells.
type Atlas struct {
	Tiles   int
	offsets [cellCount]UV
}

// DefaultAtlas lays cell ids out left to right, bottom to top, in a sheet of
// tiles x tiles. Decoration shares the dirt tile.
func DefaultAtlas(tiles int) Atlas {
	if tiles < 3 {
		tiles = 3
	}
	a := Atlas{Tiles: tiles}
	size := a.TileSize()
	for c := Hole; c <= PowerUp; c++ {
		idx := int(c)
		a.offsets[c+1] = UV{
			U: float32(idx%tiles) * size,
			V: float32(idx/tiles) * size,
		}
	}
	a.offsets[Decoration+1] = a.offsets[Dirt+1]
	return a
}

// TileSize returns the width of one tile in UV units.
func (a Atlas) TileSize() float32 {
	if a.Tiles <= 0 {
		return 1
	}
	return 1 / float32(a.Tiles)
}

// Offset returns the atlas offset for c. Unknown ids map to the dirt tile.
func (a Atlas) Offset(c Cell) UV {
	if !c.Valid() {
		c = Dirt
	}
	return a.offsets[c+1]
}

// SetOffset overrides the atlas entry for c.
func (a *Atlas) SetOffset(c Cell, uv UV) {
	if c.Valid() {
		a.offsets[c+1] = uv
	}
}
