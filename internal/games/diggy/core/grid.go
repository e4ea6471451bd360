package core

import (
	platformcore "github.com/vovakirdan/diggy/internal/core"
)

// Grid is a fixed number of rows used as a circular buffer.
// Logical row k lives in physical row (k + offset) mod height, so the
// playfield scrolls forever while storage stays the same size.
type Grid struct {
	width  int
	height int
	offset int // Scroll counter, may wrap around the int range
	top    int // Physical row of logical row 0, always in [0, height)
	rows   [][]Cell

	spawn *SpawnTable
	rng   Source
}

// NewGrid creates an unallocated grid that generates rows from spawn.
// rng picks the hazard column; it is usually the same source spawn draws from.
func NewGrid(spawn *SpawnTable, rng Source) *Grid {
	return &Grid{spawn: spawn, rng: rng}
}

// Init allocates height rows of width cells and fills them: logical row 0
// becomes sky, every other row is regenerated. Calling Init again replaces
// the previous contents, reusing storage when the dimensions are unchanged.
func (g *Grid) Init(width, height, offset int) error {
	if width <= 0 {
		return configErr("grid.width", "must be positive, got %d", width)
	}
	if height <= 0 {
		return configErr("grid.height", "must be positive, got %d", height)
	}

	if width != g.width || height != g.height || g.rows == nil {
		g.rows = make([][]Cell, height)
		for i := range g.rows {
			g.rows[i] = make([]Cell, width)
		}
	}
	g.width = width
	g.height = height
	g.offset = offset
	g.top = platformcore.Mod(offset, height)

	for i := range g.rows {
		g.RegenerateRow(i)
	}
	top := g.rows[g.Physical(0)]
	for x := range top {
		top[x] = Sky
	}
	return nil
}

// Width returns the number of interactive columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of stored rows.
func (g *Grid) Height() int { return g.height }

// Offset returns the scroll counter: the initial offset plus one per scroll.
func (g *Grid) Offset() int { return g.offset }

// Center returns the always-clearable column.
func (g *Grid) Center() int { return g.width / 2 }

// Physical maps a logical row to its storage slot.
func (g *Grid) Physical(logicalRow int) int {
	return platformcore.AddMod(logicalRow, g.top, g.height)
}

// HazardColumns returns the columns a row's special cell may occupy.
func (g *Grid) HazardColumns() [2]int {
	return [2]int{0, g.width - 1}
}

// RegenerateRow overwrites one physical row in place: one hazard column
// (first or last, uniformly) gets a spawned cell, the rest become dirt.
func (g *Grid) RegenerateRow(physical int) {
	row := g.rows[platformcore.Mod(physical, g.height)]

	cols := g.HazardColumns()
	hazard := cols[0]
	if g.rng != nil {
		hazard = cols[g.rng.Intn(len(cols))]
	}

	for x := range row {
		row[x] = Dirt
	}
	if g.spawn != nil {
		row[hazard] = g.spawn.Pick()
	}
}

// Scroll regenerates the row aging out at the top of the window and
// advances the offset. It returns the regenerated physical row.
func (g *Grid) Scroll() int {
	physical := g.top
	g.RegenerateRow(physical)
	g.top = (g.top + 1) % g.height
	g.offset++
	return physical
}

// CellAt returns the cell at a logical position. Columns outside the
// interactive width read as Decoration.
func (g *Grid) CellAt(logicalRow, col int) Cell {
	if col < 0 || col >= g.width {
		return Decoration
	}
	return g.rows[g.Physical(logicalRow)][col]
}

// SetCellAt writes a cell at a logical position. Columns outside the
// interactive width are ignored.
func (g *Grid) SetCellAt(logicalRow, col int, c Cell) {
	if col < 0 || col >= g.width {
		return
	}
	g.rows[g.Physical(logicalRow)][col] = c
}

// HitRow clears the target column (clamped to the interactive width) and
// the center column of a logical row. It returns the target's prior cell.
func (g *Grid) HitRow(logicalRow, target int) Cell {
	target = platformcore.Clamp(target, 0, g.width-1)
	prior := g.CellAt(logicalRow, target)
	g.SetCellAt(logicalRow, target, Hole)
	g.SetCellAt(logicalRow, g.Center(), Hole)
	return prior
}

// Snapshot returns a read-only view of the rows. The rows are shared, not
// copied; readers must not modify them or keep them past the call.
func (g *Grid) Snapshot() Snapshot {
	return Snapshot{
		Rows:   g.rows,
		Offset: g.top,
		Width:  g.width,
		Height: g.height,
	}
}

// Snapshot is the borrowed grid state handed to the mesh synthesizer.
type Snapshot struct {
	Rows   [][]Cell
	Offset int // Physical row holding logical row 0
	Width  int
	Height int
}

// At reads a logical position with the same rules as Grid.CellAt.
func (s Snapshot) At(logicalRow, col int) Cell {
	if col < 0 || col >= s.Width || s.Height == 0 {
		return Decoration
	}
	return s.Rows[platformcore.AddMod(logicalRow, s.Offset, s.Height)][col]
}

// Clone returns a deep copy whose rows are independent of the grid.
func (s Snapshot) Clone() Snapshot {
	rows := make([][]Cell, len(s.Rows))
	for i, r := range s.Rows {
		rows[i] = append([]Cell(nil), r...)
	}
	s.Rows = rows
	return s
}
