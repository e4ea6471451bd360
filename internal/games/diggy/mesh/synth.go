package mesh

import (
	"fmt"

	"github.com/vovakirdan/diggy/internal/games/diggy/core"
)

// Synthesizer stitches templates into playfield geometry. It keeps one set
// of scratch buffers that every Build call clears and refills.
type Synthesizer struct {
	templates *TemplateSet
	atlas     core.Atlas
	out       Buffers
}

// NewSynthesizer returns a synthesizer over ts. A set with a missing or
// malformed template is rejected.
func NewSynthesizer(ts *TemplateSet, atlas core.Atlas) (*Synthesizer, error) {
	if ts == nil {
		return nil, fmt.Errorf("mesh: %w: nil template set", ErrMissingTemplate)
	}
	if err := ts.Validate(); err != nil {
		return nil, fmt.Errorf("mesh: %w", err)
	}
	return &Synthesizer{templates: ts, atlas: atlas}, nil
}

// Atlas returns the atlas used for UV offsets.
func (s *Synthesizer) Atlas() core.Atlas {
	return s.atlas
}

// Build synthesizes geometry for every cell of snap in logical row-major
// order. The returned buffers are owned by the synthesizer and are
// overwritten by the next Build; use Clone to keep them.
//
// Cell (row, col) occupies x in [col, col+1] and y in [-(row+1), -row].
func (s *Synthesizer) Build(snap core.Snapshot) *Buffers {
	s.out.Reset()
	w := window{snap: snap}
	for r := 0; r < snap.Height; r++ {
		for c := 0; c < snap.Width; c++ {
			s.emitCell(w, r, c)
		}
	}
	return &s.out
}

func (s *Synthesizer) emitCell(w window, r, c int) {
	origin := Vec3{X: float32(c), Y: -float32(r + 1)}
	cell := w.at(r, c)

	switch cell {
	case core.Decoration:
	case core.Hole:
		s.emitHole(w, r, c, origin)
	case core.Sky:
		s.emitGrass(w, r, c, origin)
	default:
		s.emit(KindFront, origin, cell)
	}
}

func (s *Synthesizer) emitHole(w window, r, c int, origin Vec3) {
	s.emit(KindBack, origin, core.Hole)

	left := w.at(r, c-1)
	right := w.at(r, c+1)
	above := w.above(r, c)
	below := w.at(r+1, c)

	if left.IsSolid() {
		s.emit(KindSideLeft, origin, left)
	}
	if right.IsSolid() {
		s.emit(KindSideRight, origin, right)
	}
	if blocksFromAbove(above) {
		s.emit(KindSideTop, origin, above)
	}
	if below.IsSolid() {
		s.emit(KindSideBottom, origin, below)
	}

	openLeft, openRight := !left.IsSolid(), !right.IsSolid()
	openUp, openDown := !blocksFromAbove(above), !below.IsSolid()

	if openUp && openLeft {
		if d := w.above(r, c-1); blocksFromAbove(d) {
			s.emit(KindCornerTopLeft, origin, d)
		}
	}
	if openUp && openRight {
		if d := w.above(r, c+1); blocksFromAbove(d) {
			s.emit(KindCornerTopRight, origin, d)
		}
	}
	if openDown && openLeft {
		if d := w.at(r+1, c-1); d.IsSolid() {
			s.emit(KindCornerBottomLeft, origin, d)
		}
	}
	if openDown && openRight {
		if d := w.at(r+1, c+1); d.IsSolid() {
			s.emit(KindCornerBottomRight, origin, d)
		}
	}
}

func (s *Synthesizer) emitGrass(w window, r, c int, origin Vec3) {
	if k, ok := grassKind(w.at(r+1, c-1), w.at(r+1, c), w.at(r+1, c+1)); ok {
		s.emit(k, origin, core.Sky)
	}
}

// grassKind picks the cap hanging over the row below a sky cell.
func grassKind(belowLeft, below, belowRight core.Cell) (Kind, bool) {
	switch {
	case below.IsSolid():
		return KindGrassCenter, true
	case belowLeft.IsSolid():
		return KindGrassLeft, true
	case belowRight.IsSolid():
		return KindGrassRight, true
	}
	return 0, false
}

// blocksFromAbove reports whether a cell above a hole closes it. Sky has no
// solid underside.
func blocksFromAbove(c core.Cell) bool {
	return c.IsSolid() && c != core.Sky
}

// emit appends template k at origin with UVs from tile's atlas entry.
func (s *Synthesizer) emit(k Kind, origin Vec3, tile core.Cell) {
	appendTemplate(&s.out, s.templates.templates[k], origin, s.atlas.Offset(tile), s.atlas.TileSize())
}

func appendTemplate(b *Buffers, t Template, origin Vec3, uv core.UV, size float32) {
	base := uint32(len(b.Positions))
	for _, p := range t.Positions {
		b.Positions = append(b.Positions, p.Add(origin))
	}
	for _, tc := range t.UVs {
		b.UVs = append(b.UVs, Vec2{X: uv.U + tc.X*size, Y: uv.V + tc.Y*size})
	}
	b.Normals = append(b.Normals, t.Normals...)
	for _, i := range t.Indices {
		b.Indices = append(b.Indices, base+i)
	}
}

// window bounds neighbor lookups to the visible rows so the circular buffer
// never wraps around between the top and bottom of the playfield.
type window struct {
	snap core.Snapshot
}

// at reads a logical cell. Rows below the window read as dirt; columns
// outside the grid read as decoration.
func (w window) at(r, c int) core.Cell {
	if r >= w.snap.Height {
		if c < 0 || c >= w.snap.Width {
			return core.Decoration
		}
		return core.Dirt
	}
	if r < 0 {
		return core.Hole
	}
	return w.snap.At(r, c)
}

// above reads the cell over (r, c). Above the window is open air.
func (w window) above(r, c int) core.Cell {
	if r <= 0 {
		return core.Hole
	}
	return w.at(r-1, c)
}

// Decor is the static border geometry flanking the interactive columns.
type Decor struct {
	Walls   Buffers // Dirt faces down both borders
	Surface Buffers // Grass caps on the surface row, hidden once the player is underground
}

// BuildDecor synthesizes the border for a playfield of width x height with
// decoWidth columns on each side. The border is a sky row over dirt and
// does not change while scrolling, so it is built once per reset.
func (s *Synthesizer) BuildDecor(width, height, decoWidth int) Decor {
	var d Decor
	if decoWidth <= 0 || height <= 0 {
		return d
	}

	cols := make([]int, 0, 2*decoWidth)
	for i := 1; i <= decoWidth; i++ {
		cols = append(cols, -i, width-1+i)
	}

	front := s.templates.templates[KindFront]
	grass := s.templates.templates[KindGrassCenter]
	size := s.atlas.TileSize()
	for r := 0; r < height; r++ {
		for _, c := range cols {
			origin := Vec3{X: float32(c), Y: -float32(r + 1)}
			if r == 0 {
				appendTemplate(&d.Surface, grass, origin, s.atlas.Offset(core.Sky), size)
				continue
			}
			appendTemplate(&d.Walls, front, origin, s.atlas.Offset(core.Dirt), size)
		}
	}
	return d
}
