package core

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func newTestGrid(t *testing.T, width, height, offset int, seed int64) *Grid {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	spawn, err := NewSpawnTable([]SpawnEntry{{Weight: 1, Cell: Gold}}, rng)
	if err != nil {
		t.Fatalf("NewSpawnTable() error = %v", err)
	}
	g := NewGrid(spawn, rng)
	if err := g.Init(width, height, offset); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return g
}

func TestGridInitLayout(t *testing.T) {
	g := newTestGrid(t, 3, 5, 0, 1)

	for x := 0; x < 3; x++ {
		if c := g.CellAt(0, x); c != Sky {
			t.Errorf("row 0 col %d = %v, want sky", x, c)
		}
	}

	for y := 1; y < 5; y++ {
		counts := make(map[Cell]int)
		for x := 0; x < 3; x++ {
			counts[g.CellAt(y, x)]++
		}
		if counts[Dirt] != 2 || counts[Gold] != 1 {
			t.Errorf("row %d = %v, want two dirt and one gold", y, counts)
		}
		if c := g.CellAt(y, 1); c != Dirt {
			t.Errorf("row %d center = %v, want dirt", y, c)
		}
	}
}

func TestGridInitRejectsBadDimensions(t *testing.T) {
	g := NewGrid(nil, nil)

	for _, dims := range [][2]int{{0, 5}, {3, 0}, {-1, 4}} {
		err := g.Init(dims[0], dims[1], 0)
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("Init(%d, %d) error = %v, want *ConfigError", dims[0], dims[1], err)
		}
	}
}

func TestGridReinitReplacesState(t *testing.T) {
	g := newTestGrid(t, 3, 5, 2, 3)
	g.SetCellAt(0, 0, Hazard)
	g.Scroll()

	if err := g.Init(3, 5, 2); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if g.Offset() != 2 {
		t.Errorf("Offset() = %d, want 2", g.Offset())
	}
	if c := g.CellAt(0, 0); c != Sky {
		t.Errorf("row 0 after re-init = %v, want sky", c)
	}

	if err := g.Init(4, 6, 0); err != nil {
		t.Fatalf("Init() with new size error = %v", err)
	}
	if g.Width() != 4 || g.Height() != 6 || len(g.Snapshot().Rows) != 6 {
		t.Errorf("re-init to 4x6 gave %dx%d", g.Width(), g.Height())
	}
}

func TestGridCellRoundTrip(t *testing.T) {
	offsets := []int{
		0, 1, 4, 5, 13, -1, -6, -1000001, 1 << 32, -(1 << 40) - 3,
		math.MaxInt, math.MaxInt - 2, math.MinInt, math.MinInt + 1,
	}

	for _, offset := range offsets {
		g := newTestGrid(t, 3, 5, offset, 9)
		for row := 0; row < g.Height(); row++ {
			for col := 0; col < g.Width(); col++ {
				want := Cell((row*3+col)%7 + 0)
				g.SetCellAt(row, col, want)
				if got := g.CellAt(row, col); got != want {
					t.Errorf("offset %d: CellAt(%d, %d) = %v after writing %v", offset, row, col, got, want)
				}
			}
		}

		for row := 0; row < g.Height(); row++ {
			p := g.Physical(row)
			if p < 0 || p >= g.Height() {
				t.Errorf("offset %d: Physical(%d) = %d out of range", offset, row, p)
			}
		}
	}
}

func TestGridExtremeOffsetsKeepRowsDistinct(t *testing.T) {
	offsets := []int{math.MaxInt, math.MaxInt - 2, math.MinInt, math.MinInt + 3, -7}

	for _, offset := range offsets {
		g := newTestGrid(t, 3, 5, offset, 2)

		// Scrolling past the int range must keep a contiguous window.
		for step := 0; step < 8; step++ {
			seen := make(map[int]int)
			for row := 0; row < g.Height(); row++ {
				p := g.Physical(row)
				if p < 0 || p >= g.Height() {
					t.Fatalf("offset %d step %d: Physical(%d) = %d out of range", offset, step, row, p)
				}
				if prev, dup := seen[p]; dup {
					t.Fatalf("offset %d step %d: rows %d and %d share physical row %d", offset, step, prev, row, p)
				}
				seen[p] = row
			}

			before := make([]int, g.Height())
			for row := range before {
				before[row] = g.Physical(row)
			}
			g.Scroll()
			for row := 0; row < g.Height()-1; row++ {
				if got := g.Physical(row); got != before[row+1] {
					t.Fatalf("offset %d step %d: row %d moved to physical %d, want %d", offset, step, row, got, before[row+1])
				}
			}
		}

		snap := g.Snapshot()
		for row := -6; row < 2*g.Height(); row++ {
			for col := 0; col < g.Width(); col++ {
				if snap.At(row, col) != g.CellAt(row, col) {
					t.Fatalf("offset %d: Snapshot.At(%d, %d) disagrees with CellAt", offset, row, col)
				}
			}
		}
	}
}

func TestGridLogicalRowsWrap(t *testing.T) {
	g := newTestGrid(t, 3, 5, 0, 4)
	g.SetCellAt(2, 1, Diamond)

	if c := g.CellAt(7, 1); c != Diamond {
		t.Errorf("CellAt(7, 1) = %v, want diamond via wraparound", c)
	}
	if c := g.CellAt(-3, 1); c != Diamond {
		t.Errorf("CellAt(-3, 1) = %v, want diamond via wraparound", c)
	}
	if c := g.CellAt(2, -1); c != Decoration {
		t.Errorf("CellAt outside columns = %v, want decoration", c)
	}

	before := g.Snapshot().Clone()
	g.SetCellAt(2, 5, Hazard)
	g.SetCellAt(2, -1, Hazard)
	if !reflect.DeepEqual(before.Rows, g.Snapshot().Rows) {
		t.Error("out-of-range SetCellAt must not write into the grid")
	}
}

func TestRegenerateRowSingleSpecial(t *testing.T) {
	for _, width := range []int{1, 2, 3, 5} {
		g := newTestGrid(t, width, 4, 0, int64(width))
		for i := 0; i < 50; i++ {
			physical := i % g.Height()
			g.RegenerateRow(physical)

			row := g.Snapshot().Rows[physical]
			specials := 0
			for x, c := range row {
				if c == Dirt {
					continue
				}
				specials++
				if x != 0 && x != width-1 {
					t.Errorf("width %d: special at column %d", width, x)
				}
			}
			if specials != 1 {
				t.Errorf("width %d: row %v has %d specials, want 1", width, row, specials)
			}
		}
	}
}

func TestRegenerateRowUsesBothSides(t *testing.T) {
	g := newTestGrid(t, 3, 4, 0, 11)
	sides := make(map[int]int)
	for i := 0; i < 200; i++ {
		g.RegenerateRow(1)
		row := g.Snapshot().Rows[1]
		for x, c := range row {
			if c == Gold {
				sides[x]++
			}
		}
	}
	if sides[0] == 0 || sides[2] == 0 || sides[1] != 0 {
		t.Errorf("hazard column distribution = %v, want only columns 0 and 2", sides)
	}
}

func TestHitRowClearsTargetAndCenter(t *testing.T) {
	g := newTestGrid(t, 3, 5, 0, 5)
	before := append([]Cell(nil), g.Snapshot().Rows[g.Physical(1)]...)

	prior := g.HitRow(1, 0)
	if prior != before[0] {
		t.Errorf("HitRow returned %v, want prior %v", prior, before[0])
	}

	want := []Cell{Hole, Hole, before[2]}
	if got := g.Snapshot().Rows[g.Physical(1)]; !reflect.DeepEqual(got, want) {
		t.Errorf("row after hit = %v, want %v", got, want)
	}
}

func TestHitRowIsIdempotent(t *testing.T) {
	g := newTestGrid(t, 3, 5, 3, 6)
	g.HitRow(2, 2)
	first := g.Snapshot().Clone()

	if prior := g.HitRow(2, 2); prior != Hole {
		t.Errorf("second hit prior = %v, want hole", prior)
	}
	if !reflect.DeepEqual(first.Rows, g.Snapshot().Rows) {
		t.Error("second hit on the same cell changed the grid")
	}
}

func TestHitRowClampsColumn(t *testing.T) {
	g := newTestGrid(t, 3, 5, 0, 8)
	g.SetCellAt(1, 2, Diamond)

	if prior := g.HitRow(1, 99); prior != Diamond {
		t.Errorf("clamped hit prior = %v, want diamond", prior)
	}
	if c := g.CellAt(1, 2); c != Hole {
		t.Errorf("clamped target = %v, want hole", c)
	}
}

func TestScrollRegeneratesAgingRow(t *testing.T) {
	g := newTestGrid(t, 3, 5, 0, 10)

	physical := g.Scroll()
	if physical != 0 {
		t.Errorf("Scroll() regenerated %d, want 0", physical)
	}
	if g.Offset() != 1 {
		t.Errorf("Offset() = %d, want 1", g.Offset())
	}
	// The former sky row is now the bottom of the window.
	for x := 0; x < 3; x++ {
		if g.CellAt(4, x) == Sky {
			t.Errorf("regenerated row still sky at column %d", x)
		}
	}
}
