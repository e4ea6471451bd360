package core

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// scriptedSource replays fixed draws.
type scriptedSource struct {
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0] % n
	s.ints = s.ints[1:]
	return v
}

func TestSpawnWeightedRatio(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	table, err := NewSpawnTable([]SpawnEntry{
		{Weight: 1, Cell: Gold},
		{Weight: 3, Cell: Diamond},
	}, rng)
	if err != nil {
		t.Fatalf("NewSpawnTable() error = %v", err)
	}

	const draws = 100000
	counts := make(map[Cell]int)
	for i := 0; i < draws; i++ {
		counts[table.Pick()]++
	}

	if counts[Gold]+counts[Diamond] != draws {
		t.Fatalf("unexpected ids drawn: %v", counts)
	}

	ratio := float64(counts[Diamond]) / float64(counts[Gold])
	if math.Abs(ratio-3)/3 > 0.05 {
		t.Errorf("diamond:gold ratio = %.3f, want 3 within 5%%", ratio)
	}
}

func TestSpawnInclusiveUpperBound(t *testing.T) {
	tests := []struct {
		name string
		draw float64
		want Cell
	}{
		{"zero draw", 0, Gold},
		{"exactly first cumulative", 0.25, Gold},
		{"just past first cumulative", 0.2500001, Diamond},
		{"top of range", 0.999999, Diamond},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := &scriptedSource{floats: []float64{tc.draw}}
			table, err := NewSpawnTable([]SpawnEntry{
				{Weight: 1, Cell: Gold},
				{Weight: 3, Cell: Diamond},
			}, src)
			if err != nil {
				t.Fatalf("NewSpawnTable() error = %v", err)
			}
			if got := table.Pick(); got != tc.want {
				t.Errorf("Pick() with draw %v = %v, want %v", tc.draw, got, tc.want)
			}
		})
	}
}

func TestSpawnZeroWeightNeverWins(t *testing.T) {
	src := &scriptedSource{floats: []float64{0, 0.5, 0.99}}
	table, err := NewSpawnTable([]SpawnEntry{
		{Weight: 0, Cell: Hazard},
		{Weight: 2, Cell: Gold},
	}, src)
	if err != nil {
		t.Fatalf("NewSpawnTable() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if got := table.Pick(); got != Gold {
			t.Errorf("draw %d: Pick() = %v, want gold", i, got)
		}
	}
}

func TestSpawnDegenerateConfigIsFlagged(t *testing.T) {
	tests := []struct {
		name    string
		entries []SpawnEntry
	}{
		{"empty", nil},
		{"all zero", []SpawnEntry{{Weight: 0, Cell: Gold}, {Weight: 0, Cell: Hazard}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			table, err := NewSpawnTable(tc.entries, rand.New(rand.NewSource(1)))
			if err == nil {
				t.Fatal("expected a configuration warning")
			}
			if !errors.Is(err, ErrNoSpawnWeight) {
				t.Errorf("error = %v, want ErrNoSpawnWeight", err)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Field != "spawn" {
				t.Errorf("error = %#v, want *ConfigError on field spawn", err)
			}
			if table == nil || !table.Degenerate() {
				t.Fatal("degenerate table should still be returned and report Degenerate()")
			}
			if got := table.Pick(); got != Dirt {
				t.Errorf("Pick() = %v, want dirt fallback", got)
			}
		})
	}
}

func TestSpawnRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry SpawnEntry
		field string
	}{
		{"negative weight", SpawnEntry{Weight: -1, Cell: Gold}, "spawn[0].weight"},
		{"decoration", SpawnEntry{Weight: 1, Cell: Decoration}, "spawn[0].cell"},
		{"unknown id", SpawnEntry{Weight: 1, Cell: Cell(9)}, "spawn[0].cell"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSpawnTable([]SpawnEntry{tc.entry}, rand.New(rand.NewSource(1)))
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error = %v, want *ConfigError", err)
			}
			if cfgErr.Field != tc.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tc.field)
			}
		})
	}
}

func TestSpawnDeterministicWithSeed(t *testing.T) {
	entries := []SpawnEntry{{Weight: 1, Cell: Gold}, {Weight: 1, Cell: Hazard}, {Weight: 2, Cell: PowerUp}}
	a, _ := NewSpawnTable(entries, rand.New(rand.NewSource(7)))
	b, _ := NewSpawnTable(entries, rand.New(rand.NewSource(7)))

	for i := 0; i < 100; i++ {
		if x, y := a.Pick(), b.Pick(); x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
	}
}
