package core

import "fmt"

// Source is the random source used for row generation.
// *math/rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// SpawnEntry assigns a relative weight to a cell id.
type SpawnEntry struct {
	Weight float64
	Cell   Cell
}

// SpawnTable is a weighted selector for the special cell of a new row.
type SpawnTable struct {
	entries []SpawnEntry
	total   float64
	rng     Source
}

// NewSpawnTable builds a table over entries drawing from rng.
//
// A table with no entries or zero total weight is still returned and picks
// Dirt, but the accompanying error wraps ErrNoSpawnWeight so callers can
// treat it as a configuration warning.
func NewSpawnTable(entries []SpawnEntry, rng Source) (*SpawnTable, error) {
	t := &SpawnTable{
		entries: make([]SpawnEntry, 0, len(entries)),
		rng:     rng,
	}

	for i, e := range entries {
		if e.Weight < 0 {
			return nil, configErr(fmt.Sprintf("spawn[%d].weight", i), "must not be negative, got %v", e.Weight)
		}
		if !e.Cell.Valid() || e.Cell == Decoration {
			return nil, configErr(fmt.Sprintf("spawn[%d].cell", i), "unknown cell id %d", int(e.Cell))
		}
		t.entries = append(t.entries, e)
		t.total += e.Weight
	}

	if t.total <= 0 {
		return t, &ConfigError{Field: "spawn", Message: "falling back to dirt", Err: ErrNoSpawnWeight}
	}
	return t, nil
}

// Total returns the sum of all weights.
func (t *SpawnTable) Total() float64 {
	return t.total
}

// Entries returns a copy of the configured entries.
func (t *SpawnTable) Entries() []SpawnEntry {
	out := make([]SpawnEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Degenerate reports whether the table can only return the Dirt fallback.
func (t *SpawnTable) Degenerate() bool {
	return t.total <= 0 || t.rng == nil
}

// Pick draws a cell id. The first entry whose cumulative weight is >= the
// uniform draw in [0, total) wins. Zero-weight entries never win.
func (t *SpawnTable) Pick() Cell {
	if t.Degenerate() {
		return Dirt
	}

	draw := t.rng.Float64() * t.total
	cumulative := 0.0
	for _, e := range t.entries {
		if e.Weight <= 0 {
			continue
		}
		cumulative += e.Weight
		if cumulative >= draw {
			return e.Cell
		}
	}

	// Floating point rounding can leave draw a hair above the final sum.
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Weight > 0 {
			return t.entries[i].Cell
		}
	}
	return Dirt
}
