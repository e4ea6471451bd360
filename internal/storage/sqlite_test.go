package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "runs.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreReopenKeepsRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveRun(Run{Mode: "diggy", Score: 42, Depth: 7}); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScore("diggy")
	if err != nil || high != 42 {
		t.Errorf("HighScore() after reopen = %d, %v; want 42", high, err)
	}
}

func TestStoreTopRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []Run{
		{Mode: "diggy", Player: "ana", Score: 100, Depth: 10, Seed: 1},
		{Mode: "diggy", Player: "bo", Score: 50, Depth: 30, Seed: 2},
		{Mode: "diggy", Player: "cy", Score: 100, Depth: 25, Seed: 3},
		{Mode: "diggy_zen", Player: "ana", Score: 500, Depth: 90, Seed: 4},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns("diggy", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(top))
	}

	// Score descending, deeper run first on ties
	want := []string{"cy", "ana", "bo"}
	for i, r := range top {
		if r.Player != want[i] {
			t.Errorf("top[%d].Player = %q, want %q", i, r.Player, want[i])
		}
	}
	if top[0].Depth != 25 || top[0].Seed != 3 || top[0].Mode != "diggy" {
		t.Errorf("top[0] = %+v", top[0])
	}
	if top[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}

	limited, err := store.TopRuns("diggy", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 runs with limit, got %d", len(limited))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("diggy")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty mode, got %d", high)
	}

	for _, score := range []int{100, 300, 200} {
		store.SaveRun(Run{Mode: "diggy", Score: score})
	}
	if high, _ := store.HighScore("diggy"); high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{Mode: "diggy", Score: 100})
	store.SaveRun(Run{Mode: "diggy", Score: 200})
	store.SaveRun(Run{Mode: "diggy_zen", Score: 300})

	if err := store.ClearRuns("diggy"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	if runs, _ := store.TopRuns("diggy", 10); len(runs) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(runs))
	}
	if runs, _ := store.TopRuns("diggy_zen", 10); len(runs) != 1 {
		t.Error("Zen runs should not be affected by clearing classic")
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.ModeStats("diggy")
	if err != nil {
		t.Fatalf("ModeStats() failed: %v", err)
	}
	if empty.Runs != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}

	store.SaveRun(Run{Mode: "diggy", Score: 10, Depth: 4})
	store.SaveRun(Run{Mode: "diggy", Score: 30, Depth: 12})
	store.SaveRun(Run{Mode: "diggy_zen", Score: 5, Depth: 50})

	st, err := store.ModeStats("diggy")
	if err != nil {
		t.Fatal(err)
	}
	if st.Runs != 2 || st.HighScore != 30 || st.MaxDepth != 12 || st.AvgScore != 20 || st.TotalDepth != 16 {
		t.Errorf("stats = %+v", st)
	}
	if st.LastPlayed.IsZero() {
		t.Error("LastPlayed not populated")
	}

	all, err := store.AllStats()
	if err != nil {
		t.Fatalf("AllStats() failed: %v", err)
	}
	if len(all) != 2 || all["diggy_zen"].MaxDepth != 50 {
		t.Errorf("AllStats() = %v", all)
	}
}
