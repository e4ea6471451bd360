package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/diggy/internal/core"
	"github.com/vovakirdan/diggy/internal/registry"
	"github.com/vovakirdan/diggy/internal/storage"
)

// stubGame digs one row per dig input and ends the run after maxDepth digs.
type stubGame struct {
	start    int // Depth after reset
	depth    int
	maxDepth int
	resets   int
	pauses   int
	diff     string
}

func (g *stubGame) ID() string    { return "stub_dig" }
func (g *stubGame) Title() string { return "Stub Dig" }

func (g *stubGame) Reset(core.RuntimeConfig) {
	g.depth = g.start
	g.resets++
}

func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	moved := false
	if g.depth < g.start+g.maxDepth && (in.Has(core.ActionDown) || in.Has(core.ActionLeft) || in.Has(core.ActionRight)) {
		g.depth++
		moved = true
	}
	if in.Has(core.ActionPause) {
		g.pauses++
	}
	return core.StepResult{State: g.State(), Moved: moved}
}

func (g *stubGame) Render(dst *core.Screen) {
	dst.DrawText(0, 0, "stub")
}

func (g *stubGame) State() core.GameState {
	digs := g.depth - g.start
	return core.GameState{Score: digs * 10, Depth: g.depth, Digs: digs, GameOver: digs >= g.maxDepth}
}

func (g *stubGame) SetDifficulty(name string) error {
	g.diff = name
	return nil
}

func init() {
	registry.Register("stub_dig", func() registry.Game { return &stubGame{maxDepth: 3} })
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(g *stubGame, store *storage.Store) Model {
	cfg := core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 30, Seed: 7}
	m := NewModel(g, store, cfg, "tester").WithLogger(log.New(io.Discard))
	m.Init()
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		name   string
		msg    tea.KeyMsg
		want   core.Action
		isQuit bool
	}{
		{"a digs left", runes("a"), core.ActionLeft, false},
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"d digs right", runes("d"), core.ActionRight, false},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{"s digs down", runes("s"), core.ActionDown, false},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, core.ActionDown, false},
		{"space digs down", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, core.ActionDown, false},
		{"pause", runes("p"), core.ActionPause, false},
		{"restart", runes("r"), core.ActionRestart, false},
		{"escape", tea.KeyMsg{Type: tea.KeyEscape}, core.ActionBack, false},
		{"quit", runes("q"), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runes("z"), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, isQuit := km.MapKey(tt.msg)
			if got != tt.want || isQuit != tt.isQuit {
				t.Errorf("MapKey = (%v, %v), want (%v, %v)", got, isQuit, tt.want, tt.isQuit)
			}
		})
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyLeft}, MenuActionLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, MenuActionRight},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{tea.KeyMsg{Type: tea.KeyEscape}, MenuActionBack},
		{runes("q"), MenuActionQuit},
		{runes("x"), MenuActionNone},
	}
	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawTextColored(0, 0, "##", core.ColorBrown)
	s.DrawTextColored(2, 0, "$$", core.ColorYellow)
	s.DrawText(0, 1, "hi")

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for _, want := range []string{"##", "$$", "hi"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestModelDigsAndSavesOnGameOver(t *testing.T) {
	store := openStore(t)
	g := &stubGame{maxDepth: 2}
	m := newTestModel(g, store)

	for range 2 {
		m, _ = update(t, m, runes("s"))
		m, _ = update(t, m, TickMsg(time.Now()))
	}
	if g.depth != 2 {
		t.Fatalf("depth = %d, want 2", g.depth)
	}
	// Extra ticks after game over must not record the run twice.
	m, _ = update(t, m, TickMsg(time.Now()))

	runs, err := store.TopRuns("stub_dig", 10)
	if err != nil {
		t.Fatalf("TopRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("saved %d runs, want 1", len(runs))
	}
	r := runs[0]
	if r.Score != 20 || r.Depth != 2 || r.Player != "tester" || r.Seed != 7 {
		t.Errorf("saved run = %+v", r)
	}
	if m.LastSavedRun() != r.ID {
		t.Errorf("LastSavedRun = %d, want %d", m.LastSavedRun(), r.ID)
	}
}

func TestModelRestartAfterGameOver(t *testing.T) {
	g := &stubGame{maxDepth: 1}
	m := newTestModel(g, nil)

	m, _ = update(t, m, runes("s"))
	m, _ = update(t, m, TickMsg(time.Now()))
	resets := g.resets

	m, _ = update(t, m, runes("r"))
	m, _ = update(t, m, TickMsg(time.Now()))
	if g.resets != resets+1 {
		t.Errorf("resets = %d, want %d", g.resets, resets+1)
	}
	if g.depth != 0 {
		t.Errorf("depth after restart = %d", g.depth)
	}
	if m.config.Seed == 7 {
		t.Error("restart kept the old seed")
	}
}

func TestModelBackSavesUnfinishedRun(t *testing.T) {
	store := openStore(t)
	g := &stubGame{maxDepth: 10}
	m := newTestModel(g, store)

	m, _ = update(t, m, runes("s"))
	m, _ = update(t, m, TickMsg(time.Now()))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEscape})

	if !m.WentBack() {
		t.Fatal("WentBack = false after esc")
	}
	if cmd == nil {
		t.Error("standalone model should quit the program on back")
	}
	high, err := store.HighScore("stub_dig")
	if err != nil {
		t.Fatalf("HighScore: %v", err)
	}
	if high != 10 {
		t.Errorf("HighScore = %d, want 10", high)
	}
}

func TestModelSkipsEmptyRun(t *testing.T) {
	store := openStore(t)
	m := newTestModel(&stubGame{maxDepth: 5}, store)

	update(t, m, runes("q"))

	runs, err := store.TopRuns("stub_dig", 10)
	if err != nil {
		t.Fatalf("TopRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("saved %d runs for an untouched game", len(runs))
	}
}

func TestModelSkipsUndugRunBelowSurface(t *testing.T) {
	store := openStore(t)
	m := newTestModel(&stubGame{start: 4, maxDepth: 5}, store)

	m, _ = update(t, m, TickMsg(time.Now()))
	update(t, m, runes("q"))

	runs, err := store.TopRuns("stub_dig", 10)
	if err != nil {
		t.Fatalf("TopRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("saved %d runs for a game that started deep but never dug", len(runs))
	}
}

func TestModelResizeRebuildsOnlyBeforeFirstDig(t *testing.T) {
	g := &stubGame{start: 4, maxDepth: 5}
	m := newTestModel(g, nil)
	m, _ = update(t, m, TickMsg(time.Now()))

	resets := g.resets
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	if g.resets != resets+1 {
		t.Fatalf("resets = %d, want %d before any dig", g.resets, resets+1)
	}

	m, _ = update(t, m, runes("s"))
	m, _ = update(t, m, TickMsg(time.Now()))
	resets = g.resets
	update(t, m, tea.WindowSizeMsg{Width: 70, Height: 22})
	if g.resets != resets {
		t.Errorf("resize after a dig reset the run")
	}
	if g.depth != 5 {
		t.Errorf("depth = %d, want 5", g.depth)
	}
}

func TestModelViewHasHelp(t *testing.T) {
	m := newTestModel(&stubGame{maxDepth: 5}, nil)
	view := m.View()
	if !strings.Contains(view, "stub") {
		t.Errorf("view missing game output: %q", view)
	}
	if !strings.Contains(view, "dig down") {
		t.Errorf("view missing help footer: %q", view)
	}
}

func TestMenuDifficultyAndSelect(t *testing.T) {
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24}
	m := NewMenuModel(nil, cfg, "hard")
	if m.Difficulty() != "hard" {
		t.Fatalf("Difficulty = %q, want hard", m.Difficulty())
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(MenuModel)
	if m.Difficulty() != "fixed" {
		t.Errorf("after right: %q, want fixed", m.Difficulty())
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(MenuModel)
	if m.Difficulty() != "easy" {
		t.Errorf("after wrap: %q, want easy", m.Difficulty())
	}

	idx := -1
	for i, item := range m.items {
		if item.GameID == "stub_dig" {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatal("stub_dig not listed")
	}
	m.cursor = idx
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)
	if cmd == nil {
		t.Error("select should end the menu program")
	}

	res := m.Result()
	if res.GameID != "stub_dig" || res.Difficulty != "easy" || res.Quit {
		t.Errorf("Result = %+v", res)
	}
}

func TestNewMenuModelUnknownDifficulty(t *testing.T) {
	m := NewMenuModel(nil, core.RuntimeConfig{ScreenW: 80}, "nightmare")
	if m.Difficulty() != "normal" {
		t.Errorf("Difficulty = %q, want normal", m.Difficulty())
	}
}

func TestCreateGameAppliesDifficulty(t *testing.T) {
	g, err := CreateGame("stub_dig", "hard")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if sg := g.(*stubGame); sg.diff != "hard" {
		t.Errorf("difficulty = %q, want hard", sg.diff)
	}
	if _, err := CreateGame("nope", ""); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestRunRows(t *testing.T) {
	when := time.Date(2026, 3, 4, 5, 6, 0, 0, time.UTC)
	rows := runRows([]storage.Run{
		{Score: 90, Depth: 12, Player: "ann", CreatedAt: when},
		{Score: 40, Depth: 7, CreatedAt: when},
	})
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	want := []string{"#1", "90", "12", "ann", "Mar 04 05:06"}
	for i, cell := range want {
		if rows[0][i] != cell {
			t.Errorf("row 0 col %d = %q, want %q", i, rows[0][i], cell)
		}
	}
	if rows[1][3] != "-" {
		t.Errorf("anonymous player = %q, want -", rows[1][3])
	}
}

func TestSessionFlow(t *testing.T) {
	store := openStore(t)
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30}
	s := NewSessionModel(store, cfg, "ssh-user", "normal").WithLogger(log.New(io.Discard))

	step := func(msg tea.Msg) {
		t.Helper()
		next, _ := s.Update(msg)
		s = next.(SessionModel)
	}

	for i, item := range s.menu.items {
		if item.GameID == "stub_dig" {
			s.menu.cursor = i
		}
	}
	step(tea.KeyMsg{Type: tea.KeyEnter})
	if s.screen != screenGame {
		t.Fatalf("screen = %v, want game", s.screen)
	}

	step(runes("s"))
	step(TickMsg(time.Now()))
	step(tea.KeyMsg{Type: tea.KeyEscape})
	if s.screen != screenMenu {
		t.Fatalf("screen = %v, want menu after back", s.screen)
	}

	step(tea.KeyMsg{Type: tea.KeyTab})
	if s.screen != screenScores {
		t.Fatalf("screen = %v, want scores", s.screen)
	}
	if len(s.scoreboard.runs) != 1 {
		t.Errorf("scoreboard shows %d runs, want 1", len(s.scoreboard.runs))
	}
	step(tea.KeyMsg{Type: tea.KeyEscape})
	if s.screen != screenMenu {
		t.Errorf("screen = %v, want menu after scoreboard", s.screen)
	}

	runs, err := store.TopRuns("stub_dig", 10)
	if err != nil {
		t.Fatalf("TopRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Player != "ssh-user" {
		t.Errorf("runs = %+v", runs)
	}
}
