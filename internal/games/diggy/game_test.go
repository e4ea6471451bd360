package diggy

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/diggy/internal/config"
	platformcore "github.com/vovakirdan/diggy/internal/core"
	"github.com/vovakirdan/diggy/internal/games/diggy/core"
	"github.com/vovakirdan/diggy/internal/registry"
)

func testConfig(spawn ...config.SpawnConfig) config.DiggyConfig {
	cfg := config.DefaultDiggyConfig()
	cfg.Difficulty.Enabled = false
	cfg.Grid = config.GridConfig{Width: 3, Height: 6, DecoWidth: 1, ScrollThreshold: 2}
	if len(spawn) > 0 {
		cfg.Spawn = spawn
	}
	return cfg
}

func newTestGame(t *testing.T, mode Mode, cfg config.DiggyConfig, opts ...Option) *Game {
	t.Helper()
	g := New(mode, append([]Option{WithConfig(cfg)}, opts...)...)
	g.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42})
	if err := g.Err(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	return g
}

func input(actions ...platformcore.Action) platformcore.InputFrame {
	in := platformcore.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

// digToward digs the side of the next row holding want, or straight if
// neither side does.
func digToward(g *Game, want core.Cell) platformcore.StepResult {
	snap := g.Snapshot()
	row := snap.Rows[snap.PlayerRow+1]
	switch want {
	case row[0]:
		return g.Step(input(platformcore.ActionLeft))
	case row[len(row)-1]:
		return g.Step(input(platformcore.ActionRight))
	}
	return g.Step(input(platformcore.ActionDown))
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"diggy", "diggy_zen"} {
		if !registry.Exists(id) {
			t.Errorf("%s not registered", id)
		}
	}
	g, err := registry.Create("diggy_zen")
	if err != nil {
		t.Fatal(err)
	}
	if g.ID() != "diggy_zen" || g.Title() != "Diggy (Zen)" {
		t.Errorf("ID/Title = %q/%q", g.ID(), g.Title())
	}
}

func TestResetPresentsFrame(t *testing.T) {
	var frames []Frame
	g := newTestGame(t, ModeClassic, testConfig(), WithRenderer(RendererFunc(func(f Frame) {
		frames = append(frames, f)
	})))

	if len(frames) != 1 {
		t.Fatalf("frames after reset = %d, want 1", len(frames))
	}
	f := frames[0]
	if f.Mesh == nil || f.Mesh.VertexCount() == 0 {
		t.Error("reset frame has no geometry")
	}
	if f.Decor == nil || f.Decor.Walls.VertexCount() == 0 || f.Decor.Surface.VertexCount() == 0 {
		t.Error("reset frame has no border")
	}
	if !f.SurfaceVisible {
		t.Error("surface should be visible after reset")
	}

	res := g.Step(input(platformcore.ActionDown))
	if !res.Moved || res.State.Depth != 1 {
		t.Errorf("Step() = %+v, want moved to depth 1", res)
	}
	if len(frames) != 2 {
		t.Errorf("frames after dig = %d, want 2", len(frames))
	}
}

func TestStraightDigScoresDirt(t *testing.T) {
	g := newTestGame(t, ModeClassic, testConfig())

	for i := 1; i <= 5; i++ {
		res := g.Step(input(platformcore.ActionDown))
		if res.State.Score != i {
			t.Fatalf("after %d digs score = %d, want %d", i, res.State.Score, i)
		}
	}
	if res := g.Step(input()); res.Moved {
		t.Error("empty input should not dig")
	}
}

func TestHazardEndsClassicRun(t *testing.T) {
	cfg := testConfig(config.SpawnConfig{Weight: 1, Cell: "hazard"})
	cfg.Session.Health = 1
	cfg.Session.MaxHealth = 1

	g := newTestGame(t, ModeClassic, cfg)
	res := digToward(g, core.Hazard)
	if !res.State.GameOver {
		t.Fatalf("state after hazard = %+v, want game over", res.State)
	}
	if res := g.Step(input(platformcore.ActionDown)); res.Moved {
		t.Error("dig accepted after game over")
	}
	if _, err := g.Dig(core.DirStraight); err == nil {
		t.Error("Dig() accepted after game over")
	}

	g.Step(input(platformcore.ActionRestart))
	snap := g.Snapshot()
	if snap.State != StatePlaying || snap.Health != 1 || snap.Score != 0 || snap.Depth != 0 {
		t.Errorf("after restart = %+v", snap)
	}
}

func TestZenIgnoresHazards(t *testing.T) {
	cfg := testConfig(config.SpawnConfig{Weight: 1, Cell: "hazard"})
	cfg.Session.Health = 1
	cfg.Session.MaxHealth = 1

	g := newTestGame(t, ModeZen, cfg)
	for range 4 {
		if res := digToward(g, core.Hazard); res.State.GameOver {
			t.Fatal("zen run ended on a hazard")
		}
	}
	if hp, _ := g.Health(); hp != 1 {
		t.Errorf("health = %d, want 1", hp)
	}
}

func TestPowerUpHeals(t *testing.T) {
	cfg := testConfig(config.SpawnConfig{Weight: 1, Cell: "powerup"})
	cfg.Session.Health = 1
	cfg.Session.MaxHealth = 2
	cfg.Session.PowerUpHeal = 1

	g := newTestGame(t, ModeClassic, cfg)
	digToward(g, core.PowerUp)
	digToward(g, core.PowerUp)
	if hp, maxHP := g.Health(); hp != 2 || maxHP != 2 {
		t.Errorf("health = %d/%d, want capped at 2/2", hp, maxHP)
	}
}

func TestSurfaceHiddenPastThreshold(t *testing.T) {
	var last Frame
	g := newTestGame(t, ModeClassic, testConfig(), WithRenderer(RendererFunc(func(f Frame) { last = f })))

	for range 2 {
		g.Step(input(platformcore.ActionDown))
	}
	if !g.Snapshot().SurfaceVisible || !last.SurfaceVisible {
		t.Fatal("surface hidden before crossing the threshold")
	}

	g.Step(input(platformcore.ActionDown))
	if g.Snapshot().SurfaceVisible || last.SurfaceVisible {
		t.Error("surface still visible past the threshold")
	}
	if last.Cursor.Offset != 1 {
		t.Errorf("offset = %d, want 1", last.Cursor.Offset)
	}

	if err := g.Restart(); err != nil {
		t.Fatal(err)
	}
	if !last.SurfaceVisible {
		t.Error("surface not restored by restart")
	}
}

func TestObserverSeesHits(t *testing.T) {
	var hits []core.HitEvent
	obs := core.ObserverFunc(func(e core.Event) {
		if h, ok := e.(core.HitEvent); ok {
			hits = append(hits, h)
		}
	})
	g := newTestGame(t, ModeClassic, testConfig(), WithObserver(obs))

	g.Step(input(platformcore.ActionLeft))
	g.Step(input(platformcore.ActionRight))
	if len(hits) != 2 || hits[0].Col != 0 || hits[1].Col != 2 {
		t.Errorf("hits = %+v", hits)
	}
}

func TestPause(t *testing.T) {
	g := newTestGame(t, ModeClassic, testConfig())

	g.Step(input(platformcore.ActionPause))
	if res := g.Step(input(platformcore.ActionDown)); res.Moved || !res.State.Paused {
		t.Errorf("dig while paused = %+v", res)
	}
	g.Step(input(platformcore.ActionPause))
	if res := g.Step(input(platformcore.ActionDown)); !res.Moved {
		t.Error("dig after unpause rejected")
	}
}

func TestDeterminism(t *testing.T) {
	run := func() (Snapshot, Frame) {
		var last Frame
		g := newTestGame(t, ModeClassic, config.DefaultDiggyConfig(),
			WithRenderer(RendererFunc(func(f Frame) { last = f })))
		seq := []platformcore.Action{
			platformcore.ActionLeft, platformcore.ActionDown, platformcore.ActionRight,
			platformcore.ActionRight, platformcore.ActionLeft, platformcore.ActionDown,
			platformcore.ActionLeft, platformcore.ActionLeft, platformcore.ActionRight,
		}
		for _, a := range seq {
			g.Step(input(a))
		}
		last.Mesh = last.Mesh.Clone()
		return g.Snapshot(), last
	}

	s1, f1 := run()
	s2, f2 := run()
	if !reflect.DeepEqual(s1, s2) {
		t.Errorf("snapshots differ:\n%+v\n%+v", s1, s2)
	}
	if !f1.Mesh.Equal(f2.Mesh) {
		t.Error("meshes differ for identical runs")
	}
}

func TestConfigErrorSurfaced(t *testing.T) {
	cfg := testConfig()
	cfg.Grid.Width = 0

	g := New(ModeClassic, WithConfig(cfg))
	g.Reset(platformcore.DefaultConfig())
	if g.Err() == nil {
		t.Fatal("expected configuration error")
	}
	if res := g.Step(input(platformcore.ActionDown)); res.Moved {
		t.Error("dig accepted with broken config")
	}
	if g.Snapshot().State != StateError {
		t.Error("snapshot state should be error")
	}

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Configuration error") {
		t.Error("error overlay not rendered")
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, ModeClassic, testConfig())

	screen := platformcore.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()
	for _, want := range []string{"Diggy", "Score: 0", "Depth: 0", "@", `""`} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}

	small := platformcore.NewScreen(30, 6)
	g.Render(small)
	if !strings.Contains(small.String(), "Window too small") {
		t.Errorf("small screen render:\n%s", small.String())
	}
}

func TestDifficultyPreset(t *testing.T) {
	hazardWeight := func(g *Game) float64 {
		for _, s := range g.Config().Spawn {
			if s.Cell == "hazard" {
				return s.Weight
			}
		}
		return 0
	}

	g := newTestGame(t, ModeClassic, testConfig(), WithDifficulty(config.DifficultyHard))
	if hp, _ := g.Health(); hp != 2 {
		t.Errorf("hard health = %d, want 2", hp)
	}
	first := hazardWeight(g)

	g.Reset(platformcore.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1})
	if got := hazardWeight(g); got != first {
		t.Errorf("hazard weight after second reset = %v, want %v", got, first)
	}

	if err := g.SetDifficulty("nightmare"); err == nil {
		t.Error("expected error for unknown preset")
	}
	if err := g.SetDifficulty("easy"); err != nil {
		t.Fatal(err)
	}
	g.Reset(platformcore.DefaultConfig())
	if hp, _ := g.Health(); hp != 5 {
		t.Errorf("easy health = %d, want 5", hp)
	}
}

func TestStateCountsDigsFromInitialDepth(t *testing.T) {
	cfg := testConfig()
	cfg.Grid.InitialDepth = 1
	g := newTestGame(t, ModeZen, cfg)

	st := g.State()
	if st.Depth != 1 || st.Digs != 0 {
		t.Fatalf("after reset Depth/Digs = %d/%d, want 1/0", st.Depth, st.Digs)
	}

	res := g.Step(input(platformcore.ActionDown))
	if !res.Moved {
		t.Fatal("dig did not move")
	}
	if res.State.Depth != 2 || res.State.Digs != 1 {
		t.Errorf("after one dig Depth/Digs = %d/%d, want 2/1", res.State.Depth, res.State.Digs)
	}
}
