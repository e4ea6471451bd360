//go:build ebiten

package window

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	platformcore "github.com/vovakirdan/diggy/internal/core"
	"github.com/vovakirdan/diggy/internal/games/diggy"
	"github.com/vovakirdan/diggy/internal/games/diggy/mesh"
)

var background = color.RGBA{0x12, 0x0c, 0x08, 0xff}

// App adapts a diggy game to the ebiten.Game interface. It is the game's
// Renderer: every presented frame is kept and drawn on the next Draw.
type App struct {
	game   *diggy.Game
	opts   Options
	logger *log.Logger

	atlas    *ebiten.Image
	atlasFor int // Atlas.Tiles the texture was built for
	frame    diggy.Frame
	camera   *Camera
	proj     Projection
	seed     int64
	verts    []ebiten.Vertex
	indices  []uint16
}

// New wires g to draw through the returned App.
func New(g *diggy.Game, opts Options) *App {
	opts = opts.withDefaults()
	a := &App{
		game:   g,
		opts:   opts,
		logger: opts.Logger,
		camera: NewCamera(opts.CameraSpeed, opts.Focus),
		seed:   opts.Seed,
	}
	g.SetRenderer(diggy.RendererFunc(a.Present))
	return a
}

// Present implements diggy.Renderer.
func (a *App) Present(f diggy.Frame) {
	a.frame = f
	a.camera.Follow(f.PlayerRow, f.Cursor.Offset)
	if a.atlas == nil || a.atlasFor != f.Atlas.Tiles {
		a.atlas = ebiten.NewImageFromImage(BuildAtlas(f.Atlas, 1))
		a.atlasFor = f.Atlas.Tiles
	}
}

// Reset starts a new run with seed.
func (a *App) Reset(seed int64) {
	a.seed = seed
	a.camera = NewCamera(a.opts.CameraSpeed, a.opts.Focus)
	a.game.Reset(a.runtimeConfig())
	if err := a.game.Err(); err != nil {
		a.logger.Error("reset failed", "err", err)
	}
}

func (a *App) runtimeConfig() platformcore.RuntimeConfig {
	return platformcore.RuntimeConfig{
		ScreenW:  a.opts.Width / a.opts.Scale,
		ScreenH:  a.opts.Height / a.opts.Scale,
		TickRate: a.opts.TPS,
		Seed:     a.seed,
	}
}

// Update reads input and advances the game one tick.
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	in := platformcore.NewInputFrame()
	switch {
	case justPressed(ebiten.KeyA, ebiten.KeyArrowLeft):
		in.Set(platformcore.ActionLeft)
	case justPressed(ebiten.KeyD, ebiten.KeyArrowRight):
		in.Set(platformcore.ActionRight)
	case justPressed(ebiten.KeyS, ebiten.KeyArrowDown, ebiten.KeySpace):
		in.Set(platformcore.ActionDown)
	}
	if justPressed(ebiten.KeyP) {
		in.Set(platformcore.ActionPause)
	}
	if justPressed(ebiten.KeyR) {
		in.Set(platformcore.ActionRestart)
	}

	a.game.Step(in)
	a.camera.Update(1 / float64(ebiten.TPS()))
	return nil
}

func justPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

// Draw renders decoration, the playfield mesh and the HUD.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	if a.atlas == nil || a.frame.Mesh == nil {
		a.drawStatus(screen)
		return
	}

	cfg := a.game.Config().Grid
	a.proj = Projection{
		Scale:   float64(a.opts.Scale),
		Depth:   a.opts.Depth,
		OriginX: float64(a.opts.Width)/2 - float64(cfg.Width)*float64(a.opts.Scale)/2,
		OriginY: float64(a.opts.Scale),
	}

	if d := a.frame.Decor; d != nil {
		a.drawBuffers(screen, &d.Walls)
		if a.frame.SurfaceVisible {
			a.drawBuffers(screen, &d.Surface)
		}
	}
	a.drawBuffers(screen, a.frame.Mesh)
	a.drawPlayer(screen)
	a.drawStatus(screen)
}

// drawBuffers submits b in chunks that fit 16-bit indices.
func (a *App) drawBuffers(screen *ebiten.Image, b *mesh.Buffers) {
	if b == nil || len(b.Indices) == 0 {
		return
	}
	size := float32(a.atlas.Bounds().Dx())

	const maxVerts = 1 << 16
	for start := 0; start < len(b.Indices); {
		a.verts = a.verts[:0]
		a.indices = a.indices[:0]
		remap := make(map[uint32]uint16)

		end := start
		for end < len(b.Indices) {
			tri := b.Indices[end : end+3]
			fresh := 0
			for _, i := range tri {
				if _, ok := remap[i]; !ok {
					fresh++
				}
			}
			if len(a.verts)+fresh > maxVerts {
				break
			}
			for _, i := range tri {
				j, ok := remap[i]
				if !ok {
					j = uint16(len(a.verts))
					remap[i] = j
					a.verts = append(a.verts, a.vertex(b, i, size))
				}
				a.indices = append(a.indices, j)
			}
			end += 3
		}

		screen.DrawTriangles(a.verts, a.indices, a.atlas, &ebiten.DrawTrianglesOptions{})
		start = end
	}
}

func (a *App) vertex(b *mesh.Buffers, i uint32, size float32) ebiten.Vertex {
	p, uv, n := b.Positions[i], b.UVs[i], b.Normals[i]
	x, y := a.proj.Project(p, a.camera.Y)
	shade := Shade(p, n)
	return ebiten.Vertex{
		DstX:   x,
		DstY:   y,
		SrcX:   uv.X * size,
		SrcY:   (1 - uv.Y) * size,
		ColorR: shade,
		ColorG: shade,
		ColorB: shade,
		ColorA: 1,
	}
}

func (a *App) drawPlayer(screen *ebiten.Image) {
	cfg := a.game.Config().Grid
	center := mesh.Vec3{X: float32(cfg.Width/2) + 0.5, Y: -float32(a.frame.PlayerRow) - 0.5}
	x, y := a.proj.Project(center, a.camera.Y)
	r := float32(a.opts.Scale) / 4
	col := color.RGBA{0xf5, 0xe6, 0xc8, 0xff}
	var verts []ebiten.Vertex
	for _, d := range [][2]float32{{-r, -r}, {r, -r}, {r, r}, {-r, r}} {
		verts = append(verts, ebiten.Vertex{
			DstX: x + d[0], DstY: y + d[1],
			SrcX: 1, SrcY: 1,
			ColorR: float32(col.R) / 255, ColorG: float32(col.G) / 255, ColorB: float32(col.B) / 255, ColorA: 1,
		})
	}
	screen.DrawTriangles(verts, []uint16{0, 1, 2, 0, 2, 3}, whitePixel(), &ebiten.DrawTrianglesOptions{})
}

var white *ebiten.Image

func whitePixel() *ebiten.Image {
	if white == nil {
		white = ebiten.NewImage(3, 3)
		white.Fill(color.White)
	}
	return white
}

func (a *App) drawStatus(screen *ebiten.Image) {
	face := basicfont.Face7x13
	fg := color.RGBA{0xe8, 0xe0, 0xd0, 0xff}

	if err := a.game.Err(); err != nil {
		text.Draw(screen, "config error: "+err.Error(), face, 8, 20, color.RGBA{0xe0, 0x40, 0x40, 0xff})
		return
	}

	st := a.game.State()
	hp, maxHP := a.game.Health()
	line := fmt.Sprintf("%s  score %d  depth %d  hp %d/%d", a.game.Title(), st.Score, st.Depth, hp, maxHP)
	text.Draw(screen, line, face, 8, 16, fg)

	switch {
	case st.GameOver:
		text.Draw(screen, "GAME OVER - R to dig again, Q to quit", face, 8, a.opts.Height-12, fg)
	case st.Paused:
		text.Draw(screen, "PAUSED - P to resume", face, 8, a.opts.Height-12, fg)
	}
}

// Layout returns the logical screen size.
func (a *App) Layout(int, int) (int, int) {
	return a.opts.Width, a.opts.Height
}

// Run opens a window and plays g until the window closes.
func Run(g *diggy.Game, opts Options) error {
	app := New(g, opts)
	app.Reset(app.opts.Seed)

	ebiten.SetWindowTitle(app.opts.Title)
	ebiten.SetTPS(app.opts.TPS)
	ebiten.SetWindowSize(app.opts.Width, app.opts.Height)

	if err := ebiten.RunGame(app); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
