package window

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/vovakirdan/diggy/internal/games/diggy/core"
)

// TilePixels is the edge length of one atlas tile.
const TilePixels = 16

var tileBase = map[core.Cell]color.RGBA{
	core.Hole:    {0x2a, 0x1c, 0x12, 0xff},
	core.Dirt:    {0x8b, 0x5a, 0x2b, 0xff},
	core.Gold:    {0x8b, 0x5a, 0x2b, 0xff},
	core.Sky:     {0x5c, 0xb8, 0xe6, 0xff},
	core.Diamond: {0x6e, 0x6e, 0x78, 0xff},
	core.Hazard:  {0x5a, 0x2a, 0x20, 0xff},
	core.PowerUp: {0x8b, 0x5a, 0x2b, 0xff},
}

var tileSpeck = map[core.Cell]color.RGBA{
	core.Hole:    {0x1c, 0x12, 0x0c, 0xff},
	core.Dirt:    {0x6d, 0x44, 0x1f, 0xff},
	core.Gold:    {0xf2, 0xc1, 0x2e, 0xff},
	core.Sky:     {0x8c, 0xd4, 0xf5, 0xff},
	core.Diamond: {0x7f, 0xfc, 0xff, 0xff},
	core.Hazard:  {0xe0, 0x30, 0x30, 0xff},
	core.PowerUp: {0x4c, 0xe0, 0x5a, 0xff},
}

// grass fills the bottom quarter of the sky tile, where grass caps sample.
var grass = color.RGBA{0x3c, 0x9a, 0x3c, 0xff}

// BuildAtlas paints the tile sheet the playfield UVs address. V grows up
// in atlas space, so tile rows are laid out from the bottom of the image.
func BuildAtlas(a core.Atlas, seed int64) *image.RGBA {
	size := a.Tiles * TilePixels
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	rng := rand.New(rand.NewSource(seed))

	for c := core.Hole; c <= core.PowerUp; c++ {
		uv := a.Offset(c)
		x0 := int(uv.U*float32(size) + 0.5)
		y1 := size - int(uv.V*float32(size)+0.5)
		y0 := y1 - TilePixels
		paintTile(img, image.Rect(x0, y0, x0+TilePixels, y1), c, rng)
	}
	return img
}

func paintTile(img *image.RGBA, r image.Rectangle, c core.Cell, rng *rand.Rand) {
	base, speck := tileBase[c], tileSpeck[c]
	density := 0.12
	if c.IsSpecial() {
		density = 0.22
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			col := base
			if rng.Float64() < density {
				col = speck
			}
			if c == core.Sky && y-r.Min.Y >= TilePixels*3/4 {
				col = grass
			}
			img.SetRGBA(x, y, col)
		}
	}
}

// TileColor returns the dominant color of a cell's tile.
func TileColor(c core.Cell) color.RGBA {
	if c == core.Decoration {
		c = core.Dirt
	}
	return tileBase[c]
}
