package mesh

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrMissingTemplate is returned when a template set lacks a required piece.
var ErrMissingTemplate = errors.New("missing mesh template")

// Kind names a template slot.
type Kind int

const (
	KindFront Kind = iota
	KindBack
	KindSideLeft
	KindSideRight
	KindSideTop
	KindSideBottom
	KindCornerTopLeft
	KindCornerTopRight
	KindCornerBottomLeft
	KindCornerBottomRight
	KindGrassCenter
	KindGrassLeft
	KindGrassRight
	kindCount
)

var kindNames = [kindCount]string{
	"front", "back",
	"side_left", "side_right", "side_top", "side_bottom",
	"corner_top_left", "corner_top_right", "corner_bottom_left", "corner_bottom_right",
	"grass_center", "grass_left", "grass_right",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds returns every template slot in order.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Template is a small mesh fragment in cell-local space: the cell spans
// [0,1] on X and Y, and [0,1] on Z from the front face to the hole floor.
// UVs are local to one atlas tile.
type Template struct {
	Positions []Vec3
	UVs       []Vec2
	Normals   []Vec3
	Indices   []uint32
}

// Validate checks that the buffers are parallel and the indices in range.
func (t Template) Validate() error {
	n := len(t.Positions)
	if n == 0 {
		return errors.New("no vertices")
	}
	if len(t.UVs) != n || len(t.Normals) != n {
		return fmt.Errorf("%d positions, %d uvs, %d normals", n, len(t.UVs), len(t.Normals))
	}
	if len(t.Indices) == 0 || len(t.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a positive multiple of 3", len(t.Indices))
	}
	for _, i := range t.Indices {
		if int(i) >= n {
			return fmt.Errorf("index %d out of range for %d vertices", i, n)
		}
	}
	return nil
}

// TemplateSet holds one template per Kind.
type TemplateSet struct {
	templates [kindCount]Template
	present   [kindCount]bool
}

// Set stores t under k.
func (s *TemplateSet) Set(k Kind, t Template) {
	if k < 0 || k >= kindCount {
		return
	}
	s.templates[k] = t
	s.present[k] = true
}

// Get returns the template stored under k.
func (s *TemplateSet) Get(k Kind) (Template, bool) {
	if k < 0 || k >= kindCount {
		return Template{}, false
	}
	return s.templates[k], s.present[k]
}

// Validate reports the first missing or malformed template.
func (s *TemplateSet) Validate() error {
	for k := Kind(0); k < kindCount; k++ {
		if !s.present[k] {
			return fmt.Errorf("%w: %s", ErrMissingTemplate, k)
		}
		if err := s.templates[k].Validate(); err != nil {
			return fmt.Errorf("template %s: %w", k, err)
		}
	}
	return nil
}

// cornerInset is the width of the bevel strip on an exposed corner.
const cornerInset = 0.125

// grassHeight is how far a grass cap hangs into the sky cell.
const grassHeight = 0.25

// DefaultTemplates returns the built-in unit templates.
func DefaultTemplates() *TemplateSet {
	s := &TemplateSet{}

	// Faces looking at the viewer (-Z).
	s.Set(KindFront, quad(
		Vec3{0, 0, 0}, Vec3{0, 1, 0}, Vec3{1, 1, 0}, Vec3{1, 0, 0},
		Vec3{0, 0, -1}, fullTile))
	s.Set(KindBack, quad(
		Vec3{0, 0, 1}, Vec3{0, 1, 1}, Vec3{1, 1, 1}, Vec3{1, 0, 1},
		Vec3{0, 0, -1}, fullTile))

	// Tunnel walls, facing into the hole.
	s.Set(KindSideLeft, quad(
		Vec3{0, 0, 1}, Vec3{0, 1, 1}, Vec3{0, 1, 0}, Vec3{0, 0, 0},
		Vec3{1, 0, 0}, fullTile))
	s.Set(KindSideRight, quad(
		Vec3{1, 0, 0}, Vec3{1, 1, 0}, Vec3{1, 1, 1}, Vec3{1, 0, 1},
		Vec3{-1, 0, 0}, fullTile))
	s.Set(KindSideTop, quad(
		Vec3{0, 1, 0}, Vec3{0, 1, 1}, Vec3{1, 1, 1}, Vec3{1, 1, 0},
		Vec3{0, -1, 0}, fullTile))
	s.Set(KindSideBottom, quad(
		Vec3{0, 0, 1}, Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{1, 0, 1},
		Vec3{0, 1, 0}, fullTile))

	// Bevel strips where a diagonal block pokes into an open corner.
	const e = cornerInset
	s.Set(KindCornerTopLeft, quad(
		Vec3{0, 1 - e, 0}, Vec3{0, 1 - e, 1}, Vec3{e, 1, 1}, Vec3{e, 1, 0},
		unit(Vec3{1, -1, 0}), stripTile))
	s.Set(KindCornerTopRight, quad(
		Vec3{1 - e, 1, 0}, Vec3{1 - e, 1, 1}, Vec3{1, 1 - e, 1}, Vec3{1, 1 - e, 0},
		unit(Vec3{-1, -1, 0}), stripTile))
	s.Set(KindCornerBottomLeft, quad(
		Vec3{e, 0, 0}, Vec3{e, 0, 1}, Vec3{0, e, 1}, Vec3{0, e, 0},
		unit(Vec3{1, 1, 0}), stripTile))
	s.Set(KindCornerBottomRight, quad(
		Vec3{1, e, 0}, Vec3{1, e, 1}, Vec3{1 - e, 0, 1}, Vec3{1 - e, 0, 0},
		unit(Vec3{-1, 1, 0}), stripTile))

	// Grass hanging from the bottom edge of a sky cell.
	const h = grassHeight
	s.Set(KindGrassCenter, quad(
		Vec3{0, 0, 0}, Vec3{0, h, 0}, Vec3{1, h, 0}, Vec3{1, 0, 0},
		Vec3{0, 0, -1}, [4]Vec2{{0, 0}, {0, h}, {1, h}, {1, 0}}))
	s.Set(KindGrassLeft, quad(
		Vec3{0, 0, 0}, Vec3{0, h, 0}, Vec3{0.5, h, 0}, Vec3{0.5, 0, 0},
		Vec3{0, 0, -1}, [4]Vec2{{0, 0}, {0, h}, {0.5, h}, {0.5, 0}}))
	s.Set(KindGrassRight, quad(
		Vec3{0.5, 0, 0}, Vec3{0.5, h, 0}, Vec3{1, h, 0}, Vec3{1, 0, 0},
		Vec3{0, 0, -1}, [4]Vec2{{0.5, 0}, {0.5, h}, {1, h}, {1, 0}}))

	return s
}

var (
	fullTile  = [4]Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	stripTile = [4]Vec2{{0, 0}, {0, 1}, {cornerInset, 1}, {cornerInset, 0}}
)

// quad builds two triangles over corners given clockwise as seen from the
// side the normal points to.
func quad(a, b, c, d, normal Vec3, uv [4]Vec2) Template {
	return Template{
		Positions: []Vec3{a, b, c, d},
		UVs:       uv[:],
		Normals:   []Vec3{normal, normal, normal, normal},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

func unit(v Vec3) Vec3 {
	l := float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
	if l == 0 {
		return v
	}
	return Vec3{X: v.X / l, Y: v.Y / l, Z: v.Z / l}
}

// yamlTemplateFile is the on-disk template set format.
type yamlTemplateFile struct {
	Templates map[string]yamlTemplate `yaml:"templates"`
}

type yamlTemplate struct {
	Positions [][3]float32 `yaml:"positions"`
	UVs       [][2]float32 `yaml:"uvs"`
	Normals   [][3]float32 `yaml:"normals"`
	Indices   []uint32     `yaml:"indices"`
}

// ParseTemplates decodes a YAML template set. Unknown names are rejected;
// missing ones are left for Validate to report.
func ParseTemplates(data []byte) (*TemplateSet, error) {
	var f yamlTemplateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}

	byName := make(map[string]Kind, kindCount)
	for _, k := range Kinds() {
		byName[k.String()] = k
	}

	s := &TemplateSet{}
	for name, yt := range f.Templates {
		k, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown template %q", name)
		}
		t := Template{Indices: yt.Indices}
		for _, p := range yt.Positions {
			t.Positions = append(t.Positions, Vec3{p[0], p[1], p[2]})
		}
		for _, uv := range yt.UVs {
			t.UVs = append(t.UVs, Vec2{uv[0], uv[1]})
		}
		for _, n := range yt.Normals {
			t.Normals = append(t.Normals, Vec3{n[0], n[1], n[2]})
		}
		s.Set(k, t)
	}
	return s, nil
}

// LoadTemplates reads a YAML template set from path.
func LoadTemplates(path string) (*TemplateSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading templates %s: %w", path, err)
	}
	s, err := ParseTemplates(data)
	if err != nil {
		return nil, fmt.Errorf("parsing templates %s: %w", path, err)
	}
	return s, nil
}

// MarshalTemplates encodes s in the format ParseTemplates reads.
func MarshalTemplates(s *TemplateSet) ([]byte, error) {
	f := yamlTemplateFile{Templates: make(map[string]yamlTemplate)}
	for _, k := range Kinds() {
		t, ok := s.Get(k)
		if !ok {
			continue
		}
		yt := yamlTemplate{Indices: t.Indices}
		for _, p := range t.Positions {
			yt.Positions = append(yt.Positions, [3]float32{p.X, p.Y, p.Z})
		}
		for _, uv := range t.UVs {
			yt.UVs = append(yt.UVs, [2]float32{uv.X, uv.Y})
		}
		for _, n := range t.Normals {
			yt.Normals = append(yt.Normals, [3]float32{n.X, n.Y, n.Z})
		}
		f.Templates[k.String()] = yt
	}
	return yaml.Marshal(f)
}
