package mesh

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/diggy/internal/games/diggy/core"
)

func TestDefaultTemplatesValid(t *testing.T) {
	ts := DefaultTemplates()
	if err := ts.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	for _, k := range Kinds() {
		tpl, _ := ts.Get(k)
		for _, n := range tpl.Normals {
			if n.Z > 0 {
				t.Errorf("%s normal %v points away from the viewer", k, n)
			}
		}
	}
}

func TestTemplateValidate(t *testing.T) {
	good := DefaultTemplates().templates[KindFront]

	tests := []struct {
		name   string
		mutate func(*Template)
		want   string
	}{
		{"no vertices", func(t *Template) { *t = Template{} }, "no vertices"},
		{"short uvs", func(t *Template) { t.UVs = t.UVs[:2] }, "uvs"},
		{"ragged indices", func(t *Template) { t.Indices = t.Indices[:4] }, "multiple of 3"},
		{"index range", func(t *Template) { t.Indices = []uint32{0, 1, 9} }, "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := Template{
				Positions: append([]Vec3(nil), good.Positions...),
				UVs:       append([]Vec2(nil), good.UVs...),
				Normals:   append([]Vec3(nil), good.Normals...),
				Indices:   append([]uint32(nil), good.Indices...),
			}
			tt.mutate(&tpl)
			err := tpl.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadTemplates(t *testing.T) {
	data, err := MarshalTemplates(DefaultTemplates())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "templates.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	ts, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates() error = %v", err)
	}

	snap := snapshot(
		[]core.Cell{S, S, S},
		[]core.Cell{D, H, H},
		[]core.Cell{G, D, H},
	)
	loaded, err := NewSynthesizer(ts, core.DefaultAtlas(4))
	if err != nil {
		t.Fatal(err)
	}
	want := newTestSynth(t).Build(snap)
	if got := loaded.Build(snap); !want.Equal(got) {
		t.Error("loaded templates build different geometry")
	}
}

func TestParseTemplatesErrors(t *testing.T) {
	if _, err := ParseTemplates([]byte("templates:\n  roof:\n    indices: [0, 1, 2]\n")); err == nil ||
		!strings.Contains(err.Error(), "roof") {
		t.Errorf("unknown template error = %v", err)
	}
	if _, err := ParseTemplates([]byte("templates: [")); err == nil {
		t.Error("expected yaml error")
	}
	if _, err := LoadTemplates(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected read error")
	}
}
