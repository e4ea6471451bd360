package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteOBJ writes b as a Wavefront OBJ object. Face indices are 1-based
// and shared across position, UV and normal streams.
func WriteOBJ(w io.Writer, name string, b *Buffers) error {
	bw := bufio.NewWriter(w)

	if name != "" {
		fmt.Fprintf(bw, "o %s\n", name)
	}
	for _, p := range b.Positions {
		fmt.Fprintf(bw, "v %s %s %s\n", ff(p.X), ff(p.Y), ff(p.Z))
	}
	for _, uv := range b.UVs {
		fmt.Fprintf(bw, "vt %s %s\n", ff(uv.X), ff(uv.Y))
	}
	for _, n := range b.Normals {
		fmt.Fprintf(bw, "vn %s %s %s\n", ff(n.X), ff(n.Y), ff(n.Z))
	}
	for i := 0; i+2 < len(b.Indices); i += 3 {
		a, c, d := b.Indices[i]+1, b.Indices[i+1]+1, b.Indices[i+2]+1
		fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, c, c, c, d, d, d)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("mesh: write obj: %w", err)
	}
	return nil
}

func ff(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}
