// Package mesh turns a playfield snapshot into triangle geometry.
//
// Every cell contributes small precomputed templates (faces, corners, grass
// caps) chosen from its neighbors. The templates are stitched into four
// parallel buffers that a renderer can upload as-is.
package mesh

import "math"

// Vec2 is a texture coordinate.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a position or normal. X grows right, Y grows up and Z grows away
// from the viewer, so the playfield front is the z=0 plane.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Buffers holds synthesized geometry. Positions, UVs and Normals are
// parallel; Indices lists triangles as vertex index triples.
type Buffers struct {
	Positions []Vec3
	UVs       []Vec2
	Normals   []Vec3
	Indices   []uint32
}

// Reset empties the buffers while keeping their capacity.
func (b *Buffers) Reset() {
	b.Positions = b.Positions[:0]
	b.UVs = b.UVs[:0]
	b.Normals = b.Normals[:0]
	b.Indices = b.Indices[:0]
}

// VertexCount returns the number of vertices.
func (b *Buffers) VertexCount() int {
	return len(b.Positions)
}

// TriangleCount returns the number of triangles.
func (b *Buffers) TriangleCount() int {
	return len(b.Indices) / 3
}

// Clone returns a copy that does not share storage with b.
func (b *Buffers) Clone() *Buffers {
	return &Buffers{
		Positions: append([]Vec3(nil), b.Positions...),
		UVs:       append([]Vec2(nil), b.UVs...),
		Normals:   append([]Vec3(nil), b.Normals...),
		Indices:   append([]uint32(nil), b.Indices...),
	}
}

// Equal reports whether both buffers hold bit-identical data.
func (b *Buffers) Equal(o *Buffers) bool {
	if len(b.Positions) != len(o.Positions) || len(b.UVs) != len(o.UVs) ||
		len(b.Normals) != len(o.Normals) || len(b.Indices) != len(o.Indices) {
		return false
	}
	for i := range b.Positions {
		if !sameVec3(b.Positions[i], o.Positions[i]) || !sameVec3(b.Normals[i], o.Normals[i]) {
			return false
		}
	}
	for i := range b.UVs {
		if !sameBits(b.UVs[i].X, o.UVs[i].X) || !sameBits(b.UVs[i].Y, o.UVs[i].Y) {
			return false
		}
	}
	for i := range b.Indices {
		if b.Indices[i] != o.Indices[i] {
			return false
		}
	}
	return true
}

// Bounds returns the axis-aligned extent of the positions.
func (b *Buffers) Bounds() (lo, hi Vec3) {
	if len(b.Positions) == 0 {
		return Vec3{}, Vec3{}
	}
	lo, hi = b.Positions[0], b.Positions[0]
	for _, p := range b.Positions[1:] {
		lo = Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo, hi
}

func sameVec3(a, b Vec3) bool {
	return sameBits(a.X, b.X) && sameBits(a.Y, b.Y) && sameBits(a.Z, b.Z)
}

func sameBits(a, b float32) bool {
	return math.Float32bits(a) == math.Float32bits(b)
}
