// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package geometry turns IFC representation items into triangulated meshes
// and composes them into per-element mesh trees.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// VertexStride is the number of floats per vertex: position then normal.
const VertexStride = 6

// AABB is an axis-aligned box.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// EmptyAABB returns a box that any merged point replaces.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// Merge grows the box to contain p.
func (b *AABB) Merge(p mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
}

// Geometry is a triangle mesh in the local space of its item.
type Geometry struct {
	// Vertices interleaves position and normal, VertexStride floats each.
	Vertices []float64
	Indices  []uint32
	bounds   AABB
}

func newGeometry() *Geometry {
	return &Geometry{bounds: EmptyAABB()}
}

// NewGeometry wraps interleaved vertex data and triangle indices, computing
// the local bounds.
func NewGeometry(vertices []float64, indices []uint32) *Geometry {
	g := &Geometry{Vertices: vertices, Indices: indices, bounds: EmptyAABB()}
	for i := 0; i < g.NumPoints(); i++ {
		g.bounds.Merge(g.Point(i))
	}
	return g
}

// NumPoints returns the vertex count.
func (g *Geometry) NumPoints() int {
	if g == nil {
		return 0
	}
	return len(g.Vertices) / VertexStride
}

// NumFaces returns the triangle count.
func (g *Geometry) NumFaces() int {
	if g == nil {
		return 0
	}
	return len(g.Indices) / 3
}

// Bounds returns the local AABB. It is empty when NumPoints is 0.
func (g *Geometry) Bounds() AABB {
	if g == nil {
		return EmptyAABB()
	}
	return g.bounds
}

// Point returns the position of vertex i.
func (g *Geometry) Point(i int) mgl64.Vec3 {
	o := i * VertexStride
	return mgl64.Vec3{g.Vertices[o], g.Vertices[o+1], g.Vertices[o+2]}
}

// Normal returns the normal of vertex i.
func (g *Geometry) Normal(i int) mgl64.Vec3 {
	o := i*VertexStride + 3
	return mgl64.Vec3{g.Vertices[o], g.Vertices[o+1], g.Vertices[o+2]}
}

func (g *Geometry) addVertex(p, n mgl64.Vec3) uint32 {
	idx := uint32(g.NumPoints())
	g.Vertices = append(g.Vertices, p[0], p[1], p[2], n[0], n[1], n[2])
	g.bounds.Merge(p)
	return idx
}

// addTriangle appends a flat-shaded triangle. Degenerate triangles are
// dropped.
func (g *Geometry) addTriangle(a, b, c mgl64.Vec3) {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() < 1e-12 {
		return
	}
	n = n.Normalize()
	g.Indices = append(g.Indices, g.addVertex(a, n), g.addVertex(b, n), g.addVertex(c, n))
}

// append copies other into g.
func (g *Geometry) append(other *Geometry) {
	base := uint32(g.NumPoints())
	for i := 0; i < other.NumPoints(); i++ {
		g.addVertex(other.Point(i), other.Normal(i))
	}
	for _, idx := range other.Indices {
		g.Indices = append(g.Indices, base+idx)
	}
}

// transform applies m to every position and the rotation part of m to every
// normal, then recomputes the bounds.
func (g *Geometry) transform(m mgl64.Mat4) {
	rot := m.Mat3()
	g.bounds = EmptyAABB()
	for i := 0; i < g.NumPoints(); i++ {
		p := mgl64.TransformCoordinate(g.Point(i), m)
		n := rot.Mul3x1(g.Normal(i))
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		o := i * VertexStride
		copy(g.Vertices[o:o+3], p[:])
		copy(g.Vertices[o+3:o+6], n[:])
		g.bounds.Merge(p)
	}
}

// ComposedMesh is the per-element tree of transforms, colours and geometry
// references returned by Processor.GetMesh.
type ComposedMesh struct {
	ExpressID      uint32
	Transformation mgl64.Mat4
	Color          mgl64.Vec4
	HasColor       bool
	HasGeometry    bool
	Children       []ComposedMesh
}

// IsEmpty reports whether the node carries neither geometry nor children.
func (m *ComposedMesh) IsEmpty() bool {
	return !m.HasGeometry && len(m.Children) == 0
}

// Settings tunes the processor.
type Settings struct {
	// CircleSegments is the number of edges used for circular profiles.
	CircleSegments int
	// CoordinateToOrigin moves the model so the first product placement
	// sits at the origin.
	CoordinateToOrigin bool
}

// DefaultCircleSegments is used when Settings.CircleSegments is not set.
const DefaultCircleSegments = 12
