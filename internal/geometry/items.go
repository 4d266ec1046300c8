// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/sigil-dev/ifcscene/internal/schema"
)

// buildItem triangulates one representation item in its local space.
func (p *Processor) buildItem(id uint32, depth int) *Geometry {
	g := newGeometry()
	if depth > maxDepth {
		return g
	}
	switch code := p.loader.LineType(id); code {
	case schema.IfcExtrudedAreaSolid:
		p.extrusion(g, id)
	case schema.IfcTriangulatedFaceSet:
		p.triangulatedFaceSet(g, id)
	case schema.IfcPolygonalFaceSet:
		p.polygonalFaceSet(g, id)
	case schema.IfcFacetedBrep:
		p.shell(g, p.loader.RefArg(id, 0))
	case schema.IfcShellBasedSurfaceModel:
		for _, s := range p.loader.RefSetArg(id, 0) {
			p.shell(g, s)
		}
	case schema.IfcFaceBasedSurfaceModel:
		for _, s := range p.loader.RefSetArg(id, 0) {
			p.shell(g, s)
		}
	case schema.IfcBoundingBox:
		p.boundingBox(g, id)
	case schema.IfcBooleanResult, schema.IfcBooleanClippingResult:
		// Only the first operand is meshed; the second is not subtracted.
		g.append(p.buildItem(p.loader.RefArg(id, 1), depth+1))
	default:
		if code != 0 {
			p.logger.Debug("unsupported geometry item", "id", id, "type", p.schema.TypeName(code))
		}
	}
	return g
}

func (p *Processor) extrusion(g *Geometry, id uint32) {
	profile := p.profile(p.loader.RefArg(id, 0))
	if len(profile) < 3 {
		return
	}
	position := p.placement(p.loader.RefArg(id, 1))
	dir := p.direction3(p.loader.RefArg(id, 2), mgl64.Vec3{0, 0, 1})
	depth, _ := p.loader.DoubleArg(id, 3)
	extrude(g, profile, dir.Mul(depth))
	g.transform(position)
}

// extrude builds a closed prism from a 2D profile in the XY plane swept
// along e.
func extrude(g *Geometry, profile []mgl64.Vec2, e mgl64.Vec3) {
	if signedArea(profile) < 0 {
		rev := make([]mgl64.Vec2, len(profile))
		for i, v := range profile {
			rev[len(profile)-1-i] = v
		}
		profile = rev
	}
	bottom := make([]mgl64.Vec3, len(profile))
	top := make([]mgl64.Vec3, len(profile))
	for i, v := range profile {
		bottom[i] = mgl64.Vec3{v[0], v[1], 0}
		top[i] = bottom[i].Add(e)
	}

	// Outward winding assumes the sweep points to +z; a downward sweep
	// mirrors it.
	flip := e[2] < 0
	tri := func(a, b, c mgl64.Vec3) {
		if flip {
			g.addTriangle(a, c, b)
			return
		}
		g.addTriangle(a, b, c)
	}

	for _, t := range earClip(profile) {
		tri(bottom[t[0]], bottom[t[2]], bottom[t[1]])
		tri(top[t[0]], top[t[1]], top[t[2]])
	}
	for i := range profile {
		j := (i + 1) % len(profile)
		tri(bottom[i], bottom[j], top[j])
		tri(bottom[i], top[j], top[i])
	}
}

func (p *Processor) triangulatedFaceSet(g *Geometry, id uint32) {
	coords := p.loader.NestedDoubleSetArg(p.loader.RefArg(id, 0), 0)
	pn := p.loader.IntSetArg(id, 4)
	for _, t := range p.loader.NestedIntSetArg(id, 3) {
		if len(t) < 3 {
			continue
		}
		a, okA := indexedPoint(coords, pn, t[0])
		b, okB := indexedPoint(coords, pn, t[1])
		c, okC := indexedPoint(coords, pn, t[2])
		if okA && okB && okC {
			g.addTriangle(a, b, c)
		}
	}
}

func (p *Processor) polygonalFaceSet(g *Geometry, id uint32) {
	coords := p.loader.NestedDoubleSetArg(p.loader.RefArg(id, 0), 0)
	pn := p.loader.IntSetArg(id, 3)
	for _, face := range p.loader.RefSetArg(id, 2) {
		idx := p.loader.IntSetArg(face, 0)
		pts := make([]mgl64.Vec3, 0, len(idx))
		for _, i := range idx {
			if v, ok := indexedPoint(coords, pn, i); ok {
				pts = append(pts, v)
			}
		}
		g.addPolygon(pts)
	}
}

// indexedPoint resolves a 1-based coordinate index, through the optional
// PnIndex indirection.
func indexedPoint(coords [][]float64, pn []int, i int) (mgl64.Vec3, bool) {
	if len(pn) > 0 {
		if i < 1 || i > len(pn) {
			return mgl64.Vec3{}, false
		}
		i = pn[i-1]
	}
	if i < 1 || i > len(coords) {
		return mgl64.Vec3{}, false
	}
	var v mgl64.Vec3
	copy(v[:], coords[i-1])
	return v, true
}

// shell meshes the faces of a closed, open or connected face set.
func (p *Processor) shell(g *Geometry, id uint32) {
	for _, face := range p.loader.RefSetArg(id, 0) {
		p.face(g, face)
	}
}

func (p *Processor) face(g *Geometry, id uint32) {
	bounds := p.loader.RefSetArg(id, 0)
	if len(bounds) == 0 {
		return
	}
	bound := bounds[0]
	for _, b := range bounds {
		if p.loader.LineType(b) == schema.IfcFaceOuterBound {
			bound = b
			break
		}
	}
	loop := p.loader.RefArg(bound, 0)
	if p.loader.LineType(loop) != schema.IfcPolyLoop {
		return
	}
	refs := p.loader.RefSetArg(loop, 0)
	pts := make([]mgl64.Vec3, len(refs))
	for i, ref := range refs {
		pts[i] = p.point3(ref)
	}
	if p.loader.EnumArg(bound, 1) == "F" {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	g.addPolygon(pts)
}

func (p *Processor) boundingBox(g *Geometry, id uint32) {
	corner := p.point3(p.loader.RefArg(id, 0))
	x, _ := p.loader.DoubleArg(id, 1)
	y, _ := p.loader.DoubleArg(id, 2)
	z, _ := p.loader.DoubleArg(id, 3)
	square := []mgl64.Vec2{{0, 0}, {x, 0}, {x, y}, {0, y}}
	extrude(g, square, mgl64.Vec3{0, 0, z})
	g.transform(mgl64.Translate3D(corner[0], corner[1], corner[2]))
}
