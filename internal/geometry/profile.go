// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/sigil-dev/ifcscene/internal/schema"
)

// profile returns the outer boundary of a profile definition in its own 2D
// coordinates, position applied. Inner voids are not cut.
func (p *Processor) profile(id uint32) []mgl64.Vec2 {
	var pts []mgl64.Vec2
	switch p.loader.LineType(id) {
	case schema.IfcRectangleProfileDef:
		x, _ := p.loader.DoubleArg(id, 3)
		y, _ := p.loader.DoubleArg(id, 4)
		hx, hy := x/2, y/2
		pts = []mgl64.Vec2{{-hx, -hy}, {hx, -hy}, {hx, hy}, {-hx, hy}}
	case schema.IfcCircleProfileDef:
		r, _ := p.loader.DoubleArg(id, 3)
		n := p.settings.CircleSegments
		pts = make([]mgl64.Vec2, n)
		for i := range pts {
			a := 2 * math.Pi * float64(i) / float64(n)
			pts[i] = mgl64.Vec2{r * math.Cos(a), r * math.Sin(a)}
		}
	case schema.IfcArbitraryClosedProfile, schema.IfcArbitraryProfileVoids:
		return dedupe2(p.curve2(p.loader.RefArg(id, 2)))
	default:
		p.logger.Debug("unsupported profile", "id", id, "type", p.loader.LineTypeName(id))
		return nil
	}

	m := p.placement2(p.loader.RefArg(id, 2))
	for i, v := range pts {
		q := mgl64.TransformCoordinate(mgl64.Vec3{v[0], v[1], 0}, m)
		pts[i] = mgl64.Vec2{q[0], q[1]}
	}
	return pts
}

// curve2 reads the vertices of a polyline or indexed poly curve. Arc
// segments of an indexed poly curve are replaced by their chords.
func (p *Processor) curve2(id uint32) []mgl64.Vec2 {
	switch p.loader.LineType(id) {
	case schema.IfcPolyline:
		refs := p.loader.RefSetArg(id, 0)
		pts := make([]mgl64.Vec2, 0, len(refs))
		for _, ref := range refs {
			v := p.point3(ref)
			pts = append(pts, mgl64.Vec2{v[0], v[1]})
		}
		return pts
	case schema.IfcIndexedPolyCurve:
		list := p.loader.RefArg(id, 0)
		coords := p.loader.NestedDoubleSetArg(list, 0)
		pts := make([]mgl64.Vec2, 0, len(coords))
		for _, c := range coords {
			var v mgl64.Vec2
			copy(v[:], c)
			pts = append(pts, v)
		}
		return pts
	}
	return nil
}
