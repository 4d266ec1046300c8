// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/sigil-dev/ifcscene/internal/schema"
)

// productPlacement resolves an object placement and, with
// CoordinateToOrigin, shifts it by the first product translation seen.
func (p *Processor) productPlacement(id uint32) mgl64.Mat4 {
	m := p.placement(id)
	if !p.settings.CoordinateToOrigin {
		return m
	}
	if !p.hasOrigin {
		p.origin = m.Col(3).Vec3()
		p.hasOrigin = true
		p.logger.Debug("moving model to origin", "offset", p.origin)
	}
	return mgl64.Translate3D(-p.origin[0], -p.origin[1], -p.origin[2]).Mul4(m)
}

// placement resolves IfcLocalPlacement chains and axis placements to a
// matrix. Missing or unsupported placements are identity.
func (p *Processor) placement(id uint32) mgl64.Mat4 {
	return p.placementDepth(id, 0)
}

func (p *Processor) placementDepth(id uint32, depth int) mgl64.Mat4 {
	if id == 0 || depth > maxDepth {
		return mgl64.Ident4()
	}
	if m, ok := p.placements[id]; ok {
		return m
	}

	var m mgl64.Mat4
	switch p.loader.LineType(id) {
	case schema.IfcLocalPlacement:
		rel := p.loader.RefArg(id, 0)
		local := p.placementDepth(p.loader.RefArg(id, 1), depth+1)
		m = p.placementDepth(rel, depth+1).Mul4(local)
	case schema.IfcAxis2Placement3D:
		loc := p.point3(p.loader.RefArg(id, 0))
		z := p.direction3(p.loader.RefArg(id, 1), mgl64.Vec3{0, 0, 1})
		x := p.direction3(p.loader.RefArg(id, 2), mgl64.Vec3{1, 0, 0})
		m = frame(loc, x, z)
	case schema.IfcAxis2Placement2D:
		m = p.placement2(id)
	default:
		m = mgl64.Ident4()
	}
	p.placements[id] = m
	return m
}

// placement2 reads an IfcAxis2Placement2D as a matrix in the XY plane.
func (p *Processor) placement2(id uint32) mgl64.Mat4 {
	if id == 0 || p.loader.LineType(id) != schema.IfcAxis2Placement2D {
		return mgl64.Ident4()
	}
	loc := p.point3(p.loader.RefArg(id, 0))
	x := p.direction3(p.loader.RefArg(id, 1), mgl64.Vec3{1, 0, 0})
	return frame(loc, x, mgl64.Vec3{0, 0, 1})
}

// frame builds a right-handed frame from a z axis and an x reference that
// is orthogonalised against it.
func frame(loc, x, z mgl64.Vec3) mgl64.Mat4 {
	z = safeNormalize(z, mgl64.Vec3{0, 0, 1})
	x = x.Sub(z.Mul(x.Dot(z)))
	x = safeNormalize(x, perpendicular(z))
	y := z.Cross(x)
	return mgl64.Mat4FromCols(x.Vec4(0), y.Vec4(0), z.Vec4(0), loc.Vec4(1))
}

// transformOperator reads an IfcCartesianTransformationOperator3D, uniform
// or not.
func (p *Processor) transformOperator(id uint32) mgl64.Mat4 {
	code := p.loader.LineType(id)
	if code != schema.IfcCartesianTransformOp3D && code != schema.IfcCartesianTransformOp3DU {
		return mgl64.Ident4()
	}
	x := p.direction3(p.loader.RefArg(id, 0), mgl64.Vec3{1, 0, 0})
	y := p.direction3(p.loader.RefArg(id, 1), mgl64.Vec3{0, 1, 0})
	loc := p.point3(p.loader.RefArg(id, 2))
	z := p.direction3(p.loader.RefArg(id, 4), x.Cross(y))

	sx := 1.0
	if s, ok := p.loader.DoubleArg(id, 3); ok {
		sx = s
	}
	sy, sz := sx, sx
	if code == schema.IfcCartesianTransformOp3DU {
		if s, ok := p.loader.DoubleArg(id, 5); ok {
			sy = s
		}
		if s, ok := p.loader.DoubleArg(id, 6); ok {
			sz = s
		}
	}
	return mgl64.Mat4FromCols(
		x.Normalize().Mul(sx).Vec4(0),
		y.Normalize().Mul(sy).Vec4(0),
		safeNormalize(z, mgl64.Vec3{0, 0, 1}).Mul(sz).Vec4(0),
		loc.Vec4(1),
	)
}

// point3 reads an IfcCartesianPoint; 2D points get z = 0.
func (p *Processor) point3(id uint32) mgl64.Vec3 {
	var v mgl64.Vec3
	if id == 0 {
		return v
	}
	coords := p.loader.DoubleSetArg(id, 0)
	copy(v[:], coords)
	return v
}

// direction3 reads an IfcDirection, falling back to def when absent.
func (p *Processor) direction3(id uint32, def mgl64.Vec3) mgl64.Vec3 {
	if id == 0 {
		return def
	}
	var v mgl64.Vec3
	copy(v[:], p.loader.DoubleSetArg(id, 0))
	return safeNormalize(v, def)
}

func safeNormalize(v, def mgl64.Vec3) mgl64.Vec3 {
	if v.Len() < 1e-12 {
		return def
	}
	return v.Normalize()
}

func perpendicular(z mgl64.Vec3) mgl64.Vec3 {
	ref := mgl64.Vec3{1, 0, 0}
	if z.ApproxEqual(ref) || z.ApproxEqual(ref.Mul(-1)) {
		ref = mgl64.Vec3{0, 1, 0}
	}
	return ref.Sub(z.Mul(ref.Dot(z))).Normalize()
}
