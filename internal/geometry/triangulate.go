// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// signedArea returns twice the signed area of a 2D polygon. Positive means
// counter-clockwise.
func signedArea(pts []mgl64.Vec2) float64 {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i][0]*pts[j][1] - pts[j][0]*pts[i][1]
	}
	return a
}

// earClip triangulates a simple 2D polygon. The result indexes pts and is
// wound counter-clockwise regardless of the input winding.
func earClip(pts []mgl64.Vec2) [][3]int {
	n := len(pts)
	if n < 3 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if signedArea(pts) < 0 {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}

	tris := make([][3]int, 0, n-2)
	for guard := 0; len(idx) > 3 && guard < n*n; guard++ {
		clipped := false
		for i := range idx {
			prev := idx[(i+len(idx)-1)%len(idx)]
			cur := idx[i]
			next := idx[(i+1)%len(idx)]
			if !isEar(pts, idx, prev, cur, next) {
				continue
			}
			tris = append(tris, [3]int{prev, cur, next})
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// Self-intersecting or degenerate remainder: fan it.
			for i := 1; i+1 < len(idx); i++ {
				tris = append(tris, [3]int{idx[0], idx[i], idx[i+1]})
			}
			return tris
		}
	}
	if len(idx) == 3 {
		tris = append(tris, [3]int{idx[0], idx[1], idx[2]})
	}
	return tris
}

func isEar(pts []mgl64.Vec2, idx []int, prev, cur, next int) bool {
	a, b, c := pts[prev], pts[cur], pts[next]
	if cross2(b.Sub(a), c.Sub(b)) <= 1e-12 {
		return false
	}
	for _, k := range idx {
		if k == prev || k == cur || k == next {
			continue
		}
		if pointInTriangle(pts[k], a, b, c) {
			return false
		}
	}
	return true
}

func cross2(a, b mgl64.Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

func pointInTriangle(p, a, b, c mgl64.Vec2) bool {
	d1 := cross2(b.Sub(a), p.Sub(a))
	d2 := cross2(c.Sub(b), p.Sub(b))
	d3 := cross2(a.Sub(c), p.Sub(c))
	return d1 >= 0 && d2 >= 0 && d3 >= 0
}

// newellNormal returns the unit normal of a planar 3D polygon, or the zero
// vector for a degenerate one.
func newellNormal(pts []mgl64.Vec3) mgl64.Vec3 {
	var n mgl64.Vec3
	for i := range pts {
		cur, next := pts[i], pts[(i+1)%len(pts)]
		n[0] += (cur[1] - next[1]) * (cur[2] + next[2])
		n[1] += (cur[2] - next[2]) * (cur[0] + next[0])
		n[2] += (cur[0] - next[0]) * (cur[1] + next[1])
	}
	if n.Len() < 1e-12 {
		return mgl64.Vec3{}
	}
	return n.Normalize()
}

// planeBasis returns two unit axes spanning the plane with normal n.
func planeBasis(n mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	ref := mgl64.Vec3{1, 0, 0}
	if math.Abs(n[0]) > 0.9 {
		ref = mgl64.Vec3{0, 1, 0}
	}
	u := ref.Sub(n.Mul(ref.Dot(n))).Normalize()
	return u, n.Cross(u)
}

// addPolygon triangulates a planar 3D polygon into g. Triangles keep the
// polygon's own winding so the face normal matches the Newell normal.
func (g *Geometry) addPolygon(pts []mgl64.Vec3) {
	pts = dedupe3(pts)
	switch {
	case len(pts) < 3:
		return
	case len(pts) == 3:
		g.addTriangle(pts[0], pts[1], pts[2])
		return
	}
	n := newellNormal(pts)
	if n.Len() == 0 {
		return
	}
	u, v := planeBasis(n)
	flat := make([]mgl64.Vec2, len(pts))
	for i, p := range pts {
		flat[i] = mgl64.Vec2{p.Dot(u), p.Dot(v)}
	}
	// u, v, n is right-handed, so the projected polygon winds
	// counter-clockwise and earClip keeps its order.
	for _, t := range earClip(flat) {
		g.addTriangle(pts[t[0]], pts[t[1]], pts[t[2]])
	}
}

// dedupe3 drops consecutive duplicates and a closing point equal to the
// first.
func dedupe3(pts []mgl64.Vec3) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1].ApproxEqual(p) {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && out[0].ApproxEqual(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

func dedupe2(pts []mgl64.Vec2) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1].ApproxEqual(p) {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && out[0].ApproxEqual(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}
