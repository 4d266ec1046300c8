// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package scene

import (
	"encoding/json"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BBox is the running world-space bounding box of a walk. It only grows.
type BBox struct {
	Min mgl64.Vec3 `json:"min" yaml:"min"`
	Max mgl64.Vec3 `json:"max" yaml:"max"`
}

// NewBBox returns an empty box with inverted extrema, so the first merged
// point sets both corners.
func NewBBox() BBox {
	inf := math.Inf(1)
	return BBox{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// Merge grows the box to contain p.
func (b *BBox) Merge(p mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// IsEmpty reports whether nothing was merged yet.
func (b BBox) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Center returns the midpoint of the box. It is undefined for an empty box.
func (b BBox) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extent along each axis, zero for an empty box.
func (b BBox) Size() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Corners returns the eight corners of the box.
func (b BBox) Corners() [8]mgl64.Vec3 {
	var out [8]mgl64.Vec3
	for i := range out {
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) == 0 {
				out[i][axis] = b.Min[axis]
			} else {
				out[i][axis] = b.Max[axis]
			}
		}
	}
	return out
}

// MarshalJSON writes an empty box as null, since JSON has no infinities.
func (b BBox) MarshalJSON() ([]byte, error) {
	if b.IsEmpty() {
		return []byte("null"), nil
	}
	return json.Marshal(struct {
		Min [3]float64 `json:"min"`
		Max [3]float64 `json:"max"`
	}{b.Min, b.Max})
}
