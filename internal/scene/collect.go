// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Element is the flattened record of one visited element, with the leaves
// reached from it folded in.
type Element struct {
	ExpressID uint32     `json:"express_id" yaml:"express_id"`
	ParentID  uint32     `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	TypeName  string     `json:"type" yaml:"type"`
	Depth     int        `json:"depth" yaml:"depth"`
	Leaves    int        `json:"leaves" yaml:"leaves"`
	Points    int        `json:"points" yaml:"points"`
	Faces     int        `json:"faces" yaml:"faces"`
	Color     mgl64.Vec4 `json:"color" yaml:"color"`
	HasColor  bool       `json:"has_color" yaml:"has_color"`
	// Bounds is the exact world box of the element's swept vertices.
	Bounds BBox `json:"bounds" yaml:"bounds"`
}

// Collector records every element in visit order.
type Collector struct {
	Elements []Element
	byID     map[uint32]int
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{byID: make(map[uint32]int)}
}

// VisitElement appends a record for the element with empty bounds.
func (c *Collector) VisitElement(e ElementVisit) {
	c.byID[e.ExpressID] = len(c.Elements)
	c.Elements = append(c.Elements, Element{
		ExpressID: e.ExpressID,
		ParentID:  e.ParentID,
		TypeName:  e.TypeName,
		Depth:     e.Depth,
		Color:     e.Color,
		HasColor:  e.HasColor,
		Bounds:    NewBBox(),
	})
}

// VisitLeaf adds the leaf counts to its owning element and grows the
// element bounds by the swept world-space points.
func (c *Collector) VisitLeaf(l Leaf, swept []mgl64.Vec3) {
	i, ok := c.byID[l.ElementID]
	if !ok {
		return
	}
	el := &c.Elements[i]
	el.Leaves++
	el.Points += l.Geometry.NumPoints()
	el.Faces += l.Geometry.NumFaces()
	for _, p := range swept {
		el.Bounds.Merge(p)
	}
}

// Element returns the record of id.
func (c *Collector) Element(id uint32) (Element, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Element{}, false
	}
	return c.Elements[i], true
}
