// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package scene

import (
	"context"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/sigil-dev/ifcscene/internal/geometry"
	"github.com/sigil-dev/ifcscene/internal/schema"
)

// GeometrySource produces composed meshes and triangulated geometry.
type GeometrySource interface {
	GetMesh(id uint32) geometry.ComposedMesh
	GetGeometry(id uint32) *geometry.Geometry
}

// LineTyper resolves an entity id to its type code.
type LineTyper interface {
	LineType(id uint32) uint32
}

// TypeClassifier names type codes and tells products apart.
type TypeClassifier interface {
	TypeName(code uint32) string
	IsProduct(code uint32) bool
}

var (
	_ GeometrySource = (*geometry.Processor)(nil)
	_ TypeClassifier = (*schema.Manager)(nil)
)

// ElementVisit describes one element reached through the relationship
// index.
type ElementVisit struct {
	ExpressID uint32
	Type      uint32
	TypeName  string
	ParentID  uint32
	Depth     int
	Color     mgl64.Vec4
	HasColor  bool
}

// Leaf describes one composed-mesh node that carries geometry.
type Leaf struct {
	// MeshID is the id reported for the leaf: the node's own id, or the
	// element's id when the element's root node carries geometry.
	MeshID uint32
	// ElementID is the element the walk reached the leaf from.
	ElementID  uint32
	Type       uint32
	GeometryID uint32
	World      mgl64.Mat4
	Color      mgl64.Vec4
	HasColor   bool
	Depth      int
	Geometry   *geometry.Geometry
}

// Visitor receives the walk in pre-order. VisitLeaf gets the leaf's
// vertices swept into world space; the slice is only valid during the call.
type Visitor interface {
	VisitElement(ElementVisit)
	VisitLeaf(Leaf, []mgl64.Vec3)
}

// Stats summarises a walk.
type Stats struct {
	Elements        int `json:"elements" yaml:"elements"`
	Leaves          int `json:"leaves" yaml:"leaves"`
	EmptyLeaves     int `json:"empty_leaves" yaml:"empty_leaves"`
	Points          int `json:"points" yaml:"points"`
	Faces           int `json:"faces" yaml:"faces"`
	SkippedRevisits int `json:"skipped_revisits" yaml:"skipped_revisits"`
	MaxDepth        int `json:"max_depth" yaml:"max_depth"`
}

// Root is where a walk starts.
type Root struct {
	ID       uint32
	Type     uint32
	Matrix   mgl64.Mat4
	Color    mgl64.Vec4
	HasColor bool
}

// Result is what a walk produces.
type Result struct {
	BBox  BBox  `json:"bbox" yaml:"bbox"`
	Stats Stats `json:"stats" yaml:"stats"`
}

// Walker traverses the element hierarchy and the composed meshes hanging
// off it. It borrows its collaborators and holds no state between walks.
type Walker struct {
	index    *Index
	lines    LineTyper
	types    TypeClassifier
	geometry GeometrySource
	visitors []Visitor
	logger   *slog.Logger
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// WithVisitors adds visitors fed during the walk.
func WithVisitors(v ...Visitor) WalkerOption {
	return func(w *Walker) { w.visitors = append(w.visitors, v...) }
}

// WithWalkLogger sets the walker's logger.
func WithWalkLogger(logger *slog.Logger) WalkerOption {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWalker wires a walker over an index and the services it consults.
func NewWalker(index *Index, lines LineTyper, types TypeClassifier, geo GeometrySource, opts ...WalkerOption) *Walker {
	w := &Walker{
		index:    index,
		lines:    lines,
		types:    types,
		geometry: geo,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type frameKind uint8

const (
	elementFrame frameKind = iota
	meshFrame
)

// frame is one pending unit of work on the walk's stack.
type frame struct {
	kind     frameKind
	id       uint32
	typ      uint32
	parent   uint32
	owner    uint32
	node     *geometry.ComposedMesh
	matrix   mgl64.Mat4
	color    mgl64.Vec4
	hasColor bool
	depth    int
}

// Walk runs the traversal from root. Children are pushed in reverse so the
// stack pops them in ascending id order, which reproduces a recursive
// pre-order walk. An element reached a second time is skipped.
func (w *Walker) Walk(ctx context.Context, root Root) (Result, error) {
	res := Result{BBox: NewBBox()}
	visited := make(map[uint32]struct{})
	stack := []frame{{
		kind:     elementFrame,
		id:       root.ID,
		typ:      root.Type,
		matrix:   root.Matrix,
		color:    root.Color,
		hasColor: root.HasColor,
	}}

	for n := 0; len(stack) > 0; n++ {
		if n%256 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > res.Stats.MaxDepth {
			res.Stats.MaxDepth = f.depth
		}

		switch f.kind {
		case elementFrame:
			if _, seen := visited[f.id]; seen {
				res.Stats.SkippedRevisits++
				w.logger.Warn("element already visited, skipping", "id", f.id, "parent", f.parent)
				continue
			}
			visited[f.id] = struct{}{}
			stack = w.element(stack, f, &res)
		case meshFrame:
			stack = w.mesh(stack, f, &res)
		}
	}
	return res, nil
}

func (w *Walker) element(stack []frame, f frame, res *Result) []frame {
	res.Stats.Elements++
	for _, v := range w.visitors {
		v.VisitElement(ElementVisit{
			ExpressID: f.id,
			Type:      f.typ,
			TypeName:  w.types.TypeName(f.typ),
			ParentID:  f.parent,
			Depth:     f.depth,
			Color:     f.color,
			HasColor:  f.hasColor,
		})
	}

	color, hasColor := f.color, f.hasColor
	var mesh *geometry.ComposedMesh
	if f.typ != schema.IfcProject {
		m := w.geometry.GetMesh(f.id)
		if !m.IsEmpty() {
			if m.HasColor {
				color, hasColor = m.Color, true
			}
			mesh = &m
		}
	}

	children := w.index.ChildrenOf(f.id)
	for i := len(children) - 1; i >= 0; i-- {
		child := children[i]
		stack = append(stack, frame{
			kind:     elementFrame,
			id:       child,
			typ:      w.lines.LineType(child),
			parent:   f.id,
			matrix:   mgl64.Ident4(),
			color:    color,
			hasColor: hasColor,
			depth:    f.depth + 1,
		})
	}

	// Pushed last so the element's own meshes are walked before its children.
	if mesh != nil {
		stack = append(stack, frame{
			kind:     meshFrame,
			id:       f.id,
			typ:      f.typ,
			owner:    f.id,
			node:     mesh,
			matrix:   f.matrix,
			color:    color,
			hasColor: hasColor,
			depth:    f.depth + 1,
		})
	}
	return stack
}

func (w *Walker) mesh(stack []frame, f frame, res *Result) []frame {
	node := f.node
	if node.IsEmpty() {
		return stack
	}
	color, hasColor := f.color, f.hasColor
	if node.HasColor {
		color, hasColor = node.Color, true
	}

	if !node.HasGeometry {
		// Wrapper: children keep the incoming matrix, depth and element type.
		for i := len(node.Children) - 1; i >= 0; i-- {
			child := &node.Children[i]
			stack = append(stack, frame{
				kind:     meshFrame,
				id:       child.ExpressID,
				typ:      f.typ,
				owner:    f.owner,
				node:     child,
				matrix:   f.matrix,
				color:    color,
				hasColor: hasColor,
				depth:    f.depth,
			})
		}
		return stack
	}

	world := f.matrix.Mul4(node.Transformation)
	g := w.geometry.GetGeometry(node.ExpressID)
	w.leaf(f, world, color, hasColor, g, res)

	for i := len(node.Children) - 1; i >= 0; i-- {
		child := &node.Children[i]
		typ := w.lines.LineType(child.ExpressID)
		if !w.types.IsProduct(typ) {
			typ = f.typ
		}
		stack = append(stack, frame{
			kind:     meshFrame,
			id:       child.ExpressID,
			typ:      typ,
			owner:    f.owner,
			node:     child,
			matrix:   world,
			color:    color,
			hasColor: hasColor,
			depth:    f.depth + 1,
		})
	}
	return stack
}

// leaf merges the geometry's transformed AABB corners into the walk's box
// and sweeps its vertices into world space for the visitors. Only the min
// and max corners are transformed, which under-estimates rotated boxes.
func (w *Walker) leaf(f frame, world mgl64.Mat4, color mgl64.Vec4, hasColor bool, g *geometry.Geometry, res *Result) {
	points := g.NumPoints()
	res.Stats.Leaves++
	res.Stats.Points += points
	res.Stats.Faces += g.NumFaces()

	if points == 0 {
		res.Stats.EmptyLeaves++
	} else {
		local := g.Bounds()
		res.BBox.Merge(mgl64.TransformCoordinate(local.Min, world))
		res.BBox.Merge(mgl64.TransformCoordinate(local.Max, world))
	}

	swept := make([]mgl64.Vec3, points)
	for i := range swept {
		swept[i] = mgl64.TransformCoordinate(g.Point(i), world)
	}

	leaf := Leaf{
		MeshID:     f.id,
		ElementID:  f.owner,
		Type:       f.typ,
		GeometryID: f.node.ExpressID,
		World:      world,
		Color:      color,
		HasColor:   hasColor,
		Depth:      f.depth,
		Geometry:   g,
	}
	for _, v := range w.visitors {
		v.VisitLeaf(leaf, swept)
	}
}
