// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package geometry

import (
	"log/slog"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/sigil-dev/ifcscene/internal/schema"
	"github.com/sigil-dev/ifcscene/internal/step"
)

// bodyIdentifiers are the shape representation identifiers that carry
// renderable geometry.
var bodyIdentifiers = map[string]bool{
	"":           true,
	"BODY":       true,
	"FACETATION": true,
	"MESH":       true,
}

// Processor builds composed meshes and triangulated geometry on demand from
// a loaded file. It is not safe for concurrent use.
type Processor struct {
	loader   *step.Loader
	schema   *schema.Manager
	settings Settings
	logger   *slog.Logger

	geometries map[uint32]*Geometry
	placements map[uint32]mgl64.Mat4
	styles     map[uint32]mgl64.Vec4

	origin    mgl64.Vec3
	hasOrigin bool
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the processor's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProcessor indexes the styled items of loader and returns a processor
// ready to answer GetMesh and GetGeometry.
func NewProcessor(loader *step.Loader, settings Settings, opts ...Option) *Processor {
	if settings.CircleSegments < 3 {
		settings.CircleSegments = DefaultCircleSegments
	}
	p := &Processor{
		loader:     loader,
		schema:     loader.Schema(),
		settings:   settings,
		logger:     slog.Default(),
		geometries: make(map[uint32]*Geometry),
		placements: make(map[uint32]mgl64.Mat4),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.styles = p.readStyles()
	return p
}

// GetMesh returns the composed mesh of an element. Transforms of nodes
// without geometry are folded into their geometric descendants, so the
// returned tree only carries non-identity transforms on geometry nodes.
// Unknown ids give an empty node.
func (p *Processor) GetMesh(id uint32) ComposedMesh {
	mesh := p.compose(id, 0)
	normalize(&mesh, mgl64.Ident4())
	return mesh
}

// GetGeometry returns the cached triangulation of a geometric item. Unknown
// or unsupported items give an empty geometry.
func (p *Processor) GetGeometry(id uint32) *Geometry {
	if g, ok := p.geometries[id]; ok {
		return g
	}
	g := p.buildItem(id, 0)
	p.geometries[id] = g
	return g
}

// maxDepth bounds the representation nesting followed by compose and
// buildItem. It only trips on cyclic references.
const maxDepth = 64

func (p *Processor) compose(id uint32, depth int) ComposedMesh {
	node := ComposedMesh{ExpressID: id, Transformation: mgl64.Ident4()}
	if depth > maxDepth || !p.loader.HasLine(id) {
		return node
	}
	if c, ok := p.styles[id]; ok {
		node.Color, node.HasColor = c, true
	}

	code := p.loader.LineType(id)
	switch {
	case p.schema.IsProduct(code):
		node.Transformation = p.productPlacement(p.loader.RefArg(id, 5))
		if rep := p.loader.RefArg(id, 6); rep != 0 {
			node.Children = append(node.Children, p.compose(rep, depth+1))
		}
	case code == schema.IfcProductDefinitionShape:
		for _, rep := range p.loader.RefSetArg(id, 2) {
			node.Children = append(node.Children, p.compose(rep, depth+1))
		}
	case code == schema.IfcShapeRepresentation:
		ident, _ := p.loader.StringArg(id, 1)
		if !bodyIdentifiers[strings.ToUpper(ident)] {
			return node
		}
		for _, item := range p.loader.RefSetArg(id, 3) {
			node.Children = append(node.Children, p.compose(item, depth+1))
		}
	case code == schema.IfcMappedItem:
		source := p.loader.RefArg(id, 0)
		origin := p.placement(p.loader.RefArg(source, 0))
		target := p.transformOperator(p.loader.RefArg(id, 1))
		node.Transformation = target.Mul4(origin)
		if rep := p.loader.RefArg(source, 1); rep != 0 {
			node.Children = append(node.Children, p.compose(rep, depth+1))
		}
	case isGeometricItem(code):
		node.HasGeometry = true
	default:
		p.logger.Debug("no mesh for entity", "id", id, "type", p.schema.TypeName(code))
	}
	return node
}

// normalize folds the transforms of geometry-less nodes into their
// descendants. A geometry node keeps inherited*T and hands identity to its
// children, which the walker then places relative to the node's world
// matrix.
func normalize(node *ComposedMesh, inherited mgl64.Mat4) {
	m := inherited.Mul4(node.Transformation)
	if node.HasGeometry {
		node.Transformation = m
		m = mgl64.Ident4()
	} else {
		node.Transformation = mgl64.Ident4()
	}
	for i := range node.Children {
		normalize(&node.Children[i], m)
	}
}

func isGeometricItem(code uint32) bool {
	switch code {
	case schema.IfcExtrudedAreaSolid,
		schema.IfcTriangulatedFaceSet,
		schema.IfcPolygonalFaceSet,
		schema.IfcFacetedBrep,
		schema.IfcShellBasedSurfaceModel,
		schema.IfcFaceBasedSurfaceModel,
		schema.IfcBoundingBox,
		schema.IfcBooleanResult,
		schema.IfcBooleanClippingResult:
		return true
	}
	return false
}
