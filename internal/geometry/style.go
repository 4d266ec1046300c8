// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/sigil-dev/ifcscene/internal/schema"
)

// readStyles maps every styled representation item to its surface colour.
func (p *Processor) readStyles() map[uint32]mgl64.Vec4 {
	styles := make(map[uint32]mgl64.Vec4)
	for _, id := range p.loader.ExpressIDsWithType(schema.IfcStyledItem) {
		item := p.loader.RefArg(id, 0)
		if item == 0 {
			continue
		}
		for _, s := range p.loader.RefSetArg(id, 1) {
			if c, ok := p.styleColor(s, 0); ok {
				styles[item] = c
				break
			}
		}
	}
	p.logger.Debug("styles indexed", "count", len(styles))
	return styles
}

// styleColor walks presentation style assignments and surface styles down
// to the first rendering or shading colour.
func (p *Processor) styleColor(id uint32, depth int) (mgl64.Vec4, bool) {
	if depth > 4 {
		return mgl64.Vec4{}, false
	}
	switch p.loader.LineType(id) {
	case schema.IfcPresentationStyleAssign:
		for _, s := range p.loader.RefSetArg(id, 0) {
			if c, ok := p.styleColor(s, depth+1); ok {
				return c, true
			}
		}
	case schema.IfcSurfaceStyle:
		for _, s := range p.loader.RefSetArg(id, 2) {
			if c, ok := p.styleColor(s, depth+1); ok {
				return c, true
			}
		}
	case schema.IfcSurfaceStyleRendering, schema.IfcSurfaceStyleShading:
		colour := p.loader.RefArg(id, 0)
		if p.loader.LineType(colour) != schema.IfcColourRgb {
			return mgl64.Vec4{}, false
		}
		r, _ := p.loader.DoubleArg(colour, 1)
		g, _ := p.loader.DoubleArg(colour, 2)
		b, _ := p.loader.DoubleArg(colour, 3)
		transparency, _ := p.loader.DoubleArg(id, 1)
		return mgl64.Vec4{r, g, b, 1 - transparency}, true
	}
	return mgl64.Vec4{}, false
}
