// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package scene

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// TreePrinter writes the indented debug tree: one line per element, one
// line per geometry leaf.
type TreePrinter struct {
	w   io.Writer
	err error
}

// NewTreePrinter returns a printer writing to w.
func NewTreePrinter(w io.Writer) *TreePrinter {
	return &TreePrinter{w: w}
}

// VisitElement writes the element type name indented by its depth.
func (p *TreePrinter) VisitElement(e ElementVisit) {
	p.printf("%s%s\n", indent(e.Depth), e.TypeName)
}

// VisitLeaf writes the point and face counts of one geometry node.
func (p *TreePrinter) VisitLeaf(l Leaf, _ []mgl64.Vec3) {
	p.printf("%smesh ID: %d has mesh with %d points and %d faces.\n",
		indent(l.Depth), l.MeshID, l.Geometry.NumPoints(), l.Geometry.NumFaces())
}

// Report writes the final two bounding box lines.
func (p *TreePrinter) Report(b BBox) {
	p.printf("bbox min: (%s)\n", FormatVec3(b.Min))
	p.printf("bbox max: (%s)\n", FormatVec3(b.Max))
}

// Err returns the first write error.
func (p *TreePrinter) Err() error { return p.err }

func (p *TreePrinter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

// FormatVec3 renders x/y/z with six significant digits.
func FormatVec3(v mgl64.Vec3) string {
	return FormatFloat(v[0]) + "/" + FormatFloat(v[1]) + "/" + FormatFloat(v[2])
}

// FormatFloat renders a number with six significant digits, "inf" and
// "-inf" for the sentinels of an empty box.
func FormatFloat(v float64) string {
	switch s := strconv.FormatFloat(v, 'g', 6, 64); s {
	case "+Inf":
		return "inf"
	case "-Inf":
		return "-inf"
	default:
		return s
	}
}
