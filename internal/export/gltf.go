// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package export writes the world-space geometry reached by a walk to glTF.
package export

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/sigil-dev/ifcscene/internal/scene"
	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

// zUpToYUp rotates IFC's z-up frame into glTF's y-up frame.
var zUpToYUp = mgl64.HomogRotate3DX(-mgl64.DegToRad(90)).Mat3()

// Options tunes the exporter.
type Options struct {
	// YUp converts coordinates to the glTF y-up convention.
	YUp bool
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// GLTF is a scene.Visitor that turns every non-empty leaf into one glTF
// mesh, with one material per distinct colour.
type GLTF struct {
	doc       *gltf.Document
	opts      Options
	materials map[mgl64.Vec4]uint32
	names     map[uint32]string
	logger    *slog.Logger
}

var _ scene.Visitor = (*GLTF)(nil)

// NewGLTF returns an empty exporter.
func NewGLTF(opts Options) *GLTF {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &GLTF{
		doc:       gltf.NewDocument(),
		opts:      opts,
		materials: make(map[mgl64.Vec4]uint32),
		names:     make(map[uint32]string),
		logger:    logger,
	}
}

// VisitElement remembers element names for the nodes it owns.
func (e *GLTF) VisitElement(v scene.ElementVisit) {
	e.names[v.ExpressID] = v.TypeName
}

// VisitLeaf appends the leaf as a mesh and a node of the default scene.
func (e *GLTF) VisitLeaf(l scene.Leaf, swept []mgl64.Vec3) {
	g := l.Geometry
	if len(swept) == 0 || g.NumFaces() == 0 {
		return
	}

	normalMatrix := l.World.Mat3().Inv().Transpose()
	positions := make([][3]float32, len(swept))
	normals := make([][3]float32, len(swept))
	for i, p := range swept {
		n := normalMatrix.Mul3x1(g.Normal(i))
		if length := n.Len(); length > 0 {
			n = n.Mul(1 / length)
		}
		if e.opts.YUp {
			p = zUpToYUp.Mul3x1(p)
			n = zUpToYUp.Mul3x1(n)
		}
		positions[i] = [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}
		normals[i] = [3]float32{float32(n[0]), float32(n[1]), float32(n[2])}
	}

	color := scene.DefaultBaseColor
	if l.HasColor {
		color = l.Color
	}

	indices := modeler.WriteIndices(e.doc, g.Indices)
	position := modeler.WritePosition(e.doc, positions)
	normal := modeler.WriteNormal(e.doc, normals)
	primitive := &gltf.Primitive{
		Indices:    gltf.Index(indices),
		Attributes: gltf.Attribute{gltf.POSITION: position, gltf.NORMAL: normal},
		Material:   gltf.Index(e.material(color)),
	}
	name := fmt.Sprintf("%s #%d", e.names[l.ElementID], l.MeshID)
	e.doc.Meshes = append(e.doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{primitive}})
	e.doc.Nodes = append(e.doc.Nodes, &gltf.Node{
		Name: name,
		Mesh: gltf.Index(uint32(len(e.doc.Meshes) - 1)),
		Extras: map[string]any{
			"element_id": l.ElementID,
			"mesh_id":    l.MeshID,
		},
	})
	scn := e.doc.Scenes[0]
	scn.Nodes = append(scn.Nodes, uint32(len(e.doc.Nodes)-1))
}

func (e *GLTF) material(c mgl64.Vec4) uint32 {
	if idx, ok := e.materials[c]; ok {
		return idx
	}
	alpha := gltf.AlphaOpaque
	if c[3] < 1 {
		alpha = gltf.AlphaBlend
	}
	e.doc.Materials = append(e.doc.Materials, &gltf.Material{
		Name:      fmt.Sprintf("rgba(%.3f,%.3f,%.3f,%.3f)", c[0], c[1], c[2], c[3]),
		AlphaMode: alpha,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])},
			MetallicFactor:  gltf.Float(0),
		},
		DoubleSided: true,
	})
	idx := uint32(len(e.doc.Materials) - 1)
	e.materials[c] = idx
	return idx
}

// MeshCount returns the number of meshes collected so far.
func (e *GLTF) MeshCount() int { return len(e.doc.Meshes) }

// Document returns the document being built.
func (e *GLTF) Document() *gltf.Document { return e.doc }

// Save writes the document to path: binary GLB for ".glb", JSON glTF with
// an embedded buffer otherwise.
func (e *GLTF) Save(path string) error {
	if len(e.doc.Meshes) == 0 {
		return ifcerr.New(ifcerr.CodeExportEmpty, "no geometry to export", ifcerr.FieldPath(path))
	}

	var err error
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		err = gltf.SaveBinary(e.doc, path)
	} else {
		for _, b := range e.doc.Buffers {
			if b.URI == "" {
				b.EmbeddedResource()
			}
		}
		err = gltf.Save(e.doc, path)
	}
	if err != nil {
		return ifcerr.Wrap(err, ifcerr.CodeExportWriteFailure, "writing gltf", ifcerr.FieldPath(path))
	}
	e.logger.Info("gltf written",
		"path", path,
		"meshes", len(e.doc.Meshes),
		"materials", len(e.doc.Materials),
	)
	return nil
}
