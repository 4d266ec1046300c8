// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package export_test

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-dev/ifcscene/internal/export"
	"github.com/sigil-dev/ifcscene/internal/geometry"
	"github.com/sigil-dev/ifcscene/internal/scene"
	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

func triangle() *geometry.Geometry {
	return geometry.NewGeometry([]float64{
		0, 0, 0, 0, 0, 1,
		1, 0, 0, 0, 0, 1,
		0, 1, 0, 0, 0, 1,
	}, []uint32{0, 1, 2})
}

func leaf(id uint32, color mgl64.Vec4, hasColor bool) (scene.Leaf, []mgl64.Vec3) {
	world := mgl64.Translate3D(10, 0, 0)
	g := triangle()
	swept := make([]mgl64.Vec3, g.NumPoints())
	for i := range swept {
		swept[i] = mgl64.TransformCoordinate(g.Point(i), world)
	}
	return scene.Leaf{
		MeshID:    id,
		ElementID: 3,
		World:     world,
		Color:     color,
		HasColor:  hasColor,
		Geometry:  g,
	}, swept
}

func TestGLTF_OneMeshPerLeaf(t *testing.T) {
	e := export.NewGLTF(export.Options{})
	e.VisitElement(scene.ElementVisit{ExpressID: 3, TypeName: "IFCWALL"})

	red := mgl64.Vec4{1, 0, 0, 1}
	e.VisitLeaf(leaf(10, red, true))
	e.VisitLeaf(leaf(11, red, true))
	e.VisitLeaf(leaf(12, mgl64.Vec4{}, false))
	e.VisitLeaf(scene.Leaf{MeshID: 13, Geometry: geometry.NewGeometry(nil, nil)}, nil)

	doc := e.Document()
	assert.Equal(t, 3, e.MeshCount())
	assert.Len(t, doc.Nodes, 3)
	assert.Len(t, doc.Scenes[0].Nodes, 3)
	assert.Len(t, doc.Materials, 2)
	assert.Equal(t, "IFCWALL #10", doc.Meshes[0].Name)
	assert.Equal(t, &[4]float32{0.5, 0.5, 0.5, 1}, doc.Materials[1].PBRMetallicRoughness.BaseColorFactor)
	assert.Equal(t, gltf.Attribute{gltf.POSITION: 1, gltf.NORMAL: 2}, doc.Meshes[0].Primitives[0].Attributes)
	assert.Equal(t, []uint32{0, 1, 2}, doc.Scenes[0].Nodes)
	assert.Equal(t, uint32(1), *doc.Nodes[1].Mesh)
}

func TestGLTF_SaveAndReadBack(t *testing.T) {
	for _, name := range []string{"scene.glb", "scene.gltf"} {
		t.Run(name, func(t *testing.T) {
			e := export.NewGLTF(export.Options{})
			e.VisitLeaf(leaf(10, mgl64.Vec4{0, 1, 0, 0.5}, true))

			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, e.Save(path))

			doc, err := gltf.Open(path)
			require.NoError(t, err)
			require.Len(t, doc.Meshes, 1)
			prim := doc.Meshes[0].Primitives[0]
			positions, err := modeler.ReadPosition(doc, doc.Accessors[prim.Attributes[gltf.POSITION]], nil)
			require.NoError(t, err)
			assert.Equal(t, [][3]float32{{10, 0, 0}, {11, 0, 0}, {10, 1, 0}}, positions)
			assert.Equal(t, gltf.AlphaBlend, doc.Materials[0].AlphaMode)
		})
	}
}

func TestGLTF_YUp(t *testing.T) {
	e := export.NewGLTF(export.Options{YUp: true})
	e.VisitLeaf(leaf(10, mgl64.Vec4{}, false))

	path := filepath.Join(t.TempDir(), "scene.glb")
	require.NoError(t, e.Save(path))
	doc, err := gltf.Open(path)
	require.NoError(t, err)

	prim := doc.Meshes[0].Primitives[0]
	normals, err := modeler.ReadNormal(doc, doc.Accessors[prim.Attributes[gltf.NORMAL]], nil)
	require.NoError(t, err)
	for _, n := range normals {
		assert.InDelta(t, 0, n[0], 1e-6)
		assert.InDelta(t, 1, n[1], 1e-6)
		assert.InDelta(t, 0, n[2], 1e-6)
	}
}

func TestGLTF_SaveEmpty(t *testing.T) {
	e := export.NewGLTF(export.Options{})
	err := e.Save(filepath.Join(t.TempDir(), "empty.glb"))
	require.Error(t, err)
	assert.True(t, ifcerr.HasCode(err, ifcerr.CodeExportEmpty))
}
