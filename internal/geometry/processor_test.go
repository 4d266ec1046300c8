// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package geometry_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-dev/ifcscene/internal/geometry"
	"github.com/sigil-dev/ifcscene/internal/schema"
	"github.com/sigil-dev/ifcscene/internal/step"
)

const wallFile = `ISO-10303-21;
HEADER;
FILE_SCHEMA(('IFC4'));
ENDSEC;
DATA;
#1=IFCCARTESIANPOINT((0.,0.,0.));
#2=IFCCARTESIANPOINT((10.,0.,0.));
#3=IFCAXIS2PLACEMENT3D(#1,$,$);
#4=IFCAXIS2PLACEMENT3D(#2,$,$);
#5=IFCLOCALPLACEMENT($,#3);
#6=IFCLOCALPLACEMENT(#5,#4);
#7=IFCCARTESIANPOINT((1.,2.));
#8=IFCAXIS2PLACEMENT2D(#7,$);
#9=IFCRECTANGLEPROFILEDEF(.AREA.,$,#8,2.,4.);
#10=IFCDIRECTION((0.,0.,1.));
#11=IFCEXTRUDEDAREASOLID(#9,#3,#10,3.);
#12=IFCSHAPEREPRESENTATION($,'Body','SweptSolid',(#11));
#13=IFCSHAPEREPRESENTATION($,'Axis','Curve2D',(#11));
#14=IFCPRODUCTDEFINITIONSHAPE($,$,(#12,#13));
#15=IFCWALL('1xS3BCk291UvhgP2a6eflK',$,'Wall',$,$,#6,#14,$,$);
#16=IFCCOLOURRGB($,1.,0.,0.);
#17=IFCSURFACESTYLERENDERING(#16,0.25,$,$,$,$,$,$,.FLAT.);
#18=IFCSURFACESTYLE($,.BOTH.,(#17));
#19=IFCSTYLEDITEM(#11,(#18),$);
#20=IFCCARTESIANPOINTLIST3D(((0.,0.,0.),(1.,0.,0.),(1.,1.,0.),(0.,1.,0.)));
#21=IFCTRIANGULATEDFACESET(#20,$,.F.,((1,2,3),(1,3,4)),$);
#22=IFCINDEXEDPOLYGONALFACE((1,2,3,4));
#23=IFCPOLYGONALFACESET(#20,.F.,(#22),$);
#24=IFCBOUNDINGBOX(#1,1.,2.,3.);
#25=IFCBOOLEANCLIPPINGRESULT(.DIFFERENCE.,#24,#21);
#26=IFCREPRESENTATIONMAP(#4,#27);
#27=IFCSHAPEREPRESENTATION($,'Body','Tessellation',(#21));
#28=IFCCARTESIANTRANSFORMATIONOPERATOR3D($,$,#2,2.,$);
#29=IFCMAPPEDITEM(#26,#28);
#30=IFCSHAPEREPRESENTATION($,'Body','MappedRepresentation',(#29));
#31=IFCPRODUCTDEFINITIONSHAPE($,$,(#30));
#32=IFCFURNITURE('2',$,$,$,$,$,#31,$,$);
#33=IFCCIRCLEPROFILEDEF(.AREA.,$,$,1.);
#34=IFCEXTRUDEDAREASOLID(#33,$,#10,1.);
ENDSEC;
END-ISO-10303-21;
`

func newProcessor(t *testing.T, settings geometry.Settings) *geometry.Processor {
	t.Helper()
	l := step.NewLoader(step.Settings{}, schema.NewManager())
	require.NoError(t, l.LoadFile(step.BytesReader([]byte(wallFile))))
	return geometry.NewProcessor(l, settings)
}

func assertVec3(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-9), "want %v, got %v", want, got)
}

func TestProcessor_ExtrudedRectangle(t *testing.T) {
	p := newProcessor(t, geometry.Settings{})

	g := p.GetGeometry(11)
	assert.Equal(t, 12, g.NumFaces())
	assert.Equal(t, 36, g.NumPoints())
	b := g.Bounds()
	assertVec3(t, mgl64.Vec3{0, 0, 0}, b.Min)
	assertVec3(t, mgl64.Vec3{2, 4, 3}, b.Max)

	assert.Same(t, g, p.GetGeometry(11))
}

func TestProcessor_ExtrudedNormalsPointOutward(t *testing.T) {
	p := newProcessor(t, geometry.Settings{})
	g := p.GetGeometry(11)
	center := mgl64.Vec3{1, 2, 1.5}
	for i := 0; i < g.NumFaces(); i++ {
		a := g.Point(int(g.Indices[3*i]))
		n := g.Normal(int(g.Indices[3*i]))
		assert.Greater(t, a.Sub(center).Dot(n), 0.0, "face %d", i)
	}
}

func TestProcessor_CircleSegments(t *testing.T) {
	p := newProcessor(t, geometry.Settings{CircleSegments: 16})
	g := p.GetGeometry(34)
	// two caps of n-2 triangles plus two per side
	assert.Equal(t, 2*(16-2)+2*16, g.NumFaces())
	b := g.Bounds()
	assert.InDelta(t, -1, b.Min[0], 1e-9)
	assert.InDelta(t, 1, b.Max[0], 1e-9)
}

func TestProcessor_FaceSets(t *testing.T) {
	p := newProcessor(t, geometry.Settings{})

	tri := p.GetGeometry(21)
	assert.Equal(t, 2, tri.NumFaces())
	assertVec3(t, mgl64.Vec3{1, 1, 0}, tri.Bounds().Max)

	poly := p.GetGeometry(23)
	assert.Equal(t, 2, poly.NumFaces())
	for i := 0; i < poly.NumPoints(); i++ {
		assertVec3(t, mgl64.Vec3{0, 0, 1}, poly.Normal(i))
	}
}

func TestProcessor_BooleanUsesFirstOperand(t *testing.T) {
	p := newProcessor(t, geometry.Settings{})
	g := p.GetGeometry(25)
	assert.Equal(t, 12, g.NumFaces())
	assertVec3(t, mgl64.Vec3{1, 2, 3}, g.Bounds().Max)
}

func TestProcessor_UnknownGeometry(t *testing.T) {
	p := newProcessor(t, geometry.Settings{})
	assert.Equal(t, 0, p.GetGeometry(999).NumPoints())
	assert.Equal(t, 0, p.GetGeometry(16).NumPoints())
}

func TestProcessor_GetMesh_Product(t *testing.T) {
	p := newProcessor(t, geometry.Settings{})

	mesh := p.GetMesh(15)
	assert.Equal(t, uint32(15), mesh.ExpressID)
	assert.False(t, mesh.HasGeometry)
	assert.Equal(t, mgl64.Ident4(), mesh.Transformation)
	require.Len(t, mesh.Children, 1)

	shape := mesh.Children[0]
	require.Len(t, shape.Children, 2)
	body, axis := shape.Children[0], shape.Children[1]
	assert.True(t, axis.IsEmpty())

	require.Len(t, body.Children, 1)
	item := body.Children[0]
	assert.Equal(t, uint32(11), item.ExpressID)
	assert.True(t, item.HasGeometry)
	assert.True(t, item.HasColor)
	assert.Equal(t, mgl64.Vec4{1, 0, 0, 0.75}, item.Color)
	assertVec3(t, mgl64.Vec3{10, 0, 0}, item.Transformation.Col(3).Vec3())
}

func TestProcessor_GetMesh_MappedItem(t *testing.T) {
	p := newProcessor(t, geometry.Settings{})

	mesh := p.GetMesh(32)
	require.Len(t, mesh.Children, 1)
	rep := mesh.Children[0].Children[0]
	require.Len(t, rep.Children, 1)
	mapped := rep.Children[0]
	assert.Equal(t, uint32(29), mapped.ExpressID)
	assert.Equal(t, mgl64.Ident4(), mapped.Transformation)

	leaf := mapped.Children[0].Children[0]
	assert.Equal(t, uint32(21), leaf.ExpressID)
	// target (scale 2, origin 10,0,0) after mapping origin (10,0,0)
	world := leaf.Transformation
	assertVec3(t, mgl64.Vec3{30, 0, 0}, mgl64.TransformCoordinate(mgl64.Vec3{0, 0, 0}, world))
	assertVec3(t, mgl64.Vec3{32, 0, 0}, mgl64.TransformCoordinate(mgl64.Vec3{1, 0, 0}, world))
}

func TestProcessor_CoordinateToOrigin(t *testing.T) {
	p := newProcessor(t, geometry.Settings{CoordinateToOrigin: true})

	mesh := p.GetMesh(15)
	item := mesh.Children[0].Children[0].Children[0]
	assertVec3(t, mgl64.Vec3{}, item.Transformation.Col(3).Vec3())
}

func TestProcessor_GetMesh_Unknown(t *testing.T) {
	p := newProcessor(t, geometry.Settings{})
	mesh := p.GetMesh(999)
	assert.True(t, mesh.IsEmpty())
	assert.Equal(t, uint32(999), mesh.ExpressID)
}
