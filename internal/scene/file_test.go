// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package scene_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-dev/ifcscene/internal/scene"
	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

const houseFile = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION((''),'2;1');
FILE_NAME('house.ifc','',(''),(''),'','','');
FILE_SCHEMA(('IFC4'));
ENDSEC;
DATA;
#1=IFCPROJECT('2Iicv0RnfAVPda6Sg4SE78',$,'IfcOpenHouse',$,$,$,$,$,$);
#2=IFCBUILDING('0tMDzyjmj2nB$WB5KHmpAv',$,'House',$,$,$,$,$,.ELEMENT.,$,$,$);
#3=IFCWALL('3Ep4MwCR1CQhCHl4bXX1RQ',$,'Wall',$,$,#8,#15,$,$);
#4=IFCRELAGGREGATES('0cSLmKxR5B0PVfV$0lNYzk',$,$,$,#1,(#2));
#5=IFCRELCONTAINEDINSPATIALSTRUCTURE('1Xn0CBVt94HRWG9E1Mn9tL',$,$,$,(#3),#2);
#6=IFCCARTESIANPOINT((0.,0.,0.));
#7=IFCAXIS2PLACEMENT3D(#6,$,$);
#8=IFCLOCALPLACEMENT($,#7);
#9=IFCCARTESIANPOINT((0.5,0.5));
#10=IFCAXIS2PLACEMENT2D(#9,$);
#11=IFCRECTANGLEPROFILEDEF(.AREA.,$,#10,1.,1.);
#12=IFCDIRECTION((0.,0.,1.));
#13=IFCEXTRUDEDAREASOLID(#11,#7,#12,1.);
#14=IFCSHAPEREPRESENTATION($,'Body','SweptSolid',(#13));
#15=IFCPRODUCTDEFINITIONSHAPE($,$,(#14));
ENDSEC;
END-ISO-10303-21;
`

func writeIFC(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.ifc")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestOpen_Project(t *testing.T) {
	f, err := scene.Open(writeIFC(t, houseFile), scene.Settings{})
	require.NoError(t, err)

	assert.Equal(t, uint32(1), f.Project.ExpressID)
	assert.Equal(t, "2Iicv0RnfAVPda6Sg4SE78", f.Project.GlobalID)
	assert.Equal(t, "IfcOpenHouse", f.Project.Name)
	assert.NotEqual(t, [16]byte{}, [16]byte(f.Project.UUID))
	assert.Equal(t, "IFC4", f.SchemaName())
	assert.Equal(t, "IFCWALL", f.TypeName(3))
	assert.Equal(t, []uint32{3}, f.Index().ChildrenOf(2))
}

func TestOpen_ProjectDefaults(t *testing.T) {
	f, err := scene.Open(writeIFC(t, "DATA;\n#1=IFCPROJECT($,$,$,$,$,$,$,$,$);\nENDSEC;\n"), scene.Settings{})
	require.NoError(t, err)

	assert.Equal(t, scene.DefaultProjectName, f.Project.Name)
	assert.Empty(t, f.Project.GlobalID)
}

func TestOpen_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := scene.Open(filepath.Join(t.TempDir(), "nope.ifc"), scene.Settings{})
		require.Error(t, err)
		assert.True(t, ifcerr.HasCode(err, ifcerr.CodeSceneFileNotFound))
		assert.True(t, ifcerr.IsNotFound(err))
	})

	t.Run("no project", func(t *testing.T) {
		_, err := scene.Open(writeIFC(t, "DATA;\n#1=IFCWALL('w',$,$,$,$,$,$,$,$);\nENDSEC;\n"), scene.Settings{})
		require.Error(t, err)
		assert.True(t, ifcerr.HasCode(err, ifcerr.CodeSceneProjectNotFound))
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := scene.Open(writeIFC(t, "DATA;\n#1=IFCPROJECT('p'\n"), scene.Settings{})
		require.Error(t, err)
		assert.True(t, ifcerr.HasCode(err, ifcerr.CodeStepParseInvalid))
	})
}

func TestFile_WalkReport(t *testing.T) {
	f, err := scene.Open(writeIFC(t, houseFile), scene.Settings{})
	require.NoError(t, err)

	var out bytes.Buffer
	printer := scene.NewTreePrinter(&out)
	res, err := f.Walk(context.Background(), printer)
	require.NoError(t, err)
	printer.Report(res.BBox)
	require.NoError(t, printer.Err())

	want := `IFCPROJECT
  IFCBUILDING
    IFCWALL
      mesh ID: 13 has mesh with 36 points and 12 faces.
bbox min: (0/0/0)
bbox max: (1/1/1)
`
	assert.Equal(t, want, out.String())
	assert.Equal(t, 3, res.Stats.Elements)
}

func TestFile_WalkCollector(t *testing.T) {
	f, err := scene.Open(writeIFC(t, houseFile), scene.Settings{BaseColor: &mgl64.Vec4{0, 0, 1, 1}})
	require.NoError(t, err)

	c := scene.NewCollector()
	_, err = f.Walk(context.Background(), c)
	require.NoError(t, err)

	require.Len(t, c.Elements, 3)
	wall, ok := c.Element(3)
	require.True(t, ok)
	assert.Equal(t, uint32(2), wall.ParentID)
	assert.Equal(t, 1, wall.Leaves)
	assert.Equal(t, 12, wall.Faces)
	assert.Equal(t, mgl64.Vec4{0, 0, 1, 1}, wall.Color)
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, wall.Bounds.Max)

	building, ok := c.Element(2)
	require.True(t, ok)
	assert.True(t, building.Bounds.IsEmpty())
}

func TestFile_ZeroBaseColorIsKept(t *testing.T) {
	f, err := scene.Open(writeIFC(t, houseFile), scene.Settings{BaseColor: &mgl64.Vec4{}})
	require.NoError(t, err)

	c := scene.NewCollector()
	_, err = f.Walk(context.Background(), c)
	require.NoError(t, err)

	wall, ok := c.Element(3)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec4{}, wall.Color)

	f, err = scene.Open(writeIFC(t, houseFile), scene.Settings{})
	require.NoError(t, err)
	c = scene.NewCollector()
	_, err = f.Walk(context.Background(), c)
	require.NoError(t, err)
	wall, ok = c.Element(3)
	require.True(t, ok)
	assert.Equal(t, scene.DefaultBaseColor, wall.Color)
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{-2.5, "-2.5"},
		{1.0 / 3.0, "0.333333"},
		{1234567, "1.23457e+06"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scene.FormatFloat(tt.in))
	}
	assert.Equal(t, "inf/inf/inf", scene.FormatVec3(scene.NewBBox().Min))
	assert.Equal(t, "-inf/-inf/-inf", scene.FormatVec3(scene.NewBBox().Max))
}
