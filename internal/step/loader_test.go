// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package step_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-dev/ifcscene/internal/schema"
	"github.com/sigil-dev/ifcscene/internal/step"
	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

const sample = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION(('ViewDefinition [CoordinationView]'),'2;1');
FILE_NAME('sample.ifc','2026-01-01T00:00:00',(''),(''),'','','');
FILE_SCHEMA(('IFC4'));
ENDSEC;
DATA;
/* project */
#1=IFCPROJECT('0YvctVUKr0kugbFTf53O9L',$,'It''s a test',$,$,$,$,(#20),#30);
#2=IFCRELAGGREGATES('2',$,$,$,#1,(#3,#4));
#3=IFCSITE('3',*,'Site',$,$,$,$,$,.ELEMENT.,$,$,0.,$,$);
#4=IfcBuilding('4',$,'B\X2\00E9\X0\t',$,$,$,$,$,.ELEMENT.,-1.5E-2,12,$);
#5=IFCPROPERTYSINGLEVALUE('Width',$,IFCLENGTHMEASURE(2.5),$);
#6=IFCCARTESIANPOINTLIST3D(((0.,0.,0.),(1.,0.,0.),(1.,1.,0.)));
ENDSEC;
END-ISO-10303-21;
`

func load(t *testing.T, src string) *step.Loader {
	t.Helper()
	l := step.NewLoader(step.Settings{ChunkSize: 7}, schema.NewManager())
	require.NoError(t, l.LoadFile(step.BytesReader([]byte(src))))
	return l
}

func TestLoader_Lines(t *testing.T) {
	l := load(t, sample)

	assert.Equal(t, 6, l.LineCount())
	assert.Equal(t, uint32(6), l.MaxExpressID())
	assert.Equal(t, "IFC4", l.SchemaName())
	assert.True(t, l.HasLine(4))
	assert.False(t, l.HasLine(99))

	assert.Equal(t, schema.IfcProject, l.LineType(1))
	assert.Equal(t, "IFCBUILDING", l.LineTypeName(4))
	assert.Equal(t, "IFCBUILDING", l.Schema().TypeName(l.LineType(4)))
	assert.Equal(t, uint32(0), l.LineType(99))

	assert.Equal(t, []uint32{1}, l.ExpressIDsWithType(schema.IfcProject))
	assert.Equal(t, []uint32{2}, l.ExpressIDsWithType(schema.IfcRelAggregates))
	assert.Empty(t, l.ExpressIDsWithType(schema.IfcRelContainedInSpatialStructure))
}

func TestLoader_TokenKinds(t *testing.T) {
	l := load(t, sample)

	tests := []struct {
		id   uint32
		arg  int
		want step.TokenType
	}{
		{1, 0, step.TokenString},
		{1, 1, step.TokenEmpty},
		{1, 7, step.TokenSetBegin},
		{1, 8, step.TokenRef},
		{3, 1, step.TokenDerived},
		{3, 8, step.TokenEnum},
		{3, 11, step.TokenReal},
		{4, 10, step.TokenInteger},
		{5, 2, step.TokenLabel},
	}
	for _, tt := range tests {
		require.NoError(t, l.MoveToArgumentOffset(tt.id, tt.arg))
		assert.Equal(t, tt.want, l.TokenType(), "#%d arg %d", tt.id, tt.arg)
	}
}

func TestLoader_Cursor(t *testing.T) {
	l := load(t, sample)

	require.NoError(t, l.MoveToArgumentOffset(1, 2))
	assert.Equal(t, "It's a test", l.StringArgument())

	require.NoError(t, l.MoveToArgumentOffset(4, 2))
	assert.Equal(t, "Bét", l.StringArgument())

	require.NoError(t, l.MoveToArgumentOffset(1, 8))
	assert.Equal(t, step.TokenRef, l.TokenType())
	l.StepBack()
	assert.Equal(t, uint32(30), l.RefArgument())

	require.NoError(t, l.MoveToArgumentOffset(2, 5))
	offsets := l.SetArgument()
	require.Len(t, offsets, 2)
	assert.Equal(t, uint32(3), l.RefAt(offsets[0]))
	assert.Equal(t, uint32(4), l.RefAt(offsets[1]))

	require.NoError(t, l.MoveToArgumentOffset(3, 8))
	assert.Equal(t, "ELEMENT", l.EnumArgument())

	require.NoError(t, l.MoveToArgumentOffset(4, 9))
	assert.InDelta(t, -0.015, l.DoubleArgument(), 1e-12)
	assert.Equal(t, 12, l.IntArgument())

	require.NoError(t, l.MoveToArgumentOffset(5, 2))
	assert.InDelta(t, 2.5, l.DoubleArgument(), 1e-12)
}

func TestLoader_ArgHelpers(t *testing.T) {
	l := load(t, sample)

	assert.Equal(t, uint32(30), l.RefArg(1, 8))
	assert.Equal(t, uint32(0), l.RefArg(1, 1))
	assert.Equal(t, []uint32{3, 4}, l.RefSetArg(2, 5))

	name, ok := l.StringArg(3, 2)
	assert.True(t, ok)
	assert.Equal(t, "Site", name)
	_, ok = l.StringArg(3, 3)
	assert.False(t, ok)

	v, ok := l.DoubleArg(5, 2)
	assert.True(t, ok)
	assert.InDelta(t, 2.5, v, 1e-12)

	pts := l.NestedDoubleSetArg(6, 0)
	require.Len(t, pts, 3)
	assert.Equal(t, []float64{1, 1, 0}, pts[2])
	assert.Equal(t, [][]int{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}}, l.NestedIntSetArg(6, 0))
}

func TestLoader_MoveErrors(t *testing.T) {
	l := load(t, sample)

	err := l.MoveToArgumentOffset(99, 0)
	require.Error(t, err)
	assert.True(t, ifcerr.HasCode(err, ifcerr.CodeStepLineNotFound))
	assert.Equal(t, step.TokenUnknown, l.TokenType())

	err = l.MoveToArgumentOffset(2, 6)
	require.Error(t, err)
	assert.True(t, ifcerr.HasCode(err, ifcerr.CodeStepArgumentInvalid))
}

func TestLoader_ParseError(t *testing.T) {
	src := "ISO-10303-21;\nDATA;\n#1=IFCWALL('a',$;\n"
	l := step.NewLoader(step.Settings{}, nil)
	err := l.LoadFile(step.BytesReader([]byte(src)))
	require.Error(t, err)
	assert.True(t, ifcerr.HasCode(err, ifcerr.CodeStepParseInvalid))
	assert.Equal(t, 3, ifcerr.FieldsOf(err)["line"])
}

func TestLoader_MemoryLimit(t *testing.T) {
	l := step.NewLoader(step.Settings{ChunkSize: 16, MemoryLimit: 32}, nil)
	err := l.LoadFile(step.BytesReader([]byte(strings.Repeat(" ", 100))))
	require.Error(t, err)
	assert.True(t, ifcerr.HasCode(err, ifcerr.CodeStepLoadMemoryExceeded))
}

func TestLoader_Open(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.ifc")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	l := step.NewLoader(step.Settings{ChunkSize: 64}, nil)
	require.NoError(t, l.Open(path))
	assert.Equal(t, 6, l.LineCount())

	err := l.Open(filepath.Join(t.TempDir(), "missing.ifc"))
	require.Error(t, err)
	assert.True(t, ifcerr.HasCode(err, ifcerr.CodeStepLoadReadFailure))
}

func TestLoader_ReloadResets(t *testing.T) {
	l := load(t, sample)
	require.NoError(t, l.LoadFile(step.BytesReader([]byte("DATA;\n#9=IFCWALL('w');\nENDSEC;\n"))))
	assert.Equal(t, 1, l.LineCount())
	assert.False(t, l.HasLine(1))
	assert.Equal(t, uint32(9), l.MaxExpressID())
}
