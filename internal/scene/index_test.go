// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package scene_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-dev/ifcscene/internal/scene"
	"github.com/sigil-dev/ifcscene/internal/schema"
	"github.com/sigil-dev/ifcscene/internal/step"
)

const relationsFile = `DATA;
#1=IFCPROJECT('p',$,'P',$,$,$,$,$,$);
#2=IFCBUILDING('b',$,'B',$,$,$,$,$,.ELEMENT.,$,$,$);
#3=IFCWALL('w',$,'W',$,$,$,$,$,$);
#4=IFCSITE('s',$,'S',$,$,$,$,$,.ELEMENT.,$,$,$,$,$);
#10=IFCRELAGGREGATES('r10',$,$,$,#1,(#2,#4));
#11=IFCRELCONTAINEDINSPATIALSTRUCTURE('r11',$,$,$,(#3),#2);
#12=IFCRELAGGREGATES('r12',$,$,$,$,(#3));
#13=IFCRELAGGREGATES('r13',$,$,$,#4,$);
#14=IFCRELCONTAINEDINSPATIALSTRUCTURE('r14',$,$,$,(#3),#4);
#15=IFCRELAGGREGATES('r15',$,$,$,#1,(#2,$,'x'));
ENDSEC;
`

func loadTape(t *testing.T, src string) *step.Loader {
	t.Helper()
	l := step.NewLoader(step.Settings{}, schema.NewManager())
	require.NoError(t, l.LoadFile(step.BytesReader([]byte(src))))
	return l
}

func TestIndex_AddRelation(t *testing.T) {
	tape := loadTape(t, relationsFile)

	tests := []struct {
		name       string
		relation   uint32
		parentArg  int
		childArg   int
		wantResult scene.EdgeResult
		wantEdges  int
	}{
		{"aggregation", 10, scene.AggregatesParentArg, scene.AggregatesChildArg, scene.EdgesAdded, 2},
		{"containment", 11, scene.ContainedParentArg, scene.ContainedChildrenArg, scene.EdgesAdded, 1},
		{"null parent", 12, scene.AggregatesParentArg, scene.AggregatesChildArg, scene.SkipMissingParent, 0},
		{"null children", 13, scene.AggregatesParentArg, scene.AggregatesChildArg, scene.SkipNoChildrenSet, 0},
		{"non-reference members", 15, scene.AggregatesParentArg, scene.AggregatesChildArg, scene.EdgesAdded, 1},
		{"argument out of range", 10, 20, scene.AggregatesChildArg, scene.SkipMissingParent, 0},
		{"unknown relation", 99, scene.AggregatesParentArg, scene.AggregatesChildArg, scene.SkipMissingParent, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := scene.NewIndex(nil)
			res, n := idx.AddRelation(tape, tt.relation, tt.parentArg, tt.childArg)
			assert.Equal(t, tt.wantResult, res)
			assert.Equal(t, tt.wantEdges, n)
		})
	}
}

func TestIndex_NullParentRecordsNothing(t *testing.T) {
	tape := loadTape(t, relationsFile)
	idx := scene.NewIndex(nil)

	idx.AddRelation(tape, 12, scene.AggregatesParentArg, scene.AggregatesChildArg)

	_, ok := idx.ParentOf(3)
	assert.False(t, ok)
	assert.Equal(t, 0, idx.Len())
}

func TestIndex_Build(t *testing.T) {
	tape := loadTape(t, relationsFile)
	idx := scene.NewIndex(nil)

	stats := idx.Build(tape)
	assert.Equal(t, scene.BuildStats{Relations: 6, Edges: 5, Skipped: 2}, stats)

	assert.Equal(t, []uint32{2, 4}, idx.ChildrenOf(1))
	assert.Equal(t, []uint32{3}, idx.ChildrenOf(2))
	assert.Equal(t, []uint32{3}, idx.ChildrenOf(4))
	assert.Empty(t, idx.ChildrenOf(3))

	rel, ok := idx.Relation(1, 4)
	require.True(t, ok)
	assert.Equal(t, uint32(10), rel)
}

func TestIndex_SkipsNonReferenceMembers(t *testing.T) {
	tape := loadTape(t, relationsFile)
	idx := scene.NewIndex(nil)

	idx.AddRelation(tape, 15, scene.AggregatesParentArg, scene.AggregatesChildArg)

	assert.Equal(t, []uint32{2}, idx.ChildrenOf(1))
	_, ok := idx.ParentOf(0)
	assert.False(t, ok)
}

func TestIndex_ParentIsLastWriteWins(t *testing.T) {
	tape := loadTape(t, relationsFile)
	idx := scene.NewIndex(nil)
	idx.Build(tape)

	// #3 is contained in #2 by #11 and then in #4 by #14.
	edge, ok := idx.ParentOf(3)
	require.True(t, ok)
	assert.Equal(t, scene.ParentEdge{Parent: 4, Relation: 14}, edge)

	for _, parent := range []uint32{2, 4} {
		assert.Contains(t, idx.ChildrenOf(parent), uint32(3))
	}
	for _, child := range []uint32{2, 4} {
		edge, ok := idx.ParentOf(child)
		require.True(t, ok)
		assert.Equal(t, uint32(1), edge.Parent)
		assert.Contains(t, idx.ChildrenOf(edge.Parent), child)
	}
}

func TestEdgeResult_String(t *testing.T) {
	assert.Equal(t, "edges_added", scene.EdgesAdded.String())
	assert.Equal(t, "skip_missing_parent", scene.SkipMissingParent.String())
	assert.Equal(t, "skip_no_children_set", scene.SkipNoChildrenSet.String())
	assert.Equal(t, "unknown", scene.EdgeResult(42).String())
}
