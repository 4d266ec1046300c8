// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package scene

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/sigil-dev/ifcscene/internal/schema"
	"github.com/sigil-dev/ifcscene/internal/step"
)

// Tape is the cursor surface of the STEP loader the index reads relations
// through.
type Tape interface {
	ExpressIDsWithType(code uint32) []uint32
	MoveToArgumentOffset(id uint32, arg int) error
	TokenType() step.TokenType
	StepBack()
	RefArgument() uint32
	SetArgument() []int
	RefAt(offset int) uint32
}

var _ Tape = (*step.Loader)(nil)

// Argument positions of the relating and related attributes.
const (
	AggregatesParentArg  = 4
	AggregatesChildArg   = 5
	ContainedParentArg   = 5
	ContainedChildrenArg = 4
)

// EdgeResult tells what AddRelation did with one relation.
type EdgeResult int

const (
	// EdgesAdded means the related set was read and its members recorded.
	EdgesAdded EdgeResult = iota
	// SkipMissingParent means the relating attribute was not a reference.
	SkipMissingParent
	// SkipNoChildrenSet means the related attribute did not open a set.
	SkipNoChildrenSet
)

func (r EdgeResult) String() string {
	switch r {
	case EdgesAdded:
		return "edges_added"
	case SkipMissingParent:
		return "skip_missing_parent"
	case SkipNoChildrenSet:
		return "skip_no_children_set"
	default:
		return "unknown"
	}
}

// ParentEdge is the Parent Index entry of a child.
type ParentEdge struct {
	Parent   uint32
	Relation uint32
}

// BuildStats counts the outcome of Index.Build.
type BuildStats struct {
	Relations int
	Edges     int
	Skipped   int
}

// Index holds the Children Index (parent -> child -> relation) and the
// Parent Index (child -> parent, relation). The Parent Index is
// last-write-wins.
type Index struct {
	children map[uint32]map[uint32]uint32
	parents  map[uint32]ParentEdge
	logger   *slog.Logger
}

// NewIndex returns an empty index. A nil logger uses slog.Default().
func NewIndex(logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{
		children: make(map[uint32]map[uint32]uint32),
		parents:  make(map[uint32]ParentEdge),
		logger:   logger,
	}
}

// AddRelation records the edges of one relation entity whose relating
// object sits at parentArg and whose related set sits at childrenArg.
func (x *Index) AddRelation(tape Tape, relationID uint32, parentArg, childrenArg int) (EdgeResult, int) {
	_ = tape.MoveToArgumentOffset(relationID, parentArg)
	tok := tape.TokenType()
	tape.StepBack()
	if tok != step.TokenRef {
		return SkipMissingParent, 0
	}
	parent := tape.RefArgument()

	_ = tape.MoveToArgumentOffset(relationID, childrenArg)
	tok = tape.TokenType()
	tape.StepBack()
	if tok != step.TokenSetBegin {
		return SkipNoChildrenSet, 0
	}

	edges := 0
	for _, off := range tape.SetArgument() {
		child := tape.RefAt(off)
		if child == 0 {
			continue
		}
		edges++
		x.parents[child] = ParentEdge{Parent: parent, Relation: relationID}
		set, ok := x.children[parent]
		if !ok {
			set = make(map[uint32]uint32)
			x.children[parent] = set
		}
		if _, exists := set[child]; !exists {
			set[child] = relationID
		}
	}
	return EdgesAdded, edges
}

// Build indexes every aggregation relation and then every containment
// relation, each in file order.
func (x *Index) Build(tape Tape) BuildStats {
	var stats BuildStats
	apply := func(code uint32, parentArg, childrenArg int) {
		for _, id := range tape.ExpressIDsWithType(code) {
			stats.Relations++
			res, n := x.AddRelation(tape, id, parentArg, childrenArg)
			if res != EdgesAdded {
				stats.Skipped++
				x.logger.Debug("relation skipped", "id", id, "reason", res.String())
				continue
			}
			stats.Edges += n
		}
	}
	apply(schema.IfcRelAggregates, AggregatesParentArg, AggregatesChildArg)
	apply(schema.IfcRelContainedInSpatialStructure, ContainedParentArg, ContainedChildrenArg)
	x.logger.Debug("relationship index built",
		"relations", stats.Relations,
		"edges", stats.Edges,
		"skipped", stats.Skipped,
	)
	return stats
}

// ChildrenOf returns the children of parent in ascending id order.
func (x *Index) ChildrenOf(parent uint32) []uint32 {
	return slices.Sorted(maps.Keys(x.children[parent]))
}

// Relation returns the relation that first linked child under parent.
func (x *Index) Relation(parent, child uint32) (uint32, bool) {
	rel, ok := x.children[parent][child]
	return rel, ok
}

// ParentOf returns the Parent Index entry of child.
func (x *Index) ParentOf(child uint32) (ParentEdge, bool) {
	e, ok := x.parents[child]
	return e, ok
}

// Len returns the number of parents in the Children Index.
func (x *Index) Len() int { return len(x.children) }
