// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is the persisted summary of one walk over an IFC file.
type Snapshot struct {
	ID              uuid.UUID
	ProjectID       uuid.UUID // the project GlobalId, expanded
	ProjectGlobalID string
	ProjectName     string
	SourcePath      string
	Schema          string
	BBox            Box
	Elements        int
	Leaves          int
	Points          int
	Faces           int
	CreatedAt       time.Time
}

// Box is an axis-aligned box. Valid is false when nothing was merged.
type Box struct {
	Min   [3]float64
	Max   [3]float64
	Valid bool
}

// Element is one element of a snapshot's hierarchy.
type Element struct {
	SnapshotID uuid.UUID
	ExpressID  uint32
	ParentID   uint32 // 0 for the project
	TypeName   string
	Depth      int
	Leaves     int
	Points     int
	Faces      int
	Color      [4]float64
	HasColor   bool
	Bounds     Box
}

// ListOpts provides pagination parameters for list operations.
type ListOpts struct {
	Limit  int
	Offset int
}
