// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package server

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sigil-dev/ifcscene/internal/store"
	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

// SnapshotReader is the subset of store.SceneStore the API reads from.
// Handlers can be tested against a fake.
type SnapshotReader interface {
	GetSnapshot(ctx context.Context, id uuid.UUID) (*store.Snapshot, error)
	LatestSnapshot(ctx context.Context, projectID uuid.UUID) (*store.Snapshot, error)
	ListSnapshots(ctx context.Context, opts store.ListOpts) ([]*store.Snapshot, error)
	DeleteSnapshot(ctx context.Context, id uuid.UUID) error
	GetElement(ctx context.Context, snapshotID uuid.UUID, expressID uint32) (*store.Element, error)
	ListChildren(ctx context.Context, snapshotID uuid.UUID, parentID uint32) ([]*store.Element, error)
}

var _ SnapshotReader = (store.SceneStore)(nil)

// RegisterSnapshots sets the snapshot source and registers the REST routes.
func (s *Server) RegisterSnapshots(r SnapshotReader) error {
	if r == nil {
		return ifcerr.New(ifcerr.CodeServerConfigInvalid, "snapshot reader is required")
	}
	s.snapshots = r
	s.registerRoutes()
	return nil
}

// Box is the JSON form of an axis-aligned box. Null when nothing was merged.
type Box struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

func boxOf(b store.Box) *Box {
	if !b.Valid {
		return nil
	}
	return &Box{Min: b.Min, Max: b.Max}
}

// SnapshotSummary describes one stored walk.
type SnapshotSummary struct {
	ID              string `json:"id" format:"uuid"`
	ProjectID       string `json:"project_id" format:"uuid"`
	ProjectGlobalID string `json:"project_global_id"`
	ProjectName     string `json:"project_name"`
	SourcePath      string `json:"source_path"`
	Schema          string `json:"schema"`
	BBox            *Box   `json:"bbox"`
	Elements        int    `json:"elements"`
	Leaves          int    `json:"leaves"`
	Points          int    `json:"points"`
	Faces           int    `json:"faces"`
	CreatedAt       string `json:"created_at" format:"date-time"`
}

func summaryOf(s *store.Snapshot) SnapshotSummary {
	return SnapshotSummary{
		ID:              s.ID.String(),
		ProjectID:       s.ProjectID.String(),
		ProjectGlobalID: s.ProjectGlobalID,
		ProjectName:     s.ProjectName,
		SourcePath:      s.SourcePath,
		Schema:          s.Schema,
		BBox:            boxOf(s.BBox),
		Elements:        s.Elements,
		Leaves:          s.Leaves,
		Points:          s.Points,
		Faces:           s.Faces,
		CreatedAt:       s.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// ElementDetail describes one element of a snapshot's hierarchy.
type ElementDetail struct {
	ExpressID uint32      `json:"express_id"`
	ParentID  uint32      `json:"parent_id"`
	TypeName  string      `json:"type_name"`
	Depth     int         `json:"depth"`
	Leaves    int         `json:"leaves"`
	Points    int         `json:"points"`
	Faces     int         `json:"faces"`
	Color     *[4]float64 `json:"color,omitempty"`
	Bounds    *Box        `json:"bounds"`
}

func detailOf(e *store.Element) ElementDetail {
	d := ElementDetail{
		ExpressID: e.ExpressID,
		ParentID:  e.ParentID,
		TypeName:  e.TypeName,
		Depth:     e.Depth,
		Leaves:    e.Leaves,
		Points:    e.Points,
		Faces:     e.Faces,
		Bounds:    boxOf(e.Bounds),
	}
	if e.HasColor {
		c := e.Color
		d.Color = &c
	}
	return d
}
