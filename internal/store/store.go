// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	"context"

	"github.com/google/uuid"
)

// SceneStore persists walk snapshots: one row per walk plus the flattened
// element hierarchy it produced.
type SceneStore interface {
	// SaveSnapshot stores a snapshot and its elements atomically.
	SaveSnapshot(ctx context.Context, snap *Snapshot, elements []*Element) error
	GetSnapshot(ctx context.Context, id uuid.UUID) (*Snapshot, error)
	// LatestSnapshot returns the newest snapshot of a project.
	LatestSnapshot(ctx context.Context, projectID uuid.UUID) (*Snapshot, error)
	ListSnapshots(ctx context.Context, opts ListOpts) ([]*Snapshot, error)
	DeleteSnapshot(ctx context.Context, id uuid.UUID) error

	GetElement(ctx context.Context, snapshotID uuid.UUID, expressID uint32) (*Element, error)
	// ListChildren returns the elements whose parent is parentID, in
	// ascending express id order.
	ListChildren(ctx context.Context, snapshotID uuid.UUID, parentID uint32) ([]*Element, error)

	Close() error
}
