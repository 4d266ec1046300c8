// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	"github.com/google/uuid"

	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

// Validate checks that the Snapshot has all required fields set correctly.
func (s Snapshot) Validate() error {
	if s.ID == uuid.Nil {
		return ifcerr.New(ifcerr.CodeStoreInvalidInput, "snapshot: ID is required")
	}
	if s.SourcePath == "" {
		return ifcerr.New(ifcerr.CodeStoreInvalidInput, "snapshot: SourcePath is required")
	}
	if s.CreatedAt.IsZero() {
		return ifcerr.New(ifcerr.CodeStoreInvalidInput, "snapshot: CreatedAt is required")
	}
	if s.Elements < 0 || s.Leaves < 0 || s.Points < 0 || s.Faces < 0 {
		return ifcerr.New(ifcerr.CodeStoreInvalidInput, "snapshot: counts must not be negative")
	}
	return nil
}

// Validate checks that the Element belongs to a snapshot and has an id.
func (e Element) Validate() error {
	if e.SnapshotID == uuid.Nil {
		return ifcerr.New(ifcerr.CodeStoreInvalidInput, "element: SnapshotID is required")
	}
	if e.ExpressID == 0 {
		return ifcerr.New(ifcerr.CodeStoreInvalidInput, "element: ExpressID is required")
	}
	if e.Depth < 0 {
		return ifcerr.Errorf(ifcerr.CodeStoreInvalidInput, "element %d: negative depth", e.ExpressID)
	}
	return nil
}
