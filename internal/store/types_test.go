// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/sigil-dev/ifcscene/internal/store"
	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

func TestSnapshotValidate(t *testing.T) {
	valid := store.Snapshot{ID: uuid.New(), SourcePath: "a.ifc", CreatedAt: time.Now()}

	tests := []struct {
		name   string
		mutate func(*store.Snapshot)
		ok     bool
	}{
		{"valid", func(*store.Snapshot) {}, true},
		{"missing id", func(s *store.Snapshot) { s.ID = uuid.Nil }, false},
		{"missing path", func(s *store.Snapshot) { s.SourcePath = "" }, false},
		{"missing time", func(s *store.Snapshot) { s.CreatedAt = time.Time{} }, false},
		{"negative count", func(s *store.Snapshot) { s.Faces = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, ifcerr.IsInvalidInput(err))
		})
	}
}

func TestElementValidate(t *testing.T) {
	id := uuid.New()
	assert.NoError(t, store.Element{SnapshotID: id, ExpressID: 3}.Validate())
	assert.Error(t, store.Element{ExpressID: 3}.Validate())
	assert.Error(t, store.Element{SnapshotID: id}.Validate())
	assert.Error(t, store.Element{SnapshotID: id, ExpressID: 3, Depth: -1}.Validate())
}
