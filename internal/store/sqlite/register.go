// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"github.com/sigil-dev/ifcscene/internal/store"
)

func init() {
	store.RegisterBackend("sqlite", func(dbPath string) (store.SceneStore, error) {
		return NewSceneStore(dbPath)
	})
}
