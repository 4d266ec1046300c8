// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	"sync"

	ifcerr "github.com/sigil-dev/ifcscene/pkg/errors"
)

// SceneStoreFactory opens a scene store at the given database path.
type SceneStoreFactory func(dbPath string) (SceneStore, error)

var (
	sceneFactories = map[string]SceneStoreFactory{}
	factoriesMu    sync.RWMutex
)

// RegisterBackend registers the factory for a named storage backend.
// Backend packages call this from init(). This function is goroutine-safe.
func RegisterBackend(name string, factory SceneStoreFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	sceneFactories[name] = factory
}

// resolveBackend returns the effective backend name, defaulting to "sqlite".
func resolveBackend(cfg *StorageConfig) string {
	if cfg.Backend == "" {
		return "sqlite"
	}
	return cfg.Backend
}

// NewSceneStore opens the scene store described by cfg.
func NewSceneStore(cfg *StorageConfig) (SceneStore, error) {
	backend := resolveBackend(cfg)

	factoriesMu.RLock()
	factory, ok := sceneFactories[backend]
	factoriesMu.RUnlock()
	if !ok {
		return nil, ifcerr.New(ifcerr.CodeStoreBackendUnsupported, "unsupported storage backend",
			ifcerr.Field("backend", backend))
	}
	if cfg.Path == "" {
		return nil, ifcerr.New(ifcerr.CodeStoreInvalidInput, "storage path is required")
	}
	return factory(cfg.Path)
}
