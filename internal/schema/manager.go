// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package schema

import (
	"strings"
	"sync"
)

// UnknownTypeName is returned for codes that were never registered.
const UnknownTypeName = "<unknown type>"

// Manager resolves type codes to names and classifies product types.
type Manager struct {
	mu       sync.RWMutex
	names    map[uint32]string
	products map[uint32]struct{}
}

// NewManager returns a manager that knows the product subtype set. Other
// names are learned through Register.
func NewManager() *Manager {
	m := &Manager{
		names:    make(map[uint32]string),
		products: make(map[uint32]struct{}, len(productNames)),
	}
	for _, n := range productNames {
		code := m.Register(n)
		m.products[code] = struct{}{}
	}
	m.Register("IFCPROJECT")
	return m
}

// Register records an entity name and returns its code.
func (m *Manager) Register(name string) uint32 {
	name = strings.ToUpper(name)
	code := TypeCode(name)
	m.mu.Lock()
	m.names[code] = name
	m.mu.Unlock()
	return code
}

// TypeName returns the upper-case IFC name for a code.
func (m *Manager) TypeName(code uint32) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if n, ok := m.names[code]; ok {
		return n
	}
	return UnknownTypeName
}

// IsProduct reports whether code is IfcProduct or one of its subtypes.
func (m *Manager) IsProduct(code uint32) bool {
	_, ok := m.products[code]
	return ok
}
