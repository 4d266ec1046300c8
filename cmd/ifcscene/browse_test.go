// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigil-dev/ifcscene/internal/scene"
)

// P(1) -> Site(2) -> { Building(3) -> Wall(5), Slab(4) }
func browseFixture() browseModel {
	box := scene.NewBBox()
	box.Merge(mgl64.Vec3{0, 0, 0})
	box.Merge(mgl64.Vec3{1, 2, 3})
	elements := []scene.Element{
		{ExpressID: 1, TypeName: "IFCPROJECT", Depth: 0, Bounds: scene.NewBBox()},
		{ExpressID: 2, ParentID: 1, TypeName: "IFCSITE", Depth: 1, Bounds: scene.NewBBox()},
		{ExpressID: 3, ParentID: 2, TypeName: "IFCBUILDING", Depth: 2, Bounds: scene.NewBBox()},
		{ExpressID: 5, ParentID: 3, TypeName: "IFCWALL", Depth: 3, Leaves: 1, Points: 36, Faces: 12, Bounds: box},
		{ExpressID: 4, ParentID: 2, TypeName: "IFCSLAB", Depth: 2, Bounds: scene.NewBBox()},
	}
	return newBrowseModel("House", elements, box)
}

func press(t *testing.T, m browseModel, keys ...tea.KeyMsg) browseModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		var ok bool
		m, ok = next.(browseModel)
		require.True(t, ok)
	}
	return m
}

func visibleIDs(m browseModel) []uint32 {
	ids := make([]uint32, 0, len(m.rows))
	for _, r := range m.rows {
		ids = append(ids, m.elements[r].ExpressID)
	}
	return ids
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func TestBrowseModel_InitialRows(t *testing.T) {
	m := browseFixture()
	assert.Equal(t, []uint32{1, 2}, visibleIDs(m))
	e, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, uint32(1), e.ExpressID)
}

func TestBrowseModel_Navigation(t *testing.T) {
	m := browseFixture()

	m = press(t, m, keyUp)
	assert.Equal(t, 0, m.cursor, "cannot move above the first row")

	m = press(t, m, keyDown, keyDown, keyDown)
	assert.Equal(t, 1, m.cursor, "cannot move below the last row")
}

func TestBrowseModel_ExpandCollapse(t *testing.T) {
	m := browseFixture()

	m = press(t, m, keyDown, keyRight)
	assert.Equal(t, []uint32{1, 2, 3, 4}, visibleIDs(m))

	m = press(t, m, keyDown, keyRight)
	assert.Equal(t, []uint32{1, 2, 3, 5, 4}, visibleIDs(m))

	// Leaves cannot be expanded.
	m = press(t, m, keyDown, keyRight)
	assert.Equal(t, []uint32{1, 2, 3, 5, 4}, visibleIDs(m))

	// Collapse on a leaf jumps to its parent, a second press closes it.
	m = press(t, m, keyLeft)
	e, _ := m.selected()
	assert.Equal(t, uint32(3), e.ExpressID)
	m = press(t, m, keyLeft)
	assert.Equal(t, []uint32{1, 2, 3, 4}, visibleIDs(m))
}

func TestBrowseModel_ToggleKeepsCursorInRange(t *testing.T) {
	m := browseFixture()
	m = press(t, m, keyDown, keyRight, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	assert.Equal(t, 3, m.cursor)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}}, keyDown, keySpace)
	assert.Equal(t, []uint32{1, 2}, visibleIDs(m))
	assert.Equal(t, 1, m.cursor)
}

func TestBrowseModel_Quit(t *testing.T) {
	m := browseFixture()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBrowseModel_View(t *testing.T) {
	m := browseFixture()
	m = press(t, m, keyDown, keyRight, keyDown, keyRight, keyDown)

	view := m.View()
	assert.Contains(t, view, "House")
	assert.Contains(t, view, "IFCWALL")
	assert.Contains(t, view, "#5 IFCWALL")
	assert.Contains(t, view, "leaves 1, points 36, faces 12")
	assert.Contains(t, view, "bounds max (1/2/3)")
}

func TestBrowseModel_ScrollFollowsCursor(t *testing.T) {
	m := browseFixture()
	m = press(t, m, keyDown, keyRight, keyDown, keyRight)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 14})
	m = next.(browseModel)
	assert.Equal(t, 3, m.listHeight())

	m = press(t, m, keyDown, keyDown)
	assert.Equal(t, 4, m.cursor)
	assert.Equal(t, 2, m.offset)
}
