// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sigil-dev/ifcscene/internal/scene"
)

func (a *app) newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [file]",
		Short: "Browse the element hierarchy interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runBrowse,
	}
}

func (a *app) runBrowse(cmd *cobra.Command, args []string) error {
	cfg, logger, err := a.load(cmd, nil)
	if err != nil {
		return err
	}

	f, err := scene.Open(inputPath(cfg, args), cfg.SceneSettings(logger))
	if err != nil {
		return err
	}
	collector := scene.NewCollector()
	res, err := f.Walk(cmd.Context(), collector)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s (%s, %s)", f.Project.Name, f.SchemaName(), f.Path)
	m := newBrowseModel(title, collector.Elements, res.BBox)
	_, err = tea.NewProgram(m,
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
		tea.WithAltScreen(),
	).Run()
	return err
}

// --- key bindings ---

type browseKeys struct {
	Up       key.Binding
	Down     key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Toggle   key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultBrowseKeys() browseKeys {
	return browseKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Expand:   key.NewBinding(key.WithKeys("right", "l", "enter"), key.WithHelp("→/l", "expand")),
		Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Expand, k.Collapse, k.Help, k.Quit}
}

func (k browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Expand, k.Collapse, k.Toggle},
		{k.Help, k.Quit},
	}
}

// --- lipgloss styles ---

var (
	browseTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	browseSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	browseDimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	browseBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
)

// browseModel is the bubbletea model for the hierarchy browser.
type browseModel struct {
	title    string
	bbox     scene.BBox
	elements []scene.Element
	children map[uint32][]int
	roots    []int
	expanded map[uint32]bool

	rows   []int // indexes into elements, in display order
	cursor int
	offset int
	height int

	keys browseKeys
	help help.Model
}

func newBrowseModel(title string, elements []scene.Element, bbox scene.BBox) browseModel {
	m := browseModel{
		title:    title,
		bbox:     bbox,
		elements: elements,
		children: make(map[uint32][]int),
		expanded: make(map[uint32]bool),
		height:   24,
		keys:     defaultBrowseKeys(),
		help:     help.New(),
	}
	for i, e := range elements {
		if e.Depth == 0 {
			m.roots = append(m.roots, i)
			m.expanded[e.ExpressID] = true
			continue
		}
		m.children[e.ParentID] = append(m.children[e.ParentID], i)
	}
	m.rebuild()
	return m
}

// rebuild recomputes the visible rows from the expanded set.
func (m *browseModel) rebuild() {
	m.rows = make([]int, 0, len(m.elements))
	var add func(i int)
	add = func(i int) {
		m.rows = append(m.rows, i)
		if !m.expanded[m.elements[i].ExpressID] {
			return
		}
		for _, c := range m.children[m.elements[i].ExpressID] {
			add(c)
		}
	}
	for _, r := range m.roots {
		add(r)
	}
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
}

func (m browseModel) selected() (scene.Element, bool) {
	if len(m.rows) == 0 {
		return scene.Element{}, false
	}
	return m.elements[m.rows[m.cursor]], true
}

func (m browseModel) hasChildren(id uint32) bool {
	return len(m.children[id]) > 0
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scroll()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(len(m.rows)-1, 0)
	case key.Matches(msg, m.keys.Expand):
		if e, ok := m.selected(); ok && m.hasChildren(e.ExpressID) {
			m.expanded[e.ExpressID] = true
			m.rebuild()
		}
	case key.Matches(msg, m.keys.Toggle):
		if e, ok := m.selected(); ok && m.hasChildren(e.ExpressID) {
			m.expanded[e.ExpressID] = !m.expanded[e.ExpressID]
			m.rebuild()
		}
	case key.Matches(msg, m.keys.Collapse):
		m.collapse()
	}
	m.scroll()
	return m, nil
}

// collapse closes the selected node, or moves to its parent when it is
// already closed.
func (m *browseModel) collapse() {
	e, ok := m.selected()
	if !ok {
		return
	}
	if m.expanded[e.ExpressID] && m.hasChildren(e.ExpressID) {
		m.expanded[e.ExpressID] = false
		m.rebuild()
		return
	}
	for i := m.cursor - 1; i >= 0; i-- {
		if m.elements[m.rows[i]].ExpressID == e.ParentID {
			m.cursor = i
			return
		}
	}
}

// listHeight is the number of tree rows that fit above the detail box.
func (m browseModel) listHeight() int {
	return max(m.height-12, 3)
}

func (m *browseModel) scroll() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

func (m browseModel) View() string {
	var b strings.Builder
	b.WriteString(browseTitleStyle.Render(m.title))
	b.WriteString("\n\n")

	end := min(m.offset+m.listHeight(), len(m.rows))
	for r := m.offset; r < end; r++ {
		e := m.elements[m.rows[r]]
		marker := "  "
		if m.hasChildren(e.ExpressID) {
			marker = "▸ "
			if m.expanded[e.ExpressID] {
				marker = "▾ "
			}
		}
		line := strings.Repeat("  ", e.Depth) + marker + e.TypeName
		if r == m.cursor {
			line = browseSelectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString(browseDimStyle.Render(fmt.Sprintf(" #%d", e.ExpressID)))
		b.WriteString("\n")
	}

	if e, ok := m.selected(); ok {
		b.WriteString(browseBoxStyle.Render(m.detail(e)))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m browseModel) detail(e scene.Element) string {
	lines := []string{
		fmt.Sprintf("#%d %s", e.ExpressID, e.TypeName),
		fmt.Sprintf("leaves %d, points %d, faces %d", e.Leaves, e.Points, e.Faces),
	}
	if !e.Bounds.IsEmpty() {
		lines = append(lines,
			"bounds min ("+scene.FormatVec3(e.Bounds.Min)+")",
			"bounds max ("+scene.FormatVec3(e.Bounds.Max)+")")
	}
	if e.HasColor {
		lines = append(lines, fmt.Sprintf("colour %.3g %.3g %.3g %.3g", e.Color[0], e.Color[1], e.Color[2], e.Color[3]))
	}
	lines = append(lines, browseDimStyle.Render("scene bbox ("+scene.FormatVec3(m.bbox.Min)+") ("+scene.FormatVec3(m.bbox.Max)+")"))
	return strings.Join(lines, "\n")
}
