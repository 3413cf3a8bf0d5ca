// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package picker is the terminal menu for choosing a corner preset.
//
// It lists the preset table in order with the active preset checked and
// each preset's detail label beside its name. Typing filters the list
// fuzzily; Enter saves the highlighted preset and Esc leaves without
// changes.
package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/gogpu/cornermask"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	checkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	filterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	separatorLine = strings.Repeat("─", 28)
)

// SaveFunc persists a selection.
type SaveFunc func(cornermask.Style) error

// Model is the picker's Bubble Tea model. It has value semantics.
type Model struct {
	presets []cornermask.Preset
	visible []int // indexes into presets
	cursor  int
	filter  string
	active  cornermask.Style
	save    SaveFunc

	chosen bool
	err    error
}

// New creates a picker with the cursor on the active preset.
func New(active cornermask.Style, save SaveFunc) Model {
	m := Model{
		presets: cornermask.Presets(),
		active:  active,
		save:    save,
	}
	m.applyFilter()
	for i, idx := range m.visible {
		if m.presets[idx].Style == active {
			m.cursor = i
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyUp, tea.KeyShiftTab:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown, tea.KeyTab:
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case tea.KeyBackspace:
		if m.filter != "" {
			r := []rune(m.filter)
			m.filter = string(r[:len(r)-1])
			m.applyFilter()
		}
	case tea.KeyRunes, tea.KeySpace:
		m.filter += string(key.Runes)
		m.applyFilter()
	case tea.KeyEnter:
		return m.choose()
	}
	return m, nil
}

func (m Model) choose() (tea.Model, tea.Cmd) {
	p, ok := m.Highlighted()
	if !ok {
		return m, nil
	}
	if m.save != nil {
		if err := m.save(p.Style); err != nil {
			m.err = err
			return m, nil
		}
	}
	m.active = p.Style
	m.chosen = true
	cornermask.Logger().Info("picker: preset selected", "style", p.Style)
	return m, tea.Quit
}

// applyFilter recomputes the visible rows. Without a filter the table
// order is kept; otherwise rows are ranked by match quality.
func (m *Model) applyFilter() {
	m.visible = make([]int, 0, len(m.presets))
	if m.filter == "" {
		for i := range m.presets {
			m.visible = append(m.visible, i)
		}
	} else {
		labels := make([]string, len(m.presets))
		for i, p := range m.presets {
			labels[i] = p.DisplayName
		}
		for _, match := range fuzzy.Find(m.filter, labels) {
			m.visible = append(m.visible, match.Index)
		}
	}
	m.cursor = min(m.cursor, max(len(m.visible)-1, 0))
}

// Highlighted returns the preset under the cursor.
func (m Model) Highlighted() (cornermask.Preset, bool) {
	if len(m.visible) == 0 {
		return cornermask.Preset{}, false
	}
	return m.presets[m.visible[m.cursor]], true
}

// Visible returns the presets shown after filtering.
func (m Model) Visible() []cornermask.Preset {
	out := make([]cornermask.Preset, len(m.visible))
	for i, idx := range m.visible {
		out[i] = m.presets[idx]
	}
	return out
}

// Chosen reports the saved selection once the user confirmed one.
func (m Model) Chosen() (cornermask.Style, bool) { return m.active, m.chosen }

// Err returns the last save failure.
func (m Model) Err() error { return m.err }

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Corner style"))
	b.WriteByte('\n')
	if m.filter != "" {
		b.WriteString(filterStyle.Render("filter: " + m.filter))
		b.WriteByte('\n')
	}

	if len(m.visible) == 0 {
		b.WriteString(detailStyle.Render("  no matching preset"))
		b.WriteByte('\n')
	}
	for i, idx := range m.visible {
		p := m.presets[idx]
		b.WriteString(m.row(p, i == m.cursor))
		b.WriteByte('\n')
		// The disabled sentinel is set apart from the real presets.
		if p.Style == cornermask.StyleOff && m.filter == "" {
			b.WriteString(detailStyle.Render(separatorLine))
			b.WriteByte('\n')
		}
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("save failed: %v", m.err)))
		b.WriteByte('\n')
	}
	b.WriteString(detailStyle.Render("↑/↓ move · type to filter · enter select · esc quit"))
	b.WriteByte('\n')
	return b.String()
}

func (m Model) row(p cornermask.Preset, highlighted bool) string {
	cursor, check := "  ", "  "
	if highlighted {
		cursor = cursorStyle.Render("> ")
	}
	if p.Style == m.active {
		check = checkStyle.Render("✓ ")
	}
	name := p.DisplayName
	if highlighted {
		name = cursorStyle.Render(name)
	}
	line := cursor + check + name
	if p.Detail != "" {
		line += "  " + detailStyle.Render(p.Detail)
	}
	return line
}

// Run shows the picker on the terminal and blocks until the user selects a
// preset or quits. ok is false when the user left without choosing.
func Run(active cornermask.Style, save SaveFunc, opts ...tea.ProgramOption) (style cornermask.Style, ok bool, err error) {
	final, err := tea.NewProgram(New(active, save), opts...).Run()
	if err != nil {
		return active, false, fmt.Errorf("picker: %w", err)
	}
	m := final.(Model)
	style, ok = m.Chosen()
	return style, ok, m.Err()
}
