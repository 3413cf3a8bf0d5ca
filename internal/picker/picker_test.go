// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package picker

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gogpu/cornermask"
)

var _ tea.Model = Model{}

func press(m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNewHighlightsActive(t *testing.T) {
	m := New(cornermask.StyleTitlebar, nil)
	p, ok := m.Highlighted()
	if !ok || p.Style != cornermask.StyleTitlebar {
		t.Errorf("Highlighted() = %v, %v", p.Style, ok)
	}
	if got := len(m.Visible()); got != len(cornermask.Presets()) {
		t.Errorf("Visible() has %d rows", got)
	}
}

func TestNavigationClamps(t *testing.T) {
	m := New(cornermask.StyleOff, nil)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	if p, _ := m.Highlighted(); p.Style != cornermask.StyleOff {
		t.Errorf("up at top moved to %v", p.Style)
	}

	for range 10 {
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if p, _ := m.Highlighted(); p.Style != cornermask.StyleToolbar {
		t.Errorf("down past end = %v", p.Style)
	}
}

func TestEnterSavesAndQuits(t *testing.T) {
	var saved []cornermask.Style
	save := func(s cornermask.Style) error {
		saved = append(saved, s)
		return nil
	}

	m := New(cornermask.StyleToolbar, save)
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyEnter})

	if len(saved) != 1 || saved[0] != cornermask.StyleCompactToolbar {
		t.Errorf("saved = %v", saved)
	}
	if style, ok := m.Chosen(); !ok || style != cornermask.StyleCompactToolbar {
		t.Errorf("Chosen() = %v, %v", style, ok)
	}
	if !isQuit(cmd) {
		t.Error("Enter should quit")
	}
}

func TestSaveFailureKeepsPickerOpen(t *testing.T) {
	boom := errors.New("disk full")
	m := New(cornermask.StyleToolbar, func(cornermask.Style) error { return boom })
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if isQuit(cmd) {
		t.Error("picker quit after a failed save")
	}
	if !errors.Is(m.Err(), boom) {
		t.Errorf("Err() = %v", m.Err())
	}
	if _, ok := m.Chosen(); ok {
		t.Error("failed save reported as chosen")
	}
	if !strings.Contains(m.View(), "disk full") {
		t.Error("View does not show the failure")
	}
}

func TestEscQuitsWithoutSaving(t *testing.T) {
	m := New(cornermask.StyleToolbar, func(cornermask.Style) error {
		t.Error("save called")
		return nil
	})
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !isQuit(cmd) {
		t.Error("Esc should quit")
	}
	if _, ok := m.Chosen(); ok {
		t.Error("Esc reported a choice")
	}
}

func TestFilter(t *testing.T) {
	m := New(cornermask.StyleToolbar, nil)
	m, _ = press(m, runes("comp"))

	vis := m.Visible()
	if len(vis) != 1 || vis[0].Style != cornermask.StyleCompactToolbar {
		t.Fatalf("filter comp = %v", vis)
	}
	if p, _ := m.Highlighted(); p.Style != cornermask.StyleCompactToolbar {
		t.Errorf("cursor not clamped into filtered rows: %v", p.Style)
	}

	m, _ = press(m, runes("zzz"))
	if len(m.Visible()) != 0 {
		t.Errorf("expected no match, got %v", m.Visible())
	}
	if _, ok := m.Highlighted(); ok {
		t.Error("Highlighted() with no rows")
	}
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("Enter with no rows should do nothing")
	}

	for range 7 {
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	if len(m.Visible()) != len(cornermask.Presets()) {
		t.Errorf("clearing the filter left %d rows", len(m.Visible()))
	}
}

func TestViewMarksActiveAndDetails(t *testing.T) {
	m := New(cornermask.StyleTitlebar, nil)
	v := m.View()

	for _, p := range cornermask.Presets() {
		if !strings.Contains(v, p.DisplayName) {
			t.Errorf("View missing %q", p.DisplayName)
		}
		if p.Detail != "" && !strings.Contains(v, p.Detail) {
			t.Errorf("View missing detail %q", p.Detail)
		}
	}
	if strings.Count(v, "✓") != 1 {
		t.Errorf("expected exactly one checkmark:\n%s", v)
	}
	for _, line := range strings.Split(v, "\n") {
		if strings.Contains(line, "✓") && !strings.Contains(line, "Titlebar") {
			t.Errorf("checkmark on the wrong row: %q", line)
		}
	}
}
