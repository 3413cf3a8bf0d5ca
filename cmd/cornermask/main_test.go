package main

import (
	"testing"

	"github.com/gogpu/cornermask/overlay"
)

func TestSimulatedDisplays(t *testing.T) {
	ds := simulatedDisplays(3)
	if len(ds) != 3 {
		t.Fatalf("got %d displays", len(ds))
	}
	for i := 1; i < len(ds); i++ {
		if ds[i].Frame.Min.X != ds[i-1].Frame.Max.X {
			t.Errorf("display %d at %v does not follow %v", i, ds[i].Frame, ds[i-1].Frame)
		}
	}
	if got := overlay.MenuBarHeight(ds[0]); got != 48 {
		t.Errorf("2x display menu bar = %d, want 48", got)
	}
	if got := overlay.MenuBarHeight(ds[1]); got != 24 {
		t.Errorf("1x display menu bar = %d, want 24", got)
	}
}

func TestCommandsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range commands {
		if seen[c.name] {
			t.Errorf("duplicate command %q", c.name)
		}
		seen[c.name] = true
	}
	for _, name := range []string{"run", "select", "preview", "render", "presets", "autostart"} {
		if !seen[name] {
			t.Errorf("missing command %q", name)
		}
	}
}
