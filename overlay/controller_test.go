// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package overlay

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/cornermask"
)

func enabled() *stubPresets {
	return &stubPresets{preset: cornermask.PresetFor(cornermask.StyleToolbar)}
}

func frames(c *Controller) []image.Rectangle {
	var out []image.Rectangle
	for _, o := range c.Overlays() {
		out = append(out, o.Display().Frame)
	}
	return out
}

func TestControllerOneOverlayPerDisplay(t *testing.T) {
	left := display("eDP-1", 0, 0, 1920, 1080, 25)
	right := display("HDMI-1", 1920, 0, 2560, 1440, 25)
	h := newFakeHost(left, right)
	c := NewController(h, enabled())

	c.Refresh()

	got := frames(c)
	if len(got) != 2 {
		t.Fatalf("expected 2 overlays, got %d", len(got))
	}
	if got[0] != left.Frame || got[1] != right.Frame {
		t.Errorf("overlay frames %v, want %v and %v", got, left.Frame, right.Frame)
	}
	for _, o := range c.Overlays() {
		if o.Radius() != 26 {
			t.Errorf("overlay radius %v, want 26", o.Radius())
		}
	}
}

func TestControllerDisabledPreset(t *testing.T) {
	h := newFakeHost(display("A", 0, 0, 800, 600, 0), display("B", 800, 0, 800, 600, 0))
	presets := enabled()
	c := NewController(h, presets)
	c.Refresh()
	if len(c.Overlays()) != 2 {
		t.Fatalf("expected 2 overlays before disabling, got %d", len(c.Overlays()))
	}

	presets.preset = cornermask.PresetFor(cornermask.StyleOff)
	c.OnTopologyOrPresetChanged()

	if n := len(c.Overlays()); n != 0 {
		t.Errorf("disabled preset left %d overlays", n)
	}
	if n := len(h.openWindows()); n != 0 {
		t.Errorf("disabled preset left %d windows open", n)
	}
}

func TestControllerSquarePresetStillDrawsStrip(t *testing.T) {
	h := newFakeHost(display("A", 0, 0, 800, 600, 0))
	c := NewController(h, &stubPresets{preset: cornermask.PresetFor(cornermask.StyleSquare)})
	c.Refresh()

	if len(c.Overlays()) != 1 {
		t.Fatalf("expected 1 overlay for the square preset, got %d", len(c.Overlays()))
	}
	img := h.windows[0].last
	if img.RGBAAt(0, 0).A != 0xff {
		t.Error("menu-bar strip should be painted")
	}
	if img.RGBAAt(0, 599).A != 0 {
		t.Error("no corner should be painted with radius 0")
	}
}

func TestControllerRefreshIsIdempotent(t *testing.T) {
	h := newFakeHost(display("A", 0, 0, 800, 600, 0), display("B", 800, 0, 1024, 768, 0))
	c := NewController(h, enabled())

	c.Refresh()
	first := frames(c)
	c.Refresh()
	second := frames(c)

	if len(first) != len(second) {
		t.Fatalf("overlay count changed: %d then %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("overlay %d moved from %v to %v", i, first[i], second[i])
		}
	}
	if n := len(h.openWindows()); n != 2 {
		t.Errorf("%d windows open after two refreshes, want 2", n)
	}
	if len(h.windows) != 4 {
		t.Errorf("expected a full rebuild (4 windows created), got %d", len(h.windows))
	}
}

func TestControllerDisplayDisconnected(t *testing.T) {
	a := display("A", 0, 0, 1920, 1080, 25)
	b := display("B", 1920, 0, 1920, 1080, 25)
	h := newFakeHost(a, b)
	c := NewController(h, enabled())
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	h.displays = []Display{b}
	h.notify(DisplaysChanged)

	got := frames(c)
	if len(got) != 1 || got[0] != b.Frame {
		t.Fatalf("overlays after disconnect = %v, want only %v", got, b.Frame)
	}
	if n := len(h.openWindows()); n != 1 {
		t.Errorf("%d windows open, want 1", n)
	}
}

func TestControllerWorkspaceChangeRebuilds(t *testing.T) {
	h := newFakeHost(display("A", 0, 0, 800, 600, 0))
	c := NewController(h, enabled())
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	before := c.Overlays()[0]

	h.notify(WorkspaceChanged)

	after := c.Overlays()
	if len(after) != 1 || after[0] == before {
		t.Error("workspace change should rebuild the overlay")
	}
	if !before.Closed() {
		t.Error("previous overlay should be closed")
	}
}

func TestControllerPerDisplayFailure(t *testing.T) {
	a := display("A", 0, 0, 800, 600, 0)
	bad := display("BAD", 800, 0, 800, 600, 0)
	c2 := display("C", 1600, 0, 800, 600, 0)
	h := newFakeHost(a, bad, c2)
	h.failFrames[bad.Frame] = errHost

	c := NewController(h, enabled())
	c.Refresh()

	got := frames(c)
	if len(got) != 2 || got[0] != a.Frame || got[1] != c2.Frame {
		t.Errorf("overlays %v, want the two healthy displays", got)
	}
}

func TestControllerEnumerationFailure(t *testing.T) {
	h := newFakeHost(display("A", 0, 0, 800, 600, 0))
	c := NewController(h, enabled())
	c.Refresh()

	h.displaysErr = errHost
	c.Refresh()

	if n := len(c.Overlays()); n != 0 {
		t.Errorf("%d overlays after enumeration failure, want 0", n)
	}
	if n := len(h.openWindows()); n != 0 {
		t.Errorf("%d stale windows open", n)
	}
}

func TestControllerStartSubscriptionFailure(t *testing.T) {
	h := newFakeHost(display("A", 0, 0, 800, 600, 0))
	h.subscribeErr[WorkspaceChanged] = errHost
	c := NewController(h, enabled())

	err := c.Start()
	if !errors.Is(err, errHost) {
		t.Errorf("Start() error = %v, want wrapped host fault", err)
	}
	if len(c.Overlays()) != 1 {
		t.Error("overlays should be drawn even when a subscription fails")
	}

	h.displays = append(h.displays, display("B", 800, 0, 800, 600, 0))
	h.notify(DisplaysChanged)
	if len(c.Overlays()) != 2 {
		t.Error("the surviving subscription should still trigger refreshes")
	}
}

func TestControllerStop(t *testing.T) {
	h := newFakeHost(display("A", 0, 0, 800, 600, 0), display("B", 800, 0, 800, 600, 0))
	c := NewController(h, enabled())
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	c.Stop()

	if len(c.Overlays()) != 0 || len(h.openWindows()) != 0 {
		t.Error("Stop should close every overlay")
	}
	if h.cancelled != 2 {
		t.Errorf("cancelled %d subscriptions, want 2", h.cancelled)
	}

	h.notify(DisplaysChanged)
	if len(c.Overlays()) != 0 {
		t.Error("notifications after Stop must not rebuild overlays")
	}
}

type fillPresets struct {
	stubPresets
	fill color.Color
}

func (f *fillPresets) FillColor() color.Color { return f.fill }

func TestControllerUsesFillSource(t *testing.T) {
	blue := color.RGBA{B: 0xff, A: 0xff}
	h := newFakeHost(display("A", 0, 0, 200, 200, 0))
	c := NewController(h, &fillPresets{stubPresets: *enabled(), fill: blue})
	c.Refresh()

	if got := h.windows[0].last.RGBAAt(10, 1); got != blue {
		t.Errorf("strip pixel %v, want %v", got, blue)
	}
}

func TestPresetFunc(t *testing.T) {
	src := PresetFunc(func() cornermask.Preset { return cornermask.PresetFor(cornermask.StyleTitlebar) })
	if src.ActivePreset().Radius != 16 {
		t.Error("PresetFunc should return the wrapped preset")
	}
}
