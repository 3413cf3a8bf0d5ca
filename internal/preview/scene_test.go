// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package preview

import (
	"image"
	"math"
	"testing"

	"github.com/gogpu/cornermask"
	"github.com/gogpu/cornermask/backend/virtual"
	"github.com/gogpu/cornermask/overlay"
	"github.com/gogpu/cornermask/prefs"
)

func newScene(t *testing.T) *scene {
	t.Helper()
	host := virtual.New()
	store := prefs.NewMemoryStore(prefs.DefaultConfig())
	ctrl := overlay.NewController(host, store)
	if err := ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(ctrl.Stop)
	return &scene{host: host, ctrl: ctrl, store: store}
}

func TestSceneSelectPreset(t *testing.T) {
	s := newScene(t)

	if err := s.apply(actionPreset, 0); err != nil {
		t.Fatal(err)
	}
	if s.store.ActivePreset().Style != cornermask.StyleOff {
		t.Errorf("preset 0 selected %v", s.store.ActivePreset().Style)
	}
	if n := len(s.host.Windows()); n != 0 {
		t.Errorf("disabled preset left %d windows", n)
	}

	if err := s.apply(actionPreset, 2); err != nil {
		t.Fatal(err)
	}
	ws := s.host.Windows()
	if len(ws) != 1 {
		t.Fatalf("%d windows after enabling", len(ws))
	}
	if got := s.ctrl.Overlays()[0].Radius(); got != 16 {
		t.Errorf("radius = %v, want 16", got)
	}

	if err := s.apply(actionPreset, 99); err != nil {
		t.Errorf("out of range preset = %v", err)
	}
}

func TestSceneTopology(t *testing.T) {
	s := newScene(t)

	for range 2 {
		if err := s.apply(actionAddDisplay, 0); err != nil {
			t.Fatal(err)
		}
	}
	if n := len(s.host.Windows()); n != 3 {
		t.Fatalf("%d windows after adding two displays", n)
	}
	ds, _ := s.host.Displays()
	if ds[1].Frame.Min.X != ds[0].Frame.Max.X || ds[2].Frame.Min.X != ds[1].Frame.Max.X {
		t.Errorf("displays not placed side by side: %v %v %v", ds[0].Frame, ds[1].Frame, ds[2].Frame)
	}
	if ds[1].ID == ds[2].ID {
		t.Error("added displays share an ID")
	}

	for range 5 {
		if err := s.apply(actionRemoveDisplay, 0); err != nil {
			t.Fatal(err)
		}
	}
	if n := len(s.host.Windows()); n != 1 {
		t.Errorf("the last display must stay, got %d windows", n)
	}

	before := s.host.Windows()[0]
	if err := s.apply(actionWorkspace, 0); err != nil {
		t.Fatal(err)
	}
	if s.host.Workspace() != 1 {
		t.Errorf("workspace = %d", s.host.Workspace())
	}
	if after := s.host.Windows()[0]; after == before {
		t.Error("workspace switch did not rebuild the overlay")
	}
}

func TestNextDisplay(t *testing.T) {
	ds := []overlay.Display{
		{Frame: image.Rect(0, 100, 1920, 1180)},
		{Frame: image.Rect(-1280, 0, 0, 800)},
	}
	d := nextDisplay(ds, 3)
	if d.Frame != image.Rect(1920, 100, 3360, 1000) {
		t.Errorf("Frame = %v", d.Frame)
	}
	if got := overlay.MenuBarHeight(d); got != cornermask.DefaultMenuBarHeight {
		t.Errorf("menu bar = %d", got)
	}
	if d.ID != "preview-3" {
		t.Errorf("ID = %q", d.ID)
	}
}

func TestFit(t *testing.T) {
	desktop := image.Rect(-1920, 0, 1920, 1080)
	vp := fit(desktop, 1280, 720)

	r := vp.rect(desktop)
	if r.Min.X < margin-1 || r.Max.X > 1280-margin+1 {
		t.Errorf("desktop %v does not fit horizontally", r)
	}
	if r.Min.Y < 0 || r.Max.Y > 720 {
		t.Errorf("desktop %v does not fit vertically", r)
	}
	// Centred vertically.
	if top, bottom := r.Min.Y, 720-r.Max.Y; abs(top-bottom) > 1 {
		t.Errorf("not centred: top %d bottom %d", top, bottom)
	}
	// Aspect ratio kept.
	want := float64(desktop.Dx()) / float64(desktop.Dy())
	if got := float64(r.Dx()) / float64(r.Dy()); math.Abs(got-want) > 0.02 {
		t.Errorf("aspect %v, want %v", got, want)
	}

	if got := fit(image.Rectangle{}, 100, 100); got.scale != 1 {
		t.Errorf("empty desktop scale = %v", got.scale)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
