// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package preview

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/cornermask"
	"github.com/gogpu/cornermask/backend/virtual"
	"github.com/gogpu/cornermask/overlay"
)

// StyleStore is the preference store the preview edits.
type StyleStore interface {
	overlay.PresetSource
	SetStyle(cornermask.Style) error
}

type action int

const (
	actionNone action = iota
	actionPreset
	actionAddDisplay
	actionRemoveDisplay
	actionWorkspace
	actionQuit
)

// scene is the preview state that does not depend on the window system.
type scene struct {
	host  *virtual.Host
	ctrl  *overlay.Controller
	store StyleStore
	added int
}

// apply performs one user action. Preset actions take the preset's index
// in menu order.
func (s *scene) apply(a action, preset int) error {
	switch a {
	case actionPreset:
		ps := cornermask.Presets()
		if preset < 0 || preset >= len(ps) {
			return nil
		}
		if err := s.store.SetStyle(ps[preset].Style); err != nil {
			return fmt.Errorf("preview: select preset: %w", err)
		}
		s.ctrl.OnTopologyOrPresetChanged()
	case actionAddDisplay:
		ds, err := s.host.Displays()
		if err != nil {
			return err
		}
		s.added++
		s.host.AddDisplay(nextDisplay(ds, s.added))
	case actionRemoveDisplay:
		ds, err := s.host.Displays()
		if err != nil {
			return err
		}
		if len(ds) > 1 {
			s.host.RemoveDisplay(ds[len(ds)-1].ID)
		}
	case actionWorkspace:
		s.host.SwitchWorkspace(s.host.Workspace() + 1)
	}
	return nil
}

// nextDisplay returns a 1440x900 display placed to the right of ds, top
// aligned with the first display.
func nextDisplay(ds []overlay.Display, n int) overlay.Display {
	right, top := 0, 0
	for i, d := range ds {
		if i == 0 {
			top = d.Frame.Min.Y
		}
		right = max(right, d.Frame.Max.X)
	}
	frame := image.Rect(right, top, right+1440, top+900)
	visible := frame
	visible.Min.Y += cornermask.DefaultMenuBarHeight
	return overlay.Display{
		ID:           fmt.Sprintf("preview-%d", n),
		Frame:        frame,
		VisibleFrame: visible,
	}
}

// union returns the bounding box of every display frame.
func union(ds []overlay.Display) image.Rectangle {
	var r image.Rectangle
	for _, d := range ds {
		r = r.Union(d.Frame)
	}
	return r
}

// viewport maps desktop coordinates into a w x h window with a margin,
// preserving the aspect ratio.
type viewport struct {
	scale  float64
	offset cornermask.Point
	origin image.Point
}

const margin = 24

func fit(desktop image.Rectangle, w, h int) viewport {
	if desktop.Empty() {
		return viewport{scale: 1}
	}
	aw, ah := float64(w-2*margin), float64(h-2*margin)
	s := math.Min(aw/float64(desktop.Dx()), ah/float64(desktop.Dy()))
	s = math.Max(s, 0.01)
	return viewport{
		scale: s,
		offset: cornermask.Pt(
			(float64(w)-s*float64(desktop.Dx()))/2,
			(float64(h)-s*float64(desktop.Dy()))/2,
		),
		origin: desktop.Min,
	}
}

// apply maps a desktop point into window coordinates.
func (v viewport) apply(p image.Point) cornermask.Point {
	return cornermask.Pt(
		v.offset.X+v.scale*float64(p.X-v.origin.X),
		v.offset.Y+v.scale*float64(p.Y-v.origin.Y),
	)
}

// rect maps a desktop rectangle into window pixels.
func (v viewport) rect(r image.Rectangle) image.Rectangle {
	a, b := v.apply(r.Min), v.apply(r.Max)
	return image.Rect(int(math.Round(a.X)), int(math.Round(a.Y)), int(math.Round(b.X)), int(math.Round(b.Y)))
}
