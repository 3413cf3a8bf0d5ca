// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package overlay

import (
	"fmt"

	"github.com/gogpu/cornermask"
)

// DisplayOverlay is the corner-mask window of one display. It is bound to
// that display for its whole lifetime; a changed display gets a new
// overlay rather than an updated one.
type DisplayOverlay struct {
	display Display
	menuBar int
	radius  float64
	surface *cornermask.MaskSurface
	window  Window
	closed  bool
}

// NewDisplayOverlay creates a window covering d's full frame, paints the
// menu-bar strip and the corners of the given radius, and presents it.
//
// The radius is in logical units and is multiplied by the display scale.
func NewDisplayOverlay(host Host, d Display, radius float64, opts ...cornermask.MaskOption) (*DisplayOverlay, error) {
	if d.Frame.Empty() {
		return nil, fmt.Errorf("overlay: display %q has an empty frame", d.ID)
	}

	radius = cornermask.SanitizeRadius(radius)
	m := MenuBarHeight(d)

	win, err := host.NewWindow(OverlayWindowConfig(d.Frame, "cornermask "+d.ID))
	if err != nil {
		return nil, fmt.Errorf("overlay: create window for display %q: %w", d.ID, err)
	}

	opts = append(opts[:len(opts):len(opts)],
		cornermask.WithMenuBarHeight(m),
		cornermask.WithRadius(radius*d.PixelScale()),
	)
	o := &DisplayOverlay{
		display: d,
		menuBar: m,
		radius:  radius,
		surface: cornermask.NewMaskSurface(d.Frame.Dx(), d.Frame.Dy(), opts...),
		window:  win,
	}

	if err := o.present(); err != nil {
		_ = win.Close()
		return nil, err
	}

	cornermask.Logger().Debug("overlay presented",
		"display", d.ID,
		"frame", d.Frame,
		"menu_bar", m,
		"radius", radius,
	)
	return o, nil
}

// Display returns the descriptor the overlay was built for.
func (o *DisplayOverlay) Display() Display { return o.display }

// MenuBarHeight returns the strip height in pixels.
func (o *DisplayOverlay) MenuBarHeight() int { return o.menuBar }

// Radius returns the corner radius in logical units.
func (o *DisplayOverlay) Radius() float64 { return o.radius }

// Surface returns the mask surface painted into the window.
func (o *DisplayOverlay) Surface() *cornermask.MaskSurface { return o.surface }

// Closed reports whether Close has been called.
func (o *DisplayOverlay) Closed() bool { return o.closed }

// SetRadius changes the corner radius, re-presenting only if the painted
// image changes.
func (o *DisplayOverlay) SetRadius(r float64) error {
	if o.closed {
		return ErrClosed
	}
	o.radius = cornermask.SanitizeRadius(r)
	o.surface.SetRadius(o.radius * o.display.PixelScale())
	if !o.surface.Dirty() {
		return nil
	}
	return o.present()
}

func (o *DisplayOverlay) present() error {
	if err := o.window.Present(o.surface.Image()); err != nil {
		return fmt.Errorf("overlay: present display %q: %w", o.display.ID, err)
	}
	return nil
}

// Close removes the window from the screen and releases it.
// Close is idempotent.
func (o *DisplayOverlay) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	if err := o.window.Close(); err != nil {
		return fmt.Errorf("overlay: close display %q: %w", o.display.ID, err)
	}
	return nil
}
