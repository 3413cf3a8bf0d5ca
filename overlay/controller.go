// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package overlay

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/gogpu/cornermask"
)

// FillSource is optionally implemented by a PresetSource that also
// chooses the mask colour.
type FillSource interface {
	FillColor() color.Color
}

// Controller owns one DisplayOverlay per attached display.
//
// Every change (display topology, workspace switch, preset selection) is
// handled the same way: tear everything down and rebuild from the host's
// current state. Changes are rare, so a full rebuild keeps the set
// trivially consistent with the hardware.
//
// Controller is NOT thread-safe; call it only from the host's event
// goroutine.
type Controller struct {
	host     Host
	presets  PresetSource
	overlays []*DisplayOverlay
	cancels  []func()
	started  bool
}

// NewController creates a controller. Nothing is drawn until Start or
// Refresh is called.
func NewController(host Host, presets PresetSource) *Controller {
	return &Controller{
		host:    host,
		presets: presets,
	}
}

// Start subscribes to display and workspace notifications and performs
// the initial refresh. Overlays are drawn even if subscribing fails; the
// returned error reports the subscriptions that could not be made.
// Calling Start on a started controller only refreshes.
func (c *Controller) Start() error {
	if c.started {
		c.Refresh()
		return nil
	}
	c.started = true

	var errs []error
	for _, n := range []Notification{DisplaysChanged, WorkspaceChanged} {
		cancel, err := c.host.Subscribe(n, c.OnTopologyOrPresetChanged)
		if err != nil {
			cornermask.Logger().Warn("overlay: subscribe failed", "notification", n, "err", err)
			errs = append(errs, fmt.Errorf("overlay: subscribe %s: %w", n, err))
			continue
		}
		c.cancels = append(c.cancels, cancel)
	}

	c.Refresh()
	return errors.Join(errs...)
}

// OnTopologyOrPresetChanged is the single entry point for every change
// that may invalidate the overlays. It performs a full Refresh.
func (c *Controller) OnTopologyOrPresetChanged() {
	c.Refresh()
}

// Refresh closes every overlay and builds a new one per attached display
// with the active preset's radius. A disabled preset leaves no overlays.
// A failure on one display is logged and does not affect the others.
func (c *Controller) Refresh() {
	c.teardown()

	preset := c.presets.ActivePreset()
	log := cornermask.Logger()
	if !preset.Enabled {
		log.Info("overlay: disabled", "preset", preset.ID)
		return
	}

	displays, err := c.host.Displays()
	if err != nil {
		log.Warn("overlay: enumerate displays", "err", err)
		return
	}

	var opts []cornermask.MaskOption
	if fs, ok := c.presets.(FillSource); ok {
		opts = append(opts, cornermask.WithFillColor(fs.FillColor()))
	}

	for _, d := range displays {
		o, err := NewDisplayOverlay(c.host, d, preset.Radius, opts...)
		if err != nil {
			log.Warn("overlay: display skipped", "display", d.ID, "err", err)
			continue
		}
		c.overlays = append(c.overlays, o)
	}

	log.Info("overlay: rebuilt",
		"preset", preset.ID,
		"displays", len(displays),
		"overlays", len(c.overlays),
	)
}

// teardown closes and forgets every owned overlay.
func (c *Controller) teardown() {
	for _, o := range c.overlays {
		if err := o.Close(); err != nil {
			cornermask.Logger().Warn("overlay: teardown", "display", o.Display().ID, "err", err)
		}
	}
	clear(c.overlays)
	c.overlays = c.overlays[:0]
}

// Overlays returns a snapshot of the currently presented overlays.
func (c *Controller) Overlays() []*DisplayOverlay {
	out := make([]*DisplayOverlay, len(c.overlays))
	copy(out, c.overlays)
	return out
}

// Stop unsubscribes from all notifications and closes every overlay.
func (c *Controller) Stop() {
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil
	c.started = false
	c.teardown()
}
