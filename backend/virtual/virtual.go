// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package virtual provides an in-memory overlay host with simulated
// displays. It backs the preview window and headless dry runs.
//
// Like real hosts, Host is single-threaded: every method except Post must
// be called from the goroutine running Run (or from the caller's own loop
// when Run is not used, as the preview does).
package virtual

import (
	"context"
	"fmt"
	"image"
	"slices"

	"github.com/gogpu/cornermask"
	"github.com/gogpu/cornermask/overlay"
)

func init() {
	overlay.Register("virtual", 10, func(opts overlay.HostOptions) (overlay.Backend, error) {
		return New(opts.Displays...), nil
	}, nil)
}

// DefaultDisplay is used when a Host is created without displays.
var DefaultDisplay = overlay.Display{
	ID:           "virtual-0",
	Frame:        image.Rect(0, 0, 1920, 1080),
	VisibleFrame: image.Rect(0, 25, 1920, 1080),
}

// Host is a simulated windowing system.
type Host struct {
	displays  []overlay.Display
	windows   []*Window
	subs      map[overlay.Notification]map[int]func()
	nextSub   int
	workspace int
	posted    chan func()
	closed    bool
}

// New creates a host with the given displays, or DefaultDisplay if none.
func New(displays ...overlay.Display) *Host {
	if len(displays) == 0 {
		displays = []overlay.Display{DefaultDisplay}
	}
	return &Host{
		displays: slices.Clone(displays),
		subs:     make(map[overlay.Notification]map[int]func()),
		posted:   make(chan func(), 64),
	}
}

// Displays implements overlay.Host.
func (h *Host) Displays() ([]overlay.Display, error) {
	if h.closed {
		return nil, overlay.ErrClosed
	}
	return slices.Clone(h.displays), nil
}

// NewWindow implements overlay.Host.
func (h *Host) NewWindow(cfg overlay.WindowConfig) (overlay.Window, error) {
	if h.closed {
		return nil, overlay.ErrClosed
	}
	if cfg.Frame.Empty() {
		return nil, fmt.Errorf("virtual: empty window frame %v", cfg.Frame)
	}
	w := &Window{host: h, cfg: cfg}
	h.windows = append(h.windows, w)
	return w, nil
}

// Subscribe implements overlay.Host.
func (h *Host) Subscribe(n overlay.Notification, fn func()) (func(), error) {
	if h.closed {
		return nil, overlay.ErrClosed
	}
	if h.subs[n] == nil {
		h.subs[n] = make(map[int]func())
	}
	id := h.nextSub
	h.nextSub++
	h.subs[n][id] = fn
	return func() { delete(h.subs[n], id) }, nil
}

func (h *Host) notify(n overlay.Notification) {
	cornermask.Logger().Debug("virtual: notify", "notification", n)
	ids := make([]int, 0, len(h.subs[n]))
	for id := range h.subs[n] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := h.subs[n][id]; ok {
			fn()
		}
	}
}

// SetDisplays replaces the simulated displays and fires DisplaysChanged.
func (h *Host) SetDisplays(displays ...overlay.Display) {
	h.displays = slices.Clone(displays)
	h.notify(overlay.DisplaysChanged)
}

// AddDisplay attaches a display and fires DisplaysChanged.
func (h *Host) AddDisplay(d overlay.Display) {
	h.SetDisplays(append(slices.Clone(h.displays), d)...)
}

// RemoveDisplay detaches the display with the given ID and fires
// DisplaysChanged. It reports whether a display was removed.
func (h *Host) RemoveDisplay(id string) bool {
	i := slices.IndexFunc(h.displays, func(d overlay.Display) bool { return d.ID == id })
	if i < 0 {
		return false
	}
	h.SetDisplays(slices.Delete(slices.Clone(h.displays), i, i+1)...)
	return true
}

// SwitchWorkspace changes the active workspace and fires WorkspaceChanged.
func (h *Host) SwitchWorkspace(n int) {
	if n == h.workspace {
		return
	}
	h.workspace = n
	h.notify(overlay.WorkspaceChanged)
}

// Workspace returns the active workspace index.
func (h *Host) Workspace() int { return h.workspace }

// Windows returns the windows that are currently open, in creation order.
func (h *Host) Windows() []*Window {
	var out []*Window
	for _, w := range h.windows {
		if !w.closed {
			out = append(out, w)
		}
	}
	return out
}

// Run implements overlay.Backend by executing posted functions until ctx
// is done.
func (h *Host) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-h.posted:
			fn()
		}
	}
}

// Post implements overlay.Backend.
func (h *Host) Post(fn func()) {
	h.posted <- fn
}

// Drain runs every posted function without blocking. Loops that do not
// use Run (the preview) call it once per frame.
func (h *Host) Drain() {
	for {
		select {
		case fn := <-h.posted:
			fn()
		default:
			return
		}
	}
}

// Close implements overlay.Backend. Open windows are closed.
func (h *Host) Close() error {
	if h.closed {
		return nil
	}
	for _, w := range h.Windows() {
		_ = w.Close()
	}
	h.closed = true
	clear(h.subs)
	return nil
}

// Window is a simulated overlay window.
type Window struct {
	host     *Host
	cfg      overlay.WindowConfig
	img      *image.RGBA
	presents int
	closed   bool
}

// Config returns the configuration the window was created with.
func (w *Window) Config() overlay.WindowConfig { return w.cfg }

// Image returns the last presented image, or nil.
func (w *Window) Image() *image.RGBA { return w.img }

// Presents returns how many times the window was presented.
func (w *Window) Presents() int { return w.presents }

// Present implements overlay.Window.
func (w *Window) Present(img *image.RGBA) error {
	if w.closed {
		return overlay.ErrClosed
	}
	if img.Bounds().Size() != w.cfg.Frame.Size() {
		return fmt.Errorf("virtual: image size %v does not match frame %v", img.Bounds().Size(), w.cfg.Frame.Size())
	}
	w.img = img
	w.presents++
	return nil
}

// Close implements overlay.Window.
func (w *Window) Close() error {
	w.closed = true
	w.img = nil
	return nil
}
