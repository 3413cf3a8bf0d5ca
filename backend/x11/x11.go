// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package x11 implements overlay.Host on the X Window System using
// github.com/jezek/xgb.
//
// Displays are enumerated through RandR CRTCs. Overlay windows are managed
// windows hinted with EWMH so the window manager keeps them below ordinary
// windows, on every desktop, out of task bars and pagers, and never
// focused. Input pass-through uses an empty SHAPE input region.
//
// When a compositing manager owns _NET_WM_CM_Sn, windows use a 32-bit ARGB
// visual and receive the anti-aliased mask image. Without one, windows use
// the root visual, are painted with the fill colour and clipped to the mask
// through a SHAPE bounding region.
package x11

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xproto"

	"github.com/gogpu/cornermask"
	"github.com/gogpu/cornermask/overlay"
)

func init() {
	overlay.Register("x11", 100, func(opts overlay.HostOptions) (overlay.Backend, error) {
		return Open(opts.Display)
	}, func() bool {
		return os.Getenv("DISPLAY") != ""
	})
}

// Errors.
var (
	// ErrNoShape is returned when the server lacks the SHAPE extension,
	// which is required for input pass-through.
	ErrNoShape = errors.New("x11: SHAPE extension not available")

	// ErrNoVisual is returned when no usable TrueColor visual exists.
	ErrNoVisual = errors.New("x11: no TrueColor visual")
)

// Host is an X11 connection serving overlay windows.
type Host struct {
	conn   *xgb.Conn
	setup  *xproto.SetupInfo
	screen *xproto.ScreenInfo
	root   xproto.Window
	atoms  atoms

	hasRandR   bool
	composited bool
	argb       *argbVisual

	windows map[xproto.Window]*Window
	subs    map[overlay.Notification]map[int]func()
	nextSub int

	posted chan func()
	done   chan struct{}
	closed bool
}

// Open connects to the X server named by display ("" uses $DISPLAY).
func Open(display string) (*Host, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("x11: connect %q: %w", display, err)
	}

	h := &Host{
		conn:    conn,
		setup:   xproto.Setup(conn),
		windows: make(map[xproto.Window]*Window),
		subs:    make(map[overlay.Notification]map[int]func()),
		posted:  make(chan func(), 64),
		done:    make(chan struct{}),
	}
	h.screen = h.setup.DefaultScreen(conn)
	h.root = h.screen.Root

	if err := h.init(); err != nil {
		conn.Close()
		return nil, err
	}
	return h, nil
}

func (h *Host) init() error {
	log := cornermask.Logger()

	if err := shape.Init(h.conn); err != nil {
		return fmt.Errorf("%w: %w", ErrNoShape, err)
	}

	if err := randr.Init(h.conn); err != nil {
		log.Warn("x11: RandR unavailable, using the root window as the only display", "err", err)
	} else {
		h.hasRandR = true
	}

	a, err := internAtoms(h.conn)
	if err != nil {
		return err
	}
	h.atoms = a

	h.composited = h.compositorRunning()
	if h.composited {
		h.argb, err = newARGBVisual(h.conn, h.screen)
		if err != nil {
			log.Warn("x11: compositor running but no ARGB visual, using shaped windows", "err", err)
			h.composited = false
		}
	}

	mask := uint32(xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify)
	if err := xproto.ChangeWindowAttributesChecked(h.conn, h.root, xproto.CwEventMask, []uint32{mask}).Check(); err != nil {
		return fmt.Errorf("x11: select root events: %w", err)
	}
	if h.hasRandR {
		enable := uint16(randr.NotifyMaskScreenChange | randr.NotifyMaskCrtcChange | randr.NotifyMaskOutputChange)
		if err := randr.SelectInputChecked(h.conn, h.root, enable).Check(); err != nil {
			log.Warn("x11: select RandR events", "err", err)
		}
	}

	log.Info("x11: connected",
		"screen", fmt.Sprintf("%dx%d", h.screen.WidthInPixels, h.screen.HeightInPixels),
		"randr", h.hasRandR,
		"composited", h.composited,
	)
	return nil
}

// compositorRunning reports whether a compositing manager owns the
// _NET_WM_CM_S<screen> selection.
func (h *Host) compositorRunning() bool {
	reply, err := xproto.GetSelectionOwner(h.conn, h.atoms.cmSelection).Reply()
	if err != nil {
		return false
	}
	return reply.Owner != xproto.WindowNone
}

// Composited reports whether windows are drawn with per-pixel alpha.
func (h *Host) Composited() bool { return h.composited }

// Subscribe implements overlay.Host.
func (h *Host) Subscribe(n overlay.Notification, fn func()) (func(), error) {
	if h.closed {
		return nil, overlay.ErrClosed
	}
	if n == overlay.DisplaysChanged && !h.hasRandR {
		cornermask.Logger().Warn("x11: display changes are only reported for work-area updates without RandR")
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

// Post implements overlay.Backend.
func (h *Host) Post(fn func()) {
	select {
	case h.posted <- fn:
	case <-h.done:
	}
}

// Run implements overlay.Backend. Bursts of events are coalesced so a
// single RandR reconfiguration triggers one notification per stream.
func (h *Host) Run(ctx context.Context) error {
	type result struct {
		ev  xgb.Event
		err xgb.Error
	}
	events := make(chan result, 64)
	go func() {
		defer close(events)
		for {
			ev, err := h.conn.WaitForEvent()
			if ev == nil && err == nil {
				return
			}
			select {
			case events <- result{ev, err}:
			case <-h.done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-h.posted:
			fn()
		case r, ok := <-events:
			if !ok {
				if h.closed {
					return nil
				}
				return errors.New("x11: connection closed")
			}
			pending := make(map[overlay.Notification]bool)
			h.handle(r.ev, r.err, pending)
		drain:
			for {
				select {
				case r, ok := <-events:
					if !ok {
						break drain
					}
					h.handle(r.ev, r.err, pending)
				default:
					break drain
				}
			}
			for _, n := range []overlay.Notification{overlay.DisplaysChanged, overlay.WorkspaceChanged} {
				if pending[n] {
					cornermask.Logger().Debug("x11: notify", "notification", n)
					h.notify(n)
				}
			}
		}
	}
}

// handle classifies one event, repainting exposed windows directly and
// recording notifications in pending.
func (h *Host) handle(ev xgb.Event, xerr xgb.Error, pending map[overlay.Notification]bool) {
	if xerr != nil {
		cornermask.Logger().Warn("x11: protocol error", "err", xerr)
		return
	}
	switch e := ev.(type) {
	case randr.ScreenChangeNotifyEvent, randr.NotifyEvent:
		pending[overlay.DisplaysChanged] = true
	case xproto.ConfigureNotifyEvent:
		if e.Window == h.root {
			pending[overlay.DisplaysChanged] = true
		}
	case xproto.PropertyNotifyEvent:
		if e.Window != h.root {
			return
		}
		switch e.Atom {
		case h.atoms.currentDesktop:
			pending[overlay.WorkspaceChanged] = true
		case h.atoms.workarea:
			pending[overlay.DisplaysChanged] = true
		}
	case xproto.ExposeEvent:
		if e.Count != 0 {
			return
		}
		if w, ok := h.windows[e.Window]; ok {
			if err := w.repaint(); err != nil {
				cornermask.Logger().Warn("x11: repaint", "window", e.Window, "err", err)
			}
		}
	}
}

// Close implements overlay.Backend. Open windows are destroyed.
func (h *Host) Close() error {
	if h.closed {
		return nil
	}
	var errs []error
	for _, w := range h.windows {
		errs = append(errs, w.Close())
	}
	if h.argb != nil {
		xproto.FreeColormap(h.conn, h.argb.colormap)
	}
	h.closed = true
	close(h.done)
	h.conn.Close()
	return errors.Join(errs...)
}
