// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package x11

import (
	"bufio"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"

	"github.com/gogpu/cornermask"
	"github.com/gogpu/cornermask/overlay"
)

// Displays implements overlay.Host. Each active RandR CRTC is a display;
// mirrored outputs sharing a CRTC count once.
func (h *Host) Displays() ([]overlay.Display, error) {
	if h.closed {
		return nil, overlay.ErrClosed
	}

	frames, err := h.monitorFrames()
	if err != nil {
		return nil, err
	}

	workarea := h.workarea()
	scale := h.scale()

	displays := make([]overlay.Display, 0, len(frames))
	for _, f := range frames {
		d := overlay.Display{
			ID:           f.name,
			Frame:        f.rect,
			VisibleFrame: visibleFrame(f.rect, workarea),
			Scale:        scale,
		}
		cornermask.Logger().Debug("x11: display",
			"id", d.ID, "frame", d.Frame, "visible", d.VisibleFrame, "scale", d.Scale)
		displays = append(displays, d)
	}
	return displays, nil
}

type monitorFrame struct {
	name string
	rect image.Rectangle
}

func (h *Host) monitorFrames() ([]monitorFrame, error) {
	rootFrame := image.Rect(0, 0, int(h.screen.WidthInPixels), int(h.screen.HeightInPixels))
	if !h.hasRandR {
		return []monitorFrame{{name: "screen-0", rect: rootFrame}}, nil
	}

	res, err := randr.GetScreenResourcesCurrent(h.conn, h.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("x11: get screen resources: %w", err)
	}

	var frames []monitorFrame
	for i, crtc := range res.Crtcs {
		info, err := randr.GetCrtcInfo(h.conn, crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			cornermask.Logger().Warn("x11: get crtc info", "crtc", crtc, "err", err)
			continue
		}
		if info.Mode == 0 || info.Width == 0 || info.Height == 0 {
			continue
		}
		frames = append(frames, monitorFrame{
			name: h.outputName(info.Outputs, res.ConfigTimestamp, i),
			rect: image.Rect(
				int(info.X), int(info.Y),
				int(info.X)+int(info.Width), int(info.Y)+int(info.Height),
			),
		})
	}

	if len(frames) == 0 {
		// Headless servers (Xvfb) often report no CRTCs.
		return []monitorFrame{{name: "screen-0", rect: rootFrame}}, nil
	}
	return frames, nil
}

func (h *Host) outputName(outputs []randr.Output, ts xproto.Timestamp, crtcIndex int) string {
	for _, out := range outputs {
		info, err := randr.GetOutputInfo(h.conn, out, ts).Reply()
		if err == nil && len(info.Name) > 0 {
			return string(info.Name)
		}
	}
	return fmt.Sprintf("crtc-%d", crtcIndex)
}

// workarea returns the EWMH work area of the current desktop, or an empty
// rectangle if the window manager does not publish one.
func (h *Host) workarea() image.Rectangle {
	current := 0
	if v, ok := h.cardinals(h.atoms.currentDesktop); ok && len(v) > 0 {
		current = int(v[0])
	}
	v, ok := h.cardinals(h.atoms.workarea)
	if !ok {
		return image.Rectangle{}
	}
	return workareaFor(v, current)
}

// workareaFor picks the x, y, width, height quadruple of desktop from a
// _NET_WORKAREA value, falling back to the first desktop.
func workareaFor(v []uint32, desktop int) image.Rectangle {
	if desktop < 0 || 4*desktop+4 > len(v) {
		desktop = 0
	}
	if len(v) < 4 {
		return image.Rectangle{}
	}
	q := v[4*desktop : 4*desktop+4]
	x, y := int(int32(q[0])), int(int32(q[1]))
	return image.Rect(x, y, x+int(q[2]), y+int(q[3]))
}

// visibleFrame clips a display frame to the work area. A work area that
// does not overlap the display leaves the whole frame visible.
func visibleFrame(frame, workarea image.Rectangle) image.Rectangle {
	v := frame.Intersect(workarea)
	if v.Empty() {
		return frame
	}
	return v
}

// cardinals reads a CARDINAL[] property of the root window.
func (h *Host) cardinals(prop xproto.Atom) ([]uint32, bool) {
	reply, err := xproto.GetProperty(h.conn, false, h.root, prop, xproto.AtomCardinal, 0, 1024).Reply()
	if err != nil || reply.Format != 32 || reply.ValueLen == 0 {
		return nil, false
	}
	out := make([]uint32, reply.ValueLen)
	for i := range out {
		out[i] = xgb.Get32(reply.Value[4*i:])
	}
	return out, true
}

// scale derives device pixels per logical unit from the Xft.dpi resource.
func (h *Host) scale() float64 {
	reply, err := xproto.GetProperty(h.conn, false, h.root, h.atoms.resourceMgr, xproto.AtomString, 0, 1<<16).Reply()
	if err != nil || len(reply.Value) == 0 {
		return 1
	}
	if dpi, ok := parseXftDPI(string(reply.Value)); ok {
		return dpi / 96
	}
	return 1
}

// parseXftDPI extracts Xft.dpi from an X resource database string.
func parseXftDPI(resources string) (float64, bool) {
	sc := bufio.NewScanner(strings.NewReader(resources))
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), ":")
		if !ok || strings.TrimSpace(key) != "Xft.dpi" {
			continue
		}
		dpi, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || dpi <= 0 {
			return 0, false
		}
		return dpi, true
	}
	return 0, false
}
