// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package x11

import (
	"errors"
	"fmt"
	"image"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xproto"

	"github.com/gogpu/cornermask"
	"github.com/gogpu/cornermask/overlay"
)

// shapeThreshold is the minimum alpha a pixel needs to be kept by the
// bounding region of a non-composited window.
const shapeThreshold = 128

// putImageHeader is the fixed size of a PutImage request in bytes.
const putImageHeader = 24

type argbVisual struct {
	visual   xproto.Visualid
	depth    byte
	colormap xproto.Colormap
}

// newARGBVisual finds a 32-bit TrueColor visual and allocates a colormap
// for it. Windows with a depth different from their parent need one.
func newARGBVisual(c *xgb.Conn, screen *xproto.ScreenInfo) (*argbVisual, error) {
	for _, d := range screen.AllowedDepths {
		if d.Depth != 32 {
			continue
		}
		for _, v := range d.Visuals {
			if v.Class != xproto.VisualClassTrueColor || !standardMasks(v) {
				continue
			}
			cmap, err := xproto.NewColormapId(c)
			if err != nil {
				return nil, fmt.Errorf("x11: colormap id: %w", err)
			}
			if err := xproto.CreateColormapChecked(c, xproto.ColormapAllocNone, cmap, screen.Root, v.VisualId).Check(); err != nil {
				return nil, fmt.Errorf("x11: create colormap: %w", err)
			}
			return &argbVisual{visual: v.VisualId, depth: 32, colormap: cmap}, nil
		}
	}
	return nil, ErrNoVisual
}

// standardMasks reports whether v stores 8-bit channels as 0xRRGGBB in the
// low 24 bits of a pixel.
func standardMasks(v xproto.VisualInfo) bool {
	return v.RedMask == 0xff0000 && v.GreenMask == 0x00ff00 && v.BlueMask == 0x0000ff
}

func (h *Host) rootVisual() (xproto.VisualInfo, bool) {
	for _, d := range h.screen.AllowedDepths {
		if d.Depth != h.screen.RootDepth {
			continue
		}
		for _, v := range d.Visuals {
			if v.VisualId == h.screen.RootVisual {
				return v, true
			}
		}
	}
	return xproto.VisualInfo{}, false
}

// bitsPerPixel returns the ZPixmap pixel size for depth.
func (h *Host) bitsPerPixel(depth byte) byte {
	for _, f := range h.setup.PixmapFormats {
		if f.Depth == depth {
			return f.BitsPerPixel
		}
	}
	return 0
}

// Window is an X11 overlay window.
type Window struct {
	host   *Host
	id     xproto.Window
	gc     xproto.Gcontext
	cfg    overlay.WindowConfig
	depth  byte
	opaque bool

	buf    []byte
	width  int
	height int
	closed bool
}

// NewWindow implements overlay.Host.
func (h *Host) NewWindow(cfg overlay.WindowConfig) (overlay.Window, error) {
	if h.closed {
		return nil, overlay.ErrClosed
	}
	if cfg.Frame.Empty() {
		return nil, fmt.Errorf("x11: empty window frame %v", cfg.Frame)
	}

	depth, visual := h.screen.RootDepth, h.screen.RootVisual
	if h.composited {
		depth, visual = h.argb.depth, h.argb.visual
	} else if v, ok := h.rootVisual(); !ok || v.Class != xproto.VisualClassTrueColor || !standardMasks(v) {
		return nil, ErrNoVisual
	}
	if bpp := h.bitsPerPixel(depth); bpp != 32 {
		return nil, fmt.Errorf("%w: depth %d uses %d bits per pixel", ErrNoVisual, depth, bpp)
	}

	wid, err := xproto.NewWindowId(h.conn)
	if err != nil {
		return nil, fmt.Errorf("x11: window id: %w", err)
	}

	mask := uint32(xproto.CwBackPixel | xproto.CwBorderPixel | xproto.CwOverrideRedirect | xproto.CwEventMask)
	values := []uint32{
		0, // transparent background
		0,
		0, // managed, so the window manager applies the stacking hints
		uint32(xproto.EventMaskExposure | xproto.EventMaskStructureNotify),
	}
	if h.composited {
		mask |= xproto.CwColormap
		values = append(values, uint32(h.argb.colormap))
	}

	f := cfg.Frame
	err = xproto.CreateWindowChecked(h.conn, depth, wid, h.root,
		int16(f.Min.X), int16(f.Min.Y), uint16(f.Dx()), uint16(f.Dy()), 0,
		xproto.WindowClassInputOutput, visual, mask, values).Check()
	if err != nil {
		return nil, fmt.Errorf("x11: create window: %w", err)
	}

	w := &Window{
		host:   h,
		id:     wid,
		cfg:    cfg,
		depth:  depth,
		opaque: !h.composited,
		width:  f.Dx(),
		height: f.Dy(),
	}

	if err := w.init(); err != nil {
		xproto.DestroyWindow(h.conn, wid)
		return nil, err
	}
	h.windows[wid] = w
	cornermask.Logger().Debug("x11: window created", "window", wid, "frame", f, "depth", depth)
	return w, nil
}

func (w *Window) init() error {
	c := w.host.conn

	if err := w.setHints(); err != nil {
		return err
	}

	if w.cfg.IgnoresInput {
		// An empty input region lets every pointer event through.
		if err := shape.RectanglesChecked(c, shape.SoSet, shape.SkInput, xproto.ClipOrderingUnsorted, w.id, 0, 0, nil).Check(); err != nil {
			return fmt.Errorf("x11: clear input region: %w", err)
		}
	}
	if w.opaque {
		// Nothing is visible until the first Present sets the real shape.
		if err := shape.RectanglesChecked(c, shape.SoSet, shape.SkBounding, xproto.ClipOrderingUnsorted, w.id, 0, 0, nil).Check(); err != nil {
			return fmt.Errorf("x11: clear bounding region: %w", err)
		}
	}

	gc, err := xproto.NewGcontextId(c)
	if err != nil {
		return fmt.Errorf("x11: gc id: %w", err)
	}
	if err := xproto.CreateGCChecked(c, gc, xproto.Drawable(w.id), 0, nil).Check(); err != nil {
		return fmt.Errorf("x11: create gc: %w", err)
	}
	w.gc = gc

	if err := xproto.MapWindowChecked(c, w.id).Check(); err != nil {
		return fmt.Errorf("x11: map window: %w", err)
	}

	// Window managers may place a newly mapped window; pin it to its frame.
	f := w.cfg.Frame
	cfgMask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	cfgValues := []uint32{uint32(int32(f.Min.X)), uint32(int32(f.Min.Y)), uint32(f.Dx()), uint32(f.Dy())}
	if w.cfg.Level == overlay.LevelAboveDesktop {
		cfgMask |= xproto.ConfigWindowStackMode
		cfgValues = append(cfgValues, xproto.StackModeBelow)
	}
	return xproto.ConfigureWindowChecked(c, w.id, cfgMask, cfgValues).Check()
}

// setHints publishes the ICCCM and EWMH properties that translate the
// window configuration into window-manager behaviour.
func (w *Window) setHints() error {
	a := w.host.atoms
	var errs []error

	if w.cfg.Title != "" {
		errs = append(errs,
			w.setProp(xproto.AtomWmName, xproto.AtomString, 8, []byte(w.cfg.Title)),
			w.setProp(a.wmName, a.utf8String, 8, []byte(w.cfg.Title)),
		)
	}

	errs = append(errs, w.setProp32(a.wmWindowType, xproto.AtomAtom, uint32(a.typeUtility)))

	var state []uint32
	if w.cfg.Level == overlay.LevelAboveDesktop {
		state = append(state, uint32(a.stateBelow))
	}
	if w.cfg.AllWorkspaces {
		state = append(state, uint32(a.stateSticky))
		errs = append(errs, w.setProp32(a.wmDesktop, xproto.AtomCardinal, 0xFFFFFFFF))
	}
	if w.cfg.SkipCycle {
		state = append(state, uint32(a.stateSkipTask), uint32(a.stateSkipPager))
	}
	if len(state) > 0 {
		errs = append(errs, w.setProp32(a.wmState, xproto.AtomAtom, state...))
	}

	// _MOTIF_WM_HINTS: flags=decorations, decorations=none.
	errs = append(errs, w.setProp32(a.motifHints, a.motifHints, 2, 0, 0, 0, 0))

	if w.cfg.NonActivating {
		// WM_HINTS: flags=InputHint, input=False.
		errs = append(errs, w.setProp32(xproto.AtomWmHints, xproto.AtomWmHints, 1, 0, 0, 0, 0, 0, 0, 0, 0))
	}

	// WM_NORMAL_HINTS: user position and size, fixed min and max size.
	f := w.cfg.Frame
	hints := make([]uint32, 18)
	hints[0] = 1 | 2 | 16 | 32
	hints[1], hints[2] = uint32(int32(f.Min.X)), uint32(int32(f.Min.Y))
	hints[3], hints[4] = uint32(f.Dx()), uint32(f.Dy())
	hints[5], hints[6] = uint32(f.Dx()), uint32(f.Dy())
	hints[7], hints[8] = uint32(f.Dx()), uint32(f.Dy())
	errs = append(errs, w.setProp32(xproto.AtomWmNormalHints, xproto.AtomWmSizeHints, hints...))

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("x11: set window hints: %w", err)
	}
	return nil
}

func (w *Window) setProp(prop, typ xproto.Atom, format byte, data []byte) error {
	n := uint32(len(data)) / uint32(format/8)
	return xproto.ChangePropertyChecked(w.host.conn, xproto.PropModeReplace, w.id, prop, typ, format, n, data).Check()
}

func (w *Window) setProp32(prop, typ xproto.Atom, vals ...uint32) error {
	data := make([]byte, 4*len(vals))
	for i, v := range vals {
		xgb.Put32(data[4*i:], v)
	}
	return w.setProp(prop, typ, 32, data)
}

// Present implements overlay.Window. The converted pixels are retained so
// Expose events can be served without the caller.
func (w *Window) Present(img *image.RGBA) error {
	if w.closed {
		return overlay.ErrClosed
	}
	if img.Bounds().Dx() != w.width || img.Bounds().Dy() != w.height {
		return fmt.Errorf("x11: image size %v does not match frame %v", img.Bounds().Size(), w.cfg.Frame.Size())
	}

	if len(w.buf) != 4*w.width*w.height {
		w.buf = make([]byte, 4*w.width*w.height)
	}
	convertPixels(w.buf, img, w.host.setup.ImageByteOrder == xproto.ImageOrderMSBFirst, w.opaque)

	if w.opaque {
		rects := shapeRects(img, shapeThreshold)
		err := shape.RectanglesChecked(w.host.conn, shape.SoSet, shape.SkBounding, xproto.ClipOrderingUnsorted, w.id, 0, 0, rects).Check()
		if err != nil {
			return fmt.Errorf("x11: set bounding region: %w", err)
		}
	}
	return w.repaint()
}

// repaint uploads the retained pixels, split so every request fits the
// server's maximum request length.
func (w *Window) repaint() error {
	if w.closed || w.buf == nil {
		return nil
	}
	stride := 4 * w.width
	rows := chunkRows(int(w.host.setup.MaximumRequestLength), stride)
	for y := 0; y < w.height; y += rows {
		n := min(rows, w.height-y)
		data := w.buf[y*stride : (y+n)*stride]
		err := xproto.PutImageChecked(w.host.conn, xproto.ImageFormatZPixmap, xproto.Drawable(w.id), w.gc,
			uint16(w.width), uint16(n), 0, int16(y), 0, w.depth, data).Check()
		if err != nil {
			return fmt.Errorf("x11: put image rows %d-%d: %w", y, y+n, err)
		}
	}
	return nil
}

// chunkRows returns how many rows of stride bytes fit in one PutImage
// request given the server limit in 4-byte units. At least one row is
// always sent.
func chunkRows(maxRequestUnits, stride int) int {
	if stride <= 0 {
		return 1
	}
	rows := (maxRequestUnits*4 - putImageHeader) / stride
	return max(rows, 1)
}

// Close implements overlay.Window.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.buf = nil
	delete(w.host.windows, w.id)

	c := w.host.conn
	errs := []error{xproto.DestroyWindowChecked(c, w.id).Check()}
	if w.gc != 0 {
		errs = append(errs, xproto.FreeGCChecked(c, w.gc).Check())
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("x11: close window: %w", err)
	}
	return nil
}

// convertPixels writes premultiplied RGBA pixels as 32-bit ZPixmap data:
// B, G, R, A for LSB-first servers and A, R, G, B for MSB-first ones.
// Opaque windows have no alpha channel, so colours are unpremultiplied
// and alpha is written as 0xff.
func convertPixels(dst []byte, img *image.RGBA, msbFirst, opaque bool) {
	b := img.Bounds()
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			p := row[4*x : 4*x+4]
			r, g, bl, a := p[0], p[1], p[2], p[3]
			if opaque {
				if a != 0 && a != 0xff {
					r = unpremul(r, a)
					g = unpremul(g, a)
					bl = unpremul(bl, a)
				}
				a = 0xff
			}
			if msbFirst {
				dst[i], dst[i+1], dst[i+2], dst[i+3] = a, r, g, bl
			} else {
				dst[i], dst[i+1], dst[i+2], dst[i+3] = bl, g, r, a
			}
			i += 4
		}
	}
}

func unpremul(c, a uint8) uint8 {
	v := (uint32(c)*0xff + uint32(a)/2) / uint32(a)
	return uint8(min(v, 0xff))
}

// shapeRects covers every pixel of img with alpha >= threshold by
// rectangles. Horizontal runs are merged downwards while consecutive rows
// repeat the same span, so strips and straight edges stay cheap.
func shapeRects(img *image.RGBA, threshold uint8) []xproto.Rectangle {
	b := img.Bounds()
	var rects []xproto.Rectangle
	// open holds indexes into rects of runs that ended on the previous row.
	var open, next []int

	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride:]
		next = next[:0]
		x := 0
		for x < b.Dx() {
			if row[4*x+3] < threshold {
				x++
				continue
			}
			start := x
			for x < b.Dx() && row[4*x+3] >= threshold {
				x++
			}

			merged := false
			for _, idx := range open {
				r := &rects[idx]
				if int(r.X) == start && int(r.Width) == x-start {
					r.Height++
					next = append(next, idx)
					merged = true
					break
				}
			}
			if !merged {
				rects = append(rects, xproto.Rectangle{
					X: int16(start), Y: int16(y),
					Width: uint16(x - start), Height: 1,
				})
				next = append(next, len(rects)-1)
			}
		}
		open, next = next, open
	}
	return rects
}
