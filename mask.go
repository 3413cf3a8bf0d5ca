package cornermask

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// DefaultMenuBarHeight is the strip height used when a display reports
// no usable menu-bar metrics.
const DefaultMenuBarHeight = 24

// MaskSurface paints the menu-bar strip and the four corner cutouts of one
// display into a transparent RGBA image.
//
// The top corners sit on the bottom edge of the strip; the bottom corners
// sit on the physical bottom edge. Everything else stays fully transparent.
//
// The image is re-rasterized lazily: setters only mark the surface dirty
// when a value actually changes, and Image renders at most once per change.
//
// MaskSurface is NOT thread-safe.
type MaskSurface struct {
	width         int
	height        int
	radius        float64
	menuBarHeight int
	fill          *image.Uniform

	img     *image.RGBA
	raster  *vector.Rasterizer
	dirty   bool
	renders int
}

// NewMaskSurface creates a w×h surface. Non-positive sizes are clamped to 1.
func NewMaskSurface(width, height int, opts ...MaskOption) *MaskSurface {
	o := defaultMaskOptions()
	for _, opt := range opts {
		opt(&o)
	}
	width, height = max(width, 1), max(height, 1)
	return &MaskSurface{
		width:         width,
		height:        height,
		radius:        o.radius,
		menuBarHeight: o.menuBarHeight,
		fill:          image.NewUniform(o.fill),
		img:           image.NewRGBA(image.Rect(0, 0, width, height)),
		raster:        vector.NewRasterizer(0, 0),
		dirty:         true,
	}
}

// Width returns the surface width in pixels.
func (s *MaskSurface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *MaskSurface) Height() int { return s.height }

// Radius returns the current corner radius.
func (s *MaskSurface) Radius() float64 { return s.radius }

// MenuBarHeight returns the current strip height.
func (s *MaskSurface) MenuBarHeight() int { return s.menuBarHeight }

// FillColor returns the paint colour.
func (s *MaskSurface) FillColor() color.Color { return s.fill.C }

// Dirty reports whether the next Image call will re-rasterize.
func (s *MaskSurface) Dirty() bool { return s.dirty }

// Renders returns how many times the surface has been rasterized.
func (s *MaskSurface) Renders() int { return s.renders }

// SetRadius changes the corner radius. Malformed values are treated as 0.
func (s *MaskSurface) SetRadius(r float64) {
	r = SanitizeRadius(r)
	if r == s.radius {
		return
	}
	s.radius = r
	s.dirty = true
}

// SetMenuBarHeight changes the strip height. Negative values are treated as 0.
func (s *MaskSurface) SetMenuBarHeight(m int) {
	m = max(m, 0)
	if m == s.menuBarHeight {
		return
	}
	s.menuBarHeight = m
	s.dirty = true
}

// Resize changes the surface dimensions, discarding the current image.
func (s *MaskSurface) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	s.dirty = true
}

// CornerAnchors returns the anchor point of every corner for the current
// size and strip height, indexed by Corner.
func (s *MaskSurface) CornerAnchors() [4]Point {
	w, h, m := float64(s.width), float64(s.height), float64(s.menuBarHeight)
	var a [4]Point
	a[TopLeft] = Pt(0, m)
	a[TopRight] = Pt(w, m)
	a[BottomLeft] = Pt(0, h)
	a[BottomRight] = Pt(w, h)
	return a
}

// Image returns the rendered mask, rasterizing first if anything changed.
// The returned image is owned by the surface and is overwritten by the
// next render.
func (s *MaskSurface) Image() *image.RGBA {
	if s.dirty {
		s.render()
	}
	return s.img
}

func (s *MaskSurface) render() {
	clear(s.img.Pix)

	strip := image.Rect(0, 0, s.width, s.menuBarHeight).Intersect(s.img.Bounds())
	if !strip.Empty() {
		draw.Draw(s.img, strip, s.fill, image.Point{}, draw.Src)
	}

	anchors := s.CornerAnchors()
	for _, c := range Corners {
		s.fillPath(CornerPath(c, anchors[c], s.radius))
	}

	s.dirty = false
	s.renders++
}

// fillPath rasterizes p over the image using only p's bounding box, so
// separate corners never interact inside the coverage accumulator.
func (s *MaskSurface) fillPath(p *Path) {
	if p.IsEmpty() {
		return
	}
	b := p.Bounds()
	r := image.Rect(
		int(math.Floor(b.Min.X)), int(math.Floor(b.Min.Y)),
		int(math.Ceil(b.Max.X)), int(math.Ceil(b.Max.Y)),
	).Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}

	s.raster.Reset(r.Dx(), r.Dy())
	s.raster.DrawOp = draw.Over
	rasterizePath(s.raster, p, Translate(-float64(r.Min.X), -float64(r.Min.Y)))
	s.raster.Draw(s.img, r, s.fill, image.Point{})
}
