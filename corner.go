package cornermask

import (
	"fmt"
	"math"
)

// Corner identifies one of the four corners of a display.
type Corner uint8

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

// Corners lists every corner in drawing order.
var Corners = [...]Corner{TopLeft, TopRight, BottomLeft, BottomRight}

// String returns the corner name.
func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	default:
		return fmt.Sprintf("Corner(%d)", uint8(c))
	}
}

// mirror returns the axis signs that map the canonical top-left outline
// onto c. Top corners open downward, left corners open rightward.
func (c Corner) mirror() (sx, sy float64) {
	switch c {
	case TopRight:
		return -1, 1
	case BottomLeft:
		return 1, -1
	case BottomRight:
		return -1, -1
	default:
		return 1, 1
	}
}

// ExtensionFactor is how far, in multiples of the radius, the corner mask
// reaches along each edge. Continuous-curvature corners start bending
// earlier than a quarter circle, so the mask is longer than r.
const ExtensionFactor = 1.29

// calibration holds control-point ratios measured from reference window
// corners. Values are fractions of the radius along the first edge (main)
// and perpendicular to it (perp). They are measured, not derived.
var calibration = struct {
	b1cp1, b1cp2         float64
	b1end, b1endPerp     float64
	line, linePerp       float64
	b2cp1, b2cp1Perp     float64
	b2cp2, b2cp2Perp     float64
	b2end, b2endPerp     float64
	b3cp1Perp, b3cp2Perp float64
}{
	b1cp1:     1.08849323,
	b1cp2:     0.86840689,
	b1end:     0.66993427,
	b1endPerp: 0.06549600,

	line:     0.63149399,
	linePerp: 0.07491100,

	b2cp1:     0.37282392,
	b2cp1Perp: 0.16906013,
	b2cp2:     0.16906013,
	b2cp2Perp: 0.37282392,
	b2end:     0.07491100,
	b2endPerp: 0.63149399,

	b3cp1Perp: 0.86840689,
	b3cp2Perp: 1.08849323,
}

// canonicalCorner is the top-left outline in a unit frame: anchor at the
// origin, x to the right, y downward.
var canonicalCorner = buildCanonicalCorner()

func buildCanonicalCorner() *Path {
	k := calibration
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(ExtensionFactor, 0)
	p.CubicTo(k.b1cp1, 0, k.b1cp2, 0, k.b1end, k.b1endPerp)
	p.LineTo(k.line, k.linePerp)
	p.CubicTo(k.b2cp1, k.b2cp1Perp, k.b2cp2, k.b2cp2Perp, k.b2end, k.b2endPerp)
	p.CubicTo(0, k.b3cp1Perp, 0, k.b3cp2Perp, 0, ExtensionFactor)
	p.Close()
	return p
}

// SanitizeRadius maps malformed radii (negative, NaN, infinite) to zero.
func SanitizeRadius(r float64) float64 {
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
		return 0
	}
	return r
}

// CornerTransform returns the matrix mapping the canonical unit outline
// onto corner c at anchor with radius r.
func CornerTransform(c Corner, anchor Point, r float64) Matrix {
	sx, sy := c.mirror()
	return Translate(anchor.X, anchor.Y).
		Multiply(Scale(r, r)).
		Multiply(Reflect(sx, sy))
}

// CornerPath returns the closed region to paint so that corner c, anchored
// at anchor, appears rounded with radius r. All four corners are mirror
// images of a single outline. A zero or malformed radius yields an empty
// path.
func CornerPath(c Corner, anchor Point, r float64) *Path {
	r = SanitizeRadius(r)
	if r == 0 {
		return NewPath()
	}
	return canonicalCorner.Transform(CornerTransform(c, anchor, r))
}
