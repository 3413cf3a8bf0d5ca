package cornermask

import "golang.org/x/image/vector"

// rasterizePath feeds p, transformed by m, into z.
func rasterizePath(z *vector.Rasterizer, p *Path, m Matrix) {
	open := false
	for _, elem := range p.Elements() {
		switch e := elem.(type) {
		case MoveTo:
			if open {
				z.ClosePath()
			}
			pt := m.TransformPoint(e.Point)
			z.MoveTo(float32(pt.X), float32(pt.Y))
			open = true
		case LineTo:
			pt := m.TransformPoint(e.Point)
			z.LineTo(float32(pt.X), float32(pt.Y))
		case CubicTo:
			c1 := m.TransformPoint(e.Control1)
			c2 := m.TransformPoint(e.Control2)
			pt := m.TransformPoint(e.Point)
			z.CubeTo(
				float32(c1.X), float32(c1.Y),
				float32(c2.X), float32(c2.Y),
				float32(pt.X), float32(pt.Y),
			)
		case Close:
			z.ClosePath()
			open = false
		}
	}
	if open {
		z.ClosePath()
	}
}
