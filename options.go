package cornermask

import "image/color"

// MaskOption configures a MaskSurface during creation.
// Use functional options to customize the surface.
//
// Example:
//
//	// Default: black fill, no radius, default menu-bar height
//	s := cornermask.NewMaskSurface(1920, 1080)
//
//	// Preset radius and a measured menu bar
//	s := cornermask.NewMaskSurface(1920, 1080,
//	    cornermask.WithRadius(26),
//	    cornermask.WithMenuBarHeight(25))
type MaskOption func(*maskOptions)

// maskOptions holds optional configuration for MaskSurface creation.
type maskOptions struct {
	fill          color.Color
	radius        float64
	menuBarHeight int
}

// defaultMaskOptions returns the default mask options.
func defaultMaskOptions() maskOptions {
	return maskOptions{
		fill:          color.Black,
		menuBarHeight: DefaultMenuBarHeight,
	}
}

// WithFillColor sets the colour of the strip and corner cutouts.
// It should match whatever the physical bezel looks like, which is
// conventionally opaque black.
func WithFillColor(c color.Color) MaskOption {
	return func(o *maskOptions) {
		if c != nil {
			o.fill = c
		}
	}
}

// WithRadius sets the initial corner radius.
func WithRadius(r float64) MaskOption {
	return func(o *maskOptions) {
		o.radius = SanitizeRadius(r)
	}
}

// WithMenuBarHeight sets the initial height of the menu-bar strip.
func WithMenuBarHeight(m int) MaskOption {
	return func(o *maskOptions) {
		o.menuBarHeight = max(m, 0)
	}
}
