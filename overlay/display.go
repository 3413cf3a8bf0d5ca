// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package overlay

import (
	"image"

	"github.com/gogpu/cornermask"
)

// Display describes one attached display as reported by the host.
// Descriptors are fetched fresh on every refresh and never cached.
type Display struct {
	// ID is a host-specific stable name (output name, index).
	ID string

	// Frame is the full display rectangle in global screen coordinates.
	Frame image.Rectangle

	// VisibleFrame is the part of Frame not reserved by menu bars,
	// panels or docks.
	VisibleFrame image.Rectangle

	// SafeAreaTop is the top inset reserved by camera housings or notches.
	// Zero when the display has none.
	SafeAreaTop int

	// Scale is the number of device pixels per logical unit. Zero means 1.
	Scale float64
}

// PixelScale returns Scale, defaulting to 1.
func (d Display) PixelScale() float64 {
	if d.Scale <= 0 {
		return 1
	}
	return d.Scale
}

// MenuBarHeight returns the height of the strip painted at the top of d.
//
// The reserved height is the difference between the full and visible
// frames. A reported safe-area inset wins when it is larger. When the host
// reports no reservation at all (headless or virtual displays) the default
// height is used.
func MenuBarHeight(d Display) int {
	raw := d.Frame.Dy() - d.VisibleFrame.Dy()
	switch {
	case d.SafeAreaTop > 0:
		return max(raw, d.SafeAreaTop)
	case raw > 0:
		return raw
	default:
		return cornermask.DefaultMenuBarHeight
	}
}
