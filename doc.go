// Package cornermask draws a bezel mask that makes square display corners
// look like the continuously-curved corners of desktop windows.
//
// # Overview
//
// A display's square corners are covered by small opaque cutouts whose
// inner edge follows a continuous-curvature ("squircle") profile, and the
// top of the screen gets an opaque strip the height of the menu bar. The
// result is composited below ordinary windows, so the desktop reads as a
// physically rounded screen.
//
// # Quick Start
//
//	s := cornermask.NewMaskSurface(1920, 1080,
//	    cornermask.WithRadius(cornermask.PresetFor(cornermask.StyleToolbar).Radius),
//	    cornermask.WithMenuBarHeight(25))
//	img := s.Image() // *image.RGBA, transparent except strip and corners
//
// # Architecture
//
// The package is organized into:
//   - Geometry: Point, Matrix, Path, CornerPath (pure, no drawing surface)
//   - Presets: the fixed Style/Preset lookup table
//   - Painting: MaskSurface, rasterized with golang.org/x/image/vector
//
// Per-display windows and their lifecycle live in the overlay package;
// windowing systems are plugged in through overlay.Host backends.
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
package cornermask

// Version is the current version of the module.
const Version = "0.1.0"
