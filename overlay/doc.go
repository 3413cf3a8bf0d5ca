// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package overlay keeps one corner-mask window per attached display.
//
// The package is independent of any windowing system. A Host backend
// (see backend/x11 and backend/virtual) enumerates displays, creates
// borderless input-transparent windows and delivers topology notifications.
// The Controller owns the set of DisplayOverlays and rebuilds it from
// scratch whenever anything changes:
//
//	ctrl := overlay.NewController(host, store)
//	if err := ctrl.Start(); err != nil {
//	    log.Print(err) // notifications unavailable, overlays still drawn
//	}
//	defer ctrl.Stop()
//
// # Threading
//
// Controller and DisplayOverlay are not safe for concurrent use. Hosts
// deliver notifications on a single event goroutine, and everything that
// touches the controller must run there (use the backend's Post method
// from other goroutines).
//
// # Backends
//
// Backends register themselves with Register, usually from an init
// function. OpenHost picks the highest-priority available backend:
//
//	import _ "github.com/gogpu/cornermask/backend/x11"
//
//	b, err := overlay.OpenHost(overlay.HostOptions{})
package overlay
