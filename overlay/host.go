// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package overlay

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/cornermask"
)

// ErrClosed is returned when a closed window or host is used.
var ErrClosed = errors.New("overlay: closed")

// Notification identifies a host event stream that invalidates overlays.
type Notification uint8

const (
	// DisplaysChanged fires when displays are attached, detached,
	// rearranged, resized, or their reserved areas change.
	DisplaysChanged Notification = iota

	// WorkspaceChanged fires when the active virtual workspace changes.
	WorkspaceChanged
)

// String returns the notification name.
func (n Notification) String() string {
	switch n {
	case DisplaysChanged:
		return "displays-changed"
	case WorkspaceChanged:
		return "workspace-changed"
	default:
		return fmt.Sprintf("Notification(%d)", uint8(n))
	}
}

// Level is a window depth in the host's stacking order.
type Level int

const (
	// LevelAboveDesktop sits one step above the desktop background and
	// below every ordinary application window.
	LevelAboveDesktop Level = iota

	// LevelNormal is the depth of ordinary application windows.
	LevelNormal
)

// WindowConfig describes a window the host should create.
type WindowConfig struct {
	// Frame is the window rectangle in global screen coordinates.
	Frame image.Rectangle

	// Level is the stacking depth.
	Level Level

	// IgnoresInput makes pointer and keyboard input pass through.
	IgnoresInput bool

	// NonActivating prevents the window from ever taking focus.
	NonActivating bool

	// AllWorkspaces shows the window on every virtual workspace.
	AllWorkspaces bool

	// SkipCycle excludes the window from task bars, pagers and
	// window switchers.
	SkipCycle bool

	// Title is a diagnostic window name.
	Title string
}

// OverlayWindowConfig returns the configuration used for corner-mask
// windows covering frame.
func OverlayWindowConfig(frame image.Rectangle, title string) WindowConfig {
	return WindowConfig{
		Frame:         frame,
		Level:         LevelAboveDesktop,
		IgnoresInput:  true,
		NonActivating: true,
		AllWorkspaces: true,
		SkipCycle:     true,
		Title:         title,
	}
}

// Window is a host surface presenting a premultiplied RGBA image.
//
// Windows are NOT thread-safe; use them from the host's event goroutine.
type Window interface {
	// Present shows img, which must match the window frame size.
	// The window may keep a reference to img until the next Present.
	Present(img *image.RGBA) error

	// Close removes the window from the screen and releases it.
	// Close is idempotent; subsequent calls return nil.
	Close() error
}

// Host is the windowing-system boundary consumed by the overlay core.
type Host interface {
	// Displays returns every currently attached display.
	Displays() ([]Display, error)

	// NewWindow creates and maps a window.
	NewWindow(cfg WindowConfig) (Window, error)

	// Subscribe registers fn for notification n. fn runs on the host's
	// event goroutine. The returned cancel function unsubscribes.
	Subscribe(n Notification, fn func()) (cancel func(), err error)
}

// Backend is a Host that also owns an event loop.
type Backend interface {
	Host

	// Run dispatches host events and posted functions until ctx is done
	// or the connection to the windowing system is lost.
	Run(ctx context.Context) error

	// Post queues fn to run on the event goroutine. It is safe to call
	// from any goroutine.
	Post(fn func())

	// Close releases the connection. Open windows are destroyed.
	Close() error
}

// PresetSource provides the active corner preset.
type PresetSource interface {
	ActivePreset() cornermask.Preset
}

// PresetFunc adapts a function to PresetSource.
type PresetFunc func() cornermask.Preset

// ActivePreset implements PresetSource.
func (f PresetFunc) ActivePreset() cornermask.Preset { return f() }
