// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package overlay

import (
	"errors"
	"image"

	"github.com/gogpu/cornermask"
)

// fakeWindow records what the overlay core asked the host to do.
type fakeWindow struct {
	cfg      WindowConfig
	presents int
	last     *image.RGBA
	closes   int
	failWith error
}

func (w *fakeWindow) Present(img *image.RGBA) error {
	if w.closes > 0 {
		return ErrClosed
	}
	if w.failWith != nil {
		return w.failWith
	}
	w.presents++
	w.last = img
	return nil
}

func (w *fakeWindow) Close() error {
	w.closes++
	return nil
}

// fakeHost is an in-memory Host with controllable failures.
type fakeHost struct {
	displays     []Display
	displaysErr  error
	failFrames   map[image.Rectangle]error
	presentErr   error
	subscribeErr map[Notification]error
	windows      []*fakeWindow
	subs         map[Notification][]func()
	cancelled    int
}

func newFakeHost(displays ...Display) *fakeHost {
	return &fakeHost{
		displays:     displays,
		failFrames:   map[image.Rectangle]error{},
		subscribeErr: map[Notification]error{},
		subs:         map[Notification][]func(){},
	}
}

func (h *fakeHost) Displays() ([]Display, error) {
	if h.displaysErr != nil {
		return nil, h.displaysErr
	}
	out := make([]Display, len(h.displays))
	copy(out, h.displays)
	return out, nil
}

func (h *fakeHost) NewWindow(cfg WindowConfig) (Window, error) {
	if err := h.failFrames[cfg.Frame]; err != nil {
		return nil, err
	}
	w := &fakeWindow{cfg: cfg, failWith: h.presentErr}
	h.windows = append(h.windows, w)
	return w, nil
}

func (h *fakeHost) Subscribe(n Notification, fn func()) (func(), error) {
	if err := h.subscribeErr[n]; err != nil {
		return nil, err
	}
	h.subs[n] = append(h.subs[n], fn)
	idx := len(h.subs[n]) - 1
	return func() {
		h.subs[n][idx] = nil
		h.cancelled++
	}, nil
}

func (h *fakeHost) notify(n Notification) {
	for _, fn := range h.subs[n] {
		if fn != nil {
			fn()
		}
	}
}

// openWindows returns windows that have not been closed.
func (h *fakeHost) openWindows() []*fakeWindow {
	var out []*fakeWindow
	for _, w := range h.windows {
		if w.closes == 0 {
			out = append(out, w)
		}
	}
	return out
}

func display(id string, x, y, w, h, reserved int) Display {
	frame := image.Rect(x, y, x+w, y+h)
	return Display{
		ID:           id,
		Frame:        frame,
		VisibleFrame: image.Rect(x, y+reserved, x+w, y+h),
	}
}

type stubPresets struct {
	preset cornermask.Preset
}

func (s *stubPresets) ActivePreset() cornermask.Preset { return s.preset }

var errHost = errors.New("host fault")
