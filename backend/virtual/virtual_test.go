// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package virtual

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/gogpu/cornermask"
	"github.com/gogpu/cornermask/overlay"
)

func disp(id string, x int) overlay.Display {
	return overlay.Display{
		ID:           id,
		Frame:        image.Rect(x, 0, x+640, 480),
		VisibleFrame: image.Rect(x, 20, x+640, 480),
	}
}

func toolbar() overlay.PresetSource {
	return overlay.PresetFunc(func() cornermask.Preset {
		return cornermask.PresetFor(cornermask.StyleToolbar)
	})
}

func TestHostDefaultDisplay(t *testing.T) {
	h := New()
	ds, err := h.Displays()
	if err != nil {
		t.Fatal(err)
	}
	if len(ds) != 1 || ds[0].ID != DefaultDisplay.ID {
		t.Errorf("Displays() = %v, want the default display", ds)
	}
}

func TestControllerTracksVirtualTopology(t *testing.T) {
	h := New(disp("A", 0), disp("B", 640))
	c := overlay.NewController(h, toolbar())
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	if n := len(h.Windows()); n != 2 {
		t.Fatalf("expected 2 windows, got %d", n)
	}

	h.AddDisplay(disp("C", 1280))
	if n := len(h.Windows()); n != 3 {
		t.Fatalf("after AddDisplay: %d windows, want 3", n)
	}

	if !h.RemoveDisplay("A") {
		t.Fatal("RemoveDisplay(A) = false")
	}
	ws := h.Windows()
	if len(ws) != 2 {
		t.Fatalf("after RemoveDisplay: %d windows, want 2", len(ws))
	}
	if ws[0].Config().Frame != disp("B", 640).Frame || ws[1].Config().Frame != disp("C", 1280).Frame {
		t.Errorf("remaining frames %v, %v", ws[0].Config().Frame, ws[1].Config().Frame)
	}
	if h.RemoveDisplay("missing") {
		t.Error("RemoveDisplay of unknown display should report false")
	}

	h.SwitchWorkspace(2)
	if h.Workspace() != 2 {
		t.Errorf("Workspace() = %d", h.Workspace())
	}
	for _, w := range h.Windows() {
		if w.Presents() != 1 || w.Image() == nil {
			t.Errorf("window %v: %d presents", w.Config().Frame, w.Presents())
		}
	}

	c.Stop()
	if n := len(h.Windows()); n != 0 {
		t.Errorf("%d windows after Stop", n)
	}
}

func TestWindowPresentSizeMismatch(t *testing.T) {
	h := New()
	w, err := h.NewWindow(overlay.OverlayWindowConfig(image.Rect(0, 0, 10, 10), "t"))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Present(image.NewRGBA(image.Rect(0, 0, 5, 5))); err == nil {
		t.Error("expected size mismatch error")
	}
	_ = w.Close()
	if err := w.Present(image.NewRGBA(image.Rect(0, 0, 10, 10))); !errors.Is(err, overlay.ErrClosed) {
		t.Errorf("Present after Close = %v, want ErrClosed", err)
	}
}

func TestHostRunExecutesPosted(t *testing.T) {
	h := New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.Run(ctx) }()

	ran := make(chan struct{})
	h.Post(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("posted function did not run")
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() = %v", err)
	}
}

func TestHostDrain(t *testing.T) {
	h := New()
	n := 0
	h.Post(func() { n++ })
	h.Post(func() { n++ })
	h.Drain()
	if n != 2 {
		t.Errorf("Drain ran %d functions, want 2", n)
	}
}

func TestHostClose(t *testing.T) {
	h := New()
	c := overlay.NewController(h, toolbar())
	c.Refresh()
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}
	if len(h.Windows()) != 0 {
		t.Error("Close should close all windows")
	}
	if _, err := h.Displays(); !errors.Is(err, overlay.ErrClosed) {
		t.Errorf("Displays after Close = %v", err)
	}
}

func TestRegistered(t *testing.T) {
	b, err := overlay.OpenHostByName("virtual", overlay.HostOptions{Displays: []overlay.Display{disp("A", 0)}})
	if err != nil {
		t.Fatal(err)
	}
	ds, _ := b.Displays()
	if len(ds) != 1 || ds[0].ID != "A" {
		t.Errorf("Displays() = %v", ds)
	}
}
