package main

import (
	"flag"
	"fmt"
	"image"

	"github.com/gogpu/cornermask"
	"github.com/gogpu/cornermask/backend/virtual"
	"github.com/gogpu/cornermask/internal/preview"
	"github.com/gogpu/cornermask/overlay"
	"github.com/gogpu/cornermask/prefs"
)

func cmdPreview(args []string) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	n := fs.Int("displays", 2, "number of simulated displays")
	save := fs.Bool("save", false, "store preset changes in the preferences file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *n < 1 {
		return fmt.Errorf("-displays must be at least 1, got %d", *n)
	}

	store, err := common.setup()
	if err != nil {
		return err
	}
	var styles preview.StyleStore = store
	if !*save {
		styles = prefs.NewMemoryStore(store.Config())
	}

	host := virtual.New(simulatedDisplays(*n)...)
	defer host.Close()

	ctrl := overlay.NewController(host, styles)
	if err := ctrl.Start(); err != nil {
		return err
	}
	defer ctrl.Stop()

	return preview.Run(preview.New(host, ctrl, styles))
}

// simulatedDisplays lays out n displays left to right. The first one is a
// 2x display, the rest are 1x.
func simulatedDisplays(n int) []overlay.Display {
	ds := make([]overlay.Display, 0, n)
	x := 0
	for i := range n {
		w, h, scale := 1920, 1200, 1.0
		if i == 0 {
			w, h, scale = 3024, 1964, 2.0
		}
		menu := int(float64(cornermask.DefaultMenuBarHeight) * scale)
		ds = append(ds, overlay.Display{
			ID:           fmt.Sprintf("sim-%d", i),
			Frame:        image.Rect(x, 0, x+w, h),
			VisibleFrame: image.Rect(x, menu, x+w, h),
			Scale:        scale,
		})
		x += w
	}
	return ds
}
