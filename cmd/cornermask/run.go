package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/cornermask"
	"github.com/gogpu/cornermask/overlay"
)

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	backend := fs.String("backend", "", "host backend: "+fmt.Sprint(overlay.Backends())+" (default: best available)")
	display := fs.String("display", "", "X display (default $DISPLAY)")
	interval := fs.Duration("watch", time.Second, "preferences polling interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := common.setup()
	if err != nil {
		return err
	}

	opts := overlay.HostOptions{Display: *display}
	var b overlay.Backend
	if *backend == "" {
		b, err = overlay.OpenHost(opts)
	} else {
		b, err = overlay.OpenHostByName(*backend, opts)
	}
	if err != nil {
		return err
	}
	defer b.Close()

	log := cornermask.Logger()
	log.Info("cornermask: started", "version", cornermask.Version, "preset", store.ActivePreset().ID, "config", store.Path())

	ctrl := overlay.NewController(b, store)
	b.Post(func() {
		if err := ctrl.Start(); err != nil {
			log.Warn("cornermask: overlays will not follow host changes", "err", err)
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Run(gctx)
	})
	g.Go(func() error {
		// Preference changes join the host's event loop like any other
		// invalidation.
		return store.Watch(gctx, *interval, func() {
			b.Post(ctrl.OnTopologyOrPresetChanged)
		})
	})

	err = g.Wait()
	// The event loop has returned, so the controller can be used here.
	ctrl.Stop()
	log.Info("cornermask: stopped")
	return err
}
