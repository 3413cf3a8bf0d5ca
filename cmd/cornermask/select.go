package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/gogpu/cornermask"
	"github.com/gogpu/cornermask/internal/picker"
)

func cmdSelect(args []string) error {
	fs := flag.NewFlagSet("select", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := common.setup()
	if err != nil {
		return err
	}
	if !common.verbose {
		// Log lines would tear the full-screen menu.
		cornermask.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	style, ok, err := picker.Run(store.Style(), store.SetStyle)
	if err != nil {
		return err
	}
	if ok {
		p := cornermask.PresetFor(style)
		fmt.Printf("corner style: %s (%s)\n", p.DisplayName, p.ID)
	}
	return nil
}
