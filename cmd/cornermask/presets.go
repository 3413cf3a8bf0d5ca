package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gogpu/cornermask"
	"github.com/gogpu/cornermask/prefs"
)

func cmdPresets(args []string) error {
	fs := flag.NewFlagSet("presets", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := common.setup()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tID\tNAME\tRADIUS")
	for _, p := range cornermask.Presets() {
		mark := ""
		if p.Style == store.Style() {
			mark = "*"
		}
		radius := "-"
		if p.Enabled {
			radius = fmt.Sprintf("%gpx", p.Radius)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, p.ID, p.DisplayName, radius)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nlaunch at login: %v\n", prefs.LaunchAtLogin())
	return nil
}
