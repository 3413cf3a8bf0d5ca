package main

import (
	"flag"
	"fmt"

	"github.com/gogpu/cornermask/prefs"
)

func cmdAutostart(args []string) error {
	fs := flag.NewFlagSet("autostart", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := common.setup()
	if err != nil {
		return err
	}

	switch fs.Arg(0) {
	case "on":
		err = store.SetLaunchAtLogin(true)
	case "off":
		err = store.SetLaunchAtLogin(false)
	case "", "status":
	default:
		return fmt.Errorf("unknown argument %q (want on, off or status)", fs.Arg(0))
	}
	if err != nil {
		return err
	}

	path, _ := prefs.AutostartPath()
	fmt.Printf("launch at login: %v (%s)\n", prefs.LaunchAtLogin(), path)
	return nil
}
