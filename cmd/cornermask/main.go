// Command cornermask draws rounded screen corners below the menu bar.
//
// Usage:
//
//	cornermask run      [-backend name] [-display :0] [-config file] [-v]
//	cornermask select   [-config file]
//	cornermask preview  [-displays n] [-save] [-config file]
//	cornermask render   [-width w] [-height h] [-style s] [-output file]
//	cornermask presets  [-config file]
//	cornermask autostart on|off|status
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/cornermask"
	_ "github.com/gogpu/cornermask/backend/virtual"
	_ "github.com/gogpu/cornermask/backend/x11"
	"github.com/gogpu/cornermask/prefs"
)

type command struct {
	name    string
	summary string
	run     func(args []string) error
}

var commands []command

func init() {
	commands = []command{
		{"run", "draw the overlays and follow display and preference changes", cmdRun},
		{"select", "choose the corner preset in an interactive menu", cmdSelect},
		{"preview", "try presets on simulated displays in a window", cmdPreview},
		{"render", "write one mask to a PNG file", cmdRender},
		{"presets", "list the corner presets", cmdPresets},
		{"autostart", "enable or disable launch at login", cmdAutostart},
	}
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	name := os.Args[1]
	switch name {
	case "-h", "-help", "--help", "help":
		usage()
		return
	case "-version", "--version", "version":
		fmt.Println("cornermask", cornermask.Version)
		return
	}

	for _, c := range commands {
		if c.name != name {
			continue
		}
		err := c.run(os.Args[2:])
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "cornermask %s: %v\n", name, err)
			os.Exit(1)
		}
		return
	}

	fmt.Fprintf(os.Stderr, "cornermask: unknown command %q\n", name)
	usage()
	os.Exit(2)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: cornermask <command> [flags]")
	fmt.Fprintln(os.Stderr)
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", c.name, c.summary)
	}
}

// commonFlags are shared by every command that reads preferences.
type commonFlags struct {
	config  string
	verbose bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.config, "config", "", "preferences file (default $XDG_CONFIG_HOME/cornermask/config.yaml)")
	fs.BoolVar(&c.verbose, "v", false, "verbose logging")
}

// setup installs the logger and opens the preference store.
func (c *commonFlags) setup() (*prefs.Store, error) {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	cornermask.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	path := c.config
	if path == "" {
		p, err := prefs.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return prefs.Open(path)
}
