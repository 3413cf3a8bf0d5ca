// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/cornermask"
)

const autostartName = "cornermask.desktop"

// AutostartPath returns $XDG_CONFIG_HOME/autostart/cornermask.desktop.
func AutostartPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("prefs: config dir: %w", err)
	}
	return filepath.Join(dir, "autostart", autostartName), nil
}

// LaunchAtLogin reports whether the autostart entry is installed.
func LaunchAtLogin() bool {
	path, err := AutostartPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// SetLaunchAtLogin installs an XDG autostart entry that runs the current
// executable with the "run" command, or removes it.
func SetLaunchAtLogin(enabled bool) error {
	path, err := AutostartPath()
	if err != nil {
		return err
	}

	if !enabled {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("prefs: remove autostart entry: %w", err)
		}
		cornermask.Logger().Info("prefs: launch at login disabled", "path", path)
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("prefs: locate executable: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prefs: create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(desktopEntry(exe)), 0o644); err != nil {
		return fmt.Errorf("prefs: write autostart entry: %w", err)
	}
	cornermask.Logger().Info("prefs: launch at login enabled", "path", path)
	return nil
}

// desktopEntry renders the autostart file for exe.
func desktopEntry(exe string) string {
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	b.WriteString("Name=Corner Mask\n")
	b.WriteString("Comment=Rounded screen corners below the menu bar\n")
	fmt.Fprintf(&b, "Exec=%s run\n", quoteExec(exe))
	b.WriteString("Terminal=false\n")
	b.WriteString("NoDisplay=true\n")
	b.WriteString("X-GNOME-Autostart-enabled=true\n")
	return b.String()
}

// quoteExec quotes an Exec argument containing reserved characters.
func quoteExec(arg string) string {
	if !strings.ContainsAny(arg, " \t\n\"'\\><~|&;$*?#()`") {
		return arg
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(arg) + `"`
}
