// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package prefs persists the user's corner preferences.
//
// The preferences live in a small YAML file:
//
//	style: toolbar
//	launch_at_login: false
//	fill: "#000000"
//
// A Store is safe for concurrent use. It implements overlay.PresetSource and
// overlay.FillSource, so a Controller can read the active preset directly.
package prefs

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/cornermask"
)

// ErrUnknownStyle is returned when a style outside the preset table is
// selected. It wraps cornermask.ErrUnknownStyle.
var ErrUnknownStyle = fmt.Errorf("prefs: %w", cornermask.ErrUnknownStyle)

// ErrInvalidFill is returned for fill colours that are not #rrggbb.
var ErrInvalidFill = errors.New("prefs: invalid fill colour")

// DefaultFill is the mask colour used when none is configured.
const DefaultFill = "#000000"

// Config is the persisted preference set.
type Config struct {
	Style         cornermask.Style
	LaunchAtLogin bool
	Fill          string
}

// DefaultConfig returns the preferences of a fresh installation.
func DefaultConfig() Config {
	return Config{Style: cornermask.DefaultStyle, Fill: DefaultFill}
}

// file is the on-disk layout. Style is kept as text so an unknown value
// falls back to the default instead of rejecting the whole file.
type file struct {
	Style         string `yaml:"style"`
	LaunchAtLogin bool   `yaml:"launch_at_login"`
	Fill          string `yaml:"fill,omitempty"`
}

// DefaultPath returns $XDG_CONFIG_HOME/cornermask/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("prefs: config dir: %w", err)
	}
	return filepath.Join(dir, "cornermask", "config.yaml"), nil
}

// Store holds the preferences and their backing file.
type Store struct {
	mu      sync.RWMutex
	path    string
	cfg     Config
	modTime time.Time
}

// NewMemoryStore returns a store that is never written to disk.
func NewMemoryStore(cfg Config) *Store {
	return &Store{cfg: normalize(cfg)}
}

// Open loads the store at path. A missing file yields the defaults; the
// file is created on the first Save.
func Open(path string) (*Store, error) {
	s := &Store{path: path, cfg: DefaultConfig()}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file, or "" for memory stores.
func (s *Store) Path() string { return s.path }

// Load re-reads the backing file.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}

	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.mu.Lock()
		s.cfg, s.modTime = DefaultConfig(), time.Time{}
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("prefs: stat %s: %w", s.path, err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("prefs: read %s: %w", s.path, err)
	}
	cfg, err := decode(data)
	if err != nil {
		return fmt.Errorf("prefs: parse %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.cfg, s.modTime = cfg, info.ModTime()
	s.mu.Unlock()
	return nil
}

func decode(data []byte) (Config, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	cfg.LaunchAtLogin = f.LaunchAtLogin
	if f.Style != "" {
		style, err := cornermask.ParseStyle(f.Style)
		if err != nil {
			cornermask.Logger().Warn("prefs: unknown style, using default", "style", f.Style, "default", cfg.Style)
		} else {
			cfg.Style = style
		}
	}
	if f.Fill != "" {
		if _, err := parseFill(f.Fill); err != nil {
			cornermask.Logger().Warn("prefs: invalid fill, using default", "fill", f.Fill)
		} else {
			cfg.Fill = f.Fill
		}
	}
	return cfg, nil
}

func encode(cfg Config) ([]byte, error) {
	return yaml.Marshal(file{
		Style:         cfg.Style.String(),
		LaunchAtLogin: cfg.LaunchAtLogin,
		Fill:          cfg.Fill,
	})
}

// Save writes the preferences atomically.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}

	s.mu.RLock()
	data, err := encode(s.cfg)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("prefs: encode: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("prefs: create config dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("prefs: write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("prefs: rename temp file: %w", err)
	}

	if info, err := os.Stat(s.path); err == nil {
		s.mu.Lock()
		s.modTime = info.ModTime()
		s.mu.Unlock()
	}
	cornermask.Logger().Debug("prefs: saved", "path", s.path)
	return nil
}

// Config returns a copy of the current preferences.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Style returns the selected style.
func (s *Store) Style() cornermask.Style {
	return s.Config().Style
}

// ActivePreset implements overlay.PresetSource.
func (s *Store) ActivePreset() cornermask.Preset {
	return cornermask.PresetFor(s.Style())
}

// SetStyle selects a style and saves the store.
func (s *Store) SetStyle(style cornermask.Style) error {
	if !style.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownStyle, int(style))
	}
	s.mu.Lock()
	s.cfg.Style = style
	s.mu.Unlock()
	return s.Save()
}

// FillColor implements overlay.FillSource.
func (s *Store) FillColor() color.Color {
	c, err := parseFill(s.Config().Fill)
	if err != nil {
		return color.Black
	}
	return c
}

// SetFill sets the mask colour from a #rrggbb string and saves the store.
func (s *Store) SetFill(hex string) error {
	if _, err := parseFill(hex); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg.Fill = hex
	s.mu.Unlock()
	return s.Save()
}

// SetLaunchAtLogin installs or removes the autostart entry and records
// the choice.
func (s *Store) SetLaunchAtLogin(enabled bool) error {
	if err := SetLaunchAtLogin(enabled); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg.LaunchAtLogin = enabled
	s.mu.Unlock()
	return s.Save()
}

func parseFill(hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFill, hex)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func normalize(cfg Config) Config {
	if !cfg.Style.Valid() {
		cfg.Style = cornermask.DefaultStyle
	}
	if _, err := parseFill(cfg.Fill); err != nil {
		cfg.Fill = DefaultFill
	}
	return cfg
}
