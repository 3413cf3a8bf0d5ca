package cornermask

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownStyle is returned by ParseStyle for names outside the preset table.
var ErrUnknownStyle = errors.New("cornermask: unknown corner style")

// Style selects one entry of the preset table.
type Style int

const (
	// StyleOff disables the overlay entirely.
	StyleOff Style = -1
	// StyleSquare draws the menu-bar strip without corner cutouts.
	StyleSquare Style = 0
	// StyleTitlebar matches windows with a plain title bar.
	StyleTitlebar Style = 1
	// StyleCompactToolbar matches windows with a compact toolbar.
	StyleCompactToolbar Style = 2
	// StyleToolbar matches windows with a full toolbar.
	StyleToolbar Style = 3
)

// DefaultStyle is used when no selection has been stored.
const DefaultStyle = StyleToolbar

// Preset is one row of the fixed corner configuration table.
type Preset struct {
	Style       Style
	ID          string
	DisplayName string
	Detail      string // empty for the disabled sentinel
	Radius      float64
	Enabled     bool
}

var presets = [...]Preset{
	{Style: StyleOff, ID: "off", DisplayName: "Disable Overlay", Radius: 0, Enabled: false},
	{Style: StyleSquare, ID: "square", DisplayName: "Square Corners", Detail: "0px", Radius: 0, Enabled: true},
	{Style: StyleTitlebar, ID: "titlebar", DisplayName: "Titlebar", Detail: "16px", Radius: 16, Enabled: true},
	{Style: StyleCompactToolbar, ID: "compact-toolbar", DisplayName: "Compact Toolbar", Detail: "21px", Radius: 21, Enabled: true},
	{Style: StyleToolbar, ID: "toolbar", DisplayName: "Toolbar", Detail: "26px", Radius: 26, Enabled: true},
}

// Presets returns the preset table in menu order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets[:])
	return out
}

// PresetFor returns the preset for s. Unknown styles resolve to the
// default preset.
func PresetFor(s Style) Preset {
	for _, p := range presets {
		if p.Style == s {
			return p
		}
	}
	return PresetFor(DefaultStyle)
}

// Valid reports whether s is a row of the preset table.
func (s Style) Valid() bool {
	for _, p := range presets {
		if p.Style == s {
			return true
		}
	}
	return false
}

// String returns the preset identifier.
func (s Style) String() string {
	for _, p := range presets {
		if p.Style == s {
			return p.ID
		}
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle accepts a preset identifier ("toolbar"), its display name
// ("Compact Toolbar") or the numeric style value ("2").
func ParseStyle(s string) (Style, error) {
	name := strings.TrimSpace(s)
	for _, p := range presets {
		if strings.EqualFold(name, p.ID) || strings.EqualFold(name, p.DisplayName) {
			return p.Style, nil
		}
	}
	if n, err := strconv.Atoi(name); err == nil && Style(n).Valid() {
		return Style(n), nil
	}
	return DefaultStyle, fmt.Errorf("%w: %q", ErrUnknownStyle, s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStyle, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Style) UnmarshalText(text []byte) error {
	v, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
