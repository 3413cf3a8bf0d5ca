package cornermask

import (
	"image/color"
	"math"
	"testing"
)

func TestMaskOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []MaskOption
		want maskOptions
	}{
		{"defaults", nil, maskOptions{fill: color.Black, menuBarHeight: DefaultMenuBarHeight}},
		{"radius", []MaskOption{WithRadius(21)}, maskOptions{fill: color.Black, radius: 21, menuBarHeight: DefaultMenuBarHeight}},
		{"NaN radius", []MaskOption{WithRadius(math.NaN())}, maskOptions{fill: color.Black, menuBarHeight: DefaultMenuBarHeight}},
		{"negative menu bar", []MaskOption{WithMenuBarHeight(-3)}, maskOptions{fill: color.Black}},
		{"nil fill keeps default", []MaskOption{WithFillColor(nil)}, maskOptions{fill: color.Black, menuBarHeight: DefaultMenuBarHeight}},
		{"last wins", []MaskOption{WithRadius(16), WithRadius(26), WithMenuBarHeight(30)},
			maskOptions{fill: color.Black, radius: 26, menuBarHeight: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultMaskOptions()
			for _, opt := range tt.opts {
				opt(&o)
			}
			if o != tt.want {
				t.Errorf("got %+v, want %+v", o, tt.want)
			}
		})
	}
}
