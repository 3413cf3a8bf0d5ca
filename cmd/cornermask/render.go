package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"log"
	"os"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/cornermask"
)

func cmdRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	var (
		width   = fs.Int("width", 1920, "image width")
		height  = fs.Int("height", 1080, "image height")
		style   = fs.String("style", cornermask.DefaultStyle.String(), "corner preset")
		menuBar = fs.Int("menubar", cornermask.DefaultMenuBarHeight, "menu-bar height in logical units")
		scale   = fs.Float64("scale", 1, "device pixels per logical unit")
		fill    = fs.String("fill", "#000000", "mask colour")
		output  = fs.String("output", "mask.png", "output file")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := cornermask.ParseStyle(*style)
	if err != nil {
		return err
	}
	p := cornermask.PresetFor(s)
	if !p.Enabled {
		return errors.New("the off preset draws nothing")
	}
	c, err := colorful.Hex(*fill)
	if err != nil {
		return fmt.Errorf("invalid -fill %q: %w", *fill, err)
	}
	r, g, b := c.RGB255()

	m := cornermask.NewMaskSurface(*width, *height,
		cornermask.WithRadius(p.Radius**scale),
		cornermask.WithMenuBarHeight(int(float64(*menuBar)**scale)),
		cornermask.WithFillColor(color.RGBA{R: r, G: g, B: b, A: 0xff}),
	)

	f, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := png.Encode(f, m.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", *output, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Printf("Mask saved to %s (%dx%d, %s)\n", *output, m.Width(), m.Height(), p.ID)
	return nil
}
