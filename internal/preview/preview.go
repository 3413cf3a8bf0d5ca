// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !headless

// Package preview shows the overlays of a virtual host in an Ebiten window.
//
// Each simulated display is drawn as a mock desktop (wallpaper, menu bar
// and an application window) with the overlay window's image composited
// on top, so presets and topology changes can be tried without touching
// the real desktop.
//
// Keys: 1-5 select a preset, A adds a display, D removes the last one, W
// switches workspace, Esc quits.
package preview

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"github.com/gogpu/cornermask"
	"github.com/gogpu/cornermask/backend/virtual"
	"github.com/gogpu/cornermask/overlay"
)

var (
	backgroundColor = color.RGBA{24, 24, 28, 255}
	menuBarColor    = color.RGBA{236, 236, 240, 255}
	windowColor     = color.RGBA{250, 250, 250, 255}
	titleBarColor   = color.RGBA{214, 214, 220, 255}
	statusColor     = color.RGBA{190, 190, 190, 255}
	wallpapers      = []color.RGBA{
		{58, 92, 160, 255},
		{120, 72, 140, 255},
		{48, 128, 110, 255},
		{170, 100, 60, 255},
	}
)

var presetKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5}

type texture struct {
	img      *ebiten.Image
	presents int
}

// Game implements ebiten.Game.
type Game struct {
	scene
	textures map[*virtual.Window]texture
	width    int
	height   int
}

// New creates a preview of host. The controller must already be started.
func New(host *virtual.Host, ctrl *overlay.Controller, store StyleStore) *Game {
	return &Game{
		scene:    scene{host: host, ctrl: ctrl, store: store},
		textures: make(map[*virtual.Window]texture),
		width:    1280,
		height:   720,
	}
}

// Run opens the preview window and blocks until it is closed.
func Run(g *Game) error {
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle("cornermask preview")
	ebiten.SetWindowResizable(true)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}

// Update implements ebiten.Game. Posted host work runs here, so the
// virtual host and the controller are only used from this goroutine.
func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	g.host.Drain()

	a, preset := g.pollKeys()
	if a == actionQuit {
		return ebiten.Termination
	}
	if err := g.apply(a, preset); err != nil {
		cornermask.Logger().Warn("preview: action failed", "err", err)
	}
	return nil
}

func (g *Game) pollKeys() (action, int) {
	for i, k := range presetKeys {
		if inpututil.IsKeyJustPressed(k) {
			return actionPreset, i
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return actionQuit, 0
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		return actionAddDisplay, 0
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		return actionRemoveDisplay, 0
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		return actionWorkspace, 0
	}
	return actionNone, 0
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	displays, err := g.host.Displays()
	if err != nil {
		return
	}
	vp := fit(union(displays), g.width, g.height-20)

	for i, d := range displays {
		g.drawDesktop(screen, vp, d, wallpapers[i%len(wallpapers)])
	}
	g.drawOverlays(screen, vp)
	g.drawStatus(screen)
}

func fillRect(dst *ebiten.Image, r image.Rectangle, c color.Color) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	dst.SubImage(r).(*ebiten.Image).Fill(c)
}

// drawDesktop paints what would sit below the overlay: wallpaper, the
// menu bar and one application window inside the visible frame.
func (g *Game) drawDesktop(screen *ebiten.Image, vp viewport, d overlay.Display, wallpaper color.Color) {
	fillRect(screen, vp.rect(d.Frame), wallpaper)

	bar := d.Frame
	bar.Max.Y = bar.Min.Y + overlay.MenuBarHeight(d)
	fillRect(screen, vp.rect(bar), menuBarColor)

	v := d.VisibleFrame
	win := image.Rect(v.Min.X+v.Dx()/8, v.Min.Y+v.Dy()/8, v.Max.X-v.Dx()/8, v.Max.Y-v.Dy()/6)
	fillRect(screen, vp.rect(win), windowColor)
	title := win
	title.Max.Y = title.Min.Y + 28
	fillRect(screen, vp.rect(title), titleBarColor)
}

// drawOverlays composites every open overlay window, uploading its pixels
// again only after a new Present.
func (g *Game) drawOverlays(screen *ebiten.Image, vp viewport) {
	open := g.host.Windows()
	live := make(map[*virtual.Window]bool, len(open))

	for _, w := range open {
		live[w] = true
		img := w.Image()
		if img == nil {
			continue
		}
		t, ok := g.textures[w]
		if !ok || t.presents != w.Presents() {
			if t.img == nil || t.img.Bounds().Size() != img.Bounds().Size() {
				if t.img != nil {
					t.img.Deallocate()
				}
				t.img = ebiten.NewImage(img.Bounds().Dx(), img.Bounds().Dy())
			}
			t.img.WritePixels(img.Pix)
			t.presents = w.Presents()
			g.textures[w] = t
		}

		op := &ebiten.DrawImageOptions{}
		op.Filter = ebiten.FilterLinear
		op.GeoM.Scale(vp.scale, vp.scale)
		at := vp.apply(w.Config().Frame.Min)
		op.GeoM.Translate(at.X, at.Y)
		screen.DrawImage(t.img, op)
	}

	for w, t := range g.textures {
		if !live[w] {
			t.img.Deallocate()
			delete(g.textures, w)
		}
	}
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	p := g.store.ActivePreset()
	ds, _ := g.host.Displays()
	line := fmt.Sprintf("%s (%s)  displays: %d  workspace: %d   [1-5] preset  [A]dd  [D]rop  [W]orkspace  [Esc]",
		p.DisplayName, p.ID, len(ds), g.host.Workspace())
	text.Draw(screen, line, basicfont.Face7x13, 8, g.height-6, statusColor)
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = max(outsideWidth, 1), max(outsideHeight, 1)
	return g.width, g.height
}
