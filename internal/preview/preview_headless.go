// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build headless

package preview

import (
	"errors"

	"github.com/gogpu/cornermask/backend/virtual"
	"github.com/gogpu/cornermask/overlay"
)

// ErrHeadless is returned by Run in builds without a window system.
var ErrHeadless = errors.New("preview: built with the headless tag")

// Game is the preview state in headless builds.
type Game struct {
	scene
}

// New creates a preview of host.
func New(host *virtual.Host, ctrl *overlay.Controller, store StyleStore) *Game {
	return &Game{scene: scene{host: host, ctrl: ctrl, store: store}}
}

// Run always fails with ErrHeadless.
func Run(*Game) error { return ErrHeadless }
