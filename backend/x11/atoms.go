// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package x11

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

type atoms struct {
	cmSelection    xproto.Atom
	currentDesktop xproto.Atom
	workarea       xproto.Atom
	wmName         xproto.Atom
	utf8String     xproto.Atom
	wmWindowType   xproto.Atom
	typeUtility    xproto.Atom
	wmState        xproto.Atom
	stateBelow     xproto.Atom
	stateSticky    xproto.Atom
	stateSkipTask  xproto.Atom
	stateSkipPager xproto.Atom
	wmDesktop      xproto.Atom
	motifHints     xproto.Atom
	resourceMgr    xproto.Atom
}

// internAtoms resolves every atom in one round trip per name, issuing all
// requests before waiting for any reply.
func internAtoms(c *xgb.Conn) (atoms, error) {
	screen := xproto.Setup(c).DefaultScreen(c)
	screenNum := 0
	for i, s := range xproto.Setup(c).Roots {
		if s.Root == screen.Root {
			screenNum = i
		}
	}

	var a atoms
	table := []struct {
		name string
		dst  *xproto.Atom
	}{
		{fmt.Sprintf("_NET_WM_CM_S%d", screenNum), &a.cmSelection},
		{"_NET_CURRENT_DESKTOP", &a.currentDesktop},
		{"_NET_WORKAREA", &a.workarea},
		{"_NET_WM_NAME", &a.wmName},
		{"UTF8_STRING", &a.utf8String},
		{"_NET_WM_WINDOW_TYPE", &a.wmWindowType},
		{"_NET_WM_WINDOW_TYPE_UTILITY", &a.typeUtility},
		{"_NET_WM_STATE", &a.wmState},
		{"_NET_WM_STATE_BELOW", &a.stateBelow},
		{"_NET_WM_STATE_STICKY", &a.stateSticky},
		{"_NET_WM_STATE_SKIP_TASKBAR", &a.stateSkipTask},
		{"_NET_WM_STATE_SKIP_PAGER", &a.stateSkipPager},
		{"_NET_WM_DESKTOP", &a.wmDesktop},
		{"_MOTIF_WM_HINTS", &a.motifHints},
		{"RESOURCE_MANAGER", &a.resourceMgr},
	}

	cookies := make([]xproto.InternAtomCookie, len(table))
	for i, t := range table {
		cookies[i] = xproto.InternAtom(c, false, uint16(len(t.name)), t.name)
	}
	for i, t := range table {
		reply, err := cookies[i].Reply()
		if err != nil {
			return atoms{}, fmt.Errorf("x11: intern atom %s: %w", t.name, err)
		}
		*t.dst = reply.Atom
	}
	return a, nil
}
