// Package layout implements the C5 tiling/monocle/floating arrangement
// functions, generalized from the teacher's desktop package (which only
// ever *read* geometry from some other window manager) into the code that
// actually *assigns* it.
package layout

import (
	"fmt"

	"github.com/leukipp/wmgo/common"
	"github.com/leukipp/wmgo/store"
)

// cell is one client's computed border-exclusive geometry within a Tile
// pass, factored out of Tile so the master/stack arithmetic is testable
// without an X connection.
type cell struct {
	x, y, w, h int
}

// tileCells computes n clients' geometries (n >= 1) for a master/stack
// split at mfact with nmaster masters in usable area (wx, wy, ww, wh),
// given each client's border width in bws. Mirrors dwm's tile() recurrence:
// master column width is ww*mfact once there are more clients than masters
// (zero when nmaster is 0, so the stack spans the full width), each
// column's clients get equal residual height top to bottom.
func tileCells(n, nmaster int, mfact float64, wx, wy, ww, wh int, bws []int) []cell {
	mw := ww
	if n > nmaster {
		mw = 0
		if nmaster > 0 {
			mw = int(float64(ww) * mfact)
		}
	}

	masters := common.MinInt(n, nmaster)
	cells := make([]cell, n)
	var masterY, stackY int
	for i := 0; i < n; i++ {
		bw := bws[i]
		if i < masters {
			h := (wh - masterY) / (masters - i)
			cells[i] = cell{wx, wy + masterY, mw - 2*bw, h - 2*bw}
			masterY += h
		} else {
			h := (wh - stackY) / (n - i)
			cells[i] = cell{wx + mw, wy + stackY, ww - mw - 2*bw, h - 2*bw}
			stackY += h
		}
	}
	return cells
}

// Tile arranges m's tiled clients into a master column and a stack column
// split at mfact, both stacked vertically with equal residual heights.
func Tile(m *store.Monitor) {
	clients := m.TiledClients()
	n := len(clients)
	if n == 0 {
		return
	}

	bws := make([]int, n)
	for i, c := range clients {
		bws[i] = c.BW
	}
	cells := tileCells(n, m.NMaster, m.MFact, m.WX, m.WY, m.WW, m.WH, bws)
	for i, c := range clients {
		c.Resize(cells[i].x, cells[i].y, cells[i].w, cells[i].h, false)
	}
}

// Monocle places every tiled client at the full usable area and overrides
// the monitor's displayed layout symbol to "[N]".
func Monocle(m *store.Monitor) {
	clients := m.TiledClients()
	if len(clients) > 0 {
		m.LtSymbol = fmt.Sprintf("[%d]", len(clients))
	}
	for _, c := range clients {
		c.Resize(m.WX, m.WY, m.WW-2*c.BW, m.WH-2*c.BW, false)
	}
}

// Default builds the two-slot layout pair a monitor starts with: tile in
// slot 0 (the default) and floating in slot 1.
// Symbols come from common.Config.LayoutSymbols, the same slots the
// teacher's bar rendering reads for its layout indicator.
func Default() [2]*store.Layout {
	symbols := common.Config.LayoutSymbols
	tile := &store.Layout{Symbol: symbolAt(symbols, 0, "[]="), Arrange: Tile}
	floating := &store.Layout{Symbol: symbolAt(symbols, 2, "><>"), Arrange: nil}
	return [2]*store.Layout{tile, floating}
}

// All returns every compiled-in layout by symbol, used by the key-binding
// table to cycle or jump directly to monocle/floating.
func All() []*store.Layout {
	symbols := common.Config.LayoutSymbols
	return []*store.Layout{
		{Symbol: symbolAt(symbols, 0, "[]="), Arrange: Tile},
		{Symbol: symbolAt(symbols, 1, "[M]"), Arrange: Monocle},
		{Symbol: symbolAt(symbols, 2, "><>"), Arrange: nil},
	}
}

func symbolAt(symbols []string, i int, fallback string) string {
	if i < len(symbols) {
		return symbols[i]
	}
	return fallback
}

// ShowHide walks the focus stack top-down, moving visible clients onto
// screen and invisible ones far off to the left, per §4.3.
func ShowHide(c *store.Client) {
	if c == nil {
		return
	}
	if c.IsVisible() {
		moveOnScreen(c)
		if c.IsFloating && !c.IsFullscreen {
			c.Resize(c.X, c.Y, c.W, c.H, false)
		}
		ShowHide(c.SNext)
	} else {
		ShowHide(c.SNext)
		moveOffScreen(c)
	}
}

func moveOnScreen(c *store.Client) {
	// Geometry already holds the intended on-screen position; a direct
	// configure (not Resize, which would re-run hint clamping) restores it.
	store.ConfigureOnly(c, c.X, c.Y, c.W, c.H)
}

func moveOffScreen(c *store.Client) {
	// Keep the stored x so moveOnScreen can bring the client back to it.
	x := c.X
	store.ConfigureOnly(c, -2*(c.W+2*c.BW), c.Y, c.W, c.H)
	c.X = x
}

// Arrange runs showhide, the layout's arrange function (if any), and
// restack for a single monitor; with m == nil it runs showhide+arrange on
// every monitor without restacking (§4.3 "arrange(m)").
func Arrange(m *store.Monitor) {
	if m != nil {
		ShowHide(m.Stack)
		if m.Lt[m.Sellt] != nil && m.Lt[m.Sellt].Arrange != nil {
			m.Lt[m.Sellt].Arrange(m)
		}
		store.Restack(m)
		return
	}
	for mon := store.Mons; mon != nil; mon = mon.Next {
		ShowHide(mon.Stack)
		if mon.Lt[mon.Sellt] != nil && mon.Lt[mon.Sellt].Arrange != nil {
			mon.Lt[mon.Sellt].Arrange(mon)
		}
	}
}
