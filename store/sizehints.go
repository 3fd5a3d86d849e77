package store

import (
	"github.com/jezek/xgb/xproto"

	"github.com/leukipp/wmgo/common"
)

// ApplyClampAndHints is the §4.2 geometry-adjustment algorithm: it clamps a
// proposed border-exclusive geometry to the monitor's usable area (unless
// interactive, which allows dragging past the edge) and then, for clients
// that honor sizing hints, rounds width/height to the base+increment grid
// and applies min/max and aspect-ratio constraints per ICCCM 4.1.2.3.
//
// Returns the adjusted (x, y, w, h) and whether any of them differs from
// the client's stored geometry.
func ApplyClampAndHints(c *Client, x, y, w, h int, interactive bool) (int, int, int, int, bool) {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}

	if c.Mon != nil {
		if interactive {
			if x > c.Mon.MX+c.Mon.MW {
				x = c.Mon.MX + c.Mon.MW - w
			}
			if y > c.Mon.MY+c.Mon.MH {
				y = c.Mon.MY + c.Mon.MH - h
			}
			if x+w+2*c.BW < c.Mon.MX {
				x = c.Mon.MX
			}
			if y+h+2*c.BW < c.Mon.MY {
				y = c.Mon.MY
			}
		} else {
			if x > c.Mon.WX+c.Mon.WW {
				x = c.Mon.WX + c.Mon.WW - w - 2*c.BW
			}
			if y > c.Mon.WY+c.Mon.WH {
				y = c.Mon.WY + c.Mon.WH - h - 2*c.BW
			}
			if x+w+2*c.BW < c.Mon.WX {
				x = c.Mon.WX
			}
			if y+h+2*c.BW < c.Mon.WY {
				y = c.Mon.WY
			}
		}
	}

	// Bar-height floor (§4.2 item 3): never shrink below the bar height.
	barHeight := barHeightPx()
	if h < barHeight {
		h = barHeight
	}
	if w < barHeight {
		w = barHeight
	}

	if common.Config.ResizeHints || c.IsFloating || (c.Mon != nil && c.Mon.Lt[c.Mon.Sellt] != nil && c.Mon.Lt[c.Mon.Sellt].Arrange == nil) {
		w, h = applySizeHints(c, w, h)
	} else {
		// Even without full resize-hints honoring, the client is still
		// clamped to its min/max size hints.
		if c.MinW > 0 && w < c.MinW {
			w = c.MinW
		}
		if c.MinH > 0 && h < c.MinH {
			h = c.MinH
		}
		if c.MaxW > 0 && w > c.MaxW {
			w = c.MaxW
		}
		if c.MaxH > 0 && h > c.MaxH {
			h = c.MaxH
		}
	}

	changed := x != c.X || y != c.Y || w != c.W || h != c.H
	return x, y, w, h, changed
}

// sendConfigureNotify synthesizes a ConfigureNotify so clients that only
// react to that event (rather than the actual resize reply) learn their
// new geometry, per ICCCM 4.1.5.
func sendConfigureNotify(c *Client) {
	event := xproto.ConfigureNotifyEvent{
		Event:            c.Win,
		Window:           c.Win,
		AboveSibling:     0,
		X:                int16(c.X),
		Y:                int16(c.Y),
		Width:            uint16(c.W),
		Height:           uint16(c.H),
		BorderWidth:      uint16(c.BW),
		OverrideRedirect: false,
	}
	xproto.SendEvent(X.Conn(), false, c.Win, xproto.EventMaskStructureNotify, string(event.Bytes()))
}

// applySizeHints implements the base/increment/aspect arithmetic of ICCCM
// 4.1.2.3: clamp aspect ratio, subtract base size, round down to the
// nearest increment multiple, re-add base size, then clamp to min/max.
func applySizeHints(c *Client, w, h int) (int, int) {
	baseIsMin := c.BaseW == c.MinW && c.BaseH == c.MinH

	if c.MinA > 0 && c.MaxA > 0 {
		bw, bh := w, h
		if !baseIsMin {
			bw -= c.BaseW
			bh -= c.BaseH
		}
		aspect := float64(bw) / float64(bh)
		if float64(bh)/float64(bw) > c.MinA {
			bh = int(float64(bw) * c.MinA)
			if !baseIsMin {
				bh += c.BaseH
			}
			h = bh
		} else if aspect > c.MaxA {
			bw = int(float64(bh) * c.MaxA)
			if !baseIsMin {
				bw += c.BaseW
			}
			w = bw
		}
	}

	w -= c.BaseW
	h -= c.BaseH
	if c.IncW > 0 {
		w -= w % c.IncW
	}
	if c.IncH > 0 {
		h -= h % c.IncH
	}
	w += c.BaseW
	h += c.BaseH

	if c.MaxW > 0 {
		w = common.MinInt(w, c.MaxW)
	}
	if c.MaxH > 0 {
		h = common.MinInt(h, c.MaxH)
	}
	if c.MinW > 0 {
		w = common.MaxInt(w, c.MinW)
	}
	if c.MinH > 0 {
		h = common.MaxInt(h, c.MinH)
	}

	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return w, h
}

// Resize moves/resizes a client after running it through
// ApplyClampAndHints, issues the X configure request, and updates the
// cached geometry fields (§4.1 ConfigureRequest handling, §4.2).
func (c *Client) Resize(x, y, w, h int, interactive bool) {
	nx, ny, nw, nh, changed := ApplyClampAndHints(c, x, y, w, h, interactive)
	if !changed {
		return
	}
	c.X, c.Y, c.W, c.H = nx, ny, nw, nh

	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight | xproto.ConfigWindowBorderWidth)
	values := []uint32{
		uint32(int32(nx)), uint32(int32(ny)), uint32(nw), uint32(nh), uint32(c.BW),
	}
	xproto.ConfigureWindow(X.Conn(), c.Win, mask, values)
	sendConfigureNotify(c)
	Sync()
}
