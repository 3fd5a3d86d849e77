package events

import (
	"github.com/jezek/xgb/xproto"

	"github.com/leukipp/wmgo/common"
	"github.com/leukipp/wmgo/layout"
	"github.com/leukipp/wmgo/store"
)

const mouseMask = xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease | xproto.EventMaskPointerMotion

// moveMouse runs the interactive move inner loop for c (§4.1 "Interactive
// move/resize inner loop").
func moveMouse(c *store.Client) {
	interactiveLoop(c, false)
}

// resizeMouse runs the interactive resize inner loop for c, warping the
// pointer to the client's bottom-right corner first. A tiled client is
// promoted to floating before resizing, the way dwm's resizemouse does,
// since a tiled client's geometry is owned by the layout otherwise.
func resizeMouse(c *store.Client) {
	if c == nil {
		return
	}
	if !c.IsFloating && c.Mon != nil && c.Mon.Lt[c.Mon.Sellt] != nil && c.Mon.Lt[c.Mon.Sellt].Arrange != nil {
		c.IsFloating = true
		layout.Arrange(c.Mon)
	}

	conn := store.X.Conn()
	xproto.WarpPointer(conn, 0, c.Win, 0, 0, 0, 0,
		int16(c.W+c.BW-1), int16(c.H+c.BW-1))
	interactiveLoop(c, true)
}

func interactiveLoop(c *store.Client, resize bool) {
	if c == nil || c.IsFullscreen {
		return
	}
	m := c.Mon
	conn := store.X.Conn()

	cursor := store.Cursors.Move
	if resize {
		cursor = store.Cursors.Resize
	}

	grab, err := xproto.GrabPointer(conn, false, store.Root,
		uint16(mouseMask), xproto.GrabModeAsync, xproto.GrabModeAsync,
		0, cursor, xproto.TimeCurrentTime).Reply()
	if err != nil || grab.Status != xproto.GrabStatusSuccess {
		return
	}
	defer xproto.UngrabPointer(conn, xproto.TimeCurrentTime)

	pointer, err := xproto.QueryPointer(conn, store.Root).Reply()
	if err != nil {
		return
	}
	startX, startY := int(pointer.RootX), int(pointer.RootY)
	origX, origY, origW, origH := c.X, c.Y, c.W, c.H

	var lastTime uint32

	for {
		ev, err := store.NextEvent()
		if err != nil {
			return
		}

		switch e := ev.(type) {
		case xproto.MotionNotifyEvent:
			if e.Time-lastTime <= 16 {
				continue
			}
			lastTime = e.Time

			dx := int(e.RootX) - startX
			dy := int(e.RootY) - startY

			if resize {
				nw := common.MaxInt(origW+dx, 1)
				nh := common.MaxInt(origH+dy, 1)
				c.Resize(c.X, c.Y, nw, nh, true)
			} else {
				nx, ny := origX+dx, origY+dy
				nx, ny = snapToEdges(m, c, nx, ny)

				if !c.IsFloating && m.Lt[m.Sellt] != nil && m.Lt[m.Sellt].Arrange != nil {
					if abs(dx) > common.Config.SnapDistance || abs(dy) > common.Config.SnapDistance {
						c.IsFloating = true
						layout.Arrange(m)
					}
				}
				c.Resize(nx, ny, c.W, c.H, true)
			}

		case xproto.ConfigureRequestEvent:
			onConfigureRequest(e)
		case xproto.ExposeEvent:
			onExpose(e)
		case xproto.MapRequestEvent:
			onMapRequest(e)
		case xproto.ButtonReleaseEvent:
			if dest := store.RectToMon(c.WindowGeometry()); dest != c.Mon {
				migrateClientToMonitor(c, dest)
			}
			return
		}
	}
}

// snapToEdges pulls (x, y) onto the monitor's usable-area edges when
// within common.Config.SnapDistance pixels (§4.1 "snap to monitor edges
// when within snap pixels").
func snapToEdges(m *store.Monitor, c *store.Client, x, y int) (int, int) {
	snap := common.Config.SnapDistance
	if abs(x-m.WX) < snap {
		x = m.WX
	} else if abs((x+c.W+2*c.BW)-(m.WX+m.WW)) < snap {
		x = m.WX + m.WW - c.W - 2*c.BW
	}
	if abs(y-m.WY) < snap {
		y = m.WY
	} else if abs((y+c.H+2*c.BW)-(m.WY+m.WH)) < snap {
		y = m.WY + m.WH - c.H - 2*c.BW
	}
	return x, y
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// migrateClientToMonitor moves c to dest's lists and tagset, used when an
// interactive move ends with the client mostly overlapping another
// monitor (§4.1).
func migrateClientToMonitor(c *store.Client, dest *store.Monitor) {
	origin := c.Mon
	origin.DetachClient(c)
	origin.DetachStack(c)
	c.Tags = dest.Tagset[dest.Seltags]
	dest.AttachClient(c)
	dest.AttachStack(c)
	store.Selmon = dest
	store.Focus(c)
	layout.Arrange(origin)
	layout.Arrange(dest)
}
