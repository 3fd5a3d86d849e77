package store

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// ConfigureOnly issues a raw X configure for position/size without running
// size-hint clamping, and records (x, y, w, h) as c's stored geometry.
func ConfigureOnly(c *Client, x, y, w, h int) {
	c.X, c.Y, c.W, c.H = x, y, w, h
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{uint32(int32(x)), uint32(int32(y)), uint32(w), uint32(h)}
	xproto.ConfigureWindow(X.Conn(), c.Win, mask, values)
}

// DrawBar is wired by the bar package at startup (cmd/wm/main.go) to avoid
// an import cycle between store and bar; it defaults to a no-op so Restack
// is safe to call before that wiring happens.
var DrawBar func(*Monitor) = func(*Monitor) {}

// Restack implements §4.3 restack: raise the selected client if it's
// floating (or the layout is floating), else stack every visible tiled
// client below the bar in focus order, then drain queued EnterNotify
// events so the restack itself doesn't trigger a spurious focus change.
func Restack(m *Monitor) {
	DrawBar(m)

	if m.Sel == nil {
		return
	}

	if m.Sel.IsFloating || m.Lt[m.Sellt] == nil || m.Lt[m.Sellt].Arrange == nil {
		raise(m.Sel.Win)
	}

	if m.Lt[m.Sellt] != nil && m.Lt[m.Sellt].Arrange != nil {
		above := m.BarWin
		for c := m.Stack; c != nil; c = c.SNext {
			if !c.IsFloating && c.IsVisible() {
				stackBelow(c.Win, above)
				above = c.Win
			}
		}
	}

	Sync()
	drainEnterNotify()
}

func raise(win xproto.Window) {
	values := []uint32{uint32(xproto.StackModeAbove)}
	xproto.ConfigureWindow(X.Conn(), win, xproto.ConfigWindowStackMode, values)
}

func stackBelow(win, sibling xproto.Window) {
	mask := uint16(xproto.ConfigWindowSibling | xproto.ConfigWindowStackMode)
	values := []uint32{uint32(sibling), uint32(xproto.StackModeBelow)}
	xproto.ConfigureWindow(X.Conn(), win, mask, values)
}

// PendingEvent holds a single event looked ahead by drainEnterNotify that
// wasn't an EnterNotify and so must be replayed to the real dispatcher;
// NextEvent (consumed by the events package's main loop) checks it first.
var PendingEvent xgb.Event

// NextEvent returns PendingEvent if drainEnterNotify stashed one, else
// blocks for the next event on the connection, the way the teacher's
// xevent loop does via its single xgbutil connection.
func NextEvent() (xgb.Event, error) {
	if PendingEvent != nil {
		ev := PendingEvent
		PendingEvent = nil
		return ev, nil
	}
	return X.Conn().WaitForEvent()
}

// drainEnterNotify discards queued EnterNotify events immediately after a
// restack, since server-generated crossing events from the restack itself
// must not feed the focus-follows-mouse handler (§4.3).
func drainEnterNotify() {
	if PendingEvent != nil {
		return
	}
	conn := X.Conn()
	for {
		ev, err := conn.PollForEvent()
		if err != nil || ev == nil {
			return
		}
		if _, ok := ev.(xproto.EnterNotifyEvent); !ok {
			PendingEvent = ev
			return
		}
	}
}
