package events

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/jezek/xgbutil/icccm"

	"github.com/leukipp/wmgo/bar"
	"github.com/leukipp/wmgo/common"
	"github.com/leukipp/wmgo/layout"
	"github.com/leukipp/wmgo/store"

	log "github.com/sirupsen/logrus"
)

// Loop is the C6 control loop: it reads one event at a time from the X
// connection and dispatches it through a fixed per-type table, the way
// the teacher's xevent.Main callback registry does, but inline rather
// than via a callback registry, since this module owns the connection
// outright instead of sharing it with another window manager (§4.1:
// "indexes a fixed table by X event type ... in O(1)").
func Loop() {
	for store.Running {
		ev, xerr := store.NextEvent()
		if xerr != nil {
			handleXError(xerr)
			continue
		}
		dispatch(ev)
	}
}

// handleXError runs an error value arriving off the connection through the
// §7.3 allow-list: benign races (destroyed-window accesses) are dropped
// silently, anything else is logged per §7.4's fatal-class default instead
// of being swallowed.
func handleXError(err error) {
	xerr, ok := err.(xgb.Error)
	if !ok {
		log.Error("X connection error: ", err)
		return
	}
	if store.ClassifyError(xerr) == store.ErrorUnexpected {
		log.Error("Unexpected X error: ", xerr)
	}
}

// dispatch is the fixed table: a Go type switch over the fourteen
// consumed event types, compiled to a jump over the event's concrete
// type. Anything else is ignored (§4.1).
func dispatch(ev xgb.Event) {
	switch e := ev.(type) {
	case xproto.ButtonPressEvent:
		onButtonPress(e)
	case xproto.ClientMessageEvent:
		onClientMessage(e)
	case xproto.ConfigureRequestEvent:
		onConfigureRequest(e)
	case xproto.ConfigureNotifyEvent:
		onConfigureNotify(e)
	case xproto.DestroyNotifyEvent:
		onDestroyNotify(e)
	case xproto.EnterNotifyEvent:
		onEnterNotify(e)
	case xproto.ExposeEvent:
		onExpose(e)
	case xproto.FocusInEvent:
		onFocusIn(e)
	case xproto.KeyPressEvent:
		onKeyPress(e)
	case xproto.MappingNotifyEvent:
		onMappingNotify(e)
	case xproto.MapRequestEvent:
		onMapRequest(e)
	case xproto.MotionNotifyEvent:
		// Only meaningful inside the interactive move/resize loop, which
		// reads MotionNotify directly; outside it, ignored.
	case xproto.PropertyNotifyEvent:
		onPropertyNotify(e)
	case xproto.UnmapNotifyEvent:
		onUnmapNotify(e)
	}
}

func onMapRequest(e xproto.MapRequestEvent) {
	attrs, err := xproto.GetWindowAttributes(store.X.Conn(), e.Window).Reply()
	if err == nil && attrs.OverrideRedirect {
		return
	}
	manage(e.Window)
}

func onUnmapNotify(e xproto.UnmapNotifyEvent) {
	c := store.ClientForWindow(e.Window)
	if c == nil {
		return
	}
	if len(e.Bytes()) > 0 && e.Bytes()[0]&0x80 != 0 {
		// Synthetic (send_event) unmap: ICCCM withdrawal, leave it managed
		// under the WM_STATE=Withdrawn convention rather than tearing it down.
		return
	}
	unmanage(c, false)
}

func onDestroyNotify(e xproto.DestroyNotifyEvent) {
	if c := store.ClientForWindow(e.Window); c != nil {
		unmanage(c, true)
	}
}

func onConfigureRequest(e xproto.ConfigureRequestEvent) {
	c := store.ClientForWindow(e.Window)
	if c == nil {
		values := []uint32{}
		var mask uint16
		if e.ValueMask&xproto.ConfigWindowX != 0 {
			values = append(values, uint32(e.X))
			mask |= xproto.ConfigWindowX
		}
		if e.ValueMask&xproto.ConfigWindowY != 0 {
			values = append(values, uint32(e.Y))
			mask |= xproto.ConfigWindowY
		}
		if e.ValueMask&xproto.ConfigWindowWidth != 0 {
			values = append(values, uint32(e.Width))
			mask |= xproto.ConfigWindowWidth
		}
		if e.ValueMask&xproto.ConfigWindowHeight != 0 {
			values = append(values, uint32(e.Height))
			mask |= xproto.ConfigWindowHeight
		}
		if e.ValueMask&xproto.ConfigWindowBorderWidth != 0 {
			values = append(values, uint32(e.BorderWidth))
			mask |= xproto.ConfigWindowBorderWidth
		}
		if e.ValueMask&xproto.ConfigWindowSibling != 0 {
			values = append(values, uint32(e.Sibling))
			mask |= xproto.ConfigWindowSibling
		}
		if e.ValueMask&xproto.ConfigWindowStackMode != 0 {
			values = append(values, uint32(e.StackMode))
			mask |= xproto.ConfigWindowStackMode
		}
		xproto.ConfigureWindow(store.X.Conn(), e.Window, mask, values)
		return
	}

	isFloatingLayout := c.Mon.Lt[c.Mon.Sellt] == nil || c.Mon.Lt[c.Mon.Sellt].Arrange == nil
	if c.IsFloating || isFloatingLayout {
		x, y, w, h := c.X, c.Y, c.W, c.H
		if e.ValueMask&xproto.ConfigWindowX != 0 {
			x = int(e.X)
		}
		if e.ValueMask&xproto.ConfigWindowY != 0 {
			y = int(e.Y)
		}
		if e.ValueMask&xproto.ConfigWindowWidth != 0 {
			w = int(e.Width)
		}
		if e.ValueMask&xproto.ConfigWindowHeight != 0 {
			h = int(e.Height)
		}
		if e.ValueMask&xproto.ConfigWindowBorderWidth != 0 {
			c.BW = int(e.BorderWidth)
		}

		if x+w > c.Mon.MX+c.Mon.MW {
			x = c.Mon.MX + (c.Mon.MW-w)/2
		}
		if y+h > c.Mon.MY+c.Mon.MH {
			y = c.Mon.MY + (c.Mon.MH-h)/2
		}

		if c.IsVisible() {
			positionOnly := (x != c.X || y != c.Y) && w == c.W && h == c.H
			c.X, c.Y, c.W, c.H = x, y, w, h
			if positionOnly {
				sendSyntheticConfigure(c)
			} else {
				store.ConfigureOnly(c, x, y, w, h)
			}
		} else {
			c.X, c.Y, c.W, c.H = x, y, w, h
		}
	} else {
		if e.ValueMask&xproto.ConfigWindowBorderWidth != 0 {
			c.BW = int(e.BorderWidth)
		}
		sendSyntheticConfigure(c)
	}
}

func sendSyntheticConfigure(c *store.Client) {
	event := xproto.ConfigureNotifyEvent{
		Event: c.Win, Window: c.Win,
		X: int16(c.X), Y: int16(c.Y),
		Width: uint16(c.W), Height: uint16(c.H), BorderWidth: uint16(c.BW),
	}
	xproto.SendEvent(store.X.Conn(), false, c.Win, xproto.EventMaskStructureNotify, string(event.Bytes()))
}

func onConfigureNotify(e xproto.ConfigureNotifyEvent) {
	if e.Window != store.Root {
		return
	}
	store.UpdateMonitors(layout.Default())
	for m := store.Mons; m != nil; m = m.Next {
		store.UpdateBarGeometry(m)
		for c := m.Clients; c != nil; c = c.Next {
			if c.IsFullscreen {
				store.ConfigureOnly(c, m.MX, m.MY, m.MW, m.MH)
			}
		}
	}
	layout.Arrange(nil)
}

func onPropertyNotify(e xproto.PropertyNotifyEvent) {
	if e.Window == store.Root && store.Atoms[store.NetWMName] != 0 {
		if e.Atom == xproto.AtomWMName || e.Atom == store.Atoms[store.NetWMName] {
			refreshStatusText()
			return
		}
	}

	c := store.ClientForWindow(e.Window)
	if c == nil {
		return
	}

	switch e.Atom {
	case xproto.AtomWMTransientFor:
		if !c.IsFloating {
			if owner, err := icccm.WmTransientForGet(store.X, c.Win); err == nil {
				if ownerClient := store.ClientForWindow(owner); ownerClient != nil {
					c.IsFloating = true
					layout.Arrange(c.Mon)
				}
			}
		}
	case xproto.AtomWMNormalHints:
		c.UpdateSizeHints()
	case xproto.AtomWMHints:
		c.UpdateWMHints()
		for m := store.Mons; m != nil; m = m.Next {
			store.DrawBar(m)
		}
	default:
		if e.Atom == store.Atoms[store.NetWMName] || e.Atom == xproto.AtomWMName {
			c.UpdateTitle()
			if c == store.SelectedClient() {
				store.DrawBar(c.Mon)
			}
		}
		if e.Atom == store.Atoms[store.NetWMWindowType] {
			c.UpdateWindowType(setFullscreen, setFloatingFlag)
		}
	}
}

func refreshStatusText() {
	name, err := icccm.WmNameGet(store.X, store.Root)
	if err != nil || name == "" {
		store.StatusText = common.Fallback()
	} else {
		store.StatusText = name
	}
	for m := store.Mons; m != nil; m = m.Next {
		store.DrawBar(m)
	}
}

func onClientMessage(e xproto.ClientMessageEvent) {
	c := store.ClientForWindow(e.Window)
	if c == nil {
		return
	}
	data := e.Data.Data32

	if e.Type == store.Atoms[store.NetWMState] && len(data) >= 3 {
		fullscreenAtom := uint32(store.Atoms[store.NetWMStateFullscreen])
		if data[1] == fullscreenAtom || data[2] == fullscreenAtom {
			switch data[0] {
			case 0:
				setFullscreen(c, false)
			case 1:
				setFullscreen(c, true)
			case 2:
				setFullscreen(c, !c.IsFullscreen)
			}
		}
	} else if e.Type == store.Atoms[store.NetActiveWindow] {
		if c != store.SelectedClient() && !c.IsUrgent {
			c.IsUrgent = true
			store.DrawBar(c.Mon)
		}
	}
}

func onKeyPress(e xproto.KeyPressEvent) {
	sym := store.KeysymForKeycode(e.Detail)
	clean := store.CleanMask(e.State)
	for _, kb := range Keys {
		want, ok := store.KeysymFor(kb.Key)
		if !ok || want != sym {
			continue
		}
		if store.CleanMask(kb.Mod) == clean {
			kb.Run()
			return
		}
	}
}

func onButtonPress(e xproto.ButtonPressEvent) {
	m := store.WinToMon(e.Event, store.ClientForWindow)
	if m != store.Selmon {
		store.Focus(nil)
		store.Selmon = m
	}

	if c := store.ClientForWindow(e.Event); c != nil {
		store.Focus(c)
		store.Restack(c.Mon)
		xproto.AllowEvents(store.X.Conn(), xproto.AllowReplayPointer, e.Time)

		clean := store.CleanMask(e.State)
		for _, bb := range Buttons {
			if bb.Area != store.ClickClientWin || bb.Run == nil {
				continue
			}
			if bb.Button == e.Detail && store.CleanMask(bb.Mod) == clean {
				bb.Run(c)
				return
			}
		}
		return
	}

	area, tag := store.ClickRootWin, uint32(0)
	for mon := store.Mons; mon != nil; mon = mon.Next {
		if mon.BarWin == e.Event {
			area, tag = bar.ClassifyClick(mon, int(e.EventX))
			break
		}
	}

	clean := store.CleanMask(e.State)
	for _, bb := range Buttons {
		if bb.Area != area || (bb.Run == nil && area != store.ClickTagBar) {
			continue
		}
		if bb.Button != e.Detail || store.CleanMask(bb.Mod) != clean {
			continue
		}
		if area == store.ClickTagBar {
			viewTag(tag)
		} else {
			bb.Run(nil)
		}
		return
	}
}

func onEnterNotify(e xproto.EnterNotifyEvent) {
	if (e.Mode != xproto.NotifyModeNormal || e.Detail == xproto.NotifyDetailInferior) && e.Event != store.Root {
		return
	}
	c := store.ClientForWindow(e.Event)
	if c == nil && e.Event == store.Root {
		store.Focus(nil)
		return
	}
	if c != nil && c != store.SelectedClient() {
		store.Focus(c)
	}
}

func onFocusIn(e xproto.FocusInEvent) {
	sel := store.SelectedClient()
	if sel != nil && e.Event != sel.Win {
		sel.SetFocus()
	}
}

func onExpose(e xproto.ExposeEvent) {
	if e.Count != 0 {
		return
	}
	for m := store.Mons; m != nil; m = m.Next {
		if m.BarWin == e.Window {
			store.DrawBar(m)
		}
	}
}

func onMappingNotify(e xproto.MappingNotifyEvent) {
	if e.Request == xproto.MappingKeyboard || e.Request == xproto.MappingModifier {
		GrabKeys()
	}
}
