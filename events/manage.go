package events

import (
	"github.com/jezek/xgb/xproto"

	"github.com/jezek/xgbutil/icccm"
	"github.com/jezek/xgbutil/xwindow"

	"github.com/leukipp/wmgo/common"
	"github.com/leukipp/wmgo/layout"
	"github.com/leukipp/wmgo/store"

	log "github.com/sirupsen/logrus"
)

// Manage is the exported entry point for manage(), used directly by
// cmd/wm/main.go's initial scan (§6 Persisted state) and indirectly by
// onMapRequest.
func Manage(win xproto.Window) {
	manage(win)
}

// manage creates a Client for a newly mapped window: reads its geometry
// and hints, assigns it a monitor and tags, clamps its position, sets its
// border, selects the events the dispatcher needs from it, grabs its
// buttons, attaches it to both lists at the head, publishes
// _NET_CLIENT_LIST, maps it, and refocuses (§4.1 MapRequest).
func manage(win xproto.Window) {
	if store.ClientForWindow(win) != nil {
		return
	}

	c := store.CreateClient(win)
	store.RegisterClient(c)

	if reply, err := xproto.GetGeometry(store.X.Conn(), xproto.Drawable(win)).Reply(); err == nil {
		c.OldBW = int(reply.BorderWidth)
	}

	geom, err := xwindow.RawGeometry(store.X, xproto.Drawable(win))
	if err == nil {
		c.X, c.Y, c.W, c.H = geom.X(), geom.Y(), geom.Width(), geom.Height()
	}

	assignMonitorAndTags(c)
	applyRules(c)

	if c.X+c.W > c.Mon.WX+c.Mon.WW {
		c.X = c.Mon.WX + c.Mon.WW - c.W - 2*c.BW
	}
	if c.Y+c.H > c.Mon.WY+c.Mon.WH {
		c.Y = c.Mon.WY + c.Mon.WH - c.H - 2*c.BW
	}
	c.X = common.MaxInt(c.X, c.Mon.WX)
	c.Y = common.MaxInt(c.Y, c.Mon.WY)

	xproto.ConfigureWindow(store.X.Conn(), win, xproto.ConfigWindowBorderWidth, []uint32{uint32(c.BW)})
	c.SetBorder(common.Config.NormalScheme)
	store.ConfigureOnly(c, c.X, c.Y, c.W, c.H)

	selectMask := uint32(xproto.EventMaskEnterWindow | xproto.EventMaskFocusChange |
		xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify)
	xproto.ChangeWindowAttributes(store.X.Conn(), win, xproto.CwEventMask, []uint32{selectMask})

	GrabButtons(c, false)

	c.Mon.AttachClient(c)
	c.Mon.AttachStack(c)

	c.UpdateWindowType(setFullscreen, setFloatingFlag)

	store.WriteClientList()
	xproto.MapWindow(store.X.Conn(), win)

	layout.Arrange(c.Mon)
	store.Focus(nil)

	log.Debug("Managed client [", c.Name, "]")
}

// assignMonitorAndTags implements the transient/rule branch of §4.1
// manage: a transient window inherits its owner's monitor and tags; a
// non-transient window is matched against the rule table; anything
// unmatched lands on the current monitor with the active tagset.
func assignMonitorAndTags(c *store.Client) {
	if owner, err := icccm.WmTransientForGet(store.X, c.Win); err == nil && owner != 0 {
		if ownerClient := store.ClientForWindow(owner); ownerClient != nil {
			c.Mon = ownerClient.Mon
			c.Tags = ownerClient.Tags
			return
		}
	}
	c.Mon = store.Selmon
	c.Tags = store.Selmon.Tagset[store.Selmon.Seltags]
}

// matchesIgnore reports whether class/instance match any configured
// class/instance ignore pair, factored out of applyRules so the matching
// logic is testable independent of the X property read.
func matchesIgnore(class, instance string, ignore [][2]string) bool {
	for _, pair := range ignore {
		if pair[0] != "" && !common.ContainsFold(class, pair[0]) {
			continue
		}
		if pair[1] != "" && !common.ContainsFold(instance, pair[1]) {
			continue
		}
		return true
	}
	return false
}

// matchRule returns the first rule in rules whose non-empty class/instance/
// title fields all match, and true; or the zero Rule and false if none do.
// Factored out of applyRules so rule-table matching is testable without an
// X connection.
func matchRule(class, instance, title string, rules []common.Rule) (common.Rule, bool) {
	for _, r := range rules {
		if r.Class != "" && !common.ContainsFold(class, r.Class) {
			continue
		}
		if r.Instance != "" && !common.ContainsFold(instance, r.Instance) {
			continue
		}
		if r.Title != "" && !common.ContainsFold(title, r.Title) {
			continue
		}
		return r, true
	}
	return common.Rule{}, false
}

// applyRules matches c's WM_CLASS class/instance and title against the
// compiled-in rule table (§6 "rule table"), applying the first match's
// tags/floating/monitor.
func applyRules(c *store.Client) {
	class, instance := "", ""
	if cls, err := icccm.WmClassGet(store.X, c.Win); err == nil && cls != nil {
		class, instance = cls.Class, cls.Instance
	}

	if matchesIgnore(class, instance, common.Config.WindowIgnore) {
		c.IsFloating = true
	}

	if r, ok := matchRule(class, instance, c.Name, common.Config.Rules); ok {
		c.IsFloating = r.IsFloating
		if r.Tags != 0 {
			c.Tags = r.Tags
		}
		if r.Monitor >= 0 {
			for m := store.Mons; m != nil; m = m.Next {
				if m.Num == r.Monitor {
					c.Mon = m
					break
				}
			}
		}
	}

	if c.Tags == 0 {
		c.Tags = c.Mon.Tagset[c.Mon.Seltags]
	} else {
		c.Tags &= common.TagMask()
	}
}

// unmanage detaches c from both lists, restores its original border if it
// wasn't destroyed, forgets it, refocuses, republishes
// _NET_CLIENT_LIST, and rearranges (§4.1 UnmapNotify/DestroyNotify).
func unmanage(c *store.Client, destroyed bool) {
	m := c.Mon

	m.DetachClient(c)
	m.DetachStack(c)

	if !destroyed {
		xproto.ConfigureWindow(store.X.Conn(), c.Win, xproto.ConfigWindowBorderWidth, []uint32{uint32(c.OldBW)})
		xproto.UngrabButton(store.X.Conn(), xproto.ButtonIndexAny, c.Win, xproto.ModMaskAny)
	}

	store.UnregisterClient(c)
	store.Focus(nil)
	store.WriteClientList()
	layout.Arrange(m)
}
