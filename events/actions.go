// Package events implements the C6 event dispatcher: the fixed table of
// handlers for the fourteen X event types this window manager consumes,
// the key/button grab tables, and the interactive move/resize loop.
package events

import (
	"os"
	"os/exec"

	"github.com/jezek/xgb/xproto"

	"github.com/leukipp/wmgo/common"
	"github.com/leukipp/wmgo/layout"
	"github.com/leukipp/wmgo/store"

	log "github.com/sirupsen/logrus"
)

// ModKey is "the modifier key" every compiled-in binding is anchored to
// (§6 Configuration). Mod4 is the Super/Windows key, the conventional
// choice for a tiling window manager that doesn't want to steal Alt or
// Shift combinations from applications.
const ModKey = xproto.ModMask4

// Spawn runs a command template in a detached child, the way the
// teacher's child-spawning helper would (§1: "the child-spawning helper
// for launching commands" is an external collaborator specified only at
// its seam — argv in, detached process out).
func Spawn(argv []string) {
	if len(argv) == 0 {
		return
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		log.Warn("Error spawning command ", argv, ": ", err)
		return
	}
	go cmd.Wait()
}

func spawnTerminal() { Spawn(common.Config.Terminal) }
func spawnDmenu()    { Spawn(common.Config.Dmenu) }

// focusStack moves selection by dir (+1 next, -1 prev) through the
// visible clients of the selected monitor's clients list (insertion
// order), wrapping around.
// A fullscreen selection holds focus when LockFullscreen is set.
func focusStack(dir int) {
	m := store.Selmon
	if m == nil || m.Sel == nil {
		return
	}
	if m.Sel.IsFullscreen && common.Config.LockFullscreen {
		return
	}
	var visible []*store.Client
	for c := m.Clients; c != nil; c = c.Next {
		if c.IsVisible() {
			visible = append(visible, c)
		}
	}
	if len(visible) == 0 {
		return
	}
	idx := -1
	for i, c := range visible {
		if c == m.Sel {
			idx = i
			break
		}
	}
	if idx == -1 {
		store.Focus(visible[0])
		return
	}
	next := (idx + dir + len(visible)) % len(visible)
	store.Focus(visible[next])
}

func incNMaster(delta int) {
	m := store.Selmon
	if m == nil {
		return
	}
	m.NMaster = common.MaxInt(m.NMaster+delta, 0)
	layout.Arrange(m)
}

func setMFact(delta float64) {
	m := store.Selmon
	if m == nil {
		return
	}
	f := m.MFact + delta
	if f < 0.1 || f > 0.9 {
		return
	}
	m.MFact = f
	layout.Arrange(m)
}

func zoom() {
	m := store.Selmon
	if m == nil {
		return
	}
	m.Zoom(m.Sel)
	layout.Arrange(m)
}

func viewTag(mask uint32) {
	m := store.Selmon
	if m == nil {
		return
	}
	if m.View(mask) {
		store.Focus(nil)
		layout.Arrange(m)
	}
}

func toggleView(mask uint32) {
	m := store.Selmon
	if m == nil {
		return
	}
	if m.ToggleView(mask) {
		store.Focus(nil)
		layout.Arrange(m)
	}
}

func tagClient(mask uint32) {
	m := store.Selmon
	if m == nil || m.Sel == nil {
		return
	}
	if store.Tag(m.Sel, mask) {
		store.Focus(nil)
		layout.Arrange(m)
	}
}

func toggleTagClient(mask uint32) {
	m := store.Selmon
	if m == nil || m.Sel == nil {
		return
	}
	if store.ToggleTag(m.Sel, mask) {
		store.Focus(nil)
		layout.Arrange(m)
	}
}

func killClient() {
	m := store.Selmon
	if m == nil || m.Sel == nil {
		return
	}
	c := m.Sel
	if !c.SendEvent(store.WMDeleteWindow) {
		xproto.GrabServer(store.X.Conn())
		xproto.SetCloseDownMode(store.X.Conn(), xproto.CloseDownDestroyAll)
		xproto.KillClient(store.X.Conn(), uint32(c.Win))
		store.X.Conn().Sync()
		xproto.UngrabServer(store.X.Conn())
	}
}

func toggleFloating() {
	m := store.Selmon
	if m == nil || m.Sel == nil || m.Sel.IsFullscreen {
		return
	}
	c := m.Sel
	c.IsFloating = !c.IsFloating || c.IsFixed
	if c.IsFloating {
		c.Resize(c.X, c.Y, c.W, c.H, false)
	}
	layout.Arrange(m)
}

func setFullscreen(c *store.Client, on bool) {
	if c == nil {
		return
	}
	if on && !c.IsFullscreen {
		store.EwmhSetFullscreen(c.Win, true)
		c.IsFullscreen = true
		c.OldState = c.IsFloating
		c.SaveOld()
		c.BW = 0
		c.IsFloating = true
		if c.Mon != nil {
			store.ConfigureOnly(c, c.Mon.MX, c.Mon.MY, c.Mon.MW, c.Mon.MH)
			store.Restack(c.Mon)
		}
	} else if !on && c.IsFullscreen {
		store.EwmhSetFullscreen(c.Win, false)
		c.IsFullscreen = false
		c.IsFloating = c.OldState
		c.RestoreOld()
		c.Resize(c.X, c.Y, c.W, c.H, false)
		if c.Mon != nil {
			layout.Arrange(c.Mon)
		}
	}
}

func toggleFullscreen() {
	m := store.Selmon
	if m == nil || m.Sel == nil {
		return
	}
	setFullscreen(m.Sel, !m.Sel.IsFullscreen)
}

func setFloatingFlag(c *store.Client, on bool) {
	if c == nil || c.IsFullscreen {
		return
	}
	c.IsFloating = on
}

// setLayout switches the selected monitor to the layout at index i within
// layout.All(); negative i cycles to the next layout.
func setLayout(i int) {
	m := store.Selmon
	if m == nil {
		return
	}
	all := layout.All()
	if i < 0 {
		cur := m.Lt[m.Sellt]
		pos := 0
		for idx, l := range all {
			if cur != nil && l.Symbol == cur.Symbol {
				pos = idx
				break
			}
		}
		i = (pos + 1) % len(all)
	}
	if i >= len(all) {
		return
	}
	m.Lt[m.Sellt] = all[i]
	m.LtSymbol = all[i].Symbol
	layout.Arrange(m)
}

func toggleBar() {
	m := store.Selmon
	if m == nil {
		return
	}
	m.ShowBar = !m.ShowBar
	store.UpdateBarGeometry(m)
	layout.Arrange(m)
	store.DrawBar(m)
}

func quit() { store.Quit() }
