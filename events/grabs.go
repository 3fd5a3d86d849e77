package events

import (
	"github.com/jezek/xgb/xproto"

	"github.com/leukipp/wmgo/store"
)

// lockVariants replicates a modifier mask across every combination of
// CapsLock/NumLock being set, so bindings keep working regardless of lock
// state (§5 "Grabs": "each replicated across {0, LockMask, NumLockMask,
// LockMask|NumLockMask}").
func lockVariants(mod uint16) []uint16 {
	return []uint16{
		mod,
		mod | xproto.ModMaskLock,
		mod | store.NumlockMask,
		mod | xproto.ModMaskLock | store.NumlockMask,
	}
}

// GrabKeys ungrabs any previous key grabs on root and regrabs the entire
// compiled-in key table (§5 "Keys: all configured combinations grabbed on
// root").
func GrabKeys() {
	conn := store.X.Conn()
	xproto.UngrabKey(conn, xproto.GrabAny, store.Root, xproto.ModMaskAny)

	for _, kb := range Keys {
		sym, ok := store.KeysymFor(kb.Key)
		if !ok {
			continue
		}
		kc, ok := store.KeycodeForKeysym(sym)
		if !ok {
			continue
		}
		for _, mod := range lockVariants(kb.Mod) {
			xproto.GrabKey(conn, true, store.Root, mod, kc,
				xproto.GrabModeAsync, xproto.GrabModeAsync)
		}
	}
}

// GrabButtons grabs c's configured button combinations. An unfocused
// client gets every button grabbed synchronously so the first click both
// focuses it and is replayed to it afterward; a focused client only gets
// the button table's combinations, still replicated across lock masks
// (§5 "Grabs").
func GrabButtons(c *store.Client, focused bool) {
	conn := store.X.Conn()
	xproto.UngrabButton(conn, xproto.ButtonIndexAny, c.Win, xproto.ModMaskAny)

	if !focused {
		xproto.GrabButton(conn, false, c.Win,
			uint16(xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease),
			xproto.GrabModeSync, xproto.GrabModeSync, 0, 0,
			xproto.ButtonIndexAny, xproto.ModMaskAny)
		return
	}

	for _, bb := range Buttons {
		if bb.Area != store.ClickClientWin {
			continue
		}
		for _, mod := range lockVariants(bb.Mod) {
			xproto.GrabButton(conn, false, c.Win,
				uint16(xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease),
				xproto.GrabModeAsync, xproto.GrabModeAsync, 0, 0,
				bb.Button, mod)
		}
	}
}
