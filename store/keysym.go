package store

import "github.com/jezek/xgb/xproto"

// keysyms maps the small set of key names the compiled-in binding table
// (§6 Configuration) uses to their X keysym values, since this module
// doesn't carry a full keysym database (§1 Non-goals scope the font and
// input-method layers out as external collaborators).
var keysyms = map[string]uint32{
	"Return": 0xff0d,
	"space":  0x0020,
	"Tab":    0xff09,
	"comma":  0x002c,
	"period": 0x002e,
	"1": 0x0031, "2": 0x0032, "3": 0x0033, "4": 0x0034, "5": 0x0035,
	"6": 0x0036, "7": 0x0037, "8": 0x0038, "9": 0x0039, "0": 0x0030,
	"b": 0x0062, "c": 0x0063, "d": 0x0064, "f": 0x0066, "h": 0x0068,
	"i": 0x0069, "j": 0x006a, "k": 0x006b, "l": 0x006c, "m": 0x006d,
	"p": 0x0070, "q": 0x0071, "t": 0x0074,
}

// KeysymFor resolves a binding-table key name to its keysym, per the
// table above.
func KeysymFor(name string) (uint32, bool) {
	sym, ok := keysyms[name]
	return sym, ok
}

// KeycodeForKeysym finds a keycode whose keyboard mapping includes sym at
// group 0, index 0 (§9 "a faithful reimplementation should use
// XkbKeycodeToKeysym with group 0, index 0"), reusing the same
// GetKeyboardMapping query computeNumlockMask already performs.
func KeycodeForKeysym(sym uint32) (xproto.Keycode, bool) {
	conn := X.Conn()
	setup := xproto.Setup(conn)
	count := byte(int(setup.MaxKeycode) - int(setup.MinKeycode) + 1)
	mapping, err := xproto.GetKeyboardMapping(conn, setup.MinKeycode, count).Reply()
	if err != nil {
		return 0, false
	}
	per := int(mapping.KeysymsPerKeycode)
	for i := 0; i < int(count); i++ {
		idx := i * per
		if idx >= len(mapping.Keysyms) {
			break
		}
		if uint32(mapping.Keysyms[idx]) == sym {
			return xproto.Keycode(int(setup.MinKeycode) + i), true
		}
	}
	return 0, false
}

// KeysymForKeycode reverse-looks-up a keycode's primary keysym, used by
// the KeyPress handler to match against the binding table.
func KeysymForKeycode(kc xproto.Keycode) uint32 {
	conn := X.Conn()
	mapping, err := xproto.GetKeyboardMapping(conn, kc, 1).Reply()
	if err != nil || len(mapping.Keysyms) == 0 {
		return 0
	}
	return uint32(mapping.Keysyms[0])
}
