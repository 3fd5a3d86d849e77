package events

import (
	"github.com/jezek/xgb/xproto"

	"github.com/leukipp/wmgo/common"
	"github.com/leukipp/wmgo/store"
)

// KeyBinding pairs a modifier+key combination with a zero-argument action
// (§6 Configuration: "key binding table").
type KeyBinding struct {
	Mod uint16
	Key string
	Run func()
}

// ButtonBinding pairs a modifier+button combination on a click area with
// an action taking the clicked client, which is nil for clicks outside
// any client (§4.1 ButtonPress, §6 "button binding table").
type ButtonBinding struct {
	Mod    uint16
	Button xproto.Button
	Area   store.ClickArea
	Run    func(*store.Client)
}

// tagMask returns the bit for 0-based tag index i.
func tagMask(i int) uint32 { return 1 << uint(i) }

// Keys is the compiled-in key binding table. Mirrors the shape of a dwm
// config.h keys[] array: MODKEY alone moves focus/selection, MODKEY+Shift
// moves/tags clients, MODKEY+Control touches layout parameters.
var Keys = []KeyBinding{
	{ModKey, "Return", spawnTerminal},
	{ModKey | xproto.ModMaskShift, "Return", zoom},
	{ModKey, "p", spawnDmenu},
	{ModKey, "j", func() { focusStack(1) }},
	{ModKey, "k", func() { focusStack(-1) }},
	{ModKey, "i", func() { incNMaster(1) }},
	{ModKey, "d", func() { incNMaster(-1) }},
	{ModKey, "h", func() { setMFact(-0.05) }},
	{ModKey, "l", func() { setMFact(0.05) }},
	{ModKey, "Tab", viewPreviousTagset},
	{ModKey | xproto.ModMaskShift, "c", killClient},
	{ModKey, "t", func() { setLayout(0) }},
	{ModKey, "m", func() { setLayout(1) }},
	{ModKey, "f", func() { setLayout(2) }},
	{ModKey, "space", func() { setLayout(-1) }},
	{ModKey | xproto.ModMaskShift, "space", toggleFloating},
	{ModKey, "comma", func() { toggleFullscreen() }},
	{ModKey, "0", func() { viewTag(0) }},
	{ModKey, "b", toggleBar},
	{ModKey | xproto.ModMaskShift, "q", quit},
}

func viewPreviousTagset() {
	m := store.Selmon
	if m == nil {
		return
	}
	viewTag(m.Tagset[m.Seltags^1])
}

// TagKeys holds the per-tag view/toggleview/tag/toggletag bindings for the
// first nine tags; init appends them to Keys, keeping them out of the base
// table above for readability.
var TagKeys = buildTagKeys()

func buildTagKeys() []KeyBinding {
	var out []KeyBinding
	for i := 0; i < len(common.Config.Tags) && i < 9; i++ {
		mask := tagMask(i)
		out = append(out,
			KeyBinding{ModKey, keyDigits[i], func() { viewTag(mask) }},
			KeyBinding{ModKey | xproto.ModMaskControl, keyDigits[i], func() { toggleView(mask) }},
			KeyBinding{ModKey | xproto.ModMaskShift, keyDigits[i], func() { tagClient(mask) }},
			KeyBinding{ModKey | xproto.ModMaskControl | xproto.ModMaskShift, keyDigits[i], func() { toggleTagClient(mask) }},
		)
	}
	return out
}

var keyDigits = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}

// Buttons is the compiled-in button binding table (§4.1 ButtonPress,
// §6 "button binding table").
var Buttons = []ButtonBinding{
	{ModKey, xproto.ButtonIndex1, store.ClickClientWin, func(c *store.Client) { moveMouse(c) }},
	{ModKey, xproto.ButtonIndex3, store.ClickClientWin, func(c *store.Client) { resizeMouse(c) }},
	{0, xproto.ButtonIndex1, store.ClickTagBar, nil}, // handled directly by view-tag dispatch in onButtonPress
	{0, xproto.ButtonIndex1, store.ClickLtSymbol, func(*store.Client) { setLayout(-1) }},
	{0, xproto.ButtonIndex1, store.ClickClientWin, nil}, // plain click: focus only, handled inline
}

func init() {
	Keys = append(Keys, TagKeys...)
}
