package store

import (
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil/xprop"

	log "github.com/sirupsen/logrus"
)

// These variables name the EWMH/ICCCM atoms this window manager
// advertises and consumes (§6 External interfaces). Interned once at
// startup into the Atoms table; the fixed set never changes during a run.
var (
	NetSupported            = "_NET_SUPPORTED"
	NetWMName                = "_NET_WM_NAME"
	NetWMState                = "_NET_WM_STATE"
	NetWMStateFullscreen      = "_NET_WM_STATE_FULLSCREEN"
	NetActiveWindow           = "_NET_ACTIVE_WINDOW"
	NetWMWindowType           = "_NET_WM_WINDOW_TYPE"
	NetWMWindowTypeDialog     = "_NET_WM_WINDOW_TYPE_DIALOG"
	NetClientList             = "_NET_CLIENT_LIST"
	NetSupportingWMCheck      = "_NET_SUPPORTING_WM_CHECK"

	WMProtocols    = "WM_PROTOCOLS"
	WMDeleteWindow = "WM_DELETE_WINDOW"
	WMState        = "WM_STATE"
	WMTakeFocus    = "WM_TAKE_FOCUS"
)

var netAtoms = []string{
	NetActiveWindow, NetSupported, NetWMName, NetWMState,
	NetSupportingWMCheck, NetWMStateFullscreen, NetWMWindowType,
	NetWMWindowTypeDialog, NetClientList,
}

// Atoms holds the interned atom for every name above, looked up by name at
// startup so handlers never pay an X round trip for a well-known atom.
var Atoms = map[string]xproto.Atom{}

// InitAtoms interns the fixed atom table via xprop.Atm. Advertising
// _NET_SUPPORTED and the _NET_SUPPORTING_WM_CHECK window is done by Setup
// in root.go.
func InitAtoms() error {
	names := append(append([]string{}, netAtoms...), WMProtocols, WMDeleteWindow, WMState, WMTakeFocus, "UTF8_STRING")
	for _, name := range names {
		atom, err := xprop.Atm(X, name)
		if err != nil {
			log.Error("Error interning atom ", name, ": ", err)
			continue
		}
		Atoms[name] = atom
	}
	return nil
}
