package store

import (
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil/ewmh"

	log "github.com/sirupsen/logrus"
)

// EwmhSetFullscreen writes _NET_WM_STATE on win to add or remove
// _NET_WM_STATE_FULLSCREEN, keeping the property in sync with the
// fullscreen flag that setFullscreen (§4.1 ClientMessage handling, §4.4)
// maintains locally.
func EwmhSetFullscreen(win xproto.Window, on bool) {
	var state []string
	if on {
		state = []string{NetWMStateFullscreen}
	}
	if err := ewmh.WmStateSet(X, win, state); err != nil {
		log.Warn("Error setting _NET_WM_STATE: ", err)
	}
}
