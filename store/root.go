package store

import (
	"fmt"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/jezek/xgbutil"
	"github.com/jezek/xgbutil/ewmh"

	"github.com/leukipp/wmgo/common"

	log "github.com/sirupsen/logrus"
)

// Process-wide singletons (§3 Global state, §9 "Global state"). A real
// reimplementation would thread a Context through every handler; we keep
// the teacher's package-level singleton style (store.X, store.Root, ...)
// since every handler in this module already lives behind the same
// single-threaded event loop (§5).
var (
	X           *xgbutil.XUtil // X connection
	Root        xproto.Window  // Root window
	WMCheck     xproto.Window  // Dummy supporting-WM-check window
	Running     bool           // Cleared by the quit action
	NumlockMask uint16         // Modifier bit currently bound to NumLock

	Mons   *Monitor // Monitor list head
	Selmon *Monitor // Currently selected monitor

	StatusText = common.Fallback() // Bar status text (root WM_NAME)

	Cursors CursorSet
)

// CursorSet names the three interactive cursor shapes (§5 "Grabs", §1
// cursor creation is an external collaborator — this module only holds
// the handles an external cursor-font helper would fill in).
type CursorSet struct {
	Normal xproto.Cursor
	Resize xproto.Cursor
	Move   xproto.Cursor
}

// Connected establishes the X connection, the way the teacher's
// store.Connected does (minus the EWMH-peer retry loop, which only made
// sense when cortile ran alongside somebody else's window manager).
func Connected() bool {
	var err error
	X, err = xgbutil.NewConn()
	if err != nil {
		log.Error("Connection to X server failed: ", err)
		return false
	}
	Root = X.RootWin()
	return true
}

// Setup performs C8 startup: atom interning, substructure redirect
// acquisition (detecting another running WM per §7.1), the
// supporting-WM-check window, and initial monitor discovery.
func Setup() error {
	if err := InitAtoms(); err != nil {
		return err
	}

	if err := becomeWM(); err != nil {
		return fmt.Errorf("could not become window manager, another WM is likely running: %w", err)
	}

	NumlockMask = computeNumlockMask()

	if err := createWMCheckWindow(); err != nil {
		return err
	}

	if err := ewmh.SupportedSet(X, netAtoms); err != nil {
		log.Warn("Error setting _NET_SUPPORTED: ", err)
	}
	if err := ewmh.ClientListSet(X, nil); err != nil {
		log.Warn("Error clearing _NET_CLIENT_LIST: ", err)
	}

	UpdateMonitors()

	Running = true
	return nil
}

// becomeWM selects SubstructureRedirect|SubstructureNotify on the root
// window. A BadAccess reply here means another client already holds the
// redirect — i.e. another window manager is running (§7.1). Generalizes
// the raw-protocol approach in the pack's funkycode/marwind wm.becomeWM,
// since xgbutil itself doesn't expose this as a single call.
func becomeWM() error {
	mask := uint32(xproto.EventMaskSubstructureRedirect |
		xproto.EventMaskSubstructureNotify |
		xproto.EventMaskButtonPress |
		xproto.EventMaskPropertyChange |
		xproto.EventMaskStructureNotify)
	return xproto.ChangeWindowAttributesChecked(X.Conn(), Root, xproto.CwEventMask, []uint32{mask}).Check()
}

func createWMCheckWindow() error {
	conn := X.Conn()
	id, err := xproto.NewWindowId(conn)
	if err != nil {
		return err
	}
	WMCheck = id
	err = xproto.CreateWindowChecked(conn, xproto.WindowClassCopyFromParent, id, Root,
		-1, -1, 1, 1, 0, xproto.WindowClassInputOutput, 0, 0, nil).Check()
	if err != nil {
		return err
	}
	if err := ewmh.SupportingWmCheckSet(X, Root, id); err != nil {
		return err
	}
	if err := ewmh.SupportingWmCheckSet(X, id, id); err != nil {
		return err
	}
	if err := ewmh.WmNameSet(X, id, common.Build.Name); err != nil {
		return err
	}
	return nil
}

// computeNumlockMask queries the keyboard/modifier mapping for the bit
// currently carrying NumLock, so key-grab replication (§5 "Grabs") can mask
// it out alongside CapsLock.
func computeNumlockMask() uint16 {
	conn := X.Conn()
	setup := xproto.Setup(conn)
	mapping, err := xproto.GetModifierMapping(conn).Reply()
	if err != nil {
		log.Warn("Error retrieving modifier mapping: ", err)
		return 0
	}
	count := byte(int(setup.MaxKeycode) - int(setup.MinKeycode) + 1)
	kbMapping, err := xproto.GetKeyboardMapping(conn, setup.MinKeycode, count).Reply()
	if err != nil {
		log.Warn("Error retrieving keyboard mapping: ", err)
		return 0
	}

	const numlockKeysym = uint32(0xff7f) // XK_Num_Lock
	per := int(mapping.KeycodesPerModifier)
	for modIndex := 0; modIndex < 8; modIndex++ {
		for k := 0; k < per; k++ {
			kc := mapping.Keycodes[modIndex*per+k]
			if kc == 0 {
				continue
			}
			for _, sym := range symsForKeycode(kbMapping, setup, kc) {
				if sym == numlockKeysym {
					return 1 << uint(modIndex)
				}
			}
		}
	}
	return 0
}

func symsForKeycode(mapping *xproto.GetKeyboardMappingReply, setup *xproto.SetupInfo, kc xproto.Keycode) []uint32 {
	per := int(mapping.KeysymsPerKeycode)
	idx := int(kc-setup.MinKeycode) * per
	if idx < 0 || idx+per > len(mapping.Keysyms) {
		return nil
	}
	out := make([]uint32, per)
	for i := 0; i < per; i++ {
		out[i] = uint32(mapping.Keysyms[idx+i])
	}
	return out
}

// CleanMask strips NumLock and CapsLock (and anything outside the seven
// real modifiers) from a reported modifier state (§4.1 KeyPress/ButtonPress
// "modifier cleaning").
func CleanMask(state uint16) uint16 {
	real := uint16(xproto.ModMaskShift | xproto.ModMaskControl | xproto.ModMaskLock |
		xproto.ModMask1 | xproto.ModMask2 | xproto.ModMask3 | xproto.ModMask4 | xproto.ModMask5)
	clean := state &^ (NumlockMask | xproto.ModMaskLock)
	return clean & real
}

// Sync issues XSync(False), matching §5 Ordering: "the manager issues
// XSync(False) after state changes that user-visible code depends on."
func Sync() {
	X.Conn().Sync()
}

// ErrorClass classifies an X protocol error for §7 error handling.
type ErrorClass int

const (
	ErrorBenign ErrorClass = iota
	ErrorUnexpected
)

// Core X11 request opcodes referenced by the §7.3 allow-list, named here
// since xgb's generated xproto package exposes the request functions but
// not the numeric opcodes as symbols.
const (
	opSetInputFocus      byte = 42
	opConfigureWindow    byte = 12
	opPolyText8          byte = 74
	opPolyFillRectangle  byte = 70
	opPolySegment        byte = 66
	opCopyArea           byte = 62
	opGrabButton         byte = 28
	opGrabKey            byte = 33
)

// ClassifyError implements the §7.3 allow-list: accesses to
// already-destroyed windows during concurrent unmap/destroy races. The
// triggering request's opcode travels inside the error value itself (X
// errors are asynchronous replies), so it's read off the concrete error
// type rather than threaded in by the caller.
func ClassifyError(err xgb.Error) ErrorClass {
	switch e := err.(type) {
	case xproto.WindowError:
		_ = e
		return ErrorBenign
	case xproto.MatchError:
		if e.MajorOpcode == opSetInputFocus || e.MajorOpcode == opConfigureWindow {
			return ErrorBenign
		}
	case xproto.DrawableError:
		switch e.MajorOpcode {
		case opPolyText8, opPolyFillRectangle, opPolySegment, opCopyArea:
			return ErrorBenign
		}
	case xproto.AccessError:
		switch e.MajorOpcode {
		case opGrabButton, opGrabKey:
			return ErrorBenign
		}
	}
	return ErrorUnexpected
}

// Quit clears Running so the main loop (events.Loop) exits on its next
// iteration (§4.1 "The loop runs until a quit action clears running").
func Quit() {
	Running = false
}

// now is a small indirection so callers needing a timestamp don't each
// import "time" separately.
var now = time.Now
