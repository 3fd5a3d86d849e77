package store

import (
	"strings"

	"github.com/jezek/xgb/xproto"

	"github.com/jezek/xgbutil/ewmh"
	"github.com/jezek/xgbutil/icccm"
	"github.com/jezek/xgbutil/xwindow"

	"github.com/leukipp/wmgo/common"

	log "github.com/sirupsen/logrus"
)

// Client represents one managed top-level X window (§3 Data model).
// Generalized from the teacher's store.Client, which tracked the same
// geometry/hints/state fields for a client living under somebody else's
// window manager; here the fields drive tiling directly instead of
// mirroring another WM's placement.
type Client struct {
	Win xproto.Window
	Win2 *xwindow.Window // cached xwindow handle for geometry/map/unmap calls

	X, Y, W, H int
	BW         int

	OldX, OldY, OldW, OldH, OldBW int // shadow geometry (§3, restored after fullscreen)

	BaseW, BaseH int
	IncW, IncH   int
	MinW, MinH   int
	MaxW, MaxH   int
	MinA, MaxA   float64

	IsFixed      bool
	IsFloating   bool
	IsUrgent     bool
	NeverFocus   bool
	IsFullscreen bool
	OldState     bool // saved floating flag, restored when fullscreen ends

	Tags uint32

	Name string // ≤255 bytes; "broken" if unreadable

	Mon *Monitor

	Next  *Client // next in monitor's insertion-ordered "clients" list
	SNext *Client // next in monitor's focus-ordered "stack" list
}

const brokenName = "broken"

// IsVisible reports whether c is shown given its monitor's active tagset
// (§3 invariant: "A client is visible on its monitor iff (tags & active) != 0").
func (c *Client) IsVisible() bool {
	if c == nil || c.Mon == nil {
		return false
	}
	return c.Tags&c.Mon.Tagset[c.Mon.Seltags] != 0
}

// Geometry returns the client's current border-exclusive geometry.
func (c *Client) Geometry() common.Geometry {
	return common.Geometry{X: c.X, Y: c.Y, Width: c.W, Height: c.H}
}

// WindowGeometry returns the border-inclusive geometry, the one that must
// fit inside the monitor's usable area per §8 invariants.
func (c *Client) WindowGeometry() common.Geometry {
	return common.Geometry{X: c.X, Y: c.Y, Width: c.W + 2*c.BW, Height: c.H + 2*c.BW}
}

// SaveOld snapshots the current geometry into the shadow fields, used
// before entering fullscreen (§3, §4.1 ClientMessage fullscreen handling).
func (c *Client) SaveOld() {
	c.OldX, c.OldY, c.OldW, c.OldH, c.OldBW = c.X, c.Y, c.W, c.H, c.BW
}

// RestoreOld writes the shadow geometry back as current.
func (c *Client) RestoreOld() {
	c.X, c.Y, c.W, c.H, c.BW = c.OldX, c.OldY, c.OldW, c.OldH, c.OldBW
}

// CreateClient builds a Client record for a newly mapped window by reading
// its ICCCM/EWMH properties (C1 adapter), mirroring the teacher's
// store.CreateClient/GetInfo but writing straight into our own tiled
// client record instead of a cached "Info" snapshot.
func CreateClient(w xproto.Window) *Client {
	c := &Client{
		Win:  w,
		Win2: xwindow.New(X, w),
		BW:   common.Config.BorderWidth,
	}
	c.UpdateTitle()
	c.UpdateSizeHints()
	c.UpdateWMHints()
	return c
}

// UpdateTitle refreshes Name from _NET_WM_NAME, falling back to WM_NAME,
// falling back to the literal "broken" (§3, §7.5).
func (c *Client) UpdateTitle() {
	name, err := ewmh.WmNameGet(X, c.Win)
	if err != nil || name == "" {
		name, err = icccm.WmNameGet(X, c.Win)
	}
	if err != nil || name == "" {
		c.Name = brokenName
		return
	}
	if len(name) > 255 {
		name = name[:255]
	}
	c.Name = name
}

// UpdateSizeHints refreshes the ICCCM WM_NORMAL_HINTS-derived fields and
// recomputes IsFixed (§3: "true iff maxw == minw > 0 && maxh == minh > 0").
//
// §9 Open question: when XGetWMNormalHints fails, the original sets
// size.flags = PSize, which the rest of the code treats as "no base size,
// no min size" — effectively zeroing every hint. We reproduce that
// zero-hints behavior on error rather than inventing a stricter one.
func (c *Client) UpdateSizeHints() {
	hints, err := icccm.WmNormalHintsGet(X, c.Win)
	if err != nil || hints == nil {
		c.BaseW, c.BaseH = 0, 0
		c.IncW, c.IncH = 0, 0
		c.MinW, c.MinH = 0, 0
		c.MaxW, c.MaxH = 0, 0
		c.MinA, c.MaxA = 0, 0
		c.IsFixed = false
		return
	}

	if hints.Flags&icccm.SizeHintPBaseSize != 0 {
		c.BaseW, c.BaseH = int(hints.BaseWidth), int(hints.BaseHeight)
	} else if hints.Flags&icccm.SizeHintPMinSize != 0 {
		c.BaseW, c.BaseH = int(hints.MinWidth), int(hints.MinHeight)
	} else {
		c.BaseW, c.BaseH = 0, 0
	}

	if hints.Flags&icccm.SizeHintPResizeInc != 0 {
		c.IncW, c.IncH = int(hints.WidthInc), int(hints.HeightInc)
	} else {
		c.IncW, c.IncH = 0, 0
	}

	if hints.Flags&icccm.SizeHintPMaxSize != 0 {
		c.MaxW, c.MaxH = int(hints.MaxWidth), int(hints.MaxHeight)
	} else {
		c.MaxW, c.MaxH = 0, 0
	}

	if hints.Flags&icccm.SizeHintPMinSize != 0 {
		c.MinW, c.MinH = int(hints.MinWidth), int(hints.MinHeight)
	} else if hints.Flags&icccm.SizeHintPBaseSize != 0 {
		c.MinW, c.MinH = int(hints.BaseWidth), int(hints.BaseHeight)
	} else {
		c.MinW, c.MinH = 0, 0
	}

	if hints.Flags&icccm.SizeHintPAspect != 0 && hints.MinAspect.Num != 0 && hints.MaxAspect.Den != 0 {
		c.MinA = float64(hints.MinAspect.Den) / float64(hints.MinAspect.Num)
		c.MaxA = float64(hints.MaxAspect.Num) / float64(hints.MaxAspect.Den)
	} else {
		c.MinA, c.MaxA = 0, 0
	}

	c.IsFixed = c.MaxW > 0 && c.MaxW == c.MinW && c.MaxH > 0 && c.MaxH == c.MinH
}

// UpdateWMHints refreshes urgency and input-focus eligibility from
// WM_HINTS (§3, §4.4 "neverfocus").
func (c *Client) UpdateWMHints() {
	hints, err := icccm.WmHintsGet(X, c.Win)
	if err != nil || hints == nil {
		return
	}
	if c != SelectedClient() {
		c.IsUrgent = hints.Flags&icccm.HintUrgency != 0
	}
	if hints.Flags&icccm.HintInput != 0 {
		c.NeverFocus = !hints.Input
	} else {
		c.NeverFocus = false
	}
}

// SelectedClient is a package-level convenience wrapper over
// Selmon.Sel, used by property handlers that don't otherwise carry a
// monitor reference.
func SelectedClient() *Client {
	if Selmon == nil {
		return nil
	}
	return Selmon.Sel
}

// SendEvent sends a WM_PROTOCOLS client message for the given protocol
// atom if the client advertises it (§4.4 "WM_TAKE_FOCUS", §7 "WM_DELETE_WINDOW").
func (c *Client) SendEvent(protocol string) bool {
	protocols, err := icccm.WmProtocolsGet(X, c.Win)
	if err != nil {
		return false
	}
	has := false
	for _, p := range protocols {
		if p == protocol {
			has = true
			break
		}
	}
	if !has {
		return false
	}
	return ewmh.ClientEvent(X, c.Win, WMProtocols, int(Atoms[protocol]), int(xproto.TimeCurrentTime)) == nil
}

// SetFocus gives c the X input focus and advertises it via WM_TAKE_FOCUS,
// without touching the focus stack or border colors (those live in
// monitor.go's Focus, which calls this as its final step — §4.4).
func (c *Client) SetFocus() {
	if !c.NeverFocus {
		xproto.SetInputFocus(X.Conn(), xproto.InputFocusPointerRoot, c.Win, xproto.TimeCurrentTime)
		ewmh.ActiveWindowSet(X, c.Win)
	}
	c.SendEvent(WMTakeFocus)
}

// SetBorder paints the client's border with the given color scheme,
// modeling the teacher's motif-decoration calls but targeting the plain
// 1px border this spec allows (§1 Non-goals: "no window decorations
// beyond a 1-pixel border").
func (c *Client) SetBorder(scheme common.ColorScheme) {
	pixel, err := parseColorPixel(scheme.Border)
	if err != nil {
		return
	}
	xproto.ChangeWindowAttributes(X.Conn(), c.Win, xproto.CwBorderPixel, []uint32{pixel})
}

// parseColorPixel is a minimal "#rrggbb" → pixel value converter. A real
// deployment resolves this via Xft color allocation (§1: the font/drawing
// library is an external collaborator); this local fallback keeps border
// painting self-contained for truecolor visuals, which is what every
// modern compositor-less X session provides.
func parseColorPixel(hex string) (uint32, error) {
	hex = strings.TrimPrefix(hex, "#")
	var v uint32
	_, err := fscanHex(hex, &v)
	return v, err
}

func fscanHex(s string, v *uint32) (int, error) {
	var n uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d uint32
		switch {
		case c >= '0' && c <= '9':
			d = uint32(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint32(c-'A') + 10
		default:
			return 0, errInvalidColor
		}
		n = n<<4 | d
	}
	*v = n
	return len(s), nil
}

var errInvalidColor = &invalidColorError{}

type invalidColorError struct{}

func (e *invalidColorError) Error() string { return "invalid color literal" }

// UpdateWindowType applies _NET_WM_WINDOW_TYPE (§4.1 PropertyNotify):
// dialog forces floating, fullscreen type forces fullscreen.
func (c *Client) UpdateWindowType(setFullscreen func(*Client, bool), setFloating func(*Client, bool)) {
	types, err := ewmh.WmWindowTypeGet(X, c.Win)
	if err != nil {
		return
	}
	for _, t := range types {
		if t == NetWMStateFullscreen {
			setFullscreen(c, true)
		}
		if t == NetWMWindowTypeDialog {
			setFloating(c, true)
		}
	}
	log.Trace("client.updateWindowType [", c.Name, "]")
}
