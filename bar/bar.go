// Package bar implements the C7 per-monitor status/tag bar. Text shaping
// and glyph rendering are an external collaborator (§1 Non-goals: "the
// font/drawing library used by the bar"); this package owns the bar
// window, its geometry, click-region classification, and the cell
// layout, and calls out to a pluggable Painter for the actual glyphs.
package bar

import (
	"github.com/jezek/xgb/xproto"

	"github.com/leukipp/wmgo/common"
	"github.com/leukipp/wmgo/store"

	log "github.com/sirupsen/logrus"
)

// Painter draws text and fills the bar's background, the seam where a
// real font/glyph library (Xft, xgraphics, freetype2) would plug in.
type Painter interface {
	TextWidth(s string) int
	DrawText(win xproto.Window, x, y, w, h int, s string, scheme common.ColorScheme, alignRight bool)
	Fill(win xproto.Window, x, y, w, h int, colorHex string)
}

// Height is the compiled-in bar height in pixels; a Painter with real
// font metrics may report a different value once wired in.
var Height = 22

var activePainter Painter = nullPainter{}

// SetPainter installs the glyph-rendering collaborator; until it is
// called, Draw uses nullPainter.
func SetPainter(p Painter) { activePainter = p }

// nullPainter is the zero-dependency default: it paints backgrounds but
// draws no glyphs, so the bar is structurally present (and clickable)
// even before a real font backend is wired in.
type nullPainter struct{}

func (nullPainter) TextWidth(s string) int { return len(s)*6 + 4 }
func (nullPainter) DrawText(xproto.Window, int, int, int, int, string, common.ColorScheme, bool) {
}
func (nullPainter) Fill(win xproto.Window, x, y, w, h int, colorHex string) {
	pixel, err := parseHex(colorHex)
	if err != nil {
		return
	}
	gc, err := xproto.NewGcontextId(store.X.Conn())
	if err != nil {
		return
	}
	defer xproto.FreeGC(store.X.Conn(), gc)
	xproto.CreateGC(store.X.Conn(), gc, xproto.Drawable(win), xproto.GcForeground, []uint32{pixel})
	xproto.PolyFillRectangle(store.X.Conn(), xproto.Drawable(win), gc,
		[]xproto.Rectangle{{X: int16(x), Y: int16(y), Width: uint16(w), Height: uint16(h)}})
}

func parseHex(s string) (uint32, error) {
	var v uint32
	for i := 1; i < len(s); i++ {
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
			return 0, errBadHex
		}
		v = v<<4 | d
	}
	return v, nil
}

type badHexError struct{}

func (badHexError) Error() string { return "invalid hex color" }

var errBadHex = badHexError{}

// Create builds m's bar window (§4.6, §8 lifecycle "startup"): an
// override-redirect input-output window spanning the monitor's full
// width at its computed y-coordinate.
func Create(m *store.Monitor) {
	conn := store.X.Conn()
	win, err := xproto.NewWindowId(conn)
	if err != nil {
		log.Error("Error allocating bar window id: ", err)
		return
	}

	err = xproto.CreateWindowChecked(conn, xproto.WindowClassCopyFromParent, win, store.Root,
		int16(m.WX), int16(m.By), uint16(m.WW), uint16(Height), 0,
		xproto.WindowClassInputOutput, 0,
		xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{1, uint32(xproto.EventMaskExposure | xproto.EventMaskButtonPress)}).Check()
	if err != nil {
		log.Error("Error creating bar window: ", err)
		return
	}

	m.BarWin = win
	xproto.MapWindow(conn, win)
}

// tagCellWidth is the fixed pixel width of each tag cell; a
// font-metrics-aware Painter could make this proportional to glyph width,
// but a fixed width keeps the layout stable regardless of font.
const tagCellWidth = 24

// Draw renders m's bar: tag cells, layout symbol, window title, and (on
// the selected monitor only) the right-justified status text (§4.6).
func Draw(m *store.Monitor) {
	if m.BarWin == 0 || !m.ShowBar {
		return
	}

	occupied, urgent := occupancy(m)

	x := 0
	for i, name := range common.Config.Tags {
		mask := uint32(1) << uint(i)
		selected := m.ActiveTags()&mask != 0

		scheme := common.Config.NormalScheme
		if selected {
			scheme = common.Config.SelScheme
		}
		activePainter.Fill(m.BarWin, x, 0, tagCellWidth, Height, scheme.Background)
		activePainter.DrawText(m.BarWin, x, 0, tagCellWidth, Height, name, scheme, false)

		if occupied&mask != 0 {
			dotScheme := scheme
			if urgent&mask != 0 {
				dotScheme = common.ColorScheme{Border: scheme.Background, Background: scheme.Foreground, Foreground: scheme.Background}
			}
			activePainter.Fill(m.BarWin, x+2, Height-4, 4, 4, dotScheme.Foreground)
		}
		x += tagCellWidth
	}

	ltSymbol := m.LtSymbol
	ltWidth := activePainter.TextWidth(ltSymbol) + 8
	activePainter.DrawText(m.BarWin, x, 0, ltWidth, Height, ltSymbol, common.Config.NormalScheme, false)
	x += ltWidth

	statusWidth := 0
	if m == store.Selmon {
		statusWidth = activePainter.TextWidth(store.StatusText) + 8
		activePainter.DrawText(m.BarWin, m.WW-statusWidth, 0, statusWidth, Height, store.StatusText, common.Config.NormalScheme, true)
	}

	titleX := x
	titleW := m.WW - statusWidth - x
	if titleW < 0 {
		titleW = 0
	}
	title := "" // blank block if no selected client (§4.6)
	if m.Sel != nil {
		title = m.Sel.Name
	}
	titleScheme := common.Config.NormalScheme
	if m == store.Selmon && m.Sel != nil {
		titleScheme = common.Config.SelScheme
	}
	activePainter.Fill(m.BarWin, titleX, 0, titleW, Height, titleScheme.Background)
	activePainter.DrawText(m.BarWin, titleX, 0, titleW, Height, title, titleScheme, false)
}

// occupancy computes, per tag bit, whether any client on m carries that
// tag (occupied) and whether any urgent client does (urgent), the two
// dot-indicator inputs (§4.6: "filled = the selected client has it" —
// more precisely, any client on the monitor has it).
func occupancy(m *store.Monitor) (occupied, urgent uint32) {
	for c := m.Clients; c != nil; c = c.Next {
		occupied |= c.Tags
		if c.IsUrgent {
			urgent |= c.Tags
		}
	}
	return
}

// ClassifyClick classifies a bar x-coordinate into the region it belongs
// to, feeding the ButtonPress click-region classification (§4.1, §6).
func ClassifyClick(m *store.Monitor, x int) (store.ClickArea, uint32) {
	tagsWidth := tagCellWidth * len(common.Config.Tags)
	if x < tagsWidth {
		return store.ClickTagBar, uint32(1) << uint(x/tagCellWidth)
	}
	ltWidth := activePainter.TextWidth(m.LtSymbol) + 8
	if x < tagsWidth+ltWidth {
		return store.ClickLtSymbol, 0
	}
	statusWidth := 0
	if m == store.Selmon {
		statusWidth = activePainter.TextWidth(store.StatusText) + 8
	}
	if x >= m.WW-statusWidth {
		return store.ClickStatusText, 0
	}
	return store.ClickWinTitle, 0
}
