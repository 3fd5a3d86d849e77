package store

import (
	"sort"

	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"

	"github.com/jezek/xgbutil/ewmh"
	"github.com/jezek/xgbutil/xwindow"

	"github.com/leukipp/wmgo/common"

	log "github.com/sirupsen/logrus"
)

// Layout assigns geometries to a monitor's tiled clients (C5). Arrange is
// nil for the floating layout (§4.3: "No arrangement: the layout's arrange
// function is absent").
type Layout struct {
	Symbol  string
	Arrange func(*Monitor)
}

// Monitor represents one output region (§3 Data model).
type Monitor struct {
	MX, MY, MW, MH int // total geometry
	WX, WY, WW, WH int // usable geometry (total minus bar)

	BarWin  xproto.Window
	By      int
	ShowBar bool
	TopBar  bool

	Lt       [2]*Layout
	Sellt    int
	LtSymbol string

	MFact   float64
	NMaster int

	Tagset   [2]uint32
	Seltags  int

	Clients *Client // head of insertion-ordered list
	Stack   *Client // head of focus-ordered list
	Sel     *Client

	Num  int
	Next *Monitor
}

// CreateMonitor builds a monitor with the compiled-in defaults (§3, §6).
func CreateMonitor(num int, layouts [2]*Layout) *Monitor {
	m := &Monitor{
		ShowBar: common.Config.ShowBar,
		TopBar:  common.Config.TopBar,
		MFact:   common.Config.MFact,
		NMaster: common.Config.NMaster,
		Num:     num,
		Lt:      layouts,
	}
	m.Tagset[0] = 1
	m.Tagset[1] = 1
	if layouts[0] != nil {
		m.LtSymbol = layouts[0].Symbol
	}
	return m
}

func (m *Monitor) ActiveTags() uint32 { return m.Tagset[m.Seltags] }

// AttachClient adds c to the head of m's insertion-ordered clients list
// (§3 lifecycle: "attached to both lists at head").
func (m *Monitor) AttachClient(c *Client) {
	c.Mon = m
	c.Next = m.Clients
	m.Clients = c
}

// DetachClient removes c from m's clients list, preserving order of the
// rest (§3 invariant: exactly one position in each list).
func (m *Monitor) DetachClient(c *Client) {
	pp := &m.Clients
	for *pp != nil && *pp != c {
		pp = &(*pp).Next
	}
	if *pp == c {
		*pp = c.Next
	}
	c.Next = nil
}

// AttachStack adds c to the head of the focus stack.
func (m *Monitor) AttachStack(c *Client) {
	c.SNext = m.Stack
	m.Stack = c
}

// DetachStack removes c from the focus stack, and if c was m.Sel,
// re-selects the first visible client in stack order (§4.4).
func (m *Monitor) DetachStack(c *Client) {
	pp := &m.Stack
	for *pp != nil && *pp != c {
		pp = &(*pp).SNext
	}
	if *pp == c {
		*pp = c.SNext
	}
	c.SNext = nil

	if c == m.Sel {
		var t *Client
		for t = m.Stack; t != nil && !t.IsVisible(); t = t.SNext {
		}
		m.Sel = t
	}
}

// NextTiled returns the next non-floating visible client in insertion
// order after c (c may be nil to start from the head), used by zoom and
// the tile layout.
func (m *Monitor) NextTiled(c *Client) *Client {
	for ; c != nil && (c.IsFloating || !c.IsVisible()); c = c.Next {
	}
	return c
}

// TiledClients returns the tiled (non-floating, visible) clients in
// insertion order, the population the layout engine arranges.
func (m *Monitor) TiledClients() []*Client {
	var out []*Client
	for c := m.NextTiled(m.Clients); c != nil; c = m.NextTiled(c.Next) {
		out = append(out, c)
	}
	return out
}

// AllClients returns every client on the monitor in insertion order,
// regardless of visibility or floating state.
func (m *Monitor) AllClients() []*Client {
	var out []*Client
	for c := m.Clients; c != nil; c = c.Next {
		out = append(out, c)
	}
	return out
}

// Focus implements §4.4: detach/reattach c at the stack head, switch the
// selected monitor if needed, set X input focus and _NET_ACTIVE_WINDOW,
// send WM_TAKE_FOCUS, recolor borders, and redraw every bar. A nil or
// invisible c falls back to the first visible client in stack order, or
// to the root window if there is none.
func Focus(c *Client) {
	if c == nil || !c.IsVisible() {
		c = nil
		if Selmon != nil {
			for t := Selmon.Stack; t != nil; t = t.SNext {
				if t.IsVisible() {
					c = t
					break
				}
			}
		}
	}

	if Selmon != nil && Selmon.Sel != nil && Selmon.Sel != c {
		Selmon.Sel.SetBorder(common.Config.NormalScheme)
	}

	if c != nil {
		if c.Mon != Selmon {
			Selmon = c.Mon
		}
		if c.IsUrgent {
			c.IsUrgent = false
		}
		Selmon.DetachStack(c)
		Selmon.AttachStack(c)
		Selmon.Sel = c
		c.SetBorder(common.Config.SelScheme)
		c.SetFocus()
	} else {
		xproto.SetInputFocus(X.Conn(), xproto.InputFocusPointerRoot, Root, xproto.TimeCurrentTime)
		ewmh.ActiveWindowSet(X, 0)
		if Selmon != nil {
			Selmon.Sel = nil
		}
	}

	for m := Mons; m != nil; m = m.Next {
		DrawBar(m)
	}
}

// Zoom swaps the selected client to the head of the clients list so it
// becomes master; if selected is already master, the next tiled client is
// promoted instead (§4.4).
func (m *Monitor) Zoom(c *Client) {
	if c == nil {
		c = m.NextTiled(m.Clients)
		if c == nil {
			return
		}
	}
	if c == m.NextTiled(m.Clients) {
		c = m.NextTiled(c.Next)
		if c == nil {
			return
		}
	}
	m.pop(c)
}

// pop detaches c from the clients list and reattaches it at the head,
// used by Zoom.
func (m *Monitor) pop(c *Client) {
	m.DetachClient(c)
	m.AttachClient(c)
	m.DetachStack(c)
	m.AttachStack(c)
}

// View implements §4.4 view(mask): "if mask == active tagset, no-op; else
// flip seltags, and if mask is nonzero, assign it to the now-active slot."
func (m *Monitor) View(mask uint32) bool {
	if mask == m.Tagset[m.Seltags] {
		return false
	}
	m.Seltags ^= 1
	if mask != 0 {
		m.Tagset[m.Seltags] = mask & common.TagMask()
	}
	return true
}

// ToggleView XORs the active tagset with mask, refusing changes that would
// empty it (§4.4, §3 invariant).
func (m *Monitor) ToggleView(mask uint32) bool {
	newTags := m.Tagset[m.Seltags] ^ (mask & common.TagMask())
	if newTags == 0 {
		return false
	}
	m.Tagset[m.Seltags] = newTags
	return true
}

// Tag replaces c's tags, refusing an empty result (§4.4).
func Tag(c *Client, mask uint32) bool {
	masked := mask & common.TagMask()
	if masked == 0 {
		return false
	}
	c.Tags = masked
	return true
}

// ToggleTag XORs c's tags, refusing an empty result (§4.4).
func ToggleTag(c *Client, mask uint32) bool {
	newTags := c.Tags ^ (mask & common.TagMask())
	if newTags == 0 {
		return false
	}
	c.Tags = newTags
	return true
}

// --- Monitor enumeration (§4.5) ---

// RectToMon returns the monitor with the largest area of intersection with
// g, tie-broken by list order; Selmon if none overlaps.
func RectToMon(g common.Geometry) *Monitor {
	var best *Monitor
	bestArea := -1
	for m := Mons; m != nil; m = m.Next {
		area := common.Intersect(g, common.Geometry{X: m.WX, Y: m.WY, Width: m.WW, Height: m.WH})
		if area > bestArea {
			bestArea = area
			best = m
		}
	}
	if best == nil || bestArea <= 0 {
		return Selmon
	}
	return best
}

// WinToMon returns the monitor owning win: its bar, its client, or (for
// root) the monitor under the pointer.
func WinToMon(win xproto.Window, clientOf func(xproto.Window) *Client) *Monitor {
	if win == Root {
		p, err := xproto.QueryPointer(X.Conn(), Root).Reply()
		if err == nil {
			return RectToMon(common.Geometry{X: int(p.RootX), Y: int(p.RootY), Width: 1, Height: 1})
		}
		return Selmon
	}
	for m := Mons; m != nil; m = m.Next {
		if m.BarWin == win {
			return m
		}
	}
	if c := clientOf(win); c != nil {
		return c.Mon
	}
	return Selmon
}

// UpdateMonitors re-queries RandR output geometry and grows/shrinks the
// monitor list to the unique-geometry count (§4.5), migrating clients of
// retired monitors to the first remaining one. newLayouts supplies the
// default layout pair for any newly created monitor.
func UpdateMonitors(newLayouts ...[2]*Layout) {
	heads := physicalHeads()

	dirty := false

	n := 0
	for m := Mons; m != nil; m = m.Next {
		n++
	}

	// Grow
	for n < len(heads) {
		var layouts [2]*Layout
		if len(newLayouts) > 0 {
			layouts = newLayouts[0]
		}
		m := CreateMonitor(n, layouts)
		m.Next = nil
		if Mons == nil {
			Mons = m
		} else {
			last := Mons
			for last.Next != nil {
				last = last.Next
			}
			last.Next = m
		}
		n++
		dirty = true
	}

	// Shrink: detach trailing monitors beyond len(heads), migrate clients
	if n > len(heads) && len(heads) > 0 {
		for n > len(heads) {
			last := Mons
			for last.Next != nil && last.Next.Next != nil {
				last = last.Next
			}
			var retiring *Monitor
			if last.Next != nil {
				retiring = last.Next
				last.Next = nil
			} else {
				retiring = last
				Mons = nil
			}
			migrateClients(retiring, Mons)
			if Selmon == retiring {
				Selmon = Mons
			}
			n--
			dirty = true
		}
	}

	// Update geometry on every surviving monitor
	i := 0
	for m := Mons; m != nil && i < len(heads); m, i = m.Next, i+1 {
		h := heads[i]
		if m.MX != h.X || m.MY != h.Y || m.MW != h.Width || m.MH != h.Height {
			dirty = true
		}
		m.MX, m.MY, m.MW, m.MH = h.X, h.Y, h.Width, h.Height
		updateBarPosition(m)
	}

	if Selmon == nil {
		Selmon = Mons
	}

	if dirty {
		log.Info("Monitor layout updated [count=", len(heads), "]")
	}
}

// updateBarPosition recomputes the usable area and bar y-coordinate from
// the monitor's total geometry, bar visibility and placement (§3, §4.6).
// UpdateBarGeometry recomputes m's usable area and bar placement after a
// ShowBar/TopBar change (§4.6 bar toggling).
func UpdateBarGeometry(m *Monitor) { updateBarPosition(m) }

func updateBarPosition(m *Monitor) {
	barHeight := barHeightPx()
	m.WY = m.MY
	m.WH = m.MH
	if m.ShowBar {
		m.WH -= barHeight
		if m.TopBar {
			m.By = m.WY
			m.WY += barHeight
		} else {
			m.By = m.WY + m.WH
		}
	} else {
		m.By = -barHeight
	}
	m.WX, m.WW = m.MX, m.MW
}

// barHeightPx is a small placeholder for the font-derived bar height (§1:
// the font/drawing library is an external collaborator); 22px matches a
// typical ~10pt monospace line plus padding.
func barHeightPx() int { return 22 }

func migrateClients(from, to *Monitor) {
	if from == nil || to == nil {
		return
	}
	for c := from.Clients; c != nil; {
		next := c.Next
		c.Next = nil
		to.AttachClient(c)
		c = next
	}
	from.Clients = nil
	for c := from.Stack; c != nil; {
		next := c.SNext
		c.SNext = nil
		to.AttachStack(c)
		c = next
	}
	from.Stack = nil
}

// physicalHeads queries RandR CRTC geometry and deduplicates identical
// (origin, size) outputs, generalizing the teacher's
// store.PhysicalHeadsGet (Xinerama in spirit, RandR in wire protocol) for
// use as our own monitor source of truth instead of a property mirror.
func physicalHeads() []common.Geometry {
	conn := X.Conn()
	resources, err := randr.GetScreenResources(conn, Root).Reply()
	if err != nil {
		return fallbackSingleHead()
	}

	var heads []common.Geometry
	for _, output := range resources.Outputs {
		oinfo, err := randr.GetOutputInfo(conn, output, 0).Reply()
		if err != nil || oinfo.Connection != randr.ConnectionConnected || oinfo.Crtc == 0 {
			continue
		}
		cinfo, err := randr.GetCrtcInfo(conn, oinfo.Crtc, 0).Reply()
		if err != nil {
			continue
		}
		heads = append(heads, common.Geometry{
			X: int(cinfo.X), Y: int(cinfo.Y), Width: int(cinfo.Width), Height: int(cinfo.Height),
		})
	}

	heads = dedupeHeads(heads)
	if len(heads) == 0 {
		return fallbackSingleHead()
	}

	sort.Slice(heads, func(i, j int) bool { return heads[i].X < heads[j].X })
	return heads
}

func dedupeHeads(heads []common.Geometry) []common.Geometry {
	var out []common.Geometry
	for _, h := range heads {
		dup := false
		for _, o := range out {
			if o.X == h.X && o.Y == h.Y && o.Width == h.Width && o.Height == h.Height {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, h)
		}
	}
	return out
}

// fallbackSingleHead returns the root geometry as the sole monitor when
// RandR is unavailable (§4.5: "Without Xinerama, maintain exactly one
// monitor at display dimensions").
func fallbackSingleHead() []common.Geometry {
	geom, err := xwindow.New(X, Root).Geometry()
	if err != nil {
		return []common.Geometry{{Width: 1024, Height: 768}}
	}
	return []common.Geometry{{X: geom.X(), Y: geom.Y(), Width: geom.Width(), Height: geom.Height()}}
}

// WriteClientList rewrites _NET_CLIENT_LIST as the concatenation of every
// monitor's clients list in monitor order (§3 invariant, §8 testable
// property).
func WriteClientList() {
	var wins []xproto.Window
	for m := Mons; m != nil; m = m.Next {
		for c := m.Clients; c != nil; c = c.Next {
			wins = append(wins, c.Win)
		}
	}
	if err := ewmh.ClientListSet(X, wins); err != nil {
		log.Warn("Error writing _NET_CLIENT_LIST: ", err)
	}
}
