package store

import (
	"testing"

	"github.com/leukipp/wmgo/common"
)

func newTestMonitor(num int) *Monitor {
	m := CreateMonitor(num, [2]*Layout{})
	m.WX, m.WY, m.WW, m.WH = 0, 0, 1920, 1080
	return m
}

func TestViewNoopOnSameTagset(t *testing.T) {
	m := newTestMonitor(0)
	before := m.Tagset[m.Seltags]
	if m.View(before) {
		t.Fatalf("View(active mask) returned true, want no-op")
	}
	if m.Tagset[m.Seltags] != before {
		t.Fatalf("View(active mask) mutated the active tagset")
	}
}

func TestViewFlipsSeltagsAndAssignsMask(t *testing.T) {
	m := newTestMonitor(0)
	startSeltags := m.Seltags
	if !m.View(4) {
		t.Fatalf("View(4) returned false, want true")
	}
	if m.Seltags == startSeltags {
		t.Fatalf("View did not flip Seltags")
	}
	if m.Tagset[m.Seltags] != 4 {
		t.Fatalf("View did not assign mask into the new active slot")
	}
}

func TestViewZeroMaskOnlyFlipsSlot(t *testing.T) {
	m := newTestMonitor(0)
	m.Tagset[0] = 1
	m.Tagset[1] = 2
	m.Seltags = 0
	if !m.View(0) {
		t.Fatalf("View(0) returned false, want true (flips without reassigning)")
	}
	if m.Seltags != 1 || m.Tagset[1] != 2 {
		t.Fatalf("View(0) should flip to the other slot unchanged, got seltags=%d tagset=%v", m.Seltags, m.Tagset)
	}
}

func TestToggleViewRefusesEmptyResult(t *testing.T) {
	m := newTestMonitor(0)
	m.Tagset[m.Seltags] = 1
	if m.ToggleView(1) {
		t.Fatalf("ToggleView emptied the active tagset and still returned true")
	}
	if m.Tagset[m.Seltags] != 1 {
		t.Fatalf("ToggleView mutated the tagset despite refusing")
	}
}

func TestToggleViewIdempotentPair(t *testing.T) {
	m := newTestMonitor(0)
	m.Tagset[m.Seltags] = 1
	if !m.ToggleView(2) {
		t.Fatalf("ToggleView(2) should succeed, tagset becomes non-empty")
	}
	if m.Tagset[m.Seltags] != 3 {
		t.Fatalf("tagset = %d, want 3 (1|2)", m.Tagset[m.Seltags])
	}
	if !m.ToggleView(2) {
		t.Fatalf("ToggleView(2) again should succeed, tagset returns to 1")
	}
	if m.Tagset[m.Seltags] != 1 {
		t.Fatalf("tagset = %d, want 1 after toggling the same bit twice", m.Tagset[m.Seltags])
	}
}

func TestTagRefusesEmptyResult(t *testing.T) {
	c := &Client{Tags: 1}
	if Tag(c, 0) {
		t.Fatalf("Tag(0) returned true, want refusal")
	}
	if c.Tags != 1 {
		t.Fatalf("Tag(0) mutated c.Tags despite refusing")
	}
}

func TestTagMasksAgainstConfiguredTags(t *testing.T) {
	old := common.Config.Tags
	common.Config.Tags = []string{"1", "2", "3"}
	defer func() { common.Config.Tags = old }()

	c := &Client{Tags: 1}
	if !Tag(c, 0xFFFFFFFF) {
		t.Fatalf("Tag with out-of-range bits set should still succeed once masked")
	}
	if c.Tags != common.TagMask() {
		t.Fatalf("c.Tags = %#x, want masked to %#x", c.Tags, common.TagMask())
	}
}

func TestToggleTagRefusesEmptyResult(t *testing.T) {
	c := &Client{Tags: 2}
	if ToggleTag(c, 2) {
		t.Fatalf("ToggleTag clearing the only tag should be refused")
	}
	if c.Tags != 2 {
		t.Fatalf("ToggleTag mutated c.Tags despite refusing")
	}
}

func TestRectToMonPicksLargestOverlap(t *testing.T) {
	left := newTestMonitor(0)
	left.WX, left.WY, left.WW, left.WH = 0, 0, 1000, 1000
	right := newTestMonitor(1)
	right.WX, right.WY, right.WW, right.WH = 1000, 0, 1000, 1000
	left.Next = right

	saved := Mons
	Mons, Selmon = left, left
	defer func() { Mons, Selmon = saved, saved }()

	got := RectToMon(common.Geometry{X: 900, Y: 0, Width: 300, Height: 300})
	if got != right {
		t.Fatalf("RectToMon picked monitor %d, want the one with more overlap (monitor 1)", got.Num)
	}
}

func TestRectToMonFallsBackToSelmon(t *testing.T) {
	only := newTestMonitor(0)
	only.WX, only.WY, only.WW, only.WH = 0, 0, 100, 100

	saved := Mons
	savedSel := Selmon
	Mons, Selmon = only, only
	defer func() { Mons, Selmon = saved, savedSel }()

	got := RectToMon(common.Geometry{X: 5000, Y: 5000, Width: 10, Height: 10})
	if got != only {
		t.Fatalf("RectToMon should fall back to Selmon when nothing overlaps")
	}
}

func TestAttachDetachClientPreservesOrder(t *testing.T) {
	m := newTestMonitor(0)
	a, b, c := &Client{}, &Client{}, &Client{}
	m.AttachClient(a)
	m.AttachClient(b)
	m.AttachClient(c)

	got := m.AllClients()
	if len(got) != 3 || got[0] != c || got[1] != b || got[2] != a {
		t.Fatalf("AttachClient should insert at head each time, got order %v", got)
	}

	m.DetachClient(b)
	got = m.AllClients()
	if len(got) != 2 || got[0] != c || got[1] != a {
		t.Fatalf("DetachClient(b) left order %v, want [c, a]", got)
	}
}
