package store

import "testing"

// applySizeHints should be a fixed point: feeding its own output back in
// produces the same geometry again, since a width/height already on the
// base+increment grid and within min/max needs no further adjustment.
func TestApplySizeHintsFixedPoint(t *testing.T) {
	c := &Client{BaseW: 10, BaseH: 10, IncW: 8, IncH: 6, MinW: 10, MinH: 10, MaxW: 500, MaxH: 500}

	w, h := applySizeHints(c, 250, 200)
	w2, h2 := applySizeHints(c, w, h)

	if w != w2 || h != h2 {
		t.Fatalf("applySizeHints(%d, %d) = (%d, %d), not a fixed point", w, h, w2, h2)
	}
}

func TestApplySizeHintsRoundsDownToIncrementGrid(t *testing.T) {
	c := &Client{BaseW: 0, BaseH: 0, IncW: 10, IncH: 10}
	w, h := applySizeHints(c, 123, 127)
	if w != 120 || h != 120 {
		t.Fatalf("applySizeHints(123, 127) = (%d, %d), want (120, 120)", w, h)
	}
}

func TestApplySizeHintsClampsToMinMax(t *testing.T) {
	c := &Client{MinW: 100, MinH: 100, MaxW: 200, MaxH: 200}
	w, h := applySizeHints(c, 50, 5000)
	if w != 100 || h != 200 {
		t.Fatalf("applySizeHints(50, 5000) = (%d, %d), want (100, 200)", w, h)
	}
}

func TestApplyClampAndHintsNoChangeReportsUnchanged(t *testing.T) {
	m := &Monitor{WX: 0, WY: 0, WW: 1920, WH: 1080}
	c := &Client{Mon: m, X: 100, Y: 100, W: 300, H: 200}

	_, _, _, _, changed := ApplyClampAndHints(c, 100, 100, 300, 200, false)
	if changed {
		t.Fatalf("ApplyClampAndHints reported a change for identical geometry")
	}
}

func TestApplyClampAndHintsFloorsZeroSize(t *testing.T) {
	m := &Monitor{WX: 0, WY: 0, WW: 1920, WH: 1080}
	c := &Client{Mon: m}

	_, _, w, h, _ := ApplyClampAndHints(c, 0, 0, 0, 0, false)
	if w < 1 || h < 1 {
		t.Fatalf("ApplyClampAndHints allowed non-positive geometry (%d, %d)", w, h)
	}
}
