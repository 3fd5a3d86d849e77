package layout

import "testing"

// Single monitor, four windows, tile layout, mfact=0.55, nmaster=1, window
// area 1600x1000 at the origin, borderless clients.
func TestTileCellsSingleMasterFourStack(t *testing.T) {
	cells := tileCells(4, 1, 0.55, 0, 0, 1600, 1000, []int{0, 0, 0, 0})
	if len(cells) != 4 {
		t.Fatalf("got %d cells, want 4", len(cells))
	}

	master := cells[0]
	if master.x != 0 || master.y != 0 {
		t.Fatalf("master origin = (%d, %d), want (0, 0)", master.x, master.y)
	}
	if master.w != 880 {
		t.Fatalf("master width = %d, want 880 (1600*0.55)", master.w)
	}
	if master.h != 1000 {
		t.Fatalf("master height = %d, want full 1000 (sole master)", master.h)
	}

	for i := 1; i < 4; i++ {
		if cells[i].x != 880 {
			t.Fatalf("stack[%d].x = %d, want 880", i, cells[i].x)
		}
		if cells[i].w != 1600-880 {
			t.Fatalf("stack[%d].w = %d, want %d", i, cells[i].w, 1600-880)
		}
	}

	wantH := 1000 / 3
	for i := 1; i < 3; i++ {
		if cells[i].h != wantH {
			t.Fatalf("stack[%d].h = %d, want %d", i, cells[i].h, wantH)
		}
	}
	// Residual division: the last stack client absorbs the remainder so the
	// three stack heights still sum exactly to wh.
	sum := cells[1].h + cells[2].h + cells[3].h
	if sum != 1000 {
		t.Fatalf("stack heights sum to %d, want 1000", sum)
	}
}

func TestTileCellsNoMaster(t *testing.T) {
	cells := tileCells(3, 0, 0.55, 0, 0, 900, 600, []int{0, 0, 0})
	for i, c := range cells {
		if c.x != 0 || c.w != 900 {
			t.Fatalf("cell[%d] = %+v, want full-width stack column", i, c)
		}
	}
}

func TestTileCellsBorderWidthShrinksGeometry(t *testing.T) {
	cells := tileCells(1, 1, 0.55, 0, 0, 800, 600, []int{2})
	if cells[0].w != 800-4 || cells[0].h != 600-4 {
		t.Fatalf("cell = %+v, want 2px border subtracted from both dimensions", cells[0])
	}
}

func TestSymbolAt(t *testing.T) {
	symbols := []string{"[]=", "[M]"}
	if got := symbolAt(symbols, 0, "fallback"); got != "[]=" {
		t.Fatalf("symbolAt(0) = %q, want %q", got, "[]=")
	}
	if got := symbolAt(symbols, 5, "fallback"); got != "fallback" {
		t.Fatalf("symbolAt(5) = %q, want fallback", got)
	}
}
