package segment

import (
	"testing"
)

// quad returns four equal panels in a 2x2 arrangement with stable IDs:
// a=top-left, b=top-right, c=bottom-left, d=bottom-right.
func quad() []Panel {
	return []Panel{
		{ID: "a", Bounds: Rect{X: 0, Y: 0, W: 100, H: 100}, ReadingOrder: -1},
		{ID: "b", Bounds: Rect{X: 110, Y: 0, W: 100, H: 100}, ReadingOrder: -1},
		{ID: "c", Bounds: Rect{X: 0, Y: 110, W: 100, H: 100}, ReadingOrder: -1},
		{ID: "d", Bounds: Rect{X: 110, Y: 110, W: 100, H: 100}, ReadingOrder: -1},
	}
}

func orderByID(panels []Panel) map[string]int {
	m := make(map[string]int, len(panels))
	for _, p := range panels {
		m[p.ID] = p.ReadingOrder
	}
	return m
}

func TestAssignReadingOrder_RTL(t *testing.T) {
	panels := quad()
	assignReadingOrder(panels, DirectionRTL)

	want := map[string]int{"b": 0, "a": 1, "d": 2, "c": 3}
	got := orderByID(panels)
	for id, order := range want {
		if got[id] != order {
			t.Errorf("panel %s: got order %d, want %d", id, got[id], order)
		}
	}
}

func TestAssignReadingOrder_LTR(t *testing.T) {
	panels := quad()
	assignReadingOrder(panels, DirectionLTR)

	want := map[string]int{"a": 0, "b": 1, "c": 2, "d": 3}
	got := orderByID(panels)
	for id, order := range want {
		if got[id] != order {
			t.Errorf("panel %s: got order %d, want %d", id, got[id], order)
		}
	}
}

func TestAssignReadingOrder_TTB(t *testing.T) {
	panels := quad()
	assignReadingOrder(panels, DirectionTTB)

	// Flat top-to-bottom sort, ties broken left to right.
	want := map[string]int{"a": 0, "b": 1, "c": 2, "d": 3}
	got := orderByID(panels)
	for id, order := range want {
		if got[id] != order {
			t.Errorf("panel %s: got order %d, want %d", id, got[id], order)
		}
	}
}

func TestAssignReadingOrder_StaggeredRow(t *testing.T) {
	// Slight vertical misalignment within a visual row must not split it:
	// the center-y offset (20) stays below half the smaller height (50).
	panels := []Panel{
		{ID: "left", Bounds: Rect{X: 0, Y: 20, W: 100, H: 100}, ReadingOrder: -1},
		{ID: "right", Bounds: Rect{X: 110, Y: 0, W: 100, H: 100}, ReadingOrder: -1},
	}
	assignReadingOrder(panels, DirectionRTL)

	got := orderByID(panels)
	if got["right"] != 0 || got["left"] != 1 {
		t.Errorf("staggered row should read right first: %v", got)
	}
}

func TestAssignReadingOrder_Empty(t *testing.T) {
	assignReadingOrder(nil, DirectionRTL)
}

func TestAssignReadingOrder_Permutation(t *testing.T) {
	panels := []Panel{
		{ID: "1", Bounds: Rect{X: 300, Y: 5, W: 90, H: 60}, ReadingOrder: -1},
		{ID: "2", Bounds: Rect{X: 10, Y: 0, W: 120, H: 80}, ReadingOrder: -1},
		{ID: "3", Bounds: Rect{X: 150, Y: 200, W: 200, H: 90}, ReadingOrder: -1},
		{ID: "4", Bounds: Rect{X: 5, Y: 320, W: 380, H: 70}, ReadingOrder: -1},
		{ID: "5", Bounds: Rect{X: 160, Y: 10, W: 100, H: 70}, ReadingOrder: -1},
	}

	for _, dir := range []Direction{DirectionRTL, DirectionLTR, DirectionTTB} {
		t.Run(string(dir), func(t *testing.T) {
			ps := make([]Panel, len(panels))
			copy(ps, panels)
			assignReadingOrder(ps, dir)

			seen := make(map[int]bool, len(ps))
			for _, p := range ps {
				if p.ReadingOrder < 0 || p.ReadingOrder >= len(ps) {
					t.Errorf("order out of range: %d", p.ReadingOrder)
				}
				if seen[p.ReadingOrder] {
					t.Errorf("duplicate order %d", p.ReadingOrder)
				}
				seen[p.ReadingOrder] = true
			}
		})
	}
}

func TestAssignNeighbors_Quad(t *testing.T) {
	panels := quad()
	assignNeighbors(panels)

	byID := make(map[string]Panel, len(panels))
	for _, p := range panels {
		byID[p.ID] = p
	}

	tests := []struct {
		id   string
		want Neighbors
	}{
		{"a", Neighbors{Right: "b", Bottom: "c"}},
		{"b", Neighbors{Left: "a", Bottom: "d"}},
		{"c", Neighbors{Right: "d", Top: "a"}},
		{"d", Neighbors{Left: "c", Top: "b"}},
	}
	for _, tt := range tests {
		if got := byID[tt.id].Neighbors; got != tt.want {
			t.Errorf("panel %s neighbors: got %+v, want %+v", tt.id, got, tt.want)
		}
	}
}

func TestAssignNeighbors_SinglePanel(t *testing.T) {
	panels := []Panel{{ID: "only", Bounds: Rect{X: 0, Y: 0, W: 100, H: 100}}}
	assignNeighbors(panels)
	if panels[0].Neighbors != (Neighbors{}) {
		t.Errorf("lone panel should have no neighbors: %+v", panels[0].Neighbors)
	}
}

func TestAssignNeighbors_PicksNearest(t *testing.T) {
	panels := []Panel{
		{ID: "top", Bounds: Rect{X: 0, Y: 0, W: 100, H: 100}},
		{ID: "near", Bounds: Rect{X: 0, Y: 110, W: 100, H: 100}},
		{ID: "far", Bounds: Rect{X: 0, Y: 300, W: 100, H: 100}},
	}
	assignNeighbors(panels)
	if panels[0].Neighbors.Bottom != "near" {
		t.Errorf("bottom neighbor: got %q, want \"near\"", panels[0].Neighbors.Bottom)
	}
	if panels[2].Neighbors.Top != "near" {
		t.Errorf("top neighbor: got %q, want \"near\"", panels[2].Neighbors.Top)
	}
}
