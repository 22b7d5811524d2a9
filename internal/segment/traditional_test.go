package segment

import (
	"testing"
	"time"

	"github.com/inkplane/page-layout-mcp/internal/raster"
)

// whiteGray builds an all-white luminance grid.
func whiteGray(w, h int) *raster.Grayscale {
	g := &raster.Grayscale{Pix: make([]uint8, w*h), Width: w, Height: h}
	for i := range g.Pix {
		g.Pix[i] = 255
	}
	return g
}

// paintBlock darkens a rectangle of the grid to the given luminance.
func paintBlock(g *raster.Grayscale, r Rect, lum uint8) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			g.Pix[y*g.Width+x] = lum
		}
	}
}

func TestGutterBoundaries_SplitsOnWhitespace(t *testing.T) {
	cfg := DefaultConfig()
	g := whiteGray(100, 300)
	// Two dark blocks separated by a 40-row white gap.
	paintBlock(g, Rect{X: 0, Y: 20, W: 100, H: 100}, 0)
	paintBlock(g, Rect{X: 0, Y: 160, W: 100, H: 100}, 0)

	bounds := gutterBoundaries(g, Rect{X: 0, Y: 0, W: 100, H: 300}, cfg, true)
	// Region edges plus the midpoints of the three qualifying white runs.
	want := []int{0, 10, 140, 280, 300}
	if len(bounds) != len(want) {
		t.Fatalf("bounds: got %v, want %v", bounds, want)
	}
	for i := range bounds {
		if bounds[i] != want[i] {
			t.Errorf("bounds: got %v, want %v", bounds, want)
			break
		}
	}
}

func TestGutterBoundaries_IgnoresShortRuns(t *testing.T) {
	cfg := DefaultConfig()
	g := whiteGray(100, 200)
	// The 10-row gap between the blocks is below the gap threshold.
	paintBlock(g, Rect{X: 0, Y: 20, W: 100, H: 80}, 0)
	paintBlock(g, Rect{X: 0, Y: 110, W: 100, H: 70}, 0)

	bounds := gutterBoundaries(g, Rect{X: 0, Y: 0, W: 100, H: 200}, cfg, true)
	for _, b := range bounds[1 : len(bounds)-1] {
		if b > 100 && b < 110 {
			t.Errorf("short run should not contribute a boundary: %v", bounds)
		}
	}
}

func TestGutterCells_SubRegion(t *testing.T) {
	cfg := DefaultConfig()
	g := whiteGray(200, 200)
	// Content only inside the scanned region; a vertical white gap splits it.
	paintBlock(g, Rect{X: 60, Y: 60, W: 30, H: 80}, 0)
	paintBlock(g, Rect{X: 110, Y: 60, W: 30, H: 80}, 0)

	region := Rect{X: 50, Y: 50, W: 100, H: 100}
	cells := gutterCells(g, region, cfg)
	if len(cells) == 0 {
		t.Fatal("expected at least one cell")
	}
	for _, c := range cells {
		if !region.Contains(c) {
			t.Errorf("cell %+v escapes region %+v", c, region)
		}
	}
}

func TestBorderlessPanels_RecoversUnclaimedInk(t *testing.T) {
	cfg := DefaultConfig()
	m := &raster.BinaryMask{Bits: make([]bool, 200*200), Width: 200, Height: 200}
	blob := Rect{X: 40, Y: 50, W: 60, H: 30}
	for y := blob.Y; y < blob.Bottom(); y++ {
		for x := blob.X; x < blob.Right(); x++ {
			m.Bits[y*200+x] = true
		}
	}

	panels, degraded := borderlessPanels(m, nil, cfg, time.Time{})
	if degraded {
		t.Error("unexpected degraded flag")
	}
	if len(panels) != 1 {
		t.Fatalf("panel count: got %d, want 1", len(panels))
	}
	if panels[0].Bounds != blob {
		t.Errorf("bounds: got %+v, want %+v", panels[0].Bounds, blob)
	}
	if panels[0].Type != PanelBorderless {
		t.Errorf("type: got %s, want %s", panels[0].Type, PanelBorderless)
	}
	if panels[0].Confidence != 0.7 {
		t.Errorf("confidence: got %f, want 0.7", panels[0].Confidence)
	}
}

func TestBorderlessPanels_SkipsClaimedInk(t *testing.T) {
	cfg := DefaultConfig()
	m := &raster.BinaryMask{Bits: make([]bool, 200*200), Width: 200, Height: 200}
	blob := Rect{X: 40, Y: 50, W: 60, H: 30}
	for y := blob.Y; y < blob.Bottom(); y++ {
		for x := blob.X; x < blob.Right(); x++ {
			m.Bits[y*200+x] = true
		}
	}

	panels, _ := borderlessPanels(m, []Rect{{X: 30, Y: 40, W: 90, H: 60}}, cfg, time.Time{})
	if len(panels) != 0 {
		t.Errorf("claimed ink should not be recovered: got %d panels", len(panels))
	}
}

func TestBorderlessPanels_DropsNoise(t *testing.T) {
	cfg := DefaultConfig()
	m := &raster.BinaryMask{Bits: make([]bool, 200*200), Width: 200, Height: 200}
	// 9x9 speck: above nothing, below the noise component floor.
	for y := 50; y < 59; y++ {
		for x := 50; x < 59; x++ {
			m.Bits[y*200+x] = true
		}
	}

	panels, _ := borderlessPanels(m, nil, cfg, time.Time{})
	if len(panels) != 0 {
		t.Errorf("speck should be discarded as noise: got %d panels", len(panels))
	}
}

func TestInsetPanels_DepthCapped(t *testing.T) {
	cfg := DefaultConfig()
	g := whiteGray(100, 100)

	if panels := insetPanels(g, Rect{X: 0, Y: 0, W: 100, H: 100}, cfg, cfg.MaxInsetDepth+1, time.Time{}); panels != nil {
		t.Errorf("recursion beyond the depth cap should return nil: %+v", panels)
	}
}

func TestInsetPanels_AreaRatioBounds(t *testing.T) {
	cfg := DefaultConfig()
	g := whiteGray(400, 400)
	// A dark block framed by narrow whitespace gutters; the resulting edge
	// cells are too thin to qualify, leaving a single inset.
	paintBlock(g, Rect{X: 30, Y: 30, W: 340, H: 340}, 0)

	panels := insetPanels(g, Rect{X: 0, Y: 0, W: 400, H: 400}, cfg, 1, time.Time{})
	if len(panels) != 1 {
		t.Fatalf("panel count: got %d, want 1", len(panels))
	}
	if panels[0].Type != PanelInset {
		t.Errorf("type: got %s, want %s", panels[0].Type, PanelInset)
	}
	want := Rect{X: 15, Y: 15, W: 370, H: 370}
	if panels[0].Bounds != want {
		t.Errorf("bounds: got %+v, want %+v", panels[0].Bounds, want)
	}
	if panels[0].Confidence != 0.75 {
		t.Errorf("confidence: got %f, want 0.75", panels[0].Confidence)
	}
}

func TestTraditionalStrategy_ClaimsAndRecovers(t *testing.T) {
	cfg := DefaultConfig()
	g := whiteGray(300, 300)
	// One dark framed block; gutters on all sides.
	paintBlock(g, Rect{X: 40, Y: 40, W: 220, H: 220}, 0)

	mask := &raster.BinaryMask{Bits: make([]bool, 300*300), Width: 300, Height: 300}
	panels, degraded := traditionalStrategy(g, mask, cfg, time.Time{})
	if degraded {
		t.Error("unexpected degraded flag")
	}
	if len(panels) == 0 {
		t.Fatal("expected at least one panel")
	}

	foundStandard := false
	for _, p := range panels {
		if p.Type == PanelStandard {
			foundStandard = true
			if !p.Bounds.Contains(Rect{X: 40, Y: 40, W: 220, H: 220}) {
				t.Errorf("standard panel should cover the block: %+v", p.Bounds)
			}
		}
	}
	if !foundStandard {
		t.Errorf("no standard panel detected: %+v", panels)
	}
}
