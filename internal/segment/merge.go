package segment

import (
	"sort"

	"github.com/inkplane/page-layout-mcp/internal/raster"
)

// edgeTolerance is how close (in analysis pixels) a panel edge must be to a
// page edge to count as touching it.
const edgeTolerance = 2

// passesFilter applies the candidate bounds checks: area ratio relative to
// the page, aspect ratio, and minimum pixel dimensions.
func passesFilter(r Rect, page Rect, cfg Config) bool {
	if r.W < cfg.MinPanelSize || r.H < cfg.MinPanelSize {
		return false
	}
	pageArea := float64(page.Area())
	if pageArea <= 0 {
		return false
	}
	ratio := float64(r.Area()) / pageArea
	if ratio < cfg.MinAreaRatio || ratio > cfg.MaxAreaRatio {
		return false
	}
	aspect := float64(r.W) / float64(r.H)
	return aspect >= cfg.MinAspect && aspect <= cfg.MaxAspect
}

// filterCandidates drops candidates failing passesFilter.
func filterCandidates(panels []Panel, page Rect, cfg Config) []Panel {
	kept := panels[:0]
	for _, p := range panels {
		if passesFilter(p.Bounds, page, cfg) {
			kept = append(kept, p)
		}
	}
	return kept
}

// mergeOverlapping resolves conflicting candidates: panels are considered in
// confidence order (stable, so discovery order breaks ties) and a candidate
// is dropped when its intersection-over-min-area with an already-accepted
// panel exceeds OverlapRatio.
func mergeOverlapping(panels []Panel, cfg Config) []Panel {
	sorted := make([]Panel, len(panels))
	copy(sorted, panels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	var accepted []Panel
	for _, cand := range sorted {
		conflict := false
		for _, acc := range accepted {
			if overlapOverMin(cand.Bounds, acc.Bounds) > cfg.OverlapRatio {
				conflict = true
				break
			}
		}
		if !conflict {
			accepted = append(accepted, cand)
		}
	}
	return accepted
}

// overlapOverMin returns intersection area divided by the smaller rectangle
// area; 0 for disjoint or degenerate rectangles.
func overlapOverMin(a, b Rect) float64 {
	inter := a.Intersect(b).Area()
	if inter == 0 {
		return 0
	}
	min := minInt(a.Area(), b.Area())
	if min == 0 {
		return 0
	}
	return float64(inter) / float64(min)
}

// refinePanels tags edge-related panel types and computes ink density and
// tight content bounds from the analysis-resolution luminance grid.
//
// Only Standard panels are retagged: strategy-assigned types (grid, webtoon,
// borderless, inset) already carry more specific information.
func refinePanels(panels []Panel, gray *raster.Grayscale, cfg Config) {
	w, h := gray.Width, gray.Height
	for i := range panels {
		p := &panels[i]

		if p.Type == PanelStandard {
			left := p.Bounds.X <= edgeTolerance
			right := p.Bounds.Right() >= w-edgeTolerance
			top := p.Bounds.Y <= edgeTolerance
			bottom := p.Bounds.Bottom() >= h-edgeTolerance
			touches := 0
			for _, t := range []bool{left, right, top, bottom} {
				if t {
					touches++
				}
			}
			switch {
			case (left && right) || (top && bottom):
				p.Type = PanelFullBleed
			case touches == 1:
				p.Type = PanelEdge
			}
		}

		p.InkDensity, p.ContentBounds = inkContent(gray, p.Bounds, cfg.GutterWhiteness)
	}
}

// inkContent returns the fraction of sub-white pixels within bounds and the
// tightest rectangle enclosing them. Bounds with no qualifying ink keep
// their full rectangle as content bounds.
func inkContent(gray *raster.Grayscale, bounds Rect, whiteness uint8) (float64, Rect) {
	x1 := maxInt(bounds.X, 0)
	y1 := maxInt(bounds.Y, 0)
	x2 := minInt(bounds.Right(), gray.Width)
	y2 := minInt(bounds.Bottom(), gray.Height)
	if x2 <= x1 || y2 <= y1 {
		return 0, bounds
	}

	minX, minY := x2, y2
	maxX, maxY := x1-1, y1-1
	ink := 0
	for y := y1; y < y2; y++ {
		base := y * gray.Width
		for x := x1; x < x2; x++ {
			if gray.Pix[base+x] <= whiteness {
				ink++
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}

	density := float64(ink) / float64((x2-x1)*(y2-y1))
	if ink == 0 {
		return density, bounds
	}
	return density, Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}
}
