package segment

import (
	"time"

	"github.com/inkplane/page-layout-mcp/internal/raster"
)

const (
	standardConfidence   = 0.85
	insetConfidence      = 0.75
	borderlessConfidence = 0.7
)

// traditionalStrategy segments a free-form page. It combines three passes:
//
//  1. Gutter grid: rows/columns that are mostly near-white form boundary
//     lines; cells between boundaries become Standard panel candidates.
//  2. Inset detection: gutter detection re-runs recursively inside every
//     cell (depth-capped); children sized between InsetMinAreaRatio and
//     InsetMaxAreaRatio of their parent become Inset candidates. Cells that
//     fail the page-level candidate filter still get an inset pass — a
//     whole-page pseudo-cell is itself no panel, but its interior structure
//     is.
//  3. Borderless recovery: connected-component analysis (4-connectivity)
//     over ink not claimed by an accepted cell picks up unframed artwork.
//
// The returned flag reports whether the deadline expired mid-analysis.
func traditionalStrategy(gray *raster.Grayscale, mask *raster.BinaryMask, cfg Config, deadline time.Time) ([]Panel, bool) {
	w, h := gray.Width, gray.Height
	page := Rect{X: 0, Y: 0, W: w, H: h}

	cells := gutterCells(gray, page, cfg)

	var panels []Panel
	var claimed []Rect
	degraded := false
	for _, cell := range cells {
		if expired(deadline) {
			degraded = true
			break
		}
		if passesFilter(cell, page, cfg) {
			panels = append(panels, Panel{
				Bounds:       cell,
				Type:         PanelStandard,
				Confidence:   standardConfidence,
				ReadingOrder: -1,
			})
			claimed = append(claimed, cell)
		}
		panels = append(panels, insetPanels(gray, cell, cfg, 1, deadline)...)
	}

	borderless, ccDegraded := borderlessPanels(mask, claimed, cfg, deadline)
	panels = append(panels, borderless...)
	return panels, degraded || ccDegraded
}

// gutterCells detects gutters inside region and returns the cells of the
// resulting boundary grid (in absolute coordinates).
//
// A row/column qualifies as gutter when at least GutterRowFraction of its
// pixels are near-white (luminance above GutterWhiteness); runs of
// qualifying positions at least GapThreshold long contribute a boundary at
// the run midpoint. Region edges are implicit boundaries.
func gutterCells(gray *raster.Grayscale, region Rect, cfg Config) []Rect {
	rowBounds := gutterBoundaries(gray, region, cfg, true)
	colBounds := gutterBoundaries(gray, region, cfg, false)

	var cells []Rect
	for r := 0; r < len(rowBounds)-1; r++ {
		for c := 0; c < len(colBounds)-1; c++ {
			cell := Rect{
				X: colBounds[c],
				Y: rowBounds[r],
				W: colBounds[c+1] - colBounds[c],
				H: rowBounds[r+1] - rowBounds[r],
			}
			if cell.W > 0 && cell.H > 0 {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}

// gutterBoundaries scans region rows (or columns) and converts qualifying
// gutter runs into boundary coordinates.
func gutterBoundaries(gray *raster.Grayscale, region Rect, cfg Config, horizontal bool) []int {
	var length, span, origin int
	if horizontal {
		length, span, origin = region.H, region.W, region.Y
	} else {
		length, span, origin = region.W, region.H, region.X
	}

	need := int(cfg.GutterRowFraction * float64(span))
	isGutter := make([]bool, length)
	for i := 0; i < length; i++ {
		white := 0
		if horizontal {
			y := region.Y + i
			base := y * gray.Width
			for x := region.X; x < region.Right(); x++ {
				if gray.Pix[base+x] > cfg.GutterWhiteness {
					white++
				}
			}
		} else {
			x := region.X + i
			for y := region.Y; y < region.Bottom(); y++ {
				if gray.Pix[y*gray.Width+x] > cfg.GutterWhiteness {
					white++
				}
			}
		}
		isGutter[i] = white >= need
	}

	bounds := []int{origin}
	runStart := -1
	for i := 0; i <= length; i++ {
		if i < length && isGutter[i] {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 && i-runStart >= cfg.GapThreshold {
			mid := origin + (runStart+i)/2
			// Midpoints at the region edges add no cell boundary.
			if mid > origin && mid < origin+length-1 {
				bounds = append(bounds, mid)
			}
		}
		runStart = -1
	}
	bounds = append(bounds, origin+length)
	return bounds
}

// insetPanels recursively re-runs gutter detection inside a parent region
// and keeps children whose area falls between InsetMinAreaRatio and
// InsetMaxAreaRatio of the parent. Recursion is hard-capped at
// MaxInsetDepth to bound pathological nesting.
func insetPanels(gray *raster.Grayscale, parent Rect, cfg Config, depth int, deadline time.Time) []Panel {
	if depth > cfg.MaxInsetDepth || expired(deadline) {
		return nil
	}
	parentArea := float64(parent.Area())
	if parentArea <= 0 {
		return nil
	}

	var panels []Panel
	for _, cell := range gutterCells(gray, parent, cfg) {
		ratio := float64(cell.Area()) / parentArea
		if ratio < cfg.InsetMinAreaRatio || ratio > cfg.InsetMaxAreaRatio {
			continue
		}
		if cell.W < cfg.MinPanelSize || cell.H < cfg.MinPanelSize {
			continue
		}
		panels = append(panels, Panel{
			Bounds:       cell,
			Type:         PanelInset,
			Confidence:   insetConfidence,
			ReadingOrder: -1,
		})
		panels = append(panels, insetPanels(gray, cell, cfg, depth+1, deadline)...)
	}
	return panels
}

// borderlessPanels recovers unframed artwork: iterative 4-connected flood
// fill over ink pixels outside every claimed rectangle, keeping components
// above the noise floor whose bounding box is at least MinAreaRatio of the
// page.
func borderlessPanels(mask *raster.BinaryMask, claimed []Rect, cfg Config, deadline time.Time) ([]Panel, bool) {
	w, h := mask.Width, mask.Height
	pageArea := float64(w * h)

	// Rasterize the claimed cells once so the per-pixel test is O(1).
	off := make([]bool, w*h)
	for _, r := range claimed {
		for y := r.Y; y < r.Bottom(); y++ {
			base := y * w
			for x := r.X; x < r.Right(); x++ {
				off[base+x] = true
			}
		}
	}

	visited := make([]bool, w*h)
	var stack []int
	var panels []Panel
	degraded := false

	for start := 0; start < w*h; start++ {
		if !mask.Bits[start] || visited[start] || off[start] {
			continue
		}
		if expired(deadline) {
			degraded = true
			break
		}

		minX, minY := w, h
		maxX, maxY := 0, 0
		count := 0
		stack = append(stack[:0], start)
		visited[start] = true
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := idx%w, idx/w

			count++
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

			// 4-connected neighbors.
			if x > 0 {
				push(&stack, visited, mask.Bits, off, idx-1)
			}
			if x < w-1 {
				push(&stack, visited, mask.Bits, off, idx+1)
			}
			if y > 0 {
				push(&stack, visited, mask.Bits, off, idx-w)
			}
			if y < h-1 {
				push(&stack, visited, mask.Bits, off, idx+w)
			}
		}

		if count < cfg.NoiseComponentSize {
			continue
		}
		box := Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}
		if float64(box.Area()) < cfg.MinAreaRatio*pageArea {
			continue
		}
		panels = append(panels, Panel{
			Bounds:       box,
			Type:         PanelBorderless,
			Confidence:   borderlessConfidence,
			ReadingOrder: -1,
		})
	}
	return panels, degraded
}

func push(stack *[]int, visited, ink, off []bool, idx int) {
	if !visited[idx] && ink[idx] && !off[idx] {
		visited[idx] = true
		*stack = append(*stack, idx)
	}
}

func expired(deadline time.Time) bool {
	return !deadline.IsZero() && time.Now().After(deadline)
}
