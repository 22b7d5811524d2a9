package segment

import (
	"github.com/inkplane/page-layout-mcp/internal/raster"
)

// webtoonConfidence applies to every webtoon span: whitespace gutters across
// the full strip width are structurally unambiguous.
const webtoonConfidence = 0.9

// webtoonStrategy segments a vertical strip by scanning row ink density.
// Contiguous runs of near-empty rows (density below WebtoonInkThreshold, run
// length at least GapThreshold) are gutters; the spans between them become
// full-width panels.
func webtoonStrategy(mask *raster.BinaryMask, cfg Config) []Panel {
	w, h := mask.Width, mask.Height
	proj := mask.RowProjection()

	isGutterRow := make([]bool, h)
	for y := 0; y < h; y++ {
		if proj[y]/float64(w) < cfg.WebtoonInkThreshold {
			isGutterRow[y] = true
		}
	}

	// Qualify only gutter runs long enough to be intentional gaps; short
	// white runs inside artwork stay part of their panel.
	gutter := make([]bool, h)
	runStart := -1
	for y := 0; y <= h; y++ {
		if y < h && isGutterRow[y] {
			if runStart < 0 {
				runStart = y
			}
			continue
		}
		if runStart >= 0 && y-runStart >= cfg.GapThreshold {
			for i := runStart; i < y; i++ {
				gutter[i] = true
			}
		}
		runStart = -1
	}

	var panels []Panel
	spanStart := -1
	for y := 0; y <= h; y++ {
		if y < h && !gutter[y] {
			if spanStart < 0 {
				spanStart = y
			}
			continue
		}
		if spanStart >= 0 && y-spanStart >= cfg.MinPanelSize {
			panels = append(panels, Panel{
				Bounds:       Rect{X: 0, Y: spanStart, W: w, H: y - spanStart},
				Type:         PanelWebtoon,
				Confidence:   webtoonConfidence,
				ReadingOrder: -1,
			})
		}
		spanStart = -1
	}
	return panels
}
