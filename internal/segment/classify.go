package segment

import (
	"gonum.org/v1/gonum/stat"

	"github.com/inkplane/page-layout-mcp/internal/raster"
)

// gridLines holds the positions of strong boundary lines detected on each
// axis: rows are y coordinates of horizontal lines, cols x coordinates of
// vertical lines. Positions are already merged within LineMergeTolerance.
type gridLines struct {
	rows []int
	cols []int
}

// classifyLayout labels the page layout and returns the strong-line
// structure so the grid strategy can reuse it.
//
// Webtoon: extreme vertical strips (aspect below WebtoonAspectLimit and
// height more than three times the width). Grid: strong horizontal and
// vertical edge lines whose inter-line spacing is regular (score above
// GridRegularity). Everything else falls back to Traditional.
//
// Lines are detected on the Sobel edge map, not the ink mask: drawn border
// lines project as narrow edge runs while textured panel interiors project
// as wide bands, which mergePositions discards.
func classifyLayout(gray *raster.Grayscale, cfg Config) (LayoutType, gridLines) {
	w, h := gray.Width, gray.Height
	if h > 0 && float64(w)/float64(h) < cfg.WebtoonAspectLimit && h > 3*w {
		return LayoutWebtoon, gridLines{}
	}

	edges := raster.SobelEdges(gray, raster.DefaultSobelThreshold)
	rows := strongLines(edges.RowProjection(), w, cfg)
	cols := strongLines(edges.ColProjection(), h, cfg)
	lines := gridLines{rows: rows, cols: cols}

	// Regularity needs at least one interior line per axis; spacings are
	// measured between page edges and the detected lines.
	if len(interiorLines(rows, h, cfg.LineMergeTolerance)) == 0 ||
		len(interiorLines(cols, w, cfg.LineMergeTolerance)) == 0 {
		return LayoutTraditional, lines
	}

	rowReg := spacingRegularity(buildBoundaries(rows, h, cfg.LineMergeTolerance))
	colReg := spacingRegularity(buildBoundaries(cols, w, cfg.LineMergeTolerance))
	if (rowReg+colReg)/2 > cfg.GridRegularity {
		return LayoutGrid, lines
	}
	return LayoutTraditional, lines
}

// strongLines returns positions whose edge count exceeds GridLineStrength of
// the orthogonal dimension, merged within LineMergeTolerance by averaging.
func strongLines(proj []float64, orthogonal int, cfg Config) []int {
	cutoff := cfg.GridLineStrength * float64(orthogonal)
	var positions []int
	for i, v := range proj {
		if v > cutoff {
			positions = append(positions, i)
		}
	}
	return mergePositions(positions, cfg.LineMergeTolerance)
}

// mergePositions collapses runs of positions closer than tol into their
// average. Runs spanning more than tol are contiguous strong bands (inked
// artwork) rather than boundary lines and are discarded. Input must be
// sorted ascending (projection order guarantees it).
func mergePositions(positions []int, tol int) []int {
	if len(positions) == 0 {
		return nil
	}
	var merged []int
	runStart := 0
	for i := 1; i <= len(positions); i++ {
		if i == len(positions) || positions[i]-positions[i-1] > tol {
			if positions[i-1]-positions[runStart] <= tol {
				sum := 0
				for _, p := range positions[runStart:i] {
					sum += p
				}
				merged = append(merged, sum/(i-runStart))
			}
			runStart = i
		}
	}
	return merged
}

// interiorLines drops positions within tol of the page edges.
func interiorLines(positions []int, limit, tol int) []int {
	var interior []int
	for _, p := range positions {
		if p > tol && p < limit-tol {
			interior = append(interior, p)
		}
	}
	return interior
}

// buildBoundaries returns sorted cell boundaries spanning [0, limit]: the
// page edges plus every interior line.
func buildBoundaries(positions []int, limit, tol int) []int {
	bounds := []int{0}
	bounds = append(bounds, interiorLines(positions, limit, tol)...)
	bounds = append(bounds, limit)
	return bounds
}

// spacingRegularity scores how uniform consecutive boundary spacings are:
// 1 - variance/mean^2, floored at 0. A perfectly even grid scores 1.
func spacingRegularity(boundaries []int) float64 {
	if len(boundaries) < 3 {
		return 0
	}
	spacings := make([]float64, len(boundaries)-1)
	for i := 1; i < len(boundaries); i++ {
		spacings[i-1] = float64(boundaries[i] - boundaries[i-1])
	}
	mean := stat.Mean(spacings, nil)
	if mean <= 0 {
		return 0
	}
	reg := 1 - stat.Variance(spacings, nil)/(mean*mean)
	if reg < 0 {
		return 0
	}
	return reg
}
