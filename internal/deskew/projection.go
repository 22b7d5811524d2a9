package deskew

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/inkplane/page-layout-mcp/internal/raster"
)

// projectionAngle estimates page skew by sweeping candidate angles and
// scoring each by the variance of the ink projection profile.
//
// For each candidate angle the mask's ink coordinates are rotated
// analytically (no image resampling) so the projection axis is perpendicular
// to the detected text direction, and a histogram of projected ink counts is
// built. Well-aligned text lines or columns collapse into a few histogram
// bins, so the variance of the histogram peaks at the true skew angle.
// Confidence = min(1, maxVariance/(width*height*0.1)).
//
// The text orientation picks the projection axis: horizontal (and mixed)
// pages project onto rows, vertical-text pages onto columns.
func projectionAngle(mask *raster.BinaryMask, cfg Config, orientation Orientation, deadline time.Time) estimate {
	w, h := mask.Width, mask.Height
	if w == 0 || h == 0 {
		return estimate{}
	}

	xs, ys, weight := mask.InkPoints(cfg.MaxInkPoints)
	if len(xs) == 0 {
		return estimate{}
	}

	vertical := orientation == OrientationVertical

	// Row projections span [-w, w+h] and column projections [-h, w+h] for
	// |angle| <= 90, so the histogram covers [-offset, w+h] in full; no ink
	// point is ever dropped, whatever the candidate angle's sign.
	offset := w
	if vertical {
		offset = h
	}
	hist := make([]float64, offset+w+h+1)

	bestAngle := 0.0
	bestScore := -1.0
	degraded := false
	for a := -cfg.MaxAngle; a <= cfg.MaxAngle+1e-9; a += cfg.ProjectionAngleStep {
		if !deadline.IsZero() && time.Now().After(deadline) {
			degraded = true
			break
		}
		sin, cos := math.Sincos(a * math.Pi / 180)
		for i := range hist {
			hist[i] = 0
		}
		for i := range xs {
			var proj float64
			if vertical {
				// Undo skew a and read the x' coordinate: columns align.
				proj = float64(xs[i])*cos + float64(ys[i])*sin
			} else {
				// Undo skew a and read the y' coordinate: rows align.
				proj = -float64(xs[i])*sin + float64(ys[i])*cos
			}
			idx := int(proj) + offset
			if idx >= 0 && idx < len(hist) {
				hist[idx] += weight
			}
		}
		score := stat.Variance(hist, nil)
		if score > bestScore {
			bestScore = score
			bestAngle = a
		}
	}

	if bestScore <= 0 {
		return estimate{degraded: degraded}
	}
	conf := math.Min(1, bestScore/(float64(w)*float64(h)*0.1))
	return estimate{
		angle:      bestAngle,
		confidence: conf,
		degraded:   degraded,
	}
}
