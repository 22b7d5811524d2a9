package deskew

import (
	"gonum.org/v1/gonum/stat"

	"github.com/inkplane/page-layout-mcp/internal/raster"
)

// OrientationResult is the text-orientation classifier output.
type OrientationResult struct {
	Orientation     Orientation `json:"orientation"`
	Confidence      float64     `json:"confidence"`
	HorizontalScore float64     `json:"horizontal_score"`
	VerticalScore   float64     `json:"vertical_score"`
}

// DetectOrientation classifies the dominant text direction of an ink mask.
//
// Horizontal text rows produce strong banding in the vertical projection
// (per-row ink counts): high variance and many distinct stripes. Vertical
// (CJK) text produces the complementary pattern in the horizontal projection.
// The two effects are combined into a score per direction:
//
//	horizontalScore = (rowVariance / (colVariance + 1)) * (rowStripes + 1)
//	verticalScore   = (colVariance / (rowVariance + 1)) * (colStripes + 1)
//
// and normalized into a confidence in [0,1]. The page is labeled Horizontal
// or Vertical only when that confidence reaches threshold, otherwise Mixed.
func DetectOrientation(mask *raster.BinaryMask, threshold float64) OrientationResult {
	rowProj := mask.RowProjection()
	colProj := mask.ColProjection()

	rowVar := stat.Variance(rowProj, nil)
	colVar := stat.Variance(colProj, nil)
	rowStripes := countStripes(rowProj)
	colStripes := countStripes(colProj)

	hScore := (rowVar / (colVar + 1)) * float64(rowStripes+1)
	vScore := (colVar / (rowVar + 1)) * float64(colStripes+1)

	total := hScore + vScore
	if total <= 0 {
		return OrientationResult{Orientation: OrientationMixed}
	}

	hConf := hScore / total
	vConf := vScore / total

	res := OrientationResult{
		HorizontalScore: hScore,
		VerticalScore:   vScore,
	}
	switch {
	case hConf >= threshold:
		res.Orientation = OrientationHorizontal
		res.Confidence = hConf
	case vConf >= threshold:
		res.Orientation = OrientationVertical
		res.Confidence = vConf
	default:
		res.Orientation = OrientationMixed
		if hConf > vConf {
			res.Confidence = hConf
		} else {
			res.Confidence = vConf
		}
	}
	return res
}

// countStripes counts contiguous runs of projection values above 10% of the
// projection maximum. Text lines show up as one stripe each.
func countStripes(proj []float64) int {
	max := 0.0
	for _, v := range proj {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		return 0
	}
	cutoff := max * 0.1

	stripes := 0
	inRun := false
	for _, v := range proj {
		if v > cutoff {
			if !inRun {
				stripes++
				inRun = true
			}
		} else {
			inRun = false
		}
	}
	return stripes
}
