package deskew

import (
	"image"
	"math"
	"time"

	"github.com/anthonynsimon/bild/blur"

	"github.com/inkplane/page-layout-mcp/internal/raster"
)

// estimate is the raw output of a single angle estimator.
type estimate struct {
	angle      float64
	confidence float64
	degraded   bool
}

// houghAngle estimates page skew by voting detected edge pixels into a
// classical Hough accumulator over (angle, distance) space.
//
// The image is Gaussian-blurred, converted to luminance, and run through a
// Sobel gradient; pixels above the edge threshold vote for every angle bin
// (resolution cfg.HoughAngleStep over −90..+89°) at the corresponding
// distance bin. The winning angle bin across all distance bins is the skew
// estimate; confidence = min(1, maxVotes/(2*cfg.HoughThreshold)).
//
// When preferHorizontal is set, near-vertical bins (more than 85° from
// horizontal) are skipped: panel borders and speech-bubble edges are
// predominantly horizontal/vertical, and dominant vertical strokes would
// otherwise alias the estimate by 90°.
//
// If the deadline passes mid-vote, the best estimate accumulated so far is
// returned with degraded set.
func houghAngle(img image.Image, cfg Config, preferHorizontal bool, deadline time.Time) estimate {
	gray := raster.ToGrayscale(blur.Gaussian(img, 1.4))
	edges := raster.SobelEdges(gray, raster.DefaultSobelThreshold)

	w, h := gray.Width, gray.Height
	if w == 0 || h == 0 {
		return estimate{}
	}

	maxDist := int(math.Hypot(float64(w), float64(h))) + 1
	step := cfg.HoughAngleStep
	numAngles := int(math.Ceil(180 / step))
	rhoBins := 2 * maxDist

	// Precompute the trig tables and which bins are in play.
	sins := make([]float64, numAngles)
	coss := make([]float64, numAngles)
	skip := make([]bool, numAngles)
	for t := 0; t < numAngles; t++ {
		angleDeg := float64(t)*step - 90
		if preferHorizontal && math.Abs(angleDeg) > 85 {
			skip[t] = true
			continue
		}
		rad := (angleDeg + 90) * math.Pi / 180 // normal angle of the line
		sins[t] = math.Sin(rad)
		coss[t] = math.Cos(rad)
	}

	acc := make([]int32, numAngles*rhoBins)
	degraded := false
	visited := 0
	for y := 0; y < h && !degraded; y++ {
		base := y * w
		for x := 0; x < w; x++ {
			if !edges.Bits[base+x] {
				continue
			}
			visited++
			if visited%1024 == 0 && !deadline.IsZero() && time.Now().After(deadline) {
				degraded = true
				break
			}
			fx, fy := float64(x), float64(y)
			for t := 0; t < numAngles; t++ {
				if skip[t] {
					continue
				}
				rho := fx*coss[t] + fy*sins[t]
				idx := int(rho) + maxDist
				if idx >= 0 && idx < rhoBins {
					acc[t*rhoBins+idx]++
				}
			}
		}
	}

	maxVotes := int32(0)
	bestT := -1
	for t := 0; t < numAngles; t++ {
		if skip[t] {
			continue
		}
		row := acc[t*rhoBins : (t+1)*rhoBins]
		for _, v := range row {
			if v > maxVotes {
				maxVotes = v
				bestT = t
			}
		}
	}
	if bestT < 0 || maxVotes == 0 {
		return estimate{degraded: degraded}
	}

	conf := math.Min(1, float64(maxVotes)/(2*float64(cfg.HoughThreshold)))
	return estimate{
		angle:      float64(bestT)*step - 90,
		confidence: conf,
		degraded:   degraded,
	}
}
