package raster

import (
	"math"
)

// DefaultSobelThreshold is the gradient magnitude above which a pixel counts
// as an edge.
const DefaultSobelThreshold = 100.0

// SobelEdges marks pixels whose Sobel gradient magnitude exceeds threshold.
// Border pixels are never edges. Uniform regions, including the interior of
// solidly inked areas, produce no edges; only strokes and region boundaries
// do.
func SobelEdges(g *Grayscale, threshold float64) *BinaryMask {
	w, h := g.Width, g.Height
	edges := &BinaryMask{
		Bits:   make([]bool, w*h),
		Width:  w,
		Height: h,
	}
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			p00 := float64(g.Pix[(y-1)*w+x-1])
			p01 := float64(g.Pix[(y-1)*w+x])
			p02 := float64(g.Pix[(y-1)*w+x+1])
			p10 := float64(g.Pix[y*w+x-1])
			p12 := float64(g.Pix[y*w+x+1])
			p20 := float64(g.Pix[(y+1)*w+x-1])
			p21 := float64(g.Pix[(y+1)*w+x])
			p22 := float64(g.Pix[(y+1)*w+x+1])

			gx := (p02 + 2*p12 + p22) - (p00 + 2*p10 + p20)
			gy := (p20 + 2*p21 + p22) - (p00 + 2*p01 + p02)
			if math.Hypot(gx, gy) > threshold {
				edges.Bits[y*w+x] = true
			}
		}
	}
	return edges
}
