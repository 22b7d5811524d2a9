package deskew

import (
	"math"
	"testing"
	"time"

	"github.com/inkplane/page-layout-mcp/internal/raster"
)

// steepBarMask builds a mask whose ink is a set of parallel bar segments at
// the given skew, confined to the bottom-right corner of the page. At the
// matching candidate angle these points project beyond the page height, so
// the histogram must cover the full projected range to count them.
func steepBarMask(w, h int, angleDeg float64) *raster.BinaryMask {
	m := &raster.BinaryMask{Bits: make([]bool, w*h), Width: w, Height: h}
	slope := math.Tan(angleDeg * math.Pi / 180)
	x0 := w - 100
	for _, c := range []int{260, 280, 295} {
		for x := x0; x < w; x++ {
			y := int(math.Round(float64(c) + slope*float64(x-x0)))
			if y >= 0 && y < h {
				m.Bits[y*w+x] = true
				if y+1 < h {
					m.Bits[(y+1)*w+x] = true
				}
			}
		}
	}
	return m
}

func TestProjectionAngle_BinsFullProjectedRange(t *testing.T) {
	cfg := DefaultConfig()
	mask := steepBarMask(400, 300, -40)

	est := projectionAngle(mask, cfg, OrientationHorizontal, time.Time{})
	if est.confidence <= 0 {
		t.Fatal("estimator saw no ink")
	}
	if diff := math.Abs(est.angle - (-40)); diff > 1.0 {
		t.Errorf("angle: got %f, want -40 (±1.0)", est.angle)
	}
}

func TestProjectionAngle_EmptyMask(t *testing.T) {
	cfg := DefaultConfig()
	mask := &raster.BinaryMask{Bits: make([]bool, 100*100), Width: 100, Height: 100}

	est := projectionAngle(mask, cfg, OrientationHorizontal, time.Time{})
	if est.angle != 0 || est.confidence != 0 {
		t.Errorf("empty mask: got angle %f confidence %f, want zeros", est.angle, est.confidence)
	}
}
