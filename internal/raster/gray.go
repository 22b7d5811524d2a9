package raster

import (
	"image"
)

// Grayscale is a width×height luminance grid derived from a page image.
//
// Pixels are 8-bit luminance values computed with ITU-R BT.601 weights
// (0.299*R + 0.587*G + 0.114*B, rounded). The grid is row-major and anchored
// at (0,0) regardless of the source image's Bounds().Min.
type Grayscale struct {
	Pix    []uint8
	Width  int
	Height int
}

// ToGrayscale converts a page image to a luminance grid.
// It is pure: a fresh buffer is allocated on every call.
func ToGrayscale(img image.Image) *Grayscale {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	g := &Grayscale{
		Pix:    make([]uint8, width*height),
		Width:  width,
		Height: height,
	}

	// Fast path for images that are already grayscale.
	if src, ok := img.(*image.Gray); ok {
		for y := 0; y < height; y++ {
			srcRow := src.Pix[(y+bounds.Min.Y-src.Rect.Min.Y)*src.Stride:]
			copy(g.Pix[y*width:(y+1)*width], srcRow[bounds.Min.X-src.Rect.Min.X:bounds.Min.X-src.Rect.Min.X+width])
		}
		return g
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, gr, b, _ := img.At(x, y).RGBA()
			lum := 0.299*float64(r>>8) + 0.587*float64(gr>>8) + 0.114*float64(b>>8)
			g.Pix[i] = uint8(lum + 0.5)
			i++
		}
	}
	return g
}

// At returns the luminance at (x, y). No bounds checking is performed.
func (g *Grayscale) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// BinaryMask is a width×height grid of "ink present" flags derived from a
// Grayscale via local-mean adaptive thresholding. A pixel is ink when its
// luminance is darker than the local window mean minus a fixed bias, which
// classifies mid-tones as background.
//
// Masks are ephemeral working data: they are recomputed per analysis call and
// never persisted or shared across calls.
type BinaryMask struct {
	Bits   []bool
	Width  int
	Height int
}

// binarizeBias is subtracted from the local mean: only pixels strictly darker
// than mean-10 count as ink. Uniform images therefore produce empty masks.
const binarizeBias = 10

// DefaultBinarizeWindow is the side length of the local-mean window.
const DefaultBinarizeWindow = 15

// Binarize derives an ink mask from a luminance grid using local-mean
// adaptive thresholding over a windowSize×windowSize neighborhood. The window
// is clipped to the image extent at the borders (no wraparound). A
// windowSize below 3 falls back to DefaultBinarizeWindow.
//
// The local mean is computed from a summed-area table, so the cost is O(1)
// per pixel independent of windowSize.
func Binarize(g *Grayscale, windowSize int) *BinaryMask {
	if windowSize < 3 {
		windowSize = DefaultBinarizeWindow
	}
	w, h := g.Width, g.Height
	mask := &BinaryMask{
		Bits:   make([]bool, w*h),
		Width:  w,
		Height: h,
	}
	if w == 0 || h == 0 {
		return mask
	}

	// Summed-area table with a zero top row and left column so the window
	// sum is four lookups.
	sat := make([]uint64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum uint64
		for x := 0; x < w; x++ {
			rowSum += uint64(g.Pix[y*w+x])
			sat[(y+1)*(w+1)+(x+1)] = sat[y*(w+1)+(x+1)] + rowSum
		}
	}

	half := windowSize / 2
	for y := 0; y < h; y++ {
		y0 := y - half
		if y0 < 0 {
			y0 = 0
		}
		y1 := y + half + 1
		if y1 > h {
			y1 = h
		}
		for x := 0; x < w; x++ {
			x0 := x - half
			if x0 < 0 {
				x0 = 0
			}
			x1 := x + half + 1
			if x1 > w {
				x1 = w
			}
			sum := sat[y1*(w+1)+x1] - sat[y0*(w+1)+x1] - sat[y1*(w+1)+x0] + sat[y0*(w+1)+x0]
			count := uint64((y1 - y0) * (x1 - x0))
			mean := float64(sum) / float64(count)
			if float64(g.Pix[y*w+x]) < mean-binarizeBias {
				mask.Bits[y*w+x] = true
			}
		}
	}
	return mask
}

// Ink reports whether the pixel at (x, y) is ink. No bounds checking.
func (m *BinaryMask) Ink(x, y int) bool {
	return m.Bits[y*m.Width+x]
}

// RowProjection returns per-row ink counts (the vertical projection profile).
func (m *BinaryMask) RowProjection() []float64 {
	proj := make([]float64, m.Height)
	for y := 0; y < m.Height; y++ {
		row := m.Bits[y*m.Width : (y+1)*m.Width]
		n := 0
		for _, ink := range row {
			if ink {
				n++
			}
		}
		proj[y] = float64(n)
	}
	return proj
}

// ColProjection returns per-column ink counts (the horizontal projection
// profile).
func (m *BinaryMask) ColProjection() []float64 {
	proj := make([]float64, m.Width)
	for y := 0; y < m.Height; y++ {
		base := y * m.Width
		for x := 0; x < m.Width; x++ {
			if m.Bits[base+x] {
				proj[x]++
			}
		}
	}
	return proj
}

// InkPoints returns the coordinates of every ink pixel, capped at maxPoints
// by striding uniformly through the mask (0 = no cap). The cap keeps
// angle-sweep costs bounded on very dense pages. The returned weight is the
// number of mask ink pixels each returned point stands for (1.0 when no
// subsampling occurred), so histogram magnitudes stay comparable.
func (m *BinaryMask) InkPoints(maxPoints int) (xs, ys []int, weight float64) {
	total := 0
	for _, ink := range m.Bits {
		if ink {
			total++
		}
	}
	stride := 1
	if maxPoints > 0 && total > maxPoints {
		stride = (total + maxPoints - 1) / maxPoints
	}
	xs = make([]int, 0, total/stride+1)
	ys = make([]int, 0, total/stride+1)
	n := 0
	for i, ink := range m.Bits {
		if !ink {
			continue
		}
		if n%stride == 0 {
			xs = append(xs, i%m.Width)
			ys = append(ys, i/m.Width)
		}
		n++
	}
	return xs, ys, float64(stride)
}
