package raster

import "testing"

// grayPage returns a width×height grayscale filled with one luminance.
func grayPage(width, height int, lum uint8) *Grayscale {
	g := &Grayscale{Pix: make([]uint8, width*height), Width: width, Height: height}
	for i := range g.Pix {
		g.Pix[i] = lum
	}
	return g
}

func TestSobelEdges_FlanksLine(t *testing.T) {
	g := grayPage(20, 20, 255)
	for x := 0; x < 20; x++ {
		g.Pix[10*20+x] = 0
	}

	edges := SobelEdges(g, DefaultSobelThreshold)
	for _, tc := range []struct {
		y    int
		want bool
	}{
		{8, false},
		{9, true},
		{10, false}, // the stroke interior has zero vertical gradient
		{11, true},
		{12, false},
	} {
		if got := edges.Bits[tc.y*20+10]; got != tc.want {
			t.Errorf("edge at row %d: got %v, want %v", tc.y, got, tc.want)
		}
	}
}

func TestSobelEdges_SolidRegionInterior(t *testing.T) {
	g := grayPage(20, 20, 255)
	for y := 5; y < 15; y++ {
		for x := 5; x < 15; x++ {
			g.Pix[y*20+x] = 0
		}
	}

	edges := SobelEdges(g, DefaultSobelThreshold)
	if edges.Bits[10*20+10] {
		t.Error("solid region interior must not be an edge")
	}
	if !edges.Bits[5*20+10] {
		t.Error("region boundary should be an edge")
	}
}

func TestSobelEdges_Uniform(t *testing.T) {
	edges := SobelEdges(grayPage(16, 16, 128), DefaultSobelThreshold)
	for i, b := range edges.Bits {
		if b {
			t.Fatalf("uniform image produced an edge at index %d", i)
		}
	}
}

func TestSobelEdges_BorderNeverEdges(t *testing.T) {
	// Alternating rows produce maximal gradients everywhere the kernel fits.
	g := grayPage(10, 10, 255)
	for y := 0; y < 10; y += 2 {
		for x := 0; x < 10; x++ {
			g.Pix[y*10+x] = 0
		}
	}

	edges := SobelEdges(g, DefaultSobelThreshold)
	for x := 0; x < 10; x++ {
		if edges.Bits[x] || edges.Bits[9*10+x] {
			t.Fatal("top/bottom border rows must not carry edges")
		}
	}
	for y := 0; y < 10; y++ {
		if edges.Bits[y*10] || edges.Bits[y*10+9] {
			t.Fatal("left/right border columns must not carry edges")
		}
	}
}
