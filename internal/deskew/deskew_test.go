package deskew

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/disintegration/imaging"
)

// skewedTextPage returns a bar-pattern page carrying the given skew:
// positive angles make the bars descend to the right. imaging.Rotate is
// counter-clockwise in screen coordinates, so the skew is synthesized with
// the negated angle. The rotation enlarges the canvas and fills the corners
// with white, matching what a tilted scan looks like.
func skewedTextPage(angle float64) image.Image {
	base := textBarPage(800, 600, 12, 10, true)
	if angle == 0 {
		return base
	}
	return imaging.Rotate(base, -angle, color.White)
}

func uniformPage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDeskew_NilImage(t *testing.T) {
	d := NewDefault()
	if _, err := d.Deskew(nil); err == nil {
		t.Error("Deskew should fail for nil image")
	}
}

func TestDeskew_EmptyImage(t *testing.T) {
	d := NewDefault()
	if _, err := d.Deskew(image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Error("Deskew should fail for zero-size image")
	}
}

func TestDeskew_UniformPages(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
	}{
		{"white", color.White},
		{"black", color.Black},
	}

	d := NewDefault()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := uniformPage(400, 300, tt.c)
			res, err := d.Deskew(img)
			if err != nil {
				t.Fatalf("Deskew failed: %v", err)
			}

			if res.Estimate.Confidence != 0 {
				t.Errorf("Confidence: got %f, want 0", res.Estimate.Confidence)
			}
			if res.Applied {
				t.Error("uniform page must not be rotated")
			}
			if res.Corrected != image.Image(img) {
				t.Error("Corrected should be the original image when not applied")
			}
		})
	}
}

func TestDeskew_StraightPage(t *testing.T) {
	d := NewDefault()
	res, err := d.Deskew(skewedTextPage(0))
	if err != nil {
		t.Fatalf("Deskew failed: %v", err)
	}

	if math.Abs(res.Estimate.AngleDegrees) > 0.5 {
		t.Errorf("AngleDegrees: got %f, want ~0", res.Estimate.AngleDegrees)
	}
	if res.Applied {
		t.Error("straight page must not be rotated")
	}
	if res.Estimate.Confidence <= 0.3 {
		t.Errorf("Confidence: got %f, want > 0.3", res.Estimate.Confidence)
	}
	if res.Estimate.Orientation != OrientationHorizontal {
		t.Errorf("Orientation: got %s, want %s", res.Estimate.Orientation, OrientationHorizontal)
	}
}

func TestDeskew_DetectsSkew(t *testing.T) {
	methods := []Method{MethodHough, MethodProjection, MethodAuto}
	angles := []float64{3, -4}

	for _, method := range methods {
		for _, angle := range angles {
			name := string(method)
			if method == MethodAuto {
				name = "auto"
			}
			t.Run(fmt.Sprintf("%s_%+g", name, angle), func(t *testing.T) {
				d := New(Config{Method: method})
				res, err := d.Deskew(skewedTextPage(angle))
				if err != nil {
					t.Fatalf("Deskew failed: %v", err)
				}

				if diff := math.Abs(res.Estimate.AngleDegrees - angle); diff > 1.5 {
					t.Errorf("AngleDegrees: got %f, want %f (±1.5)", res.Estimate.AngleDegrees, angle)
				}
				if res.Estimate.Confidence <= 0.3 {
					t.Errorf("Confidence: got %f, want > 0.3", res.Estimate.Confidence)
				}
				if !res.Applied {
					t.Error("skewed page should trigger a correction")
				}
				if res.Corrected == nil {
					t.Fatal("Corrected is nil")
				}
			})
		}
	}
}

func TestDeskew_SignConvention(t *testing.T) {
	// Positive estimates mean content descending to the right; both
	// estimators must agree with that convention, not just on magnitude.
	for _, method := range []Method{MethodHough, MethodProjection} {
		t.Run(string(method), func(t *testing.T) {
			d := New(Config{Method: method})

			descending, err := d.Deskew(skewedTextPage(3))
			if err != nil {
				t.Fatalf("Deskew failed: %v", err)
			}
			if descending.Estimate.AngleDegrees <= 0 {
				t.Errorf("descending-right page: got %f, want > 0", descending.Estimate.AngleDegrees)
			}

			ascending, err := d.Deskew(skewedTextPage(-3))
			if err != nil {
				t.Fatalf("Deskew failed: %v", err)
			}
			if ascending.Estimate.AngleDegrees >= 0 {
				t.Errorf("ascending-right page: got %f, want < 0", ascending.Estimate.AngleDegrees)
			}
		})
	}
}

func TestDeskew_CorrectionReducesSkew(t *testing.T) {
	// The corrected page must carry less skew than the estimate it fixed,
	// never the estimate re-applied on top of the original tilt.
	d := NewDefault()
	for _, angle := range []float64{3, -4} {
		t.Run(fmt.Sprintf("%+g", angle), func(t *testing.T) {
			first, err := d.Deskew(skewedTextPage(angle))
			if err != nil {
				t.Fatalf("first Deskew failed: %v", err)
			}
			if !first.Applied {
				t.Fatal("skewed page should trigger a correction")
			}

			second, err := d.Deskew(first.Corrected)
			if err != nil {
				t.Fatalf("second Deskew failed: %v", err)
			}
			residual := math.Abs(second.Estimate.AngleDegrees)
			if residual > 1.0 {
				t.Errorf("residual skew after correction: %f", second.Estimate.AngleDegrees)
			}
			if residual >= math.Abs(first.Estimate.AngleDegrees) {
				t.Errorf("correction did not reduce skew: %f -> %f",
					first.Estimate.AngleDegrees, second.Estimate.AngleDegrees)
			}
		})
	}
}

func TestDeskew_MethodReported(t *testing.T) {
	page := skewedTextPage(3)

	res, err := New(Config{Method: MethodHough}).Deskew(page)
	if err != nil {
		t.Fatalf("Deskew failed: %v", err)
	}
	if res.Estimate.Method != MethodHough {
		t.Errorf("Method: got %s, want %s", res.Estimate.Method, MethodHough)
	}

	res, err = New(Config{Method: MethodProjection}).Deskew(page)
	if err != nil {
		t.Fatalf("Deskew failed: %v", err)
	}
	if res.Estimate.Method != MethodProjection {
		t.Errorf("Method: got %s, want %s", res.Estimate.Method, MethodProjection)
	}

	res, err = NewDefault().Deskew(page)
	if err != nil {
		t.Fatalf("Deskew failed: %v", err)
	}
	switch res.Estimate.Method {
	case MethodHough, MethodProjection, MethodHybrid:
	default:
		t.Errorf("auto mode reported method %q", res.Estimate.Method)
	}
}

func TestDeskew_Idempotent(t *testing.T) {
	d := NewDefault()

	first, err := d.Deskew(skewedTextPage(3))
	if err != nil {
		t.Fatalf("first Deskew failed: %v", err)
	}
	if !first.Applied {
		t.Fatal("first pass should correct the page")
	}

	second, err := d.Deskew(first.Corrected)
	if err != nil {
		t.Fatalf("second Deskew failed: %v", err)
	}
	if math.Abs(second.Estimate.AngleDegrees) > 1.0 {
		t.Errorf("residual skew after correction: %f", second.Estimate.AngleDegrees)
	}
}

func TestDeskew_ClampsBeyondMaxAngle(t *testing.T) {
	d := New(Config{Method: MethodHough, MaxAngle: 2})
	res, err := d.Deskew(skewedTextPage(8))
	if err != nil {
		t.Fatalf("Deskew failed: %v", err)
	}

	if math.Abs(res.Estimate.AngleDegrees) > 2 {
		t.Errorf("AngleDegrees: got %f, want clamped to ±2", res.Estimate.AngleDegrees)
	}
	if !res.Degraded {
		t.Error("clamped estimate should be marked degraded")
	}
}

func TestDeskew_ScaleFactor(t *testing.T) {
	d := NewDefault()
	res, err := d.Deskew(uniformPage(1600, 1200, color.White))
	if err != nil {
		t.Fatalf("Deskew failed: %v", err)
	}

	if res.ScaleFactor != 2.0 {
		t.Errorf("ScaleFactor: got %f, want 2.0", res.ScaleFactor)
	}
	if res.OriginalWidth != 1600 || res.OriginalHeight != 1200 {
		t.Errorf("original dimensions: got %dx%d, want 1600x1200",
			res.OriginalWidth, res.OriginalHeight)
	}
}

func TestConfig_Normalized(t *testing.T) {
	cfg := Config{}.normalized()
	def := DefaultConfig()

	if cfg.MaxAngle != def.MaxAngle {
		t.Errorf("MaxAngle: got %f, want %f", cfg.MaxAngle, def.MaxAngle)
	}
	if cfg.HoughThreshold != def.HoughThreshold {
		t.Errorf("HoughThreshold: got %d, want %d", cfg.HoughThreshold, def.HoughThreshold)
	}
	if cfg.MaxProcessingTime != def.MaxProcessingTime {
		t.Errorf("MaxProcessingTime: got %v, want %v", cfg.MaxProcessingTime, def.MaxProcessingTime)
	}

	// Explicit values survive normalization.
	custom := Config{MaxAngle: 10, DownsampleWidth: 400}.normalized()
	if custom.MaxAngle != 10 || custom.DownsampleWidth != 400 {
		t.Error("normalized overwrote explicit values")
	}
}

func TestSelectEstimate(t *testing.T) {
	tests := []struct {
		name       string
		hough      estimate
		proj       estimate
		wantMethod Method
		wantAngle  float64
	}{
		{
			"agreement combines",
			estimate{angle: 3.0, confidence: 0.6},
			estimate{angle: 3.5, confidence: 0.8},
			MethodHybrid,
			3.25,
		},
		{
			"disagreement picks higher confidence",
			estimate{angle: 3.0, confidence: 0.6},
			estimate{angle: 10.0, confidence: 0.8},
			MethodProjection,
			10.0,
		},
		{
			"hough wins ties",
			estimate{angle: 5.0, confidence: 0.7},
			estimate{angle: -5.0, confidence: 0.7},
			MethodHough,
			5.0,
		},
		{
			"zero-confidence estimator never combines",
			estimate{angle: 0, confidence: 0},
			estimate{angle: 0.5, confidence: 0.4},
			MethodProjection,
			0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, method := selectEstimate(tt.hough, tt.proj)
			if method != tt.wantMethod {
				t.Errorf("method: got %s, want %s", method, tt.wantMethod)
			}
			if math.Abs(est.angle-tt.wantAngle) > 1e-9 {
				t.Errorf("angle: got %f, want %f", est.angle, tt.wantAngle)
			}
		})
	}
}
