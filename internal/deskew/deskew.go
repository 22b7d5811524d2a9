package deskew

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/disintegration/imaging"

	"github.com/inkplane/page-layout-mcp/internal/raster"
)

// ErrInvalidImage reports a missing page or non-positive dimensions.
// It fails fast and is never retried internally.
var ErrInvalidImage = errors.New("invalid page image")

// SkewEstimate describes a detected page rotation.
type SkewEstimate struct {
	// AngleDegrees is the detected skew; positive means content descends to
	// the right in image coordinates.
	AngleDegrees float64 `json:"angle_degrees"`

	// Confidence is the estimator's confidence in [0,1].
	Confidence float64 `json:"confidence"`

	// Orientation is the detected dominant text direction.
	Orientation Orientation `json:"orientation"`

	// OrientationConfidence is the classifier confidence in [0,1].
	OrientationConfidence float64 `json:"orientation_confidence"`

	// Method is the estimator that produced the angle.
	Method Method `json:"method"`
}

// Result is the outcome of one Deskew call. The corrected image is a fresh
// allocation whose ownership transfers to the caller; when no correction was
// applied it is the original image.
type Result struct {
	Estimate SkewEstimate `json:"estimate"`

	// Applied reports whether a rotation correction was performed.
	Applied bool `json:"applied"`

	// Corrected is the de-rotated page (or the original when Applied is
	// false). Rotation uses an enlarged canvas so corners are never clipped.
	Corrected image.Image `json:"-"`

	// OriginalWidth and OriginalHeight are the input dimensions.
	OriginalWidth  int `json:"original_width"`
	OriginalHeight int `json:"original_height"`

	// ScaleFactor is original width / analysis width (1.0 when the page was
	// analyzed at full resolution).
	ScaleFactor float64 `json:"scale_factor"`

	// Degraded is set when the estimate required clamping, fell below the
	// apply-confidence threshold, or the processing-time budget expired.
	// Degraded results are not errors; callers may flag them for review.
	Degraded bool `json:"degraded"`

	// ProcessingMs is the wall-clock analysis time in milliseconds.
	ProcessingMs float64 `json:"processing_ms"`
}

// Deskewer estimates and corrects page skew. It holds configuration only;
// all working buffers are call-scoped, so one Deskewer may serve concurrent
// calls.
type Deskewer struct {
	cfg Config
}

// New returns a Deskewer; zero-valued config fields take their defaults.
func New(cfg Config) *Deskewer {
	return &Deskewer{cfg: cfg.normalized()}
}

// NewDefault returns a Deskewer with DefaultConfig.
func NewDefault() *Deskewer {
	return New(DefaultConfig())
}

// Deskew analyzes a page image and, when a confident non-trivial skew is
// found, returns a rotation-corrected copy.
//
// Small (|angle| <= MinApplyAngle) or low-confidence estimates are reported
// but not applied, to avoid resampling artifacts on already-straight pages.
// Unexpected internal failures are recovered and converted into an error
// alongside a Result that still carries the original image, so a single bad
// page never crashes a batch.
func (d *Deskewer) Deskew(img image.Image) (res *Result, err error) {
	start := time.Now()

	if img == nil {
		return nil, fmt.Errorf("deskew: %w: nil image", ErrInvalidImage)
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("deskew: %w: %dx%d", ErrInvalidImage, width, height)
	}

	defer func() {
		if r := recover(); r != nil {
			res = &Result{
				Corrected:      img,
				OriginalWidth:  width,
				OriginalHeight: height,
				ScaleFactor:    1,
				Degraded:       true,
				ProcessingMs:   float64(time.Since(start).Microseconds()) / 1000,
			}
			err = fmt.Errorf("deskew: internal failure: %v", r)
		}
	}()

	cfg := d.cfg
	deadline := time.Time{}
	if cfg.MaxProcessingTime > 0 {
		deadline = start.Add(cfg.MaxProcessingTime)
	}

	// Downsample for analysis only; correction is applied at full resolution.
	analysis := img
	scale := 1.0
	if width > cfg.DownsampleWidth {
		analysis = imaging.Resize(img, cfg.DownsampleWidth, 0, imaging.Linear)
		scale = float64(width) / float64(cfg.DownsampleWidth)
	}

	gray := raster.ToGrayscale(analysis)
	mask := raster.Binarize(gray, cfg.BinarizeWindow)
	orient := DetectOrientation(mask, cfg.OrientationThreshold)

	// Bias the Hough search toward horizontal lines unless the page reads
	// vertically.
	preferHorizontal := orient.Orientation != OrientationVertical

	var best estimate
	method := cfg.Method
	switch cfg.Method {
	case MethodHough:
		best = houghAngle(analysis, cfg, preferHorizontal, deadline)
	case MethodProjection:
		best = projectionAngle(mask, cfg, orient.Orientation, deadline)
	default:
		hough := houghAngle(analysis, cfg, preferHorizontal, deadline)
		proj := projectionAngle(mask, cfg, orient.Orientation, deadline)
		best, method = selectEstimate(hough, proj)
	}

	if math.IsNaN(best.angle) || math.IsInf(best.angle, 0) || math.IsNaN(best.confidence) {
		best = estimate{degraded: true}
	}

	angle := best.angle
	conf := best.confidence
	degraded := best.degraded

	// Out-of-range estimates are clamped and flagged: a skew beyond MaxAngle
	// is more likely a spurious line than a real page rotation.
	if math.Abs(angle) > cfg.MaxAngle {
		if angle > 0 {
			angle = cfg.MaxAngle
		} else {
			angle = -cfg.MaxAngle
		}
		conf /= 2
		degraded = true
	}
	if conf < cfg.MinApplyConfidence {
		degraded = true
	}

	applied := math.Abs(angle) > cfg.MinApplyAngle && conf > cfg.MinApplyConfidence

	// imaging.Rotate is counter-clockwise in screen coordinates and so
	// raises the right-hand side: rotating by +angle levels a page whose
	// content descends to the right (a positive estimate).
	corrected := img
	if applied {
		corrected = imaging.Rotate(img, angle, color.White)
	}

	return &Result{
		Estimate: SkewEstimate{
			AngleDegrees:          angle,
			Confidence:            conf,
			Orientation:           orient.Orientation,
			OrientationConfidence: orient.Confidence,
			Method:                method,
		},
		Applied:        applied,
		Corrected:      corrected,
		OriginalWidth:  width,
		OriginalHeight: height,
		ScaleFactor:    scale,
		Degraded:       degraded,
		ProcessingMs:   float64(time.Since(start).Microseconds()) / 1000,
	}, nil
}

// selectEstimate combines the two estimators: when they agree within one
// degree the angles are averaged under the Hybrid label, otherwise the
// higher-confidence estimator wins outright.
func selectEstimate(hough, proj estimate) (estimate, Method) {
	if hough.confidence > 0 && proj.confidence > 0 &&
		math.Abs(hough.angle-proj.angle) <= 1.0 {
		return estimate{
			angle:      (hough.angle + proj.angle) / 2,
			confidence: math.Max(hough.confidence, proj.confidence),
			degraded:   hough.degraded || proj.degraded,
		}, MethodHybrid
	}
	if proj.confidence > hough.confidence {
		return proj, MethodProjection
	}
	return hough, MethodHough
}
