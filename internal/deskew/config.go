package deskew

import "time"

// Method selects a skew estimation algorithm.
type Method string

const (
	// MethodAuto runs both estimators and keeps the higher-confidence result.
	MethodAuto Method = ""
	// MethodHough uses only the Hough line-voting estimator.
	MethodHough Method = "hough"
	// MethodProjection uses only the projection-profile estimator.
	MethodProjection Method = "projection"
	// MethodHybrid is reported (never requested) when both estimators agreed
	// within one degree and their results were combined.
	MethodHybrid Method = "hybrid"
)

// Orientation classifies the dominant text direction on a page.
type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal"
	OrientationVertical   Orientation = "vertical"
	OrientationMixed      Orientation = "mixed"
)

// Config holds the tuning parameters for skew detection and correction.
// The zero value of any field falls back to the corresponding default.
type Config struct {
	// Method forces a specific estimator; MethodAuto runs both.
	Method Method

	// MaxAngle is the magnitude bound for estimates, in degrees. Estimates
	// beyond it are clamped and their confidence halved. Default 45.
	MaxAngle float64

	// MinApplyAngle is the smallest |angle| worth correcting: below it the
	// page is considered straight. Default 0.5.
	MinApplyAngle float64

	// MinApplyConfidence is the minimum estimate confidence required before
	// a correction is applied. Default 0.3.
	MinApplyConfidence float64

	// DownsampleWidth is the maximum analysis width in pixels; wider pages
	// are resized (aspect-preserving) before estimation. Default 800.
	DownsampleWidth int

	// HoughThreshold is the vote count that maps to confidence 0.5
	// (confidence = min(1, votes/(2*HoughThreshold))). Default 100.
	HoughThreshold int

	// HoughAngleStep is the Hough accumulator angle resolution in degrees.
	// Coarser steps trade accuracy for speed on large pages. Default 1.0.
	HoughAngleStep float64

	// ProjectionAngleStep is the candidate-angle step of the
	// projection-profile sweep, in degrees. Default 0.5.
	ProjectionAngleStep float64

	// OrientationThreshold is the minimum classifier confidence required to
	// label a page Horizontal or Vertical instead of Mixed. Default 0.7.
	OrientationThreshold float64

	// BinarizeWindow is the adaptive-threshold window side length.
	// Default raster.DefaultBinarizeWindow.
	BinarizeWindow int

	// MaxInkPoints caps the ink pixels visited per candidate angle in the
	// projection sweep; denser masks are subsampled. Default 50000.
	MaxInkPoints int

	// MaxProcessingTime bounds a single Deskew call. When exceeded, the best
	// estimate computed so far is returned with Degraded set instead of the
	// call hanging. Default 10s; negative disables the budget.
	MaxProcessingTime time.Duration
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Method:               MethodAuto,
		MaxAngle:             45,
		MinApplyAngle:        0.5,
		MinApplyConfidence:   0.3,
		DownsampleWidth:      800,
		HoughThreshold:       100,
		HoughAngleStep:       1.0,
		ProjectionAngleStep:  0.5,
		OrientationThreshold: 0.7,
		BinarizeWindow:       15,
		MaxInkPoints:         50000,
		MaxProcessingTime:    10 * time.Second,
	}
}

// normalized fills zero-valued fields with their defaults.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.MaxAngle <= 0 {
		c.MaxAngle = def.MaxAngle
	}
	if c.MinApplyAngle <= 0 {
		c.MinApplyAngle = def.MinApplyAngle
	}
	if c.MinApplyConfidence <= 0 {
		c.MinApplyConfidence = def.MinApplyConfidence
	}
	if c.DownsampleWidth <= 0 {
		c.DownsampleWidth = def.DownsampleWidth
	}
	if c.HoughThreshold <= 0 {
		c.HoughThreshold = def.HoughThreshold
	}
	if c.HoughAngleStep <= 0 {
		c.HoughAngleStep = def.HoughAngleStep
	}
	if c.ProjectionAngleStep <= 0 {
		c.ProjectionAngleStep = def.ProjectionAngleStep
	}
	if c.OrientationThreshold <= 0 {
		c.OrientationThreshold = def.OrientationThreshold
	}
	if c.BinarizeWindow <= 0 {
		c.BinarizeWindow = def.BinarizeWindow
	}
	if c.MaxInkPoints <= 0 {
		c.MaxInkPoints = def.MaxInkPoints
	}
	if c.MaxProcessingTime == 0 {
		c.MaxProcessingTime = def.MaxProcessingTime
	}
	return c
}
