package segment

import "time"

// Direction is the reading-direction policy for panel ordering.
type Direction string

const (
	// DirectionRTL orders right-to-left within rows (manga).
	DirectionRTL Direction = "rtl"
	// DirectionLTR orders left-to-right within rows (western comics).
	DirectionLTR Direction = "ltr"
	// DirectionTTB orders strictly top-to-bottom (webtoons).
	DirectionTTB Direction = "ttb"
)

// Config holds the tuning parameters for panel segmentation.
// The zero value of any field falls back to the corresponding default.
type Config struct {
	// ReadingDirection selects the panel ordering policy. Webtoon layouts
	// always order top-to-bottom regardless. Default DirectionRTL.
	ReadingDirection Direction

	// MaxDimension is the maximum analysis dimension in pixels; larger pages
	// are downsampled (aspect-preserving) and results rescaled. Default 1200.
	MaxDimension int

	// BinarizeWindow is the adaptive-threshold window side length.
	// Default raster.DefaultBinarizeWindow.
	BinarizeWindow int

	// GapThreshold is the minimum gutter run length in pixels. Default 15.
	GapThreshold int

	// LineMergeTolerance merges detected boundary lines closer than this
	// many pixels by averaging. Default 10.
	LineMergeTolerance int

	// GutterWhiteness is the luminance above which a pixel counts as
	// near-white for gutter detection. Default 240.
	GutterWhiteness uint8

	// GutterRowFraction is the fraction of near-white pixels a row/column
	// needs to qualify as gutter. Default 0.8.
	GutterRowFraction float64

	// WebtoonInkThreshold is the row ink density below which a webtoon row
	// counts as gutter. Default 0.02.
	WebtoonInkThreshold float64

	// WebtoonAspectLimit is the width/height ratio below which a page may be
	// classified as a webtoon strip (together with height > 3*width).
	// Default 0.3.
	WebtoonAspectLimit float64

	// GridLineStrength is the fraction of the orthogonal dimension a line's
	// ink count must exceed to count as a strong grid line. Default 0.3.
	GridLineStrength float64

	// GridRegularity is the minimum inter-line spacing regularity score for
	// a Grid classification. Default 0.7.
	GridRegularity float64

	// MinAreaRatio / MaxAreaRatio bound candidate panel area relative to the
	// page. Defaults 0.01 and 0.95.
	MinAreaRatio float64
	MaxAreaRatio float64

	// MinAspect / MaxAspect bound candidate width/height ratio.
	// Defaults 0.1 and 10.
	MinAspect float64
	MaxAspect float64

	// MinPanelSize is the minimum candidate width and height in analysis
	// pixels. Default 24.
	MinPanelSize int

	// OverlapRatio is the intersection-over-min-area above which a candidate
	// is dropped in favor of an accepted higher-confidence panel.
	// Default 0.3.
	OverlapRatio float64

	// NoiseComponentSize discards connected components smaller than this
	// many ink pixels during borderless detection. Default 100.
	NoiseComponentSize int

	// InsetMinAreaRatio / InsetMaxAreaRatio bound an inset child's area
	// relative to its parent. Defaults 0.05 and 0.90.
	InsetMinAreaRatio float64
	InsetMaxAreaRatio float64

	// MaxInsetDepth caps inset-panel recursion. Default 3.
	MaxInsetDepth int

	// MaxProcessingTime bounds a single Segment call; on expiry the result
	// is assembled from the candidates found so far and marked Degraded.
	// Default 10s; negative disables the budget.
	MaxProcessingTime time.Duration
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		ReadingDirection:    DirectionRTL,
		MaxDimension:        1200,
		BinarizeWindow:      15,
		GapThreshold:        15,
		LineMergeTolerance:  10,
		GutterWhiteness:     240,
		GutterRowFraction:   0.8,
		WebtoonInkThreshold: 0.02,
		WebtoonAspectLimit:  0.3,
		GridLineStrength:    0.3,
		GridRegularity:      0.7,
		MinAreaRatio:        0.01,
		MaxAreaRatio:        0.95,
		MinAspect:           0.1,
		MaxAspect:           10,
		MinPanelSize:        24,
		OverlapRatio:        0.3,
		NoiseComponentSize:  100,
		InsetMinAreaRatio:   0.05,
		InsetMaxAreaRatio:   0.90,
		MaxInsetDepth:       3,
		MaxProcessingTime:   10 * time.Second,
	}
}

// normalized fills zero-valued fields with their defaults.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.ReadingDirection == "" {
		c.ReadingDirection = def.ReadingDirection
	}
	if c.MaxDimension <= 0 {
		c.MaxDimension = def.MaxDimension
	}
	if c.BinarizeWindow <= 0 {
		c.BinarizeWindow = def.BinarizeWindow
	}
	if c.GapThreshold <= 0 {
		c.GapThreshold = def.GapThreshold
	}
	if c.LineMergeTolerance <= 0 {
		c.LineMergeTolerance = def.LineMergeTolerance
	}
	if c.GutterWhiteness == 0 {
		c.GutterWhiteness = def.GutterWhiteness
	}
	if c.GutterRowFraction <= 0 {
		c.GutterRowFraction = def.GutterRowFraction
	}
	if c.WebtoonInkThreshold <= 0 {
		c.WebtoonInkThreshold = def.WebtoonInkThreshold
	}
	if c.WebtoonAspectLimit <= 0 {
		c.WebtoonAspectLimit = def.WebtoonAspectLimit
	}
	if c.GridLineStrength <= 0 {
		c.GridLineStrength = def.GridLineStrength
	}
	if c.GridRegularity <= 0 {
		c.GridRegularity = def.GridRegularity
	}
	if c.MinAreaRatio <= 0 {
		c.MinAreaRatio = def.MinAreaRatio
	}
	if c.MaxAreaRatio <= 0 {
		c.MaxAreaRatio = def.MaxAreaRatio
	}
	if c.MinAspect <= 0 {
		c.MinAspect = def.MinAspect
	}
	if c.MaxAspect <= 0 {
		c.MaxAspect = def.MaxAspect
	}
	if c.MinPanelSize <= 0 {
		c.MinPanelSize = def.MinPanelSize
	}
	if c.OverlapRatio <= 0 {
		c.OverlapRatio = def.OverlapRatio
	}
	if c.NoiseComponentSize <= 0 {
		c.NoiseComponentSize = def.NoiseComponentSize
	}
	if c.InsetMinAreaRatio <= 0 {
		c.InsetMinAreaRatio = def.InsetMinAreaRatio
	}
	if c.InsetMaxAreaRatio <= 0 {
		c.InsetMaxAreaRatio = def.InsetMaxAreaRatio
	}
	if c.MaxInsetDepth <= 0 {
		c.MaxInsetDepth = def.MaxInsetDepth
	}
	if c.MaxProcessingTime == 0 {
		c.MaxProcessingTime = def.MaxProcessingTime
	}
	return c
}
