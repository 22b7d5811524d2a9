package segment

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/inkplane/page-layout-mcp/internal/raster"
)

// ErrInvalidImage reports a missing page or non-positive dimensions.
// It fails fast and is never retried internally.
var ErrInvalidImage = errors.New("invalid page image")

// Segmenter decomposes page images into ordered panel regions. It holds
// configuration only; all working buffers are call-scoped, so one Segmenter
// may serve concurrent calls.
type Segmenter struct {
	cfg Config
}

// New returns a Segmenter; zero-valued config fields take their defaults.
func New(cfg Config) *Segmenter {
	return &Segmenter{cfg: cfg.normalized()}
}

// NewDefault returns a Segmenter with DefaultConfig.
func NewDefault() *Segmenter {
	return New(DefaultConfig())
}

// Segment analyzes a page image and returns its panel decomposition.
//
// The page is classified (webtoon / grid / traditional), segmented by the
// matching strategy, and the surviving panels are refined, rescaled to
// original page coordinates, ordered per the reading-direction policy, and
// annotated with best-effort neighbor links. Webtoon layouts always read
// top-to-bottom regardless of the configured direction.
//
// Unexpected internal failures are recovered and converted into an error so
// a single bad page never crashes a batch; the processing-time budget
// instead yields a partial result with Degraded set.
func (s *Segmenter) Segment(img image.Image) (res *Result, err error) {
	start := time.Now()

	if img == nil {
		return nil, fmt.Errorf("segment: %w: nil image", ErrInvalidImage)
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("segment: %w: %dx%d", ErrInvalidImage, width, height)
	}

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("segment: internal failure: %v", r)
		}
	}()

	cfg := s.cfg
	deadline := time.Time{}
	if cfg.MaxProcessingTime > 0 {
		deadline = start.Add(cfg.MaxProcessingTime)
	}

	// Downsample for analysis; all panel coordinates are rescaled back to
	// the original resolution before returning.
	analysis := img
	scale := 1.0
	if width > cfg.MaxDimension || height > cfg.MaxDimension {
		if width >= height {
			analysis = imaging.Resize(img, cfg.MaxDimension, 0, imaging.Linear)
		} else {
			analysis = imaging.Resize(img, 0, cfg.MaxDimension, imaging.Linear)
		}
		scale = float64(width) / float64(analysis.Bounds().Dx())
	}

	gray := raster.ToGrayscale(analysis)
	mask := raster.Binarize(gray, cfg.BinarizeWindow)
	aw, ah := gray.Width, gray.Height
	analysisPage := Rect{X: 0, Y: 0, W: aw, H: ah}

	layout, lines := classifyLayout(gray, cfg)

	var candidates []Panel
	degraded := false
	switch layout {
	case LayoutWebtoon:
		candidates = webtoonStrategy(mask, cfg)
	case LayoutGrid:
		candidates = gridStrategy(lines, aw, ah, cfg)
	default:
		candidates, degraded = traditionalStrategy(gray, mask, cfg, deadline)
	}

	candidates = filterCandidates(candidates, analysisPage, cfg)
	panels := mergeOverlapping(candidates, cfg)
	refinePanels(panels, gray, cfg)

	pageBounds := Rect{X: 0, Y: 0, W: width, H: height}
	for i := range panels {
		panels[i].ID = uuid.NewString()
		panels[i].Bounds = rescaleRect(panels[i].Bounds, scale, pageBounds)
		panels[i].ContentBounds = rescaleRect(panels[i].ContentBounds, scale, panels[i].Bounds)
	}

	direction := cfg.ReadingDirection
	if layout == LayoutWebtoon {
		direction = DirectionTTB
	}
	assignReadingOrder(panels, direction)
	assignNeighbors(panels)

	return &Result{
		Panels:       panels,
		Layout:       layout,
		PageBounds:   pageBounds,
		ProcessingMs: float64(time.Since(start).Microseconds()) / 1000,
		ScaleFactor:  scale,
		Degraded:     degraded,
		Timestamp:    time.Now(),
	}, nil
}

// rescaleRect maps an analysis-space rectangle back to original page
// coordinates and clips it to the enclosing rectangle so containment
// invariants hold after rounding.
func rescaleRect(r Rect, scale float64, within Rect) Rect {
	if scale != 1.0 {
		r = Rect{
			X: int(float64(r.X) * scale),
			Y: int(float64(r.Y) * scale),
			W: int(float64(r.W)*scale + 0.5),
			H: int(float64(r.H)*scale + 0.5),
		}
	}
	if r.X < within.X {
		r.W -= within.X - r.X
		r.X = within.X
	}
	if r.Y < within.Y {
		r.H -= within.Y - r.Y
		r.Y = within.Y
	}
	if r.Right() > within.Right() {
		r.W = within.Right() - r.X
	}
	if r.Bottom() > within.Bottom() {
		r.H = within.Bottom() - r.Y
	}
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}
