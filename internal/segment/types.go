package segment

import (
	"time"
)

// Rect is an axis-aligned rectangle in page-pixel coordinates.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Area returns the rectangle area in square pixels.
func (r Rect) Area() int { return r.W * r.H }

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 { return float64(r.X) + float64(r.W)/2 }

// CenterY returns the vertical center.
func (r Rect) CenterY() float64 { return float64(r.Y) + float64(r.H)/2 }

// Contains reports whether other lies entirely within r.
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.Right() <= r.Right() && other.Bottom() <= r.Bottom()
}

// Intersect returns the overlap of two rectangles; a zero-area Rect when
// they are disjoint.
func (r Rect) Intersect(other Rect) Rect {
	x1 := maxInt(r.X, other.X)
	y1 := maxInt(r.Y, other.Y)
	x2 := minInt(r.Right(), other.Right())
	y2 := minInt(r.Bottom(), other.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// PanelType classifies how a panel relates to the page and its siblings.
type PanelType string

const (
	// PanelStandard is an ordinary bordered panel.
	PanelStandard PanelType = "standard"
	// PanelFullBleed touches opposite page edges on at least one axis.
	PanelFullBleed PanelType = "full_bleed"
	// PanelEdge touches exactly one page edge.
	PanelEdge PanelType = "edge"
	// PanelBorderless was recovered by connected-component analysis of
	// unframed artwork.
	PanelBorderless PanelType = "borderless"
	// PanelInset is nested inside a parent panel.
	PanelInset PanelType = "inset"
	// PanelGrid is a cell of a regular grid layout.
	PanelGrid PanelType = "grid"
	// PanelWebtoon is a full-width span of a vertical strip.
	PanelWebtoon PanelType = "webtoon"
)

// LayoutType classifies the overall page layout.
type LayoutType string

const (
	LayoutTraditional LayoutType = "traditional"
	LayoutGrid        LayoutType = "grid"
	LayoutWebtoon     LayoutType = "webtoon"
)

// Neighbors holds best-effort directional panel references by panel ID.
// Links are computed independently per panel and may be asymmetric (A
// referencing B without B referencing A); consumers needing a reciprocal
// adjacency structure must post-process explicitly.
type Neighbors struct {
	Top    string `json:"top,omitempty"`
	Bottom string `json:"bottom,omitempty"`
	Left   string `json:"left,omitempty"`
	Right  string `json:"right,omitempty"`
}

// Panel is one detected panel region. Panels never own other panels; inset
// and neighbor relations are ID references into the enclosing result.
type Panel struct {
	// ID is an opaque unique identifier.
	ID string `json:"id"`

	// Bounds is the panel rectangle in page-pixel coordinates.
	Bounds Rect `json:"bounds"`

	// ContentBounds is the tightest rectangle enclosing non-white pixels
	// inside Bounds; equal to Bounds when the panel holds no qualifying ink.
	ContentBounds Rect `json:"content_bounds"`

	// Type is the panel classification.
	Type PanelType `json:"type"`

	// Confidence is the detection confidence in [0,1].
	Confidence float64 `json:"confidence"`

	// InkDensity is the fraction of sub-white pixels within Bounds, in [0,1].
	InkDensity float64 `json:"ink_density"`

	// ReadingOrder is the panel's position in the reading sequence,
	// 0-based; -1 means unassigned.
	ReadingOrder int `json:"reading_order"`

	// Neighbors references adjacent panels by ID.
	Neighbors Neighbors `json:"neighbors"`
}

// Result is the immutable report of one Segment call, consumed by downstream
// OCR/translation stages. Panels appear in discovery order; ReadingOrder
// carries the reading sequence.
type Result struct {
	Panels []Panel `json:"panels"`

	// Layout is the classified page layout that chose the strategy.
	Layout LayoutType `json:"layout_type"`

	// PageBounds is the full page rectangle at original resolution.
	PageBounds Rect `json:"page_bounds"`

	// ProcessingMs is wall-clock analysis time in milliseconds.
	ProcessingMs float64 `json:"processing_ms"`

	// ScaleFactor is original width / analysis width.
	ScaleFactor float64 `json:"scale_factor"`

	// Degraded is set when the processing-time budget expired and the result
	// was assembled from partial candidates.
	Degraded bool `json:"degraded"`

	// Timestamp records when the analysis completed.
	Timestamp time.Time `json:"timestamp"`
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
