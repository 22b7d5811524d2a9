// Package segment decomposes a (preferably deskewed) page image into an
// ordered set of panel regions for downstream per-panel processing.
//
// The pipeline first classifies the page layout — vertically-scrolling
// webtoon strip, regular grid, or free-form traditional page — and then
// dispatches to one of three boundary-detection strategies. Strategy output
// is filtered by area/aspect bounds, merged by confidence so overlapping
// candidates collapse to the strongest one, refined with panel types, ink
// density and tight content bounds, and finally ordered according to a
// reading-direction policy with best-effort neighbor annotations.
//
// All detection runs at a bounded analysis resolution; panel coordinates are
// rescaled to the original page resolution before the result is returned.
//
// A Segmenter holds only configuration. Every Segment call allocates its own
// working buffers, so one Segmenter may be shared across goroutines.
package segment
