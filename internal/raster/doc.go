// Package raster is the raster access layer for the page layout engine.
//
// It decodes page images into standard Go image.Image values (with caching),
// converts them to luminance grids, derives adaptive binary ink masks, crops
// panel regions for downstream consumers, and renders debug overlays. The
// analysis engines (deskew, segment) consume only the Grayscale and
// BinaryMask types produced here; they never decode image formats themselves.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
// X increases rightward, Y increases downward. Grayscale and BinaryMask are
// stored row-major and always use a (0,0)-anchored coordinate space, even
// when derived from an image whose Bounds() has a non-zero minimum.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Grayscale and BinaryMask values are
// immutable after construction and may be shared freely; the conversion
// functions allocate fresh buffers per call and keep no state between calls.
//
// # Supported Formats
//
// PNG, JPEG, GIF (stdlib decoders) plus WebP and BMP via golang.org/x/image.
// Webtoon sources in particular are frequently distributed as WebP.
package raster
