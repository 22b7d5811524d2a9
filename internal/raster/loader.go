package raster

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder (common for webtoons)
)

// ImageCache provides thread-safe caching of decoded page images to avoid
// redundant disk reads when the same page is analyzed by multiple tools
// (deskew, then segment, then visualize).
//
// The cache stores decoded image.Image values keyed by file path together
// with the decoder-reported format name. Cached pages remain in memory until
// explicitly removed via Evict() or Clear(); long-running servers handling
// many pages should clear periodically to bound memory growth.
//
// ImageCache is a working cache only: it never stores analysis results.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cachedImage
}

type cachedImage struct {
	img    image.Image
	format string
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cachedImage),
	}
}

// Load retrieves a page from the cache or decodes it from disk if not cached.
//
// Parameters:
//   - path: Absolute or relative file path to the page image. Supported
//     formats are PNG, JPEG, GIF, WebP, and BMP.
//
// Returns the decoded image; the concrete type depends on the source format
// (e.g. *image.RGBA, *image.NRGBA, *image.YCbCr, *image.Gray). Pages are
// cached by the exact path string provided.
func (c *ImageCache) Load(path string) (image.Image, error) {
	img, _, err := c.load(path)
	return img, err
}

// LoadWithFormat is Load plus the decoder-reported format name
// ("png", "jpeg", "gif", "webp", "bmp").
func (c *ImageCache) LoadWithFormat(path string) (image.Image, string, error) {
	return c.load(path)
}

func (c *ImageCache) load(path string) (image.Image, string, error) {
	c.mu.RLock()
	if entry, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return entry.img, entry.format, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open page image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode page image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = cachedImage{img: img, format: format}
	c.mu.Unlock()

	return img, format, nil
}

// Clear removes all pages from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cachedImage)
	c.mu.Unlock()
}

// Evict removes a specific page from the cache by its path.
// If the path is not cached, Evict does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// PageInfo contains metadata about a loaded page image file.
type PageInfo struct {
	// Width is the page width in pixels.
	Width int `json:"width"`

	// Height is the page height in pixels.
	Height int `json:"height"`

	// Format is the decoder-reported image format ("png", "jpeg", "gif",
	// "webp", "bmp").
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the page has an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// AspectRatio is Width/Height; values below ~0.3 usually indicate a
	// vertically-scrolling webtoon strip.
	AspectRatio float64 `json:"aspect_ratio"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadPageInfo loads a page (through the cache) and returns its metadata.
//
// Format detection uses the registered decoder that actually decoded the
// file, not the file extension, so mislabeled files report their true format.
func LoadPageInfo(cache *ImageCache, path string) (*PageInfo, error) {
	img, format, err := cache.LoadWithFormat(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	hasAlpha := false
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	aspect := 0.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}

	return &PageInfo{
		Width:         width,
		Height:        height,
		Format:        format,
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		AspectRatio:   aspect,
		FileSizeBytes: stat.Size(),
	}, nil
}
