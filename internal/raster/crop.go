package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// PanelCropResult contains a cropped panel region encoded for hand-off to a
// downstream per-panel consumer (OCR, translation, preview rendering).
type PanelCropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// CropPanel extracts a rectangular panel region from a page image.
//
// The region is given in page-pixel coordinates as (x, y, w, h). An optional
// scale factor resizes the crop (e.g. 2.0 to upscale small panels before OCR);
// scale <= 0 or 1.0 leaves the crop at native resolution.
func CropPanel(img image.Image, x, y, w, h int, scale float64) (*PanelCropResult, error) {
	bounds := img.Bounds()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid panel region: width and height must be positive, got %dx%d", w, h)
	}
	x1 := bounds.Min.X + x
	y1 := bounds.Min.Y + y
	x2 := x1 + w
	y2 := y1 + h
	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("panel region (%d,%d %dx%d) outside page bounds %dx%d",
			x, y, w, h, bounds.Dx(), bounds.Dy())
	}

	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2))

	if scale > 0 && scale != 1.0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	encoded, err := EncodePNGBase64(cropped)
	if err != nil {
		return nil, fmt.Errorf("failed to encode panel crop: %w", err)
	}

	return &PanelCropResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// EncodePNGBase64 encodes an image as a base64 PNG string.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
