// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging builds the JPEG thumbnails shown next to product covers
// and gallery images in the editor. Only raster formats that decode with
// the standard library or golang.org/x/image are thumbnailed.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// ThumbMaxWidth is the maximum thumbnail width in pixels.
	ThumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated thumbnails.
	thumbQuality = 80

	// maxImagePixels caps the number of pixels to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000
)

// thumbableTypes are image types that support thumbnail generation.
// GIF is excluded to preserve animation.
var thumbableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Thumbable reports whether a thumbnail can be generated for contentType.
func Thumbable(contentType string) bool {
	return thumbableTypes[contentType]
}

// Thumbnail creates a JPEG thumbnail from an image, constrained to
// maxWidth while preserving aspect ratio. Returns nil if the image is
// already no wider than maxWidth.
func Thumbnail(src io.ReadSeeker, maxWidth int) ([]byte, error) {
	if maxWidth <= 0 {
		maxWidth = ThumbMaxWidth
	}

	// Decode config first to check dimensions without full decode.
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxImagePixels)
	}

	if cfg.Width <= maxWidth {
		return nil, nil
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newHeight := max(int(float64(bounds.Dy())*ratio), 1)

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
