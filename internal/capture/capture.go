// Package capture turns element screenshots into thumbnails on disk.
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	// decoders for screenshot formats other than PNG
	_ "image/jpeg"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// DefaultMaxWidth is the thumbnail width used when Options leaves it unset.
const DefaultMaxWidth = 320

// Options configures thumbnail generation.
type Options struct {
	Dir      string
	MaxWidth uint
}

// Thumbnail scales img down to maxWidth, keeping the aspect ratio. Images
// already narrower are returned unchanged.
func Thumbnail(img image.Image, maxWidth uint) image.Image {
	if maxWidth == 0 {
		maxWidth = DefaultMaxWidth
	}
	bounds := img.Bounds()
	if bounds.Dx() <= int(maxWidth) {
		return img
	}
	aspectRatio := float64(bounds.Dy()) / float64(bounds.Dx())
	height := uint(float64(maxWidth) * aspectRatio)
	if height == 0 {
		height = 1
	}
	return resize.Resize(maxWidth, height, img, resize.Lanczos3)
}

// Save decodes an encoded screenshot, thumbnails it and writes it as PNG
// under a random name in opts.Dir. It returns the file path and size.
func Save(data []byte, opts Options) (string, int64, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", 0, fmt.Errorf("failed to decode screenshot: %w", err)
	}

	dir := opts.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create capture dir: %w", err)
	}

	path := filepath.Join(dir, "pickr-"+uuid.NewString()+".png")
	f, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	if err := png.Encode(f, Thumbnail(img, opts.MaxWidth)); err != nil {
		return "", 0, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		return "", 0, err
	}
	return path, info.Size(), nil
}
