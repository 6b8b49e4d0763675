package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encoded(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestThumbnail(t *testing.T) {
	big := image.NewRGBA(image.Rect(0, 0, 800, 400))
	got := Thumbnail(big, 200)
	assert.Equal(t, 200, got.Bounds().Dx())
	assert.Equal(t, 100, got.Bounds().Dy())

	small := image.NewRGBA(image.Rect(0, 0, 50, 50))
	assert.Same(t, small, Thumbnail(small, 200))
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	path, size, err := Save(encoded(t, 640, 320), Options{Dir: dir, MaxWidth: 160})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(path), "pickr-"))
	assert.Equal(t, ".png", filepath.Ext(path))
	assert.Positive(t, size)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 160, cfg.Width)
	assert.Equal(t, 80, cfg.Height)
}

func TestSave_RejectsGarbage(t *testing.T) {
	_, _, err := Save([]byte("not an image"), Options{Dir: t.TempDir()})
	assert.Error(t, err)
}
