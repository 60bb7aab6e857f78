package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// GeneratePNG generates a simple RGBA image and encodes it to PNG. Different shades give
// different bytes.
func GeneratePNG(t *testing.T, width, height int, shade uint8) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: shade, G: 255, B: 255, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}
	return buf.Bytes()
}

// WritePNG stores a generated PNG under dir and returns its path.
func WritePNG(t *testing.T, dir, name string, shade uint8) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, GeneratePNG(t, 16, 16, shade), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
