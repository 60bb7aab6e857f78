package thumbnail

import (
	"bytes"
	"fmt"
	"image"

	"github.com/fhuszti/eiv-uploader/internal/port"
	"golang.org/x/image/draw"
)

const (
	DefaultHeight = 512
	quality       = 80
)

// Thumbnailer turns an uploaded image into a lossy WebP preview no taller than height.
type Thumbnailer struct {
	enc    WebPEncoder
	height int
}

// compile-time check: *Thumbnailer must satisfy port.Thumbnailer
var _ port.Thumbnailer = (*Thumbnailer)(nil)

func New(enc WebPEncoder, height int) *Thumbnailer {
	if height <= 0 {
		height = DefaultHeight
	}
	return &Thumbnailer{enc: enc, height: height}
}

// Make returns the WebP bytes of the preview. Images shorter than the limit keep their size.
func (t *Thumbnailer) Make(data []byte) ([]byte, error) {
	img, _, err := t.enc.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("thumbnail: failed to decode image: %w", err)
	}

	img = scaleToHeight(img, t.height)

	buf := &bytes.Buffer{}
	if err := t.enc.Encode(img, quality, buf); err != nil {
		return nil, fmt.Errorf("thumbnail: failed to encode WebP: %w", err)
	}
	return buf.Bytes(), nil
}

func scaleToHeight(src image.Image, height int) image.Image {
	b := src.Bounds()
	if b.Dy() <= height || b.Dy() == 0 {
		return src
	}
	width := b.Dx() * height / b.Dy()
	if width < 1 {
		width = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
