package thumbnail

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	_ "golang.org/x/image/webp"
)

type webpEncoder struct{}

// compile-time check: *webpEncoder must satisfy WebPEncoder
var _ WebPEncoder = (*webpEncoder)(nil)

func NewWebPEncoder() WebPEncoder {
	return &webpEncoder{}
}

func (e *webpEncoder) Encode(img image.Image, quality int, w io.Writer) error {
	return webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
}

func (e *webpEncoder) Decode(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}
