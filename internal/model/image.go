package model

import (
	"errors"
	"time"

	"github.com/fhuszti/eiv-uploader/internal/pngmeta"
)

var ErrImageExists = errors.New("image already exists")

const (
	ImageMimeType = "image/png"
	ThumbMimeType = "image/webp"
)

// ImageRecord is what the receiver keeps about one accepted image.
type ImageRecord struct {
	Hash      string           `json:"hash"`
	Bucket    string           `json:"bucket"`
	IP        string           `json:"ip"`
	Metadata  pngmeta.Metadata `json:"metadata"`
	CreatedAt time.Time        `json:"created_at"`
}

// Bucket is a named destination a token can write into.
type Bucket struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ImagePage is one page of a bucket listing.
type ImagePage struct {
	Images []ImageRecord `json:"images"`
	Total  int           `json:"total"`
}
