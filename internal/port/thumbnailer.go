package port

// Thumbnailer builds the preview stored next to an accepted image.
type Thumbnailer interface {
	Make(data []byte) ([]byte, error)
}
