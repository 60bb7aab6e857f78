package model

// ImageSavedEvent is emitted by the host once per image persisted to disk.
type ImageSavedEvent struct {
	FilePath string
}
