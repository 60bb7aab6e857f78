package port

import "github.com/fhuszti/eiv-uploader/internal/model"

// Host is the application producing images. It lets extensions subscribe to its events.
type Host interface {
	OnImageSaved(fn func(model.ImageSavedEvent))
	OnAppStarted(fn func())
}
