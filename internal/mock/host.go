package mock

import (
	"slices"
	"sync"

	"github.com/fhuszti/eiv-uploader/internal/model"
)

// Host implements port.Host. Tests fire the registered callbacks by hand.
type Host struct {
	mu           sync.Mutex
	ImageSavedFn []func(model.ImageSavedEvent)
	AppStartedFn []func()
}

func (h *Host) OnImageSaved(fn func(model.ImageSavedEvent)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ImageSavedFn = append(h.ImageSavedFn, fn)
}

func (h *Host) OnAppStarted(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.AppStartedFn = append(h.AppStartedFn, fn)
}

// Registered reports how many callbacks were registered in total.
func (h *Host) Registered() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.ImageSavedFn) + len(h.AppStartedFn)
}

func (h *Host) SaveImage(path string) {
	h.mu.Lock()
	fns := slices.Clone(h.ImageSavedFn)
	h.mu.Unlock()
	for _, fn := range fns {
		fn(model.ImageSavedEvent{FilePath: path})
	}
}

func (h *Host) Start() {
	h.mu.Lock()
	fns := slices.Clone(h.AppStartedFn)
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
