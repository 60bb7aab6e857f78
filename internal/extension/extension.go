package extension

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fhuszti/eiv-uploader/internal/config"
	"github.com/fhuszti/eiv-uploader/internal/handler/worker"
	"github.com/fhuszti/eiv-uploader/internal/logger"
	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/port"
	"github.com/fhuszti/eiv-uploader/internal/task"
	"github.com/fhuszti/eiv-uploader/internal/upload"
)

// ErrDisabled is returned when the endpoint or the API key is missing.
var ErrDisabled = errors.New("image upload disabled: EIV_ENDPOINT and EIV_APIKEY are both required")

// Deps are the optional collaborators of an Extension. Zero values get defaults.
type Deps struct {
	Logger port.Logger
	Stats  port.UploadStats

	// Uploader replaces the HTTP uploader; Destination must then name its target.
	Uploader    port.Uploader
	Destination string

	// NewUploader builds the replacement uploader and its destination. It is only called
	// once uploads are enabled, so backends that talk to the network on construction stay idle.
	NewUploader func(ctx context.Context) (port.Uploader, string, error)

	// Handlers receive every result after the built-in reporter.
	Handlers []port.ResultHandler
}

// Extension holds the configuration and the dispatcher for one process.
type Extension struct {
	cfg        *config.Settings
	log        port.Logger
	dispatcher *task.Dispatcher
	dest       string
	target     string
	started    sync.Once
}

// New builds the extension and starts its workers.
func New(cfg *config.Settings, deps Deps) (*Extension, error) {
	if cfg == nil || !cfg.UploadEnabled() {
		return nil, ErrDisabled
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNoop()
	}

	up, dest := deps.Uploader, deps.Destination
	if up == nil && deps.NewUploader != nil {
		u, d, err := deps.NewUploader(context.Background())
		if err != nil {
			return nil, fmt.Errorf("could not build uploader: %w", err)
		}
		up, dest = u, d
	}
	target := dest
	if up == nil {
		u, err := upload.ImagesURL(cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		up, dest = upload.NewHTTPUploader(cfg.APIKey, cfg.RequestTimeout), u
		target = cfg.Endpoint
	}

	handlers := append([]port.ResultHandler{worker.NewReporter(log, deps.Stats)}, deps.Handlers...)
	d, err := task.NewDispatcher(cfg.Pool(), up, dest, handlers...)
	if err != nil {
		return nil, fmt.Errorf("could not build upload dispatcher: %w", err)
	}
	d.Start()

	return &Extension{cfg: cfg, log: log, dispatcher: d, dest: dest, target: target}, nil
}

// Setup builds the extension and subscribes it to host. When uploads are disabled nothing
// is registered and ErrDisabled is returned.
func Setup(host port.Host, cfg *config.Settings, deps Deps) (*Extension, error) {
	ext, err := New(cfg, deps)
	if err != nil {
		return nil, err
	}
	ext.Register(host)
	return ext, nil
}

func (e *Extension) Register(host port.Host) {
	host.OnImageSaved(e.OnImageSaved)
	host.OnAppStarted(e.OnAppStarted)
}

// OnImageSaved queues the saved image and returns at once.
func (e *Extension) OnImageSaved(ev model.ImageSavedEvent) {
	worker.ImageSavedHandler(context.Background(), ev, e.dispatcher, e.log)
}

// OnAppStarted prints the start-up notice, once.
func (e *Extension) OnAppStarted() {
	e.started.Do(func() {
		e.log.Infof(context.Background(), "Initialized, all generated images are uploaded to %s (%d workers)", e.target, e.cfg.Workers)
	})
}

// Destination is the URL every task is uploaded to.
func (e *Extension) Destination() string {
	return e.dest
}

func (e *Extension) Stats() model.PoolStats {
	return e.dispatcher.Stats()
}

// Shutdown drains pending uploads; see task.Dispatcher.Shutdown.
func (e *Extension) Shutdown(ctx context.Context) bool {
	return e.dispatcher.Shutdown(ctx)
}
