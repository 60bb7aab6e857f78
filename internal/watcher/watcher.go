// Package watcher turns a directory of generated images into a port.Host: every image
// written there is announced once it has stopped changing.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fhuszti/eiv-uploader/internal/logger"
	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/port"
	"github.com/fsnotify/fsnotify"
)

const DefaultSettleDelay = 500 * time.Millisecond

// ErrClosed is returned by Run when the notification source goes away while ctx is still live.
var ErrClosed = errors.New("watcher closed")

type Watcher struct {
	dir    string
	exts   map[string]struct{}
	settle time.Duration
	log    port.Logger

	mu         sync.Mutex
	savedFns   []func(model.ImageSavedEvent)
	startedFns []func()
	pending    map[string]*time.Timer
	stopped    bool
}

// compile-time check: *Watcher must satisfy port.Host
var _ port.Host = (*Watcher)(nil)

// New watches dir for files whose extension is in exts. A settle of 0 uses DefaultSettleDelay.
func New(dir string, exts []string, settle time.Duration, log port.Logger) (*Watcher, error) {
	if dir == "" {
		return nil, fmt.Errorf("watch directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("watch directory: %s is not a directory", abs)
	}
	if len(exts) == 0 {
		return nil, fmt.Errorf("at least one extension is required")
	}
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	if log == nil {
		log = logger.NewNoop()
	}

	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		set[strings.ToLower(e)] = struct{}{}
	}

	return &Watcher{
		dir:     abs,
		exts:    set,
		settle:  settle,
		log:     log,
		pending: make(map[string]*time.Timer),
	}, nil
}

func (w *Watcher) Dir() string {
	return w.dir
}

func (w *Watcher) OnImageSaved(fn func(model.ImageSavedEvent)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.savedFns = append(w.savedFns, fn)
}

func (w *Watcher) OnAppStarted(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.startedFns = append(w.startedFns, fn)
}

// Run watches until ctx is done. The app-started callbacks fire once the directory is watched.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Infof(ctx, "👀 Watching %s for %s files", w.dir, strings.Join(w.extList(), ", "))

	w.mu.Lock()
	started := slices.Clone(w.startedFns)
	w.mu.Unlock()
	for _, fn := range started {
		fn()
	}

	return w.loop(ctx, fw.Events, fw.Errors)
}

func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	defer w.stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return ErrClosed
			}
			w.handle(ev)
		case err, ok := <-errs:
			if !ok {
				return ErrClosed
			}
			w.log.Warnf(ctx, "Watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !w.accepts(ev.Name) {
		return
	}
	switch {
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		w.schedule(ev.Name)
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.cancel(ev.Name)
	}
}

func (w *Watcher) accepts(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	_, ok := w.exts[strings.ToLower(filepath.Ext(base))]
	return ok
}

// schedule (re)arms the settle timer of path. Every write pushes the announcement back.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.settle, func() { w.fire(path) })
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	fns := slices.Clone(w.savedFns)
	w.mu.Unlock()

	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return
	}

	ev := model.ImageSavedEvent{FilePath: path}
	for _, fn := range fns {
		fn(ev)
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	for p, t := range w.pending {
		t.Stop()
		delete(w.pending, p)
	}
}

func (w *Watcher) extList() []string {
	out := make([]string, 0, len(w.exts))
	for e := range w.exts {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
