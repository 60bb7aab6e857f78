package task

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fhuszti/eiv-uploader/internal/api_context"
	"github.com/fhuszti/eiv-uploader/internal/logger"
	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/port"
	"github.com/fhuszti/eiv-uploader/internal/uuid"
	"github.com/fhuszti/eiv-uploader/internal/validation"
)

// Dispatcher runs uploads on a fixed pool of long-lived workers.
// Submit never waits on file or network I/O.
type Dispatcher struct {
	cfg      model.PoolConfig
	uploader port.Uploader
	dest     string
	handlers []port.ResultHandler

	queue  *queue
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}

	mu      sync.Mutex
	started bool

	running   atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// compile-time check: *Dispatcher must satisfy port.TaskDispatcher
var _ port.TaskDispatcher = (*Dispatcher)(nil)

// NewDispatcher validates cfg and prepares a dispatcher uploading every submitted file to dest.
// Workers are started by Start.
func NewDispatcher(cfg model.PoolConfig, up port.Uploader, dest string, handlers ...port.ResultHandler) (*Dispatcher, error) {
	if err := validation.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid pool config: %w", err)
	}
	if up == nil {
		return nil, fmt.Errorf("uploader is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		cfg:      cfg,
		uploader: up,
		dest:     dest,
		handlers: handlers,
		queue:    newQueue(cfg.QueueSize, cfg.Overflow),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}, nil
}

// Start launches the workers. Calling it more than once has no effect.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true

	logger.Infof(d.ctx, "🚀 Upload dispatcher starting with %d workers", d.cfg.Workers)
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(i + 1)
	}

	go func() {
		d.wg.Wait()
		d.closeHandlers()
		d.cancel()
		close(d.done)
	}()
}

// Submit enqueues an upload of filePath and returns its task ID.
func (d *Dispatcher) Submit(filePath string) (uuid.UUID, error) {
	t, err := NewUploadTask(filePath, d.dest)
	if err != nil {
		return uuid.Nil, err
	}
	if err := d.queue.push(t); err != nil {
		return uuid.Nil, err
	}
	logger.Debugf(api_context.WithTaskID(d.ctx, t.ID), "Upload of %s queued", filePath)
	return t.ID, nil
}

// Stats returns a snapshot of the dispatcher counters.
func (d *Dispatcher) Stats() model.PoolStats {
	return model.PoolStats{
		Queued:    d.queue.len(),
		Running:   int(d.running.Load()),
		Completed: d.completed.Load(),
		Failed:    d.failed.Load(),
		Dropped:   d.dropped.Load(),
	}
}

// Shutdown stops accepting submissions and waits for queued and in-flight uploads.
// If ctx ends first, pending work is cancelled and false is returned.
func (d *Dispatcher) Shutdown(ctx context.Context) bool {
	d.queue.close()

	d.mu.Lock()
	started := d.started
	d.started = true
	d.mu.Unlock()
	if !started {
		d.discardQueued()
		return true
	}

	select {
	case <-d.done:
		logger.Info(ctx, "🛑 Upload dispatcher drained")
		return true
	case <-ctx.Done():
		logger.Warnf(ctx, "⚠️  Upload dispatcher drain interrupted: %v", ctx.Err())
		d.cancel()
		return false
	}
}

// discardQueued settles a dispatcher that never ran: every queued task is reported as
// cancelled and the handlers are closed.
func (d *Dispatcher) discardQueued() {
	for {
		e, ok := d.queue.pop()
		if !ok {
			break
		}
		err := ErrDispatcherClosed
		if e.dropped {
			err = ErrTaskDropped
		}
		d.dropped.Add(1)
		d.deliver(api_context.WithTaskID(d.ctx, e.task.ID), model.TransportError(e.task, model.FailureCancelled, err, 0))
	}
	d.closeHandlers()
	d.cancel()
	close(d.done)
}

// Done is closed once every worker has exited.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	logger.Debugf(d.ctx, "Upload worker %d started", id)

	for {
		e, ok := d.queue.pop()
		if !ok {
			logger.Debugf(d.ctx, "Upload worker %d stopped", id)
			return
		}

		ctx := api_context.WithTaskID(d.ctx, e.task.ID)
		if e.dropped {
			d.dropped.Add(1)
			d.deliver(ctx, model.TransportError(e.task, model.FailureCancelled, ErrTaskDropped, 0))
			continue
		}

		d.running.Add(1)
		res := d.execute(ctx, e.task)
		d.running.Add(-1)

		if res.Succeeded() {
			d.completed.Add(1)
		} else {
			d.failed.Add(1)
		}
		d.deliver(ctx, res)
	}
}

// execute runs one upload attempt. A panicking uploader is turned into a failed result.
func (d *Dispatcher) execute(ctx context.Context, t model.UploadTask) (res model.UploadResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = model.TransportError(t, model.FailureTransport, fmt.Errorf("%w: %v", ErrUploadPanicked, r), time.Since(start))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, d.cfg.RequestTimeout)
	defer cancel()
	return d.uploader.Upload(ctx, t)
}

func (d *Dispatcher) deliver(ctx context.Context, res model.UploadResult) {
	for _, h := range d.handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf(ctx, "❌ Result handler panicked: %v", r)
				}
			}()
			h.HandleResult(ctx, res)
		}()
	}
}

func (d *Dispatcher) closeHandlers() {
	for _, h := range d.handlers {
		if c, ok := h.(*ChannelResultHandler); ok {
			c.close()
		}
	}
}
