package task

import "errors"

var (
	// ErrDispatcherClosed is returned when submitting after Shutdown.
	ErrDispatcherClosed = errors.New("dispatcher is closed")

	// ErrQueueFull is returned by a bounded queue using the reject policy.
	ErrQueueFull = errors.New("upload queue is full")

	// ErrTaskDropped marks a queued task evicted by the drop_oldest policy.
	ErrTaskDropped = errors.New("task dropped from a full queue")

	// ErrUploadPanicked wraps a panic recovered from an uploader.
	ErrUploadPanicked = errors.New("uploader panicked")
)
