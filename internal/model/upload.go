package model

import (
	"fmt"
	"time"

	"github.com/fhuszti/eiv-uploader/internal/uuid"
)

// UploadTask is one unit of work: upload the file at FilePath to DestinationURL.
type UploadTask struct {
	ID             uuid.UUID `json:"id"`
	FilePath       string    `json:"file_path" validate:"required"`
	DestinationURL string    `json:"destination_url" validate:"required,url"`
	EnqueuedAt     time.Time `json:"enqueued_at"`
}

type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeHTTPError      Outcome = "http_error"
	OutcomeTransportError Outcome = "transport_error"
)

// Failure refines a failed outcome. It never changes pass/fail semantics.
type Failure string

const (
	FailureNone            Failure = ""
	FailureLocalIO         Failure = "local_io"
	FailureFileVanished    Failure = "file_vanished"
	FailureTransport       Failure = "transport"
	FailureTimeout         Failure = "timeout"
	FailureRemoteRejection Failure = "remote_rejection"
	FailureCancelled       Failure = "cancelled"
)

// UploadResult is the terminal classification of a task.
type UploadResult struct {
	TaskID     uuid.UUID
	FilePath   string
	Outcome    Outcome
	StatusCode int
	Failure    Failure
	Err        error
	Duration   time.Duration
}

func (r UploadResult) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}

// Reason returns a human-readable failure reason, or an empty string on success.
func (r UploadResult) Reason() string {
	switch r.Outcome {
	case OutcomeSuccess:
		return ""
	case OutcomeHTTPError:
		return fmt.Sprintf("remote answered with status %d", r.StatusCode)
	default:
		if r.Err != nil {
			return fmt.Sprintf("%s: %v", r.Failure, r.Err)
		}
		return string(r.Failure)
	}
}

// Success builds a successful result for t.
func Success(t UploadTask, status int, took time.Duration) UploadResult {
	return UploadResult{
		TaskID:     t.ID,
		FilePath:   t.FilePath,
		Outcome:    OutcomeSuccess,
		StatusCode: status,
		Duration:   took,
	}
}

// HTTPError builds a result for a non-200 answer.
func HTTPError(t UploadTask, status int, took time.Duration) UploadResult {
	return UploadResult{
		TaskID:     t.ID,
		FilePath:   t.FilePath,
		Outcome:    OutcomeHTTPError,
		StatusCode: status,
		Failure:    FailureRemoteRejection,
		Err:        fmt.Errorf("unexpected status %d", status),
		Duration:   took,
	}
}

// TransportError builds a result for any failure that happened before a status was received.
func TransportError(t UploadTask, kind Failure, err error, took time.Duration) UploadResult {
	return UploadResult{
		TaskID:   t.ID,
		FilePath: t.FilePath,
		Outcome:  OutcomeTransportError,
		Failure:  kind,
		Err:      err,
		Duration: took,
	}
}
