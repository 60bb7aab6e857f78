package upload

import (
	"context"
	"errors"
	"io/fs"
	"net"

	"github.com/fhuszti/eiv-uploader/internal/model"
)

// Classify maps a transport error to its failure kind.
func Classify(err error) model.Failure {
	if err == nil {
		return model.FailureNone
	}
	if errors.Is(err, context.Canceled) {
		return model.FailureCancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return model.FailureTimeout
	}
	var nErr net.Error
	if errors.As(err, &nErr) && nErr.Timeout() {
		return model.FailureTimeout
	}
	return model.FailureTransport
}

// ClassifyRead separates a file removed before upload from other local I/O errors.
func ClassifyRead(err error) model.Failure {
	if errors.Is(err, fs.ErrNotExist) {
		return model.FailureFileVanished
	}
	return model.FailureLocalIO
}
