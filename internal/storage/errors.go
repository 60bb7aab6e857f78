package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/upload"
	"github.com/minio/minio-go/v7"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrBucketNotFound = errors.New("bucket not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInternal       = errors.New("internal storage error")
)

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey":
		return ErrObjectNotFound
	case "NoSuchBucket":
		return ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return fmt.Errorf("%w: %s", ErrUnauthorized, resp.Code)
	default:
		// catch everything else
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// resultFor classifies a failed MinIO call. Errors carrying an HTTP status are remote
// rejections; the rest never reached the server.
func resultFor(t model.UploadTask, err error, took time.Duration) model.UploadResult {
	if resp := minio.ToErrorResponse(err); resp.StatusCode != 0 {
		res := model.HTTPError(t, resp.StatusCode, took)
		res.Err = mapMinioErr(err)
		return res
	}
	return model.TransportError(t, upload.Classify(err), err, took)
}
