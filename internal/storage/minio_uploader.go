package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fhuszti/eiv-uploader/internal/logger"
	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/port"
	"github.com/fhuszti/eiv-uploader/internal/upload"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioUploader stores images straight into the viewer bucket, keyed by content hash.
type MinioUploader struct {
	client     minioClient
	bucketName string
}

type Strg struct {
	Client minioClient
}

// compile-time check: *MinioUploader must satisfy port.Uploader
var _ port.Uploader = (*MinioUploader)(nil)

func NewMinioClient(endpoint, accessKey, secretKey string, useSSL bool) (*Strg, error) {
	logger.Info(context.Background(), "initialising minio client...")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return &Strg{Client: client}, nil
}

// WithBucket returns an uploader for bucket, creating the bucket when missing.
func (c *Strg) WithBucket(ctx context.Context, bucket string) (*MinioUploader, error) {
	ok, err := c.Client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, mapMinioErr(err)
	}
	if !ok {
		logger.Infof(ctx, "bucket %q does not exist, creating it...", bucket)
		if err := c.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, mapMinioErr(err)
		}
	}
	return &MinioUploader{client: c.Client, bucketName: bucket}, nil
}

// DestinationURL names the bucket tasks are uploaded into.
func (u *MinioUploader) DestinationURL() string {
	return "s3://" + u.bucketName
}

// ObjectKey is the key an image is stored under: the hex SHA-256 of its bytes.
func ObjectKey(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]) + ".png"
}

func (u *MinioUploader) Upload(ctx context.Context, t model.UploadTask) model.UploadResult {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return model.TransportError(t, upload.Classify(err), err, time.Since(start))
	}

	data, err := os.ReadFile(t.FilePath)
	if err != nil {
		return model.TransportError(t, upload.ClassifyRead(err), fmt.Errorf("read %s: %w", t.FilePath, err), time.Since(start))
	}
	key := ObjectKey(data)

	_, err = u.client.StatObject(ctx, u.bucketName, key, minio.StatObjectOptions{})
	if err == nil {
		logger.Debugf(ctx, "object %q already in bucket %q, skipping", key, u.bucketName)
		return model.Success(t, http.StatusOK, time.Since(start))
	}
	if !errors.Is(mapMinioErr(err), ErrObjectNotFound) {
		return resultFor(t, err, time.Since(start))
	}

	logger.Debugf(ctx, "saving file %q into bucket %q...", key, u.bucketName)
	_, err = u.client.PutObject(ctx, u.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  upload.ContentType,
		UserMetadata: map[string]string{"source-file": filepath.Base(t.FilePath)},
	})
	if err != nil {
		return resultFor(t, err, time.Since(start))
	}
	return model.Success(t, http.StatusOK, time.Since(start))
}
