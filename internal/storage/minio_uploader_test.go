package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/uuid"
	"github.com/minio/minio-go/v7"
)

type mockMinio struct {
	bucketExistsFn func(ctx context.Context, bucketName string) (bool, error)
	makeBucketFn   func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	statObjectFn   func(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	putObjectFn    func(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

func (m *mockMinio) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return m.bucketExistsFn(ctx, bucketName)
}
func (m *mockMinio) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.makeBucketFn(ctx, bucketName, opts)
}
func (m *mockMinio) StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return m.statObjectFn(ctx, bucket, key, opts)
}
func (m *mockMinio) PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return m.putObjectFn(ctx, bucket, key, reader, size, opts)
}

var notFound = minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}

func writeImage(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "render.png")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp image: %v", err)
	}
	return p
}

func newTask(path string) model.UploadTask {
	return model.UploadTask{ID: uuid.NewUUID(), FilePath: path, DestinationURL: "s3://bucket"}
}

func TestWithBucket(t *testing.T) {
	tests := []struct {
		name           string
		exists         bool
		existsErr      error
		makeErr        error
		wantMakeCalled bool
		wantErr        error
	}{
		{
			name:           "bucket exists, no create",
			exists:         true,
			wantMakeCalled: false,
		},
		{
			name:           "bucket does not exist, create succeeds",
			exists:         false,
			wantMakeCalled: true,
		},
		{
			name:      "BucketExists error bubbles up",
			existsErr: errors.New("exist fail"),
			wantErr:   ErrInternal,
		},
		{
			name:           "MakeBucket access denied",
			exists:         false,
			makeErr:        minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden},
			wantMakeCalled: true,
			wantErr:        ErrUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			makeCalled := false

			mock := &mockMinio{
				bucketExistsFn: func(ctx context.Context, bucketName string) (bool, error) {
					return tc.exists, tc.existsErr
				},
				makeBucketFn: func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
					makeCalled = true
					return tc.makeErr
				},
			}

			strg := &Strg{Client: mock}
			u, err := strg.WithBucket(context.Background(), "external-image-viewer")

			if makeCalled != tc.wantMakeCalled {
				t.Errorf("MakeBucket called = %v; want %v", makeCalled, tc.wantMakeCalled)
			}
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected error %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if u.DestinationURL() != "s3://external-image-viewer" {
				t.Errorf("DestinationURL = %q", u.DestinationURL())
			}
		})
	}
}

func TestUpload_PutsObjectUnderContentHash(t *testing.T) {
	path := writeImage(t, "png-bytes")
	var gotBucket, gotKey, gotCT, gotSource string
	var gotBody []byte

	mock := &mockMinio{
		statObjectFn: func(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{}, notFound
		},
		putObjectFn: func(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			gotBucket, gotKey, gotCT = bucket, key, opts.ContentType
			gotSource = opts.UserMetadata["source-file"]
			gotBody, _ = io.ReadAll(reader)
			return minio.UploadInfo{Key: key, Size: size}, nil
		},
	}
	u := &MinioUploader{client: mock, bucketName: "external-image-viewer"}

	res := u.Upload(context.Background(), newTask(path))

	if !res.Succeeded() || res.StatusCode != http.StatusOK {
		t.Fatalf("expected success, got %+v", res)
	}
	if gotBucket != "external-image-viewer" {
		t.Errorf("bucket = %q", gotBucket)
	}
	if want := ObjectKey([]byte("png-bytes")); gotKey != want {
		t.Errorf("key = %q; want %q", gotKey, want)
	}
	if gotCT != "image/png" || gotSource != "render.png" {
		t.Errorf("unexpected put options: content type %q, source %q", gotCT, gotSource)
	}
	if !bytes.Equal(gotBody, []byte("png-bytes")) {
		t.Errorf("body = %q", gotBody)
	}
}

func TestUpload_ExistingObjectIsNotRewritten(t *testing.T) {
	putCalled := false
	mock := &mockMinio{
		statObjectFn: func(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
			return minio.ObjectInfo{Key: key}, nil
		},
		putObjectFn: func(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			putCalled = true
			return minio.UploadInfo{}, nil
		},
	}
	u := &MinioUploader{client: mock, bucketName: "b"}

	res := u.Upload(context.Background(), newTask(writeImage(t, "x")))

	if !res.Succeeded() {
		t.Fatalf("expected success, got %+v", res)
	}
	if putCalled {
		t.Error("PutObject should not be called for a known hash")
	}
}

func TestUpload_Failures(t *testing.T) {
	tests := []struct {
		name        string
		statErr     error
		putErr      error
		wantOutcome model.Outcome
		wantStatus  int
		wantFailure model.Failure
	}{
		{
			name:        "put rejected by server",
			statErr:     notFound,
			putErr:      minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden},
			wantOutcome: model.OutcomeHTTPError,
			wantStatus:  http.StatusForbidden,
			wantFailure: model.FailureRemoteRejection,
		},
		{
			name:        "stat on missing bucket",
			statErr:     minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound},
			wantOutcome: model.OutcomeHTTPError,
			wantStatus:  http.StatusNotFound,
			wantFailure: model.FailureRemoteRejection,
		},
		{
			name:        "network failure",
			statErr:     notFound,
			putErr:      errors.New("dial tcp: connection refused"),
			wantOutcome: model.OutcomeTransportError,
			wantFailure: model.FailureTransport,
		},
		{
			name:        "deadline",
			statErr:     context.DeadlineExceeded,
			wantOutcome: model.OutcomeTransportError,
			wantFailure: model.FailureTimeout,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockMinio{
				statObjectFn: func(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
					return minio.ObjectInfo{}, tc.statErr
				},
				putObjectFn: func(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
					return minio.UploadInfo{}, tc.putErr
				},
			}
			u := &MinioUploader{client: mock, bucketName: "b"}

			res := u.Upload(context.Background(), newTask(writeImage(t, "x")))

			if res.Outcome != tc.wantOutcome || res.StatusCode != tc.wantStatus || res.Failure != tc.wantFailure {
				t.Errorf("got %s/%d/%s; want %s/%d/%s", res.Outcome, res.StatusCode, res.Failure, tc.wantOutcome, tc.wantStatus, tc.wantFailure)
			}
		})
	}
}

func TestUpload_MissingFile(t *testing.T) {
	u := &MinioUploader{client: &mockMinio{}, bucketName: "b"}

	res := u.Upload(context.Background(), newTask(filepath.Join(t.TempDir(), "nope.png")))

	if res.Failure != model.FailureFileVanished {
		t.Fatalf("expected file_vanished, got %+v", res)
	}
}

func TestMapMinioErr(t *testing.T) {
	cases := []struct {
		in   error
		want error
	}{
		{nil, nil},
		{minio.ErrorResponse{Code: "NoSuchKey"}, ErrObjectNotFound},
		{minio.ErrorResponse{Code: "NoSuchBucket"}, ErrBucketNotFound},
		{minio.ErrorResponse{Code: "SignatureDoesNotMatch"}, ErrUnauthorized},
		{errors.New("boom"), ErrInternal},
	}
	for _, tc := range cases {
		got := mapMinioErr(tc.in)
		if tc.want == nil {
			if got != nil {
				t.Errorf("mapMinioErr(nil) = %v", got)
			}
			continue
		}
		if !errors.Is(got, tc.want) {
			t.Errorf("mapMinioErr(%v) = %v; want %v", tc.in, got, tc.want)
		}
	}
}
