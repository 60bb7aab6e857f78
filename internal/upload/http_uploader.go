package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/port"
)

const (
	ContentType = "image/png"
	imagesPath  = "api/images"
)

// HTTPUploader posts raw image bytes to the viewer endpoint in a single attempt.
type HTTPUploader struct {
	client  *http.Client
	apiKey  string
	timeout time.Duration
}

// compile-time check: *HTTPUploader must satisfy port.Uploader
var _ port.Uploader = (*HTTPUploader)(nil)

// NewHTTPUploader builds an uploader whose requests are bounded by timeout.
func NewHTTPUploader(apiKey string, timeout time.Duration) *HTTPUploader {
	if timeout <= 0 {
		timeout = model.DefaultRequestTimeout
	}
	return &HTTPUploader{
		client:  &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		timeout: timeout,
	}
}

// ImagesURL returns the upload route of the viewer at endpoint.
func ImagesURL(endpoint string) (string, error) {
	u, err := url.JoinPath(endpoint, imagesPath)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	return u, nil
}

func (u *HTTPUploader) Upload(ctx context.Context, t model.UploadTask) model.UploadResult {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return model.TransportError(t, Classify(err), err, time.Since(start))
	}

	data, err := os.ReadFile(t.FilePath)
	if err != nil {
		return model.TransportError(t, ClassifyRead(err), fmt.Errorf("read %s: %w", t.FilePath, err), time.Since(start))
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.DestinationURL, bytes.NewReader(data))
	if err != nil {
		return model.TransportError(t, model.FailureTransport, fmt.Errorf("build request: %w", err), time.Since(start))
	}
	req.Header.Set("Content-Type", ContentType)
	req.Header.Set("Authorization", "Bearer "+u.apiKey)

	resp, err := u.client.Do(req)
	if err != nil {
		return model.TransportError(t, Classify(err), err, time.Since(start))
	}
	defer resp.Body.Close()
	// body is ignored; draining lets the connection be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return model.HTTPError(t, resp.StatusCode, time.Since(start))
	}
	return model.Success(t, resp.StatusCode, time.Since(start))
}
