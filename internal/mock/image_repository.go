package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/eiv-uploader/internal/model"
)

// ImageRepository implements port.ImageRepository in memory.
type ImageRepository struct {
	mu sync.Mutex

	Saved   []model.ImageRecord
	ExistsV bool

	ExistsErr error
	SaveErr   error
	ListErr   error
	ListOut   model.ImagePage

	ListBucket string
	ListPage   int
	ListLimit  int
}

func (m *ImageRepository) Exists(ctx context.Context, hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	if m.ExistsV {
		return true, nil
	}
	for _, r := range m.Saved {
		if r.Hash == hash {
			return true, nil
		}
	}
	return false, nil
}

func (m *ImageRepository) Save(ctx context.Context, rec model.ImageRecord, raw, thumb []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, rec)
	return nil
}

func (m *ImageRepository) List(ctx context.Context, bucket string, page, limit int) (model.ImagePage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListBucket, m.ListPage, m.ListLimit = bucket, page, limit
	return m.ListOut, m.ListErr
}

// Thumbnailer implements port.Thumbnailer.
type Thumbnailer struct {
	Out    []byte
	Err    error
	Called bool
}

func (m *Thumbnailer) Make(data []byte) ([]byte, error) {
	m.Called = true
	return m.Out, m.Err
}
