package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fhuszti/eiv-uploader/internal/logger"
	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/port"
)

const (
	rawDir    = "raw"
	thumbsDir = "thumbs"
	imagesDir = "images"
)

// ImageRepository lays images out under root:
//
//	raw/<hash>.png
//	thumbs/<hash>.webp
//	images/<bucket>/<hash>.json
type ImageRepository struct {
	root string
	mu   sync.Mutex
}

// compile-time check: *ImageRepository must satisfy port.ImageRepository
var _ port.ImageRepository = (*ImageRepository)(nil)

func NewImageRepository(root string) (*ImageRepository, error) {
	for _, dir := range []string{rawDir, thumbsDir, imagesDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create %s directory: %w", dir, err)
		}
	}
	return &ImageRepository{root: root}, nil
}

func (r *ImageRepository) rawPath(hash string) string {
	return filepath.Join(r.root, rawDir, hash+".png")
}

func (r *ImageRepository) thumbPath(hash string) string {
	return filepath.Join(r.root, thumbsDir, hash+".webp")
}

func (r *ImageRepository) recordPath(bucket, hash string) string {
	return filepath.Join(r.root, imagesDir, bucket, hash+".json")
}

func (r *ImageRepository) Exists(ctx context.Context, hash string) (bool, error) {
	_, err := os.Stat(r.rawPath(hash))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (r *ImageRepository) Save(ctx context.Context, rec model.ImageRecord, raw, thumb []byte) error {
	logger.Debugf(ctx, "storing image %s for bucket %q...", rec.Hash, rec.Bucket)

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.rawPath(rec.Hash), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return model.ErrImageExists
		}
		return fmt.Errorf("create raw image: %w", err)
	}
	if _, err := f.Write(raw); err != nil {
		_ = f.Close()
		r.discard(rec)
		return fmt.Errorf("write raw image: %w", err)
	}
	if err := f.Close(); err != nil {
		r.discard(rec)
		return fmt.Errorf("close raw image: %w", err)
	}

	if err := writeFileAtomic(r.thumbPath(rec.Hash), thumb); err != nil {
		r.discard(rec)
		return fmt.Errorf("write thumbnail: %w", err)
	}

	body, err := json.Marshal(rec)
	if err != nil {
		r.discard(rec)
		return fmt.Errorf("encode record: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.recordPath(rec.Bucket, rec.Hash)), 0o755); err != nil {
		r.discard(rec)
		return fmt.Errorf("create bucket directory: %w", err)
	}
	if err := writeFileAtomic(r.recordPath(rec.Bucket, rec.Hash), body); err != nil {
		r.discard(rec)
		return fmt.Errorf("write record: %w", err)
	}

	return nil
}

// discard removes whatever a failed Save left behind so the hash can be uploaded again.
func (r *ImageRepository) discard(rec model.ImageRecord) {
	_ = os.Remove(r.rawPath(rec.Hash))
	_ = os.Remove(r.thumbPath(rec.Hash))
	_ = os.Remove(r.recordPath(rec.Bucket, rec.Hash))
}

// List returns the records of bucket, oldest first. Pages start at 0.
func (r *ImageRepository) List(ctx context.Context, bucket string, page, limit int) (model.ImagePage, error) {
	out := model.ImagePage{Images: []model.ImageRecord{}}
	if page < 0 || limit <= 0 {
		return out, fmt.Errorf("invalid page %d with limit %d", page, limit)
	}

	entries, err := os.ReadDir(filepath.Join(r.root, imagesDir, bucket))
	if errors.Is(err, fs.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("read bucket %q: %w", bucket, err)
	}

	records := make([]model.ImageRecord, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		body, err := os.ReadFile(filepath.Join(r.root, imagesDir, bucket, e.Name()))
		if err != nil {
			return out, fmt.Errorf("read record %s: %w", e.Name(), err)
		}
		var rec model.ImageRecord
		if err := json.Unmarshal(body, &rec); err != nil {
			logger.Warnf(ctx, "⚠️  Skipping unreadable record %s: %v", e.Name(), err)
			continue
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].Hash < records[j].Hash
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	out.Total = len(records)
	// compare before multiplying so huge page numbers cannot wrap around
	if len(records) == 0 || page > (len(records)-1)/limit {
		return out, nil
	}
	start := page * limit
	out.Images = records[start : start+min(limit, len(records)-start)]
	return out, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
