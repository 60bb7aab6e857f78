package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/port"
	"github.com/redis/go-redis/v9"
)

const (
	totalsKey      = "eiv:uploads"
	lastFailureKey = "eiv:uploads:last_failure"
)

// FailureRecord is the last failed upload, as stored in Redis.
type FailureRecord struct {
	TaskID     string    `json:"task_id"`
	FilePath   string    `json:"file_path"`
	Outcome    string    `json:"outcome"`
	StatusCode int       `json:"status_code,omitempty"`
	Reason     string    `json:"reason"`
	At         time.Time `json:"at"`
}

type RedisStats struct {
	client *redis.Client
}

// compile-time check: *RedisStats must satisfy port.UploadStats
var _ port.UploadStats = (*RedisStats)(nil)

func NewRedisStats(addr, password string) *RedisStats {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &RedisStats{client: rdb}
}

func (s *RedisStats) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *RedisStats) Close() error {
	return s.client.Close()
}

func (s *RedisStats) RecordResult(ctx context.Context, res model.UploadResult) error {
	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, totalsKey, string(res.Outcome), 1)

	if !res.Succeeded() {
		data, err := json.Marshal(FailureRecord{
			TaskID:     res.TaskID.String(),
			FilePath:   res.FilePath,
			Outcome:    string(res.Outcome),
			StatusCode: res.StatusCode,
			Reason:     res.Reason(),
			At:         time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		pipe.Set(ctx, lastFailureKey, data, 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis exec failed: %w", err)
	}
	return nil
}

func (s *RedisStats) Totals(ctx context.Context) (map[model.Outcome]int64, error) {
	raw, err := s.client.HGetAll(ctx, totalsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	out := make(map[model.Outcome]int64, len(raw))
	for k, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("counter %q is not a number: %w", k, err)
		}
		out[model.Outcome(k)] = n
	}
	return out, nil
}

// LastFailure returns the most recent failure, or nil when none was recorded.
func (s *RedisStats) LastFailure(ctx context.Context) (*FailureRecord, error) {
	val, err := s.client.Get(ctx, lastFailureKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var rec FailureRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal failed: %w", err)
	}
	return &rec, nil
}
