package stats

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/uuid"
	"github.com/redis/go-redis/v9"
)

func makeTestStats(t *testing.T) (*RedisStats, *miniredis.Miniredis) {
	t.Helper()
	// spin up in-memory Redis
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{
		Addr:     mr.Addr(),
		Password: "",
		DB:       0,
	})
	return &RedisStats{client: rdb}, mr
}

func task(path string) model.UploadTask {
	return model.UploadTask{ID: uuid.NewUUID(), FilePath: path}
}

func TestRecordResult_Counters(t *testing.T) {
	s, mr := makeTestStats(t)
	ctx := context.Background()

	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	results := []model.UploadResult{
		model.Success(task("/a.png"), http.StatusOK, 0),
		model.Success(task("/b.png"), http.StatusOK, 0),
		model.HTTPError(task("/c.png"), http.StatusBadRequest, 0),
		model.TransportError(task("/d.png"), model.FailureFileVanished, errors.New("gone"), 0),
	}
	for _, r := range results {
		if err := s.RecordResult(ctx, r); err != nil {
			t.Fatalf("RecordResult: %v", err)
		}
	}

	if got := mr.HGet(totalsKey, string(model.OutcomeSuccess)); got != "2" {
		t.Errorf("success counter = %q; want 2", got)
	}

	totals, err := s.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	want := map[model.Outcome]int64{
		model.OutcomeSuccess:        2,
		model.OutcomeHTTPError:      1,
		model.OutcomeTransportError: 1,
	}
	for k, v := range want {
		if totals[k] != v {
			t.Errorf("totals[%s] = %d; want %d", k, totals[k], v)
		}
	}
}

func TestLastFailure(t *testing.T) {
	s, _ := makeTestStats(t)
	ctx := context.Background()

	rec, err := s.LastFailure(ctx)
	if err != nil || rec != nil {
		t.Fatalf("expected no failure yet, got %+v, %v", rec, err)
	}

	_ = s.RecordResult(ctx, model.HTTPError(task("/first.png"), http.StatusInternalServerError, 0))
	last := task("/second.png")
	_ = s.RecordResult(ctx, model.TransportError(last, model.FailureTimeout, errors.New("deadline"), 0))
	_ = s.RecordResult(ctx, model.Success(task("/ok.png"), http.StatusOK, 0))

	rec, err = s.LastFailure(ctx)
	if err != nil {
		t.Fatalf("LastFailure: %v", err)
	}
	if rec == nil || rec.FilePath != "/second.png" || rec.TaskID != last.ID.String() {
		t.Fatalf("unexpected last failure %+v", rec)
	}
	if rec.Outcome != string(model.OutcomeTransportError) || rec.Reason != "timeout: deadline" {
		t.Errorf("unexpected classification %+v", rec)
	}
}

func TestRecordResult_RedisDown(t *testing.T) {
	s, mr := makeTestStats(t)
	mr.Close()

	if err := s.RecordResult(context.Background(), model.Success(task("/a.png"), http.StatusOK, 0)); err == nil {
		t.Fatal("expected error with redis down")
	}
	if _, err := s.Totals(context.Background()); err == nil {
		t.Fatal("expected error with redis down")
	}
}

func TestTotals_CorruptCounter(t *testing.T) {
	s, mr := makeTestStats(t)
	mr.HSet(totalsKey, "success", "many")

	if _, err := s.Totals(context.Background()); err == nil {
		t.Fatal("expected error for a non numeric counter")
	}
}

func TestNoop(t *testing.T) {
	n := NewNoop()
	if err := n.RecordResult(context.Background(), model.UploadResult{}); err != nil {
		t.Fatalf("RecordResult: %v", err)
	}
	totals, err := n.Totals(context.Background())
	if err != nil || len(totals) != 0 {
		t.Fatalf("expected empty totals, got %v, %v", totals, err)
	}
}
