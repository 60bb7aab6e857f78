package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/fhuszti/eiv-uploader/internal/api_context"
	"github.com/fhuszti/eiv-uploader/internal/uuid"
)

func initBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() {
		std = nil
		slog.SetDefault(prev)
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
	})

	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")
	buf := &bytes.Buffer{}
	InitWithWriter(buf)
	return buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestInit_AddsTaskIDAndService(t *testing.T) {
	buf := initBuffer(t)

	id := uuid.NewUUID()
	Infof(api_context.WithTaskID(context.Background(), id), "uploading %s", "a.png")
	Warn(context.Background(), "no task")

	lines := decodeLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %s", len(lines), buf.String())
	}
	if lines[0]["msg"] != "uploading a.png" {
		t.Errorf("msg = %v; want %q", lines[0]["msg"], "uploading a.png")
	}
	if lines[0]["task_id"] != id.String() {
		t.Errorf("task_id = %v; want %s", lines[0]["task_id"], id)
	}
	if lines[0]["svc"] != "eiv-uploader" {
		t.Errorf("svc = %v; want eiv-uploader", lines[0]["svc"])
	}
	if lines[1]["task_id"] != "system" || lines[1]["level"] != "WARN" {
		t.Errorf("unexpected second line: %v", lines[1])
	}
}

func TestInit_LevelFilter(t *testing.T) {
	buf := initBuffer(t)
	t.Setenv("LOG_LEVEL", "error")
	InitWithWriter(buf)

	Info(context.Background(), "hidden")
	Debugf(context.Background(), "hidden %d", 1)
	Errorf(context.Background(), "shown %d", 2)

	lines := decodeLines(t, buf)
	if len(lines) != 1 || lines[0]["msg"] != "shown 2" {
		t.Fatalf("expected only the error line, got %s", buf.String())
	}
}

func TestSink_Prefix(t *testing.T) {
	buf := initBuffer(t)

	s := New("[External Image Viewer] ")
	s.Infof(context.Background(), "Upload successful: %s", "a.png")
	s.Warnf(context.Background(), "Upload failed: %s", "b.png")
	s.Errorf(context.Background(), "Fatal error, upload failed: %v", "boom")

	lines := decodeLines(t, buf)
	want := []struct{ level, msg string }{
		{"INFO", "[External Image Viewer] Upload successful: a.png"},
		{"WARN", "[External Image Viewer] Upload failed: b.png"},
		{"ERROR", "[External Image Viewer] Fatal error, upload failed: boom"},
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i, w := range want {
		if lines[i]["level"] != w.level || lines[i]["msg"] != w.msg {
			t.Errorf("line %d = %v; want level %s msg %q", i, lines[i], w.level, w.msg)
		}
	}
}

func TestNoop_DoesNotWrite(t *testing.T) {
	buf := initBuffer(t)

	n := NewNoop()
	n.Infof(context.Background(), "x")
	n.Warnf(context.Background(), "x")
	n.Errorf(context.Background(), "x")

	if buf.Len() != 0 {
		t.Errorf("noop logger wrote %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in).Level(); got != want {
			t.Errorf("parseLevel(%q) = %v; want %v", in, got, want)
		}
	}
}
