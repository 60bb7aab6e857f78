package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fhuszti/eiv-uploader/internal/model"
)

// ReceiverSettings configures the development receiver in cmd/receiver.
type ReceiverSettings struct {
	ServerPort    int
	DataDir       string
	ThumbHeight   int
	ListLimit     int
	MaxImageBytes int64

	// Tokens maps a bearer token to the bucket it writes into.
	Tokens map[string]string
}

func LoadReceiver() (*ReceiverSettings, error) {
	v := newViper()

	v.SetDefault("RECEIVER_PORT", 8080)
	v.SetDefault("RECEIVER_DATA_DIR", "data")
	v.SetDefault("RECEIVER_THUMB_HEIGHT", 512)
	v.SetDefault("RECEIVER_LIST_LIMIT", 50)
	v.SetDefault("RECEIVER_MAX_IMAGE_MB", 64)

	if !v.IsSet("RECEIVER_TOKENS") || strings.TrimSpace(v.GetString("RECEIVER_TOKENS")) == "" {
		return nil, fmt.Errorf("RECEIVER_TOKENS is required")
	}
	tokens, err := ParseTokens(v.GetString("RECEIVER_TOKENS"))
	if err != nil {
		return nil, err
	}

	port := v.GetInt("RECEIVER_PORT")
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("RECEIVER_PORT must be a valid TCP port, got %q", v.GetString("RECEIVER_PORT"))
	}

	thumbHeight := v.GetInt("RECEIVER_THUMB_HEIGHT")
	if thumbHeight <= 0 {
		return nil, fmt.Errorf("RECEIVER_THUMB_HEIGHT must be positive, got %q", v.GetString("RECEIVER_THUMB_HEIGHT"))
	}
	listLimit := v.GetInt("RECEIVER_LIST_LIMIT")
	if listLimit <= 0 {
		return nil, fmt.Errorf("RECEIVER_LIST_LIMIT must be positive, got %q", v.GetString("RECEIVER_LIST_LIMIT"))
	}
	maxMB := v.GetInt64("RECEIVER_MAX_IMAGE_MB")
	if maxMB <= 0 {
		return nil, fmt.Errorf("RECEIVER_MAX_IMAGE_MB must be positive, got %q", v.GetString("RECEIVER_MAX_IMAGE_MB"))
	}

	return &ReceiverSettings{
		ServerPort:    port,
		DataDir:       v.GetString("RECEIVER_DATA_DIR"),
		ThumbHeight:   thumbHeight,
		ListLimit:     listLimit,
		MaxImageBytes: maxMB << 20,
		Tokens:        tokens,
	}, nil
}

// Buckets lists every bucket a token can write into, sorted by name.
func (s *ReceiverSettings) Buckets() []model.Bucket {
	seen := make(map[string]struct{}, len(s.Tokens))
	out := make([]model.Bucket, 0, len(s.Tokens))
	for _, b := range s.Tokens {
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, model.Bucket{ID: b, Title: b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ParseTokens reads "bucket=token,other=token2" into a token to bucket map.
func ParseTokens(raw string) (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		bucket, token, ok := strings.Cut(pair, "=")
		bucket, token = strings.TrimSpace(bucket), strings.TrimSpace(token)
		if !ok || bucket == "" || token == "" {
			return nil, fmt.Errorf("RECEIVER_TOKENS: malformed entry %q, want bucket=token", pair)
		}
		if _, dup := out[token]; dup {
			return nil, fmt.Errorf("RECEIVER_TOKENS: token for bucket %q is already in use", bucket)
		}
		out[token] = bucket
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("RECEIVER_TOKENS is required")
	}
	return out, nil
}
