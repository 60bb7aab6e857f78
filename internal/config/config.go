package config

import (
	"fmt"
	"log"
	"runtime"
	"strings"
	"time"

	"github.com/fhuszti/eiv-uploader/internal/model"
	"github.com/fhuszti/eiv-uploader/internal/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendHTTP  = "http"
	BackendMinio = "minio"

	DefaultMinioBucket = "external-image-viewer"
)

// Settings is the uploader configuration. The json tags double as the env keys reported
// in validation errors.
type Settings struct {
	Endpoint        string               `json:"EIV_ENDPOINT" validate:"omitempty,url"`
	APIKey          string               `json:"EIV_APIKEY"`
	Workers         int                  `json:"EIV_WORKERS" validate:"gte=1"`
	RequestTimeout  time.Duration        `json:"EIV_TIMEOUT" validate:"gt=0"`
	QueueSize       int                  `json:"EIV_QUEUE_SIZE" validate:"gte=0"`
	Overflow        model.OverflowPolicy `json:"EIV_QUEUE_OVERFLOW" validate:"oneof=reject drop_oldest block"`
	Backend         string               `json:"EIV_BACKEND" validate:"oneof=http minio"`
	WatchDir        string               `json:"EIV_WATCH_DIR"`
	WatchExtensions []string             `json:"EIV_WATCH_EXT" validate:"min=1,dive,fileext"`
	SettleDelay     time.Duration        `json:"EIV_SETTLE_DELAY_MS" validate:"gte=0"`
	ShutdownTimeout time.Duration        `json:"EIV_SHUTDOWN_TIMEOUT" validate:"gt=0"`

	RedisAddr     string `json:"REDIS_ADDR"`
	RedisPassword string `json:"REDIS_PASSWORD"`

	MinioEndpoint  string `json:"MINIO_ENDPOINT" validate:"required_if=Backend minio"`
	MinioAccessKey string `json:"MINIO_ACCESS_KEY" validate:"required_if=Backend minio"`
	MinioSecretKey string `json:"MINIO_SECRET_KEY" validate:"required_if=Backend minio"`
	MinioUseSSL    bool   `json:"MINIO_USE_SSL"`
	MinioBucket    string `json:"MINIO_BUCKET"`
}

// UploadEnabled reports whether both the endpoint and the API key are configured.
// When false the upload feature stays entirely inactive.
func (s *Settings) UploadEnabled() bool {
	return s.Endpoint != "" && s.APIKey != ""
}

// Pool returns the worker pool configuration.
func (s *Settings) Pool() model.PoolConfig {
	return model.PoolConfig{
		Workers:        s.Workers,
		RequestTimeout: s.RequestTimeout,
		QueueSize:      s.QueueSize,
		Overflow:       s.Overflow,
	}
}

func newViper() *viper.Viper {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}
	return v
}

func Load() (*Settings, error) {
	v := newViper()

	v.SetDefault("EIV_WORKERS", runtime.NumCPU())
	v.SetDefault("EIV_TIMEOUT", int(model.DefaultRequestTimeout/time.Second))
	v.SetDefault("EIV_QUEUE_SIZE", 0)
	v.SetDefault("EIV_QUEUE_OVERFLOW", string(model.OverflowReject))
	v.SetDefault("EIV_BACKEND", BackendHTTP)
	v.SetDefault("EIV_WATCH_EXT", ".png")
	v.SetDefault("EIV_SETTLE_DELAY_MS", 500)
	v.SetDefault("EIV_SHUTDOWN_TIMEOUT", 30)
	v.SetDefault("MINIO_BUCKET", DefaultMinioBucket)

	s := &Settings{
		Endpoint:        strings.TrimRight(strings.TrimSpace(v.GetString("EIV_ENDPOINT")), "/"),
		APIKey:          strings.TrimSpace(v.GetString("EIV_APIKEY")),
		Workers:         v.GetInt("EIV_WORKERS"),
		RequestTimeout:  time.Duration(v.GetInt("EIV_TIMEOUT")) * time.Second,
		QueueSize:       v.GetInt("EIV_QUEUE_SIZE"),
		Overflow:        model.OverflowPolicy(strings.ToLower(v.GetString("EIV_QUEUE_OVERFLOW"))),
		Backend:         strings.ToLower(v.GetString("EIV_BACKEND")),
		WatchDir:        v.GetString("EIV_WATCH_DIR"),
		WatchExtensions: normalizeExtensions(v.GetString("EIV_WATCH_EXT")),
		SettleDelay:     time.Duration(v.GetInt("EIV_SETTLE_DELAY_MS")) * time.Millisecond,
		ShutdownTimeout: time.Duration(v.GetInt("EIV_SHUTDOWN_TIMEOUT")) * time.Second,
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		MinioEndpoint:   v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:  v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:  v.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:     v.GetBool("MINIO_USE_SSL"),
		MinioBucket:     v.GetString("MINIO_BUCKET"),
	}

	if err := validation.ValidateStruct(s); err != nil {
		errsJSON, jErr := validation.ErrorsToJson(err)
		if jErr != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		return nil, fmt.Errorf("invalid configuration: %s", errsJSON)
	}

	return s, nil
}

// normalizeExtensions turns "png, .JPG" into [".png", ".jpg"], dropping duplicates.
func normalizeExtensions(raw string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 2)
	for _, ext := range strings.Split(raw, ",") {
		e := strings.ToLower(strings.TrimSpace(ext))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
