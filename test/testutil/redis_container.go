package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	"github.com/fhuszti/eiv-uploader/internal/logger"
)

// RedisContainerInfo describes a password-protected Redis, matching how the uploader is
// configured through REDIS_ADDR and REDIS_PASSWORD.
type RedisContainerInfo struct {
	Addr     string
	Password string
	Cleanup  func()
}

func StartRedisContainer() (*RedisContainerInfo, error) {
	const (
		image        = "redis"
		tag          = "7-alpine"
		password     = "eiv-test"
		internalPort = "6379/tcp"
	)

	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not connect to docker: %w", err)
	}
	pool.MaxWait = 30 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: image,
		Tag:        tag,
		Cmd:        []string{"redis-server", "--requirepass", password, "--save", "", "--appendonly", "no"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start redis container: %w", err)
	}
	_ = resource.Expire(120)

	addr := fmt.Sprintf("localhost:%s", resource.GetPort(internalPort))
	if err := pool.Retry(func() error {
		return PingRedis(addr, password)
	}); err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("redis did not become ready: %w", err)
	}
	logger.Infof(context.Background(), "✅  Redis test container ready on %s", addr)

	return &RedisContainerInfo{
		Addr:     addr,
		Password: password,
		Cleanup: func() {
			if err := pool.Purge(resource); err != nil {
				logger.Warnf(context.Background(), "could not purge redis container: %s", err)
			}
		},
	}, nil
}

// PingRedis checks that addr answers with the given password.
func PingRedis(addr, password string) error {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return rdb.Ping(ctx).Err()
}
