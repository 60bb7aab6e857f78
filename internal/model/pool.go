package model

import (
	"fmt"
	"runtime"
	"time"
)

const DefaultRequestTimeout = 60 * time.Second

// OverflowPolicy decides what a bounded queue does when it is full.
type OverflowPolicy string

const (
	OverflowReject     OverflowPolicy = "reject"
	OverflowDropOldest OverflowPolicy = "drop_oldest"
	OverflowBlock      OverflowPolicy = "block"
)

func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch p := OverflowPolicy(s); p {
	case OverflowReject, OverflowDropOldest, OverflowBlock:
		return p, nil
	case "":
		return OverflowReject, nil
	default:
		return "", fmt.Errorf("unknown overflow policy %q", s)
	}
}

// PoolConfig is fixed when the dispatcher is built.
// QueueSize 0 means the queue is unbounded and Overflow is ignored.
type PoolConfig struct {
	Workers        int            `validate:"gte=1"`
	RequestTimeout time.Duration  `validate:"gt=0"`
	QueueSize      int            `validate:"gte=0"`
	Overflow       OverflowPolicy `validate:"omitempty,oneof=reject drop_oldest block"`
}

// DefaultPoolConfig sizes the pool after the host's processing units.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		Workers:        runtime.NumCPU(),
		RequestTimeout: DefaultRequestTimeout,
		Overflow:       OverflowReject,
	}
}

// PoolStats is a point-in-time snapshot of the dispatcher counters.
type PoolStats struct {
	Queued    int
	Running   int
	Completed int64
	Failed    int64
	Dropped   int64
}
