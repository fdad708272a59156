// Package timeouts holds the deadlines used around database and network
// I/O. Values start at the defaults below and are replaced once at startup
// from configuration (timeout_* keys) through Configure.
//
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads and toggles
//   - Medium: list queries, moderate writes, multi-step reads
//   - Long: writes touching several collections, schema setup
//   - Batch: cascades and bulk writes (organization delete, seeding)
//   - Sweep: one run of a background job, and the reminder lease TTL
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
	DefaultBatch  = 60 * time.Second
	DefaultSweep  = 45 * time.Second
)

// Config is a full set of timeouts. Zero fields mean "keep the current value".
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Batch  time.Duration
	Sweep  time.Duration
}

// Defaults returns the built-in values.
func Defaults() Config {
	return Config{
		Ping:   DefaultPing,
		Short:  DefaultShort,
		Medium: DefaultMedium,
		Long:   DefaultLong,
		Batch:  DefaultBatch,
		Sweep:  DefaultSweep,
	}
}

var (
	mu  sync.RWMutex
	cur = Defaults()
)

// merge returns base with every positive field of over applied.
func merge(base, over Config) Config {
	pick := func(b, o time.Duration) time.Duration {
		if o > 0 {
			return o
		}
		return b
	}
	return Config{
		Ping:   pick(base.Ping, over.Ping),
		Short:  pick(base.Short, over.Short),
		Medium: pick(base.Medium, over.Medium),
		Long:   pick(base.Long, over.Long),
		Batch:  pick(base.Batch, over.Batch),
		Sweep:  pick(base.Sweep, over.Sweep),
	}
}

// Configure applies the positive fields of cfg and returns the resulting
// set, so callers can log what is in effect.
func Configure(cfg Config) Config {
	mu.Lock()
	defer mu.Unlock()
	cur = merge(cur, cfg)
	return cur
}

// Current returns the timeouts in effect.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// Ping bounds health checks and connection verification.
func Ping() time.Duration { return Current().Ping }

// Short bounds single-document reads and toggles.
func Short() time.Duration { return Current().Short }

// Medium bounds list queries and moderate writes.
func Medium() time.Duration { return Current().Medium }

// Long bounds multi-collection writes.
func Long() time.Duration { return Current().Long }

// Batch bounds cascades and bulk writes.
func Batch() time.Duration { return Current().Batch }

// Sweep bounds one background job run. Keep it below the reminder interval
// so runs never overlap on one instance.
func Sweep() time.Duration { return Current().Sweep }

// WithTimeout creates a context with timeout and returns a cancel function that
// logs a warning if the context was canceled due to deadline exceeded.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "organization delete")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
