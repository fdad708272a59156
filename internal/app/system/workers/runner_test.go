package workers_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/tasks"
	"github.com/dalemusser/campushub/internal/app/system/workers"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRunner_RunsAndStops(t *testing.T) {
	var runs int32
	job := tasks.Job{
		Name:     "counter",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) error {
			atomic.AddInt32(&runs, 1)
			return nil
		},
	}

	r := workers.NewRunner(zap.NewNop(), job)
	r.Start()
	time.Sleep(60 * time.Millisecond)
	r.Stop()

	after := atomic.LoadInt32(&runs)
	assert.Greater(t, after, int32(1))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&runs), "no runs after Stop")

	r.Stop() // second Stop is a no-op
}

func TestRunner_RunOnce_RecoversPanic(t *testing.T) {
	r := workers.NewRunner(zap.NewNop())
	assert.NotPanics(t, func() {
		r.RunOnce(tasks.Job{
			Name: "boom",
			Run:  func(ctx context.Context) error { panic("boom") },
		})
	})
}

func TestRunner_SkipsInvalidJobs(t *testing.T) {
	var runs int32
	r := workers.NewRunner(zap.NewNop(), tasks.Job{
		Name: "no-interval",
		Run: func(ctx context.Context) error {
			atomic.AddInt32(&runs, 1)
			return nil
		},
	})
	r.Start()
	time.Sleep(10 * time.Millisecond)
	r.Stop()
	assert.Zero(t, atomic.LoadInt32(&runs))
}
