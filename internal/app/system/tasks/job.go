// internal/app/system/tasks/job.go
package tasks

import (
	"context"
	"time"
)

// Job is a named unit of recurring background work. Run receives a
// context bounded by the runner's per-run timeout.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}
