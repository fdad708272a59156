// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	organizationstore "github.com/dalemusser/campushub/internal/app/store/organizations"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"go.uber.org/zap"
)

// Sweeper is the part of the reminder scheduler a job needs.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// ReminderSweepJob runs one reminder sweep per interval.
func ReminderSweepJob(s Sweeper, logger *zap.Logger, interval time.Duration) Job {
	return Job{
		Name:     "event-reminder-sweep",
		Interval: interval,
		Run: func(ctx context.Context) error {
			n, err := s.Sweep(ctx, time.Now().UTC())
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("event reminders sent", zap.Int("count", n))
			}
			return nil
		},
	}
}

// MemberCountReconcileJob recomputes every organization's member counter
// from the users' follow sets, repairing drift from interrupted toggles.
func MemberCountReconcileJob(users *userstore.Store, orgs *organizationstore.Store, logger *zap.Logger, interval time.Duration) Job {
	return Job{
		Name:     "member-count-reconcile",
		Interval: interval,
		Run: func(ctx context.Context) error {
			counts, err := users.FollowerCounts(ctx)
			if err != nil {
				return err
			}
			fixed, err := orgs.SetMemberCounts(ctx, counts)
			if err != nil {
				return err
			}
			if fixed > 0 {
				logger.Warn("repaired organization member counters", zap.Int64("count", fixed))
			}
			return nil
		},
	}
}
