// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/campushub/internal/app/store/audit"
	organizationstore "github.com/dalemusser/campushub/internal/app/store/organizations"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/fanout"
	"github.com/dalemusser/campushub/internal/app/system/lease"
	"github.com/dalemusser/campushub/internal/app/system/ratelimit"
	"github.com/dalemusser/campushub/internal/app/system/reminders"
	"github.com/dalemusser/campushub/internal/app/system/tasks"
	"github.com/dalemusser/campushub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Services are the long-lived components built at startup and shared by
// the handlers. Shutdown stops them.
type Services struct {
	Engine  *fanout.Engine
	Audit   *auditlog.Logger
	Runner  *workers.Runner
	Limiter *ratelimit.Limiter // nil when rate limiting is off
}

// Startup builds the fan-out engine, the audit logger and the background
// job runner, then starts the engine workers and the jobs.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Services == nil {
		return errMissingServices
	}
	svc := deps.Services
	db := deps.MongoDatabase

	svc.Engine = fanout.New(db, logger.Named("fanout"), fanout.Config{
		Workers:   appCfg.FanoutWorkers,
		QueueSize: appCfg.FanoutQueueSize,
	})
	svc.Engine.Start()

	svc.Audit = auditlog.New(audit.New(db), logger.Named("audit"), auditlog.Config{
		Moderation: appCfg.AuditLogAdmin,
		Content:    appCfg.AuditLogAdmin,
	})

	if appCfg.RateLimitPerMinute > 0 {
		svc.Limiter = ratelimit.New(appCfg.RateLimitPerMinute)
	}

	sweeper := reminders.New(db, svc.Engine, sweepLease(deps, logger), logger.Named("reminders"), reminders.Config{
		Lead:     appCfg.ReminderLead,
		Interval: appCfg.ReminderInterval,
	})

	svc.Runner = workers.NewRunner(logger.Named("jobs"),
		tasks.ReminderSweepJob(sweeper, logger, appCfg.ReminderInterval),
		tasks.MemberCountReconcileJob(userstore.New(db), organizationstore.New(db), logger, appCfg.MemberReconcileInterval),
	)
	svc.Runner.Start()

	logger.Info("campushub services started",
		zap.Int("fanout_workers", appCfg.FanoutWorkers),
		zap.Bool("redis_lease", deps.Redis != nil),
		zap.Duration("reminder_lead", appCfg.ReminderLead))
	return nil
}

// sweepLease guards each sweep in-process, and across instances when Redis
// is configured.
func sweepLease(deps DBDeps, logger *zap.Logger) lease.Lease {
	if deps.Redis == nil {
		return lease.NewLocal()
	}
	return lease.Chain{lease.NewLocal(), lease.NewRedis(deps.Redis, "campushub:lease:", logger)}
}
