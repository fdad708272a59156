// Package reminders sends SYSTEM notifications to event subscribers
// shortly before the event starts.
package reminders

import (
	"context"
	"time"

	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	subscriptionstore "github.com/dalemusser/campushub/internal/app/store/subscriptions"
	"github.com/dalemusser/campushub/internal/app/system/fanout"
	"github.com/dalemusser/campushub/internal/app/system/lease"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	DefaultLead     = time.Hour
	DefaultInterval = time.Minute

	leaseKey = "reminder-sweep"
)

// Config sets the lookahead window. Lead is how far ahead events are
// caught; Interval is the sweep period and the width of the window.
type Config struct {
	Lead     time.Duration
	Interval time.Duration
}

// Sweeper finds events entering the reminder window and notifies their
// subscribers at most once.
type Sweeper struct {
	events *eventstore.Store
	subs   *subscriptionstore.Store
	engine *fanout.Engine
	lease  lease.Lease
	log    *zap.Logger
	cfg    Config
}

// New builds a Sweeper. A nil lease falls back to an in-process one.
func New(db *mongo.Database, engine *fanout.Engine, l lease.Lease, logger *zap.Logger, cfg Config) *Sweeper {
	if cfg.Lead <= 0 {
		cfg.Lead = DefaultLead
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if l == nil {
		l = lease.NewLocal()
	}
	return &Sweeper{
		events: eventstore.New(db),
		subs:   subscriptionstore.New(db),
		engine: engine,
		lease:  l,
		log:    logger,
		cfg:    cfg,
	}
}

// Window returns [now+lead, now+lead+interval).
func (s *Sweeper) Window(now time.Time) (from, to time.Time) {
	from = now.Add(s.cfg.Lead)
	return from, from.Add(s.cfg.Interval)
}

// Sweep runs one pass and returns the number of reminders written. When
// another sweep holds the lease it returns 0 without doing anything. A
// failure on one event is logged and does not stop the others.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (int, error) {
	release, ok, err := s.lease.Acquire(ctx, leaseKey, timeouts.Sweep())
	if err != nil {
		return 0, err
	}
	if !ok {
		s.log.Debug("reminder sweep skipped: another sweep is running")
		return 0, nil
	}
	defer release()

	from, to := s.Window(now)
	events, err := s.events.StartingBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, ev := range events {
		n, err := s.remind(ctx, ev, now)
		if err != nil {
			s.log.Error("event reminder failed",
				zap.String("event_id", ev.ID.Hex()),
				zap.Error(err))
			continue
		}
		total += n
	}
	if total > 0 {
		s.log.Info("reminders sent",
			zap.Int("events", len(events)),
			zap.Int("notifications", total))
	}
	return total, nil
}

// remind claims the event's unnotified subscribers, then notifies exactly
// the claimed set. A crash after the claim loses those reminders; it never
// repeats them.
func (s *Sweeper) remind(ctx context.Context, ev models.EventPost, now time.Time) (int, error) {
	token := uuid.NewString()
	claimed, err := s.subs.Claim(ctx, ev.ID, token, now)
	if err != nil {
		return 0, err
	}
	if claimed == 0 {
		return 0, nil
	}

	subs, err := s.subs.Claimed(ctx, ev.ID, token)
	if err != nil {
		s.log.Error("claimed reminders not delivered",
			zap.String("event_id", ev.ID.Hex()),
			zap.Int64("claimed", claimed))
		return 0, err
	}
	n, err := s.engine.RemindSubscribers(ctx, ev, subs)
	if err != nil {
		s.log.Error("claimed reminders partially delivered",
			zap.String("event_id", ev.ID.Hex()),
			zap.Int("claimed", len(subs)),
			zap.Int("written", n))
		return n, err
	}
	return n, nil
}
