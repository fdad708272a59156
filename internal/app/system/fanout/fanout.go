// Package fanout turns one triggering action into per-recipient
// notifications. Triggering requests hand work to the Engine's queue and
// never wait for it.
package fanout

import (
	"context"
	"sync"
	"time"

	notificationstore "github.com/dalemusser/campushub/internal/app/store/notifications"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Config sizes the worker pool.
type Config struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
}

const (
	defaultWorkers     = 4
	defaultQueueSize   = 1024
	defaultTaskTimeout = 30 * time.Second
)

// Task is one unit of queued fan-out work.
type Task struct {
	ID   string
	Name string
	Run  func(ctx context.Context) error
}

// OrgBroadcast announces new content to an organization's followers.
type OrgBroadcast struct {
	ActorID primitive.ObjectID
	OrgID   primitive.ObjectID
	Ref     models.ContentRef
	Message string
}

// Direct addresses a single user.
type Direct struct {
	SenderID    primitive.ObjectID
	RecipientID primitive.ObjectID
	OrgID       *primitive.ObjectID
	Ref         models.ContentRef
	Message     string
}

// Engine writes notifications and runs queued fan-out tasks.
type Engine struct {
	users *userstore.Store
	notes *notificationstore.Store
	log   *zap.Logger
	cfg   Config

	mu     sync.RWMutex
	queue  chan Task
	closed bool
	wg     sync.WaitGroup
}

// New creates an engine over db. Call Start before submitting work. A nil
// db yields an engine that can only run submitted tasks.
func New(db *mongo.Database, logger *zap.Logger, cfg Config) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = defaultTaskTimeout
	}
	e := &Engine{
		log:   logger,
		cfg:   cfg,
		queue: make(chan Task, cfg.QueueSize),
	}
	if db != nil {
		e.users = userstore.New(db)
		e.notes = notificationstore.New(db)
	}
	return e
}

// Start launches the workers.
func (e *Engine) Start() {
	for i := 0; i < e.cfg.Workers; i++ {
		e.wg.Add(1)
		go e.worker()
	}
	e.log.Info("fan-out engine started",
		zap.Int("workers", e.cfg.Workers),
		zap.Int("queue_size", e.cfg.QueueSize))
}

// Stop refuses new work, lets workers drain the queue, and waits for them
// or for ctx to end.
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.queue)
	}
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.log.Info("fan-out engine stopped")
		return nil
	case <-ctx.Done():
		e.log.Warn("fan-out engine stop timed out", zap.Int("pending", len(e.queue)))
		return ctx.Err()
	}
}

// Submit enqueues t without blocking. A full or stopped queue drops the
// task with a log line; the caller is never told.
func (e *Engine) Submit(t Task) string {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		e.log.Warn("fan-out task dropped: engine stopped",
			zap.String("task_id", t.ID), zap.String("task", t.Name))
		return t.ID
	}
	select {
	case e.queue <- t:
	default:
		e.log.Error("fan-out task dropped: queue full",
			zap.String("task_id", t.ID), zap.String("task", t.Name))
	}
	return t.ID
}

func (e *Engine) worker() {
	defer e.wg.Done()
	for t := range e.queue {
		e.run(t)
	}
}

func (e *Engine) run(t Task) {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.TaskTimeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			e.log.Error("fan-out task panicked",
				zap.String("task_id", t.ID), zap.String("task", t.Name), zap.Any("panic", p))
		}
	}()

	if err := t.Run(ctx); err != nil {
		e.log.Error("fan-out task failed",
			zap.String("task_id", t.ID), zap.String("task", t.Name), zap.Error(err))
	}
}

// Broadcast queues BroadcastToFollowers.
func (e *Engine) Broadcast(b OrgBroadcast) string {
	return e.Submit(Task{
		Name: "broadcast " + b.Ref.String(),
		Run: func(ctx context.Context) error {
			_, err := e.BroadcastToFollowers(ctx, b)
			return err
		},
	})
}

// Notify queues NotifyUser.
func (e *Engine) Notify(d Direct) string {
	return e.Submit(Task{
		Name: "notify " + d.Ref.String(),
		Run: func(ctx context.Context) error {
			_, err := e.NotifyUser(ctx, d)
			return err
		},
	})
}

// BroadcastToFollowers writes one NEW_POST notification per follower of
// the organization, never to the actor. Zero recipients writes nothing.
func (e *Engine) BroadcastToFollowers(ctx context.Context, b OrgBroadcast) (int, error) {
	recipients, err := e.users.FollowerIDs(ctx, b.OrgID, b.ActorID)
	if err != nil {
		return 0, err
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	sender := b.ActorID
	org := b.OrgID
	ns := make([]models.Notification, 0, len(recipients))
	for _, rid := range recipients {
		if rid == b.ActorID {
			continue
		}
		ns = append(ns, models.Notification{
			RecipientID:    rid,
			SenderID:       &sender,
			OrganizationID: &org,
			Type:           models.NotifyNewPost,
			Ref:            b.Ref,
			Message:        b.Message,
			CreatedAt:      now,
		})
	}
	return e.notes.InsertMany(ctx, ns)
}

// NotifyUser writes a MENTION notification. Notifying yourself is a
// silent no-op.
func (e *Engine) NotifyUser(ctx context.Context, d Direct) (bool, error) {
	if d.RecipientID.IsZero() || d.SenderID == d.RecipientID {
		return false, nil
	}
	sender := d.SenderID
	n, err := e.notes.InsertMany(ctx, []models.Notification{{
		RecipientID:    d.RecipientID,
		SenderID:       &sender,
		OrganizationID: d.OrgID,
		Type:           models.NotifyMention,
		Ref:            d.Ref,
		Message:        d.Message,
	}})
	return n == 1, err
}

// RemindSubscribers writes one SYSTEM notification per subscription. The
// caller has already claimed subs, so none of them can be reminded twice.
func (e *Engine) RemindSubscribers(ctx context.Context, ev models.EventPost, subs []models.EventSubscription) (int, error) {
	if len(subs) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	sender := ev.PostedBy
	org := ev.OrganizationID
	msg := ReminderMessage(ev.EventName, ev.Location)
	ref := models.Ref(models.KindEvent, ev.ID)

	ns := make([]models.Notification, len(subs))
	for i, s := range subs {
		ns[i] = models.Notification{
			RecipientID:    s.UserID,
			SenderID:       &sender,
			OrganizationID: &org,
			Type:           models.NotifySystem,
			Ref:            ref,
			Message:        msg,
			CreatedAt:      now,
		}
	}
	return e.notes.InsertMany(ctx, ns)
}
