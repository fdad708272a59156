package reminders_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/fanout"
	"github.com/dalemusser/campushub/internal/app/system/lease"
	"github.com/dalemusser/campushub/internal/app/system/reminders"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/campushub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newSweeper(t *testing.T, l lease.Lease) (*reminders.Sweeper, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	engine := fanout.New(db, zap.NewNop(), fanout.Config{})
	s := reminders.New(db, engine, l, zap.NewNop(), reminders.Config{
		Lead:     time.Hour,
		Interval: time.Minute,
	})
	return s, testutil.NewFixtures(t, db)
}

func TestWindow(t *testing.T) {
	s, _ := newSweeper(t, nil)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	from, to := s.Window(now)
	assert.Equal(t, now.Add(time.Hour), from)
	assert.Equal(t, now.Add(time.Hour+time.Minute), to)
}

func TestSweep_AtMostOnce(t *testing.T) {
	s, fx := newSweeper(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC().Truncate(time.Second)
	head := fx.CreateUser(ctx, "Hana", "Head", "head@test.edu", "BSIT")
	u := fx.CreateUser(ctx, "Ana", "A", "a@test.edu", "BSIT")
	org := fx.CreateOrganization(ctx, "NetAdmin Squad", head.ID)
	ev := fx.CreateEvent(ctx, "LAN Party", org.ID, head.ID, now.Add(time.Hour+30*time.Second), now)
	fx.Subscribe(ctx, ev.ID, u.ID)

	n, err := s.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, int64(1), fx.Count(ctx, "notifications", bson.M{
		"recipient_id": u.ID, "type": models.NotifySystem, "ref_id": ev.ID,
	}))
	assert.Equal(t, int64(1), fx.Count(ctx, "event_subscribers", bson.M{
		"event_id": ev.ID, "is_notified": true,
	}))

	n, err = s.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, int64(1), fx.Count(ctx, "notifications", bson.M{}))
}

func TestSweep_OnlyEventsInWindow(t *testing.T) {
	s, fx := newSweeper(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC().Truncate(time.Second)
	head := fx.CreateUser(ctx, "Hana", "Head", "head@test.edu", "BSIT")
	u := fx.CreateUser(ctx, "Ana", "A", "a@test.edu", "BSIT")
	org := fx.CreateOrganization(ctx, "NetAdmin Squad", head.ID)

	edge := fx.CreateEvent(ctx, "Edge", org.ID, head.ID, now.Add(time.Hour), now)
	past := fx.CreateEvent(ctx, "Past", org.ID, head.ID, now.Add(time.Hour+time.Minute), now)
	early := fx.CreateEvent(ctx, "Early", org.ID, head.ID, now.Add(30*time.Minute), now)
	for _, ev := range []models.EventPost{edge, past, early} {
		fx.Subscribe(ctx, ev.ID, u.ID)
	}

	n, err := s.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, int64(1), fx.Count(ctx, "notifications", bson.M{"ref_id": edge.ID}))
	assert.Equal(t, int64(0), fx.Count(ctx, "notifications", bson.M{"ref_id": past.ID}))
	assert.Equal(t, int64(0), fx.Count(ctx, "notifications", bson.M{"ref_id": early.ID}))
}

func TestSweep_NoSubscribers(t *testing.T) {
	s, fx := newSweeper(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	head := fx.CreateUser(ctx, "Hana", "Head", "head@test.edu", "BSIT")
	org := fx.CreateOrganization(ctx, "NetAdmin Squad", head.ID)
	fx.CreateEvent(ctx, "Lonely", org.ID, head.ID, now.Add(time.Hour+10*time.Second), now)

	n, err := s.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSweep_ConcurrentSweepsNotifyOnce(t *testing.T) {
	s, fx := newSweeper(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	head := fx.CreateUser(ctx, "Hana", "Head", "head@test.edu", "BSIT")
	org := fx.CreateOrganization(ctx, "NetAdmin Squad", head.ID)
	ev := fx.CreateEvent(ctx, "LAN Party", org.ID, head.ID, now.Add(time.Hour+10*time.Second), now)
	for _, email := range []string{"a@test.edu", "b@test.edu", "c@test.edu"} {
		u := fx.CreateUser(ctx, "U", email, email, "BSIT")
		fx.Subscribe(ctx, ev.ID, u.ID)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Sweep(ctx, now)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Overlapping sweeps may be skipped; any that ran could only claim
	// each subscriber once.
	assert.Equal(t, int64(3), fx.Count(ctx, "notifications", bson.M{"ref_id": ev.ID}))
}

type heldLease struct{}

func (heldLease) Acquire(context.Context, string, time.Duration) (func(), bool, error) {
	return func() {}, false, nil
}

func TestSweep_SkipsWhenLeaseHeld(t *testing.T) {
	s, fx := newSweeper(t, heldLease{})
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now().UTC()
	head := fx.CreateUser(ctx, "Hana", "Head", "head@test.edu", "BSIT")
	u := fx.CreateUser(ctx, "Ana", "A", "a@test.edu", "BSIT")
	org := fx.CreateOrganization(ctx, "NetAdmin Squad", head.ID)
	ev := fx.CreateEvent(ctx, "LAN Party", org.ID, head.ID, now.Add(time.Hour+10*time.Second), now)
	fx.Subscribe(ctx, ev.ID, u.ID)

	n, err := s.Sweep(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, int64(0), fx.Count(ctx, "event_subscribers", bson.M{"is_notified": true}))
}
