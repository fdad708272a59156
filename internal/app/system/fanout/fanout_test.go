package fanout_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/fanout"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/campushub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestBroadcastToFollowers_ExcludesActorAndNonFollowers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	head := fx.CreateUser(ctx, "Hana", "Head", "head@test.edu", "BSIT")
	a := fx.CreateUser(ctx, "Ana", "A", "a@test.edu", "BSIT")
	b := fx.CreateUser(ctx, "Ben", "B", "b@test.edu", "BSIT")
	outsider := fx.CreateUser(ctx, "Olga", "O", "o@test.edu", "BSIT")
	org := fx.CreateOrganization(ctx, "NetAdmin Squad", head.ID)
	fx.Follow(ctx, head.ID, org.ID)
	fx.Follow(ctx, a.ID, org.ID)
	fx.Follow(ctx, b.ID, org.ID)

	post := fx.CreateAcademic(ctx, "Subnetting 101", org.ID, head.ID, time.Now())
	e := fanout.New(db, zap.NewNop(), fanout.Config{})

	n, err := e.BroadcastToFollowers(ctx, fanout.OrgBroadcast{
		ActorID: head.ID,
		OrgID:   org.ID,
		Ref:     models.Ref(models.KindAcademic, post.ID),
		Message: fanout.AcademicPostMessage(post.Title),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, int64(1), fx.Count(ctx, "notifications", bson.M{"recipient_id": a.ID}))
	assert.Equal(t, int64(1), fx.Count(ctx, "notifications", bson.M{"recipient_id": b.ID}))
	assert.Equal(t, int64(0), fx.Count(ctx, "notifications", bson.M{"recipient_id": head.ID}))
	assert.Equal(t, int64(0), fx.Count(ctx, "notifications", bson.M{"recipient_id": outsider.ID}))

	var got models.Notification
	require.NoError(t, db.Collection("notifications").FindOne(ctx, bson.M{"recipient_id": a.ID}).Decode(&got))
	assert.Equal(t, models.NotifyNewPost, got.Type)
	assert.Equal(t, "New Academic Post: Subnetting 101", got.Message)
	assert.Equal(t, models.KindAcademic, got.Ref.Kind)
	assert.Equal(t, post.ID, got.Ref.ID)
	require.NotNil(t, got.SenderID)
	assert.Equal(t, head.ID, *got.SenderID)
	require.NotNil(t, got.OrganizationID)
	assert.Equal(t, org.ID, *got.OrganizationID)
	assert.False(t, got.IsRead)
}

func TestBroadcastToFollowers_NoFollowers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	head := fx.CreateUser(ctx, "Hana", "Head", "head@test.edu", "BSIT")
	org := fx.CreateOrganization(ctx, "Quiet Club", head.ID)
	e := fanout.New(db, zap.NewNop(), fanout.Config{})

	n, err := e.BroadcastToFollowers(ctx, fanout.OrgBroadcast{
		ActorID: head.ID,
		OrgID:   org.ID,
		Message: fanout.EventPostMessage("Nothing"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, int64(0), fx.Count(ctx, "notifications", bson.M{}))
}

func TestNotifyUser_SkipsSelf(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	author := fx.CreateUser(ctx, "Ana", "A", "a@test.edu", "BSIT")
	other := fx.CreateUser(ctx, "Ben", "B", "b@test.edu", "BSIT")
	report := fx.CreateReport(ctx, "Blue umbrella", author.ID, time.Now())
	ref := models.Ref(models.KindReport, report.ID)
	e := fanout.New(db, zap.NewNop(), fanout.Config{})

	sent, err := e.NotifyUser(ctx, fanout.Direct{
		SenderID: author.ID, RecipientID: author.ID, Ref: ref,
		Message: fanout.CommentMessage(author.FullName()),
	})
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Equal(t, int64(0), fx.Count(ctx, "notifications", bson.M{}))

	sent, err = e.NotifyUser(ctx, fanout.Direct{
		SenderID: other.ID, RecipientID: author.ID, Ref: ref,
		Message: fanout.WitnessMessage(other.FullName()),
	})
	require.NoError(t, err)
	assert.True(t, sent)

	var got models.Notification
	require.NoError(t, db.Collection("notifications").FindOne(ctx, bson.M{"recipient_id": author.ID}).Decode(&got))
	assert.Equal(t, models.NotifyMention, got.Type)
	assert.Equal(t, "Ben B vouched as a witness on your report.", got.Message)
	assert.Nil(t, got.OrganizationID)
}

func TestRemindSubscribers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)

	head := fx.CreateUser(ctx, "Hana", "Head", "head@test.edu", "BSIT")
	u := fx.CreateUser(ctx, "Ana", "A", "a@test.edu", "BSIT")
	org := fx.CreateOrganization(ctx, "NetAdmin Squad", head.ID)
	ev := fx.CreateEvent(ctx, "LAN Party", org.ID, head.ID, time.Now().Add(time.Hour), time.Now())
	sub := fx.Subscribe(ctx, ev.ID, u.ID)

	e := fanout.New(db, zap.NewNop(), fanout.Config{})
	n, err := e.RemindSubscribers(ctx, ev, []models.EventSubscription{sub})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var got models.Notification
	require.NoError(t, db.Collection("notifications").FindOne(ctx, bson.M{"recipient_id": u.ID}).Decode(&got))
	assert.Equal(t, models.NotifySystem, got.Type)
	assert.Equal(t, `Reminder: "LAN Party" starts in 1 hour at Main Hall.`, got.Message)
	assert.Equal(t, head.ID, *got.SenderID)
	assert.Equal(t, org.ID, *got.OrganizationID)
	assert.Equal(t, models.Ref(models.KindEvent, ev.ID), got.Ref)
}

func TestEngine_RunsSubmittedTasks(t *testing.T) {
	e := fanout.New(nil, zap.NewNop(), fanout.Config{Workers: 2, QueueSize: 8})
	e.Start()

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		id := e.Submit(fanout.Task{Name: "count", Run: func(context.Context) error {
			ran.Add(1)
			return nil
		}})
		assert.NotEmpty(t, id)
	}
	// A failing and a panicking task must not take a worker down.
	e.Submit(fanout.Task{Name: "fail", Run: func(context.Context) error { return errors.New("boom") }})
	e.Submit(fanout.Task{Name: "panic", Run: func(context.Context) error { panic("boom") }})
	e.Submit(fanout.Task{Name: "after", Run: func(context.Context) error {
		ran.Add(1)
		return nil
	}})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.Stop(ctx))
	assert.Equal(t, int32(6), ran.Load())
}

func TestEngine_SubmitNeverBlocksWhenFull(t *testing.T) {
	e := fanout.New(nil, zap.NewNop(), fanout.Config{Workers: 1, QueueSize: 1})
	// Not started: the single slot fills and the rest are dropped.
	var ran atomic.Int32
	task := fanout.Task{Name: "count", Run: func(context.Context) error {
		ran.Add(1)
		return nil
	}}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			e.Submit(task)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "Submit blocked on a full queue")
	}

	e.Start()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.Stop(ctx))
	assert.Equal(t, int32(1), ran.Load())
}

func TestEngine_SubmitAfterStopIsDropped(t *testing.T) {
	e := fanout.New(nil, zap.NewNop(), fanout.Config{Workers: 1})
	e.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, e.Stop(ctx))
	require.NoError(t, e.Stop(ctx))

	var ran atomic.Int32
	e.Submit(fanout.Task{Name: "late", Run: func(context.Context) error {
		ran.Add(1)
		return nil
	}})
	assert.Equal(t, int32(0), ran.Load())
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "New Event: LAN Party", fanout.EventPostMessage("LAN Party"))
	assert.Equal(t, "Ana A commented on your post.", fanout.CommentMessage("Ana A"))
}
