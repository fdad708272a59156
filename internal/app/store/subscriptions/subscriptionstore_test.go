package subscriptionstore_test

import (
	"sync"
	"testing"
	"time"

	subscriptionstore "github.com/dalemusser/campushub/internal/app/store/subscriptions"
	"github.com/dalemusser/campushub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Toggle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := subscriptionstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	eventID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	on, err := store.Toggle(ctx, eventID, userID)
	require.NoError(t, err)
	assert.True(t, on)

	exists, err := store.Exists(ctx, eventID, userID)
	require.NoError(t, err)
	assert.True(t, exists)

	on, err = store.Toggle(ctx, eventID, userID)
	require.NoError(t, err)
	assert.False(t, on)

	exists, err = store.Exists(ctx, eventID, userID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_Claim_OnlyOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := subscriptionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	eventID := primitive.NewObjectID()
	fixtures.Subscribe(ctx, eventID, primitive.NewObjectID())
	fixtures.Subscribe(ctx, eventID, primitive.NewObjectID())
	fixtures.Subscribe(ctx, primitive.NewObjectID(), primitive.NewObjectID())

	n, err := store.Claim(ctx, eventID, "tok-1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	claimed, err := store.Claimed(ctx, eventID, "tok-1")
	require.NoError(t, err)
	assert.Len(t, claimed, 2)
	for _, s := range claimed {
		assert.True(t, s.IsNotified)
		assert.NotNil(t, s.NotifiedAt)
	}

	n, err = store.Claim(ctx, eventID, "tok-2", time.Now())
	require.NoError(t, err)
	assert.Zero(t, n, "second claim must not re-claim notified subscribers")
}

func TestStore_Claim_ConcurrentExclusive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := subscriptionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	eventID := primitive.NewObjectID()
	for i := 0; i < 20; i++ {
		fixtures.Subscribe(ctx, eventID, primitive.NewObjectID())
	}

	var wg sync.WaitGroup
	counts := make([]int64, 2)
	for i, tok := range []string{"a", "b"} {
		wg.Add(1)
		go func(i int, tok string) {
			defer wg.Done()
			n, err := store.Claim(ctx, eventID, tok, time.Now())
			assert.NoError(t, err)
			counts[i] = n
		}(i, tok)
	}
	wg.Wait()

	assert.Equal(t, int64(20), counts[0]+counts[1])

	a, err := store.Claimed(ctx, eventID, "a")
	require.NoError(t, err)
	b, err := store.Claimed(ctx, eventID, "b")
	require.NoError(t, err)
	assert.Equal(t, 20, len(a)+len(b), "every subscriber claimed by exactly one token")
}

func TestStore_DeleteByEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := subscriptionstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	gone := primitive.NewObjectID()
	kept := primitive.NewObjectID()
	fixtures.Subscribe(ctx, gone, primitive.NewObjectID())
	fixtures.Subscribe(ctx, kept, primitive.NewObjectID())

	n, err := store.DeleteByEvents(ctx, []primitive.ObjectID{gone})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, int64(1), fixtures.Count(ctx, "event_subscribers", bson.M{"event_id": kept}))

	n, err = store.DeleteByEvents(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
