package notifications_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/features/notifications"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/campushub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type listResult struct {
	Notifications []struct {
		ID      primitive.ObjectID `json:"id"`
		Message string             `json:"message"`
		Sender  *struct {
			Firstname string `json:"firstname"`
		} `json:"sender"`
		Organization *struct {
			Name string `json:"organizationName"`
		} `json:"organization"`
	} `json:"notifications"`
	NextCursor string `json:"nextCursor"`
}

func TestServeList_PagesNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h := notifications.NewHandler(db, zap.NewNop())

	u := fx.CreateUser(ctx, "Ana", "Cruz", "a@test.edu", "BSIT")
	base := time.Now().Add(-time.Hour)
	ref := models.Ref(models.KindReport, primitive.NewObjectID())
	for i := 0; i < 3; i++ {
		fx.CreateNotification(ctx, u.ID, ref, []string{"one", "two", "three"}[i], base.Add(time.Duration(i)*time.Minute))
	}

	list := func(target string) listResult {
		rec := testutil.NewRecorder()
		h.ServeList(rec, testutil.NewAuthenticatedRequest(http.MethodGet, target, testutil.AsTestUser(u)))
		rec.AssertStatus(t, http.StatusOK)
		var out listResult
		rec.DecodeData(t, &out)
		return out
	}

	first := list("/api/notifications?limit=2")
	require.Len(t, first.Notifications, 2)
	assert.Equal(t, "three", first.Notifications[0].Message)
	assert.Equal(t, "two", first.Notifications[1].Message)
	require.NotEmpty(t, first.NextCursor)

	second := list("/api/notifications?limit=2&before=" + first.NextCursor)
	require.Len(t, second.Notifications, 1)
	assert.Equal(t, "one", second.Notifications[0].Message)
	assert.Empty(t, second.NextCursor)

	rec := testutil.NewRecorder()
	h.ServeList(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/notifications?before=junk", testutil.AsTestUser(u)))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServeList_ResolvesSenderAndOrganization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h := notifications.NewHandler(db, zap.NewNop())

	head := fx.CreateUser(ctx, "Hana", "Head", "h@test.edu", "BSIT")
	u := fx.CreateUser(ctx, "Ana", "Cruz", "a@test.edu", "BSIT")
	org := fx.CreateOrganization(ctx, "NetAdmin Squad", head.ID)

	_, err := db.Collection("notifications").InsertOne(ctx, models.Notification{
		ID:             primitive.NewObjectID(),
		RecipientID:    u.ID,
		SenderID:       &head.ID,
		OrganizationID: &org.ID,
		Type:           models.NotifyNewPost,
		Ref:            models.Ref(models.KindAcademic, primitive.NewObjectID()),
		Message:        "New Academic Post: Subnetting",
		CreatedAt:      time.Now().UTC(),
	})
	require.NoError(t, err)

	rec := testutil.NewRecorder()
	h.ServeList(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/notifications", testutil.AsTestUser(u)))
	rec.AssertStatus(t, http.StatusOK)
	var out listResult
	rec.DecodeData(t, &out)
	require.Len(t, out.Notifications, 1)
	require.NotNil(t, out.Notifications[0].Sender)
	assert.Equal(t, "Hana", out.Notifications[0].Sender.Firstname)
	require.NotNil(t, out.Notifications[0].Organization)
	assert.Equal(t, "NetAdmin Squad", out.Notifications[0].Organization.Name)
}

func TestReadFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h := notifications.NewHandler(db, zap.NewNop())

	u := fx.CreateUser(ctx, "Ana", "Cruz", "a@test.edu", "BSIT")
	other := fx.CreateUser(ctx, "Ben", "B", "b@test.edu", "BSIT")
	ref := models.Ref(models.KindReport, primitive.NewObjectID())
	n1 := fx.CreateNotification(ctx, u.ID, ref, "one", time.Now())
	fx.CreateNotification(ctx, u.ID, ref, "two", time.Now())
	fx.CreateNotification(ctx, u.ID, ref, "three", time.Now())

	unread := func() int64 {
		rec := testutil.NewRecorder()
		h.ServeUnreadCount(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/notifications/unread-count", testutil.AsTestUser(u)))
		rec.AssertStatus(t, http.StatusOK)
		var out struct {
			Unread int64 `json:"unread"`
		}
		rec.DecodeData(t, &out)
		return out.Unread
	}
	read := func(as models.User, id string) *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest(http.MethodPatch, "/api/notifications/"+id+"/read", testutil.AsTestUser(as))
		rec := testutil.NewRecorder()
		h.HandleRead(rec, testutil.WithChiURLParam(req, "id", id))
		return rec
	}

	assert.Equal(t, int64(3), unread())

	read(other, n1.ID.Hex()).AssertStatus(t, http.StatusNotFound)
	read(u, n1.ID.Hex()).AssertStatus(t, http.StatusOK)
	assert.Equal(t, int64(2), unread())

	rec := testutil.NewRecorder()
	h.HandleReadAll(rec, testutil.NewAuthenticatedRequest(http.MethodPatch, "/api/notifications/read-all", testutil.AsTestUser(u)))
	rec.AssertStatus(t, http.StatusOK)
	var out struct {
		Updated int64 `json:"updated"`
	}
	rec.DecodeData(t, &out)
	assert.Equal(t, int64(2), out.Updated)
	assert.Equal(t, int64(0), unread())
	assert.Equal(t, int64(3), fx.Count(ctx, "notifications", bson.M{"is_read": true}))
}
