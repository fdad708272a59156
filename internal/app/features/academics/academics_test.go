package academics_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/features/academics"
	"github.com/dalemusser/campushub/internal/app/system/fanout"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/campushub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, db *mongo.Database) (*academics.Handler, func()) {
	t.Helper()
	engine := fanout.New(db, zap.NewNop(), fanout.Config{Workers: 1})
	engine.Start()
	drain := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		require.NoError(t, engine.Stop(ctx))
	}
	return academics.NewHandler(db, engine, nil, zap.NewNop()), drain
}

func TestHandleCreate_NotifiesFollowersExceptAuthor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h, drain := newHandler(t, db)

	head := fx.CreateUser(ctx, "Hana", "Head", "head@test.edu", "BSIT")
	a := fx.CreateUser(ctx, "Ana", "A", "a@test.edu", "BSIT")
	b := fx.CreateUser(ctx, "Ben", "B", "b@test.edu", "BSIT")
	org := fx.CreateOrganization(ctx, "NetAdmin Squad", head.ID)
	fx.Follow(ctx, head.ID, org.ID)
	fx.Follow(ctx, a.ID, org.ID)
	fx.Follow(ctx, b.ID, org.ID)

	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/academics", map[string]string{
		"organization": org.ID.Hex(),
		"title":        "Subnetting <b>101</b>",
		"content":      "<p>Bring laptops</p><script>x()</script>",
		"image":        "https://media.test/subnet.png",
	}, testutil.AsTestUser(head)))
	rec.AssertStatus(t, http.StatusCreated)

	var post models.AcademicPost
	rec.DecodeData(t, &post)
	assert.Equal(t, "Subnetting 101", post.Title)
	assert.Equal(t, "<p>Bring laptops</p>", post.Content)
	assert.Equal(t, head.ID, post.PostedBy)

	drain()
	for _, u := range []primitive.ObjectID{a.ID, b.ID} {
		assert.Equal(t, int64(1), fx.Count(ctx, "notifications", bson.M{
			"recipient_id": u, "ref_id": post.ID, "message": "New Academic Post: Subnetting 101",
		}))
	}
	assert.Equal(t, int64(0), fx.Count(ctx, "notifications", bson.M{"recipient_id": head.ID}))
}

func TestHandleCreate_Rejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h, drain := newHandler(t, db)
	defer drain()

	head := fx.CreateUser(ctx, "Hana", "Head", "head@test.edu", "BSIT")
	other := fx.CreateUser(ctx, "Ana", "A", "a@test.edu", "BSIT")
	org := fx.CreateOrganization(ctx, "NetAdmin Squad", head.ID)
	img := "https://media.test/a.png"

	tests := []struct {
		name   string
		user   models.User
		body   map[string]string
		status int
	}{
		{"not head", other, map[string]string{"organization": org.ID.Hex(), "title": "t", "content": "c", "image": img}, http.StatusForbidden},
		{"missing org", head, map[string]string{"organization": primitive.NewObjectID().Hex(), "title": "t", "content": "c", "image": img}, http.StatusNotFound},
		{"missing title", head, map[string]string{"organization": org.ID.Hex(), "content": "c", "image": img}, http.StatusBadRequest},
		{"bad org id", head, map[string]string{"organization": "123", "title": "t", "content": "c", "image": img}, http.StatusBadRequest},
		{"missing image", head, map[string]string{"organization": org.ID.Hex(), "title": "t", "content": "c"}, http.StatusBadRequest},
		{"image not a url", head, map[string]string{"organization": org.ID.Hex(), "title": "t", "content": "c", "image": "photo"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleCreate(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/academics", tt.body, testutil.AsTestUser(tt.user)))
			rec.AssertStatus(t, tt.status)
		})
	}
	assert.Equal(t, int64(0), fx.Count(ctx, "academics", bson.M{}))
}

func TestServeOne(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h, drain := newHandler(t, db)
	defer drain()

	head := fx.CreateUser(ctx, "Hana", "Head", "head@test.edu", "BSIT")
	org := fx.CreateOrganization(ctx, "NetAdmin Squad", head.ID)
	post := fx.CreateAcademic(ctx, "Subnetting", org.ID, head.ID, time.Now())

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/api/academics/"+post.ID.Hex(), testutil.RegularUser())
	rec := testutil.NewRecorder()
	h.ServeOne(rec, testutil.WithChiURLParam(req, "id", post.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)

	var got struct {
		FeedType     string `json:"feedType"`
		Title        string `json:"title"`
		Organization struct {
			Name string `json:"organizationName"`
		} `json:"organization"`
	}
	rec.DecodeData(t, &got)
	assert.Equal(t, "academic", got.FeedType)
	assert.Equal(t, "Subnetting", got.Title)
	assert.Equal(t, "NetAdmin Squad", got.Organization.Name)

	missing := primitive.NewObjectID().Hex()
	req = testutil.NewAuthenticatedRequest(http.MethodGet, "/api/academics/"+missing, testutil.RegularUser())
	rec = testutil.NewRecorder()
	h.ServeOne(rec, testutil.WithChiURLParam(req, "id", missing))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h, drain := newHandler(t, db)
	defer drain()

	head := fx.CreateUser(ctx, "Hana", "Head", "head@test.edu", "BSIT")
	other := fx.CreateUser(ctx, "Ana", "A", "a@test.edu", "BSIT")
	org := fx.CreateOrganization(ctx, "NetAdmin Squad", head.ID)
	post := fx.CreateAcademic(ctx, "Subnetting", org.ID, head.ID, time.Now())

	update := func(u models.User, body any) *testutil.ResponseRecorder {
		req := testutil.NewJSONRequest(t, http.MethodPatch, "/api/academics/"+post.ID.Hex(), body, testutil.AsTestUser(u))
		rec := testutil.NewRecorder()
		h.HandleUpdate(rec, testutil.WithChiURLParam(req, "id", post.ID.Hex()))
		return rec
	}

	rec := update(other, map[string]string{"title": "Hijacked"})
	rec.AssertStatus(t, http.StatusForbidden)

	rec = update(head, map[string]string{"title": "   "})
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = update(head, map[string]string{"title": "Subnetting II"})
	rec.AssertStatus(t, http.StatusOK)
	var got models.AcademicPost
	rec.DecodeData(t, &got)
	assert.Equal(t, "Subnetting II", got.Title)
	assert.Equal(t, post.Content, got.Content)
}

func TestHandleDelete_Cascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h, drain := newHandler(t, db)
	defer drain()

	head := fx.CreateUser(ctx, "Hana", "Head", "head@test.edu", "BSIT")
	other := fx.CreateUser(ctx, "Ana", "A", "a@test.edu", "BSIT")
	org := fx.CreateOrganization(ctx, "NetAdmin Squad", head.ID)
	post := fx.CreateAcademic(ctx, "Subnetting", org.ID, head.ID, time.Now())
	ref := models.Ref(models.KindAcademic, post.ID)
	fx.CreateNotification(ctx, other.ID, ref, "New Academic Post: Subnetting", time.Now())
	fx.Save(ctx, other.ID, ref)

	del := func(u models.User) *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest(http.MethodDelete, "/api/academics/"+post.ID.Hex(), testutil.AsTestUser(u))
		rec := testutil.NewRecorder()
		h.HandleDelete(rec, testutil.WithChiURLParam(req, "id", post.ID.Hex()))
		return rec
	}

	del(other).AssertStatus(t, http.StatusForbidden)
	assert.Equal(t, int64(1), fx.Count(ctx, "academics", bson.M{}))

	del(head).AssertStatus(t, http.StatusOK)
	assert.Equal(t, int64(0), fx.Count(ctx, "academics", bson.M{}))
	assert.Equal(t, int64(0), fx.Count(ctx, "notifications", bson.M{}))
	assert.Equal(t, int64(0), fx.Count(ctx, "saved_items", bson.M{}))

	del(head).AssertStatus(t, http.StatusNotFound)
}
