package feed_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/features/feed"
	"github.com/dalemusser/campushub/internal/app/system/limits"
	"github.com/dalemusser/campushub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type item struct {
	FeedType string `json:"feedType"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	ItemName string `json:"itemName"`
}

func TestServeHome_MergesNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h := feed.NewHandler(db, zap.NewNop())

	head := fx.CreateUser(ctx, "Hana", "Head", "head@test.edu", "BSIT")
	org := fx.CreateOrganization(ctx, "NetAdmin Squad", head.ID)
	base := time.Now().Add(-time.Hour)
	fx.CreateReport(ctx, "Umbrella", head.ID, base)
	fx.CreateAcademic(ctx, "Subnetting", org.ID, head.ID, base.Add(2*time.Minute))
	fx.CreateEvent(ctx, "LAN Party", org.ID, head.ID, base.Add(48*time.Hour), base.Add(time.Minute))

	rec := testutil.NewRecorder()
	h.ServeHome(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/feed", testutil.AsTestUser(head)))
	rec.AssertStatus(t, http.StatusOK)

	var items []item
	rec.DecodeData(t, &items)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"academic", "event", "report"},
		[]string{items[0].FeedType, items[1].FeedType, items[2].FeedType})
}

func TestServeHome_BadFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := feed.NewHandler(db, zap.NewNop())
	u := testutil.RegularUser()

	rec := testutil.NewRecorder()
	h.ServeHome(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/feed?organization=nope", u))
	rec.AssertStatus(t, http.StatusBadRequest)
	assert.Equal(t, "invalid organization id", rec.ErrorMessage(t))

	rec = testutil.NewRecorder()
	h.ServeHome(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/feed?course=BS+Magic", u))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestServeProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h := feed.NewHandler(db, zap.NewNop())

	a := fx.CreateUser(ctx, "Ana", "A", "a@test.edu", "BSIT")
	b := fx.CreateUser(ctx, "Ben", "B", "b@test.edu", "BSIT")
	mine := fx.CreateReport(ctx, "Wallet", a.ID, time.Now())
	fx.CreateReport(ctx, "Keys", b.ID, time.Now())

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/api/feed/users/"+a.ID.Hex(), testutil.AsTestUser(b))
	req = testutil.WithChiURLParam(req, "userID", a.ID.Hex())
	rec := testutil.NewRecorder()
	h.ServeProfile(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	var items []item
	rec.DecodeData(t, &items)
	require.Len(t, items, 1)
	assert.Equal(t, mine.ID.Hex(), items[0].ID)
}

func TestServeSearch_RecordsHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h := feed.NewHandler(db, zap.NewNop())

	u := fx.CreateUser(ctx, "Ana", "A", "a@test.edu", "BSIT")
	fx.CreateReport(ctx, "Blue Umbrella", u.ID, time.Now())
	fx.CreateReport(ctx, "Wallet", u.ID, time.Now())

	rec := testutil.NewRecorder()
	h.ServeSearch(rec, testutil.NewAuthenticatedRequest(http.MethodGet,
		"/api/feed/search?search=UMBRELLA&context=lostfound", testutil.AsTestUser(u)))
	rec.AssertStatus(t, http.StatusOK)

	var items []item
	rec.DecodeData(t, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Blue Umbrella", items[0].ItemName)

	assert.Equal(t, int64(1), fx.Count(ctx, "search_history", bson.M{
		"user_id": u.ID, "query": "umbrella", "context": "lostfound",
	}))
}

func TestServeSearch_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := feed.NewHandler(db, zap.NewNop())
	u := testutil.RegularUser()

	rec := testutil.NewRecorder()
	h.ServeSearch(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/feed/search?search=", u))
	rec.AssertStatus(t, http.StatusBadRequest)
	assert.Equal(t, "search text is required", rec.ErrorMessage(t))

	rec = testutil.NewRecorder()
	h.ServeSearch(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/feed/search?search=x&context=elsewhere", u))
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = testutil.NewRecorder()
	h.ServeSearch(rec, testutil.NewAuthenticatedRequest(http.MethodGet,
		"/api/feed/search?search="+strings.Repeat("a", limits.MaxSearchText+1), u))
	rec.AssertStatus(t, http.StatusBadRequest)
}
