package searchhistory_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/campushub/internal/app/features/searchhistory"
	searchstore "github.com/dalemusser/campushub/internal/app/store/searchhistory"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/campushub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestRecentRemoveClear(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h := searchhistory.NewHandler(db, zap.NewNop())
	store := searchstore.New(db)

	u := fx.CreateUser(ctx, "Ana", "Cruz", "a@test.edu", "BSIT")
	other := fx.CreateUser(ctx, "Ben", "B", "b@test.edu", "BSIT")
	require.NoError(t, store.Record(ctx, u.ID, "Umbrella", models.SearchGlobal))
	require.NoError(t, store.Record(ctx, u.ID, "hackathon", models.SearchGlobal))
	require.NoError(t, store.Record(ctx, other.ID, "wallet", models.SearchGlobal))

	rec := testutil.NewRecorder()
	h.ServeRecent(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/search-history", testutil.AsTestUser(u)))
	rec.AssertStatus(t, http.StatusOK)
	var entries []models.SearchEntry
	rec.DecodeData(t, &entries)
	require.Len(t, entries, 2)

	remove := func(as models.User, id string) *testutil.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest(http.MethodDelete, "/api/search-history/"+id, testutil.AsTestUser(as))
		rec := testutil.NewRecorder()
		h.HandleRemove(rec, testutil.WithChiURLParam(req, "id", id))
		return rec
	}
	remove(other, entries[0].ID.Hex()).AssertStatus(t, http.StatusNotFound)
	remove(u, entries[0].ID.Hex()).AssertStatus(t, http.StatusOK)
	remove(u, primitive.NewObjectID().Hex()).AssertStatus(t, http.StatusNotFound)

	rec = testutil.NewRecorder()
	h.HandleClear(rec, testutil.NewAuthenticatedRequest(http.MethodDelete, "/api/search-history", testutil.AsTestUser(u)))
	rec.AssertStatus(t, http.StatusOK)
	assert.Equal(t, int64(0), fx.Count(ctx, "search_history", bson.M{"user_id": u.ID}))
	assert.Equal(t, int64(1), fx.Count(ctx, "search_history", bson.M{"user_id": other.ID}))
}
