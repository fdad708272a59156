package messages_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/campushub/internal/app/features/messages"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/campushub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type partner struct {
	UserID primitive.ObjectID `json:"userId"`
	Unread int                `json:"unreadCount"`
	User   struct {
		Firstname string `json:"firstname"`
	} `json:"user"`
}

func TestHandleSend_Rejections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h := messages.NewHandler(db, zap.NewNop())

	a := fx.CreateUser(ctx, "Ana", "Cruz", "a@test.edu", "BSIT")
	b := fx.CreateUser(ctx, "Ben", "Bautista", "b@test.edu", "BSIT")

	tests := []struct {
		name   string
		to     string
		text   string
		status int
	}{
		{"empty text", b.ID.Hex(), "   ", http.StatusBadRequest},
		{"self", a.ID.Hex(), "hi me", http.StatusForbidden},
		{"unknown receiver", primitive.NewObjectID().Hex(), "hi", http.StatusNotFound},
		{"bad id", "xyz", "hi", http.StatusBadRequest},
		{"ok", b.ID.Hex(), "hello <b>Ben</b>", http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleSend(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/messages",
				map[string]string{"receiver": tt.to, "messageText": tt.text}, testutil.AsTestUser(a)))
			rec.AssertStatus(t, tt.status)
		})
	}
}

func TestConversationPartnersAndRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	h := messages.NewHandler(db, zap.NewNop())

	a := fx.CreateUser(ctx, "Ana", "Cruz", "a@test.edu", "BSIT")
	b := fx.CreateUser(ctx, "Ben", "Bautista", "b@test.edu", "BSIT")

	send := func(from, to models.User, text string) {
		rec := testutil.NewRecorder()
		h.HandleSend(rec, testutil.NewJSONRequest(t, http.MethodPost, "/api/messages",
			map[string]string{"receiver": to.ID.Hex(), "messageText": text}, testutil.AsTestUser(from)))
		rec.AssertStatus(t, http.StatusCreated)
	}
	send(a, b, "first")
	send(b, a, "second")
	send(b, a, "third")

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/api/messages/"+b.ID.Hex(), testutil.AsTestUser(a))
	rec := testutil.NewRecorder()
	h.ServeConversation(rec, testutil.WithChiURLParam(req, "userID", b.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
	var convo []models.Message
	rec.DecodeData(t, &convo)
	require.Len(t, convo, 3)
	assert.Equal(t, "first", convo[0].Text)
	assert.Equal(t, "third", convo[2].Text)

	partners := func() []partner {
		rec := testutil.NewRecorder()
		h.ServePartners(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/api/messages/partners", testutil.AsTestUser(a)))
		rec.AssertStatus(t, http.StatusOK)
		var out []partner
		rec.DecodeData(t, &out)
		return out
	}

	got := partners()
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].UserID)
	assert.Equal(t, 2, got[0].Unread)
	assert.Equal(t, "Ben", got[0].User.Firstname)

	req = testutil.NewAuthenticatedRequest(http.MethodPatch, "/api/messages/"+b.ID.Hex()+"/read", testutil.AsTestUser(a))
	rec = testutil.NewRecorder()
	h.HandleMarkRead(rec, testutil.WithChiURLParam(req, "userID", b.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)

	got = partners()
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Unread)
}
