// internal/app/features/messages/messages.go
package messages

import (
	"net/http"

	messagestore "github.com/dalemusser/campushub/internal/app/store/messages"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sendInput struct {
	ReceiverID string `json:"receiver"`
	Text       string `json:"messageText"`
}

type partnerView struct {
	messagestore.Partner
	User *models.UserSummary `json:"user,omitempty"`
}

// HandleSend delivers a message to another user.
//
// Route: POST /api/messages
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	var in sendInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	text := htmlsanitize.PlainText(in.Text)
	if text == "" {
		respond.Error(w, r, h.Log, apperr.Client("Message text is required."))
		return
	}
	to, err := authz.ParseID(in.ReceiverID, "receiver")
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if to == uid {
		respond.Error(w, r, h.Log, apperr.Forbidden("You cannot message yourself."))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "message send")
	defer cancel()

	ok, err := userstore.New(h.DB).Exists(ctx, to)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load receiver", err))
		return
	}
	if !ok {
		respond.Error(w, r, h.Log, apperr.NotFound("Receiver not found"))
		return
	}

	m, err := messagestore.New(h.DB).Create(ctx, models.Message{
		SenderID:   uid,
		ReceiverID: to,
		Text:       text,
	})
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to send message", err))
		return
	}
	respond.Created(w, m)
}

// ServePartners lists the caller's conversations, most recent first.
//
// Route: GET /api/messages/partners
func (h *Handler) ServePartners(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "message partners")
	defer cancel()

	partners, err := messagestore.New(h.DB).Partners(ctx, uid)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load conversations", err))
		return
	}
	ids := make([]primitive.ObjectID, len(partners))
	for i, p := range partners {
		ids[i] = p.UserID
	}
	users, err := userstore.New(h.DB).Summaries(ctx, ids, false)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load conversations", err))
		return
	}

	out := make([]partnerView, 0, len(partners))
	for _, p := range partners {
		v := partnerView{Partner: p}
		if u, ok := users[p.UserID]; ok {
			v.User = &u
		}
		out = append(out, v)
	}
	respond.OK(w, out)
}

// ServeConversation returns every message exchanged with {userID}, oldest
// first.
//
// Route: GET /api/messages/{userID}
func (h *Handler) ServeConversation(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	other, err := authz.ParseID(chi.URLParam(r, "userID"), "user")
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "message conversation")
	defer cancel()

	msgs, err := messagestore.New(h.DB).Conversation(ctx, uid, other)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load conversation", err))
		return
	}
	respond.OK(w, msgs)
}

// HandleMarkRead marks every message from {userID} to the caller as read.
//
// Route: PATCH /api/messages/{userID}/read
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	other, err := authz.ParseID(chi.URLParam(r, "userID"), "user")
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "message read")
	defer cancel()

	n, err := messagestore.New(h.DB).MarkConversationRead(ctx, uid, other)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to update conversation", err))
		return
	}
	respond.OK(w, map[string]int64{"updated": n})
}
