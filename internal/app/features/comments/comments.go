// internal/app/features/comments/comments.go
package comments

import (
	"errors"
	"net/http"

	commentstore "github.com/dalemusser/campushub/internal/app/store/comments"
	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/fanout"
	"github.com/dalemusser/campushub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type textInput struct {
	Text string `json:"text"`
}

// postRef parses {kind} and {postID}.
func postRef(r *http.Request) (models.ContentRef, error) {
	kind, err := models.ParseContentKind(chi.URLParam(r, "kind"))
	if err != nil {
		return models.ContentRef{}, apperr.Client("unknown post kind")
	}
	id, err := authz.ParseID(chi.URLParam(r, "postID"), "post")
	if err != nil {
		return models.ContentRef{}, err
	}
	return models.Ref(kind, id), nil
}

// decodeText reads the body and returns the comment text stripped of markup.
func decodeText(r *http.Request) (string, error) {
	var in textInput
	if err := respond.Decode(r, &in); err != nil {
		return "", err
	}
	text := htmlsanitize.PlainText(in.Text)
	if text == "" {
		return "", apperr.Client("Comment text is required.")
	}
	return text, nil
}

func storeError(err error, verb string) error {
	switch {
	case errors.Is(err, commentstore.ErrPostNotFound):
		return apperr.NotFound("Post not found")
	case errors.Is(err, commentstore.ErrCommentNotFound):
		return apperr.NotFound("Comment not found")
	case errors.Is(err, commentstore.ErrNotAuthor):
		return apperr.Forbidden("You can only " + verb + " your own comments.")
	}
	return apperr.Server("failed to "+verb+" comment", err)
}

// HandleAdd appends a comment and tells the post's owner about it.
//
// Route: POST /api/posts/{kind}/{postID}/comments
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	_, name, uid, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, r, h.Log, apperr.Unauthenticated("sign in required"))
		return
	}
	ref, err := postRef(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	text, err := decodeText(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "comment add")
	defer cancel()

	c, post, err := commentstore.New(h.DB).Add(ctx, ref, models.Comment{UserID: uid, Text: text})
	if err != nil {
		respond.Error(w, r, h.Log, storeError(err, "add"))
		return
	}

	h.Engine.Notify(fanout.Direct{
		SenderID:    uid,
		RecipientID: post.PostedBy,
		OrgID:       post.OrganizationID,
		Ref:         ref,
		Message:     fanout.CommentMessage(name),
	})

	respond.Created(w, c)
}

func (h *Handler) target(r *http.Request) (uid primitive.ObjectID, ref models.ContentRef, commentID primitive.ObjectID, err error) {
	if uid, err = authz.UserID(r); err != nil {
		return
	}
	if ref, err = postRef(r); err != nil {
		return
	}
	commentID, err = authz.ParseID(chi.URLParam(r, "commentID"), "comment")
	return
}

// HandleEdit replaces the text of the caller's own comment.
//
// Route: PATCH /api/posts/{kind}/{postID}/comments/{commentID}
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	uid, ref, commentID, err := h.target(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	text, err := decodeText(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "comment edit")
	defer cancel()

	c, err := commentstore.New(h.DB).Edit(ctx, ref, commentID, uid, text)
	if err != nil {
		respond.Error(w, r, h.Log, storeError(err, "edit"))
		return
	}
	respond.OK(w, c)
}

// HandleDelete removes the caller's own comment.
//
// Route: DELETE /api/posts/{kind}/{postID}/comments/{commentID}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	uid, ref, commentID, err := h.target(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "comment delete")
	defer cancel()

	if err := commentstore.New(h.DB).Delete(ctx, ref, commentID, uid); err != nil {
		respond.Error(w, r, h.Log, storeError(err, "delete"))
		return
	}
	respond.OK(w, map[string]string{"id": commentID.Hex()})
}
