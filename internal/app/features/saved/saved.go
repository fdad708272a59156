// internal/app/features/saved/saved.go
package saved

import (
	"net/http"

	savedstore "github.com/dalemusser/campushub/internal/app/store/saved"
	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

type toggleInput struct {
	Kind string `json:"kind" validate:"required"`
	ID   string `json:"id" validate:"required,objectid"`
}

type savedResult struct {
	IsSaved bool `json:"isSaved"`
}

func parseRef(kind, id string) (models.ContentRef, error) {
	k, err := models.ParseContentKind(kind)
	if err != nil {
		return models.ContentRef{}, apperr.Client("unknown post kind")
	}
	oid, err := authz.ParseID(id, "post")
	if err != nil {
		return models.ContentRef{}, err
	}
	return models.Ref(k, oid), nil
}

// HandleToggle saves the post for the caller, or unsaves it if already saved.
//
// Route: POST /api/saved/toggle
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	var in toggleInput
	if err := respond.Decode(r, &in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	if err := inputval.Struct(in); err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	ref, err := parseRef(in.Kind, in.ID)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "saved toggle")
	defer cancel()

	store := savedstore.New(h.DB)
	exists, err := store.ContentExists(ctx, ref)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load post", err))
		return
	}
	if !exists {
		respond.Error(w, r, h.Log, apperr.NotFound("Post not found"))
		return
	}

	on, err := store.Toggle(ctx, uid, ref)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to update saved item", err))
		return
	}
	respond.OK(w, savedResult{IsSaved: on})
}

// ServeStatus reports whether the caller saved ?kind=&id=.
//
// Route: GET /api/saved/status
func (h *Handler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	ref, err := parseRef(query.Get(r, "kind"), query.Get(r, "id"))
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "saved status")
	defer cancel()

	on, err := savedstore.New(h.DB).Exists(ctx, uid, ref)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load saved item", err))
		return
	}
	respond.OK(w, savedResult{IsSaved: on})
}
