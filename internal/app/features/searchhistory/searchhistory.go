// internal/app/features/searchhistory/searchhistory.go
package searchhistory

import (
	"errors"
	"net/http"

	searchstore "github.com/dalemusser/campushub/internal/app/store/searchhistory"
	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
)

// ServeRecent returns the caller's last searches, most recent first.
//
// Route: GET /api/search-history
func (h *Handler) ServeRecent(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "search history recent")
	defer cancel()

	entries, err := searchstore.New(h.DB).Recent(ctx, uid)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to load search history", err))
		return
	}
	respond.OK(w, entries)
}

// HandleRemove deletes one entry.
//
// Route: DELETE /api/search-history/{id}
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	id, err := authz.ParseID(chi.URLParam(r, "id"), "search entry")
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "search history remove")
	defer cancel()

	err = searchstore.New(h.DB).Remove(ctx, id, uid)
	if errors.Is(err, searchstore.ErrNotFound) {
		respond.Error(w, r, h.Log, apperr.NotFound("Search entry not found"))
		return
	}
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to remove search entry", err))
		return
	}
	respond.OK(w, map[string]string{"id": id.Hex()})
}

// HandleClear deletes the caller's whole history.
//
// Route: DELETE /api/search-history
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "search history clear")
	defer cancel()

	n, err := searchstore.New(h.DB).Clear(ctx, uid)
	if err != nil {
		respond.Error(w, r, h.Log, apperr.Server("failed to clear search history", err))
		return
	}
	respond.OK(w, map[string]int64{"deleted": n})
}
