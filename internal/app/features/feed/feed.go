// internal/app/features/feed/feed.go
package feed

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/campushub/internal/app/store/queries/feedqueries"
	searchstore "github.com/dalemusser/campushub/internal/app/store/searchhistory"
	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/limits"
	"github.com/dalemusser/campushub/internal/app/system/respond"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeHome returns the global timeline, optionally narrowed by
// ?organization= and ?course=.
//
// Route: GET /api/feed
func (h *Handler) ServeHome(w http.ResponseWriter, r *http.Request) {
	var orgID *primitive.ObjectID
	if raw := query.Get(r, "organization"); raw != "" {
		id, err := authz.ParseID(raw, "organization")
		if err != nil {
			respond.Error(w, r, h.Log, err)
			return
		}
		orgID = &id
	}
	course := query.Get(r, "course")
	if course != "" && !models.IsValidCourse(course) {
		respond.Error(w, r, h.Log, apperr.Client("course must be one of: "+strings.Join(models.CourseValues(), ", ")))
		return
	}

	h.serve(w, r, feedqueries.Home(orgID, course))
}

// ServeProfile returns everything one user has posted.
//
// Route: GET /api/feed/users/{userID}
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	id, err := authz.ParseID(chi.URLParam(r, "userID"), "user")
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.serve(w, r, feedqueries.Profile(id))
}

// ServeSaved returns the caller's bookmarks.
//
// Route: GET /api/feed/saved
func (h *Handler) ServeSaved(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	h.serve(w, r, feedqueries.Saved(uid))
}

// ServeSearch matches ?search= across all content and remembers the query
// in the caller's search history under ?context= (default global).
//
// Route: GET /api/feed/search
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	uid, err := authz.UserID(r)
	if err != nil {
		respond.Error(w, r, h.Log, err)
		return
	}
	text := query.Get(r, "search")
	searchCtx := query.Get(r, "context")
	if searchCtx == "" {
		searchCtx = models.SearchGlobal
	}
	if utf8.RuneCountInString(text) > limits.MaxSearchText {
		respond.Error(w, r, h.Log, apperr.Clientf("search text must be at most %d characters", limits.MaxSearchText))
		return
	}
	if !models.IsValidSearchContext(searchCtx) {
		respond.Error(w, r, h.Log, apperr.Client("context must be one of: global, event, academic, lostfound"))
		return
	}

	scope := feedqueries.Search(text)
	items, ok := h.list(w, r, scope)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "record search")
	defer cancel()
	if err := searchstore.New(h.DB).Record(ctx, uid, text, searchCtx); err != nil {
		h.Log.Warn("record search history failed", zap.Error(err), zap.String("user_id", uid.Hex()))
	}

	respond.OK(w, items)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, scope feedqueries.Scope) {
	items, ok := h.list(w, r, scope)
	if !ok {
		return
	}
	respond.OK(w, items)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, scope feedqueries.Scope) ([]feedqueries.FeedItem, bool) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "feed list")
	defer cancel()

	items, err := feedqueries.List(ctx, h.DB, scope)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindServer {
			err = apperr.Server("failed to load feed", err)
		}
		respond.Error(w, r, h.Log, err)
		return nil, false
	}
	return items, true
}
