// Package feedqueries merges the three content collections into a single
// timeline for the home, profile, saved and search views.
package feedqueries

import (
	"regexp"
	"strings"

	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type scopeKind int

const (
	scopeHome scopeKind = iota
	scopeProfile
	scopeSaved
	scopeSearch
)

// Scope selects which items a feed contains. Build one with Home,
// Profile, Saved or Search.
type Scope struct {
	kind   scopeKind
	orgID  *primitive.ObjectID
	course string
	userID primitive.ObjectID
	text   string
}

// Home is the global timeline. orgID narrows academic and event content to
// one organization and drops reports; course narrows events only.
func Home(orgID *primitive.ObjectID, course string) Scope {
	return Scope{kind: scopeHome, orgID: orgID, course: strings.TrimSpace(course)}
}

// Profile is everything authorID has posted.
func Profile(authorID primitive.ObjectID) Scope {
	return Scope{kind: scopeProfile, userID: authorID}
}

// Saved is everything userID has bookmarked.
func Saved(userID primitive.ObjectID) Scope {
	return Scope{kind: scopeSaved, userID: userID}
}

// Search matches text case-insensitively against each variant's text
// fields.
func Search(text string) Scope {
	return Scope{kind: scopeSearch, text: strings.TrimSpace(text)}
}

func (s Scope) validate() error {
	switch s.kind {
	case scopeSearch:
		if s.text == "" {
			return apperr.Client("search text is required")
		}
	case scopeProfile, scopeSaved:
		if s.userID.IsZero() {
			return apperr.Client("user id is required")
		}
	}
	return nil
}

// resolveHeads reports whether organization heads are resolved.
func (s Scope) resolveHeads() bool {
	return s.kind == scopeSearch || s.kind == scopeSaved
}

// searchFields lists the text fields matched per variant.
var searchFields = map[models.ContentKind][]string{
	models.KindAcademic: {"title", "content"},
	models.KindEvent:    {"event_name", "location", "course"},
	models.KindReport:   {"item_name", "description", "location_details"},
}

// filterFor builds the query for one variant. ok is false when the
// variant is excluded from the scope. savedIDs is only read for the saved
// scope.
func (s Scope) filterFor(kind models.ContentKind, savedIDs map[models.ContentKind][]primitive.ObjectID) (filter bson.M, ok bool) {
	switch s.kind {
	case scopeHome:
		filter = bson.M{}
		if s.orgID != nil {
			if kind == models.KindReport {
				return nil, false
			}
			filter["organization_id"] = *s.orgID
		}
		if s.course != "" && kind == models.KindEvent {
			filter["course"] = s.course
		}
		return filter, true

	case scopeProfile:
		return bson.M{"posted_by": s.userID}, true

	case scopeSaved:
		ids := savedIDs[kind]
		if len(ids) == 0 {
			return nil, false
		}
		return bson.M{"_id": bson.M{"$in": ids}}, true

	case scopeSearch:
		re := primitive.Regex{Pattern: regexp.QuoteMeta(s.text), Options: "i"}
		fields := searchFields[kind]
		or := make([]bson.M, len(fields))
		for i, f := range fields {
			or[i] = bson.M{f: re}
		}
		return bson.M{"$or": or}, true
	}
	return nil, false
}
