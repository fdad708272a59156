// internal/app/system/authz/roles.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HasAnyRole reports whether the current request's user has any of the given roles.
// Returns false if no user is present (i.e., not signed in).
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, ok := Role(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// HasRole is a convenience wrapper for a single role.
func HasRole(r *http.Request, role string) bool {
	return HasAnyRole(r, role)
}

// Role returns the current user's role (lowercased) and whether a user is present.
func Role(r *http.Request) (string, bool) {
	role, _, _, ok := UserCtx(r)
	return role, ok
}

// RequireModerator returns the caller's id, or a Forbidden error when the
// caller is not a moderator.
func RequireModerator(r *http.Request) (primitive.ObjectID, error) {
	id, err := UserID(r)
	if err != nil {
		return id, err
	}
	if !HasRole(r, models.RoleModerator) {
		return primitive.NilObjectID, apperr.Forbidden("moderator access required")
	}
	return id, nil
}

// CanManageOrg reports whether the caller may edit an organization headed
// by headID: the head themself, or any moderator.
func CanManageOrg(r *http.Request, headID primitive.ObjectID) bool {
	_, _, id, ok := UserCtx(r)
	if !ok {
		return false
	}
	return id == headID || HasRole(r, models.RoleModerator)
}
