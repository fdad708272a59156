// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", NilObjectID, false. This ensures callers can trust that
// ok=true means a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed subject in a validly signed token; fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// UserID returns the caller's ObjectID or an Unauthenticated error.
func UserID(r *http.Request) (primitive.ObjectID, error) {
	_, _, id, ok := UserCtx(r)
	if !ok {
		return primitive.NilObjectID, apperr.Unauthenticated("sign in required")
	}
	return id, nil
}

// IsModerator reports whether the current request's user is a moderator.
func IsModerator(r *http.Request) bool {
	return HasRole(r, models.RoleModerator)
}

// ParseID parses a hex ObjectID from a path or body value; what names the
// field in the error message.
func ParseID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, apperr.Clientf("invalid %s id", what)
	}
	return id, nil
}
