// internal/app/system/orgutil/orgs.go
package orgutil

import (
	"context"
	"errors"
	"net/http"

	organizationstore "github.com/dalemusser/campushub/internal/app/store/organizations"
	"github.com/dalemusser/campushub/internal/app/system/apperr"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Load returns the organization or a NotFound error.
func Load(ctx context.Context, db *mongo.Database, orgID primitive.ObjectID) (models.Organization, error) {
	org, err := organizationstore.New(db).GetByID(ctx, orgID)
	if errors.Is(err, organizationstore.ErrNotFound) {
		return org, apperr.NotFound("Organization not found")
	}
	if err != nil {
		return org, apperr.Server("failed to load organization", err)
	}
	return org, nil
}

// RequireHead loads the organization and confirms userID heads it. Only
// the head may publish academic posts and events for an organization.
func RequireHead(ctx context.Context, db *mongo.Database, orgID, userID primitive.ObjectID) (models.Organization, error) {
	org, err := Load(ctx, db, orgID)
	if err != nil {
		return org, err
	}
	if org.HeadID != userID {
		return org, apperr.Forbidden("Only the organization head can manage its posts.")
	}
	return org, nil
}

// RequireManager loads the organization and confirms the caller is its
// head or a moderator.
func RequireManager(ctx context.Context, db *mongo.Database, r *http.Request, orgID primitive.ObjectID) (models.Organization, error) {
	org, err := Load(ctx, db, orgID)
	if err != nil {
		return org, err
	}
	if !authz.CanManageOrg(r, org.HeadID) {
		return org, apperr.Forbidden("Only the organization head or a moderator can change this organization.")
	}
	return org, nil
}
