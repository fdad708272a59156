// Package cascade deletes content together with everything that points at
// it. Dependents go first so a delete retried after a partial failure still
// finds its target and converges.
package cascade

import (
	"context"
	"fmt"

	academicstore "github.com/dalemusser/campushub/internal/app/store/academics"
	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	notificationstore "github.com/dalemusser/campushub/internal/app/store/notifications"
	organizationstore "github.com/dalemusser/campushub/internal/app/store/organizations"
	reportstore "github.com/dalemusser/campushub/internal/app/store/reports"
	savedstore "github.com/dalemusser/campushub/internal/app/store/saved"
	subscriptionstore "github.com/dalemusser/campushub/internal/app/store/subscriptions"
	userstore "github.com/dalemusser/campushub/internal/app/store/users"
	"github.com/dalemusser/campushub/internal/app/system/txn"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ContentResult counts what a content cascade removed.
type ContentResult struct {
	Content       int64 `json:"content"`
	Notifications int64 `json:"notifications"`
	SavedItems    int64 `json:"savedItems"`
	Subscribers   int64 `json:"subscribers"`
}

func (r *ContentResult) add(o ContentResult) {
	r.Content += o.Content
	r.Notifications += o.Notifications
	r.SavedItems += o.SavedItems
	r.Subscribers += o.Subscribers
}

// OrgResult counts what an organization cascade removed.
type OrgResult struct {
	Organization  int64         `json:"organization"`
	FollowsPulled int64         `json:"followsPulled"`
	Academics     ContentResult `json:"academics"`
	Events        ContentResult `json:"events"`
}

// Content deletes the items of one kind and their notifications, saved
// items and (for events) subscriptions.
func Content(ctx context.Context, db *mongo.Database, kind models.ContentKind, ids []primitive.ObjectID) (ContentResult, error) {
	var res ContentResult
	if len(ids) == 0 {
		return res, nil
	}

	n, err := notificationstore.New(db).DeleteByRefs(ctx, kind, ids)
	if err != nil {
		return res, fmt.Errorf("delete notifications: %w", err)
	}
	res.Notifications = n

	n, err = savedstore.New(db).DeleteByRefs(ctx, kind, ids)
	if err != nil {
		return res, fmt.Errorf("delete saved items: %w", err)
	}
	res.SavedItems = n

	if kind == models.KindEvent {
		n, err = subscriptionstore.New(db).DeleteByEvents(ctx, ids)
		if err != nil {
			return res, fmt.Errorf("delete subscribers: %w", err)
		}
		res.Subscribers = n
	}

	for _, id := range ids {
		n, err := deleteOne(ctx, db, kind, id)
		if err != nil {
			return res, fmt.Errorf("delete %s: %w", kind, err)
		}
		res.Content += n
	}
	return res, nil
}

func deleteOne(ctx context.Context, db *mongo.Database, kind models.ContentKind, id primitive.ObjectID) (int64, error) {
	switch kind {
	case models.KindAcademic:
		return academicstore.New(db).Delete(ctx, id)
	case models.KindEvent:
		return eventstore.New(db).Delete(ctx, id)
	case models.KindReport:
		return reportstore.New(db).Delete(ctx, id)
	}
	return 0, fmt.Errorf("unknown content kind %q", kind)
}

// Organization pulls orgID from every follow set, removes its academic and
// event content with their dependents, then the organization itself.
func Organization(ctx context.Context, db *mongo.Database, orgID primitive.ObjectID) (OrgResult, error) {
	var res OrgResult

	pulled, err := userstore.New(db).RemoveOrgFromAll(ctx, orgID)
	if err != nil {
		return res, fmt.Errorf("pull follows: %w", err)
	}
	res.FollowsPulled = pulled

	academicIDs, err := academicstore.New(db).IDsByOrg(ctx, orgID)
	if err != nil {
		return res, fmt.Errorf("list academics: %w", err)
	}
	ar, err := Content(ctx, db, models.KindAcademic, academicIDs)
	res.Academics.add(ar)
	if err != nil {
		return res, err
	}

	eventIDs, err := eventstore.New(db).IDsByOrg(ctx, orgID)
	if err != nil {
		return res, fmt.Errorf("list events: %w", err)
	}
	er, err := Content(ctx, db, models.KindEvent, eventIDs)
	res.Events.add(er)
	if err != nil {
		return res, err
	}

	n, err := organizationstore.New(db).Delete(ctx, orgID)
	if err != nil {
		return res, fmt.Errorf("delete organization: %w", err)
	}
	res.Organization = n
	return res, nil
}

// PostsRemoved is the number of academic and event documents deleted.
func (r OrgResult) PostsRemoved() int {
	return int(r.Academics.Content + r.Events.Content)
}

// ContentTx runs Content for one item inside a transaction when the
// deployment supports it.
func ContentTx(ctx context.Context, db *mongo.Database, log *zap.Logger, ref models.ContentRef) (ContentResult, error) {
	var res ContentResult
	err := txn.Run(ctx, db.Client(), log, "delete "+ref.String(), func(ctx context.Context) error {
		r, err := Content(ctx, db, ref.Kind, []primitive.ObjectID{ref.ID})
		res = r
		return err
	})
	return res, err
}

// OrganizationTx runs Organization inside a transaction when the
// deployment supports it.
func OrganizationTx(ctx context.Context, db *mongo.Database, log *zap.Logger, orgID primitive.ObjectID) (OrgResult, error) {
	var res OrgResult
	err := txn.Run(ctx, db.Client(), log, "delete organization "+orgID.Hex(), func(ctx context.Context) error {
		r, err := Organization(ctx, db, orgID)
		res = r
		return err
	})
	return res, err
}
