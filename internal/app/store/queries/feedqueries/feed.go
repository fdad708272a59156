package feedqueries

import (
	"context"
	"errors"
	"sort"

	academicstore "github.com/dalemusser/campushub/internal/app/store/academics"
	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	reportstore "github.com/dalemusser/campushub/internal/app/store/reports"
	savedstore "github.com/dalemusser/campushub/internal/app/store/saved"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned by One when the referenced item does not exist.
var ErrNotFound = errors.New("content not found")

// rawSet holds the unresolved query results. Each variant is written by
// exactly one goroutine.
type rawSet struct {
	academics []models.AcademicPost
	events    []models.EventPost
	reports   []models.ReportItem
}

func (r *rawSet) fetch(ctx context.Context, db *mongo.Database, kind models.ContentKind, filter bson.M) error {
	var err error
	switch kind {
	case models.KindAcademic:
		r.academics, err = academicstore.New(db).Find(ctx, filter)
	case models.KindEvent:
		r.events, err = eventstore.New(db).Find(ctx, filter)
	case models.KindReport:
		r.reports, err = reportstore.New(db).Find(ctx, filter)
	}
	return err
}

func (r *rawSet) len() int {
	return len(r.academics) + len(r.events) + len(r.reports)
}

// List runs the three variant queries for scope concurrently, resolves
// identities and returns the merged feed, newest first. Any query failure
// fails the whole call.
func List(ctx context.Context, db *mongo.Database, scope Scope) ([]FeedItem, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}

	var saved map[models.ContentKind][]primitive.ObjectID
	if scope.kind == scopeSaved {
		var err error
		saved, err = savedstore.New(db).IDsByKind(ctx, scope.userID)
		if err != nil {
			return nil, err
		}
		if len(saved) == 0 {
			return []FeedItem{}, nil
		}
	}

	var raw rawSet
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range models.AllContentKinds {
		filter, ok := scope.filterFor(kind, saved)
		if !ok {
			continue
		}
		kind := kind
		g.Go(func() error {
			return raw.fetch(gctx, db, kind, filter)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return build(ctx, db, &raw, scope.resolveHeads())
}

// One loads a single item with identities resolved.
func One(ctx context.Context, db *mongo.Database, ref models.ContentRef) (FeedItem, error) {
	var raw rawSet
	if err := raw.fetch(ctx, db, ref.Kind, bson.M{"_id": ref.ID}); err != nil {
		return FeedItem{}, err
	}
	if raw.len() == 0 {
		return FeedItem{}, ErrNotFound
	}
	items, err := build(ctx, db, &raw, true)
	if err != nil {
		return FeedItem{}, err
	}
	return items[0], nil
}

// build resolves identities, tags every item and merges by created_at
// descending.
func build(ctx context.Context, db *mongo.Database, raw *rawSet, withHeads bool) ([]FeedItem, error) {
	ids, err := resolve(ctx, db, raw, withHeads)
	if err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, raw.len())
	for _, p := range raw.academics {
		items = append(items, FeedItem{
			Kind:      models.KindAcademic,
			CreatedAt: p.CreatedAt,
			Academic: &AcademicView{
				FeedType:     models.KindAcademic.FeedType(),
				ID:           p.ID,
				Title:        p.Title,
				Content:      p.Content,
				Image:        p.Image,
				PostedBy:     ids.user(p.PostedBy),
				Organization: ids.org(p.OrganizationID),
				Comments:     ids.comments(p.Comments),
				CreatedAt:    p.CreatedAt,
				UpdatedAt:    p.UpdatedAt,
			},
		})
	}
	for _, e := range raw.events {
		items = append(items, FeedItem{
			Kind:      models.KindEvent,
			CreatedAt: e.CreatedAt,
			Event: &EventView{
				FeedType:     models.KindEvent.FeedType(),
				ID:           e.ID,
				EventName:    e.EventName,
				Location:     e.Location,
				Course:       e.Course,
				OpenTo:       e.OpenTo,
				StartDate:    e.StartDate,
				EndDate:      e.EndDate,
				Image:        e.Image,
				PostedBy:     ids.user(e.PostedBy),
				Organization: ids.org(e.OrganizationID),
				Comments:     ids.comments(e.Comments),
				CreatedAt:    e.CreatedAt,
				UpdatedAt:    e.UpdatedAt,
			},
		})
	}
	for _, r := range raw.reports {
		witnesses := make([]WitnessView, len(r.Witnesses))
		for i, w := range r.Witnesses {
			witnesses[i] = WitnessView{User: ids.user(w.UserID), VouchTime: w.VouchTime}
		}
		items = append(items, FeedItem{
			Kind:      models.KindReport,
			CreatedAt: r.CreatedAt,
			Report: &ReportView{
				FeedType:        models.KindReport.FeedType(),
				ID:              r.ID,
				ReportType:      r.ReportType,
				ItemName:        r.ItemName,
				Description:     r.Description,
				TurnOver:        r.TurnOver,
				LocationDetails: r.LocationDetails,
				ContactDetails:  r.ContactDetails,
				DateLostOrFound: r.DateLostOrFound,
				Image:           r.Image,
				Status:          r.Status,
				PostedBy:        ids.user(r.PostedBy),
				Witnesses:       witnesses,
				Comments:        ids.comments(r.Comments),
				CreatedAt:       r.CreatedAt,
				UpdatedAt:       r.UpdatedAt,
			},
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
