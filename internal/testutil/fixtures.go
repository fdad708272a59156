package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Calling it again on the same request adds to the existing params.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a user with role "user" in the given course.
func (f *Fixtures) CreateUser(ctx context.Context, firstname, lastname, email, course string) models.User {
	f.t.Helper()
	return f.createUser(ctx, firstname, lastname, email, course, models.RoleUser)
}

// CreateModerator creates a user with role "moderator".
func (f *Fixtures) CreateModerator(ctx context.Context, firstname, lastname, email string) models.User {
	f.t.Helper()
	return f.createUser(ctx, firstname, lastname, email, "BS Information Technology", models.RoleModerator)
}

func (f *Fixtures) createUser(ctx context.Context, firstname, lastname, email, course, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:          primitive.NewObjectID(),
		Firstname:   firstname,
		Lastname:    lastname,
		Email:       strings.ToLower(email),
		Course:      course,
		ProfileLink: "https://media.test/" + firstname + ".png",
		Role:        role,
		Following:   []primitive.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateOrganization creates an organization headed by headID in the
// BS Information Technology course.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string, headID primitive.ObjectID) models.Organization {
	f.t.Helper()
	return f.CreateOrganizationForCourse(ctx, name, "BS Information Technology", headID)
}

// CreateOrganizationForCourse creates an organization for a specific course.
func (f *Fixtures) CreateOrganizationForCourse(ctx context.Context, name, course string, headID primitive.ObjectID) models.Organization {
	f.t.Helper()

	now := time.Now().UTC()
	org := models.Organization{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: name + " description",
		ProfileLink: "https://media.test/org.png",
		Course:      course,
		HeadID:      headID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("organizations").InsertOne(ctx, org); err != nil {
		f.t.Fatalf("failed to create test organization: %v", err)
	}
	return org
}

// Follow adds orgID to the user's follow set and bumps the member counter.
func (f *Fixtures) Follow(ctx context.Context, userID, orgID primitive.ObjectID) {
	f.t.Helper()

	if _, err := f.db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"following": orgID}},
	); err != nil {
		f.t.Fatalf("failed to follow organization: %v", err)
	}
	if _, err := f.db.Collection("organizations").UpdateOne(ctx,
		bson.M{"_id": orgID},
		bson.M{"$inc": bson.M{"members": 1}},
	); err != nil {
		f.t.Fatalf("failed to bump member counter: %v", err)
	}
}

// CreateAcademic creates an academic post with the given creation time.
func (f *Fixtures) CreateAcademic(ctx context.Context, title string, orgID, authorID primitive.ObjectID, createdAt time.Time) models.AcademicPost {
	f.t.Helper()

	p := models.AcademicPost{
		ID:             primitive.NewObjectID(),
		Title:          title,
		Content:        title + " content",
		Image:          "https://media.test/a.png",
		PostedBy:       authorID,
		OrganizationID: orgID,
		Comments:       []models.Comment{},
		CreatedAt:      createdAt.UTC(),
		UpdatedAt:      createdAt.UTC(),
	}
	if _, err := f.db.Collection("academics").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test academic post: %v", err)
	}
	return p
}

// CreateEvent creates an event starting at start.
func (f *Fixtures) CreateEvent(ctx context.Context, name string, orgID, authorID primitive.ObjectID, start, createdAt time.Time) models.EventPost {
	f.t.Helper()

	e := models.EventPost{
		ID:             primitive.NewObjectID(),
		EventName:      name,
		Location:       "Main Hall",
		Course:         "BS Information Technology",
		OpenTo:         "All",
		StartDate:      start.UTC(),
		EndDate:        start.Add(2 * time.Hour).UTC(),
		Image:          "https://media.test/e.png",
		PostedBy:       authorID,
		OrganizationID: orgID,
		Comments:       []models.Comment{},
		CreatedAt:      createdAt.UTC(),
		UpdatedAt:      createdAt.UTC(),
	}
	if _, err := f.db.Collection("events").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return e
}

// CreateReport creates an active Lost report.
func (f *Fixtures) CreateReport(ctx context.Context, itemName string, authorID primitive.ObjectID, createdAt time.Time) models.ReportItem {
	f.t.Helper()

	r := models.ReportItem{
		ID:              primitive.NewObjectID(),
		ReportType:      models.ReportLost,
		ItemName:        itemName,
		Description:     itemName + " description",
		LocationDetails: "Library",
		ContactDetails:  "0917",
		DateLostOrFound: createdAt.UTC(),
		Image:           "https://media.test/r.png",
		PostedBy:        authorID,
		Status:          models.ReportStatusActive,
		Witnesses:       []models.Witness{},
		Comments:        []models.Comment{},
		CreatedAt:       createdAt.UTC(),
		UpdatedAt:       createdAt.UTC(),
	}
	if _, err := f.db.Collection("report_items").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test report: %v", err)
	}
	return r
}

// Subscribe creates an un-notified event subscription.
func (f *Fixtures) Subscribe(ctx context.Context, eventID, userID primitive.ObjectID) models.EventSubscription {
	f.t.Helper()

	s := models.EventSubscription{
		ID:        primitive.NewObjectID(),
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("event_subscribers").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test subscription: %v", err)
	}
	return s
}

// Save bookmarks ref for userID.
func (f *Fixtures) Save(ctx context.Context, userID primitive.ObjectID, ref models.ContentRef) models.SavedItem {
	f.t.Helper()

	s := models.SavedItem{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Ref:       ref,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("saved_items").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test saved item: %v", err)
	}
	return s
}

// CreateNotification inserts an unread notification for recipientID.
func (f *Fixtures) CreateNotification(ctx context.Context, recipientID primitive.ObjectID, ref models.ContentRef, msg string, createdAt time.Time) models.Notification {
	f.t.Helper()

	n := models.Notification{
		ID:          primitive.NewObjectID(),
		RecipientID: recipientID,
		Type:        models.NotifyNewPost,
		Ref:         ref,
		Message:     msg,
		CreatedAt:   createdAt.UTC(),
	}
	if _, err := f.db.Collection("notifications").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}

// Count returns the number of documents in coll matching filter.
func (f *Fixtures) Count(ctx context.Context, coll string, filter bson.M) int64 {
	f.t.Helper()

	n, err := f.db.Collection(coll).CountDocuments(ctx, filter)
	if err != nil {
		f.t.Fatalf("CountDocuments(%s) failed: %v", coll, err)
	}
	return n
}
