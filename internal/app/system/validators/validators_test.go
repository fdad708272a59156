package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/validators"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// EnsureAll should succeed on a clean database
	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expectedCollections := []string{
		"users",
		"organizations",
		"academics",
		"events",
		"report_items",
		"notifications",
		"messages",
		"saved_items",
		"event_subscribers",
		"search_history",
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}

	collMap := make(map[string]bool)
	for _, name := range names {
		collMap[name] = true
	}

	for _, expected := range expectedCollections {
		if !collMap[expected] {
			t.Errorf("expected collection %q to exist", expected)
		}
	}
}

func TestUsersValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	now := time.Now().UTC()

	good := models.User{
		ID:        primitive.NewObjectID(),
		Firstname: "Ana",
		Lastname:  "Reyes",
		Email:     "ana@campus.edu",
		Course:    "BS Information Technology",
		Role:      models.RoleUser,
		Following: []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := db.Collection("users").InsertOne(ctx, good); err != nil {
		t.Fatalf("valid user rejected: %v", err)
	}

	bad := good
	bad.ID = primitive.NewObjectID()
	bad.Email = "other@campus.edu"
	bad.Role = "superadmin"
	if _, err := db.Collection("users").InsertOne(ctx, bad); err == nil {
		t.Error("expected unknown role to be rejected")
	}

	blank := good
	blank.ID = primitive.NewObjectID()
	blank.Email = "blank@campus.edu"
	blank.Firstname = "   "
	if _, err := db.Collection("users").InsertOne(ctx, blank); err == nil {
		t.Error("expected blank first name to be rejected")
	}
}

func TestReportItemsValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	now := time.Now().UTC()

	good := models.ReportItem{
		ID:              primitive.NewObjectID(),
		ReportType:      models.ReportLost,
		ItemName:        "Blue umbrella",
		Description:     "Folding, wooden handle",
		DateLostOrFound: now,
		Image:           "https://media.test/r.png",
		PostedBy:        primitive.NewObjectID(),
		Status:          models.ReportStatusActive,
		Witnesses:       []models.Witness{},
		Comments:        []models.Comment{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := db.Collection("report_items").InsertOne(ctx, good); err != nil {
		t.Fatalf("valid report rejected: %v", err)
	}

	bad := good
	bad.ID = primitive.NewObjectID()
	bad.Status = "archived"
	if _, err := db.Collection("report_items").InsertOne(ctx, bad); err == nil {
		t.Error("expected unknown status to be rejected")
	}

	bad = good
	bad.ID = primitive.NewObjectID()
	bad.ReportType = "Stolen"
	if _, err := db.Collection("report_items").InsertOne(ctx, bad); err == nil {
		t.Error("expected unknown report type to be rejected")
	}

	bad = good
	bad.ID = primitive.NewObjectID()
	bad.Description = ""
	if _, err := db.Collection("report_items").InsertOne(ctx, bad); err == nil {
		t.Error("expected empty description to be rejected")
	}
}

func TestNotificationsValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	note := models.Notification{
		ID:          primitive.NewObjectID(),
		RecipientID: primitive.NewObjectID(),
		Type:        models.NotifySystem,
		Ref:         models.ContentRef{Kind: models.KindEvent, ID: primitive.NewObjectID()},
		Message:     "Reminder",
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := db.Collection("notifications").InsertOne(ctx, note); err != nil {
		t.Fatalf("valid notification rejected: %v", err)
	}

	_, err := db.Collection("notifications").InsertOne(ctx, bson.M{
		"recipient_id": primitive.NewObjectID(),
		"type":         models.NotifySystem,
		"ref_kind":     "Poll",
		"ref_id":       primitive.NewObjectID(),
		"is_read":      false,
		"created_at":   time.Now().UTC(),
	})
	if err == nil {
		t.Error("expected unknown ref kind to be rejected")
	}
}
