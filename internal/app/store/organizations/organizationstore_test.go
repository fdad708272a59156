package organizationstore_test

import (
	"errors"
	"testing"

	organizationstore "github.com/dalemusser/campushub/internal/app/store/organizations"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Organization{
		Name:   "NetAdmin Squad",
		Course: "BS Information Technology",
		HeadID: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI != "netadmin squad" {
		t.Errorf("NameCI: got %q, want %q", created.NameCI, "netadmin squad")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, organizationstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_AddMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Robotics", primitive.NewObjectID())

	n, err := store.AddMembers(ctx, org.ID, 1)
	if err != nil {
		t.Fatalf("AddMembers failed: %v", err)
	}
	if n != 1 {
		t.Errorf("members after +1: got %d, want 1", n)
	}
	n, err = store.AddMembers(ctx, org.ID, -1)
	if err != nil {
		t.Fatalf("AddMembers failed: %v", err)
	}
	if n != 0 {
		t.Errorf("members after -1: got %d, want 0", n)
	}

	if _, err := store.AddMembers(ctx, primitive.NewObjectID(), 1); !errors.Is(err, organizationstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing org, got %v", err)
	}
}

func TestStore_SetMemberCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateOrganization(ctx, "Alpha", primitive.NewObjectID())
	b := fixtures.CreateOrganization(ctx, "Beta", primitive.NewObjectID())
	if _, err := store.AddMembers(ctx, b.ID, 7); err != nil {
		t.Fatalf("AddMembers failed: %v", err)
	}

	changed, err := store.SetMemberCounts(ctx, map[primitive.ObjectID]int{a.ID: 2})
	if err != nil {
		t.Fatalf("SetMemberCounts failed: %v", err)
	}
	if changed != 2 {
		t.Errorf("changed: got %d, want 2", changed)
	}

	if n, _ := store.Members(ctx, a.ID); n != 2 {
		t.Errorf("Alpha members: got %d, want 2", n)
	}
	if n, _ := store.Members(ctx, b.ID); n != 0 {
		t.Errorf("Beta members: got %d, want 0", n)
	}
}

func TestStore_UpsertByName_KeepsCounter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	head := primitive.NewObjectID()
	first, err := store.UpsertByName(ctx, models.Organization{Name: "CS Society", Course: "BS Computer Science", HeadID: head})
	if err != nil {
		t.Fatalf("UpsertByName failed: %v", err)
	}
	if _, err := store.AddMembers(ctx, first.ID, 3); err != nil {
		t.Fatalf("AddMembers failed: %v", err)
	}

	second, err := store.UpsertByName(ctx, models.Organization{Name: "cs society", Course: "BS Computer Science", HeadID: head, Description: "updated"})
	if err != nil {
		t.Fatalf("UpsertByName (again) failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("expected same organization, got %s vs %s", second.ID.Hex(), first.ID.Hex())
	}
	if second.Members != 3 {
		t.Errorf("members: got %d, want 3", second.Members)
	}
	if second.Description != "updated" {
		t.Errorf("description: got %q, want %q", second.Description, "updated")
	}
}

func TestStore_Summaries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organizationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	head := primitive.NewObjectID()
	org := fixtures.CreateOrganization(ctx, "Chess Club", head)

	got, err := store.Summaries(ctx, []primitive.ObjectID{org.ID, primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Summaries failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(got))
	}
	if got[org.ID].Name != "Chess Club" || got[org.ID].HeadID != head {
		t.Errorf("unexpected summary: %+v", got[org.ID])
	}
}
