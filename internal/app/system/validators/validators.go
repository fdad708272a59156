// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/campushub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("organizations", orgsSchema())

	// Content
	ensure(models.KindAcademic.Collection(), academicsSchema())
	ensure(models.KindEvent.Collection(), eventsSchema())
	ensure(models.KindReport.Collection(), reportItemsSchema())

	ensure("notifications", notificationsSchema())
	ensure("messages", messagesSchema())

	// Relationship collections are shaped by their unique indexes.
	ensure("saved_items", nil)
	ensure("event_subscribers", nil)
	ensure("search_history", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func nonBlank() bson.M {
	return bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"firstname", "lastname", "email", "role"},
			"properties": bson.M{
				"firstname": nonBlank(),
				"lastname":  nonBlank(),
				"email":     nonBlank(),
				"role":      bson.M{"enum": bson.A{models.RoleUser, models.RoleModerator}},
				"following": bson.M{"bsonType": bson.A{"array", "null"}, "items": bson.M{"bsonType": "objectId"}},
			},
		},
	}
}

func orgsSchema() bson.M {
	courses := bson.A{}
	for _, c := range models.CourseValues() {
		courses = append(courses, c)
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "course", "head_id", "members"},
			"properties": bson.M{
				"name":    nonBlank(),
				"name_ci": nonBlank(),
				"course":  bson.M{"enum": courses},
				"head_id": bson.M{"bsonType": "objectId"},
				"members": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
			},
		},
	}
}

func academicsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "content", "image", "posted_by", "organization_id", "created_at"},
			"properties": bson.M{
				"title":           nonBlank(),
				"content":         nonBlank(),
				"image":           nonBlank(),
				"posted_by":       bson.M{"bsonType": "objectId"},
				"organization_id": bson.M{"bsonType": "objectId"},
				"created_at":      bson.M{"bsonType": "date"},
			},
		},
	}
}

func eventsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"event_name", "start_date", "end_date", "image", "posted_by", "organization_id", "created_at"},
			"properties": bson.M{
				"event_name":      nonBlank(),
				"start_date":      bson.M{"bsonType": "date"},
				"end_date":        bson.M{"bsonType": "date"},
				"image":           nonBlank(),
				"posted_by":       bson.M{"bsonType": "objectId"},
				"organization_id": bson.M{"bsonType": "objectId"},
				"created_at":      bson.M{"bsonType": "date"},
			},
		},
	}
}

func reportItemsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"report_type", "item_name", "description", "image", "posted_by", "status", "created_at"},
			"properties": bson.M{
				"report_type": bson.M{"enum": bson.A{models.ReportLost, models.ReportFound}},
				"item_name":   nonBlank(),
				"description": nonBlank(),
				"image":       nonBlank(),
				"posted_by":   bson.M{"bsonType": "objectId"},
				"status": bson.M{"enum": bson.A{
					models.ReportStatusActive, models.ReportStatusClaimed, models.ReportStatusRecovered,
				}},
				"witnesses":  bson.M{"bsonType": bson.A{"array", "null"}},
				"created_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func notificationsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"recipient_id", "type", "ref_kind", "ref_id", "is_read", "created_at"},
			"properties": bson.M{
				"recipient_id": bson.M{"bsonType": "objectId"},
				"type":         bson.M{"enum": bson.A{models.NotifyNewPost, models.NotifyMention, models.NotifySystem}},
				"ref_kind": bson.M{"enum": bson.A{
					string(models.KindAcademic), string(models.KindEvent), string(models.KindReport),
				}},
				"ref_id":     bson.M{"bsonType": "objectId"},
				"is_read":    bson.M{"bsonType": "bool"},
				"created_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func messagesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"sender_id", "receiver_id", "text", "is_read", "created_at"},
			"properties": bson.M{
				"sender_id":   bson.M{"bsonType": "objectId"},
				"receiver_id": bson.M{"bsonType": "objectId"},
				"text":        nonBlank(),
				"is_read":     bson.M{"bsonType": "bool"},
				"created_at":  bson.M{"bsonType": "date"},
			},
		},
	}
}
