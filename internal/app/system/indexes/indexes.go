// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, set := range collectionSets {
		if err := ensureIndexSet(ctx, db.Collection(set.name), set.models); err != nil {
			problems = append(problems, set.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

// duplicateFinders gives operators a query to locate rows that block a
// unique index, keyed by "collection|keys".
var duplicateFinders = map[string]string{
	"users|email:1":                           `db.users.aggregate([{ $group: { _id: "$email", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`,
	"organizations|name_ci:1":                 `db.organizations.aggregate([{ $group: { _id: "$name_ci", n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`,
	"event_subscribers|event_id:1, user_id:1": `db.event_subscribers.aggregate([{ $group: { _id: { e: "$event_id", u: "$user_id" }, n: { $sum: 1 } } }, { $match: { n: { $gt: 1 } } }])`,
}

func createFailure(coll, name, sig string, unique *bool, err error) string {
	if isDuplicateKeyErr(err) && unique != nil && *unique {
		helper := ""
		if q, ok := duplicateFinders[coll+"|"+sig]; ok {
			helper = ". Duplicates can be found with:\n" + q
		}
		return fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)%s", coll, name, helper)
	}
	return fmt.Sprintf("%s(%s): %v", coll, name, err)
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique))

		// 1) Load existing indexes
		existing := map[string]existingIndex{} // sig -> index
		cur, err := coll.Indexes().List(ctx)
		if err == nil {
			defer cur.Close(ctx)
			for cur.Next(ctx) {
				var idx existingIndex
				if err := cur.Decode(&idx); err != nil {
					zap.L().Warn("failed to decode existing index",
						zap.String("collection", coll.Name()),
						zap.Error(err))
					continue
				}
				existing[keySig(idx.Key)] = idx
			}
		}

		if ex, ok := existing[desiredSig]; ok {
			// Same key pattern exists already.
			if sameBoolPtr(desiredUnique, ex.Unique) {
				// --- Name alignment: if the name differs, drop & recreate with the desired name.
				if desiredName != "" && ex.Name != desiredName {
					zap.L().Info("renaming index to align with desired name",
						zap.String("collection", coll.Name()),
						zap.String("from", ex.Name),
						zap.String("to", desiredName),
						zap.String("keys", desiredSig))

					if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
						zap.L().Warn("drop existing index (rename) failed",
							zap.String("collection", coll.Name()),
							zap.String("name", ex.Name),
							zap.Error(err))
						errs = append(errs, fmt.Sprintf("%s(%s): rename drop failed: %v", coll.Name(), desiredName, err))
						continue
					}
					if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
						zap.L().Warn("create index (rename) failed",
							zap.String("collection", coll.Name()),
							zap.String("name", desiredName),
							zap.Error(err))
						errs = append(errs, fmt.Sprintf("%s(%s): rename create failed: %v", coll.Name(), desiredName, err))
						continue
					}
					zap.L().Info("index renamed",
						zap.String("collection", coll.Name()),
						zap.String("name", desiredName),
						zap.String("keys", desiredSig),
						zap.String("took", time.Since(start).String()))
					continue
				}

				// Names aligned (or we don't care) → reuse
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Bool("unique", ex.Unique != nil && *ex.Unique),
					zap.String("took", time.Since(start).String()))
				continue
			}

			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				zap.L().Warn("drop existing index failed",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				errs = append(errs, createFailure(coll.Name(), desiredName, desiredSig, desiredUnique, err))
				continue
			}
			zap.L().Info("index dropped and recreated",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
			continue
		}

		// 2) No existing index with the same keys: create it.
		if created, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				cur2, e2 := coll.Indexes().List(ctx)
				if e2 == nil {
					var match *existingIndex
					for cur2.Next(ctx) {
						var idx existingIndex
						if err := cur2.Decode(&idx); err != nil {
							zap.L().Warn("failed to decode existing index (post-conflict)",
								zap.String("collection", coll.Name()),
								zap.Error(err))
							continue
						}
						if keySig(idx.Key) == desiredSig {
							match = &idx
							break
						}
					}
					cur2.Close(ctx)
					if match != nil {
						if sameBoolPtr(desiredUnique, match.Unique) {
							zap.L().Info("reusing existing index (post-conflict)",
								zap.String("collection", coll.Name()),
								zap.String("name", match.Name),
								zap.String("keys", desiredSig),
								zap.Bool("unique", match.Unique != nil && *match.Unique),
								zap.String("took", time.Since(start).String()))
							continue
						}
						if _, dropErr := coll.Indexes().DropOne(ctx, match.Name); dropErr != nil {
							zap.L().Warn("failed to drop conflicting index",
								zap.String("collection", coll.Name()),
								zap.String("name", match.Name),
								zap.Error(dropErr))
						}
						if _, e3 := coll.Indexes().CreateOne(ctx, m); e3 != nil {
							errs = append(errs, createFailure(coll.Name(), desiredName, desiredSig, desiredUnique, e3))
							continue
						}
						zap.L().Info("index dropped and recreated (post-conflict)",
							zap.String("collection", coll.Name()),
							zap.String("name", desiredName),
							zap.String("keys", desiredSig),
							zap.Bool("unique", desiredUnique != nil && *desiredUnique),
							zap.String("took", time.Since(start).String()))
						continue
					}
				}

				zap.L().Warn("index ensure failed",
					zap.String("collection", coll.Name()),
					zap.String("name", desiredName),
					zap.String("keys", desiredSig),
					zap.Bool("unique", desiredUnique != nil && *desiredUnique),
					zap.String("took", time.Since(start).String()),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				continue
			}

			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		} else {
			zap.L().Info("index ensured",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("created_name", created),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

type collectionSet struct {
	name   string
	models []mongo.IndexModel
}

func idx(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

func uniq(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true).SetName(name)}
}

// contentIndexes covers the feed scopes: home (org + recency), profile
// (author + recency) and the unfiltered recency scan.
func contentIndexes(prefix string) []mongo.IndexModel {
	return []mongo.IndexModel{
		idx("idx_"+prefix+"_created", bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
		idx("idx_"+prefix+"_postedby_created", bson.D{{Key: "posted_by", Value: 1}, {Key: "created_at", Value: -1}}),
	}
}

var collectionSets = []collectionSet{
	{"users", []mongo.IndexModel{
		// Email must be unique across all users
		uniq("uniq_users_email", bson.D{{Key: "email", Value: 1}}),
		// Follower lookups for fan-out and org deletion
		idx("idx_users_following", bson.D{{Key: "following", Value: 1}}),
		idx("idx_users_role", bson.D{{Key: "role", Value: 1}}),
	}},
	{"organizations", []mongo.IndexModel{
		// Enforce global uniqueness of organization names (case/diacritics folded).
		uniq("uniq_orgs_nameci", bson.D{{Key: "name_ci", Value: 1}}),
		idx("idx_orgs_course_nameci", bson.D{{Key: "course", Value: 1}, {Key: "name_ci", Value: 1}}),
		idx("idx_orgs_head", bson.D{{Key: "head_id", Value: 1}}),
	}},
	{"academics", append(contentIndexes("academics"),
		idx("idx_academics_org_created", bson.D{{Key: "organization_id", Value: 1}, {Key: "created_at", Value: -1}}),
	)},
	{"events", append(contentIndexes("events"),
		idx("idx_events_org_created", bson.D{{Key: "organization_id", Value: 1}, {Key: "created_at", Value: -1}}),
		// Reminder window scan
		idx("idx_events_start", bson.D{{Key: "start_date", Value: 1}}),
	)},
	{"report_items", append(contentIndexes("reports"),
		idx("idx_reports_status", bson.D{{Key: "status", Value: 1}}),
	)},
	{"event_subscribers", []mongo.IndexModel{
		uniq("uniq_subs_event_user", bson.D{{Key: "event_id", Value: 1}, {Key: "user_id", Value: 1}}),
		idx("idx_subs_event_notified", bson.D{{Key: "event_id", Value: 1}, {Key: "is_notified", Value: 1}}),
		idx("idx_subs_event_claim", bson.D{{Key: "event_id", Value: 1}, {Key: "claim_token", Value: 1}}),
	}},
	{"saved_items", []mongo.IndexModel{
		uniq("uniq_saved_user_ref", bson.D{{Key: "user_id", Value: 1}, {Key: "ref_kind", Value: 1}, {Key: "ref_id", Value: 1}}),
		// Cascade deletes by content
		idx("idx_saved_ref", bson.D{{Key: "ref_kind", Value: 1}, {Key: "ref_id", Value: 1}}),
	}},
	{"notifications", []mongo.IndexModel{
		idx("idx_notes_recipient_created", bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
		idx("idx_notes_recipient_unread", bson.D{{Key: "recipient_id", Value: 1}, {Key: "is_read", Value: 1}}),
		idx("idx_notes_ref", bson.D{{Key: "ref_kind", Value: 1}, {Key: "ref_id", Value: 1}}),
	}},
	{"messages", []mongo.IndexModel{
		idx("idx_messages_sender_receiver_created", bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}, {Key: "created_at", Value: 1}}),
		idx("idx_messages_receiver_read", bson.D{{Key: "receiver_id", Value: 1}, {Key: "is_read", Value: 1}}),
	}},
	{"search_history", []mongo.IndexModel{
		uniq("uniq_search_user_query_context", bson.D{{Key: "user_id", Value: 1}, {Key: "query", Value: 1}, {Key: "context", Value: 1}}),
		idx("idx_search_user_updated", bson.D{{Key: "user_id", Value: 1}, {Key: "updated_at", Value: -1}}),
	}},
	{"audit_events", []mongo.IndexModel{
		idx("idx_audit_timestamp", bson.D{{Key: "timestamp", Value: -1}}),
		idx("idx_audit_category_timestamp", bson.D{{Key: "category", Value: 1}, {Key: "timestamp", Value: -1}}),
		idx("idx_audit_actor_timestamp", bson.D{{Key: "actor_id", Value: 1}, {Key: "timestamp", Value: -1}}),
	}},
}
