// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageSize is the default number of rows returned by paged lists.
const PageSize = 30

// MaxPageSize caps the "limit" query parameter.
const MaxPageSize = 100

// LimitPlusOne returns size+1 as int64 for look-ahead pagination
// (fetch one extra document to detect hasMore).
func LimitPlusOne(size int) int64 { return int64(size + 1) }

// ParseLimit reads the "limit" query parameter, falling back to PageSize
// and clamping to MaxPageSize.
func ParseLimit(r *http.Request) int {
	s := query.Get(r, "limit")
	if s == "" {
		return PageSize
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return PageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// TrimPage trims rows fetched with LimitPlusOne(size) back to size and
// reports whether an older page exists.
func TrimPage[T any](rows *[]T, size int) (hasMore bool) {
	if len(*rows) > size {
		*rows = (*rows)[:size]
		return true
	}
	return false
}

// TimeCursor is a keyset position on (created_at, _id), both descending.
type TimeCursor struct {
	At time.Time
	ID primitive.ObjectID
}

// EncodeTimeCursor turns a row position into an opaque cursor string.
func EncodeTimeCursor(at time.Time, id primitive.ObjectID) string {
	return wafflemongo.EncodeCursor(at.UTC().Format(time.RFC3339Nano), id)
}

// DecodeTimeCursor parses a cursor produced by EncodeTimeCursor.
func DecodeTimeCursor(s string) (TimeCursor, bool) {
	if s == "" {
		return TimeCursor{}, false
	}
	c, ok := wafflemongo.DecodeCursor(s)
	if !ok {
		return TimeCursor{}, false
	}
	at, err := time.Parse(time.RFC3339Nano, c.CI)
	if err != nil {
		return TimeCursor{}, false
	}
	return TimeCursor{At: at, ID: c.ID}, true
}

// Before returns the filter selecting rows strictly older than c on
// (field, _id). Pair it with a descending sort on the same keys.
func (c TimeCursor) Before(field string) bson.M {
	return bson.M{"$or": []bson.M{
		{field: bson.M{"$lt": c.At}},
		{field: c.At, "_id": bson.M{"$lt": c.ID}},
	}}
}

// SortNewest is the sort matching TimeCursor.Before.
func SortNewest(field string) bson.D {
	return bson.D{{Key: field, Value: -1}, {Key: "_id", Value: -1}}
}

// NextCursor builds the cursor for the page after rows, or "" when there
// is none.
func NextCursor[T any](rows []T, hasMore bool, atFn func(T) time.Time, idFn func(T) primitive.ObjectID) string {
	if !hasMore || len(rows) == 0 {
		return ""
	}
	last := rows[len(rows)-1]
	return EncodeTimeCursor(atFn(last), idFn(last))
}
