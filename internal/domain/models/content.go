// internal/domain/models/content.go
package models

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentKind discriminates the three content variants. The set is closed;
// every switch over it must handle all three.
type ContentKind string

const (
	KindAcademic ContentKind = "Academic"
	KindEvent    ContentKind = "Event"
	KindReport   ContentKind = "ReportItem"
)

// AllContentKinds is in feed query order.
var AllContentKinds = []ContentKind{KindReport, KindEvent, KindAcademic}

// ParseContentKind accepts the stored model name ("Academic", "Event",
// "ReportItem") or the feed tag ("academic", "event", "report").
func ParseContentKind(s string) (ContentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "academic":
		return KindAcademic, nil
	case "event":
		return KindEvent, nil
	case "reportitem", "report":
		return KindReport, nil
	}
	return "", fmt.Errorf("unknown content kind %q", s)
}

// Valid reports whether k is one of the three known kinds.
func (k ContentKind) Valid() bool {
	switch k {
	case KindAcademic, KindEvent, KindReport:
		return true
	}
	return false
}

// Collection returns the Mongo collection that stores k.
func (k ContentKind) Collection() string {
	switch k {
	case KindAcademic:
		return "academics"
	case KindEvent:
		return "events"
	case KindReport:
		return "report_items"
	}
	panic("models: unknown content kind " + string(k))
}

// FeedType returns the lowercase tag clients use to pick a renderer.
func (k ContentKind) FeedType() string {
	switch k {
	case KindAcademic:
		return "academic"
	case KindEvent:
		return "event"
	case KindReport:
		return "report"
	}
	panic("models: unknown content kind " + string(k))
}

// ContentRef points at one content item. Notifications and saved items
// embed it inline so the kind always travels with the id.
type ContentRef struct {
	Kind ContentKind        `bson:"ref_kind" json:"referenceModel"`
	ID   primitive.ObjectID `bson:"ref_id" json:"referenceId"`
}

// Ref builds a ContentRef.
func Ref(kind ContentKind, id primitive.ObjectID) ContentRef {
	return ContentRef{Kind: kind, ID: id}
}

func (r ContentRef) String() string {
	return string(r.Kind) + ":" + r.ID.Hex()
}
