// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/campushub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination modes for a category.
const (
	ModeAll = "all" // MongoDB + zap
	ModeDB  = "db"  // MongoDB only
	ModeLog = "log" // zap only
	ModeOff = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Moderation covers organization management and role changes.
	Moderation string
	// Content covers deletes and report status changes by owners.
	Content string
}

// Logger records audit events to MongoDB (via audit.Store) and zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.OrganizationID != nil {
		fields = append(fields, zap.String("organization_id", event.OrganizationID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handlers built in tests can omit it.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryModeration:
		setting = l.config.Moderation
	case audit.CategoryContent:
		setting = l.config.Content
	default:
		setting = ModeAll
	}

	if setting == ModeOff {
		return
	}
	if setting == ModeAll || setting == ModeLog {
		l.logToZap(event)
	}
	if setting == ModeAll || setting == ModeDB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Moderation Events ---

// OrgCreated logs when a moderator creates an organization.
func (l *Logger) OrgCreated(ctx context.Context, r *http.Request, actorID, orgID primitive.ObjectID, orgName string) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryModeration,
		EventType:      audit.EventOrgCreated,
		ActorID:        &actorID,
		OrganizationID: &orgID,
		IP:             getClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details:        map[string]string{"org_name": orgName},
	})
}

// OrgDeleted logs an organization cascade delete.
func (l *Logger) OrgDeleted(ctx context.Context, r *http.Request, actorID, orgID primitive.ObjectID, orgName string, postsRemoved int) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryModeration,
		EventType:      audit.EventOrgDeleted,
		ActorID:        &actorID,
		OrganizationID: &orgID,
		IP:             getClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
		Details: map[string]string{
			"org_name":      orgName,
			"posts_removed": strconv.Itoa(postsRemoved),
		},
	})
}

// OrgsSeeded logs a run of the organization catalogue seeder.
func (l *Logger) OrgsSeeded(ctx context.Context, r *http.Request, actorID primitive.ObjectID, seeded, promoted int) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryModeration,
		EventType: audit.EventOrgsSeeded,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"seeded":   strconv.Itoa(seeded),
			"promoted": strconv.Itoa(promoted),
		},
	})
}

// RolePromoted logs a user being given a new role.
func (l *Logger) RolePromoted(ctx context.Context, r *http.Request, actorID, userID primitive.ObjectID, role string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryModeration,
		EventType: audit.EventRolePromoted,
		ActorID:   &actorID,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"role": role},
	})
}

// OrgPictureChanged logs a head replacing their organization's picture.
func (l *Logger) OrgPictureChanged(ctx context.Context, r *http.Request, actorID, orgID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:       audit.CategoryModeration,
		EventType:      audit.EventOrgPicChanged,
		ActorID:        &actorID,
		OrganizationID: &orgID,
		IP:             getClientIP(r),
		UserAgent:      r.UserAgent(),
		Success:        true,
	})
}

// --- Content Events ---

// ContentDeleted logs a content item removed together with its dependents.
func (l *Logger) ContentDeleted(ctx context.Context, r *http.Request, actorID primitive.ObjectID, ref string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryContent,
		EventType: audit.EventContentDeleted,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"ref": ref},
	})
}

// ReportStatusChanged logs an owner moving a report through its lifecycle.
func (l *Logger) ReportStatusChanged(ctx context.Context, r *http.Request, actorID, reportID primitive.ObjectID, status string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryContent,
		EventType: audit.EventReportStatusChanged,
		ActorID:   &actorID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details: map[string]string{
			"report_id": reportID.Hex(),
			"status":    status,
		},
	})
}

// --- Security Events ---

// RateLimited logs a request rejected by the per-user limiter.
func (l *Logger) RateLimited(ctx context.Context, r *http.Request, key string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategorySecurity,
		EventType:     audit.EventRateLimited,
		IP:            getClientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       false,
		FailureReason: "rate limit exceeded",
		Details: map[string]string{
			"key":  key,
			"path": r.URL.Path,
		},
	})
}
