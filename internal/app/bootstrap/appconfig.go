// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/campushub/internal/app/system/timeouts"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, log level, request limits); AppConfig
// is everything CampusHub itself needs.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Optional Redis for the cross-instance reminder lease. Empty disables it.
	RedisURL string

	// Bearer token verification
	JWTSecret string
	JWTIssuer string

	// Browser origins allowed by CORS
	CORSAllowedOrigins []string

	// Fan-out engine sizing
	FanoutWorkers   int
	FanoutQueueSize int

	// Background jobs
	ReminderInterval        time.Duration // sweep period and window width
	ReminderLead            time.Duration // how far ahead of the start reminders go out
	MemberReconcileInterval time.Duration

	// Write requests allowed per caller per minute (0 disables limiting)
	RateLimitPerMinute int

	// Audit logging mode for moderation and content events: all, db, log, off
	AuditLogAdmin string

	// I/O deadlines, applied before the first connection
	Timeouts timeouts.Config
}
