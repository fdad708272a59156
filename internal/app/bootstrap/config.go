// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const devJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for CampusHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: CAMPUSHUB_MONGO_URI, CAMPUSHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "campus_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "redis_url", Default: "", Desc: "Redis URL for the reminder sweep lease (blank runs single-instance)"},

	// Token verification
	{Name: "jwt_secret", Default: devJWTSecret, Desc: "HS256 secret for bearer tokens (must be strong in production)"},
	{Name: "jwt_issuer", Default: "campushub", Desc: "Expected token issuer"},

	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma separated list of allowed browser origins"},

	// Fan-out
	{Name: "fanout_workers", Default: 4, Desc: "Notification fan-out workers"},
	{Name: "fanout_queue_size", Default: 1024, Desc: "Queued fan-out tasks before submitters run inline"},

	// Background jobs
	{Name: "reminder_interval", Default: "1m", Desc: "Event reminder sweep period (e.g., 1m, 30s)"},
	{Name: "reminder_lead", Default: "1h", Desc: "How long before an event starts reminders are sent"},
	{Name: "member_reconcile_interval", Default: "1h", Desc: "Organization member counter reconciliation period"},

	{Name: "rate_limit_per_minute", Default: 120, Desc: "Write requests per caller per minute (0 disables)"},

	// I/O timeouts
	{Name: "timeout_ping", Default: "2s", Desc: "Health check and connect ping timeout"},
	{Name: "timeout_short", Default: "5s", Desc: "Single-document read/write timeout"},
	{Name: "timeout_medium", Default: "10s", Desc: "List query timeout"},
	{Name: "timeout_long", Default: "30s", Desc: "Multi-collection write and schema setup timeout"},
	{Name: "timeout_batch", Default: "60s", Desc: "Cascade and bulk write timeout"},
	{Name: "timeout_sweep", Default: "45s", Desc: "Background job run timeout and reminder lease TTL"},

	// Audit logging settings
	{Name: "audit_log_admin", Default: "all", Desc: "Moderation/content event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, CAMPUSHUB_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CAMPUSHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		RedisURL: strings.TrimSpace(appValues.String("redis_url")),

		JWTSecret: appValues.String("jwt_secret"),
		JWTIssuer: appValues.String("jwt_issuer"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		FanoutWorkers:   appValues.Int("fanout_workers"),
		FanoutQueueSize: appValues.Int("fanout_queue_size"),

		ReminderInterval:        appValues.Duration("reminder_interval", time.Minute),
		ReminderLead:            appValues.Duration("reminder_lead", time.Hour),
		MemberReconcileInterval: appValues.Duration("member_reconcile_interval", time.Hour),

		RateLimitPerMinute: appValues.Int("rate_limit_per_minute"),

		AuditLogAdmin: appValues.String("audit_log_admin"),

		Timeouts: timeouts.Config{
			Ping:   appValues.Duration("timeout_ping", timeouts.DefaultPing),
			Short:  appValues.Duration("timeout_short", timeouts.DefaultShort),
			Medium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
			Long:   appValues.Duration("timeout_long", timeouts.DefaultLong),
			Batch:  appValues.Duration("timeout_batch", timeouts.DefaultBatch),
			Sweep:  appValues.Duration("timeout_sweep", timeouts.DefaultSweep),
		},
	}

	return coreCfg, appCfg, nil
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.JWTSecret == "" {
		return errors.New("jwt_secret is required")
	}
	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.JWTSecret == devJWTSecret || len(appCfg.JWTSecret) < 32 {
			return errors.New("jwt_secret must be set to a value of at least 32 bytes in production")
		}
	}

	if appCfg.RedisURL != "" {
		if _, err := redis.ParseURL(appCfg.RedisURL); err != nil {
			logger.Error("invalid Redis URL", zap.Error(err))
			return fmt.Errorf("invalid redis_url: %w", err)
		}
	}

	if appCfg.ReminderInterval <= 0 {
		return errors.New("reminder_interval must be positive")
	}
	if appCfg.ReminderLead <= 0 {
		return errors.New("reminder_lead must be positive")
	}
	if appCfg.MemberReconcileInterval <= 0 {
		return errors.New("member_reconcile_interval must be positive")
	}
	if appCfg.RateLimitPerMinute < 0 {
		return errors.New("rate_limit_per_minute must not be negative")
	}

	t := appCfg.Timeouts
	for name, d := range map[string]time.Duration{
		"timeout_ping": t.Ping, "timeout_short": t.Short, "timeout_medium": t.Medium,
		"timeout_long": t.Long, "timeout_batch": t.Batch, "timeout_sweep": t.Sweep,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}

	switch appCfg.AuditLogAdmin {
	case auditlog.ModeAll, auditlog.ModeDB, auditlog.ModeLog, auditlog.ModeOff:
	default:
		return fmt.Errorf("audit_log_admin must be one of all, db, log, off (got %q)", appCfg.AuditLogAdmin)
	}

	return nil
}
