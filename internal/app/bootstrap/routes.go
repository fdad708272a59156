// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	academicsfeature "github.com/dalemusser/campushub/internal/app/features/academics"
	commentsfeature "github.com/dalemusser/campushub/internal/app/features/comments"
	eventsfeature "github.com/dalemusser/campushub/internal/app/features/events"
	feedfeature "github.com/dalemusser/campushub/internal/app/features/feed"
	healthfeature "github.com/dalemusser/campushub/internal/app/features/health"
	messagesfeature "github.com/dalemusser/campushub/internal/app/features/messages"
	notificationsfeature "github.com/dalemusser/campushub/internal/app/features/notifications"
	organizationsfeature "github.com/dalemusser/campushub/internal/app/features/organizations"
	reportitemsfeature "github.com/dalemusser/campushub/internal/app/features/reportitems"
	savedfeature "github.com/dalemusser/campushub/internal/app/features/saved"
	searchhistoryfeature "github.com/dalemusser/campushub/internal/app/features/searchhistory"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for CampusHub.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. Every /api route expects a bearer token; the
// verifier loads it into the request context and each feature router
// guards its own routes.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	if deps.Services == nil {
		return nil, errMissingServices
	}
	svc := deps.Services
	db := deps.MongoDatabase

	verifier, err := auth.NewVerifier(appCfg.JWTSecret, appCfg.JWTIssuer, logger)
	if err != nil {
		logger.Error("token verifier init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(corsOptions(appCfg.CORSAllowedOrigins)))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		api.Use(verifier.LoadUser)
		if svc.Limiter != nil {
			api.Use(writesOnly(svc.Limiter.Middleware(svc.Audit)))
		}

		api.Mount("/feed", feedfeature.Routes(feedfeature.NewHandler(db, logger)))

		api.Mount("/academics", academicsfeature.Routes(academicsfeature.NewHandler(db, svc.Engine, svc.Audit, logger)))
		api.Mount("/events", eventsfeature.Routes(eventsfeature.NewHandler(db, svc.Engine, svc.Audit, logger)))
		api.Mount("/reports", reportitemsfeature.Routes(reportitemsfeature.NewHandler(db, svc.Engine, svc.Audit, logger)))
		api.Mount("/posts", commentsfeature.Routes(commentsfeature.NewHandler(db, svc.Engine, logger)))
		api.Mount("/saved", savedfeature.Routes(savedfeature.NewHandler(db, logger)))

		api.Mount("/organizations", organizationsfeature.Routes(organizationsfeature.NewHandler(db, svc.Audit, logger)))
		api.Mount("/notifications", notificationsfeature.Routes(notificationsfeature.NewHandler(db, logger)))
		api.Mount("/messages", messagesfeature.Routes(messagesfeature.NewHandler(db, logger)))
		api.Mount("/search-history", searchhistoryfeature.Routes(searchhistoryfeature.NewHandler(db, logger)))
	})

	return r, nil
}

func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	// Credentials cannot be combined with a wildcard origin.
	for _, o := range origins {
		if o == "*" {
			opts.AllowCredentials = false
			break
		}
	}
	return opts
}

// writesOnly applies mw to state-changing methods and lets reads through.
func writesOnly(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				limited.ServeHTTP(w, r)
			}
		})
	}
}
