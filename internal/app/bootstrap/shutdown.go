// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

var errMissingServices = errors.New("bootstrap: DBDeps.Services is nil; ConnectDB must run first")

// Shutdown stops background work in reverse start order, then closes
// Redis and disconnects MongoDB.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	var errs []error

	if svc := deps.Services; svc != nil {
		if svc.Runner != nil {
			svc.Runner.Stop()
		}
		if svc.Engine != nil {
			if err := svc.Engine.Stop(ctx); err != nil {
				logger.Warn("fan-out engine did not drain", zap.Error(err))
				errs = append(errs, err)
			}
		}
		if svc.Limiter != nil {
			svc.Limiter.Close()
		}
	}

	if deps.Redis != nil {
		if err := deps.Redis.Close(); err != nil {
			logger.Error("Redis close failed", zap.Error(err))
			errs = append(errs, err)
		}
	}

	if deps.MongoClient != nil {
		logger.Info("disconnecting CampusHub MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
