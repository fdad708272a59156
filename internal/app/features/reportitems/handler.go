// internal/app/features/reportitems/handler.go
package reportitems

import (
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/fanout"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves lost-and-found reports.
type Handler struct {
	DB     *mongo.Database
	Engine *fanout.Engine
	Audit  *auditlog.Logger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, engine *fanout.Engine, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Engine: engine, Audit: audit, Log: logger}
}
