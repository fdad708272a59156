// internal/app/features/academics/handler.go
package academics

import (
	"github.com/dalemusser/campushub/internal/app/system/auditlog"
	"github.com/dalemusser/campushub/internal/app/system/fanout"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves academic posts.
type Handler struct {
	DB     *mongo.Database
	Engine *fanout.Engine
	Audit  *auditlog.Logger
	Log    *zap.Logger
}

// NewHandler constructs an academics Handler.
func NewHandler(db *mongo.Database, engine *fanout.Engine, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Engine: engine,
		Audit:  audit,
		Log:    logger,
	}
}
