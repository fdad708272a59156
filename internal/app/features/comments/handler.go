// internal/app/features/comments/handler.go
package comments

import (
	"github.com/dalemusser/campushub/internal/app/system/fanout"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves comments on academic posts, events and reports.
type Handler struct {
	DB     *mongo.Database
	Engine *fanout.Engine
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, engine *fanout.Engine, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Engine: engine, Log: logger}
}
