// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"

	"github.com/campaignkit/fieldhub/internal/app/store/audit"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Logger appends audit entries and mirrors them to structured logs.
//
// Record is called with the mutation's transaction context, so the entry
// commits or aborts together with the data write it describes. The zap mirror
// happens regardless; a log line for an aborted transaction is acceptable
// noise, a committed mutation without an audit row is not.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger) *Logger {
	return &Logger{store: store, zapLog: zapLog}
}

// Record appends one entry. Exactly one call per successful mutation.
func (l *Logger) Record(ctx context.Context, e audit.Entry) error {
	if err := l.store.Append(ctx, e); err != nil {
		return err
	}
	l.mirror(e)
	return nil
}

func (l *Logger) mirror(e audit.Entry) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("action", e.Action),
		zap.String("entity_type", e.EntityType),
		zap.String("entity_id", e.EntityID.Hex()),
		zap.String("actor_id", e.ActorID.Hex()),
		zap.String("actor_role", string(e.ActorRole)),
	}
	l.zapLog.Info("audit entry", fields...)
}

// Entry builds an audit entry stamped with the acting user. Before and After
// are partial snapshots; pass nil for the side a mutation does not have
// (nil Before on create, nil After on hard delete).
func Entry(actor models.Actor, action, entityType string, entityID primitive.ObjectID, before, after bson.M) audit.Entry {
	return audit.Entry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		ActorRole:  actor.Role,
		Before:     before,
		After:      after,
	}
}
