package service

import (
	"go.uber.org/zap"

	"github.com/daygram-app/daygram-api/internal/domain"
)

type Auditor interface {
	RecordAudit(entry domain.AuditEntry) error
}

// recordAudit writes the trail entry for a mutation. A failed write is
// logged and swallowed; the mutation itself already succeeded.
func recordAudit(auditor Auditor, actor domain.UserId, action, entity string, entityId int64, details string) {
	entry := domain.AuditEntry{
		ActorId:  &actor,
		Action:   action,
		Entity:   entity,
		EntityId: entityId,
		Details:  details,
	}
	if err := auditor.RecordAudit(entry); err != nil {
		zap.S().Warnw("failed to record audit entry",
			"actor_id", actor, "action", action, "entity", entity, "entity_id", entityId, "error", err)
	}
}
