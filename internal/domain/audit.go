package domain

import "time"

// Audit actions.
const (
	AuditCreate = "create"
	AuditUpdate = "update"
	AuditDelete = "delete"
)

// AuditEntry records who did what to which entity. The actor is passed
// explicitly by every mutation path; there is no implicit side channel.
type AuditEntry struct {
	Id        int64
	ActorId   *UserId
	Action    string
	Entity    string
	EntityId  int64
	Details   string
	CreatedAt time.Time
}
