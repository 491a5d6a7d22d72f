package pg

import (
	"fmt"

	"github.com/daygram-app/daygram-api/internal/domain"
)

func (s *Storage) RecordAudit(entry domain.AuditEntry) error {
	_, err := s.db.Exec(`
        INSERT INTO audit_log (actor_id, action, entity, entity_id, details)
        VALUES ($1, $2, $3, $4, $5)
    `, entry.ActorId, entry.Action, entry.Entity, entry.EntityId, entry.Details)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// RecentAudit returns the newest entries, most recent first.
func (s *Storage) RecentAudit(limit int) ([]domain.AuditEntry, error) {
	rows, err := s.db.Query(`
        SELECT id, actor_id, action, entity, entity_id, details, created_at
        FROM audit_log
        ORDER BY created_at DESC, id DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(
			&entry.Id, &entry.ActorId, &entry.Action, &entry.Entity,
			&entry.EntityId, &entry.Details, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return entries, nil
}
