package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/daygram-app/daygram-api/internal/domain"
	internal_errors "github.com/daygram-app/daygram-api/internal/errors"
)

func (s *Storage) SaveInvite(invite domain.Invite) (domain.Invite, error) {
	err := s.db.QueryRow(`
        INSERT INTO group_invites (code, group_id, created_by, expires_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `, invite.Code, invite.GroupId, invite.CreatedBy, invite.ExpiresAt).Scan(&invite.Id, &invite.CreatedAt)
	if err != nil {
		return domain.Invite{}, fmt.Errorf("failed to insert invite: %w", err)
	}
	return invite, nil
}

func (s *Storage) InviteByCode(code domain.InviteCode) (domain.Invite, error) {
	var invite domain.Invite
	err := s.db.QueryRow(`
        SELECT id, code, group_id, created_by, created_at, expires_at
        FROM group_invites
        WHERE code = $1
    `, code).Scan(&invite.Id, &invite.Code, &invite.GroupId, &invite.CreatedBy, &invite.CreatedAt, &invite.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Invite{}, &internal_errors.ErrorWithStatusCode{
				Message:    "Invite not found",
				StatusCode: http.StatusNotFound,
			}
		}
		return domain.Invite{}, fmt.Errorf("failed to fetch invite: %w", err)
	}
	return invite, nil
}

func (s *Storage) GroupInvites(groupId domain.GroupId) ([]domain.Invite, error) {
	rows, err := s.db.Query(`
        SELECT id, code, group_id, created_by, created_at, expires_at
        FROM group_invites
        WHERE group_id = $1
        ORDER BY created_at DESC
    `, groupId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invites: %w", err)
	}
	defer rows.Close()

	var invites []domain.Invite
	for rows.Next() {
		var invite domain.Invite
		if err := rows.Scan(&invite.Id, &invite.Code, &invite.GroupId, &invite.CreatedBy, &invite.CreatedAt, &invite.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		invites = append(invites, invite)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return invites, nil
}

// PurgeExpiredInvites deletes invites whose validity window has elapsed at
// the given instant. Returns the number of removed rows.
func (s *Storage) PurgeExpiredInvites(now time.Time) (int64, error) {
	result, err := s.db.Exec(`
        DELETE FROM group_invites WHERE expires_at IS NOT NULL AND expires_at < $1
    `, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge invites: %w", err)
	}
	affected, _ := result.RowsAffected()
	return affected, nil
}
