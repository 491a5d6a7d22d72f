package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/daygram-app/daygram-api/internal/domain"
	internal_errors "github.com/daygram-app/daygram-api/internal/errors"
)

var errMembershipNotFound = &internal_errors.ErrorWithStatusCode{
	Message:    "Membership not found",
	StatusCode: http.StatusNotFound,
}

// AddMembership enrolls a user; joining twice is a no-op thanks to the
// uniqueness constraint on (group_id, user_id).
func (s *Storage) AddMembership(groupId domain.GroupId, userId domain.UserId, role domain.Role) error {
	_, err := s.db.Exec(`
        INSERT INTO group_memberships (group_id, user_id, role)
        VALUES ($1, $2, $3)
        ON CONFLICT (group_id, user_id) DO NOTHING
    `, groupId, userId, role)
	if err != nil {
		return fmt.Errorf("failed to add membership: %w", err)
	}
	return nil
}

func (s *Storage) Membership(groupId domain.GroupId, userId domain.UserId) (domain.Membership, error) {
	var m domain.Membership
	err := s.db.QueryRow(`
        SELECT id, group_id, user_id, role, created_at
        FROM group_memberships
        WHERE group_id = $1 AND user_id = $2
    `, groupId, userId).Scan(&m.Id, &m.GroupId, &m.UserId, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Membership{}, errMembershipNotFound
		}
		return domain.Membership{}, fmt.Errorf("failed to fetch membership: %w", err)
	}
	return m, nil
}

func (s *Storage) RemoveMembership(groupId domain.GroupId, userId domain.UserId) error {
	result, err := s.db.Exec(`
        DELETE FROM group_memberships WHERE group_id = $1 AND user_id = $2
    `, groupId, userId)
	if err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errMembershipNotFound
	}
	return nil
}

func (s *Storage) UpdateMembershipRole(groupId domain.GroupId, userId domain.UserId, role domain.Role) error {
	result, err := s.db.Exec(`
        UPDATE group_memberships SET role = $3 WHERE group_id = $1 AND user_id = $2
    `, groupId, userId, role)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errMembershipNotFound
	}
	return nil
}

// Members returns the roster ordered by username, display names resolved
// with the full-name-else-username fallback.
func (s *Storage) Members(groupId domain.GroupId) ([]domain.Member, error) {
	rows, err := s.db.Query(`
        SELECT u.id, u.username, u.first_name, u.last_name, m.role, m.created_at
        FROM group_memberships m
        JOIN users u ON u.id = m.user_id
        WHERE m.group_id = $1
        ORDER BY u.username
    `, groupId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var user domain.User
		var member domain.Member
		if err := rows.Scan(&user.Id, &user.Username, &user.FirstName, &user.LastName, &member.Role, &member.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		member.UserId = user.Id
		member.DisplayName = user.DisplayName()
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return members, nil
}

// IsMember reports whether the user holds a membership row. Trimmed
// convenience for the capability checks, avoids the full row fetch.
func (s *Storage) IsMember(groupId domain.GroupId, userId domain.UserId) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
        SELECT EXISTS (SELECT 1 FROM group_memberships WHERE group_id = $1 AND user_id = $2)
    `, groupId, userId).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// HasRole reports whether the user holds a membership row with one of the
// given roles.
func (s *Storage) HasRole(groupId domain.GroupId, userId domain.UserId, roles ...domain.Role) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}
	placeholders := make([]string, len(roles))
	args := []interface{}{groupId, userId}
	for i, r := range roles {
		placeholders[i] = fmt.Sprintf("$%d", i+3)
		args = append(args, r)
	}
	query := fmt.Sprintf(`
        SELECT EXISTS (
            SELECT 1 FROM group_memberships
            WHERE group_id = $1 AND user_id = $2 AND role IN (%s)
        )
    `, strings.Join(placeholders, ", "))

	var exists bool
	if err := s.db.QueryRow(query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check role: %w", err)
	}
	return exists, nil
}
