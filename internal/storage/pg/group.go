package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/daygram-app/daygram-api/internal/domain"
	internal_errors "github.com/daygram-app/daygram-api/internal/errors"
)

var errGroupNotFound = &internal_errors.ErrorWithStatusCode{
	Message:    "Group not found",
	StatusCode: http.StatusNotFound,
}

// CreateGroup inserts the group and enrolls the owner as a member in one
// transaction, so a failed enrollment rolls the group back.
func (s *Storage) CreateGroup(creationData domain.GroupCreationData) (domain.Group, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return domain.Group{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var group domain.Group
	err = tx.QueryRow(`
        INSERT INTO groups (name, color, description, owner_id, is_public, start_date, end_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, name, color, description, owner_id, is_public, cover_url, start_date, end_date, created_at
    `, creationData.Name, creationData.Color, creationData.Description, creationData.OwnerId,
		creationData.IsPublic, creationData.StartDate, creationData.EndDate).Scan(
		&group.Id, &group.Name, &group.Color, &group.Description, &group.OwnerId,
		&group.IsPublic, &group.CoverUrl, &group.StartDate, &group.EndDate, &group.CreatedAt,
	)
	if err != nil {
		return domain.Group{}, fmt.Errorf("failed to insert group: %w", err)
	}

	// Owner is always enrolled; member_count and roster stay consistent
	// with ownership.
	_, err = tx.Exec(`
        INSERT INTO group_memberships (group_id, user_id, role)
        VALUES ($1, $2, $3)
    `, group.Id, creationData.OwnerId, domain.RoleMember)
	if err != nil {
		return domain.Group{}, fmt.Errorf("failed to enroll owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Group{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return group, nil
}

func (s *Storage) GetGroup(id domain.GroupId) (domain.Group, error) {
	var group domain.Group
	err := s.db.QueryRow(`
        SELECT id, name, color, description, owner_id, is_public, cover_url, start_date, end_date, created_at
        FROM groups
        WHERE id = $1
    `, id).Scan(
		&group.Id, &group.Name, &group.Color, &group.Description, &group.OwnerId,
		&group.IsPublic, &group.CoverUrl, &group.StartDate, &group.EndDate, &group.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Group{}, errGroupNotFound
		}
		return domain.Group{}, fmt.Errorf("failed to fetch group: %w", err)
	}
	return group, nil
}

func (s *Storage) UpdateGroup(id domain.GroupId, data domain.GroupUpdateData) error {
	result, err := s.db.Exec(`
        UPDATE groups
        SET name = COALESCE($2, name),
            color = COALESCE($3, color),
            description = COALESCE($4, description),
            is_public = COALESCE($5, is_public),
            start_date = COALESCE($6, start_date),
            end_date = COALESCE($7, end_date)
        WHERE id = $1
    `, id, data.Name, data.Color, data.Description, data.IsPublic, data.StartDate, data.EndDate)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errGroupNotFound
	}
	return nil
}

func (s *Storage) SetGroupCover(id domain.GroupId, coverUrl string) error {
	result, err := s.db.Exec(`UPDATE groups SET cover_url = $2 WHERE id = $1`, id, coverUrl)
	if err != nil {
		return fmt.Errorf("failed to set group cover: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errGroupNotFound
	}
	return nil
}

// DeleteGroup removes the group; memberships, invites, posts and their
// comments cascade via foreign keys.
func (s *Storage) DeleteGroup(id domain.GroupId) error {
	result, err := s.db.Exec("DELETE FROM groups WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errGroupNotFound
	}
	return nil
}

// GroupsForUser returns groups the user owns or has joined, newest first.
func (s *Storage) GroupsForUser(userId domain.UserId, limit int) ([]domain.GroupView, error) {
	rows, err := s.db.Query(`
        SELECT g.id, g.name, g.color, g.description, g.owner_id, g.is_public,
               g.cover_url, g.start_date, g.end_date, g.created_at,
               (SELECT COUNT(*) FROM group_memberships m2 WHERE m2.group_id = g.id) AS member_count,
               EXISTS (SELECT 1 FROM group_memberships m3 WHERE m3.group_id = g.id AND m3.user_id = $1) AS is_member
        FROM groups g
        WHERE g.owner_id = $1
           OR EXISTS (SELECT 1 FROM group_memberships m WHERE m.group_id = g.id AND m.user_id = $1)
        ORDER BY g.created_at DESC
        LIMIT $2
    `, userId, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user groups: %w", err)
	}
	defer rows.Close()

	return s.scanGroupViews(rows, userId)
}

// DiscoverGroups returns public groups the user has not joined and does not
// own, optionally filtered by a case-insensitive substring on name OR
// description.
func (s *Storage) DiscoverGroups(userId domain.UserId, query string, limit int) ([]domain.GroupView, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(`
        SELECT g.id, g.name, g.color, g.description, g.owner_id, g.is_public,
               g.cover_url, g.start_date, g.end_date, g.created_at,
               (SELECT COUNT(*) FROM group_memberships m2 WHERE m2.group_id = g.id) AS member_count,
               FALSE AS is_member
        FROM groups g
        WHERE g.is_public
          AND g.owner_id <> $1
          AND NOT EXISTS (SELECT 1 FROM group_memberships m WHERE m.group_id = g.id AND m.user_id = $1)
          AND ($2 = '' OR g.name ILIKE $3 OR g.description ILIKE $3)
        ORDER BY g.created_at DESC
        LIMIT $4
    `, userId, query, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch discoverable groups: %w", err)
	}
	defer rows.Close()

	return s.scanGroupViews(rows, userId)
}

func (s *Storage) scanGroupViews(rows *sql.Rows, userId domain.UserId) ([]domain.GroupView, error) {
	var views []domain.GroupView
	for rows.Next() {
		var v domain.GroupView
		if err := rows.Scan(
			&v.Id, &v.Name, &v.Color, &v.Description, &v.OwnerId, &v.IsPublic,
			&v.CoverUrl, &v.StartDate, &v.EndDate, &v.CreatedAt,
			&v.MemberCount, &v.IsMember,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		v.IsCreator = v.OwnerId == userId
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return views, nil
}

// GroupByNameForUser resolves a group by exact name among the groups the
// user owns or belongs to. Used by the CSV import to map rows back to
// groups.
func (s *Storage) GroupByNameForUser(userId domain.UserId, name string) (domain.Group, error) {
	var group domain.Group
	err := s.db.QueryRow(`
        SELECT g.id, g.name, g.color, g.description, g.owner_id, g.is_public,
               g.cover_url, g.start_date, g.end_date, g.created_at
        FROM groups g
        WHERE g.name = $2
          AND (g.owner_id = $1
               OR EXISTS (SELECT 1 FROM group_memberships m WHERE m.group_id = g.id AND m.user_id = $1))
        ORDER BY g.created_at ASC
        LIMIT 1
    `, userId, name).Scan(
		&group.Id, &group.Name, &group.Color, &group.Description, &group.OwnerId,
		&group.IsPublic, &group.CoverUrl, &group.StartDate, &group.EndDate, &group.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Group{}, errGroupNotFound
		}
		return domain.Group{}, fmt.Errorf("failed to fetch group by name: %w", err)
	}
	return group, nil
}

// MemberCount counts membership rows; the owner is included because
// enrollment is automatic at creation.
func (s *Storage) MemberCount(groupId domain.GroupId) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM group_memberships WHERE group_id = $1`, groupId).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}
