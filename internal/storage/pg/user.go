package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"

	"github.com/daygram-app/daygram-api/internal/domain"
	internal_errors "github.com/daygram-app/daygram-api/internal/errors"
)

func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := s.db.QueryRow(`
        INSERT INTO users (username, pass_hash, first_name, last_name)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, user.Username, user.PassHash, user.FirstName, user.LastName).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return -1, &internal_errors.ErrorWithStatusCode{
				Message:    "Username already taken",
				StatusCode: http.StatusConflict,
			}
		}
		return -1, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) UserByUsername(username domain.Username) (domain.User, error) {
	return s.scanUser(s.db.QueryRow(`
        SELECT id, username, pass_hash, first_name, last_name, bio, created_at
        FROM users
        WHERE username = $1
    `, username))
}

func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.scanUser(s.db.QueryRow(`
        SELECT id, username, pass_hash, first_name, last_name, bio, created_at
        FROM users
        WHERE id = $1
    `, id))
}

func (s *Storage) scanUser(row *sql.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(&user.Id, &user.Username, &user.PassHash, &user.FirstName, &user.LastName, &user.Bio, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{
				Message:    "User not found",
				StatusCode: http.StatusNotFound,
			}
		}
		return domain.User{}, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

func (s *Storage) UpdateProfile(id domain.UserId, firstName, lastName, bio *string) error {
	result, err := s.db.Exec(`
        UPDATE users
        SET first_name = COALESCE($2, first_name),
            last_name = COALESCE($3, last_name),
            bio = COALESCE($4, bio)
        WHERE id = $1
    `, id, firstName, lastName, bio)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return &internal_errors.ErrorWithStatusCode{
			Message:    "User not found",
			StatusCode: http.StatusNotFound,
		}
	}
	return nil
}
