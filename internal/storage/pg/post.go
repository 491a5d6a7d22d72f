package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lib/pq"

	"github.com/daygram-app/daygram-api/internal/domain"
	internal_errors "github.com/daygram-app/daygram-api/internal/errors"
)

var errPostNotFound = &internal_errors.ErrorWithStatusCode{
	Message:    "Post not found",
	StatusCode: http.StatusNotFound,
}

// CreatePost inserts the post. The unique index on (author, group, date)
// backs the one-post-per-day rule even when two requests race past the
// advisory check; the violation is surfaced as the same rejection.
func (s *Storage) CreatePost(creationData domain.PostCreationData) (domain.Post, error) {
	var post domain.Post
	err := s.db.QueryRow(`
        INSERT INTO posts (group_id, author_id, caption, image_url, image_key, post_date)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, group_id, author_id, caption, image_url, image_key, post_date, created_at
    `, creationData.GroupId, creationData.AuthorId, creationData.Caption,
		creationData.ImageUrl, creationData.ImageKey, creationData.Date).Scan(
		&post.Id, &post.GroupId, &post.AuthorId, &post.Caption,
		&post.ImageUrl, &post.ImageKey, &post.Date, &post.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.Post{}, &internal_errors.ErrorWithStatusCode{
				Message:    "You already posted in this group today",
				StatusCode: http.StatusConflict,
			}
		}
		return domain.Post{}, fmt.Errorf("failed to insert post: %w", err)
	}
	return post, nil
}

// HasPostOn reports whether the author already posted in the group on the
// given calendar day.
func (s *Storage) HasPostOn(authorId domain.UserId, groupId domain.GroupId, date time.Time) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM posts WHERE author_id = $1 AND group_id = $2 AND post_date = $3
        )
    `, authorId, groupId, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check daily post: %w", err)
	}
	return exists, nil
}

func (s *Storage) GetPost(id domain.PostId) (domain.Post, error) {
	var post domain.Post
	var author domain.User
	err := s.db.QueryRow(`
        SELECT p.id, p.group_id, p.author_id, u.username, u.first_name, u.last_name,
               p.caption, p.image_url, p.image_key, p.post_date, p.created_at
        FROM posts p
        JOIN users u ON u.id = p.author_id
        WHERE p.id = $1
    `, id).Scan(
		&post.Id, &post.GroupId, &post.AuthorId,
		&author.Username, &author.FirstName, &author.LastName,
		&post.Caption, &post.ImageUrl, &post.ImageKey, &post.Date, &post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, errPostNotFound
		}
		return domain.Post{}, fmt.Errorf("failed to fetch post: %w", err)
	}
	post.AuthorName = author.DisplayName()
	return post, nil
}

// GroupPosts lists a group's posts, newest first, optionally filtered to a
// single calendar day.
func (s *Storage) GroupPosts(groupId domain.GroupId, date *time.Time) ([]domain.Post, error) {
	rows, err := s.db.Query(`
        SELECT p.id, p.group_id, p.author_id, u.username, u.first_name, u.last_name,
               p.caption, p.image_url, p.image_key, p.post_date, p.created_at
        FROM posts p
        JOIN users u ON u.id = p.author_id
        WHERE p.group_id = $1
          AND ($2::date IS NULL OR p.post_date = $2)
        ORDER BY p.created_at DESC
    `, groupId, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

func scanPosts(rows *sql.Rows) ([]domain.Post, error) {
	var posts []domain.Post
	for rows.Next() {
		var post domain.Post
		var author domain.User
		if err := rows.Scan(
			&post.Id, &post.GroupId, &post.AuthorId,
			&author.Username, &author.FirstName, &author.LastName,
			&post.Caption, &post.ImageUrl, &post.ImageKey, &post.Date, &post.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		post.AuthorName = author.DisplayName()
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return posts, nil
}

func (s *Storage) UpdatePost(id domain.PostId, data domain.PostUpdateData) error {
	result, err := s.db.Exec(`
        UPDATE posts SET caption = COALESCE($2, caption) WHERE id = $1
    `, id, data.Caption)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errPostNotFound
	}
	return nil
}

// DeletePost removes the post; comments cascade via foreign key.
func (s *Storage) DeletePost(id domain.PostId) error {
	result, err := s.db.Exec("DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errPostNotFound
	}
	return nil
}

// PostExportRows returns the author's posting history joined with group
// names, oldest first, in the shape the CSV export writes.
func (s *Storage) PostExportRows(authorId domain.UserId) ([]domain.PostExport, error) {
	rows, err := s.db.Query(`
        SELECT g.name, p.caption, p.post_date
        FROM posts p
        JOIN groups g ON g.id = p.group_id
        WHERE p.author_id = $1
        ORDER BY p.post_date ASC, g.name ASC
    `, authorId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch export rows: %w", err)
	}
	defer rows.Close()

	var exports []domain.PostExport
	for rows.Next() {
		var row domain.PostExport
		if err := rows.Scan(&row.GroupName, &row.Caption, &row.Date); err != nil {
			return nil, fmt.Errorf("failed to scan export row: %w", err)
		}
		exports = append(exports, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return exports, nil
}

// DailyPostCounts returns the author's post count per calendar day over
// [from, to], inclusive. Days without posts are absent from the map.
func (s *Storage) DailyPostCounts(authorId domain.UserId, from, to time.Time) (map[string]int, error) {
	rows, err := s.db.Query(`
        SELECT post_date, COUNT(*)
        FROM posts
        WHERE author_id = $1 AND post_date BETWEEN $2 AND $3
        GROUP BY post_date
    `, authorId, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day time.Time
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("failed to scan daily count: %w", err)
		}
		counts[day.Format("2006-01-02")] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return counts, nil
}
