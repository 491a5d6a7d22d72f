package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/daygram-app/daygram-api/internal/domain"
	internal_errors "github.com/daygram-app/daygram-api/internal/errors"
)

var errCommentNotFound = &internal_errors.ErrorWithStatusCode{
	Message:    "Comment not found",
	StatusCode: http.StatusNotFound,
}

// CreateComment inserts the comment. When a parent is given, it must exist
// and belong to the same post; the check and the insert run in one
// transaction so the parent cannot vanish in between.
func (s *Storage) CreateComment(creationData domain.CommentCreationData) (domain.Comment, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return domain.Comment{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if creationData.ParentId != nil {
		var parentPostId domain.PostId
		err := tx.QueryRow(
			"SELECT post_id FROM comments WHERE id = $1", *creationData.ParentId,
		).Scan(&parentPostId)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && parentPostId != creationData.PostId) {
			return domain.Comment{}, &internal_errors.ErrorWithStatusCode{
				Message:    "Parent comment not found",
				StatusCode: http.StatusNotFound,
			}
		}
		if err != nil {
			return domain.Comment{}, fmt.Errorf("failed to check parent comment: %w", err)
		}
	}

	var comment domain.Comment
	err = tx.QueryRow(`
        INSERT INTO comments (post_id, author_id, author_name, text, parent_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, post_id, author_id, author_name, text, parent_id, created_at
    `, creationData.PostId, creationData.AuthorId, creationData.AuthorName,
		creationData.Text, creationData.ParentId).Scan(
		&comment.Id, &comment.PostId, &comment.AuthorId, &comment.AuthorName,
		&comment.Text, &comment.ParentId, &comment.CreatedAt,
	)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("failed to insert comment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Comment{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return comment, nil
}

// PostComments returns the post's comments in creation order, oldest first.
func (s *Storage) PostComments(postId domain.PostId) ([]domain.Comment, error) {
	rows, err := s.db.Query(`
        SELECT id, post_id, author_id, author_name, text, parent_id, created_at
        FROM comments
        WHERE post_id = $1
        ORDER BY created_at ASC, id ASC
    `, postId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.Id, &comment.PostId, &comment.AuthorId, &comment.AuthorName,
			&comment.Text, &comment.ParentId, &comment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return comments, nil
}

func (s *Storage) GetComment(id domain.CommentId) (domain.Comment, error) {
	var comment domain.Comment
	err := s.db.QueryRow(`
        SELECT id, post_id, author_id, author_name, text, parent_id, created_at
        FROM comments WHERE id = $1
    `, id).Scan(
		&comment.Id, &comment.PostId, &comment.AuthorId, &comment.AuthorName,
		&comment.Text, &comment.ParentId, &comment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Comment{}, errCommentNotFound
		}
		return domain.Comment{}, fmt.Errorf("failed to fetch comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes the comment. Replies keep living and are re-rooted
// by the parent foreign key's SET NULL.
func (s *Storage) DeleteComment(id domain.CommentId) error {
	result, err := s.db.Exec("DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return errCommentNotFound
	}
	return nil
}
