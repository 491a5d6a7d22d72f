package service

import (
	"strings"

	"github.com/daygram-app/daygram-api/internal/domain"
	internal_errors "github.com/daygram-app/daygram-api/internal/errors"
)

// to mock service in tests
type CommentService interface {
	Tree(user domain.User, postId domain.PostId) ([]*domain.CommentNode, error)
	Create(user domain.User, postId domain.PostId, text string, parentId *domain.CommentId) (domain.Comment, error)
	Delete(user domain.User, commentId domain.CommentId) error
}

type Comment struct {
	storage CommentStorage
	access  AccessService
	auditor Auditor
}

type CommentStorage interface {
	CreateComment(data domain.CommentCreationData) (domain.Comment, error)
	PostComments(postId domain.PostId) ([]domain.Comment, error)
	GetComment(id domain.CommentId) (domain.Comment, error)
	DeleteComment(id domain.CommentId) error
	GetPost(id domain.PostId) (domain.Post, error)
	GetGroup(id domain.GroupId) (domain.Group, error)
}

func NewComment(storage CommentStorage, access AccessService, auditor Auditor) *Comment {
	return &Comment{storage: storage, access: access, auditor: auditor}
}

// Tree returns the post's comments as a forest in creation order.
func (c *Comment) Tree(user domain.User, postId domain.PostId) ([]*domain.CommentNode, error) {
	if err := c.gate(user, postId); err != nil {
		return nil, err
	}
	comments, err := c.storage.PostComments(postId)
	if err != nil {
		return nil, err
	}
	return assembleTree(comments), nil
}

// assembleTree links comments to their parents in two passes. A comment
// whose parent is missing from the set is promoted to a root instead of
// being dropped; deletions re-root replies this way. Sibling order is
// creation order because the input is already sorted.
func assembleTree(comments []domain.Comment) []*domain.CommentNode {
	nodes := make(map[domain.CommentId]*domain.CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].Id] = &domain.CommentNode{Comment: comments[i]}
	}

	roots := make([]*domain.CommentNode, 0, len(comments))
	for i := range comments {
		node := nodes[comments[i].Id]
		if comments[i].ParentId != nil {
			if parent, ok := nodes[*comments[i].ParentId]; ok {
				parent.Replies = append(parent.Replies, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// Create writes a comment attributed to the author's display identity at
// this moment. The parent, if any, must be a comment on the same post.
func (c *Comment) Create(user domain.User, postId domain.PostId, text string, parentId *domain.CommentId) (domain.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Comment{}, internal_errors.BadRequest("Comment text cannot be empty")
	}
	if err := c.gate(user, postId); err != nil {
		return domain.Comment{}, err
	}

	comment, err := c.storage.CreateComment(domain.CommentCreationData{
		PostId:     postId,
		AuthorId:   user.Id,
		AuthorName: user.DisplayName(),
		Text:       text,
		ParentId:   parentId,
	})
	if err != nil {
		return domain.Comment{}, err
	}
	recordAudit(c.auditor, user.Id, domain.AuditCreate, "comment", comment.Id, "")
	return comment, nil
}

// Delete removes a comment; the author, the group owner and moderators may
// do it. Replies survive and show up as roots afterwards.
func (c *Comment) Delete(user domain.User, commentId domain.CommentId) error {
	comment, err := c.storage.GetComment(commentId)
	if err != nil {
		return err
	}
	if comment.AuthorId == nil || *comment.AuthorId != user.Id {
		post, err := c.storage.GetPost(comment.PostId)
		if err != nil {
			return err
		}
		group, err := c.storage.GetGroup(post.GroupId)
		if err != nil {
			return err
		}
		if err := c.access.CanModerate(user, group); err != nil {
			return err
		}
	}
	if err := c.storage.DeleteComment(commentId); err != nil {
		return err
	}
	recordAudit(c.auditor, user.Id, domain.AuditDelete, "comment", commentId, "")
	return nil
}

// gate: commenting and reading comments require group membership, the
// same bar as posting.
func (c *Comment) gate(user domain.User, postId domain.PostId) error {
	post, err := c.storage.GetPost(postId)
	if err != nil {
		return err
	}
	group, err := c.storage.GetGroup(post.GroupId)
	if err != nil {
		return err
	}
	return c.access.CanPost(user, group)
}
