package domain

import "time"

type CommentCreationData struct {
	PostId     PostId
	AuthorId   UserId
	AuthorName string // display identity snapshot at write time
	Text       string
	ParentId   *CommentId
}

// Comment is a single row as stored; AuthorId is nil once the author
// account is removed, AuthorName keeps the snapshot.
type Comment struct {
	Id         CommentId
	PostId     PostId
	AuthorId   *UserId
	AuthorName string
	Text       string
	ParentId   *CommentId
	CreatedAt  time.Time
}

// CommentNode is a comment with its replies attached, as assembled for
// display. Replies are ordered by creation time.
type CommentNode struct {
	Comment
	Replies []*CommentNode
}
