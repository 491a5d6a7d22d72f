package api

import (
	"time"

	"github.com/daygram-app/daygram-api/internal/domain"
)

// Response DTOs. Field names are a compatibility contract with the SPA;
// do not rename them.

type MemberResponse struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type GroupResponse struct {
	Id          int64            `json:"id"`
	Name        string           `json:"name"`
	Color       string           `json:"color"`
	Description string           `json:"description"`
	IsPrivate   bool             `json:"is_private"`
	CreatorId   int64            `json:"creator_id"`
	MemberCount int              `json:"member_count"`
	IsCreator   bool             `json:"is_creator"`
	IsMember    bool             `json:"is_member"`
	CoverUrl    string           `json:"cover_url,omitempty"`
	StartDate   *string          `json:"start_date,omitempty"`
	EndDate     *string          `json:"end_date,omitempty"`
	Members     []MemberResponse `json:"members,omitempty"`
}

type GroupListResponse struct {
	Groups []GroupResponse `json:"groups"`
}

type PostResponse struct {
	Id        int64     `json:"id"`
	GroupId   int64     `json:"group_id"`
	AuthorId  int64     `json:"author_id"`
	UserName  string    `json:"user_name"`
	Caption   string    `json:"caption"`
	ImageUrl  string    `json:"image_url"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
}

type CommentResponse struct {
	Id        int64              `json:"id"`
	PostId    int64              `json:"post_id"`
	UserId    *int64             `json:"user_id"`
	UserName  string             `json:"user_name"`
	Text      string             `json:"text"`
	TextHtml  string             `json:"text_html,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	Parent    *int64             `json:"parent"`
	Replies   []*CommentResponse `json:"replies"`
}

type CommentListResponse struct {
	Comments []*CommentResponse `json:"comments"`
}

type InviteResponse struct {
	Code      string     `json:"code"`
	GroupId   int64      `json:"group_id"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type LeaderboardRow struct {
	Rank       int        `json:"rank"`
	UserId     int64      `json:"user_id"`
	Name       string     `json:"name"`
	ActiveDays int        `json:"active_days"`
	TotalPosts int        `json:"total_posts"`
	Streak     int        `json:"streak"`
	LastPost   *time.Time `json:"last_post"`
}

type LeaderboardResponse struct {
	Period string           `json:"period"`
	Rows   []LeaderboardRow `json:"rows"`
}

type DailyReportResponse struct {
	Labels []string `json:"labels"` // YYYY-MM-DD, oldest first
	Counts []int    `json:"counts"`
}

type ProfileResponse struct {
	Id        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
}

const dateLayout = "2006-01-02"

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// GroupResponseFrom maps a caller-relative group view onto the wire shape.
func GroupResponseFrom(v domain.GroupView) GroupResponse {
	resp := GroupResponse{
		Id:          v.Id,
		Name:        v.Name,
		Color:       v.Color,
		Description: v.Description,
		IsPrivate:   !v.IsPublic,
		CreatorId:   v.OwnerId,
		MemberCount: v.MemberCount,
		IsCreator:   v.IsCreator,
		IsMember:    v.IsMember,
		CoverUrl:    v.CoverUrl,
		StartDate:   formatDatePtr(v.StartDate),
		EndDate:     formatDatePtr(v.EndDate),
	}
	for _, m := range v.Members {
		resp.Members = append(resp.Members, MemberResponse{Id: m.UserId, Name: m.DisplayName, Role: m.Role})
	}
	return resp
}

func PostResponseFrom(p domain.Post) PostResponse {
	return PostResponse{
		Id:        p.Id,
		GroupId:   p.GroupId,
		AuthorId:  p.AuthorId,
		UserName:  p.AuthorName,
		Caption:   p.Caption,
		ImageUrl:  p.ImageUrl,
		Date:      p.Date.Format(dateLayout),
		CreatedAt: p.CreatedAt,
	}
}

// CommentResponseFrom maps an assembled comment node, recursively. renderHtml
// is applied to each node's text; pass nil to skip the html field.
func CommentResponseFrom(n *domain.CommentNode, renderHtml func(string) string) *CommentResponse {
	resp := &CommentResponse{
		Id:        n.Id,
		PostId:    n.PostId,
		UserId:    n.AuthorId,
		UserName:  n.AuthorName,
		Text:      n.Text,
		CreatedAt: n.CreatedAt,
		Parent:    n.ParentId,
		Replies:   []*CommentResponse{},
	}
	if renderHtml != nil {
		resp.TextHtml = renderHtml(n.Text)
	}
	for _, child := range n.Replies {
		resp.Replies = append(resp.Replies, CommentResponseFrom(child, renderHtml))
	}
	return resp
}
