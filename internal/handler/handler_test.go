package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/daygram-app/daygram-api/internal/config"
	"github.com/daygram-app/daygram-api/internal/domain"
	"github.com/daygram-app/daygram-api/internal/markdown"
	mw "github.com/daygram-app/daygram-api/internal/middleware"
	"github.com/daygram-app/daygram-api/internal/validation"
)

// Shared mocks and helpers for handler tests. Each mock method falls back
// to a benign default when its function field is nil.

type MockAuthService struct {
	MockRegister      func(creds domain.Credentials) (string, error)
	MockLogin         func(creds domain.Credentials) (string, error)
	MockProfile       func(userId domain.UserId) (domain.User, error)
	MockUpdateProfile func(userId domain.UserId, firstName, lastName, bio *string) (domain.User, error)
}

func (m *MockAuthService) Register(creds domain.Credentials) (string, error) {
	if m.MockRegister != nil {
		return m.MockRegister(creds)
	}
	return "token", nil
}

func (m *MockAuthService) Login(creds domain.Credentials) (string, error) {
	if m.MockLogin != nil {
		return m.MockLogin(creds)
	}
	return "token", nil
}

func (m *MockAuthService) Profile(userId domain.UserId) (domain.User, error) {
	if m.MockProfile != nil {
		return m.MockProfile(userId)
	}
	return domain.User{Id: userId}, nil
}

func (m *MockAuthService) UpdateProfile(userId domain.UserId, firstName, lastName, bio *string) (domain.User, error) {
	if m.MockUpdateProfile != nil {
		return m.MockUpdateProfile(userId, firstName, lastName, bio)
	}
	return domain.User{Id: userId}, nil
}

type MockGroupService struct {
	MockCreate        func(user domain.User, data domain.GroupCreationData) (domain.GroupView, error)
	MockGet           func(user domain.User, groupId domain.GroupId) (domain.GroupView, error)
	MockUpdate        func(user domain.User, groupId domain.GroupId, data domain.GroupUpdateData) (domain.GroupView, error)
	MockDelete        func(user domain.User, groupId domain.GroupId) error
	MockList          func(user domain.User, filter domain.GroupFilter) ([]domain.GroupView, error)
	MockMembers       func(user domain.User, groupId domain.GroupId) ([]domain.Member, error)
	MockJoin          func(user domain.User, groupId domain.GroupId) (domain.GroupView, error)
	MockJoinByInvite  func(user domain.User, code domain.InviteCode) (domain.GroupView, error)
	MockInvitePreview func(user *domain.User, code domain.InviteCode) (domain.GroupView, error)
	MockLeave         func(user domain.User, groupId domain.GroupId) error
	MockCreateInvite  func(user domain.User, groupId domain.GroupId) (domain.Invite, error)
	MockInvites       func(user domain.User, groupId domain.GroupId) ([]domain.Invite, error)
	MockChangeRole    func(user domain.User, groupId domain.GroupId, memberId domain.UserId, role domain.Role) error
	MockRemoveMember  func(user domain.User, groupId domain.GroupId, memberId domain.UserId) error
	MockSetCover      func(ctx context.Context, user domain.User, groupId domain.GroupId, photo *validation.PendingPhoto) (domain.GroupView, error)
}

func (m *MockGroupService) Create(user domain.User, data domain.GroupCreationData) (domain.GroupView, error) {
	if m.MockCreate != nil {
		return m.MockCreate(user, data)
	}
	return domain.GroupView{}, nil
}

func (m *MockGroupService) Get(user domain.User, groupId domain.GroupId) (domain.GroupView, error) {
	if m.MockGet != nil {
		return m.MockGet(user, groupId)
	}
	return domain.GroupView{}, nil
}

func (m *MockGroupService) Update(user domain.User, groupId domain.GroupId, data domain.GroupUpdateData) (domain.GroupView, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(user, groupId, data)
	}
	return domain.GroupView{}, nil
}

func (m *MockGroupService) Delete(user domain.User, groupId domain.GroupId) error {
	if m.MockDelete != nil {
		return m.MockDelete(user, groupId)
	}
	return nil
}

func (m *MockGroupService) List(user domain.User, filter domain.GroupFilter) ([]domain.GroupView, error) {
	if m.MockList != nil {
		return m.MockList(user, filter)
	}
	return nil, nil
}

func (m *MockGroupService) Members(user domain.User, groupId domain.GroupId) ([]domain.Member, error) {
	if m.MockMembers != nil {
		return m.MockMembers(user, groupId)
	}
	return nil, nil
}

func (m *MockGroupService) Join(user domain.User, groupId domain.GroupId) (domain.GroupView, error) {
	if m.MockJoin != nil {
		return m.MockJoin(user, groupId)
	}
	return domain.GroupView{}, nil
}

func (m *MockGroupService) JoinByInvite(user domain.User, code domain.InviteCode) (domain.GroupView, error) {
	if m.MockJoinByInvite != nil {
		return m.MockJoinByInvite(user, code)
	}
	return domain.GroupView{}, nil
}

func (m *MockGroupService) InvitePreview(user *domain.User, code domain.InviteCode) (domain.GroupView, error) {
	if m.MockInvitePreview != nil {
		return m.MockInvitePreview(user, code)
	}
	return domain.GroupView{}, nil
}

func (m *MockGroupService) Leave(user domain.User, groupId domain.GroupId) error {
	if m.MockLeave != nil {
		return m.MockLeave(user, groupId)
	}
	return nil
}

func (m *MockGroupService) CreateInvite(user domain.User, groupId domain.GroupId) (domain.Invite, error) {
	if m.MockCreateInvite != nil {
		return m.MockCreateInvite(user, groupId)
	}
	return domain.Invite{}, nil
}

func (m *MockGroupService) Invites(user domain.User, groupId domain.GroupId) ([]domain.Invite, error) {
	if m.MockInvites != nil {
		return m.MockInvites(user, groupId)
	}
	return nil, nil
}

func (m *MockGroupService) ChangeRole(user domain.User, groupId domain.GroupId, memberId domain.UserId, role domain.Role) error {
	if m.MockChangeRole != nil {
		return m.MockChangeRole(user, groupId, memberId, role)
	}
	return nil
}

func (m *MockGroupService) RemoveMember(user domain.User, groupId domain.GroupId, memberId domain.UserId) error {
	if m.MockRemoveMember != nil {
		return m.MockRemoveMember(user, groupId, memberId)
	}
	return nil
}

func (m *MockGroupService) SetCover(ctx context.Context, user domain.User, groupId domain.GroupId, photo *validation.PendingPhoto) (domain.GroupView, error) {
	if m.MockSetCover != nil {
		return m.MockSetCover(ctx, user, groupId, photo)
	}
	return domain.GroupView{}, nil
}

type MockPostService struct {
	MockCreate    func(ctx context.Context, user domain.User, groupId domain.GroupId, caption string, photo *validation.PendingPhoto) (domain.Post, error)
	MockFeed      func(user domain.User, groupId domain.GroupId, date *time.Time) ([]domain.Post, error)
	MockGet       func(user domain.User, postId domain.PostId) (domain.Post, error)
	MockUpdate    func(user domain.User, postId domain.PostId, data domain.PostUpdateData) (domain.Post, error)
	MockDelete    func(ctx context.Context, user domain.User, postId domain.PostId) error
	MockExportCSV func(user domain.User, w io.Writer) error
	MockImportCSV func(user domain.User, r io.Reader) (int, error)
}

func (m *MockPostService) Create(ctx context.Context, user domain.User, groupId domain.GroupId, caption string, photo *validation.PendingPhoto) (domain.Post, error) {
	if m.MockCreate != nil {
		return m.MockCreate(ctx, user, groupId, caption, photo)
	}
	return domain.Post{}, nil
}

func (m *MockPostService) Feed(user domain.User, groupId domain.GroupId, date *time.Time) ([]domain.Post, error) {
	if m.MockFeed != nil {
		return m.MockFeed(user, groupId, date)
	}
	return nil, nil
}

func (m *MockPostService) Get(user domain.User, postId domain.PostId) (domain.Post, error) {
	if m.MockGet != nil {
		return m.MockGet(user, postId)
	}
	return domain.Post{}, nil
}

func (m *MockPostService) Update(user domain.User, postId domain.PostId, data domain.PostUpdateData) (domain.Post, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(user, postId, data)
	}
	return domain.Post{}, nil
}

func (m *MockPostService) Delete(ctx context.Context, user domain.User, postId domain.PostId) error {
	if m.MockDelete != nil {
		return m.MockDelete(ctx, user, postId)
	}
	return nil
}

func (m *MockPostService) ExportCSV(user domain.User, w io.Writer) error {
	if m.MockExportCSV != nil {
		return m.MockExportCSV(user, w)
	}
	return nil
}

func (m *MockPostService) ImportCSV(user domain.User, r io.Reader) (int, error) {
	if m.MockImportCSV != nil {
		return m.MockImportCSV(user, r)
	}
	return 0, nil
}

type MockCommentService struct {
	MockTree   func(user domain.User, postId domain.PostId) ([]*domain.CommentNode, error)
	MockCreate func(user domain.User, postId domain.PostId, text string, parentId *domain.CommentId) (domain.Comment, error)
	MockDelete func(user domain.User, commentId domain.CommentId) error
}

func (m *MockCommentService) Tree(user domain.User, postId domain.PostId) ([]*domain.CommentNode, error) {
	if m.MockTree != nil {
		return m.MockTree(user, postId)
	}
	return nil, nil
}

func (m *MockCommentService) Create(user domain.User, postId domain.PostId, text string, parentId *domain.CommentId) (domain.Comment, error) {
	if m.MockCreate != nil {
		return m.MockCreate(user, postId, text, parentId)
	}
	return domain.Comment{}, nil
}

func (m *MockCommentService) Delete(user domain.User, commentId domain.CommentId) error {
	if m.MockDelete != nil {
		return m.MockDelete(user, commentId)
	}
	return nil
}

type MockLeaderboardService struct {
	MockLeaderboard func(user domain.User, groupId domain.GroupId, period string) ([]domain.LeaderboardRow, error)
	MockDailyReport func(user domain.User) (domain.DailyReport, error)
}

func (m *MockLeaderboardService) Leaderboard(user domain.User, groupId domain.GroupId, period string) ([]domain.LeaderboardRow, error) {
	if m.MockLeaderboard != nil {
		return m.MockLeaderboard(user, groupId, period)
	}
	return nil, nil
}

func (m *MockLeaderboardService) DailyReport(user domain.User) (domain.DailyReport, error) {
	if m.MockDailyReport != nil {
		return m.MockDailyReport(user)
	}
	return domain.DailyReport{}, nil
}

func newTestHandler() *Handler {
	cfg := &config.Config{}
	cfg.Public.JwtTTL = time.Hour
	cfg.Public.MaxUploadBytes = 10 << 20
	cfg.Public.AllowedImageMimeTypes = []string{"image/jpeg", "image/png"}
	return &Handler{cfg: cfg, text: markdown.New()}
}

var testUser = domain.User{Id: 7, Username: "ann", FirstName: "Ann", LastName: "Lee"}

// authed builds a request with testUser already in the context, the way
// the auth middleware would leave it.
func authed(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	ctx := context.WithValue(req.Context(), mw.UserKey, &testUser)
	return req.WithContext(ctx)
}
