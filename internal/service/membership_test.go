package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daygram-app/daygram-api/internal/domain"
	internal_errors "github.com/daygram-app/daygram-api/internal/errors"
)

// MockAccessStorage mocks the AccessStorage interface.
type MockAccessStorage struct {
	getGroupFunc func(id domain.GroupId) (domain.Group, error)
	isMemberFunc func(groupId domain.GroupId, userId domain.UserId) (bool, error)
	hasRoleFunc  func(groupId domain.GroupId, userId domain.UserId, roles ...domain.Role) (bool, error)
}

func (m *MockAccessStorage) GetGroup(id domain.GroupId) (domain.Group, error) {
	if m.getGroupFunc != nil {
		return m.getGroupFunc(id)
	}
	return domain.Group{Id: id}, nil
}

func (m *MockAccessStorage) IsMember(groupId domain.GroupId, userId domain.UserId) (bool, error) {
	if m.isMemberFunc != nil {
		return m.isMemberFunc(groupId, userId)
	}
	return false, nil
}

func (m *MockAccessStorage) HasRole(groupId domain.GroupId, userId domain.UserId, roles ...domain.Role) (bool, error) {
	if m.hasRoleFunc != nil {
		return m.hasRoleFunc(groupId, userId, roles...)
	}
	return false, nil
}

func memberOf(memberIds ...domain.UserId) *MockAccessStorage {
	return &MockAccessStorage{
		isMemberFunc: func(_ domain.GroupId, userId domain.UserId) (bool, error) {
			for _, id := range memberIds {
				if id == userId {
					return true, nil
				}
			}
			return false, nil
		},
	}
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	var statusErr *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, status, statusErr.StatusCode)
}

var (
	owner    = domain.User{Id: 1, Username: "owner"}
	member   = domain.User{Id: 2, Username: "member"}
	stranger = domain.User{Id: 3, Username: "stranger"}
)

func TestCanView(t *testing.T) {
	access := NewAccess(memberOf(member.Id))
	publicGroup := domain.Group{Id: 10, OwnerId: owner.Id, IsPublic: true}
	privateGroup := domain.Group{Id: 11, OwnerId: owner.Id, IsPublic: false}

	assert.NoError(t, access.CanView(stranger, publicGroup))
	assert.NoError(t, access.CanView(owner, privateGroup))
	assert.NoError(t, access.CanView(member, privateGroup))
	assertStatus(t, access.CanView(stranger, privateGroup), http.StatusForbidden)
}

func TestCanPost(t *testing.T) {
	access := NewAccess(memberOf(member.Id))
	publicGroup := domain.Group{Id: 10, OwnerId: owner.Id, IsPublic: true}

	assert.NoError(t, access.CanPost(owner, publicGroup))
	assert.NoError(t, access.CanPost(member, publicGroup))
	// public visibility is not enough to post
	assertStatus(t, access.CanPost(stranger, publicGroup), http.StatusForbidden)
}

func TestCanJoin(t *testing.T) {
	access := NewAccess(memberOf(member.Id))
	publicGroup := domain.Group{Id: 10, OwnerId: owner.Id, IsPublic: true}
	privateGroup := domain.Group{Id: 11, OwnerId: owner.Id, IsPublic: false}
	now := time.Now().UTC()

	t.Run("public self join", func(t *testing.T) {
		assert.NoError(t, access.CanJoin(stranger, publicGroup, nil, now))
	})

	t.Run("owner join is idempotent", func(t *testing.T) {
		assert.NoError(t, access.CanJoin(owner, privateGroup, nil, now))
	})

	t.Run("private without invite", func(t *testing.T) {
		assertStatus(t, access.CanJoin(stranger, privateGroup, nil, now), http.StatusForbidden)
	})

	t.Run("valid invite", func(t *testing.T) {
		expires := now.Add(time.Hour)
		invite := &domain.Invite{GroupId: privateGroup.Id, ExpiresAt: &expires}
		assert.NoError(t, access.CanJoin(stranger, privateGroup, invite, now))
	})

	t.Run("invite at the boundary instant is valid", func(t *testing.T) {
		invite := &domain.Invite{GroupId: privateGroup.Id, ExpiresAt: &now}
		assert.NoError(t, access.CanJoin(stranger, privateGroup, invite, now))
	})

	t.Run("expired invite", func(t *testing.T) {
		expired := now.Add(-time.Minute)
		invite := &domain.Invite{GroupId: privateGroup.Id, ExpiresAt: &expired}
		assertStatus(t, access.CanJoin(stranger, privateGroup, invite, now), http.StatusGone)
	})

	t.Run("invite without expiry", func(t *testing.T) {
		invite := &domain.Invite{GroupId: privateGroup.Id}
		assert.NoError(t, access.CanJoin(stranger, privateGroup, invite, now))
	})

	t.Run("invite bound to another group", func(t *testing.T) {
		invite := &domain.Invite{GroupId: publicGroup.Id}
		assertStatus(t, access.CanJoin(stranger, privateGroup, invite, now), http.StatusNotFound)
	})
}

func TestCanLeave(t *testing.T) {
	access := NewAccess(memberOf(owner.Id, member.Id))
	group := domain.Group{Id: 10, OwnerId: owner.Id, IsPublic: true}

	assert.NoError(t, access.CanLeave(member, group))
	assertStatus(t, access.CanLeave(owner, group), http.StatusConflict)
	assertStatus(t, access.CanLeave(stranger, group), http.StatusForbidden)
}

func TestCanModerate(t *testing.T) {
	moderator := domain.User{Id: 4, Username: "mod"}
	storage := memberOf(member.Id, moderator.Id)
	storage.hasRoleFunc = func(_ domain.GroupId, userId domain.UserId, roles ...domain.Role) (bool, error) {
		return userId == moderator.Id && len(roles) == 1 && roles[0] == domain.RoleModerator, nil
	}
	access := NewAccess(storage)
	group := domain.Group{Id: 10, OwnerId: owner.Id}

	assert.NoError(t, access.CanModerate(owner, group))
	assert.NoError(t, access.CanModerate(moderator, group))
	assertStatus(t, access.CanModerate(member, group), http.StatusForbidden)
}

func TestCanEditOrDeletePost(t *testing.T) {
	moderator := domain.User{Id: 4, Username: "mod"}
	group := domain.Group{Id: 10, OwnerId: owner.Id}
	storage := memberOf(member.Id, moderator.Id)
	storage.getGroupFunc = func(id domain.GroupId) (domain.Group, error) { return group, nil }
	storage.hasRoleFunc = func(_ domain.GroupId, userId domain.UserId, roles ...domain.Role) (bool, error) {
		return userId == moderator.Id, nil
	}
	access := NewAccess(storage)
	post := domain.Post{Id: 100, GroupId: group.Id, AuthorId: member.Id}

	assert.NoError(t, access.CanEditOrDeletePost(member, post))
	assert.NoError(t, access.CanEditOrDeletePost(owner, post))
	assert.NoError(t, access.CanEditOrDeletePost(moderator, post))
	assertStatus(t, access.CanEditOrDeletePost(stranger, post), http.StatusForbidden)
}

func TestCanAdminister(t *testing.T) {
	access := NewAccess(memberOf(member.Id))
	group := domain.Group{Id: 10, OwnerId: owner.Id}

	assert.NoError(t, access.CanAdminister(owner, group))
	assertStatus(t, access.CanAdminister(member, group), http.StatusForbidden)
}
