package service

import (
	"net/http"
	"time"

	"github.com/daygram-app/daygram-api/internal/domain"
	internal_errors "github.com/daygram-app/daygram-api/internal/errors"
)

// to mock service in tests
type AccessService interface {
	CanView(user domain.User, group domain.Group) error
	CanPost(user domain.User, group domain.Group) error
	CanJoin(user domain.User, group domain.Group, invite *domain.Invite, now time.Time) error
	CanLeave(user domain.User, group domain.Group) error
	CanModerate(user domain.User, group domain.Group) error
	CanEditOrDeletePost(user domain.User, post domain.Post) error
	CanAdminister(user domain.User, group domain.Group) error
}

// Access decides what a user may do with a group or post. Every method
// returns nil when the action is allowed and a taxonomy error otherwise.
type Access struct {
	storage AccessStorage
}

type AccessStorage interface {
	GetGroup(id domain.GroupId) (domain.Group, error)
	IsMember(groupId domain.GroupId, userId domain.UserId) (bool, error)
	HasRole(groupId domain.GroupId, userId domain.UserId, roles ...domain.Role) (bool, error)
}

func NewAccess(storage AccessStorage) *Access {
	return &Access{storage: storage}
}

var errForbidden = internal_errors.Forbidden("You don't have access to this group")

// CanView allows public groups to anyone and private groups to the owner
// and members.
func (a *Access) CanView(user domain.User, group domain.Group) error {
	if group.IsPublic || group.OwnerId == user.Id {
		return nil
	}
	isMember, err := a.storage.IsMember(group.Id, user.Id)
	if err != nil {
		return err
	}
	if !isMember {
		return errForbidden
	}
	return nil
}

// CanPost gates posting and commenting: owner or member, regardless of the
// group being public.
func (a *Access) CanPost(user domain.User, group domain.Group) error {
	if group.OwnerId == user.Id {
		return nil
	}
	isMember, err := a.storage.IsMember(group.Id, user.Id)
	if err != nil {
		return err
	}
	if !isMember {
		return internal_errors.Forbidden("Only members can post in this group")
	}
	return nil
}

// CanJoin allows self-joining public groups; private groups need a valid
// invite bound to that group. Joining a group you already belong to is
// allowed so the operation stays idempotent.
func (a *Access) CanJoin(user domain.User, group domain.Group, invite *domain.Invite, now time.Time) error {
	if group.OwnerId == user.Id {
		return nil
	}
	if invite != nil {
		if invite.GroupId != group.Id {
			return internal_errors.NotFound("Invite not found")
		}
		if !invite.IsValid(now) {
			return internal_errors.Gone("Invite has expired")
		}
		return nil
	}
	if !group.IsPublic {
		return internal_errors.Forbidden("This group is invite only")
	}
	return nil
}

// CanLeave requires an existing membership. The owner can never leave;
// ownership is immutable and the group would be orphaned.
func (a *Access) CanLeave(user domain.User, group domain.Group) error {
	if group.OwnerId == user.Id {
		return internal_errors.Conflict("Group owner cannot leave the group")
	}
	isMember, err := a.storage.IsMember(group.Id, user.Id)
	if err != nil {
		return err
	}
	if !isMember {
		return internal_errors.Forbidden("You are not a member of this group")
	}
	return nil
}

func (a *Access) CanModerate(user domain.User, group domain.Group) error {
	if group.OwnerId == user.Id {
		return nil
	}
	isModerator, err := a.storage.HasRole(group.Id, user.Id, domain.RoleModerator)
	if err != nil {
		return err
	}
	if !isModerator {
		return internal_errors.Forbidden("Moderator rights required")
	}
	return nil
}

// CanEditOrDeletePost allows the author, the group owner and moderators.
func (a *Access) CanEditOrDeletePost(user domain.User, post domain.Post) error {
	if post.AuthorId == user.Id {
		return nil
	}
	group, err := a.storage.GetGroup(post.GroupId)
	if err != nil {
		return err
	}
	err = a.CanModerate(user, group)
	if internal_errors.IsStatus(err, http.StatusForbidden) {
		return internal_errors.Forbidden("You can't modify this post")
	}
	return err
}

// CanAdminister is owner only: invites, roles, member removal, cover and
// group edits.
func (a *Access) CanAdminister(user domain.User, group domain.Group) error {
	if group.OwnerId != user.Id {
		return internal_errors.Forbidden("Only the group owner can do this")
	}
	return nil
}
