package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/daygram-app/daygram-api/internal/config"
	"github.com/daygram-app/daygram-api/internal/domain"
	internal_errors "github.com/daygram-app/daygram-api/internal/errors"
	"github.com/daygram-app/daygram-api/internal/utils"
	"github.com/daygram-app/daygram-api/internal/validation"
)

const inviteCodeLen = 10

// to mock service in tests
type GroupService interface {
	Create(user domain.User, data domain.GroupCreationData) (domain.GroupView, error)
	Get(user domain.User, groupId domain.GroupId) (domain.GroupView, error)
	Update(user domain.User, groupId domain.GroupId, data domain.GroupUpdateData) (domain.GroupView, error)
	Delete(user domain.User, groupId domain.GroupId) error
	List(user domain.User, filter domain.GroupFilter) ([]domain.GroupView, error)
	Members(user domain.User, groupId domain.GroupId) ([]domain.Member, error)
	Join(user domain.User, groupId domain.GroupId) (domain.GroupView, error)
	JoinByInvite(user domain.User, code domain.InviteCode) (domain.GroupView, error)
	InvitePreview(user *domain.User, code domain.InviteCode) (domain.GroupView, error)
	Leave(user domain.User, groupId domain.GroupId) error
	CreateInvite(user domain.User, groupId domain.GroupId) (domain.Invite, error)
	Invites(user domain.User, groupId domain.GroupId) ([]domain.Invite, error)
	ChangeRole(user domain.User, groupId domain.GroupId, memberId domain.UserId, role domain.Role) error
	RemoveMember(user domain.User, groupId domain.GroupId, memberId domain.UserId) error
	SetCover(ctx context.Context, user domain.User, groupId domain.GroupId, photo *validation.PendingPhoto) (domain.GroupView, error)
}

type Group struct {
	storage GroupStorage
	access  AccessService
	photos  PhotoStore
	auditor Auditor
	cfg     *config.Public
}

type GroupStorage interface {
	CreateGroup(data domain.GroupCreationData) (domain.Group, error)
	GetGroup(id domain.GroupId) (domain.Group, error)
	UpdateGroup(id domain.GroupId, data domain.GroupUpdateData) error
	SetGroupCover(id domain.GroupId, coverUrl string) error
	DeleteGroup(id domain.GroupId) error
	GroupsForUser(userId domain.UserId, limit int) ([]domain.GroupView, error)
	DiscoverGroups(userId domain.UserId, query string, limit int) ([]domain.GroupView, error)
	MemberCount(groupId domain.GroupId) (int, error)
	Members(groupId domain.GroupId) ([]domain.Member, error)
	AddMembership(groupId domain.GroupId, userId domain.UserId, role domain.Role) error
	Membership(groupId domain.GroupId, userId domain.UserId) (domain.Membership, error)
	RemoveMembership(groupId domain.GroupId, userId domain.UserId) error
	UpdateMembershipRole(groupId domain.GroupId, userId domain.UserId, role domain.Role) error
	IsMember(groupId domain.GroupId, userId domain.UserId) (bool, error)
	SaveInvite(invite domain.Invite) (domain.Invite, error)
	InviteByCode(code domain.InviteCode) (domain.Invite, error)
	GroupInvites(groupId domain.GroupId) ([]domain.Invite, error)
}

type PhotoStore interface {
	Upload(ctx context.Context, key string, file io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

func NewGroup(storage GroupStorage, access AccessService, photos PhotoStore, auditor Auditor, cfg *config.Public) *Group {
	return &Group{storage: storage, access: access, photos: photos, auditor: auditor, cfg: cfg}
}

// Create makes the group and enrolls the owner, which happens inside the
// storage transaction.
func (g *Group) Create(user domain.User, data domain.GroupCreationData) (domain.GroupView, error) {
	data.OwnerId = user.Id
	group, err := g.storage.CreateGroup(data)
	if err != nil {
		return domain.GroupView{}, err
	}
	recordAudit(g.auditor, user.Id, domain.AuditCreate, "group", group.Id, group.Name)
	return g.view(user, group, true)
}

func (g *Group) Get(user domain.User, groupId domain.GroupId) (domain.GroupView, error) {
	group, err := g.storage.GetGroup(groupId)
	if err != nil {
		return domain.GroupView{}, err
	}
	if err := g.access.CanView(user, group); err != nil {
		return domain.GroupView{}, err
	}
	// roster only for people inside the group
	withRoster := g.access.CanPost(user, group) == nil
	return g.view(user, group, withRoster)
}

func (g *Group) Update(user domain.User, groupId domain.GroupId, data domain.GroupUpdateData) (domain.GroupView, error) {
	group, err := g.storage.GetGroup(groupId)
	if err != nil {
		return domain.GroupView{}, err
	}
	if err := g.access.CanAdminister(user, group); err != nil {
		return domain.GroupView{}, err
	}
	if err := g.storage.UpdateGroup(groupId, data); err != nil {
		return domain.GroupView{}, err
	}
	recordAudit(g.auditor, user.Id, domain.AuditUpdate, "group", groupId, "")

	updated, err := g.storage.GetGroup(groupId)
	if err != nil {
		return domain.GroupView{}, err
	}
	return g.view(user, updated, true)
}

func (g *Group) Delete(user domain.User, groupId domain.GroupId) error {
	group, err := g.storage.GetGroup(groupId)
	if err != nil {
		return err
	}
	if err := g.access.CanAdminister(user, group); err != nil {
		return err
	}
	if err := g.storage.DeleteGroup(groupId); err != nil {
		return err
	}
	recordAudit(g.auditor, user.Id, domain.AuditDelete, "group", groupId, group.Name)
	return nil
}

// List serves both browsing modes. The limit is clamped, never rejected.
func (g *Group) List(user domain.User, filter domain.GroupFilter) ([]domain.GroupView, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = g.cfg.DefaultPageSize
	}
	if limit > g.cfg.MaxPageSize {
		limit = g.cfg.MaxPageSize
	}

	if filter.Mode == domain.GroupModeDiscover {
		return g.storage.DiscoverGroups(user.Id, filter.Query, limit)
	}

	views, err := g.storage.GroupsForUser(user.Id, limit)
	if err != nil {
		return nil, err
	}
	for i := range views {
		members, err := g.storage.Members(views[i].Id)
		if err != nil {
			return nil, err
		}
		views[i].Members = members
	}
	return views, nil
}

func (g *Group) Members(user domain.User, groupId domain.GroupId) ([]domain.Member, error) {
	group, err := g.storage.GetGroup(groupId)
	if err != nil {
		return nil, err
	}
	if err := g.access.CanView(user, group); err != nil {
		return nil, err
	}
	return g.storage.Members(groupId)
}

// Join is the public self-join path. Joining twice is a no-op.
func (g *Group) Join(user domain.User, groupId domain.GroupId) (domain.GroupView, error) {
	group, err := g.storage.GetGroup(groupId)
	if err != nil {
		return domain.GroupView{}, err
	}
	if err := g.access.CanJoin(user, group, nil, time.Now().UTC()); err != nil {
		return domain.GroupView{}, err
	}
	if err := g.storage.AddMembership(groupId, user.Id, domain.RoleMember); err != nil {
		return domain.GroupView{}, err
	}
	recordAudit(g.auditor, user.Id, domain.AuditCreate, "membership", groupId, "joined")
	return g.view(user, group, true)
}

// JoinByInvite redeems a code. The invite must still be valid and belong
// to the group it claims.
func (g *Group) JoinByInvite(user domain.User, code domain.InviteCode) (domain.GroupView, error) {
	invite, err := g.storage.InviteByCode(code)
	if err != nil {
		return domain.GroupView{}, err
	}
	group, err := g.storage.GetGroup(invite.GroupId)
	if err != nil {
		return domain.GroupView{}, err
	}
	if err := g.access.CanJoin(user, group, &invite, time.Now().UTC()); err != nil {
		return domain.GroupView{}, err
	}
	if err := g.storage.AddMembership(group.Id, user.Id, domain.RoleMember); err != nil {
		return domain.GroupView{}, err
	}
	recordAudit(g.auditor, user.Id, domain.AuditCreate, "membership", group.Id, "joined via invite")
	return g.view(user, group, true)
}

// InvitePreview resolves an invite code into the group it opens, without
// joining. The invite landing page calls this before the visitor signs in,
// so user is nil for anonymous callers. Holding the code is the capability;
// no membership check applies, but the roster stays hidden.
func (g *Group) InvitePreview(user *domain.User, code domain.InviteCode) (domain.GroupView, error) {
	invite, err := g.storage.InviteByCode(code)
	if err != nil {
		return domain.GroupView{}, err
	}
	if !invite.IsValid(time.Now().UTC()) {
		return domain.GroupView{}, internal_errors.Gone("Invite has expired")
	}
	group, err := g.storage.GetGroup(invite.GroupId)
	if err != nil {
		return domain.GroupView{}, err
	}
	var viewer domain.User
	if user != nil {
		viewer = *user
	}
	return g.view(viewer, group, false)
}

func (g *Group) Leave(user domain.User, groupId domain.GroupId) error {
	group, err := g.storage.GetGroup(groupId)
	if err != nil {
		return err
	}
	if err := g.access.CanLeave(user, group); err != nil {
		return err
	}
	if err := g.storage.RemoveMembership(groupId, user.Id); err != nil {
		return err
	}
	recordAudit(g.auditor, user.Id, domain.AuditDelete, "membership", groupId, "left")
	return nil
}

func (g *Group) CreateInvite(user domain.User, groupId domain.GroupId) (domain.Invite, error) {
	group, err := g.storage.GetGroup(groupId)
	if err != nil {
		return domain.Invite{}, err
	}
	if err := g.access.CanAdminister(user, group); err != nil {
		return domain.Invite{}, err
	}

	expires := time.Now().UTC().Add(g.cfg.InviteTTL)
	invite, err := g.storage.SaveInvite(domain.Invite{
		Code:      utils.GenerateInviteCode(inviteCodeLen),
		GroupId:   groupId,
		CreatedBy: user.Id,
		ExpiresAt: &expires,
	})
	if err != nil {
		return domain.Invite{}, err
	}
	recordAudit(g.auditor, user.Id, domain.AuditCreate, "invite", invite.Id, "")
	return invite, nil
}

func (g *Group) Invites(user domain.User, groupId domain.GroupId) ([]domain.Invite, error) {
	group, err := g.storage.GetGroup(groupId)
	if err != nil {
		return nil, err
	}
	if err := g.access.CanAdminister(user, group); err != nil {
		return nil, err
	}
	return g.storage.GroupInvites(groupId)
}

func (g *Group) ChangeRole(user domain.User, groupId domain.GroupId, memberId domain.UserId, role domain.Role) error {
	group, err := g.storage.GetGroup(groupId)
	if err != nil {
		return err
	}
	if err := g.access.CanAdminister(user, group); err != nil {
		return err
	}
	if memberId == group.OwnerId {
		return internal_errors.Conflict("Cannot change the owner's role")
	}
	current, err := g.storage.Membership(groupId, memberId)
	if err != nil {
		return err
	}
	if current.Role == role {
		return nil
	}
	if err := g.storage.UpdateMembershipRole(groupId, memberId, role); err != nil {
		return err
	}
	recordAudit(g.auditor, user.Id, domain.AuditUpdate, "membership", groupId, fmt.Sprintf("user %d %s -> %s", memberId, current.Role, role))
	return nil
}

func (g *Group) RemoveMember(user domain.User, groupId domain.GroupId, memberId domain.UserId) error {
	group, err := g.storage.GetGroup(groupId)
	if err != nil {
		return err
	}
	if err := g.access.CanAdminister(user, group); err != nil {
		return err
	}
	if memberId == group.OwnerId {
		return internal_errors.Conflict("Cannot remove the group owner")
	}
	if err := g.storage.RemoveMembership(groupId, memberId); err != nil {
		return err
	}
	recordAudit(g.auditor, user.Id, domain.AuditDelete, "membership", groupId, fmt.Sprintf("removed user %d", memberId))
	return nil
}

func (g *Group) SetCover(ctx context.Context, user domain.User, groupId domain.GroupId, photo *validation.PendingPhoto) (domain.GroupView, error) {
	group, err := g.storage.GetGroup(groupId)
	if err != nil {
		return domain.GroupView{}, err
	}
	if err := g.access.CanAdminister(user, group); err != nil {
		return domain.GroupView{}, err
	}

	coverUrl, err := g.photos.Upload(ctx, utils.NewStorageKey("covers", groupId), photo.Data)
	if err != nil {
		return domain.GroupView{}, err
	}
	if err := g.storage.SetGroupCover(groupId, coverUrl); err != nil {
		return domain.GroupView{}, err
	}
	recordAudit(g.auditor, user.Id, domain.AuditUpdate, "group", groupId, "cover updated")

	group.CoverUrl = coverUrl
	return g.view(user, group, true)
}

// view assembles the caller-relative group representation.
func (g *Group) view(user domain.User, group domain.Group, withRoster bool) (domain.GroupView, error) {
	count, err := g.storage.MemberCount(group.Id)
	if err != nil {
		return domain.GroupView{}, err
	}
	isMember := group.OwnerId == user.Id
	if !isMember {
		isMember, err = g.storage.IsMember(group.Id, user.Id)
		if err != nil {
			return domain.GroupView{}, err
		}
	}
	view := domain.GroupView{
		Group:       group,
		MemberCount: count,
		IsCreator:   group.OwnerId == user.Id,
		IsMember:    isMember,
	}
	if withRoster {
		view.Members, err = g.storage.Members(group.Id)
		if err != nil {
			return domain.GroupView{}, err
		}
	}
	return view, nil
}
