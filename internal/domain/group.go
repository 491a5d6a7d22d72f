package domain

import (
	"time"
)

// to iterate thru layers: handler -> service -> storage
type GroupCreationData struct {
	Name        string
	Color       string
	Description string
	OwnerId     UserId
	IsPublic    bool
	StartDate   *time.Time
	EndDate     *time.Time
}

type GroupUpdateData struct {
	Name        *string
	Color       *string
	Description *string
	IsPublic    *bool
	StartDate   *time.Time
	EndDate     *time.Time
}

type Group struct {
	Id          GroupId
	Name        string
	Color       string
	Description string
	OwnerId     UserId
	IsPublic    bool
	CoverUrl    string
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
}

// Member is a roster entry: a user joined to a group with a role.
type Member struct {
	UserId      UserId
	DisplayName string
	Role        Role
	JoinedAt    time.Time
}

type Membership struct {
	Id        int64
	GroupId   GroupId
	UserId    UserId
	Role      Role
	CreatedAt time.Time
}

// GroupView is a group as seen by a particular user, carrying the
// caller-relative flags the API contract exposes.
type GroupView struct {
	Group
	MemberCount int
	IsCreator   bool
	IsMember    bool
	Members     []Member // populated in "mine" mode only
}

// GroupFilter narrows the candidate set for the listing endpoint.
type GroupFilter struct {
	Mode  string // GroupModeMine or GroupModeDiscover
	Query string // substring match on name OR description, discover only
	Limit int
}
