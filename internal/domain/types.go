package domain

type (
	UserId    = int64
	Username  = string
	GroupId   = int64
	PostId    = int64
	CommentId = int64
	InviteId  = int64

	InviteCode = string
	Role       = string
)

const (
	RoleMember    Role = "member"
	RoleModerator Role = "moderator"
)

// Query modes for the group listing endpoint.
const (
	GroupModeMine     = "mine"
	GroupModeDiscover = "discover"
)

// Leaderboard windows.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)
