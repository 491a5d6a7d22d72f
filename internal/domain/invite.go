package domain

import "time"

type Invite struct {
	Id        InviteId
	Code      InviteCode
	GroupId   GroupId
	CreatedBy UserId
	CreatedAt time.Time
	ExpiresAt *time.Time
}

// IsValid reports whether the invite can still be redeemed at t.
// An invite with no expiry never expires; the boundary instant is valid.
func (i *Invite) IsValid(t time.Time) bool {
	return i.ExpiresAt == nil || !i.ExpiresAt.Before(t)
}
