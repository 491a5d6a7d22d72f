package domain

import (
	"strings"
	"time"
)

type User struct {
	Id        UserId
	Username  Username
	PassHash  string
	FirstName string
	LastName  string
	Bio       string
	CreatedAt time.Time
}

type Credentials struct {
	Username Username
	Password string
}

// DisplayName resolves the name shown in rosters and on comments:
// trimmed full name if non-empty, otherwise the username.
// Whitespace-only names fall back too.
func (u *User) DisplayName() string {
	full := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if full != "" {
		return full
	}
	return u.Username
}
