package domain

import "time"

// LeaderboardRow is one ranked entry of a group's activity board.
type LeaderboardRow struct {
	Rank       int
	UserId     UserId
	Name       string
	ActiveDays int
	TotalPosts int
	Streak     int
	LastPost   time.Time
}

// DailyReport is a user's posts-per-day series over a trailing window,
// oldest day first.
type DailyReport struct {
	Labels []string
	Counts []int
}
