package service

import (
	"sort"
	"time"

	"github.com/daygram-app/daygram-api/internal/domain"
)

const reportWindowDays = 7

// to mock service in tests
type LeaderboardService interface {
	Leaderboard(user domain.User, groupId domain.GroupId, period string) ([]domain.LeaderboardRow, error)
	DailyReport(user domain.User) (domain.DailyReport, error)
}

type Leaderboard struct {
	storage LeaderboardStorage
	access  AccessService
	now     func() time.Time
}

type LeaderboardStorage interface {
	GetGroup(id domain.GroupId) (domain.Group, error)
	GroupPosts(groupId domain.GroupId, date *time.Time) ([]domain.Post, error)
	DailyPostCounts(authorId domain.UserId, from, to time.Time) (map[string]int, error)
}

func NewLeaderboard(storage LeaderboardStorage, access AccessService) *Leaderboard {
	return &Leaderboard{storage: storage, access: access, now: time.Now}
}

// windowStart maps a period name to the first day it covers. Unknown
// periods fall back to weekly.
func windowStart(period string, today time.Time) time.Time {
	switch period {
	case domain.PeriodDaily:
		return today
	case domain.PeriodMonthly:
		return today.AddDate(0, 0, -29)
	default:
		return today.AddDate(0, 0, -6)
	}
}

// Leaderboard ranks the group's posters over the chosen window: active
// days, then total posts, then streak, then last post time, all
// descending. The streak counts consecutive calendar days with a post
// ending today, or yesterday when today has none yet.
func (l *Leaderboard) Leaderboard(user domain.User, groupId domain.GroupId, period string) ([]domain.LeaderboardRow, error) {
	group, err := l.storage.GetGroup(groupId)
	if err != nil {
		return nil, err
	}
	if err := l.access.CanPost(user, group); err != nil {
		return nil, err
	}

	posts, err := l.storage.GroupPosts(groupId, nil)
	if err != nil {
		return nil, err
	}

	t := l.now().UTC()
	today := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	from := windowStart(period, today)

	type tally struct {
		name       string
		days       map[string]bool // distinct post days in window
		allDays    map[string]bool // every post day, for the streak
		totalPosts int
		lastPost   time.Time
	}
	tallies := make(map[domain.UserId]*tally)

	for _, post := range posts {
		entry, ok := tallies[post.AuthorId]
		if !ok {
			entry = &tally{name: post.AuthorName, days: map[string]bool{}, allDays: map[string]bool{}}
			tallies[post.AuthorId] = entry
		}
		day := post.Date.Format(dateLayout)
		entry.allDays[day] = true
		if post.CreatedAt.After(entry.lastPost) {
			entry.lastPost = post.CreatedAt
		}
		if !post.Date.Before(from) && !post.Date.After(today) {
			entry.days[day] = true
			entry.totalPosts++
		}
	}

	rows := make([]domain.LeaderboardRow, 0, len(tallies))
	for userId, entry := range tallies {
		if entry.totalPosts == 0 {
			continue // nothing in the window
		}
		rows = append(rows, domain.LeaderboardRow{
			UserId:     userId,
			Name:       entry.name,
			ActiveDays: len(entry.days),
			TotalPosts: entry.totalPosts,
			Streak:     streak(entry.allDays, today),
			LastPost:   entry.lastPost,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.ActiveDays != b.ActiveDays {
			return a.ActiveDays > b.ActiveDays
		}
		if a.TotalPosts != b.TotalPosts {
			return a.TotalPosts > b.TotalPosts
		}
		if a.Streak != b.Streak {
			return a.Streak > b.Streak
		}
		return a.LastPost.After(b.LastPost)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

// streak counts consecutive days with posts walking back from today. A
// missing today doesn't break a run that ended yesterday.
func streak(postDays map[string]bool, today time.Time) int {
	day := today
	if !postDays[day.Format(dateLayout)] {
		day = day.AddDate(0, 0, -1)
	}
	count := 0
	for postDays[day.Format(dateLayout)] {
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}

// DailyReport returns the caller's posts-per-day for the trailing week,
// zero-filled, oldest day first.
func (l *Leaderboard) DailyReport(user domain.User) (domain.DailyReport, error) {
	t := l.now().UTC()
	today := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -(reportWindowDays - 1))

	counts, err := l.storage.DailyPostCounts(user.Id, from, today)
	if err != nil {
		return domain.DailyReport{}, err
	}

	report := domain.DailyReport{
		Labels: make([]string, 0, reportWindowDays),
		Counts: make([]int, 0, reportWindowDays),
	}
	for day := from; !day.After(today); day = day.AddDate(0, 0, 1) {
		label := day.Format(dateLayout)
		report.Labels = append(report.Labels, label)
		report.Counts = append(report.Counts, counts[label])
	}
	return report, nil
}
