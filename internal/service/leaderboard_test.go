package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daygram-app/daygram-api/internal/domain"
)

// MockLeaderboardStorage mocks the LeaderboardStorage interface.
type MockLeaderboardStorage struct {
	getGroupFunc        func(id domain.GroupId) (domain.Group, error)
	groupPostsFunc      func(groupId domain.GroupId, date *time.Time) ([]domain.Post, error)
	dailyPostCountsFunc func(authorId domain.UserId, from, to time.Time) (map[string]int, error)
}

func (m *MockLeaderboardStorage) GetGroup(id domain.GroupId) (domain.Group, error) {
	if m.getGroupFunc != nil {
		return m.getGroupFunc(id)
	}
	return domain.Group{Id: id, OwnerId: owner.Id, IsPublic: true}, nil
}

func (m *MockLeaderboardStorage) GroupPosts(groupId domain.GroupId, date *time.Time) ([]domain.Post, error) {
	if m.groupPostsFunc != nil {
		return m.groupPostsFunc(groupId, date)
	}
	return nil, nil
}

func (m *MockLeaderboardStorage) DailyPostCounts(authorId domain.UserId, from, to time.Time) (map[string]int, error) {
	if m.dailyPostCountsFunc != nil {
		return m.dailyPostCountsFunc(authorId, from, to)
	}
	return map[string]int{}, nil
}

var lbToday = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

func lbPost(author domain.UserId, name string, daysAgo int) domain.Post {
	d := lbToday.AddDate(0, 0, -daysAgo)
	return domain.Post{
		GroupId: 10, AuthorId: author, AuthorName: name,
		Date: d, CreatedAt: d.Add(12 * time.Hour),
	}
}

func newLeaderboardService(storage *MockLeaderboardStorage) *Leaderboard {
	access := NewAccess(&MockAccessStorage{
		isMemberFunc: func(_ domain.GroupId, userId domain.UserId) (bool, error) {
			return userId == member.Id, nil
		},
	})
	s := NewLeaderboard(storage, access)
	s.now = func() time.Time { return lbToday.Add(15 * time.Hour) }
	return s
}

func TestLeaderboard(t *testing.T) {
	t.Run("ranking order", func(t *testing.T) {
		posts := []domain.Post{
			// ann: 3 active days this week, streak of 3
			lbPost(2, "ann", 0), lbPost(2, "ann", 1), lbPost(2, "ann", 2),
			// bob: 3 active days but older, no streak
			lbPost(3, "bob", 2), lbPost(3, "bob", 4), lbPost(3, "bob", 6),
			// cat: 1 active day
			lbPost(4, "cat", 1),
		}
		storage := &MockLeaderboardStorage{
			groupPostsFunc: func(domain.GroupId, *time.Time) ([]domain.Post, error) { return posts, nil },
		}
		s := newLeaderboardService(storage)

		rows, err := s.Leaderboard(member, 10, domain.PeriodWeekly)
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, "ann", rows[0].Name)
		assert.Equal(t, 1, rows[0].Rank)
		assert.Equal(t, 3, rows[0].ActiveDays)
		assert.Equal(t, 3, rows[0].Streak)

		// tie on active days broken by streak (ann) over bob
		assert.Equal(t, "bob", rows[1].Name)
		assert.Equal(t, 2, rows[1].Rank)
		assert.Equal(t, 0, rows[1].Streak, "gap two days ago breaks the streak")

		assert.Equal(t, "cat", rows[2].Name)
	})

	t.Run("daily window keeps only today's posters", func(t *testing.T) {
		posts := []domain.Post{lbPost(2, "ann", 0), lbPost(3, "bob", 1)}
		storage := &MockLeaderboardStorage{
			groupPostsFunc: func(domain.GroupId, *time.Time) ([]domain.Post, error) { return posts, nil },
		}
		s := newLeaderboardService(storage)

		rows, err := s.Leaderboard(member, 10, domain.PeriodDaily)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "ann", rows[0].Name)
	})

	t.Run("streak tolerates missing today", func(t *testing.T) {
		posts := []domain.Post{lbPost(2, "ann", 1), lbPost(2, "ann", 2)}
		storage := &MockLeaderboardStorage{
			groupPostsFunc: func(domain.GroupId, *time.Time) ([]domain.Post, error) { return posts, nil },
		}
		s := newLeaderboardService(storage)

		rows, err := s.Leaderboard(member, 10, domain.PeriodWeekly)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 2, rows[0].Streak)
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		s := newLeaderboardService(&MockLeaderboardStorage{})
		_, err := s.Leaderboard(stranger, 10, domain.PeriodWeekly)
		require.Error(t, err)
	})
}

func TestDailyReport(t *testing.T) {
	storage := &MockLeaderboardStorage{
		dailyPostCountsFunc: func(_ domain.UserId, from, to time.Time) (map[string]int, error) {
			assert.Equal(t, "2026-08-25", from.Format(dateLayout))
			assert.Equal(t, "2026-08-31", to.Format(dateLayout))
			return map[string]int{"2026-08-26": 2, "2026-08-31": 1}, nil
		},
	}
	s := newLeaderboardService(storage)

	report, err := s.DailyReport(member)
	require.NoError(t, err)
	require.Len(t, report.Labels, 7)
	require.Len(t, report.Counts, 7)
	assert.Equal(t, "2026-08-25", report.Labels[0])
	assert.Equal(t, "2026-08-31", report.Labels[6])
	assert.Equal(t, []int{0, 2, 0, 0, 0, 0, 1}, report.Counts)
}
