package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daygram-app/daygram-api/internal/api"
	"github.com/daygram-app/daygram-api/internal/domain"
	internal_errors "github.com/daygram-app/daygram-api/internal/errors"
)

func TestGetLeaderboardHandler(t *testing.T) {
	h := newTestHandler()
	router := chi.NewRouter()
	router.Get("/v1/groups/{group}/leaderboard", h.GetLeaderboard)

	t.Run("default period is weekly", func(t *testing.T) {
		lastPost := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
		h.leaderboard = &MockLeaderboardService{
			MockLeaderboard: func(user domain.User, groupId domain.GroupId, period string) ([]domain.LeaderboardRow, error) {
				assert.Equal(t, domain.PeriodWeekly, period)
				return []domain.LeaderboardRow{
					{Rank: 1, UserId: 3, Name: "Ann Lee", ActiveDays: 5, TotalPosts: 5, Streak: 3, LastPost: lastPost},
				}, nil
			},
		}
		req := authed(http.MethodGet, "/v1/groups/42/leaderboard", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.LeaderboardResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "weekly", resp.Period)
		require.Len(t, resp.Rows, 1)
		assert.Equal(t, 1, resp.Rows[0].Rank)
		require.NotNil(t, resp.Rows[0].LastPost)
		assert.True(t, resp.Rows[0].LastPost.Equal(lastPost))
	})

	t.Run("explicit period", func(t *testing.T) {
		h.leaderboard = &MockLeaderboardService{
			MockLeaderboard: func(user domain.User, groupId domain.GroupId, period string) ([]domain.LeaderboardRow, error) {
				assert.Equal(t, domain.PeriodDaily, period)
				return nil, nil
			},
		}
		req := authed(http.MethodGet, "/v1/groups/42/leaderboard?period=daily", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"period": "daily", "rows": []}`, rr.Body.String())
	})

	t.Run("non-member", func(t *testing.T) {
		h.leaderboard = &MockLeaderboardService{
			MockLeaderboard: func(user domain.User, groupId domain.GroupId, period string) ([]domain.LeaderboardRow, error) {
				return nil, internal_errors.Forbidden("You don't have access to this group")
			},
		}
		req := authed(http.MethodGet, "/v1/groups/42/leaderboard", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestGetDailyReportHandler(t *testing.T) {
	h := newTestHandler()
	router := chi.NewRouter()
	router.Get("/v1/reports/daily", h.GetDailyReport)

	h.leaderboard = &MockLeaderboardService{
		MockDailyReport: func(user domain.User) (domain.DailyReport, error) {
			return domain.DailyReport{
				Labels: []string{"2026-08-25", "2026-08-26", "2026-08-27", "2026-08-28", "2026-08-29", "2026-08-30", "2026-08-31"},
				Counts: []int{0, 2, 0, 0, 0, 0, 1},
			}, nil
		},
	}
	req := authed(http.MethodGet, "/v1/reports/daily", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp api.DailyReportResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp.Labels, 7)
	assert.Equal(t, "2026-08-25", resp.Labels[0])
	assert.Equal(t, []int{0, 2, 0, 0, 0, 0, 1}, resp.Counts)
}
