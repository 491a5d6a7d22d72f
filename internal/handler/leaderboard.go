package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daygram-app/daygram-api/internal/api"
	"github.com/daygram-app/daygram-api/internal/domain"
	mw "github.com/daygram-app/daygram-api/internal/middleware"
	"github.com/daygram-app/daygram-api/internal/utils"
)

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}
	groupId, err := parseIdParam(chi.URLParam(r, "group"), "group ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = domain.PeriodWeekly
	}

	rows, err := h.leaderboard.Leaderboard(*user, groupId, period)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := api.LeaderboardResponse{Period: period, Rows: []api.LeaderboardRow{}}
	for _, row := range rows {
		apiRow := api.LeaderboardRow{
			Rank:       row.Rank,
			UserId:     row.UserId,
			Name:       row.Name,
			ActiveDays: row.ActiveDays,
			TotalPosts: row.TotalPosts,
			Streak:     row.Streak,
		}
		if !row.LastPost.IsZero() {
			lastPost := row.LastPost
			apiRow.LastPost = &lastPost
		}
		response.Rows = append(response.Rows, apiRow)
	}
	writeJSON(w, response)
}

func (h *Handler) GetDailyReport(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	report, err := h.leaderboard.DailyReport(*user)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.DailyReportResponse{Labels: report.Labels, Counts: report.Counts})
}
