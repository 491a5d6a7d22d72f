package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/daygram-app/daygram-api/internal/config"
	"github.com/daygram-app/daygram-api/internal/markdown"
	"github.com/daygram-app/daygram-api/internal/service"
)

type Handler struct {
	auth        service.AuthService
	groups      service.GroupService
	posts       service.PostService
	comments    service.CommentService
	leaderboard service.LeaderboardService
	cfg         *config.Config
	text        *markdown.TextProcessor
}

func New(auth service.AuthService, groups service.GroupService, posts service.PostService, comments service.CommentService, leaderboard service.LeaderboardService, cfg *config.Config, text *markdown.TextProcessor) *Handler {
	return &Handler{auth, groups, posts, comments, leaderboard, cfg, text}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorw("failed to encode response", "error", err)
	}
}

// parseIdParam parses an int64 URL parameter and returns a meaningful error
func parseIdParam(param string, paramName string) (int64, error) {
	val, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", paramName)
	}
	return val, nil
}
