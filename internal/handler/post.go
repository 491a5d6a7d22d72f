package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/daygram-app/daygram-api/internal/api"
	"github.com/daygram-app/daygram-api/internal/domain"
	mw "github.com/daygram-app/daygram-api/internal/middleware"
	"github.com/daygram-app/daygram-api/internal/utils"
)

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
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

	photo, cleanup, err := h.parsePhotoUpload(w, r)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	defer cleanup()
	caption := r.FormValue("caption")

	post, err := h.posts.Create(r.Context(), *user, groupId, caption, photo)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, api.PostResponseFrom(post))
}

func (h *Handler) GetGroupPosts(w http.ResponseWriter, r *http.Request) {
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

	var date *time.Time
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			http.Error(w, "invalid date: must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		date = &parsed
	}

	posts, err := h.posts.Feed(*user, groupId, date)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := api.PostListResponse{Posts: []api.PostResponse{}}
	for _, post := range posts {
		response.Posts = append(response.Posts, api.PostResponseFrom(post))
	}
	writeJSON(w, response)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}
	postId, err := parseIdParam(chi.URLParam(r, "post"), "post ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.posts.Get(*user, postId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.PostResponseFrom(post))
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}
	postId, err := parseIdParam(chi.URLParam(r, "post"), "post ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body api.UpdatePostRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.posts.Update(*user, postId, domain.PostUpdateData{Caption: body.Caption})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.PostResponseFrom(post))
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}
	postId, err := parseIdParam(chi.URLParam(r, "post"), "post ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.posts.Delete(r.Context(), *user, postId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ExportPostsCSV(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="posts.csv"`)
	if err := h.posts.ExportCSV(*user, w); err != nil {
		// status line is already written once the first row went out
		zap.S().Errorw("csv export failed mid-stream", "error", err, "user_id", user.Id)
		return
	}
}

func (h *Handler) ImportPostsCSV(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	imported, err := h.posts.ImportCSV(*user, r.Body)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, map[string]int{"imported": imported})
}
