package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daygram-app/daygram-api/internal/api"
	mw "github.com/daygram-app/daygram-api/internal/middleware"
	"github.com/daygram-app/daygram-api/internal/utils"
)

func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
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

	tree, err := h.comments.Tree(*user, postId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := api.CommentListResponse{Comments: []*api.CommentResponse{}}
	for _, node := range tree {
		response.Comments = append(response.Comments, api.CommentResponseFrom(node, h.text.Render))
	}
	writeJSON(w, response)
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
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

	var body api.CreateCommentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	comment, err := h.comments.Create(*user, postId, body.Text, body.ParentId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, api.CommentResponse{
		Id:        comment.Id,
		PostId:    comment.PostId,
		UserId:    comment.AuthorId,
		UserName:  comment.AuthorName,
		Text:      comment.Text,
		TextHtml:  h.text.Render(comment.Text),
		CreatedAt: comment.CreatedAt,
		Parent:    comment.ParentId,
		Replies:   []*api.CommentResponse{},
	})
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}
	commentId, err := parseIdParam(chi.URLParam(r, "comment"), "comment ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.comments.Delete(*user, commentId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
