package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daygram-app/daygram-api/internal/api"
	mw "github.com/daygram-app/daygram-api/internal/middleware"
	"github.com/daygram-app/daygram-api/internal/utils"
)

func (h *Handler) CreateInvite(w http.ResponseWriter, r *http.Request) {
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

	invite, err := h.groups.CreateInvite(*user, groupId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, api.InviteResponse{Code: invite.Code, GroupId: invite.GroupId, ExpiresAt: invite.ExpiresAt})
}

func (h *Handler) GetInvites(w http.ResponseWriter, r *http.Request) {
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

	invites, err := h.groups.Invites(*user, groupId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := []api.InviteResponse{}
	for _, invite := range invites {
		response = append(response, api.InviteResponse{Code: invite.Code, GroupId: invite.GroupId, ExpiresAt: invite.ExpiresAt})
	}
	writeJSON(w, response)
}

// PreviewInvite shows the group behind an invite code. Anonymous callers
// are allowed so the landing page can render before sign-in.
func (h *Handler) PreviewInvite(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	view, err := h.groups.InvitePreview(mw.GetUserFromContext(r), code)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.GroupResponseFrom(view))
}

func (h *Handler) JoinByInvite(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}
	code := chi.URLParam(r, "code")

	view, err := h.groups.JoinByInvite(*user, code)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.GroupResponseFrom(view))
}
