package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daygram-app/daygram-api/internal/api"
	mw "github.com/daygram-app/daygram-api/internal/middleware"
	"github.com/daygram-app/daygram-api/internal/utils"
)

func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
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

	members, err := h.groups.Members(*user, groupId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := []api.MemberResponse{}
	for _, m := range members {
		response = append(response, api.MemberResponse{Id: m.UserId, Name: m.DisplayName, Role: m.Role})
	}
	writeJSON(w, response)
}

func (h *Handler) JoinGroup(w http.ResponseWriter, r *http.Request) {
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

	view, err := h.groups.Join(*user, groupId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.GroupResponseFrom(view))
}

func (h *Handler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
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

	if err := h.groups.Leave(*user, groupId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ChangeMemberRole(w http.ResponseWriter, r *http.Request) {
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
	memberId, err := parseIdParam(chi.URLParam(r, "user"), "user ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body api.ChangeRoleRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.groups.ChangeRole(*user, groupId, memberId, body.Role); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
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
	memberId, err := parseIdParam(chi.URLParam(r, "user"), "user ID")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.groups.RemoveMember(*user, groupId, memberId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
