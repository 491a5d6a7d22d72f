package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/daygram-app/daygram-api/internal/api"
	"github.com/daygram-app/daygram-api/internal/domain"
	internal_errors "github.com/daygram-app/daygram-api/internal/errors"
	mw "github.com/daygram-app/daygram-api/internal/middleware"
	"github.com/daygram-app/daygram-api/internal/utils"
	"github.com/daygram-app/daygram-api/internal/validation"
)

const dateLayout = "2006-01-02"

// parseDateField parses an optional YYYY-MM-DD string from a request body.
func parseDateField(s *string, fieldName string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: must be YYYY-MM-DD", fieldName)
	}
	return &t, nil
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	var body api.CreateGroupRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	startDate, err := parseDateField(body.StartDate, "start_date")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	endDate, err := parseDateField(body.EndDate, "end_date")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.groups.Create(*user, domain.GroupCreationData{
		Name:        body.Name,
		Color:       body.Color,
		Description: body.Description,
		OwnerId:     user.Id,
		IsPublic:    !body.IsPrivate,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, api.GroupResponseFrom(view))
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
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

	view, err := h.groups.Get(*user, groupId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.GroupResponseFrom(view))
}

func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
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

	var body api.UpdateGroupRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	startDate, err := parseDateField(body.StartDate, "start_date")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	endDate, err := parseDateField(body.EndDate, "end_date")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data := domain.GroupUpdateData{
		Name:        body.Name,
		Color:       body.Color,
		Description: body.Description,
		StartDate:   startDate,
		EndDate:     endDate,
	}
	if body.IsPrivate != nil {
		isPublic := !*body.IsPrivate
		data.IsPublic = &isPublic
	}

	view, err := h.groups.Update(*user, groupId, data)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.GroupResponseFrom(view))
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
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

	if err := h.groups.Delete(*user, groupId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	filter := domain.GroupFilter{
		Mode:  r.URL.Query().Get("mode"),
		Query: r.URL.Query().Get("q"),
	}
	if filter.Mode == "" {
		filter.Mode = domain.GroupModeMine
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := parseIdParam(limitStr, "limit")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter.Limit = int(limit)
	}

	views, err := h.groups.List(*user, filter)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := api.GroupListResponse{Groups: []api.GroupResponse{}}
	for _, view := range views {
		response.Groups = append(response.Groups, api.GroupResponseFrom(view))
	}
	writeJSON(w, response)
}

func (h *Handler) SetGroupCover(w http.ResponseWriter, r *http.Request) {
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

	view, err := h.groups.SetCover(r.Context(), *user, groupId, photo)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.GroupResponseFrom(view))
}

// parsePhotoUpload validates the multipart form and extracts the "photo"
// file. The returned cleanup closes the underlying temp file.
func (h *Handler) parsePhotoUpload(w http.ResponseWriter, r *http.Request) (*validation.PendingPhoto, func(), error) {
	if err := validation.ValidateAndParseMultipart(r, w, h.cfg.Public.MaxUploadBytes); err != nil {
		return nil, nil, err
	}

	files := r.MultipartForm.File["photo"]
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("%w: form field %q", validation.ErrMissingImage, "photo")
	}

	photo, err := validation.ValidatePhoto(files[0], h.cfg.Public.AllowedImageMimeTypes)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		photo.Data.Close()
	}
	return photo, cleanup, nil
}

// writeUploadError maps multipart validation failures onto status codes.
// Size violations get 413, everything else is the client's fault.
func writeUploadError(w http.ResponseWriter, err error) {
	var statusErr *internal_errors.ErrorWithStatusCode
	switch {
	case errors.As(err, &statusErr):
		http.Error(w, err.Error(), statusErr.StatusCode)
	case errors.Is(err, validation.ErrPayloadTooLarge):
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
