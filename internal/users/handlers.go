// internal/users/handlers.go
package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/vibelyhq/vibely-backend/internal/auth"
	"github.com/vibelyhq/vibely-backend/internal/common/utils"
)

type Handler struct {
	service     Service
	defaultPage int
	maxPage     int
}

func NewHandler(service Service, defaultPageSize, maxPageSize int) *Handler {
	return &Handler{service: service, defaultPage: defaultPageSize, maxPage: maxPageSize}
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	viewerID, _ := auth.GetUserIDFromContext(r.Context())

	profile, err := h.service.GetProfile(r.Context(), viewerID, username)
	if err != nil {
		h.writeProfileError(w, err)
		return
	}

	utils.SuccessResponse(w, profile, http.StatusOK)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			utils.ErrorResponse(w, err.Error(), http.StatusConflict)
			return
		}
		utils.ErrorResponse(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, profile, http.StatusOK)
}

func (h *Handler) UpdatePrivacy(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req PrivacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.SetPrivacy(r.Context(), userID, req.IsPrivate); err != nil {
		utils.ErrorResponse(w, "Failed to update privacy", http.StatusInternalServerError)
		return
	}

	utils.MessageResponse(w, "Privacy updated", http.StatusOK)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		utils.ErrorResponse(w, "Search query is required", http.StatusBadRequest)
		return
	}

	page, limit := utils.Pagination(r, h.defaultPage, h.maxPage)
	results, err := h.service.Search(r.Context(), query, page, limit)
	if err != nil {
		utils.ErrorResponse(w, "Failed to search users", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, results, http.StatusOK)
}

func (h *Handler) ListFollowers(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	viewerID, _ := auth.GetUserIDFromContext(r.Context())
	page, limit := utils.Pagination(r, h.defaultPage, h.maxPage)

	resp, err := h.service.ListFollowers(r.Context(), viewerID, username, page, limit)
	if err != nil {
		h.writeProfileError(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	viewerID, _ := auth.GetUserIDFromContext(r.Context())
	page, limit := utils.Pagination(r, h.defaultPage, h.maxPage)

	resp, err := h.service.ListFollowing(r.Context(), viewerID, username, page, limit)
	if err != nil {
		h.writeProfileError(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	username := mux.Vars(r)["username"]
	resp, err := h.service.ToggleFollow(r.Context(), userID, username)
	if err != nil {
		if errors.Is(err, ErrSelfFollow) {
			utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrUserNotFound) {
			utils.ErrorResponse(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to toggle follow", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) writeProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		utils.ErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrPrivateProfile):
		utils.ErrorResponse(w, err.Error(), http.StatusForbidden)
	default:
		utils.ErrorResponse(w, "Failed to load profile", http.StatusInternalServerError)
	}
}
