// internal/notifications/handlers.go
package notifications

import (
	"encoding/json"
	"net/http"

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page, limit := utils.Pagination(r, h.defaultPage, h.maxPage)
	resp, err := h.service.List(r.Context(), userID, page, limit)
	if err != nil {
		utils.ErrorResponse(w, "Failed to load notifications", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to count notifications", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, map[string]int{"unread_count": count}, http.StatusOK)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.MarkRead(r.Context(), userID, req.NotificationIDs); err != nil {
		utils.ErrorResponse(w, "Failed to mark notifications read", http.StatusInternalServerError)
		return
	}

	utils.MessageResponse(w, "Notifications marked read", http.StatusOK)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.service.MarkAllRead(r.Context(), userID); err != nil {
		utils.ErrorResponse(w, "Failed to mark notifications read", http.StatusInternalServerError)
		return
	}

	utils.MessageResponse(w, "All notifications marked read", http.StatusOK)
}
