// internal/chat/handlers.go
package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	message, err := h.service.SendMessage(r.Context(), userID, req.RecipientID, req.Content)
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	utils.SuccessResponse(w, message, http.StatusCreated)
}

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page, limit := utils.Pagination(r, h.defaultPage, h.maxPage)
	resp, err := h.service.ListConversations(r.Context(), userID, page, limit)
	if err != nil {
		utils.ErrorResponse(w, "Failed to load conversations", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversationID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid conversation id", http.StatusBadRequest)
		return
	}

	page, limit := utils.Pagination(r, h.defaultPage, h.maxPage)
	resp, err := h.service.ListMessages(r.Context(), userID, conversationID, page, limit)
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversationID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid conversation id", http.StatusBadRequest)
		return
	}

	if err := h.service.MarkRead(r.Context(), userID, conversationID); err != nil {
		h.writeChatError(w, err)
		return
	}

	utils.MessageResponse(w, "Messages marked read", http.StatusOK)
}

func (h *Handler) writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrConversationNotFound), errors.Is(err, ErrRecipientNotFound):
		utils.ErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNotMember):
		utils.ErrorResponse(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrSelfMessage), errors.Is(err, ErrEmptyMessage):
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		utils.ErrorResponse(w, "Something went wrong", http.StatusInternalServerError)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
