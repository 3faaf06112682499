// internal/comments/handlers.go
package comments

import (
	"context"
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

func (h *Handler) CommentOnPost(w http.ResponseWriter, r *http.Request) {
	h.comment(w, r, "postID", h.service.CommentOnPost)
}

func (h *Handler) CommentOnReel(w http.ResponseWriter, r *http.Request) {
	h.comment(w, r, "reelID", h.service.CommentOnReel)
}

func (h *Handler) comment(w http.ResponseWriter, r *http.Request, param string,
	create func(ctx context.Context, userID, targetID int64, req *CreateCommentRequest) (*Comment, error)) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	targetID, err := pathID(r, param)
	if err != nil {
		utils.ErrorResponse(w, "Invalid id", http.StatusBadRequest)
		return
	}

	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := create(r.Context(), userID, targetID, &req)
	if err != nil {
		h.writeCommentError(w, err)
		return
	}

	utils.SuccessResponse(w, comment, http.StatusCreated)
}

func (h *Handler) ListForPost(w http.ResponseWriter, r *http.Request) {
	targetID, err := pathID(r, "postID")
	if err != nil {
		utils.ErrorResponse(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	viewerID, _ := auth.GetUserIDFromContext(r.Context())
	page, limit := utils.Pagination(r, h.defaultPage, h.maxPage)

	resp, err := h.service.ListForPost(r.Context(), viewerID, targetID, page, limit)
	if err != nil {
		h.writeCommentError(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) ListForReel(w http.ResponseWriter, r *http.Request) {
	targetID, err := pathID(r, "reelID")
	if err != nil {
		utils.ErrorResponse(w, "Invalid reel id", http.StatusBadRequest)
		return
	}

	viewerID, _ := auth.GetUserIDFromContext(r.Context())
	page, limit := utils.Pagination(r, h.defaultPage, h.maxPage)

	resp, err := h.service.ListForReel(r.Context(), viewerID, targetID, page, limit)
	if err != nil {
		h.writeCommentError(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) ListReplies(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid comment id", http.StatusBadRequest)
		return
	}

	viewerID, _ := auth.GetUserIDFromContext(r.Context())
	page, limit := utils.Pagination(r, h.defaultPage, h.maxPage)

	resp, err := h.service.ListReplies(r.Context(), viewerID, commentID, page, limit)
	if err != nil {
		h.writeCommentError(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	commentID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid comment id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), userID, commentID); err != nil {
		h.writeCommentError(w, err)
		return
	}

	utils.MessageResponse(w, "Comment deleted", http.StatusOK)
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	commentID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid comment id", http.StatusBadRequest)
		return
	}

	resp, err := h.service.ToggleLike(r.Context(), userID, commentID)
	if err != nil {
		h.writeCommentError(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) writeCommentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCommentNotFound), errors.Is(err, ErrTargetNotFound):
		utils.ErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNotAllowed):
		utils.ErrorResponse(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrNestedReply), errors.Is(err, ErrParentMismatch):
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		utils.ErrorResponse(w, "Something went wrong", http.StatusInternalServerError)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
