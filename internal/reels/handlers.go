// internal/reels/handlers.go
package reels

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/vibelyhq/vibely-backend/internal/auth"
	"github.com/vibelyhq/vibely-backend/internal/common/storage"
	"github.com/vibelyhq/vibely-backend/internal/common/utils"
)

const maxUploadSize = 256 << 20 // 256 MB, reels are video

type Handler struct {
	service     Service
	uploader    storage.Uploader
	defaultPage int
	maxPage     int
}

func NewHandler(service Service, uploader storage.Uploader, defaultPageSize, maxPageSize int) *Handler {
	return &Handler{service: service, uploader: uploader, defaultPage: defaultPageSize, maxPage: maxPageSize}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.ErrorResponse(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	caption := r.FormValue("caption")
	duration, _ := strconv.Atoi(r.FormValue("duration"))

	video, videoHeader, err := r.FormFile("video")
	if err != nil {
		utils.ErrorResponse(w, ErrNoVideo.Error(), http.StatusBadRequest)
		return
	}
	defer video.Close()

	contentType := videoHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") {
		utils.ErrorResponse(w, "Reel media must be a video", http.StatusBadRequest)
		return
	}

	videoURL, err := h.uploader.Upload(r.Context(), video, videoHeader.Filename, contentType)
	if err != nil {
		utils.ErrorResponse(w, "Failed to store video", http.StatusInternalServerError)
		return
	}

	thumbnailURL := ""
	if thumb, thumbHeader, err := r.FormFile("thumbnail"); err == nil {
		defer thumb.Close()
		thumbnailURL, err = h.uploader.Upload(r.Context(), thumb, thumbHeader.Filename, thumbHeader.Header.Get("Content-Type"))
		if err != nil {
			utils.ErrorResponse(w, "Failed to store thumbnail", http.StatusInternalServerError)
			return
		}
	}

	reel, err := h.service.Create(r.Context(), userID, caption, videoURL, thumbnailURL, duration)
	if err != nil {
		utils.ErrorResponse(w, "Failed to create reel", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, reel, http.StatusCreated)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	reelID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid reel id", http.StatusBadRequest)
		return
	}

	viewerID, _ := auth.GetUserIDFromContext(r.Context())
	reel, err := h.service.GetByID(r.Context(), viewerID, reelID)
	if err != nil {
		h.writeReelError(w, err)
		return
	}

	utils.SuccessResponse(w, reel, http.StatusOK)
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		utils.ErrorResponse(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	viewerID, _ := auth.GetUserIDFromContext(r.Context())
	page, limit := utils.Pagination(r, h.defaultPage, h.maxPage)

	resp, err := h.service.ListByUser(r.Context(), viewerID, userID, page, limit)
	if err != nil {
		h.writeReelError(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	reelID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid reel id", http.StatusBadRequest)
		return
	}

	var req UpdateReelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	reel, err := h.service.Update(r.Context(), userID, reelID, &req)
	if err != nil {
		h.writeReelError(w, err)
		return
	}

	utils.SuccessResponse(w, reel, http.StatusOK)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	reelID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid reel id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), userID, reelID); err != nil {
		h.writeReelError(w, err)
		return
	}

	utils.MessageResponse(w, "Reel deleted", http.StatusOK)
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	reelID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid reel id", http.StatusBadRequest)
		return
	}

	resp, err := h.service.ToggleLike(r.Context(), userID, reelID)
	if err != nil {
		h.writeReelError(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) RecordView(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	reelID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid reel id", http.StatusBadRequest)
		return
	}

	resp, err := h.service.RecordView(r.Context(), viewerID, reelID)
	if err != nil {
		h.writeReelError(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) writeReelError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrReelNotFound):
		utils.ErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNotReelOwner):
		utils.ErrorResponse(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrPrivateAuthor):
		utils.ErrorResponse(w, err.Error(), http.StatusForbidden)
	default:
		utils.ErrorResponse(w, "Something went wrong", http.StatusInternalServerError)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
