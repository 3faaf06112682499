// internal/stories/handlers.go
package stories

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

const maxUploadSize = 64 << 20

type Handler struct {
	service  Service
	uploader storage.Uploader
}

func NewHandler(service Service, uploader storage.Uploader) *Handler {
	return &Handler{service: service, uploader: uploader}
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
	files := r.MultipartForm.File["media"]
	if len(files) == 0 {
		utils.ErrorResponse(w, ErrNoMedia.Error(), http.StatusBadRequest)
		return
	}

	media := make([]Media, 0, len(files))
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			utils.ErrorResponse(w, "Failed to read uploaded file", http.StatusBadRequest)
			return
		}

		contentType := header.Header.Get("Content-Type")
		mediaType := "image"
		if strings.HasPrefix(contentType, "video/") {
			mediaType = "video"
		}

		url, err := h.uploader.Upload(r.Context(), file, header.Filename, contentType)
		file.Close()
		if err != nil {
			utils.ErrorResponse(w, "Failed to store media", http.StatusInternalServerError)
			return
		}
		media = append(media, Media{MediaURL: url, MediaType: mediaType})
	}

	story, err := h.service.Create(r.Context(), userID, caption, media)
	if err != nil {
		utils.ErrorResponse(w, "Failed to create story", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, story, http.StatusCreated)
}

func (h *Handler) ListFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	groups, err := h.service.ListFeed(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to load stories", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, groups, http.StatusOK)
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	targetID, err := pathID(r, "userID")
	if err != nil {
		utils.ErrorResponse(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	viewerID, _ := auth.GetUserIDFromContext(r.Context())
	stories, err := h.service.ListByUser(r.Context(), viewerID, targetID)
	if err != nil {
		h.writeStoryError(w, err)
		return
	}

	utils.SuccessResponse(w, stories, http.StatusOK)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	storyID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid story id", http.StatusBadRequest)
		return
	}

	viewerID, _ := auth.GetUserIDFromContext(r.Context())
	story, err := h.service.GetByID(r.Context(), viewerID, storyID)
	if err != nil {
		h.writeStoryError(w, err)
		return
	}

	utils.SuccessResponse(w, story, http.StatusOK)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	storyID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid story id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), userID, storyID); err != nil {
		h.writeStoryError(w, err)
		return
	}

	utils.MessageResponse(w, "Story deleted", http.StatusOK)
}

func (h *Handler) RecordView(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	storyID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid story id", http.StatusBadRequest)
		return
	}

	if err := h.service.RecordView(r.Context(), userID, storyID); err != nil {
		if errors.Is(err, ErrSelfView) {
			utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.writeStoryError(w, err)
		return
	}

	utils.MessageResponse(w, "View recorded", http.StatusOK)
}

func (h *Handler) ListViewers(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	storyID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid story id", http.StatusBadRequest)
		return
	}

	viewers, err := h.service.ListViewers(r.Context(), userID, storyID)
	if err != nil {
		h.writeStoryError(w, err)
		return
	}

	utils.SuccessResponse(w, viewers, http.StatusOK)
}

func (h *Handler) React(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	storyID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid story id", http.StatusBadRequest)
		return
	}

	var req ReactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	reaction, err := h.service.React(r.Context(), userID, storyID, req.Emoji)
	if err != nil {
		h.writeStoryError(w, err)
		return
	}

	utils.SuccessResponse(w, reaction, http.StatusCreated)
}

func (h *Handler) writeStoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrStoryNotFound):
		utils.ErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNotStoryOwner):
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
