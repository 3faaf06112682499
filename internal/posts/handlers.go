// internal/posts/handlers.go
package posts

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

const maxUploadSize = 64 << 20 // 64 MB across all files in one post

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
	files := r.MultipartForm.File["media"]
	if len(files) == 0 {
		utils.ErrorResponse(w, ErrNoMedia.Error(), http.StatusBadRequest)
		return
	}

	media := make([]MediaInput, 0, len(files))
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
		media = append(media, MediaInput{URL: url, Type: mediaType})
	}

	post, err := h.service.Create(r.Context(), userID, caption, media)
	if err != nil {
		utils.ErrorResponse(w, "Failed to create post", http.StatusInternalServerError)
		return
	}

	utils.SuccessResponse(w, post, http.StatusCreated)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	viewerID, _ := auth.GetUserIDFromContext(r.Context())
	post, err := h.service.GetByID(r.Context(), viewerID, postID)
	if err != nil {
		h.writePostError(w, err)
		return
	}

	utils.SuccessResponse(w, post, http.StatusOK)
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
		h.writePostError(w, err)
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

	postID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.service.Update(r.Context(), userID, postID, &req)
	if err != nil {
		h.writePostError(w, err)
		return
	}

	utils.SuccessResponse(w, post, http.StatusOK)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), userID, postID); err != nil {
		h.writePostError(w, err)
		return
	}

	utils.MessageResponse(w, "Post deleted", http.StatusOK)
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	postID, err := pathID(r, "id")
	if err != nil {
		utils.ErrorResponse(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	resp, err := h.service.ToggleLike(r.Context(), userID, postID)
	if err != nil {
		h.writePostError(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) writePostError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPostNotFound):
		utils.ErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNotPostOwner):
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
