// internal/feed/handlers.go
package feed

import (
	"context"
	"errors"
	"net/http"
	"strings"

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

func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.service.FollowingFeed)
}

func (h *Handler) Discovery(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.service.DiscoveryFeed)
}

func (h *Handler) Explore(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	page, limit := utils.Pagination(r, h.defaultPage, h.maxPage)

	resp, err := h.service.ExploreFeed(r.Context(), userID, query, page, limit)
	if err != nil {
		h.writeFeedError(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request,
	load func(ctx context.Context, viewerID int64, page, limit int) (*Response, error)) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page, limit := utils.Pagination(r, h.defaultPage, h.maxPage)
	resp, err := load(r.Context(), userID, page, limit)
	if err != nil {
		h.writeFeedError(w, err)
		return
	}

	utils.SuccessResponse(w, resp, http.StatusOK)
}

func (h *Handler) writeFeedError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrViewerNotFound) {
		utils.ErrorResponse(w, err.Error(), http.StatusNotFound)
		return
	}
	// The feed has no fallback when the store is down, so surface the
	// outage instead of a generic server error
	utils.ErrorResponse(w, "Feed temporarily unavailable", http.StatusServiceUnavailable)
}
