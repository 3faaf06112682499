// internal/common/utils/pagination.go
package utils

import (
	"net/http"
	"strconv"
)

// Pagination reads page and limit query params, clamping both to sane
// values. page starts at 1; limit falls back to defaultLimit and never
// exceeds maxLimit.
func Pagination(r *http.Request, defaultLimit, maxLimit int) (page, limit int) {
	page = 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			page = v
		}
	}

	limit = defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 1 {
			limit = v
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
