// internal/feed/routes.go
package feed

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vibelyhq/vibely-backend/internal/auth"
)

// RegisterRoutes wires the feed endpoints. cache is optional; when set
// it short-circuits repeated reads of the same page.
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware, cache func(http.Handler) http.Handler) {
	api := router.PathPrefix("/api/v1/feed").Subrouter()
	api.Use(authMiddleware.Authenticate)
	if cache != nil {
		api.Use(cache)
	}

	api.HandleFunc("/following", handler.Following).Methods("GET")
	api.HandleFunc("/discovery", handler.Discovery).Methods("GET")
	api.HandleFunc("/explore", handler.Explore).Methods("GET")
}
