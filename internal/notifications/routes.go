// internal/notifications/routes.go
package notifications

import (
	"github.com/gorilla/mux"

	"github.com/vibelyhq/vibely-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/notifications").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.List).Methods("GET")
	api.HandleFunc("/unread-count", handler.UnreadCount).Methods("GET")
	api.HandleFunc("/read", handler.MarkRead).Methods("PUT")
	api.HandleFunc("/read-all", handler.MarkAllRead).Methods("PUT")
}
