// internal/chat/routes.go
package chat

import (
	"github.com/gorilla/mux"

	"github.com/vibelyhq/vibely-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/chat").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/messages", handler.SendMessage).Methods("POST")
	api.HandleFunc("/conversations", handler.ListConversations).Methods("GET")
	api.HandleFunc("/conversations/{id:[0-9]+}/messages", handler.ListMessages).Methods("GET")
	api.HandleFunc("/conversations/{id:[0-9]+}/read", handler.MarkRead).Methods("PUT")
}
