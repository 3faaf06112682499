// internal/comments/routes.go
package comments

import (
	"github.com/gorilla/mux"

	"github.com/vibelyhq/vibely-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()

	public := api.NewRoute().Subrouter()
	public.Use(authMiddleware.OptionalAuthenticate)
	public.HandleFunc("/posts/{postID:[0-9]+}/comments", handler.ListForPost).Methods("GET")
	public.HandleFunc("/reels/{reelID:[0-9]+}/comments", handler.ListForReel).Methods("GET")
	public.HandleFunc("/comments/{id:[0-9]+}/replies", handler.ListReplies).Methods("GET")

	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware.Authenticate)
	protected.HandleFunc("/posts/{postID:[0-9]+}/comments", handler.CommentOnPost).Methods("POST")
	protected.HandleFunc("/reels/{reelID:[0-9]+}/comments", handler.CommentOnReel).Methods("POST")
	protected.HandleFunc("/comments/{id:[0-9]+}", handler.Delete).Methods("DELETE")
	protected.HandleFunc("/comments/{id:[0-9]+}/like", handler.ToggleLike).Methods("POST")
}
