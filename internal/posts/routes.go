// internal/posts/routes.go
package posts

import (
	"github.com/gorilla/mux"

	"github.com/vibelyhq/vibely-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/posts").Subrouter()

	public := api.NewRoute().Subrouter()
	public.Use(authMiddleware.OptionalAuthenticate)
	public.HandleFunc("/{id:[0-9]+}", handler.GetByID).Methods("GET")
	public.HandleFunc("/user/{userID:[0-9]+}", handler.ListByUser).Methods("GET")

	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware.Authenticate)
	protected.HandleFunc("", handler.Create).Methods("POST")
	protected.HandleFunc("/{id:[0-9]+}", handler.Update).Methods("PUT")
	protected.HandleFunc("/{id:[0-9]+}", handler.Delete).Methods("DELETE")
	protected.HandleFunc("/{id:[0-9]+}/like", handler.ToggleLike).Methods("POST")
}
