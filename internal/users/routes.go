// internal/users/routes.go
package users

import (
	"github.com/gorilla/mux"

	"github.com/vibelyhq/vibely-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/users").Subrouter()

	public := api.NewRoute().Subrouter()
	public.Use(authMiddleware.OptionalAuthenticate)
	public.HandleFunc("/search", handler.Search).Methods("GET")
	public.HandleFunc("/{username}", handler.GetProfile).Methods("GET")
	public.HandleFunc("/{username}/followers", handler.ListFollowers).Methods("GET")
	public.HandleFunc("/{username}/following", handler.ListFollowing).Methods("GET")

	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware.Authenticate)
	protected.HandleFunc("/me/profile", handler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/me/privacy", handler.UpdatePrivacy).Methods("PUT")
	protected.HandleFunc("/{username}/follow", handler.ToggleFollow).Methods("POST")
}
