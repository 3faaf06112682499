// internal/stories/routes.go
package stories

import (
	"github.com/gorilla/mux"

	"github.com/vibelyhq/vibely-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/stories").Subrouter()

	public := api.NewRoute().Subrouter()
	public.Use(authMiddleware.OptionalAuthenticate)
	public.HandleFunc("/user/{userID:[0-9]+}", handler.ListByUser).Methods("GET")
	public.HandleFunc("/{id:[0-9]+}", handler.GetByID).Methods("GET")

	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware.Authenticate)
	protected.HandleFunc("", handler.Create).Methods("POST")
	protected.HandleFunc("/feed", handler.ListFeed).Methods("GET")
	protected.HandleFunc("/{id:[0-9]+}", handler.Delete).Methods("DELETE")
	protected.HandleFunc("/{id:[0-9]+}/view", handler.RecordView).Methods("POST")
	protected.HandleFunc("/{id:[0-9]+}/viewers", handler.ListViewers).Methods("GET")
	protected.HandleFunc("/{id:[0-9]+}/react", handler.React).Methods("POST")
}
