// internal/auth/routes.go
package auth

import (
	"github.com/gorilla/mux"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *Middleware) {
	api := router.PathPrefix("/api/v1/auth").Subrouter()

	api.HandleFunc("/register", handler.Register).Methods("POST")
	api.HandleFunc("/login", handler.Login).Methods("POST")
	api.HandleFunc("/refresh", handler.Refresh).Methods("POST")
	api.HandleFunc("/logout", handler.Logout).Methods("POST")
	api.HandleFunc("/verify-email", handler.VerifyEmail).Methods("POST")
	api.HandleFunc("/resend-verification", handler.ResendVerification).Methods("POST")
	api.HandleFunc("/forgot-password", handler.ForgotPassword).Methods("POST")
	api.HandleFunc("/reset-password", handler.ResetPassword).Methods("POST")

	me := router.PathPrefix("/api/v1").Subrouter()
	me.Use(authMiddleware.Authenticate)
	me.HandleFunc("/me", handler.GetMe).Methods("GET")
}
