// internal/realtime/websocket.go

package realtime

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vibelyhq/vibely-backend/internal/common/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Auth happens via JWT, not origin
		return true
	},
}

type Handler struct {
	hub       *Hub
	jwtSecret string
}

func NewHandler(hub *Hub, jwtSecret string) *Handler {
	return &Handler{hub: hub, jwtSecret: jwtSecret}
}

// Serve upgrades the connection. Browsers cannot set an Authorization
// header on websocket dials, so the access token rides in the query
// string.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		utils.ErrorResponse(w, "Missing token", http.StatusUnauthorized)
		return
	}

	claims, err := utils.ValidateJWT(token, h.jwtSecret)
	if err != nil || claims.Type != "access" {
		utils.ErrorResponse(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade for user %d failed: %v", claims.UserID, err)
		return
	}

	client := newClient(h.hub, conn, claims.UserID)
	h.hub.register <- client

	// The pumps outlive the HTTP request, so they get their own context
	go client.writePump()
	go client.readPump(context.Background())
}

func RegisterRoutes(router *mux.Router, handler *Handler) {
	router.HandleFunc("/ws", handler.Serve).Methods("GET")
}
