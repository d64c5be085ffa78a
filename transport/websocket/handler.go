package websocket

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/fourline/relay/game/broker"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Handler upgrades HTTP requests to websocket connections and hands each
// one to the broker on its own goroutine.
type Handler struct {
	broker *broker.Broker
}

// NewHandler creates a websocket handler in front of b.
func NewHandler(b *broker.Broker) *Handler {
	return &Handler{broker: b}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := newClient(conn)
	log.Printf("Connection %s: accepted from %s", client.ID(), r.RemoteAddr)

	go client.writePump()
	go func() {
		defer func() {
			client.Close()
			log.Printf("Connection %s: closed", client.ID())
		}()
		h.broker.Handle(client)
	}()
}
