package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Shubham-rawat0/chatApp/internal/app/server/ws"
	"github.com/Shubham-rawat0/chatApp/internal/core/services"
	"github.com/Shubham-rawat0/chatApp/pkg/logging"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict once the web client origins are settled
	},
}

type WSHandler struct {
	log     *slog.Logger
	gateway *services.Gateway
}

func NewWSHandler(log *slog.Logger, gateway *services.Gateway) *WSHandler {
	return &WSHandler{log: log, gateway: gateway}
}

// Handle upgrades the request and runs the connection until the peer goes
// away. Frames are handed to the gateway one at a time, so every connection
// keeps its own event ordering.
func (h *WSHandler) Handle(w http.ResponseWriter, r *http.Request) {
	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.ErrorContext(r.Context(), "ws - upgrade failed", logging.Err(err))
		return
	}

	socket := ws.NewWebSocket(r.Context(), raw)
	client := ws.NewClient(r.Context(), socket, uuid.NewString())
	conn := services.NewConn(client)

	h.log.InfoContext(r.Context(), "ws - connection opened", logging.Conn(client.ConnID()), "remote", r.RemoteAddr)

	defer func() {
		h.gateway.Disconnect(r.Context(), conn)
		client.Close()
	}()

	socket.ReadLoop(func(data []byte) {
		h.gateway.HandleEvent(r.Context(), conn, data)
	})
}
