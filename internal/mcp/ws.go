package mcp

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// ServeWS upgrades the connection and runs a read loop, dispatching each
// incoming frame as a JSON-RPC payload. Notifications produce no reply frame.
func (d *Dispatcher) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	slog.Info("WebSocket client connected", "remote", r.RemoteAddr)

	ctx := r.Context()
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("WebSocket read error", "err", err)
			}
			return
		}

		resp := d.Dispatch(ctx, payload)
		if resp == nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, resp); err != nil {
			slog.Warn("WebSocket write error", "err", err)
			return
		}
	}
}
