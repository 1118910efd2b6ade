package websocket

import (
	"net/http"

	ws "github.com/coder/websocket"
)

// HandleScreen returns an HTTP handler that upgrades connections to WebSocket
// and runs each one as a screen of the given kind.
func HandleScreen(hub *Hub, kind string, factory ScreenFactory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // Allow connections from any origin
		})
		if err != nil {
			hub.logger.Warn("websocket accept", "kind", kind, "error", err)
			return
		}
		defer conn.CloseNow()

		client := NewClient(hub, conn, kind)
		client.Run(r.Context(), factory)
		conn.Close(ws.StatusNormalClosure, "")
	}
}
