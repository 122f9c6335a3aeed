package system

import (
	"github.com/gofiber/contrib/websocket"
)

type WebSocketController struct {
	Hub *EventHub
}

func NewWebSocketController(hub *EventHub) *WebSocketController {
	return &WebSocketController{
		Hub: hub,
	}
}

// HandleDashboardSocket subscribes the connection to a session's event
// stream. Inbound messages are ignored; the read loop only detects
// disconnects.
func (h *WebSocketController) HandleDashboardSocket(c *websocket.Conn) {
	sessionID := c.Params("sessionID")

	h.Hub.Subscribe(sessionID, c)
	defer h.Hub.Unsubscribe(sessionID, c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
