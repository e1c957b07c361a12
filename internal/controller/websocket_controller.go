package controller

import (
	"context"
	"log"

	"github.com/benbeisheim/relaychess-backend/internal/service"
	"github.com/benbeisheim/relaychess-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	coordinator *service.Coordinator
}

func NewWebSocketController(coordinator *service.Coordinator) *WebSocketController {
	return &WebSocketController{
		coordinator: coordinator,
	}
}

// HandleConnection runs the read loop for one socket. Each text frame is a
// command; the socket's registrations are dropped when it closes.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := ws.NewConn(c)
	log.Printf("websocket connected: %s", c.RemoteAddr())

	defer func() {
		cancel()
		wsc.coordinator.Disconnect(ch)
		if err := ch.Close(); err != nil {
			log.Printf("websocket close: %v", err)
		}
	}()

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("read error: %v", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		wsc.coordinator.Handle(ctx, ch, message)
	}
}
