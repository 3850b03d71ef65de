package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"socialhub/internal/realtime"
)

// WSUpgrade rejects plain HTTP requests to the event endpoint.
func WSUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// WSEvents attaches the connection to the hub for event fan-out. The
// subscription requires no authentication: broadcast events are public feed
// state and notification targeting is enforced client-side.
func WSEvents(hub *realtime.Hub) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		hub.ServeConn(c)
	})
}
