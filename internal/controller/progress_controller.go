package controller

import (
	ws "model-notes-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IProgressController interface {
	RegisterRoutes(r fiber.Router)
}

type progressController struct {
	hub *ws.Hub
}

func NewProgressController(hub *ws.Hub) IProgressController {
	return &progressController{hub: hub}
}

// RegisterRoutes exposes a websocket that streams SYNC_PROGRESS,
// EXPORT_PROGRESS and IMPORT_PROGRESS events as JSON text messages.
func (c *progressController) RegisterRoutes(r fiber.Router) {
	r.Use("/model_notes/progress", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	r.Get("/model_notes/progress", websocket.New(func(conn *websocket.Conn) {
		ws.ServeWs(c.hub, conn)
	}))
}
