package controller

import (
	"model-notes-be/internal/config"
	"model-notes-be/internal/dto"
	"model-notes-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type ISettingsController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
}

type settingsController struct {
	notes config.NotesConfig
}

func NewSettingsController(notes config.NotesConfig) ISettingsController {
	return &settingsController{notes: notes}
}

func (c *settingsController) RegisterRoutes(r fiber.Router) {
	r.Get("/model_notes/settings", c.Show)
}

func (c *settingsController) Show(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success show settings", dto.SettingsResponse{
		Autosave:                 c.notes.Autosave,
		Markdown:                 c.notes.Markdown,
		HideExtraNetworkNotes:    c.notes.HideExtraNetworkNotes,
		InjectExtraPreviewButton: c.notes.InjectExtraPreviewButton,
	}))
}
