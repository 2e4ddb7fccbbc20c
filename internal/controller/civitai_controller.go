package controller

import (
	"model-notes-be/internal/dto"
	"model-notes-be/internal/pkg/serverutils"
	"model-notes-be/internal/service"
	"model-notes-be/pkg/modeltype"

	"github.com/gofiber/fiber/v2"
)

type ICivitaiController interface {
	RegisterRoutes(r fiber.Router)
	Describe(ctx *fiber.Ctx) error
	Sync(ctx *fiber.Ctx) error
}

type civitaiController struct {
	noteService     service.INoteService
	syncService     service.ISyncService
	markdownEnabled bool
}

func NewCivitaiController(noteService service.INoteService, syncService service.ISyncService, markdownEnabled bool) ICivitaiController {
	return &civitaiController{
		noteService:     noteService,
		syncService:     syncService,
		markdownEnabled: markdownEnabled,
	}
}

func (c *civitaiController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/model_notes/civitai")
	h.Get("description", c.Describe)
	h.Post("sync", c.Sync)
}

func (c *civitaiController) Describe(ctx *fiber.Ctx) error {
	var req dto.DescribeRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	note := c.noteService.DescribeByName(ctx.UserContext(), modeltype.Match(req.Type), req.Name, req.Markdown && c.markdownEnabled)
	return ctx.JSON(dto.NoteResponse{Note: note})
}

// Sync runs on the request goroutine; the response is sent once every
// selected kind has been processed.
func (c *civitaiController) Sync(ctx *fiber.Ctx) error {
	var req dto.SyncRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res := c.syncService.Sync(ctx.UserContext(), req)
	return ctx.JSON(serverutils.SuccessResponse("Sync finished", res))
}
