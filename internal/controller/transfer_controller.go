package controller

import (
	"model-notes-be/internal/dto"
	"model-notes-be/internal/pkg/serverutils"
	"model-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITransferController interface {
	RegisterRoutes(r fiber.Router)
	Export(ctx *fiber.Ctx) error
	Import(ctx *fiber.Ctx) error
}

type transferController struct {
	transferService service.ITransferService
}

func NewTransferController(transferService service.ITransferService) ITransferController {
	return &transferController{
		transferService: transferService,
	}
}

func (c *transferController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/model_notes/transfer")
	h.Post("export", c.Export)
	h.Post("import", c.Import)
}

func (c *transferController) Export(ctx *fiber.Ctx) error {
	var req dto.ExportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res := c.transferService.Export(ctx.UserContext(), req)
	return ctx.JSON(serverutils.SuccessResponse("Export finished", res))
}

func (c *transferController) Import(ctx *fiber.Ctx) error {
	var req dto.ImportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res := c.transferService.Import(ctx.UserContext(), req)
	return ctx.JSON(serverutils.SuccessResponse("Import finished", res))
}
