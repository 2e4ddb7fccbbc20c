package controller

import (
	"model-notes-be/internal/dto"
	"model-notes-be/internal/pkg/serverutils"
	"model-notes-be/internal/service"
	"model-notes-be/pkg/markup"
	"model-notes-be/pkg/modeltype"

	"github.com/gofiber/fiber/v2"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	GetNoteByHash(ctx *fiber.Ctx) error
	GetNoteByName(ctx *fiber.Ctx) error
	SetNoteByHash(ctx *fiber.Ctx) error
	SetNoteByName(ctx *fiber.Ctx) error
	ConvertMarkdownToHtml(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
}

func NewNoteController(noteService service.INoteService) INoteController {
	return &noteController{
		noteService: noteService,
	}
}

// The note routes answer with bare JSON objects so existing clients of the
// model_notes API keep working.
func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/model_notes")
	h.Get("get_note_by_hash", c.GetNoteByHash)
	h.Get("get_note_by_name", c.GetNoteByName)
	h.Post("set_note_by_hash", c.SetNoteByHash)
	h.Post("set_note_by_name", c.SetNoteByName)
	h.Get("utils/convert_markdown_to_html", c.ConvertMarkdownToHtml)
	h.Get("list", c.List)
}

func (c *noteController) GetNoteByHash(ctx *fiber.Ctx) error {
	var req dto.GetNoteByHashRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	note := c.noteService.GetNoteByHash(ctx.UserContext(), req.Hash)
	return ctx.JSON(dto.NoteResponse{Note: note})
}

func (c *noteController) GetNoteByName(ctx *fiber.Ctx) error {
	var req dto.GetNoteByNameRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	note := c.noteService.GetNoteByName(ctx.UserContext(), modeltype.Match(req.Type), req.Name)
	res := dto.NoteResponse{Note: note}
	if req.Markdown {
		html, err := markup.ToHTML(note)
		if err != nil {
			return err
		}
		res.Html = html
	}
	return ctx.JSON(res)
}

func (c *noteController) SetNoteByHash(ctx *fiber.Ctx) error {
	var req dto.SetNoteByHashRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ok := c.noteService.SetNoteByHash(ctx.UserContext(), modeltype.Match(req.Type), req.Hash, req.Note)
	return ctx.JSON(dto.SuccessResponse{Success: ok})
}

func (c *noteController) SetNoteByName(ctx *fiber.Ctx) error {
	var req dto.SetNoteByNameRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ok := c.noteService.SetNoteByName(ctx.UserContext(), modeltype.Match(req.Type), req.Name, req.Note)
	return ctx.JSON(dto.SuccessResponse{Success: ok})
}

func (c *noteController) ConvertMarkdownToHtml(ctx *fiber.Ctx) error {
	var req dto.ConvertMarkdownRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	html, err := markup.ToHTML(req.Text)
	if err != nil {
		return err
	}
	return ctx.JSON(dto.HtmlResponse{Html: html})
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	var req dto.ListNotesRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	notes := c.noteService.ListNotes(ctx.UserContext(), modeltype.Match(req.Type))
	return ctx.JSON(serverutils.SuccessResponse("Success list notes", dto.ListNotesResponse{Notes: notes}))
}
