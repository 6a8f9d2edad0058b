package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/dto"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/pkg/serverutils"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/service"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/cragerr"
)

type ISubjectController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	ListFiles(ctx *fiber.Ctx) error
}

type subjectController struct {
	subjectService service.ISubjectService
}

func NewSubjectController(subjectService service.ISubjectService) ISubjectController {
	return &subjectController{
		subjectService: subjectService,
	}
}

func (c *subjectController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/subject/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get("/:id/files", c.ListFiles)
}

func (c *subjectController) Create(ctx *fiber.Ctx) error {
	userId, _ := uuid.Parse(ctx.Locals("user_id").(string))

	var req dto.CreateSubjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.subjectService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create subject", res))
}

func (c *subjectController) List(ctx *fiber.Ctx) error {
	userId, _ := uuid.Parse(ctx.Locals("user_id").(string))

	res, err := c.subjectService.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get subjects", res))
}

func (c *subjectController) ListFiles(ctx *fiber.Ctx) error {
	userId, _ := uuid.Parse(ctx.Locals("user_id").(string))

	subjectId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return cragerr.Validation("invalid subject id")
	}

	res, err := c.subjectService.ListFiles(ctx.Context(), userId, subjectId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get subject files", res))
}
