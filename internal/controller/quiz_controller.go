package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/dto"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/pkg/serverutils"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/service"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/cragerr"
)

type IQuizController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type quizController struct {
	quizService service.IQuizService
}

func NewQuizController(quizService service.IQuizService) IQuizController {
	return &quizController{
		quizService: quizService,
	}
}

func (c *quizController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/quiz/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/generate", c.Generate)
	h.Get("/subject/:id", c.List)
}

func (c *quizController) Generate(ctx *fiber.Ctx) error {
	userId, _ := uuid.Parse(ctx.Locals("user_id").(string))

	var req dto.GenerateQuizRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.quizService.Generate(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success generate quiz", res))
}

func (c *quizController) List(ctx *fiber.Ctx) error {
	userId, _ := uuid.Parse(ctx.Locals("user_id").(string))

	subjectId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return cragerr.Validation("invalid subject id")
	}

	res, err := c.quizService.List(ctx.Context(), userId, subjectId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get quizzes", res))
}
