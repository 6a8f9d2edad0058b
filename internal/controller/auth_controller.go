package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/Divyapahuja31/ASKMYNOTES/internal/dto"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/pkg/serverutils"
	"github.com/Divyapahuja31/ASKMYNOTES/internal/service"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/cragerr"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	VerifyEmail(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Google(ctx *fiber.Ctx) error
	GoogleCallback(ctx *fiber.Ctx) error
}

type authController struct {
	authService service.IAuthService
	clientURL   string
}

func NewAuthController(authService service.IAuthService, clientURL string) IAuthController {
	return &authController{
		authService: authService,
		clientURL:   clientURL,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/v1")
	h.Post("/register", c.Register)
	h.Post("/verify-email", c.VerifyEmail)
	h.Post("/login", c.Login)
	h.Get("/google", c.Google)
	h.Get("/google/callback", c.GoogleCallback)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.authService.Register(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Registered. Check your email for the verification code.", res))
}

func (c *authController) VerifyEmail(ctx *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.authService.VerifyEmail(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Email verified successfully", nil))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.authService.Login(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) Google(ctx *fiber.Ctx) error {
	url := c.authService.GoogleAuthURL(ctx.Query("state", "state"))
	return ctx.Redirect(url, fiber.StatusTemporaryRedirect)
}

func (c *authController) GoogleCallback(ctx *fiber.Ctx) error {
	code := ctx.Query("code")
	if code == "" {
		return cragerr.Validation("missing authorization code")
	}

	res, err := c.authService.GoogleCallback(ctx.Context(), code)
	if err != nil {
		return err
	}

	redirectURL := fmt.Sprintf("%s/app?token=%s", c.clientURL, res.Token)
	return ctx.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}
