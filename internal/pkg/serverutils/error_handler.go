package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/cragerr"
)

// ErrorHandlerMiddleware maps the pipeline error taxonomy onto HTTP codes.
// Stage failures never leak partial responses; the client gets a single
// error payload.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(FailResponse(fiberErr.Message))
		}

		status := fiber.StatusInternalServerError
		message := err.Error()

		switch {
		case errors.Is(err, cragerr.ErrValidation):
			status = fiber.StatusBadRequest
		case errors.Is(err, cragerr.ErrAuthorization):
			status = fiber.StatusForbidden
		case errors.Is(err, cragerr.ErrQuotaExceeded):
			status = fiber.StatusTooManyRequests
		case errors.Is(err, cragerr.ErrGenerationParse):
			status = fiber.StatusBadGateway
			message = "The model returned an invalid answer. Please retry."
		case errors.Is(err, cragerr.ErrGeneration), errors.Is(err, cragerr.ErrRetrieval):
			status = fiber.StatusBadGateway
		}

		return ctx.Status(status).JSON(FailResponse(message))
	}
}
