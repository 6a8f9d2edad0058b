package serverutils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/cragerr"
)

func statusFor(t *testing.T, err error) int {
	t.Helper()
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return err
	})

	resp, reqErr := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, reqErr)
	return resp.StatusCode
}

func TestErrorHandlerStatusMapping(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, statusFor(t, cragerr.Validation("bad subjectId")))
	assert.Equal(t, fiber.StatusForbidden, statusFor(t, cragerr.Authorization("not your subject")))
	assert.Equal(t, fiber.StatusTooManyRequests, statusFor(t, cragerr.ErrQuotaExceeded))
	assert.Equal(t, fiber.StatusBadGateway, statusFor(t, cragerr.GenerationParse("truncated")))
	assert.Equal(t, fiber.StatusBadGateway, statusFor(t, cragerr.Generation(assert.AnError)))
	assert.Equal(t, fiber.StatusBadGateway, statusFor(t, cragerr.Retrieval(assert.AnError)))
	assert.Equal(t, fiber.StatusInternalServerError, statusFor(t, assert.AnError))
	assert.Equal(t, fiber.StatusNotFound, statusFor(t, fiber.ErrNotFound))
}
