package serverutils

import (
	"errors"

	"cortex-analyst-be/internal/pkg/logger"
	"cortex-analyst-be/pkg/analyst"
	"cortex-analyst-be/pkg/apperror"
	"cortex-analyst-be/pkg/orchestrator"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps a domain error to the HTTP status returned to the host runtime
func StatusFor(err error) int {
	var (
		validationErr *ValidationError
		fiberErr      *fiber.Error
		configErr     *apperror.ConfigurationError
		notFoundErr   *apperror.NotFoundError
		analystErr    *analyst.Error
		persistErr    *apperror.PersistenceError
	)

	switch {
	case errors.As(err, &validationErr), errors.Is(err, apperror.ErrInvalidVote):
		return fiber.StatusBadRequest
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, orchestrator.ErrMissingIdentity):
		return fiber.StatusUnauthorized
	case errors.As(err, &configErr):
		return fiber.StatusConflict
	case errors.As(err, &notFoundErr):
		return fiber.StatusNotFound
	case errors.As(err, &analystErr):
		return fiber.StatusBadGateway
	case errors.As(err, &persistErr):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON envelope
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := StatusFor(err)
		message := err.Error()
		if code == fiber.StatusInternalServerError {
			log.Error("HTTP", "Unhandled error", map[string]interface{}{
				"path":   ctx.Path(),
				"method": ctx.Method(),
				"error":  err.Error(),
			})
			message = "internal server error"
		}

		resp := ErrorResponse(code, message)
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			resp.Data = validationErr.Fields
		}
		return ctx.Status(code).JSON(resp)
	}
}
