package middlewares

import (
	"errors"
	"log"

	"salecrm-backend/lifecycle"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Fiber errors (use their status code + message)
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 2) Engine errors carry their own HTTP meaning
	if code, ok := lifecycleStatus(err); ok {
		return c.Status(code).JSON(fiber.Map{"message": err.Error()})
	}

	// 3) Validation errors (422 + per-field info)
	if ve, ok := err.(validator.ValidationErrors); ok {
		out := make(map[string]string, len(ve))
		for _, fe := range ve {
			// fe.Field() is struct field name; you can map to json tag if you prefer
			out[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	// 4) Unknown errors (500)
	log.Printf("internal error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}

func lifecycleStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, lifecycle.ErrContactNotFound), errors.Is(err, lifecycle.ErrStatusNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, lifecycle.ErrLockHeld):
		return fiber.StatusForbidden, true
	case errors.Is(err, lifecycle.ErrInvalidStatus):
		return fiber.StatusUnprocessableEntity, true
	case errors.Is(err, lifecycle.ErrConflict):
		return fiber.StatusConflict, true
	}
	return 0, false
}
