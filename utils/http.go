// utils/http.go - HTTP helpers shared by handlers and the app
package utils

import (
	"errors"
	"strconv"

	"teamhub/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StatusFor maps a service error onto an HTTP status code.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidRating), errors.Is(err, services.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrInconsistentAssociation), errors.Is(err, services.ErrDuplicateEmail):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondError writes the standard error body. Server errors are logged and
// their details withheld from the client.
func RespondError(c *fiber.Ctx, err error, log *zap.Logger) error {
	code := StatusFor(err)
	message := err.Error()
	if code >= 500 {
		log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		message = "Internal Server Error"
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// ParseID reads a positive numeric route parameter.
func ParseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}

// QueryInt reads an integer query parameter, falling back to def.
func QueryInt(c *fiber.Ctx, key string, def int) int {
	if n, err := strconv.Atoi(c.Query(key)); err == nil {
		return n
	}
	return def
}

// ErrorHandler renders errors that escape handlers. 500 details are hidden
// in production.
func ErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := StatusFor(err)
		message := err.Error()

		var fe *fiber.Error
		if errors.As(err, &fe) {
			message = fe.Message
		}
		if production && code == fiber.StatusInternalServerError {
			message = "An error occurred. Please try again later."
		}

		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   message,
		})
	}
}
