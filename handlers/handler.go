// handlers/handler.go - Shared handler dependencies
package handlers

import (
	"teamhub/middleware"
	"teamhub/models"
	"teamhub/services"
	"teamhub/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler carries the services every endpoint needs.
type Handler struct {
	Users    *services.UserService
	Projects *services.ProjectService
	Posts    *services.PostService
	Reviews  *services.ReviewService
	Log      *zap.Logger
}

func New(users *services.UserService, projects *services.ProjectService, posts *services.PostService, reviews *services.ReviewService, log *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Projects: projects,
		Posts:    posts,
		Reviews:  reviews,
		Log:      log.Named("http"),
	}
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	return utils.RespondError(c, err, h.Log)
}

// isSelfOrAdmin reports whether the caller is ownerID or holds ADMIN.
func isSelfOrAdmin(c *fiber.Ctx, ownerID uint) bool {
	callerID, err := middleware.GetUserID(c)
	if err != nil {
		return false
	}
	if callerID == ownerID {
		return true
	}
	role, _ := c.Locals("role").(models.Role)
	return role == models.RoleAdmin
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"success": false,
		"error":   "Access denied",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
