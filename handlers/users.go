// handlers/users.go - User HTTP Handlers
package handlers

import (
	"teamhub/middleware"
	"teamhub/models"
	"teamhub/utils"

	"github.com/gofiber/fiber/v2"
)

// ================== USER CRUD ENDPOINTS ==================

// CreateUser registers a user
// POST /api/users
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var req userRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user := req.toModel()
	saved, err := h.Users.SaveUser(c.UserContext(), &user)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"user":    saved,
	})
}

// GET /api/users/:id
func (h *Handler) GetUser(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.Users.GetUserByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}

// UpdateUser changes profile fields (self or admin)
// PUT /api/users/:id
func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}
	if !isSelfOrAdmin(c, id) {
		return forbidden(c)
	}

	var req userRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.Users.UpdateUser(c.UserContext(), id, req.toModel())
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}

// DELETE /api/users/:id
func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}
	if !isSelfOrAdmin(c, id) {
		return forbidden(c)
	}

	if _, err := h.Users.GetUserByID(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	if err := h.Users.DeleteUser(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ================== USER QUERIES ==================

// GET /api/users/email/:email
func (h *Handler) GetUserByEmail(c *fiber.Ctx) error {
	user, err := h.Users.GetUserByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

// GET /api/users/team-role/:role
func (h *Handler) GetUsersByTeamRole(c *fiber.Ctx) error {
	role := models.TeamRoleTag(c.Params("role"))
	if !role.Valid() {
		return badRequest(c, "Unknown team role")
	}

	users, err := h.Users.GetUsersByTeamRole(c.UserContext(), role)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "users": users, "count": len(users)})
}

// GET /api/users/:id/projects
func (h *Handler) GetUserCurrentProjects(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	projects, err := h.Users.GetCurrentProjects(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "projects": projects})
}

// GET /api/users/:id/past-projects
func (h *Handler) GetUserPastProjects(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	projects, err := h.Users.GetPastProjects(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "projects": projects})
}

// GetUserRating returns the average rating the user received
// GET /api/users/:id/rating
func (h *Handler) GetUserRating(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.Users.GetUserByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	avg, err := h.Reviews.GetAverageRating(c.UserContext(), user)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "user_id": id, "average_rating": avg})
}

// ================== USER REVIEWS ==================

// AddReviewToUser sends a review from the caller to the user
// POST /api/users/:id/reviews
func (h *Handler) AddReviewToUser(c *fiber.Ctx) error {
	receiverID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}
	senderID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	review := req.toModel()
	saved, err := h.Users.AddReviewToUsers(c.UserContext(), senderID, receiverID, &review)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "review": saved})
}

// RemoveReviewFromUser deletes a review the caller sent to the user
// DELETE /api/users/:id/reviews/:reviewId
func (h *Handler) RemoveReviewFromUser(c *fiber.Ctx) error {
	receiverID, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}
	reviewID, err := utils.ParseID(c, "reviewId")
	if err != nil {
		return err
	}
	senderID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	if err := h.Users.RemoveReviewFromUsers(c.UserContext(), senderID, receiverID, reviewID); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ================== ADMIN ROLE ==================

// POST /api/users/:id/admin (admin only)
func (h *Handler) SetAdminRole(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.Users.SetAdminRole(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

// DELETE /api/users/:id/admin (admin only)
func (h *Handler) RemoveAdminRole(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.Users.RemoveAdminRole(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}
