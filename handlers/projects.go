// handlers/projects.go - Project HTTP Handlers
package handlers

import (
	"teamhub/middleware"
	"teamhub/utils"

	"github.com/gofiber/fiber/v2"
)

// ================== PROJECT CRUD ENDPOINTS ==================

// CreateProject creates a project led by the caller
// POST /api/projects
func (h *Handler) CreateProject(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req projectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	project := req.toModel()
	project.LeaderID = userID
	saved, err := h.Projects.SaveProject(c.UserContext(), &project)
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "project": saved})
}

// GET /api/projects/:id
func (h *Handler) GetProject(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	project, err := h.Projects.GetProjectByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"project":      project,
		"member_count": len(project.Members),
		"review_count": len(project.Reviews),
	})
}

// SearchProjects lists projects, optionally filtered by ?q=
// GET /api/projects
func (h *Handler) SearchProjects(c *fiber.Ctx) error {
	projects, err := h.Projects.SearchProjects(c.UserContext(), c.Query("q"), utils.QueryInt(c, "limit", 0))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "projects": projects, "count": len(projects)})
}

// UpdateProject (leader only)
// PUT /api/projects/:id
func (h *Handler) UpdateProject(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req projectRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	project, err := h.Projects.UpdateProject(c.UserContext(), id, req.toModel(), userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "project": project})
}

// DeleteProject (leader only)
// DELETE /api/projects/:id
func (h *Handler) DeleteProject(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	if err := h.Projects.DeleteProject(c.UserContext(), id, userID); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ================== MEMBERSHIP ENDPOINTS ==================

// AddMember adds a user to the project. The caller must be that user or
// the leader.
// POST /api/projects/:id/members
func (h *Handler) AddMember(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}
	callerID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req memberRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return badRequest(c, "user_id is required")
	}

	current, err := h.Projects.GetProjectByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if callerID != req.UserID && callerID != current.LeaderID {
		return forbidden(c)
	}

	project, err := h.Projects.AddUserToProject(c.UserContext(), id, req.UserID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "project": project, "members": project.Members})
}

// RemoveMember removes a user from the project. The caller must be that
// user or the leader.
// DELETE /api/projects/:id/members/:userId
func (h *Handler) RemoveMember(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}
	memberID, err := utils.ParseID(c, "userId")
	if err != nil {
		return err
	}
	initiatorID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	project, err := h.Projects.RemoveUserFromProject(c.UserContext(), id, memberID, initiatorID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "project": project, "members": project.Members})
}

// GET /api/projects/:id/members
func (h *Handler) GetMembers(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.Projects.GetProjectByID(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}

	users, err := h.Users.GetUsersByCurrentProject(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "members": users, "count": len(users)})
}

// GET /api/projects/:id/past-members
func (h *Handler) GetPastMembers(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.Projects.GetProjectByID(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}

	users, err := h.Users.GetUsersByPastProject(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "members": users, "count": len(users)})
}

// ================== PROJECT REVIEWS ==================

// POST /api/projects/:id/reviews
func (h *Handler) AddProjectReview(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
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
	saved, err := h.Projects.AddReviewToProject(c.UserContext(), senderID, id, &review)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "review": saved})
}

// DELETE /api/projects/:id/reviews/:reviewId
func (h *Handler) RemoveProjectReview(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
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

	if err := h.Projects.RemoveReviewFromProject(c.UserContext(), senderID, id, reviewID); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
