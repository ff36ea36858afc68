// handlers/reviews.go - Review HTTP Handlers
package handlers

import (
	"teamhub/middleware"
	"teamhub/utils"

	"github.com/gofiber/fiber/v2"
)

// CreateReview records a review sent by the caller. A review naming a
// project goes to the project, one naming a receiver goes to that user.
// Naming both is rejected.
// POST /api/reviews
func (h *Handler) CreateReview(c *fiber.Ctx) error {
	senderID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ProjectID != nil && req.ReceiverID != nil {
		return badRequest(c, "A review targets either project_id or receiver_id, not both")
	}

	review := req.toModel()
	ctx := c.UserContext()
	switch {
	case req.ProjectID != nil:
		_, err = h.Projects.AddReviewToProject(ctx, senderID, *req.ProjectID, &review)
	case req.ReceiverID != nil:
		_, err = h.Users.AddReviewToUsers(ctx, senderID, *req.ReceiverID, &review)
	default:
		review.SenderID = &senderID
		_, err = h.Reviews.SaveReview(ctx, &review)
	}
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "review": review})
}

// GET /api/reviews
func (h *Handler) ListReviews(c *fiber.Ctx) error {
	reviews, err := h.Reviews.ListReviews(c.UserContext(), utils.QueryInt(c, "limit", 0))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "reviews": reviews, "count": len(reviews)})
}

// GET /api/reviews/:id
func (h *Handler) GetReview(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	review, err := h.Reviews.GetReviewByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "review": review})
}

// UpdateReview changes rating and text (sender or admin)
// PUT /api/reviews/:id
func (h *Handler) UpdateReview(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	existing, err := h.Reviews.GetReviewByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if existing.SenderID == nil || !isSelfOrAdmin(c, *existing.SenderID) {
		return forbidden(c)
	}

	review, err := h.Reviews.UpdateReview(c.UserContext(), id, req.toModel())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "review": review})
}

// DELETE /api/reviews/:id
func (h *Handler) DeleteReview(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	existing, err := h.Reviews.GetReviewByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if existing.SenderID == nil || !isSelfOrAdmin(c, *existing.SenderID) {
		return forbidden(c)
	}

	if err := h.Reviews.DeleteReview(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ================== RELATIONSHIP QUERIES ==================

// GET /api/reviews/receiver/:userId
func (h *Handler) GetReviewsByReceiver(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "userId")
	if err != nil {
		return err
	}

	user, err := h.Users.GetUserByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	reviews, err := h.Reviews.GetReviewsByReceiver(c.UserContext(), user)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "reviews": reviews, "count": len(reviews)})
}

// GET /api/reviews/sender/:userId
func (h *Handler) GetReviewsBySender(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "userId")
	if err != nil {
		return err
	}

	user, err := h.Users.GetUserByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	reviews, err := h.Reviews.GetReviewsBySender(c.UserContext(), user)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "reviews": reviews, "count": len(reviews)})
}

// GET /api/reviews/project/:projectId
func (h *Handler) GetReviewsByProject(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "projectId")
	if err != nil {
		return err
	}

	project, err := h.Projects.GetProjectByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	reviews, err := h.Reviews.GetReviewsByProject(c.UserContext(), project)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "reviews": reviews, "count": len(reviews)})
}
