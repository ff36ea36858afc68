// handlers/posts.go - Post HTTP Handlers
package handlers

import (
	"teamhub/middleware"
	"teamhub/models"
	"teamhub/utils"

	"github.com/gofiber/fiber/v2"
)

// CreatePost publishes a post authored by the caller
// POST /api/posts
func (h *Handler) CreatePost(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	post := &models.Post{
		AuthorID:     userID,
		Title:        req.Title,
		Text:         req.Text,
		TeamRoleTags: req.TeamRoleTags,
	}
	saved, err := h.Posts.SavePost(c.UserContext(), post)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "post": saved})
}

// GET /api/posts/:id
func (h *Handler) GetPost(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.Posts.GetPostByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "post": post, "respondents": post.Respondents})
}

// SearchPosts finds posts by keyword
// GET /api/posts/search?q=
func (h *Handler) SearchPosts(c *fiber.Ctx) error {
	posts, err := h.Posts.SearchPostsByKeyword(c.UserContext(), c.Query("q"), utils.QueryInt(c, "limit", 0))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "posts": posts, "count": len(posts)})
}

// GET /api/posts/author/:id
func (h *Handler) GetPostsByAuthor(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	posts, err := h.Posts.GetPostsByAuthor(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "posts": posts, "count": len(posts)})
}

// UpdatePost replaces the post text (author only)
// PUT /api/posts/:id
func (h *Handler) UpdatePost(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	post, err := h.Posts.GetPostByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if !isSelfOrAdmin(c, post.AuthorID) {
		return forbidden(c)
	}

	post, err = h.Posts.UpdatePostText(c.UserContext(), id, req.Text)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "post": post})
}

// DELETE /api/posts/:id
func (h *Handler) DeletePost(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.Posts.GetPostByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if !isSelfOrAdmin(c, post.AuthorID) {
		return forbidden(c)
	}

	if err := h.Posts.DeletePost(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ================== RESPONDENTS ==================

// Respond registers the caller as a respondent
// POST /api/posts/:id/respondents
func (h *Handler) Respond(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	post, err := h.Posts.AddRespondentToPost(c.UserContext(), id, userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "post": post, "respondents": post.Respondents})
}

// WithdrawResponse removes a respondent (the respondent, the author or an admin)
// DELETE /api/posts/:id/respondents/:userId
func (h *Handler) WithdrawResponse(c *fiber.Ctx) error {
	id, err := utils.ParseID(c, "id")
	if err != nil {
		return err
	}
	userID, err := utils.ParseID(c, "userId")
	if err != nil {
		return err
	}

	post, err := h.Posts.GetPostByID(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	if !isSelfOrAdmin(c, userID) && !isSelfOrAdmin(c, post.AuthorID) {
		return forbidden(c)
	}

	post, err = h.Posts.RemoveRespondentFromPost(c.UserContext(), id, userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "post": post, "respondents": post.Respondents})
}
