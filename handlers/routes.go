// handlers/routes.go - API route table
package handlers

import (
	"teamhub/middleware"

	"github.com/gofiber/fiber/v2"
)

// Register mounts the API under /api. Registration is public; every other
// route requires a bearer token checked by auth.
func Register(app fiber.Router, h *Handler, auth fiber.Handler) {
	api := app.Group("/api")

	// Users
	api.Post("/users", h.CreateUser)

	users := api.Group("/users", auth)
	users.Get("/email/:email", h.GetUserByEmail)
	users.Get("/team-role/:role", h.GetUsersByTeamRole)
	users.Get("/:id", h.GetUser)
	users.Put("/:id", h.UpdateUser)
	users.Delete("/:id", h.DeleteUser)
	users.Get("/:id/projects", h.GetUserCurrentProjects)
	users.Get("/:id/past-projects", h.GetUserPastProjects)
	users.Get("/:id/rating", h.GetUserRating)
	users.Post("/:id/reviews", h.AddReviewToUser)
	users.Delete("/:id/reviews/:reviewId", h.RemoveReviewFromUser)
	users.Post("/:id/admin", middleware.RequireAdmin, h.SetAdminRole)
	users.Delete("/:id/admin", middleware.RequireAdmin, h.RemoveAdminRole)

	// Projects
	projects := api.Group("/projects", auth)
	projects.Get("/", h.SearchProjects)
	projects.Post("/", h.CreateProject)
	projects.Get("/:id", h.GetProject)
	projects.Put("/:id", h.UpdateProject)
	projects.Delete("/:id", h.DeleteProject)
	projects.Get("/:id/members", h.GetMembers)
	projects.Post("/:id/members", h.AddMember)
	projects.Delete("/:id/members/:userId", h.RemoveMember)
	projects.Get("/:id/past-members", h.GetPastMembers)
	projects.Post("/:id/reviews", h.AddProjectReview)
	projects.Delete("/:id/reviews/:reviewId", h.RemoveProjectReview)

	// Posts
	posts := api.Group("/posts", auth)
	posts.Post("/", h.CreatePost)
	posts.Get("/search", h.SearchPosts)
	posts.Get("/author/:id", h.GetPostsByAuthor)
	posts.Get("/:id", h.GetPost)
	posts.Put("/:id", h.UpdatePost)
	posts.Delete("/:id", h.DeletePost)
	posts.Post("/:id/respondents", h.Respond)
	posts.Delete("/:id/respondents/:userId", h.WithdrawResponse)

	// Reviews
	reviews := api.Group("/reviews", auth)
	reviews.Get("/", h.ListReviews)
	reviews.Post("/", h.CreateReview)
	reviews.Get("/receiver/:userId", h.GetReviewsByReceiver)
	reviews.Get("/sender/:userId", h.GetReviewsBySender)
	reviews.Get("/project/:projectId", h.GetReviewsByProject)
	reviews.Get("/:id", h.GetReview)
	reviews.Put("/:id", h.UpdateReview)
	reviews.Delete("/:id", h.DeleteReview)
}
