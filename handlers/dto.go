// handlers/dto.go - Request bodies
package handlers

import "teamhub/models"

type userRequest struct {
	FirstName  string             `json:"first_name"`
	LastName   string             `json:"last_name"`
	Email      string             `json:"email"`
	GitHubLink string             `json:"github_link"`
	TeamRole   models.TeamRoleTag `json:"team_role"`
}

func (r userRequest) toModel() models.User {
	return models.User{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		GitHubLink: r.GitHubLink,
		TeamRole:   r.TeamRole,
	}
}

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

func (r projectRequest) toModel() models.Project {
	return models.Project{Name: r.Name, Description: r.Description, Link: r.Link}
}

type postRequest struct {
	Title        string               `json:"title"`
	Text         string               `json:"text"`
	TeamRoleTags []models.TeamRoleTag `json:"team_role_tags"`
}

type reviewRequest struct {
	Rating     int    `json:"rating"`
	Text       string `json:"text"`
	ReceiverID *uint  `json:"receiver_id"`
	ProjectID  *uint  `json:"project_id"`
}

func (r reviewRequest) toModel() models.Review {
	return models.Review{Rating: r.Rating, Text: r.Text}
}

type memberRequest struct {
	UserID uint `json:"user_id"`
}
