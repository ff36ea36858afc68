package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"teamhub/models"
	"teamhub/services"

	"go.uber.org/zap"
)

// Fixture is the seed file layout. Users are referenced by Key everywhere
// else in the file.
type Fixture struct {
	Users    []SeedUser    `json:"users"`
	Projects []SeedProject `json:"projects"`
	Reviews  []SeedReview  `json:"reviews"`
	Posts    []SeedPost    `json:"posts"`
}

type SeedUser struct {
	Key        string             `json:"key"`
	FirstName  string             `json:"first_name"`
	LastName   string             `json:"last_name"`
	Email      string             `json:"email"`
	GitHubLink string             `json:"github_link"`
	TeamRole   models.TeamRoleTag `json:"team_role"`
	Admin      bool               `json:"admin"`
}

type SeedProject struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	Leader      string   `json:"leader"`
	Members     []string `json:"members"`
	PastMembers []string `json:"past_members"`
}

type SeedReview struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Project  string `json:"project"`
	Rating   int    `json:"rating"`
	Text     string `json:"text"`
}

type SeedPost struct {
	Author       string               `json:"author"`
	Title        string               `json:"title"`
	Text         string               `json:"text"`
	TeamRoleTags []models.TeamRoleTag `json:"team_role_tags"`
	Respondents  []string             `json:"respondents"`
}

// Stats counts what an import created.
type Stats struct {
	Users, Projects, Memberships, Reviews, Posts int
}

func readFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

type importer struct {
	users    *services.UserService
	projects *services.ProjectService
	posts    *services.PostService
	log      *zap.Logger

	userIDs    map[string]uint
	projectIDs map[string]uint
}

func newImporter(users *services.UserService, projects *services.ProjectService, posts *services.PostService, log *zap.Logger) *importer {
	return &importer{
		users:      users,
		projects:   projects,
		posts:      posts,
		log:        log,
		userIDs:    map[string]uint{},
		projectIDs: map[string]uint{},
	}
}

// Import loads f through the services so every rule applies to seed data
// too. It stops at the first failure.
func (im *importer) Import(ctx context.Context, f *Fixture) (Stats, error) {
	var stats Stats

	for _, u := range f.Users {
		user, err := im.users.SaveUser(ctx, &models.User{
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			Email:      u.Email,
			GitHubLink: u.GitHubLink,
			TeamRole:   u.TeamRole,
		})
		if err != nil {
			return stats, fmt.Errorf("user %q: %w", u.Key, err)
		}
		if u.Admin {
			if _, err := im.users.SetAdminRole(ctx, user.ID); err != nil {
				return stats, fmt.Errorf("user %q: %w", u.Key, err)
			}
		}
		im.userIDs[u.Key] = user.ID
		stats.Users++
	}

	for _, p := range f.Projects {
		leaderID, err := im.user(p.Leader)
		if err != nil {
			return stats, fmt.Errorf("project %q: %w", p.Name, err)
		}

		project, err := im.projects.SaveProject(ctx, &models.Project{
			Name:        p.Name,
			Description: p.Description,
			Link:        p.Link,
			LeaderID:    leaderID,
		})
		if err != nil {
			return stats, fmt.Errorf("project %q: %w", p.Name, err)
		}
		im.projectIDs[p.Name] = project.ID
		stats.Projects++

		for _, key := range append(append([]string{}, p.Members...), p.PastMembers...) {
			userID, err := im.user(key)
			if err != nil {
				return stats, fmt.Errorf("project %q: %w", p.Name, err)
			}
			if _, err := im.projects.AddUserToProject(ctx, project.ID, userID); err != nil {
				return stats, fmt.Errorf("project %q member %q: %w", p.Name, key, err)
			}
			stats.Memberships++
		}
		for _, key := range p.PastMembers {
			userID := im.userIDs[key]
			if _, err := im.projects.RemoveUserFromProject(ctx, project.ID, userID, userID); err != nil {
				return stats, fmt.Errorf("project %q past member %q: %w", p.Name, key, err)
			}
		}
	}

	for i, r := range f.Reviews {
		if err := im.importReview(ctx, r); err != nil {
			return stats, fmt.Errorf("review #%d: %w", i+1, err)
		}
		stats.Reviews++
	}

	for _, p := range f.Posts {
		authorID, err := im.user(p.Author)
		if err != nil {
			return stats, fmt.Errorf("post %q: %w", p.Title, err)
		}

		post, err := im.posts.SavePost(ctx, &models.Post{
			AuthorID:     authorID,
			Title:        p.Title,
			Text:         p.Text,
			TeamRoleTags: p.TeamRoleTags,
		})
		if err != nil {
			return stats, fmt.Errorf("post %q: %w", p.Title, err)
		}
		for _, key := range p.Respondents {
			userID, err := im.user(key)
			if err != nil {
				return stats, fmt.Errorf("post %q: %w", p.Title, err)
			}
			if _, err := im.posts.AddRespondentToPost(ctx, post.ID, userID); err != nil {
				return stats, fmt.Errorf("post %q respondent %q: %w", p.Title, key, err)
			}
		}
		stats.Posts++
	}

	im.log.Info("seed import finished",
		zap.Int("users", stats.Users),
		zap.Int("projects", stats.Projects),
		zap.Int("memberships", stats.Memberships),
		zap.Int("reviews", stats.Reviews),
		zap.Int("posts", stats.Posts),
	)
	return stats, nil
}

func (im *importer) importReview(ctx context.Context, r SeedReview) error {
	senderID, err := im.user(r.Sender)
	if err != nil {
		return err
	}
	review := &models.Review{Rating: r.Rating, Text: r.Text}

	if r.Project != "" {
		projectID, ok := im.projectIDs[r.Project]
		if !ok {
			return fmt.Errorf("unknown project %q", r.Project)
		}
		_, err = im.projects.AddReviewToProject(ctx, senderID, projectID, review)
		return err
	}

	receiverID, err := im.user(r.Receiver)
	if err != nil {
		return err
	}
	_, err = im.users.AddReviewToUsers(ctx, senderID, receiverID, review)
	return err
}

func (im *importer) user(key string) (uint, error) {
	id, ok := im.userIDs[key]
	if !ok {
		return 0, fmt.Errorf("unknown user %q", key)
	}
	return id, nil
}
