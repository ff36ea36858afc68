// services/project_service.go - Projects, membership and project reviews
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"teamhub/metrics"
	"teamhub/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectService struct {
	db      *gorm.DB
	users   *UserService
	reviews *ReviewService
	log     *zap.Logger
}

func NewProjectService(db *gorm.DB, users *UserService, reviews *ReviewService, log *zap.Logger) *ProjectService {
	return &ProjectService{db: db, users: users, reviews: reviews, log: log.Named("projects")}
}

// ================== PROJECT CRUD OPERATIONS ==================

// SaveProject creates a project and enrolls its leader as the first member.
func (s *ProjectService) SaveProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	project.Name = strings.TrimSpace(project.Name)
	if err := validateModel(project); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leader, err := s.users.withTx(tx).load(ctx, project.LeaderID)
		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return fmt.Errorf("create project: %w", err)
		}

		member := &models.ProjectMember{
			ProjectID: project.ID,
			UserID:    leader.ID,
			JoinedAt:  time.Now().UTC(),
		}
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("enroll leader: %w", err)
		}

		project.Leader = leader
		project.Members = append(project.Members, leader)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MembershipChanges.WithLabelValues(metrics.ChangeJoined).Inc()
	s.log.Info("project created", zap.Uint("project_id", project.ID), zap.Uint("leader_id", project.LeaderID))
	return project, nil
}

// GetProjectByID retrieves a project with members and reviews preloaded.
func (s *ProjectService) GetProjectByID(ctx context.Context, id uint) (*models.Project, error) {
	return s.load(s.db.WithContext(ctx), id)
}

// UpdateProject changes name, description and link (leader only).
func (s *ProjectService) UpdateProject(ctx context.Context, id uint, changes models.Project, initiatorID uint) (*models.Project, error) {
	project, err := s.load(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if !project.IsLeader(initiatorID) {
		s.log.Info("non-leader tried to update project", zap.Uint("project_id", id), zap.Uint("user_id", initiatorID))
		return nil, fmt.Errorf("only the project leader can update project %d: %w", id, ErrForbidden)
	}

	project.Name = strings.TrimSpace(changes.Name)
	project.Description = changes.Description
	project.Link = changes.Link
	if err := validateModel(project); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(project).Error; err != nil {
		return nil, fmt.Errorf("update project %d: %w", id, err)
	}

	s.log.Info("project updated", zap.Uint("project_id", id))
	return project, nil
}

// DeleteProject removes a project (leader only). Memberships go with it and
// its reviews are detached.
func (s *ProjectService) DeleteProject(ctx context.Context, id, initiatorID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, err := s.lock(tx, id)
		if err != nil {
			return err
		}
		if !project.IsLeader(initiatorID) {
			return fmt.Errorf("only the project leader can delete project %d: %w", id, ErrForbidden)
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.PastProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Review{}).Where("project_id = ?", id).Update("project_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
	if err != nil {
		return err
	}

	s.log.Info("project deleted", zap.Uint("project_id", id), zap.Uint("user_id", initiatorID))
	return nil
}

// SearchProjects matches keyword against name and description.
func (s *ProjectService) SearchProjects(ctx context.Context, keyword string, limit int) ([]*models.Project, error) {
	projects := []*models.Project{}
	query := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(normalizeLimit(limit))

	if keyword = strings.TrimSpace(keyword); keyword != "" {
		pattern := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	err := query.Find(&projects).Error
	return projects, err
}

// ================== MEMBERSHIP ==================

// AddUserToProject makes the user a current member. Adding an existing
// member changes nothing; a past member rejoins and leaves the past list.
func (s *ProjectService) AddUserToProject(ctx context.Context, projectID, userID uint) (*models.Project, error) {
	var project *models.Project
	change := metrics.ChangeJoined

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if project, err = s.lock(tx, projectID); err != nil {
			return err
		}
		user, err := s.users.withTx(tx).load(ctx, userID, "CurrentProjects", "PastProjects")
		if err != nil {
			return err
		}

		if project.HasMember(userID) {
			change = ""
			s.log.Info("user already a project member", zap.Uint("project_id", projectID), zap.Uint("user_id", userID))
			return nil
		}

		member := &models.ProjectMember{ProjectID: projectID, UserID: userID, JoinedAt: time.Now().UTC()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(member).Error; err != nil {
			return fmt.Errorf("join project %d: %w", projectID, err)
		}

		if user.IsPastMemberOf(projectID) {
			if err := tx.Where("user_id = ? AND project_id = ?", userID, projectID).
				Delete(&models.PastProjectMember{}).Error; err != nil {
				return err
			}
			user.RemovePastProject(projectID)
			change = metrics.ChangeRejoined
		}

		project.Members = append(project.Members, user)
		user.CurrentProjects = append(user.CurrentProjects, project)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if change != "" {
		metrics.MembershipChanges.WithLabelValues(change).Inc()
		s.log.Info("user added to project",
			zap.Uint("project_id", projectID),
			zap.Uint("user_id", userID),
			zap.String("change", change),
		)
	}
	return project, nil
}

// RemoveUserFromProject ends a membership. Only the member themself or the
// project leader may do so. Removing a non-member returns the project
// unchanged.
func (s *ProjectService) RemoveUserFromProject(ctx context.Context, projectID, userID, initiatorID uint) (*models.Project, error) {
	var project *models.Project

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if project, err = s.lock(tx, projectID); err != nil {
			return err
		}
		users := s.users.withTx(tx)
		user, err := users.load(ctx, userID, "CurrentProjects", "PastProjects")
		if err != nil {
			return err
		}
		if _, err := users.load(ctx, initiatorID); err != nil {
			return err
		}

		if initiatorID != userID && !project.IsLeader(initiatorID) {
			s.log.Info("membership removal refused",
				zap.Uint("project_id", projectID),
				zap.Uint("user_id", userID),
				zap.Uint("initiator_id", initiatorID),
			)
			return fmt.Errorf("user %d may not remove user %d from project %d: %w", initiatorID, userID, projectID, ErrForbidden)
		}

		if !project.HasMember(userID) {
			s.log.Info("user is not a project member", zap.Uint("project_id", projectID), zap.Uint("user_id", userID))
			return nil
		}

		if err := users.MoveProjectToPast(ctx, user, project); err != nil {
			return err
		}
		project.RemoveMember(userID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// ================== PROJECT REVIEWS ==================

// AddReviewToProject records review as sent by senderID about projectID.
func (s *ProjectService) AddReviewToProject(ctx context.Context, senderID, projectID uint, review *models.Review) (*models.Review, error) {
	if !review.HasValidRating() {
		metrics.ReviewsRejected.WithLabelValues(metrics.ReasonInvalidRating).Inc()
		return nil, fmt.Errorf("rating %d: %w", review.Rating, ErrInvalidRating)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.withTx(tx)
		reviews := s.reviews.withTx(tx)

		sender, err := users.load(ctx, senderID, "SentReviews")
		if err != nil {
			return err
		}
		project, err := s.lock(tx, projectID)
		if err != nil {
			return err
		}

		sender.SentReviews = append(sender.SentReviews, review)
		project.Reviews = append(project.Reviews, review)

		if err := reviews.AddSenderToReview(ctx, sender, review); err != nil {
			return err
		}
		return reviews.AddProjectToReview(ctx, project, review)
	})
	if err != nil {
		return nil, err
	}

	metrics.ReviewsSaved.Inc()
	s.log.Info("review added to project",
		zap.Uint("review_id", review.ID),
		zap.Uint("project_id", projectID),
		zap.Uint("sender_id", senderID),
	)
	return review, nil
}

// RemoveReviewFromProject deletes a review senderID left on projectID.
func (s *ProjectService) RemoveReviewFromProject(ctx context.Context, senderID, projectID, reviewID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sender, err := s.users.withTx(tx).load(ctx, senderID, "SentReviews")
		if err != nil {
			return err
		}
		project, err := s.lock(tx, projectID)
		if err != nil {
			return err
		}

		ref := &models.Review{ID: reviewID}
		if !sender.HasSentReview(ref) || !project.HasReview(ref) {
			s.log.Info("review not held by sender and project, not removed",
				zap.Uint("review_id", reviewID),
				zap.Uint("project_id", projectID),
				zap.Uint("sender_id", senderID),
			)
			return fmt.Errorf("review %d not held by user %d and project %d: %w",
				reviewID, senderID, projectID, ErrInconsistentAssociation)
		}

		project.RemoveReview(reviewID)
		sender.RemoveSentReview(reviewID)
		return s.reviews.withTx(tx).DeleteReview(ctx, reviewID)
	})
	if err != nil {
		return err
	}

	s.log.Info("review removed from project", zap.Uint("review_id", reviewID), zap.Uint("project_id", projectID))
	return nil
}

// ================== HELPER FUNCTIONS ==================

func (s *ProjectService) load(db *gorm.DB, id uint) (*models.Project, error) {
	var project models.Project
	err := db.Preload("Members").Preload("Reviews").First(&project, id).Error
	if err != nil {
		return nil, lookupError("project", id, err)
	}
	return &project, nil
}

// lock loads the project holding a row lock for the rest of tx.
func (s *ProjectService) lock(tx *gorm.DB, id uint) (*models.Project, error) {
	return s.load(tx.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}
