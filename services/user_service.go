// services/user_service.go - Users, user-side review associations and admin roles
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"teamhub/metrics"
	"teamhub/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserService struct {
	db      *gorm.DB
	reviews *ReviewService
	log     *zap.Logger
}

func NewUserService(db *gorm.DB, reviews *ReviewService, log *zap.Logger) *UserService {
	return &UserService{db: db, reviews: reviews, log: log.Named("users")}
}

func (s *UserService) withTx(tx *gorm.DB) *UserService {
	return &UserService{db: tx, reviews: s.reviews.withTx(tx), log: s.log}
}

// ================== USER CRUD OPERATIONS ==================

// SaveUser validates and persists the user's own columns. New users must
// carry an email nobody else registered.
func (s *UserService) SaveUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	if err := validateModel(user); err != nil {
		return nil, err
	}

	existing, err := s.GetUserByEmail(ctx, user.Email)
	switch {
	case err == nil && existing.ID != user.ID:
		return nil, fmt.Errorf("%s: %w", user.Email, ErrDuplicateEmail)
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, err
	}

	if err := s.save(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user saved", zap.Uint("user_id", user.ID))
	return user, nil
}

// GetUserByID returns the user or ErrNotFound.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.load(ctx, id)
}

// UpdateUser overwrites the profile fields of an existing user.
func (s *UserService) UpdateUser(ctx context.Context, id uint, changes models.User) (*models.User, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	user.FirstName = changes.FirstName
	user.LastName = changes.LastName
	user.GitHubLink = changes.GitHubLink
	user.TeamRole = changes.TeamRole
	if changes.Email != "" {
		user.Email = changes.Email
	}

	return s.SaveUser(ctx, user)
}

// DeleteUser removes the user together with their memberships, responses,
// posts and reviews. A user who still leads a project cannot be deleted.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var led int64
		if err := tx.Model(&models.Project{}).Where("leader_id = ?", id).Count(&led).Error; err != nil {
			return err
		}
		if led > 0 {
			return fmt.Errorf("user %d leads %d project(s): %w", id, led, ErrInconsistentAssociation)
		}

		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("author_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.PostRespondent{}).Error; err != nil {
				return err
			}
		}

		cleanup := []struct {
			model interface{}
			query string
		}{
			{&models.ProjectMember{}, "user_id = @id"},
			{&models.PastProjectMember{}, "user_id = @id"},
			{&models.PostRespondent{}, "user_id = @id"},
			{&models.Post{}, "author_id = @id"},
			{&models.Review{}, "sender_id = @id OR receiver_id = @id"},
		}
		for _, c := range cleanup {
			if err := tx.Where(c.query, sql.Named("id", id)).Delete(c.model).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return err
	}

	s.log.Info("user deleted", zap.Uint("user_id", id))
	return nil
}

// ================== USER QUERIES ==================

// GetUserByEmail looks a user up by normalized email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByTeamRole returns every user tagged with role.
func (s *UserService) GetUsersByTeamRole(ctx context.Context, role models.TeamRoleTag) ([]*models.User, error) {
	users := []*models.User{}
	err := s.db.WithContext(ctx).Where("team_role = ?", role).Order("id ASC").Find(&users).Error
	return users, err
}

// GetUsersByCurrentProject returns the current members of a project.
func (s *UserService) GetUsersByCurrentProject(ctx context.Context, projectID uint) ([]*models.User, error) {
	users := []*models.User{}
	err := s.db.WithContext(ctx).
		Joins("JOIN project_members ON project_members.user_id = users.id").
		Where("project_members.project_id = ?", projectID).
		Order("project_members.joined_at ASC, users.id ASC").
		Find(&users).Error
	return users, err
}

// GetUsersByPastProject returns the users who left a project.
func (s *UserService) GetUsersByPastProject(ctx context.Context, projectID uint) ([]*models.User, error) {
	users := []*models.User{}
	err := s.db.WithContext(ctx).
		Joins("JOIN past_project_members ON past_project_members.user_id = users.id").
		Where("past_project_members.project_id = ?", projectID).
		Order("past_project_members.left_at ASC, users.id ASC").
		Find(&users).Error
	return users, err
}

// GetCurrentProjects returns the projects a user is presently a member of.
func (s *UserService) GetCurrentProjects(ctx context.Context, userID uint) ([]*models.Project, error) {
	user, err := s.load(ctx, userID, "CurrentProjects")
	if err != nil {
		return nil, err
	}
	return user.CurrentProjects, nil
}

// GetPastProjects returns the projects a user has left.
func (s *UserService) GetPastProjects(ctx context.Context, userID uint) ([]*models.Project, error) {
	user, err := s.load(ctx, userID, "PastProjects")
	if err != nil {
		return nil, err
	}
	return user.PastProjects, nil
}

// ================== REVIEW ASSOCIATIONS ==================

// AddReviewToUsers records review as sent by senderID and received by
// receiverID. Both collections are updated before the review's sender and
// receiver back-references are attached.
func (s *UserService) AddReviewToUsers(ctx context.Context, senderID, receiverID uint, review *models.Review) (*models.Review, error) {
	if !review.HasValidRating() {
		metrics.ReviewsRejected.WithLabelValues(metrics.ReasonInvalidRating).Inc()
		return nil, fmt.Errorf("rating %d: %w", review.Rating, ErrInvalidRating)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.withTx(tx)

		sender, err := users.load(ctx, senderID, "SentReviews")
		if err != nil {
			s.log.Info("cannot add review, sender missing", zap.Uint("user_id", senderID))
			return err
		}
		receiver, err := users.load(ctx, receiverID, "ReceivedReviews")
		if err != nil {
			s.log.Info("cannot add review, receiver missing", zap.Uint("user_id", receiverID))
			return err
		}

		sender.SentReviews = append(sender.SentReviews, review)
		receiver.ReceivedReviews = append(receiver.ReceivedReviews, review)

		if err := users.reviews.AddSenderToReview(ctx, sender, review); err != nil {
			return err
		}
		// The review's foreign keys carry the association; the user rows
		// themselves are not rewritten.
		return users.reviews.AddReceiverToReview(ctx, receiver, review)
	})
	if err != nil {
		return nil, err
	}

	metrics.ReviewsSaved.Inc()
	s.log.Info("review added to users",
		zap.Uint("review_id", review.ID),
		zap.Uint("sender_id", senderID),
		zap.Uint("receiver_id", receiverID),
	)
	return review, nil
}

// RemoveReviewFromUsers deletes a review that senderID sent to receiverID.
// The review must be present on both sides.
func (s *UserService) RemoveReviewFromUsers(ctx context.Context, senderID, receiverID, reviewID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.withTx(tx)

		sender, err := users.load(ctx, senderID, "SentReviews")
		if err != nil {
			return err
		}
		receiver, err := users.load(ctx, receiverID, "ReceivedReviews")
		if err != nil {
			return err
		}

		ref := &models.Review{ID: reviewID}
		if !sender.HasSentReview(ref) || !receiver.HasReceivedReview(ref) {
			missing := senderID
			if sender.HasSentReview(ref) {
				missing = receiverID
			}
			s.log.Info("review not held by user, not removed",
				zap.Uint("review_id", reviewID),
				zap.Uint("user_id", missing),
			)
			return fmt.Errorf("review %d not held by user %d: %w", reviewID, missing, ErrInconsistentAssociation)
		}

		sender.RemoveSentReview(reviewID)
		receiver.RemoveReceivedReview(reviewID)
		return users.reviews.DeleteReview(ctx, reviewID)
	})
	if err != nil {
		return err
	}

	s.log.Info("review removed from users",
		zap.Uint("review_id", reviewID),
		zap.Uint("sender_id", senderID),
		zap.Uint("receiver_id", receiverID),
	)
	return nil
}

// ================== PROJECT HISTORY ==================

// MoveProjectToPast moves project from the user's current projects to their
// past projects. Only the membership rows are written; user is updated in
// memory. Callers check that the user and the project exist.
func (s *UserService) MoveProjectToPast(ctx context.Context, user *models.User, project *models.Project) error {
	db := s.db.WithContext(ctx)

	if err := db.Where("user_id = ? AND project_id = ?", user.ID, project.ID).
		Delete(&models.ProjectMember{}).Error; err != nil {
		return fmt.Errorf("leave project %d: %w", project.ID, err)
	}

	past := &models.PastProjectMember{UserID: user.ID, ProjectID: project.ID, LeftAt: time.Now().UTC()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(past).Error; err != nil {
		return fmt.Errorf("record past project %d: %w", project.ID, err)
	}

	user.RemoveCurrentProject(project.ID)
	if !user.IsPastMemberOf(project.ID) {
		user.PastProjects = append(user.PastProjects, project)
	}

	metrics.MembershipChanges.WithLabelValues(metrics.ChangeLeft).Inc()
	s.log.Info("project moved to past", zap.Uint("user_id", user.ID), zap.Uint("project_id", project.ID))
	return nil
}

// ================== ADMIN ROLE ==================

// CurrentRole reads only the stored role of userID.
func (s *UserService) CurrentRole(ctx context.Context, userID uint) (models.Role, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("id", "role").First(&user, userID).Error
	if err != nil {
		return "", lookupError("user", userID, err)
	}
	return user.Role, nil
}

// SetAdminRole grants ADMIN. Granting it to an admin changes nothing.
func (s *UserService) SetAdminRole(ctx context.Context, userID uint) (*models.User, error) {
	return s.setRole(ctx, userID, models.RoleAdmin)
}

// RemoveAdminRole demotes an admin back to USER. Non-admins are left alone.
func (s *UserService) RemoveAdminRole(ctx context.Context, userID uint) (*models.User, error) {
	return s.setRole(ctx, userID, models.RoleUser)
}

func (s *UserService) setRole(ctx context.Context, userID uint, role models.Role) (*models.User, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		s.log.Info("cannot change role, user missing", zap.Uint("user_id", userID))
		return nil, err
	}

	if user.Role == role {
		s.log.Info("user already has role", zap.Uint("user_id", userID), zap.String("role", string(role)))
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("update role of user %d: %w", userID, err)
	}
	user.Role = role

	s.log.Info("user role changed", zap.Uint("user_id", userID), zap.String("role", string(role)))
	return user, nil
}

// ================== HELPER FUNCTIONS ==================

func (s *UserService) load(ctx context.Context, id uint, preloads ...string) (*models.User, error) {
	query := s.db.WithContext(ctx)
	for _, p := range preloads {
		query = query.Preload(p)
	}

	var user models.User
	if err := query.First(&user, id).Error; err != nil {
		return nil, lookupError("user", id, err)
	}
	return &user, nil
}

// save writes the user's own columns; associations are persisted by the
// operations that own them.
func (s *UserService) save(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", user.Email, ErrDuplicateEmail)
	}
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}
