// services/review_service.go - Review validation, persistence and rating aggregation
package services

import (
	"context"
	"fmt"

	"teamhub/metrics"
	"teamhub/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewService is the single source of truth for rating validity. Every
// review write in the application goes through persist.
type ReviewService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewReviewService(db *gorm.DB, log *zap.Logger) *ReviewService {
	return &ReviewService{db: db, log: log.Named("reviews")}
}

// withTx returns a copy of the service bound to an open transaction.
func (s *ReviewService) withTx(tx *gorm.DB) *ReviewService {
	return &ReviewService{db: tx, log: s.log}
}

// ================== REVIEW CRUD OPERATIONS ==================

// SaveReview validates and persists a review. Invalid ratings are rejected
// with ErrInvalidRating and nothing is written.
func (s *ReviewService) SaveReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := s.persist(ctx, review); err != nil {
		return nil, err
	}

	metrics.ReviewsSaved.Inc()
	s.log.Info("review saved", zap.Uint("review_id", review.ID))
	return review, nil
}

// GetReviewByID returns the review or ErrNotFound.
func (s *ReviewService) GetReviewByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, lookupError("review", id, err)
	}
	return &review, nil
}

// ListReviews returns the most recent reviews.
func (s *ReviewService) ListReviews(ctx context.Context, limit int) ([]*models.Review, error) {
	var reviews []*models.Review
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(normalizeLimit(limit)).
		Find(&reviews).Error
	return reviews, err
}

// DeleteReview removes a review by id. Deleting an absent review is not an
// error.
func (s *ReviewService) DeleteReview(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.Review{}, id).Error; err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
	}
	s.log.Info("review deleted", zap.Uint("review_id", id))
	return nil
}

// UpdateReview overwrites rating and text of an existing review. Sender,
// receiver and project are left as they are.
func (s *ReviewService) UpdateReview(ctx context.Context, id uint, data models.Review) (*models.Review, error) {
	review, err := s.GetReviewByID(ctx, id)
	if err != nil {
		s.log.Info("review not found for update", zap.Uint("review_id", id))
		return nil, err
	}

	review.Rating = data.Rating
	review.Text = data.Text

	if err := s.persist(ctx, review); err != nil {
		return nil, err
	}

	s.log.Info("review updated", zap.Uint("review_id", id))
	return review, nil
}

// ================== RELATIONSHIP QUERIES ==================

// GetReviewsByReceiver returns the reviews received by user. A nil user
// yields an empty slice.
func (s *ReviewService) GetReviewsByReceiver(ctx context.Context, user *models.User) ([]*models.Review, error) {
	if user == nil {
		s.log.Info("no user given when listing received reviews")
		return []*models.Review{}, nil
	}
	return s.findBy(ctx, "receiver_id = ?", user.ID)
}

// GetReviewsBySender returns the reviews sent by user.
func (s *ReviewService) GetReviewsBySender(ctx context.Context, user *models.User) ([]*models.Review, error) {
	if user == nil {
		s.log.Info("no user given when listing sent reviews")
		return []*models.Review{}, nil
	}
	return s.findBy(ctx, "sender_id = ?", user.ID)
}

// GetReviewsByProject returns the reviews attached to project.
func (s *ReviewService) GetReviewsByProject(ctx context.Context, project *models.Project) ([]*models.Review, error) {
	if project == nil {
		s.log.Info("no project given when listing project reviews")
		return []*models.Review{}, nil
	}
	return s.findBy(ctx, "project_id = ?", project.ID)
}

// GetAverageRating is the arithmetic mean of the ratings user received, or 0
// when there are none.
func (s *ReviewService) GetAverageRating(ctx context.Context, user *models.User) (float64, error) {
	reviews, err := s.GetReviewsByReceiver(ctx, user)
	if err != nil {
		return 0, err
	}
	if len(reviews) == 0 {
		return 0, nil
	}

	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(reviews)), nil
}

func (s *ReviewService) findBy(ctx context.Context, query string, id uint) ([]*models.Review, error) {
	reviews := []*models.Review{}
	if err := s.db.WithContext(ctx).Where(query, id).Order("id ASC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// ================== BACK-REFERENCE ATTACHMENT ==================
//
// The owning collection is always updated first. Attaching a back-reference
// to a review the collection does not hold is rejected.

// AddSenderToReview sets review.SenderID once sender.SentReviews holds it.
func (s *ReviewService) AddSenderToReview(ctx context.Context, sender *models.User, review *models.Review) error {
	if !sender.HasSentReview(review) {
		return s.rejectAttach(review, "sender", sender.ID)
	}

	review.SenderID = &sender.ID
	if err := s.persist(ctx, review); err != nil {
		return err
	}
	s.log.Info("sender attached to review", zap.Uint("review_id", review.ID), zap.Uint("user_id", sender.ID))
	return nil
}

// AddReceiverToReview sets review.ReceiverID once receiver.ReceivedReviews
// holds it.
func (s *ReviewService) AddReceiverToReview(ctx context.Context, receiver *models.User, review *models.Review) error {
	if !receiver.HasReceivedReview(review) {
		return s.rejectAttach(review, "receiver", receiver.ID)
	}

	review.ReceiverID = &receiver.ID
	if err := s.persist(ctx, review); err != nil {
		return err
	}
	s.log.Info("receiver attached to review", zap.Uint("review_id", review.ID), zap.Uint("user_id", receiver.ID))
	return nil
}

// AddProjectToReview sets review.ProjectID once project.Reviews holds it.
func (s *ReviewService) AddProjectToReview(ctx context.Context, project *models.Project, review *models.Review) error {
	if !project.HasReview(review) {
		return s.rejectAttach(review, "project", project.ID)
	}

	review.ProjectID = &project.ID
	if err := s.persist(ctx, review); err != nil {
		return err
	}
	s.log.Info("project attached to review", zap.Uint("review_id", review.ID), zap.Uint("project_id", project.ID))
	return nil
}

func (s *ReviewService) rejectAttach(review *models.Review, side string, ownerID uint) error {
	metrics.ReviewsRejected.WithLabelValues(metrics.ReasonInconsistent).Inc()
	s.log.Info("review not held by owner, back-reference not attached",
		zap.Uint("review_id", review.ID),
		zap.String("side", side),
		zap.Uint("owner_id", ownerID),
	)
	return fmt.Errorf("review %d is not held by %s %d: %w", review.ID, side, ownerID, ErrInconsistentAssociation)
}

// ================== HELPER FUNCTIONS ==================

// checkReview enforces the rating bounds and field constraints.
func (s *ReviewService) checkReview(review *models.Review) error {
	if !review.HasValidRating() {
		metrics.ReviewsRejected.WithLabelValues(metrics.ReasonInvalidRating).Inc()
		s.log.Warn("invalid review rating", zap.Int("rating", review.Rating), zap.Uint("review_id", review.ID))
		return fmt.Errorf("rating %d: %w", review.Rating, ErrInvalidRating)
	}
	if review.SenderID == nil {
		metrics.ReviewsRejected.WithLabelValues(metrics.ReasonValidation).Inc()
		return validationError(fmt.Errorf("sender is required"))
	}
	if err := validateModel(review); err != nil {
		metrics.ReviewsRejected.WithLabelValues(metrics.ReasonValidation).Inc()
		return err
	}
	return nil
}

// persist validates and writes the review row only. Associated users and
// projects are never upserted from here.
func (s *ReviewService) persist(ctx context.Context, review *models.Review) error {
	if err := s.checkReview(review); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(review).Error; err != nil {
		return fmt.Errorf("save review: %w", err)
	}
	return nil
}
