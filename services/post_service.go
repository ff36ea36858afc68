// services/post_service.go - Team-search posts and their respondents
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"teamhub/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostService struct {
	db    *gorm.DB
	users *UserService
	log   *zap.Logger
}

func NewPostService(db *gorm.DB, users *UserService, log *zap.Logger) *PostService {
	return &PostService{db: db, users: users, log: log.Named("posts")}
}

// SavePost validates and persists a post. The author must exist.
func (s *PostService) SavePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	if err := validateModel(post); err != nil {
		return nil, err
	}
	if _, err := s.users.load(ctx, post.AuthorID); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error; err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}

	s.log.Info("post saved", zap.Uint("post_id", post.ID), zap.Uint("user_id", post.AuthorID))
	return post, nil
}

func (s *PostService) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.load(s.db.WithContext(ctx), id)
}

// UpdatePostText replaces the body of a post.
func (s *PostService) UpdatePostText(ctx context.Context, id uint, text string) (*models.Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, validationError(fmt.Errorf("post text is required"))
	}

	post, err := s.load(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	post.Text = text
	if err := validateModel(post); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(post).Update("text", text).Error; err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}

	s.log.Info("post text updated", zap.Uint("post_id", id))
	return post, nil
}

// DeletePost removes a post and its respondent rows.
func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostRespondent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}

	s.log.Info("post deleted", zap.Uint("post_id", id))
	return nil
}

// AddRespondentToPost registers userID as responding to the post. Responding
// twice changes nothing.
func (s *PostService) AddRespondentToPost(ctx context.Context, postID, userID uint) (*models.Post, error) {
	var post *models.Post

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if post, err = s.load(tx, postID); err != nil {
			return err
		}
		user, err := s.users.withTx(tx).load(ctx, userID)
		if err != nil {
			return err
		}

		if post.HasRespondent(userID) {
			s.log.Info("user already responded to post", zap.Uint("post_id", postID), zap.Uint("user_id", userID))
			return nil
		}

		row := &models.PostRespondent{PostID: postID, UserID: userID, RespondedAt: time.Now().UTC()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
			return fmt.Errorf("respond to post %d: %w", postID, err)
		}

		post.Respondents = append(post.Respondents, user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("respondent added to post", zap.Uint("post_id", postID), zap.Uint("user_id", userID))
	return post, nil
}

// RemoveRespondentFromPost withdraws a response. The user must have
// responded.
func (s *PostService) RemoveRespondentFromPost(ctx context.Context, postID, userID uint) (*models.Post, error) {
	var post *models.Post

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if post, err = s.load(tx, postID); err != nil {
			return err
		}
		if _, err := s.users.withTx(tx).load(ctx, userID); err != nil {
			return err
		}

		if !post.HasRespondent(userID) {
			s.log.Info("user has not responded to post", zap.Uint("post_id", postID), zap.Uint("user_id", userID))
			return fmt.Errorf("user %d has not responded to post %d: %w", userID, postID, ErrInconsistentAssociation)
		}

		if err := tx.Where("post_id = ? AND user_id = ?", postID, userID).
			Delete(&models.PostRespondent{}).Error; err != nil {
			return err
		}

		post.RemoveRespondent(userID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("respondent removed from post", zap.Uint("post_id", postID), zap.Uint("user_id", userID))
	return post, nil
}

// SearchPostsByKeyword matches keyword against title and text.
func (s *PostService) SearchPostsByKeyword(ctx context.Context, keyword string, limit int) ([]*models.Post, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, validationError(fmt.Errorf("keyword is required"))
	}

	pattern := "%" + strings.ToLower(keyword) + "%"
	posts := []*models.Post{}
	err := s.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(text) LIKE ?", pattern, pattern).
		Order("created_at DESC, id DESC").
		Limit(normalizeLimit(limit)).
		Find(&posts).Error
	return posts, err
}

// GetPostsByAuthor lists the posts written by authorID.
func (s *PostService) GetPostsByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error) {
	if _, err := s.users.load(ctx, authorID); err != nil {
		return nil, err
	}

	posts := []*models.Post{}
	err := s.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at DESC, id DESC").Find(&posts).Error
	return posts, err
}

func (s *PostService) load(db *gorm.DB, id uint) (*models.Post, error) {
	var post models.Post
	if err := db.Preload("Respondents").First(&post, id).Error; err != nil {
		return nil, lookupError("post", id, err)
	}
	return &post, nil
}
