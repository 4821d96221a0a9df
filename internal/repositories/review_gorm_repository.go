package repositories

import (
	"errors"
	"fmt"

	"kritika/internal/apperrors"
	"kritika/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

// GetAllByTitle retrieves a title's reviews with authors preloaded, newest
// first.
func (r *GORMReviewRepository) GetAllByTitle(titleID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("Author").
		Where("title_id = ?", titleID).
		Order("pub_date DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews for title %s: %w", titleID, err)
	}
	return reviews, nil
}

// GetByID retrieves a single review by its ID with the author preloaded.
func (r *GORMReviewRepository) GetByID(id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.Preload("Author").First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("review", id)
		}
		return nil, fmt.Errorf("failed to get review by ID %s: %w", id, err)
	}
	return &review, nil
}

// Create creates a new review. The composite unique index on
// (title_id, author_id) is the final defense under concurrent creates; a
// violation surfaces as the one-review-per-title validation error.
func (r *GORMReviewRepository) Create(review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if err := r.db.Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewValidation("review", "only one review per title is permitted")
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// Update saves all fields of an existing review.
func (r *GORMReviewRepository) Update(review *models.Review) error {
	res := r.db.Omit("Author", "Title").Save(review)
	if res.Error != nil {
		return fmt.Errorf("failed to update review: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("review", review.ID)
	}
	return nil
}

// Delete removes a review by its ID. Its comments go with it through the
// store's cascade rules.
func (r *GORMReviewRepository) Delete(id string) error {
	res := r.db.Delete(&models.Review{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete review %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("review", id)
	}
	return nil
}

// ExistsByTitleAndAuthor reports whether the author already reviewed the
// title.
func (r *GORMReviewRepository) ExistsByTitleAndAuthor(titleID, authorID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Review{}).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}
	return count > 0, nil
}

// AverageScore computes the mean review score for one title.
func (r *GORMReviewRepository) AverageScore(titleID string) (*float64, error) {
	var avg *float64
	err := r.db.Model(&models.Review{}).
		Where("title_id = ?", titleID).
		Select("AVG(score)").
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute rating for title %s: %w", titleID, err)
	}
	return avg, nil
}

// AverageScores computes mean review scores for a batch of titles in one
// grouped query.
func (r *GORMReviewRepository) AverageScores(titleIDs []string) (map[string]float64, error) {
	ratings := make(map[string]float64, len(titleIDs))
	if len(titleIDs) == 0 {
		return ratings, nil
	}
	type row struct {
		TitleID string
		Avg     float64
	}
	var rows []row
	err := r.db.Model(&models.Review{}).
		Where("title_id IN ?", titleIDs).
		Select("title_id, AVG(score) AS avg").
		Group("title_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute ratings: %w", err)
	}
	for _, row := range rows {
		ratings[row.TitleID] = row.Avg
	}
	return ratings, nil
}

// GORMCommentRepository is a GORM implementation of CommentRepository.
type GORMCommentRepository struct {
	db *gorm.DB
}

// NewGORMCommentRepository creates a new instance of GORMCommentRepository.
func NewGORMCommentRepository(db *gorm.DB) *GORMCommentRepository {
	return &GORMCommentRepository{db: db}
}

// GetAllByReview retrieves a review's comments with authors preloaded,
// oldest first.
func (r *GORMCommentRepository) GetAllByReview(reviewID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("Author").
		Where("review_id = ?", reviewID).
		Order("pub_date").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get comments for review %s: %w", reviewID, err)
	}
	return comments, nil
}

// GetByID retrieves a single comment by its ID with the author preloaded.
func (r *GORMCommentRepository) GetByID(id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("Author").First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("comment", id)
		}
		return nil, fmt.Errorf("failed to get comment by ID %s: %w", id, err)
	}
	return &comment, nil
}

// Create creates a new comment.
func (r *GORMCommentRepository) Create(comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if err := r.db.Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// Update saves all fields of an existing comment.
func (r *GORMCommentRepository) Update(comment *models.Comment) error {
	res := r.db.Omit("Author", "Review").Save(comment)
	if res.Error != nil {
		return fmt.Errorf("failed to update comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("comment", comment.ID)
	}
	return nil
}

// Delete removes a comment by its ID.
func (r *GORMCommentRepository) Delete(id string) error {
	res := r.db.Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete comment %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("comment", id)
	}
	return nil
}
