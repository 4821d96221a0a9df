package services

import (
	"fmt"
	"time"

	"kritika/internal/apperrors"
	"kritika/internal/models"
	"kritika/internal/repositories"
)

// ReviewInput is the payload for review creation.
type ReviewInput struct {
	Text  string
	Score int
}

// ReviewPatch is a partial review update; nil fields are left untouched.
type ReviewPatch struct {
	Text  *string
	Score *int
}

// CommentPatch is a partial comment update.
type CommentPatch struct {
	Text *string
}

// ReviewService handles reviews and their comments. Every operation
// resolves the nested path (title, review, comment) and rejects ids that do
// not belong together.
type ReviewService struct {
	titles   repositories.TitleRepository
	reviews  repositories.ReviewRepository
	comments repositories.CommentRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	titles repositories.TitleRepository,
	reviews repositories.ReviewRepository,
	comments repositories.CommentRepository,
) *ReviewService {
	return &ReviewService{
		titles:   titles,
		reviews:  reviews,
		comments: comments,
	}
}

// ListReviews retrieves all reviews of a title.
func (s *ReviewService) ListReviews(titleID string) ([]models.Review, error) {
	if _, err := s.titles.GetByID(titleID); err != nil {
		return nil, err
	}
	return s.reviews.GetAllByTitle(titleID)
}

// GetReview retrieves one review under its title.
func (s *ReviewService) GetReview(titleID, reviewID string) (*models.Review, error) {
	review, err := s.reviews.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review.TitleID != titleID {
		return nil, apperrors.NewNotFound("review", reviewID)
	}
	return review, nil
}

// CreateReview posts a review for the title. The score bounds are checked
// before the one-review-per-title rule, and the storage unique index backs
// that rule up under concurrent creates.
func (s *ReviewService) CreateReview(titleID, authorID string, input ReviewInput) (*models.Review, error) {
	if err := validateScore(input.Score); err != nil {
		return nil, err
	}
	if _, err := s.titles.GetByID(titleID); err != nil {
		return nil, err
	}
	exists, err := s.reviews.ExistsByTitleAndAuthor(titleID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewValidation("review", "only one review per title is permitted")
	}
	review := &models.Review{
		TitleID:  titleID,
		AuthorID: authorID,
		Text:     input.Text,
		Score:    input.Score,
		PubDate:  time.Now(),
	}
	if err := s.reviews.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// UpdateReview applies a patch to a review. The publication date is set at
// creation and never touched.
func (s *ReviewService) UpdateReview(titleID, reviewID string, patch ReviewPatch) (*models.Review, error) {
	review, err := s.GetReview(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if patch.Score != nil {
		if err := validateScore(*patch.Score); err != nil {
			return nil, err
		}
		review.Score = *patch.Score
	}
	if patch.Text != nil {
		review.Text = *patch.Text
	}
	if err := s.reviews.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes a review and, through the store's cascade, its
// comments.
func (s *ReviewService) DeleteReview(titleID, reviewID string) error {
	if _, err := s.GetReview(titleID, reviewID); err != nil {
		return err
	}
	return s.reviews.Delete(reviewID)
}

// ListComments retrieves all comments under a review.
func (s *ReviewService) ListComments(titleID, reviewID string) ([]models.Comment, error) {
	if _, err := s.GetReview(titleID, reviewID); err != nil {
		return nil, err
	}
	return s.comments.GetAllByReview(reviewID)
}

// GetComment retrieves one comment under its review and title.
func (s *ReviewService) GetComment(titleID, reviewID, commentID string) (*models.Comment, error) {
	if _, err := s.GetReview(titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	if comment.ReviewID != reviewID {
		return nil, apperrors.NewNotFound("comment", commentID)
	}
	return comment, nil
}

// CreateComment posts a comment under a review.
func (s *ReviewService) CreateComment(titleID, reviewID, authorID, text string) (*models.Comment, error) {
	if _, err := s.GetReview(titleID, reviewID); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: authorID,
		Text:     text,
		PubDate:  time.Now(),
	}
	if err := s.comments.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// UpdateComment applies a patch to a comment.
func (s *ReviewService) UpdateComment(titleID, reviewID, commentID string, patch CommentPatch) (*models.Comment, error) {
	comment, err := s.GetComment(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if patch.Text != nil {
		comment.Text = *patch.Text
	}
	if err := s.comments.Update(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment.
func (s *ReviewService) DeleteComment(titleID, reviewID, commentID string) error {
	if _, err := s.GetComment(titleID, reviewID, commentID); err != nil {
		return err
	}
	return s.comments.Delete(commentID)
}

// validateScore checks a review score against the inclusive 1..10 range.
func validateScore(score int) error {
	if score < models.ScoreMin || score > models.ScoreMax {
		return apperrors.NewValidation("score",
			fmt.Sprintf("score must be between %d and %d", models.ScoreMin, models.ScoreMax))
	}
	return nil
}
