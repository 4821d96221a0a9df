package repositories

import "kritika/internal/models"

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	GetAllByTitle(titleID string) ([]models.Review, error)
	GetByID(id string) (*models.Review, error)
	Create(review *models.Review) error
	Update(review *models.Review) error
	Delete(id string) error
	ExistsByTitleAndAuthor(titleID, authorID string) (bool, error)
	// AverageScore returns the mean score over a title's reviews, or nil
	// when the title has none.
	AverageScore(titleID string) (*float64, error)
	// AverageScores returns mean scores keyed by title ID; titles without
	// reviews are absent from the map.
	AverageScores(titleIDs []string) (map[string]float64, error)
}

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	GetAllByReview(reviewID string) ([]models.Comment, error)
	GetByID(id string) (*models.Comment, error)
	Create(comment *models.Comment) error
	Update(comment *models.Comment) error
	Delete(id string) error
}
