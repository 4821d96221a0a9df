package repositories

import "kritika/internal/models"

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetAll() ([]models.Category, error)
	GetBySlug(slug string) (*models.Category, error)
	Create(category *models.Category) error
	// DeleteBySlug removes a category; a missing slug is a not-found error,
	// which the service layer treats as already satisfied.
	DeleteBySlug(slug string) error
}

// GenreRepository defines the interface for genre data access.
type GenreRepository interface {
	GetAll() ([]models.Genre, error)
	GetBySlug(slug string) (*models.Genre, error)
	GetBySlugs(slugs []string) ([]models.Genre, error)
	Create(genre *models.Genre) error
	DeleteBySlug(slug string) error
}

// TitleRepository defines the interface for title data access. Reads
// preload the category and genre associations.
type TitleRepository interface {
	GetAll() ([]models.Title, error)
	GetByID(id string) (*models.Title, error)
	Create(title *models.Title) error
	Update(title *models.Title) error
	Delete(id string) error
}
