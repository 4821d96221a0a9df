package repositories

import (
	"errors"
	"fmt"

	"kritika/internal/apperrors"
	"kritika/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

// GetAll retrieves all categories ordered by name.
func (r *GORMCategoryRepository) GetAll() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get all categories: %w", err)
	}
	return categories, nil
}

// GetBySlug retrieves a single category by its slug.
func (r *GORMCategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("category", slug)
		}
		return nil, fmt.Errorf("failed to get category %s: %w", slug, err)
	}
	return &category, nil
}

// Create creates a new category in the database.
func (r *GORMCategoryRepository) Create(category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := r.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflict(fmt.Sprintf("category with slug %q already exists", category.Slug))
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// DeleteBySlug removes a category by its slug.
func (r *GORMCategoryRepository) DeleteBySlug(slug string) error {
	res := r.db.Delete(&models.Category{}, "slug = ?", slug)
	if res.Error != nil {
		return fmt.Errorf("failed to delete category %s: %w", slug, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("category", slug)
	}
	return nil
}

// GORMGenreRepository is a GORM implementation of GenreRepository.
type GORMGenreRepository struct {
	db *gorm.DB
}

// NewGORMGenreRepository creates a new instance of GORMGenreRepository.
func NewGORMGenreRepository(db *gorm.DB) *GORMGenreRepository {
	return &GORMGenreRepository{db: db}
}

// GetAll retrieves all genres ordered by name.
func (r *GORMGenreRepository) GetAll() ([]models.Genre, error) {
	var genres []models.Genre
	if err := r.db.Order("name").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to get all genres: %w", err)
	}
	return genres, nil
}

// GetBySlug retrieves a single genre by its slug.
func (r *GORMGenreRepository) GetBySlug(slug string) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.First(&genre, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("genre", slug)
		}
		return nil, fmt.Errorf("failed to get genre %s: %w", slug, err)
	}
	return &genre, nil
}

// GetBySlugs retrieves the genres named by slugs. A slug with no matching
// genre yields a not-found error naming that slug.
func (r *GORMGenreRepository) GetBySlugs(slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var genres []models.Genre
	if err := r.db.Where("slug IN ?", slugs).Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to get genres by slugs: %w", err)
	}
	found := make(map[string]bool, len(genres))
	for _, g := range genres {
		found[g.Slug] = true
	}
	for _, slug := range slugs {
		if !found[slug] {
			return nil, apperrors.NewNotFound("genre", slug)
		}
	}
	return genres, nil
}

// Create creates a new genre in the database.
func (r *GORMGenreRepository) Create(genre *models.Genre) error {
	if genre.ID == "" {
		genre.ID = uuid.New().String()
	}
	if err := r.db.Create(genre).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflict(fmt.Sprintf("genre with slug %q already exists", genre.Slug))
		}
		return fmt.Errorf("failed to create genre: %w", err)
	}
	return nil
}

// DeleteBySlug removes a genre by its slug.
func (r *GORMGenreRepository) DeleteBySlug(slug string) error {
	res := r.db.Delete(&models.Genre{}, "slug = ?", slug)
	if res.Error != nil {
		return fmt.Errorf("failed to delete genre %s: %w", slug, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("genre", slug)
	}
	return nil
}

// GORMTitleRepository is a GORM implementation of TitleRepository.
type GORMTitleRepository struct {
	db *gorm.DB
}

// NewGORMTitleRepository creates a new instance of GORMTitleRepository.
func NewGORMTitleRepository(db *gorm.DB) *GORMTitleRepository {
	return &GORMTitleRepository{db: db}
}

// GetAll retrieves all titles with their category and genres preloaded.
func (r *GORMTitleRepository) GetAll() ([]models.Title, error) {
	var titles []models.Title
	err := r.db.Preload("Category").Preload("Genres").Order("name").Find(&titles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all titles: %w", err)
	}
	return titles, nil
}

// GetByID retrieves a single title by its ID with associations preloaded.
func (r *GORMTitleRepository) GetByID(id string) (*models.Title, error) {
	var title models.Title
	err := r.db.Preload("Category").Preload("Genres").First(&title, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("title", id)
		}
		return nil, fmt.Errorf("failed to get title by ID %s: %w", id, err)
	}
	return &title, nil
}

// Create creates a new title together with its genre join rows.
func (r *GORMTitleRepository) Create(title *models.Title) error {
	if title.ID == "" {
		title.ID = uuid.New().String()
	}
	if err := r.db.Create(title).Error; err != nil {
		return fmt.Errorf("failed to create title: %w", err)
	}
	return nil
}

// Update saves the title's fields and replaces its genre associations.
func (r *GORMTitleRepository) Update(title *models.Title) error {
	res := r.db.Omit("Genres", "Category").Save(title)
	if res.Error != nil {
		return fmt.Errorf("failed to update title: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("title", title.ID)
	}
	if err := r.db.Model(title).Association("Genres").Replace(title.Genres); err != nil {
		return fmt.Errorf("failed to update title genres: %w", err)
	}
	return nil
}

// Delete removes a title by its ID. Dependent reviews, comments and join
// rows go with it through the store's cascade rules.
func (r *GORMTitleRepository) Delete(id string) error {
	res := r.db.Delete(&models.Title{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete title %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("title", id)
	}
	return nil
}
