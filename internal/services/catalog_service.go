package services

import (
	"errors"
	"math"
	"time"

	"kritika/internal/apperrors"
	"kritika/internal/models"
	"kritika/internal/repositories"
)

// TitleInput is the payload for title creation.
type TitleInput struct {
	Name         string
	Year         int
	Description  string
	CategorySlug string
	GenreSlugs   []string
}

// TitlePatch is a partial title update; nil fields are left untouched.
type TitlePatch struct {
	Name         *string
	Year         *int
	Description  *string
	CategorySlug *string
	GenreSlugs   *[]string
}

// RatedTitle is a title together with its read-time rating projection. The
// rating is recomputed from the review scores on every read and is absent
// when the title has no reviews.
type RatedTitle struct {
	models.Title
	Rating *float64 `json:"rating,omitempty"`
}

// CatalogService handles categories, genres and titles.
type CatalogService struct {
	categories repositories.CategoryRepository
	genres     repositories.GenreRepository
	titles     repositories.TitleRepository
	reviews    repositories.ReviewRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	categories repositories.CategoryRepository,
	genres repositories.GenreRepository,
	titles repositories.TitleRepository,
	reviews repositories.ReviewRepository,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		genres:     genres,
		titles:     titles,
		reviews:    reviews,
	}
}

// ListCategories retrieves all categories.
func (s *CatalogService) ListCategories() ([]models.Category, error) {
	return s.categories.GetAll()
}

// CreateCategory creates a new category.
func (s *CatalogService) CreateCategory(category *models.Category) error {
	return s.categories.Create(category)
}

// DeleteCategory removes a category by slug. Deleting a slug that does not
// exist is already satisfied, not an error.
func (s *CatalogService) DeleteCategory(slug string) error {
	return swallowNotFound(s.categories.DeleteBySlug(slug))
}

// ListGenres retrieves all genres.
func (s *CatalogService) ListGenres() ([]models.Genre, error) {
	return s.genres.GetAll()
}

// CreateGenre creates a new genre.
func (s *CatalogService) CreateGenre(genre *models.Genre) error {
	return s.genres.Create(genre)
}

// DeleteGenre removes a genre by slug, idempotently.
func (s *CatalogService) DeleteGenre(slug string) error {
	return swallowNotFound(s.genres.DeleteBySlug(slug))
}

// ListTitles retrieves all titles with their ratings projected in a single
// grouped query.
func (s *CatalogService) ListTitles() ([]RatedTitle, error) {
	titles, err := s.titles.GetAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(titles))
	for i, t := range titles {
		ids[i] = t.ID
	}
	averages, err := s.reviews.AverageScores(ids)
	if err != nil {
		return nil, err
	}
	rated := make([]RatedTitle, len(titles))
	for i, t := range titles {
		rated[i] = RatedTitle{Title: t}
		if avg, ok := averages[t.ID]; ok {
			rated[i].Rating = roundRating(avg)
		}
	}
	return rated, nil
}

// GetTitle retrieves a single title with its rating projected.
func (s *CatalogService) GetTitle(id string) (*RatedTitle, error) {
	title, err := s.titles.GetByID(id)
	if err != nil {
		return nil, err
	}
	avg, err := s.reviews.AverageScore(id)
	if err != nil {
		return nil, err
	}
	rated := &RatedTitle{Title: *title}
	if avg != nil {
		rated.Rating = roundRating(*avg)
	}
	return rated, nil
}

// CreateTitle creates a title from its input, resolving the category slug
// and genre slugs.
func (s *CatalogService) CreateTitle(input TitleInput) (*models.Title, error) {
	if err := validateYear(input.Year); err != nil {
		return nil, err
	}
	if input.CategorySlug == "" {
		return nil, apperrors.NewValidation("category", "category is required")
	}
	category, err := s.categories.GetBySlug(input.CategorySlug)
	if err != nil {
		return nil, asFieldValidation(err, "category")
	}
	genres, err := s.genres.GetBySlugs(input.GenreSlugs)
	if err != nil {
		return nil, asFieldValidation(err, "genre")
	}
	title := &models.Title{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		CategoryID:  category.ID,
		Category:    *category,
		Genres:      genres,
	}
	if err := s.titles.Create(title); err != nil {
		return nil, err
	}
	return title, nil
}

// UpdateTitle applies a patch to an existing title.
func (s *CatalogService) UpdateTitle(id string, patch TitlePatch) (*models.Title, error) {
	title, err := s.titles.GetByID(id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		title.Name = *patch.Name
	}
	if patch.Year != nil {
		if err := validateYear(*patch.Year); err != nil {
			return nil, err
		}
		title.Year = *patch.Year
	}
	if patch.Description != nil {
		title.Description = *patch.Description
	}
	if patch.CategorySlug != nil {
		category, err := s.categories.GetBySlug(*patch.CategorySlug)
		if err != nil {
			return nil, asFieldValidation(err, "category")
		}
		title.CategoryID = category.ID
		title.Category = *category
	}
	if patch.GenreSlugs != nil {
		genres, err := s.genres.GetBySlugs(*patch.GenreSlugs)
		if err != nil {
			return nil, asFieldValidation(err, "genre")
		}
		title.Genres = genres
	}
	if err := s.titles.Update(title); err != nil {
		return nil, err
	}
	return title, nil
}

// DeleteTitle removes a title; its reviews and their comments cascade away.
func (s *CatalogService) DeleteTitle(id string) error {
	return s.titles.Delete(id)
}

// validateYear checks the release year against the wall clock: positive and
// no later than the current calendar year.
func validateYear(year int) error {
	if year <= 0 {
		return apperrors.NewValidation("year", "year must be positive")
	}
	if year > time.Now().Year() {
		return apperrors.NewValidation("year", "year cannot be in the future")
	}
	return nil
}

// roundRating rounds a mean score to one decimal for display.
func roundRating(avg float64) *float64 {
	rounded := math.Round(avg*10) / 10
	return &rounded
}

// swallowNotFound makes a delete idempotent.
func swallowNotFound(err error) error {
	var nf *apperrors.NotFoundError
	if errors.As(err, &nf) {
		return nil
	}
	return err
}

// asFieldValidation downgrades a missing reference to input validation: a
// bad slug in a request body is the client's mistake, not a missing
// resource.
func asFieldValidation(err error, field string) error {
	var nf *apperrors.NotFoundError
	if errors.As(err, &nf) {
		return apperrors.NewValidation(field, nf.Error())
	}
	return err
}
