package handlers

import (
	"regexp"

	"kritika/internal/middleware"
	"kritika/internal/models"
	"kritika/internal/permissions"
	"kritika/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// CatalogHandler handles HTTP requests for categories and genres: open
// reads, admin-only writes, idempotent deletes by slug.
type CatalogHandler struct {
	catalogService *services.CatalogService
	validate       *validator.Validate
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	validate := validator.New()
	_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return &CatalogHandler{
		catalogService: catalogService,
		validate:       validate,
	}
}

// RegisterRoutes registers the category and genre routes with the Fiber
// app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleListCategories)
	categoryRoutes.Post("/", h.HandleCreateCategory)
	categoryRoutes.Delete("/:slug", h.HandleDeleteCategory)

	genreRoutes := router.Group("/genres")
	genreRoutes.Get("/", h.HandleListGenres)
	genreRoutes.Post("/", h.HandleCreateGenre)
	genreRoutes.Delete("/:slug", h.HandleDeleteGenre)
}

// ReferenceRequest is the creation body shared by categories and genres.
type ReferenceRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

// HandleListCategories lists all categories. Open to anyone.
func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.catalogService.ListCategories()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

// HandleCreateCategory creates a category. Admin only.
func (h *CatalogHandler) HandleCreateCategory(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AdminOrReadOnly(caller, c.Method()) {
		return denied(c, caller)
	}
	var req ReferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}
	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := h.catalogService.CreateCategory(category); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleDeleteCategory removes a category by slug. Admin only; an absent
// slug is already satisfied.
func (h *CatalogHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AdminOrReadOnly(caller, c.Method()) {
		return denied(c, caller)
	}
	if err := h.catalogService.DeleteCategory(c.Params("slug")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListGenres lists all genres. Open to anyone.
func (h *CatalogHandler) HandleListGenres(c *fiber.Ctx) error {
	genres, err := h.catalogService.ListGenres()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(genres)
}

// HandleCreateGenre creates a genre. Admin only.
func (h *CatalogHandler) HandleCreateGenre(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AdminOrReadOnly(caller, c.Method()) {
		return denied(c, caller)
	}
	var req ReferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}
	genre := &models.Genre{Name: req.Name, Slug: req.Slug}
	if err := h.catalogService.CreateGenre(genre); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(genre)
}

// HandleDeleteGenre removes a genre by slug. Admin only; an absent slug is
// already satisfied.
func (h *CatalogHandler) HandleDeleteGenre(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AdminOrReadOnly(caller, c.Method()) {
		return denied(c, caller)
	}
	if err := h.catalogService.DeleteGenre(c.Params("slug")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
