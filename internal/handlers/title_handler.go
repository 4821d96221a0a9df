package handlers

import (
	"kritika/internal/middleware"
	"kritika/internal/permissions"
	"kritika/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// TitleHandler handles HTTP requests for titles: open reads with the
// computed rating, admin-only writes.
type TitleHandler struct {
	catalogService *services.CatalogService
	validate       *validator.Validate
}

// NewTitleHandler creates a new TitleHandler.
func NewTitleHandler(catalogService *services.CatalogService) *TitleHandler {
	return &TitleHandler{
		catalogService: catalogService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the title routes with the Fiber app.
func (h *TitleHandler) RegisterRoutes(router fiber.Router) {
	titleRoutes := router.Group("/titles")
	titleRoutes.Get("/", h.HandleListTitles)
	titleRoutes.Get("/:id", h.HandleGetTitle)
	titleRoutes.Post("/", h.HandleCreateTitle)
	titleRoutes.Patch("/:id", h.HandlePatchTitle)
	titleRoutes.Delete("/:id", h.HandleDeleteTitle)
}

// TitleCreateRequest represents the title creation body. Category and
// genres are referenced by slug.
type TitleCreateRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Year        int      `json:"year" validate:"required"`
	Description string   `json:"description" validate:"omitempty,max=255"`
	Category    string   `json:"category" validate:"required"`
	Genre       []string `json:"genre" validate:"omitempty,dive,required"`
}

// TitlePatchRequest represents a partial title update.
type TitlePatchRequest struct {
	Name        *string   `json:"name" validate:"omitempty,max=255"`
	Year        *int      `json:"year"`
	Description *string   `json:"description" validate:"omitempty,max=255"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

// HandleListTitles lists all titles with their ratings. Open to anyone.
func (h *TitleHandler) HandleListTitles(c *fiber.Ctx) error {
	titles, err := h.catalogService.ListTitles()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(titles)
}

// HandleGetTitle returns one title with its rating. Open to anyone.
func (h *TitleHandler) HandleGetTitle(c *fiber.Ctx) error {
	title, err := h.catalogService.GetTitle(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(title)
}

// HandleCreateTitle creates a title. Admin only.
func (h *TitleHandler) HandleCreateTitle(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AdminOrReadOnly(caller, c.Method()) {
		return denied(c, caller)
	}
	var req TitleCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}
	title, err := h.catalogService.CreateTitle(services.TitleInput{
		Name:         req.Name,
		Year:         req.Year,
		Description:  req.Description,
		CategorySlug: req.Category,
		GenreSlugs:   req.Genre,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(title)
}

// HandlePatchTitle updates a title. Admin only.
func (h *TitleHandler) HandlePatchTitle(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AdminOrReadOnly(caller, c.Method()) {
		return denied(c, caller)
	}
	var req TitlePatchRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}
	title, err := h.catalogService.UpdateTitle(c.Params("id"), services.TitlePatch{
		Name:         req.Name,
		Year:         req.Year,
		Description:  req.Description,
		CategorySlug: req.Category,
		GenreSlugs:   req.Genre,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(title)
}

// HandleDeleteTitle removes a title. Admin only. Its reviews and their
// comments go with it.
func (h *TitleHandler) HandleDeleteTitle(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AdminOrReadOnly(caller, c.Method()) {
		return denied(c, caller)
	}
	if err := h.catalogService.DeleteTitle(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
