package handlers

import (
	"time"

	"kritika/internal/middleware"
	"kritika/internal/models"
	"kritika/internal/permissions"
	"kritika/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for reviews, nested under a title.
// Reads are open; creation needs any authenticated caller; mutation needs
// the author, a moderator or an admin.
type ReviewHandler struct {
	reviewService *services.ReviewService
	validate      *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the review routes with the Fiber app.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	reviewRoutes := router.Group("/titles/:titleID/reviews")
	reviewRoutes.Get("/", h.HandleListReviews)
	reviewRoutes.Post("/", h.HandleCreateReview)
	reviewRoutes.Get("/:reviewID", h.HandleGetReview)
	reviewRoutes.Patch("/:reviewID", h.HandlePatchReview)
	reviewRoutes.Delete("/:reviewID", h.HandleDeleteReview)
}

// ReviewResponse is the wire shape of a review; the author appears by
// username.
type ReviewResponse struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

func newReviewResponse(review *models.Review, author string) ReviewResponse {
	if author == "" {
		author = review.Author.Username
	}
	return ReviewResponse{
		ID:      review.ID,
		Text:    review.Text,
		Author:  author,
		Score:   review.Score,
		PubDate: review.PubDate,
	}
}

// ReviewCreateRequest represents the review creation body.
type ReviewCreateRequest struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"required"`
}

// ReviewPatchRequest represents a partial review update.
type ReviewPatchRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

// HandleListReviews lists all reviews of a title. Open to anyone.
func (h *ReviewHandler) HandleListReviews(c *fiber.Ctx) error {
	reviews, err := h.reviewService.ListReviews(c.Params("titleID"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		out[i] = newReviewResponse(&reviews[i], "")
	}
	return c.JSON(out)
}

// HandleGetReview returns one review. Open to anyone.
func (h *ReviewHandler) HandleGetReview(c *fiber.Ctx) error {
	review, err := h.reviewService.GetReview(c.Params("titleID"), c.Params("reviewID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newReviewResponse(review, ""))
}

// HandleCreateReview posts a review for the title. The coarse gate is all
// that applies here since the object does not exist yet.
func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AuthorModeratorAdminOrReadOnly(caller, c.Method()) {
		return denied(c, caller)
	}
	var req ReviewCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}
	review, err := h.reviewService.CreateReview(c.Params("titleID"), caller.ID, services.ReviewInput{
		Text:  req.Text,
		Score: req.Score,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newReviewResponse(review, caller.Username))
}

// HandlePatchReview updates a review: author, moderator, admin or
// superuser.
func (h *ReviewHandler) HandlePatchReview(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AuthorModeratorAdminOrReadOnly(caller, c.Method()) {
		return denied(c, caller)
	}
	review, err := h.reviewService.GetReview(c.Params("titleID"), c.Params("reviewID"))
	if err != nil {
		return respondError(c, err)
	}
	if !permissions.AuthorModeratorAdminOrReadOnlyObject(caller, c.Method(), review.AuthorID) {
		return denied(c, caller)
	}
	var req ReviewPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}
	updated, err := h.reviewService.UpdateReview(c.Params("titleID"), c.Params("reviewID"), services.ReviewPatch{
		Text:  req.Text,
		Score: req.Score,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newReviewResponse(updated, ""))
}

// HandleDeleteReview removes a review: author, moderator, admin or
// superuser.
func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AuthorModeratorAdminOrReadOnly(caller, c.Method()) {
		return denied(c, caller)
	}
	review, err := h.reviewService.GetReview(c.Params("titleID"), c.Params("reviewID"))
	if err != nil {
		return respondError(c, err)
	}
	if !permissions.AuthorModeratorAdminOrReadOnlyObject(caller, c.Method(), review.AuthorID) {
		return denied(c, caller)
	}
	if err := h.reviewService.DeleteReview(c.Params("titleID"), c.Params("reviewID")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
