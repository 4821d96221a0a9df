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

// CommentHandler handles HTTP requests for comments, nested under a
// title's review. Same policy shape as reviews.
type CommentHandler struct {
	reviewService *services.ReviewService
	validate      *validator.Validate
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(reviewService *services.ReviewService) *CommentHandler {
	return &CommentHandler{
		reviewService: reviewService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the comment routes with the Fiber app.
func (h *CommentHandler) RegisterRoutes(router fiber.Router) {
	commentRoutes := router.Group("/titles/:titleID/reviews/:reviewID/comments")
	commentRoutes.Get("/", h.HandleListComments)
	commentRoutes.Post("/", h.HandleCreateComment)
	commentRoutes.Get("/:commentID", h.HandleGetComment)
	commentRoutes.Patch("/:commentID", h.HandlePatchComment)
	commentRoutes.Delete("/:commentID", h.HandleDeleteComment)
}

// CommentResponse is the wire shape of a comment.
type CommentResponse struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func newCommentResponse(comment *models.Comment, author string) CommentResponse {
	if author == "" {
		author = comment.Author.Username
	}
	return CommentResponse{
		ID:      comment.ID,
		Text:    comment.Text,
		Author:  author,
		PubDate: comment.PubDate,
	}
}

// CommentRequest represents the comment creation body.
type CommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// CommentPatchRequest represents a partial comment update.
type CommentPatchRequest struct {
	Text *string `json:"text"`
}

// HandleListComments lists all comments under a review. Open to anyone.
func (h *CommentHandler) HandleListComments(c *fiber.Ctx) error {
	comments, err := h.reviewService.ListComments(c.Params("titleID"), c.Params("reviewID"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]CommentResponse, len(comments))
	for i := range comments {
		out[i] = newCommentResponse(&comments[i], "")
	}
	return c.JSON(out)
}

// HandleGetComment returns one comment. Open to anyone.
func (h *CommentHandler) HandleGetComment(c *fiber.Ctx) error {
	comment, err := h.reviewService.GetComment(
		c.Params("titleID"), c.Params("reviewID"), c.Params("commentID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newCommentResponse(comment, ""))
}

// HandleCreateComment posts a comment under a review. Any authenticated
// caller.
func (h *CommentHandler) HandleCreateComment(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AuthorModeratorAdminOrReadOnly(caller, c.Method()) {
		return denied(c, caller)
	}
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}
	comment, err := h.reviewService.CreateComment(
		c.Params("titleID"), c.Params("reviewID"), caller.ID, req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newCommentResponse(comment, caller.Username))
}

// HandlePatchComment updates a comment: author, moderator, admin or
// superuser.
func (h *CommentHandler) HandlePatchComment(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AuthorModeratorAdminOrReadOnly(caller, c.Method()) {
		return denied(c, caller)
	}
	comment, err := h.reviewService.GetComment(
		c.Params("titleID"), c.Params("reviewID"), c.Params("commentID"))
	if err != nil {
		return respondError(c, err)
	}
	if !permissions.AuthorModeratorAdminOrReadOnlyObject(caller, c.Method(), comment.AuthorID) {
		return denied(c, caller)
	}
	var req CommentPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}
	updated, err := h.reviewService.UpdateComment(
		c.Params("titleID"), c.Params("reviewID"), c.Params("commentID"),
		services.CommentPatch{Text: req.Text})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newCommentResponse(updated, ""))
}

// HandleDeleteComment removes a comment: author, moderator, admin or
// superuser.
func (h *CommentHandler) HandleDeleteComment(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AuthorModeratorAdminOrReadOnly(caller, c.Method()) {
		return denied(c, caller)
	}
	comment, err := h.reviewService.GetComment(
		c.Params("titleID"), c.Params("reviewID"), c.Params("commentID"))
	if err != nil {
		return respondError(c, err)
	}
	if !permissions.AuthorModeratorAdminOrReadOnlyObject(caller, c.Method(), comment.AuthorID) {
		return denied(c, caller)
	}
	if err := h.reviewService.DeleteComment(
		c.Params("titleID"), c.Params("reviewID"), c.Params("commentID")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
