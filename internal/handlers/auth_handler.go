package handlers

import (
	"log"

	"kritika/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for the signup/confirmation flow.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/token", h.HandleToken)
}

// SignupRequest represents the request body for signup.
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

// HandleSignup requests a confirmation code for the (username, email)
// pair. The code travels by mail only; the response merely echoes the
// identity back.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	user, err := h.authService.RequestSignup(req.Username, req.Email)
	if err != nil {
		log.Printf("Error during signup for user %s: %v", req.Username, err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"username": user.Username,
		"email":    user.Email,
	})
}

// TokenRequest represents the request body for the code-for-token
// exchange.
type TokenRequest struct {
	Username         string `json:"username" validate:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

// HandleToken exchanges a confirmation code for an access token.
func (h *AuthHandler) HandleToken(c *fiber.Ctx) error {
	var req TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	token, err := h.authService.ConfirmSignup(req.Username, req.ConfirmationCode)
	if err != nil {
		log.Printf("Error confirming signup for user %s: %v", req.Username, err)
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
	})
}
