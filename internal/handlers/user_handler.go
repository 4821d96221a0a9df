package handlers

import (
	"kritika/internal/middleware"
	"kritika/internal/permissions"
	"kritika/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles the administrative user endpoints and the caller's
// own /users/me profile.
type UserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app. The /me
// routes come first so the reserved name wins over the :username wildcard.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/me", h.HandleGetSelf)
	userRoutes.Patch("/me", h.HandlePatchSelf)
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Get("/:username", h.HandleGetUser)
	userRoutes.Patch("/:username", h.HandlePatchUser)
	userRoutes.Delete("/:username", h.HandleDeleteUser)
}

// UserCreateRequest represents the admin user-creation body.
type UserCreateRequest struct {
	Username  string `json:"username" validate:"required,max=150"`
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"omitempty,max=150"`
	LastName  string `json:"last_name" validate:"omitempty,max=150"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

// UserPatchRequest represents a partial user update; absent fields are
// left untouched.
type UserPatchRequest struct {
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

func (r UserPatchRequest) toPatch() services.UserPatch {
	return services.UserPatch{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Bio:       r.Bio,
		Role:      r.Role,
	}
}

// HandleGetSelf returns the caller's own profile.
func (h *UserHandler) HandleGetSelf(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if caller == nil {
		return denied(c, caller)
	}
	user, err := h.userService.GetSelf(caller)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// HandlePatchSelf updates the caller's own profile. Role changes by
// non-admins are silently dropped while the rest of the patch applies.
func (h *UserHandler) HandlePatchSelf(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if caller == nil {
		return denied(c, caller)
	}
	var req UserPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}
	user, err := h.userService.UpdateSelf(caller, req.toPatch())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// HandleListUsers lists all users. Admin only.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AdminOnly(caller) {
		return denied(c, caller)
	}
	users, err := h.userService.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// HandleCreateUser creates a user with an explicit role. Admin only.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AdminOnly(caller) {
		return denied(c, caller)
	}
	var req UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}
	user, err := h.userService.Create(services.UserInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      req.Role,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleGetUser returns one user by username. Admin only.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AdminOnly(caller) {
		return denied(c, caller)
	}
	user, err := h.userService.GetByUsername(c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// HandlePatchUser updates one user by username, role included. Admin only.
func (h *UserHandler) HandlePatchUser(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AdminOnly(caller) {
		return denied(c, caller)
	}
	var req UserPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}
	user, err := h.userService.Update(c.Params("username"), req.toPatch())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// HandleDeleteUser removes one user by username. Admin only.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	caller := middleware.CallerFromCtx(c)
	if !permissions.AdminOnly(caller) {
		return denied(c, caller)
	}
	if err := h.userService.Delete(c.Params("username")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
