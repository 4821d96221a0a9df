package handlers

import (
	"errors"
	"fmt"
	"log"

	"kritika/internal/apperrors"
	"kritika/internal/permissions"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error onto the response taxonomy:
// validation 400, conflict 409, not-found 404, authorization 401/403,
// anything else 500.
func respondError(c *fiber.Ctx, err error) error {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  ve.Fields,
		})
	}
	var ce *apperrors.ConflictError
	if errors.As(err, &ce) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": ce.Message,
		})
	}
	var nf *apperrors.NotFoundError
	if errors.As(err, &nf) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": nf.Error(),
		})
	}
	var ae *apperrors.AuthorizationError
	if errors.As(err, &ae) {
		status := fiber.StatusUnauthorized
		if ae.Authenticated {
			status = fiber.StatusForbidden
		}
		return c.Status(status).JSON(fiber.Map{
			"message": ae.Message,
		})
	}
	log.Printf("Unhandled error for %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}

// respondBadBody is the reply to an unparsable request body.
func respondBadBody(c *fiber.Ctx, err error) error {
	log.Printf("Error parsing request body for %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// respondValidation builds the field-level error map for struct validation
// failures.
func respondValidation(c *fiber.Ctx, err error) error {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// denied is the reply to a failed permission predicate: 401 for anonymous
// callers, 403 for authenticated ones. Object existence is not hidden
// since reads are generally open.
func denied(c *fiber.Ctx, caller *permissions.Caller) error {
	if caller == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"message": "You do not have permission to perform this action",
	})
}
