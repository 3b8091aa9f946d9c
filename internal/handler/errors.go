package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/storefront-api/internal/service"
)

// statusFor maps service sentinels onto HTTP statuses. Unknown errors map to 0.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrInvalidStatus):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrBonusAccountNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrPostNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrAmbiguousPhone), errors.Is(err, service.ErrPostSlugExists):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrInsufficientBonuses):
		return fiber.StatusUnprocessableEntity
	default:
		return 0
	}
}

// respondError writes the error body for err. Unexpected errors are logged
// with the request context and hidden behind a generic 500.
func respondError(c *fiber.Ctx, err error, msg string) error {
	if status := statusFor(err); status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	log.Error().Err(err).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg(msg)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// badRequest writes a 400 with msg.
func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// formatValidationError converts the first validator error into a message
// naming the JSON field.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "invalid request"
	}
	fe := ve[0]
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("invalid request: %s is required", field)
	case "notblank":
		return fmt.Sprintf("invalid request: %s cannot be whitespace only", field)
	case "max":
		return fmt.Sprintf("invalid request: %s exceeds maximum length of %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("invalid request: %s must be at least %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("invalid request: %s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("invalid request: %s must be one of [%s]", field, fe.Param())
	case "phone":
		return fmt.Sprintf("invalid request: %s is not a valid phone number", field)
	case "slug":
		return fmt.Sprintf("invalid request: %s must be lowercase words separated by hyphens", field)
	case "url":
		return fmt.Sprintf("invalid request: %s must be a valid URL", field)
	default:
		return fmt.Sprintf("invalid request: %s is invalid", field)
	}
}

// bindAndValidate parses the JSON body into req and validates it, writing
// the 400 response itself when either step fails.
func bindAndValidate(c *fiber.Ctx, v *validator.Validate, req any) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, badRequest(c, "invalid request body")
	}
	if err := v.Struct(req); err != nil {
		return false, badRequest(c, formatValidationError(err))
	}
	return true, nil
}
