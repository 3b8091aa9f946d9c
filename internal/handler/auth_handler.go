package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/fairyhunter13/storefront-api/internal/model"
)

// AuthServiceInterface defines the interface for admin login.
type AuthServiceInterface interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
}

// AuthHandler handles admin login.
type AuthHandler struct {
	service   AuthServiceInterface
	validator *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given service and validator.
func NewAuthHandler(svc AuthServiceInterface, v *validator.Validate) *AuthHandler {
	return &AuthHandler{service: svc, validator: v}
}

// Login handles POST /api/admin/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	resp, err := h.service.Login(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "failed to log in")
	}
	return c.JSON(resp)
}
