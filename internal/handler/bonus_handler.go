package handler

import (
	"context"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/storefront-api/internal/auth"
	"github.com/fairyhunter13/storefront-api/internal/middleware"
	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/internal/phone"
)

// BonusServiceInterface defines the interface for bonus business logic.
type BonusServiceInterface interface {
	Lookup(ctx context.Context, phoneNumber string) (*model.BonusSnapshot, error)
	UpdateName(ctx context.Context, p auth.Principal, phoneNumber, fullName string) (*model.BonusSnapshot, error)
	Adjust(ctx context.Context, p auth.Principal, phoneNumber string, op model.BonusOperation, amount int) (*model.BonusSnapshot, error)
}

// BonusHandler handles HTTP requests for loyalty bonus accounts.
type BonusHandler struct {
	service   BonusServiceInterface
	validator *validator.Validate
}

// NewBonusHandler creates a new BonusHandler with the given service and validator.
func NewBonusHandler(svc BonusServiceInterface, v *validator.Validate) *BonusHandler {
	return &BonusHandler{service: svc, validator: v}
}

// GetBonuses handles GET /api/bonuses/:phone. The phone may be URL-encoded
// and formatted in any way.
func (h *BonusHandler) GetBonuses(c *fiber.Ctx) error {
	raw, err := url.PathUnescape(c.Params("phone"))
	if err != nil || raw == "" {
		return badRequest(c, "invalid request: phone is required")
	}

	snapshot, err := h.service.Lookup(c.Context(), raw)
	if err != nil {
		return respondError(c, err, "failed to look up bonuses")
	}
	return c.JSON(snapshot)
}

// UpdateName handles PUT /api/admin/bonuses/name.
func (h *BonusHandler) UpdateName(c *fiber.Ctx) error {
	var req model.UpdateBonusNameRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	snapshot, err := h.service.UpdateName(c.Context(), middleware.PrincipalFrom(c), req.Phone, req.FullName)
	if err != nil {
		return respondError(c, err, "failed to update bonus account name")
	}

	log.Info().
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("phone", phone.Mask(snapshot.Phone)).
		Msg("bonus account name updated")
	return c.JSON(snapshot)
}

// Adjust handles POST /api/admin/bonuses/adjust.
func (h *BonusHandler) Adjust(c *fiber.Ctx) error {
	var req model.AdjustBonusRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	op := model.BonusOperation(req.Operation)
	snapshot, err := h.service.Adjust(c.Context(), middleware.PrincipalFrom(c), req.Phone, op, *req.Amount)
	if err != nil {
		return respondError(c, err, "failed to adjust bonuses")
	}

	log.Info().
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("phone", phone.Mask(snapshot.Phone)).
		Str("operation", req.Operation).
		Int("amount", *req.Amount).
		Int("available_bonuses", snapshot.AvailableBonuses).
		Msg("bonuses adjusted")
	return c.JSON(snapshot)
}
