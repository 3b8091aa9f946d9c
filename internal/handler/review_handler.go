package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/storefront-api/internal/auth"
	"github.com/fairyhunter13/storefront-api/internal/middleware"
	"github.com/fairyhunter13/storefront-api/internal/model"
)

// ReviewServiceInterface defines the interface for review business logic.
type ReviewServiceInterface interface {
	Submit(ctx context.Context, req *model.CreateReviewRequest) (*model.Review, error)
	Moderate(ctx context.Context, p auth.Principal, id, status string) (*model.Review, error)
	Delete(ctx context.Context, p auth.Principal, id string) error
	List(ctx context.Context, p auth.Principal, filter model.ReviewFilter) (*model.ReviewPage, error)
	ListApproved(ctx context.Context, page, limit int) (*model.PublicReviewPage, error)
}

// ReviewHandler handles HTTP requests for customer reviews.
type ReviewHandler struct {
	service   ReviewServiceInterface
	validator *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler with the given service and validator.
func NewReviewHandler(svc ReviewServiceInterface, v *validator.Validate) *ReviewHandler {
	return &ReviewHandler{service: svc, validator: v}
}

// Submit handles POST /api/reviews. New reviews wait for moderation.
func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
	var req model.CreateReviewRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	review, err := h.service.Submit(c.Context(), &req)
	if err != nil {
		return respondError(c, err, "failed to submit review")
	}

	log.Info().
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("review_id", review.ID).
		Msg("review submitted")
	return c.Status(fiber.StatusCreated).JSON(review)
}

// ListApproved handles GET /api/reviews.
func (h *ReviewHandler) ListApproved(c *fiber.Ctx) error {
	page, err := h.service.ListApproved(c.Context(), c.QueryInt("page", 1), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err, "failed to list approved reviews")
	}
	return c.JSON(page)
}

// List handles GET /api/admin/reviews.
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	filter := model.ReviewFilter{
		Status: model.ReviewStatus(c.Query("status")),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 0),
	}

	page, err := h.service.List(c.Context(), middleware.PrincipalFrom(c), filter)
	if err != nil {
		return respondError(c, err, "failed to list reviews")
	}
	return c.JSON(page)
}

// Moderate handles PATCH /api/admin/reviews/:id.
func (h *ReviewHandler) Moderate(c *fiber.Ctx) error {
	var req model.ModerateReviewRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	id := c.Params("id")
	review, err := h.service.Moderate(c.Context(), middleware.PrincipalFrom(c), id, req.Status)
	if err != nil {
		return respondError(c, err, "failed to moderate review")
	}

	log.Info().
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("review_id", id).
		Str("status", string(review.Status)).
		Msg("review moderated")
	return c.JSON(review)
}

// Delete handles DELETE /api/admin/reviews/:id.
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.Context(), middleware.PrincipalFrom(c), id); err != nil {
		return respondError(c, err, "failed to delete review")
	}

	log.Info().
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("review_id", id).
		Msg("review deleted")
	return c.JSON(fiber.Map{"success": true})
}
