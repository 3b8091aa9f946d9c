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

// PostServiceInterface defines the interface for blog business logic.
type PostServiceInterface interface {
	ListPopular(ctx context.Context, limit int) ([]model.BlogPost, error)
	ListFeatured(ctx context.Context, limit int) ([]model.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
	Like(ctx context.Context, slug string) (int, error)
	Create(ctx context.Context, p auth.Principal, req *model.CreatePostRequest) (*model.BlogPost, error)
	SetStatus(ctx context.Context, p auth.Principal, id string, req *model.UpdatePostStatusRequest) (*model.BlogPost, error)
}

// PostHandler handles HTTP requests for the blog.
type PostHandler struct {
	service   PostServiceInterface
	validator *validator.Validate
}

// NewPostHandler creates a new PostHandler with the given service and validator.
func NewPostHandler(svc PostServiceInterface, v *validator.Validate) *PostHandler {
	return &PostHandler{service: svc, validator: v}
}

// ListPopular handles GET /api/blog/popular.
func (h *PostHandler) ListPopular(c *fiber.Ctx) error {
	posts, err := h.service.ListPopular(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err, "failed to list popular posts")
	}
	return c.JSON(nonNilPosts(posts))
}

// ListFeatured handles GET /api/blog/featured.
func (h *PostHandler) ListFeatured(c *fiber.Ctx) error {
	posts, err := h.service.ListFeatured(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err, "failed to list featured posts")
	}
	return c.JSON(nonNilPosts(posts))
}

// GetBySlug handles GET /api/blog/:slug.
func (h *PostHandler) GetBySlug(c *fiber.Ctx) error {
	post, err := h.service.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return respondError(c, err, "failed to get post")
	}
	return c.JSON(post)
}

// Like handles POST /api/blog/:slug/like.
func (h *PostHandler) Like(c *fiber.Ctx) error {
	likes, err := h.service.Like(c.Context(), c.Params("slug"))
	if err != nil {
		return respondError(c, err, "failed to like post")
	}
	return c.JSON(model.LikeResponse{Likes: likes})
}

// Create handles POST /api/admin/blog.
func (h *PostHandler) Create(c *fiber.Ctx) error {
	var req model.CreatePostRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	post, err := h.service.Create(c.Context(), middleware.PrincipalFrom(c), &req)
	if err != nil {
		return respondError(c, err, "failed to create post")
	}

	log.Info().
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("slug", post.Slug).
		Str("status", string(post.Status)).
		Msg("post created")
	return c.Status(fiber.StatusCreated).JSON(post)
}

// SetStatus handles PATCH /api/admin/blog/:id/status.
func (h *PostHandler) SetStatus(c *fiber.Ctx) error {
	var req model.UpdatePostStatusRequest
	if ok, err := bindAndValidate(c, h.validator, &req); !ok {
		return err
	}

	post, err := h.service.SetStatus(c.Context(), middleware.PrincipalFrom(c), c.Params("id"), &req)
	if err != nil {
		return respondError(c, err, "failed to update post status")
	}

	log.Info().
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("post_id", post.ID).
		Str("status", string(post.Status)).
		Msg("post status updated")
	return c.JSON(post)
}

// nonNilPosts keeps empty listings encoded as [] rather than null.
func nonNilPosts(posts []model.BlogPost) []model.BlogPost {
	if posts == nil {
		return []model.BlogPost{}
	}
	return posts
}
