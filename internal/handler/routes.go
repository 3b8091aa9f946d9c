package handler

import "github.com/gofiber/fiber/v2"

// Handlers groups the route handlers of the storefront API.
type Handlers struct {
	Health *HealthHandler
	Bonus  *BonusHandler
	Review *ReviewHandler
	Post   *PostHandler
	Auth   *AuthHandler
}

// RegisterRoutes mounts every route. Admin routes sit behind adminGuard.
func RegisterRoutes(app fiber.Router, h Handlers, adminGuard fiber.Handler) {
	app.Get("/health", h.Health.Check)

	api := app.Group("/api")

	// Blog: fixed paths before the slug catch-all.
	api.Get("/blog/popular", h.Post.ListPopular)
	api.Get("/blog/featured", h.Post.ListFeatured)
	api.Get("/blog/:slug", h.Post.GetBySlug)
	api.Post("/blog/:slug/like", h.Post.Like)

	api.Get("/bonuses/:phone", h.Bonus.GetBonuses)

	api.Post("/reviews", h.Review.Submit)
	api.Get("/reviews", h.Review.ListApproved)

	api.Post("/admin/login", h.Auth.Login)

	admin := api.Group("/admin", adminGuard)
	admin.Get("/reviews", h.Review.List)
	admin.Patch("/reviews/:id", h.Review.Moderate)
	admin.Delete("/reviews/:id", h.Review.Delete)
	admin.Put("/bonuses/name", h.Bonus.UpdateName)
	admin.Post("/bonuses/adjust", h.Bonus.Adjust)
	admin.Post("/blog", h.Post.Create)
	admin.Patch("/blog/:id/status", h.Post.SetStatus)
}
