package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/storefront-api/internal/auth"
)

const principalKey = "principal"

// TokenVerifier validates a bearer token and returns its principal.
type TokenVerifier interface {
	Verify(token string) (auth.Principal, error)
}

// RequireAdmin rejects requests without a valid admin bearer token and
// stores the principal for handlers to pass into the services.
func RequireAdmin(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return unauthorized(c, "missing authorization header")
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return unauthorized(c, "invalid authorization header format")
		}

		p, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			log.Debug().Err(err).
				Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
				Str("path", c.Path()).
				Msg("admin token rejected")
			return unauthorized(c, "invalid or expired token")
		}
		if !p.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}

		SetPrincipal(c, p)
		return c.Next()
	}
}

// SetPrincipal attaches p to the request.
func SetPrincipal(c *fiber.Ctx, p auth.Principal) {
	c.Locals(principalKey, p)
}

// PrincipalFrom returns the principal attached by RequireAdmin, or the zero
// principal, which no admin operation accepts.
func PrincipalFrom(c *fiber.Ctx) auth.Principal {
	p, _ := c.Locals(principalKey).(auth.Principal)
	return p
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}
