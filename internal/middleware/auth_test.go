package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/storefront-api/internal/auth"
)

// mockVerifier is a mock implementation of TokenVerifier.
type mockVerifier struct {
	verifyFn func(token string) (auth.Principal, error)
}

func (m *mockVerifier) Verify(token string) (auth.Principal, error) {
	if m.verifyFn != nil {
		return m.verifyFn(token)
	}
	return auth.Principal{}, errors.New("no verifier")
}

func setupAuthApp(v TokenVerifier) *fiber.App {
	app := fiber.New()
	app.Get("/admin", RequireAdmin(v), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"subject": PrincipalFrom(c).Subject})
	})
	return app
}

func TestRequireAdmin_ValidToken(t *testing.T) {
	v := &mockVerifier{
		verifyFn: func(token string) (auth.Principal, error) {
			assert.Equal(t, "good-token", token)
			return auth.Principal{Subject: "admin", Role: auth.RoleAdmin}, nil
		},
	}
	app := setupAuthApp(v)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "admin", body["subject"])
}

func TestRequireAdmin_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifyFn   func(string) (auth.Principal, error)
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing header",
			wantStatus: fiber.StatusUnauthorized,
			wantError:  "missing authorization header",
		},
		{
			name:       "wrong scheme",
			header:     "Basic YWRtaW46cHc=",
			wantStatus: fiber.StatusUnauthorized,
			wantError:  "invalid authorization header format",
		},
		{
			name:       "empty token",
			header:     "Bearer ",
			wantStatus: fiber.StatusUnauthorized,
			wantError:  "invalid authorization header format",
		},
		{
			name:   "invalid token",
			header: "Bearer expired",
			verifyFn: func(string) (auth.Principal, error) {
				return auth.Principal{}, auth.ErrInvalidToken
			},
			wantStatus: fiber.StatusUnauthorized,
			wantError:  "invalid or expired token",
		},
		{
			name:   "not an admin",
			header: "bearer editor-token",
			verifyFn: func(string) (auth.Principal, error) {
				return auth.Principal{Subject: "bob", Role: "editor"}, nil
			},
			wantStatus: fiber.StatusForbidden,
			wantError:  "forbidden",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupAuthApp(&mockVerifier{verifyFn: tt.verifyFn})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestPrincipalFrom_Unset(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		p := PrincipalFrom(c)
		assert.False(t, p.IsAdmin())
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestRequireAdmin_WithTokenManager(t *testing.T) {
	tm := auth.NewTokenManager("0123456789abcdef0123", time.Hour)
	token, _, err := tm.Issue("admin", auth.RoleAdmin)
	require.NoError(t, err)
	app := setupAuthApp(tm)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	other := auth.NewTokenManager("another-secret-of-enough-length", time.Hour)
	forged, _, err := other.Issue("admin", auth.RoleAdmin)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
