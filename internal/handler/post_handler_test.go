package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/storefront-api/internal/auth"
	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/internal/service"
)

const testPostID = "3c9e1f7a-5b2d-4e8c-a6f0-2d4b6c8e0a13"

func TestListPopular_PassesLimit(t *testing.T) {
	svcs := newTestServices()
	svcs.post.listPopularFn = func(ctx context.Context, limit int) ([]model.BlogPost, error) {
		assert.Equal(t, 50, limit, "capping is the service's job")
		return []model.BlogPost{{Slug: "a", Views: 9}, {Slug: "b", Views: 3}}, nil
	}
	app := setupTestApp(svcs, asAdmin)

	resp := doJSON(t, app, http.MethodGet, "/api/blog/popular?limit=50", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var posts []model.BlogPost
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	assert.Len(t, posts, 2)
}

func TestListFeatured_DefaultLimit(t *testing.T) {
	svcs := newTestServices()
	svcs.post.listFeaturedFn = func(ctx context.Context, limit int) ([]model.BlogPost, error) {
		assert.Equal(t, 0, limit)
		return []model.BlogPost{{Slug: "a", Featured: true}}, nil
	}
	app := setupTestApp(svcs, asAdmin)

	resp := doJSON(t, app, http.MethodGet, "/api/blog/featured", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestListPopular_ServiceError(t *testing.T) {
	svcs := newTestServices()
	svcs.post.listPopularFn = func(context.Context, int) ([]model.BlogPost, error) {
		return nil, errors.New("publish due posts: connection reset")
	}
	app := setupTestApp(svcs, asAdmin)

	resp := doJSON(t, app, http.MethodGet, "/api/blog/popular", "")
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal server error", decodeError(t, resp))
}

func TestGetPost(t *testing.T) {
	svcs := newTestServices()
	svcs.post.getBySlugFn = func(ctx context.Context, slug string) (*model.BlogPost, error) {
		if slug != "hello-world" {
			return nil, service.ErrPostNotFound
		}
		return &model.BlogPost{Slug: slug, Status: model.PostPublished, IsPublished: true, Views: 4}, nil
	}
	app := setupTestApp(svcs, asAdmin)

	resp := doJSON(t, app, http.MethodGet, "/api/blog/hello-world", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "published", body["status"])
	assert.Equal(t, true, body["isPublished"])

	resp = doJSON(t, app, http.MethodGet, "/api/blog/draft-post", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "post not found", decodeError(t, resp))
}

func TestLikePost(t *testing.T) {
	svcs := newTestServices()
	svcs.post.likeFn = func(ctx context.Context, slug string) (int, error) {
		assert.Equal(t, "hello-world", slug)
		return 8, nil
	}
	app := setupTestApp(svcs, asAdmin)

	resp := doJSON(t, app, http.MethodPost, "/api/blog/hello-world/like", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body model.LikeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 8, body.Likes)
}

func TestCreatePost_Success(t *testing.T) {
	svcs := newTestServices()
	svcs.post.createFn = func(ctx context.Context, p auth.Principal, req *model.CreatePostRequest) (*model.BlogPost, error) {
		assert.Equal(t, admin, p)
		if assert.NotNil(t, req.ScheduledAt) {
			assert.True(t, req.ScheduledAt.Equal(time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)))
		}
		return &model.BlogPost{ID: testPostID, Slug: req.Slug, Status: model.PostScheduled, ScheduledAt: req.ScheduledAt}, nil
	}
	app := setupTestApp(svcs, asAdmin)

	body := `{"slug":"summer-launch","title":"Summer launch","content":"Body","status":"scheduled","scheduledAt":"2026-06-01T08:00:00Z"}`
	resp := doJSON(t, app, http.MethodPost, "/api/admin/blog", body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var post model.BlogPost
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
	assert.Equal(t, model.PostScheduled, post.Status)
}

func TestCreatePost_Validation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{"bad slug", `{"slug":"Hello World","title":"T","content":"B","status":"draft"}`, "invalid request: slug must be lowercase words separated by hyphens"},
		{"missing title", `{"slug":"hello","content":"B","status":"draft"}`, "invalid request: title is required"},
		{"bad status", `{"slug":"hello","title":"T","content":"B","status":"archived"}`, "invalid request: status must be one of [draft scheduled published]"},
		{"bad cover", `{"slug":"hello","title":"T","content":"B","status":"draft","coverImage":"not a url"}`, "invalid request: coverImage must be a valid URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupTestApp(newTestServices(), asAdmin)

			resp := doJSON(t, app, http.MethodPost, "/api/admin/blog", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.wantError, decodeError(t, resp))
		})
	}
}

func TestCreatePost_SlugTaken(t *testing.T) {
	svcs := newTestServices()
	svcs.post.createFn = func(context.Context, auth.Principal, *model.CreatePostRequest) (*model.BlogPost, error) {
		return nil, service.ErrPostSlugExists
	}
	app := setupTestApp(svcs, asAdmin)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/blog", `{"slug":"hello","title":"T","content":"B","status":"draft"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "post slug already exists", decodeError(t, resp))
}

func TestSetPostStatus(t *testing.T) {
	svcs := newTestServices()
	svcs.post.setStatusFn = func(ctx context.Context, p auth.Principal, id string, req *model.UpdatePostStatusRequest) (*model.BlogPost, error) {
		assert.Equal(t, testPostID, id)
		if req.Status == "scheduled" && req.ScheduledAt == nil {
			return nil, service.ErrInvalidRequest
		}
		return &model.BlogPost{ID: id, Status: model.PostStatus(req.Status)}, nil
	}
	app := setupTestApp(svcs, asAdmin)

	resp := doJSON(t, app, http.MethodPatch, "/api/admin/blog/"+testPostID+"/status", `{"status":"published"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPatch, "/api/admin/blog/"+testPostID+"/status", `{"status":"scheduled"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request", decodeError(t, resp))
}
