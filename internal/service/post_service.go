package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/storefront-api/internal/auth"
	"github.com/fairyhunter13/storefront-api/internal/model"
)

// PostRepositoryInterface defines the interface for blog post data access.
// Every listing and slug lookup it offers returns publicly visible posts only.
type PostRepositoryInterface interface {
	PublishDue(ctx context.Context, now time.Time) (int64, error)
	ListPopular(ctx context.Context, limit int) ([]model.BlogPost, error)
	ListFeatured(ctx context.Context, limit int) ([]model.BlogPost, error)
	IncrementLikes(ctx context.Context, slug string) (int, error)
	IncrementViews(ctx context.Context, slug string) (*model.BlogPost, error)
	Insert(ctx context.Context, post *model.BlogPost) error
	UpdateStatus(ctx context.Context, id string, state model.PublicationState, at time.Time) (*model.BlogPost, error)
}

// ListingLimits bounds the public listings. Max values are hard caps.
type ListingLimits struct {
	PopularDefault  int
	PopularMax      int
	FeaturedDefault int
	FeaturedMax     int
}

// PostService serves the blog and runs the scheduled publication gate.
//
// The gate is not a timer. Every public read first promotes scheduled posts
// whose time has come, so a due post is never missing from a listing.
type PostService struct {
	repo   PostRepositoryInterface
	limits ListingLimits
	now    func() time.Time
	newID  func() string
}

// NewPostService creates a new PostService with the given repository and limits.
func NewPostService(repo PostRepositoryInterface, limits ListingLimits) *PostService {
	return &PostService{repo: repo, limits: limits, now: time.Now, newID: uuid.NewString}
}

// PublishDue promotes scheduled posts due at or before now to published,
// with their published time set to the scheduled time. Running it again
// changes nothing.
func (s *PostService) PublishDue(ctx context.Context) (int64, error) {
	n, err := s.repo.PublishDue(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("publish due posts: %w", err)
	}
	if n > 0 {
		log.Info().Int64("count", n).Msg("scheduled posts published")
	}
	return n, nil
}

// ListPopular returns visible posts by views, then likes, both descending.
func (s *PostService) ListPopular(ctx context.Context, limit int) ([]model.BlogPost, error) {
	if _, err := s.PublishDue(ctx); err != nil {
		return nil, err
	}
	posts, err := s.repo.ListPopular(ctx, clampLimit(limit, s.limits.PopularDefault, s.limits.PopularMax))
	if err != nil {
		return nil, fmt.Errorf("list popular posts: %w", err)
	}
	return posts, nil
}

// ListFeatured returns visible featured posts, newest publication first.
func (s *PostService) ListFeatured(ctx context.Context, limit int) ([]model.BlogPost, error) {
	if _, err := s.PublishDue(ctx); err != nil {
		return nil, err
	}
	posts, err := s.repo.ListFeatured(ctx, clampLimit(limit, s.limits.FeaturedDefault, s.limits.FeaturedMax))
	if err != nil {
		return nil, fmt.Errorf("list featured posts: %w", err)
	}
	return posts, nil
}

// GetBySlug returns a visible post and counts the view.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, ErrPostNotFound
	}
	if _, err := s.PublishDue(ctx); err != nil {
		return nil, err
	}
	post, err := s.repo.IncrementViews(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post %s: %w", slug, err)
	}
	return post, nil
}

// Like increments the like counter of a visible post and returns the new count.
func (s *PostService) Like(ctx context.Context, slug string) (int, error) {
	if strings.TrimSpace(slug) == "" {
		return 0, ErrPostNotFound
	}
	if _, err := s.PublishDue(ctx); err != nil {
		return 0, err
	}
	likes, err := s.repo.IncrementLikes(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return 0, ErrPostNotFound
		}
		return 0, fmt.Errorf("like post %s: %w", slug, err)
	}
	return likes, nil
}

// Create stores a new post. Returns ErrPostSlugExists if the slug is taken.
func (s *PostService) Create(ctx context.Context, p auth.Principal, req *model.CreatePostRequest) (*model.BlogPost, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	if req == nil {
		return nil, ErrInvalidRequest
	}
	status, ok := model.ParsePostStatus(req.Status)
	if !ok {
		return nil, ErrInvalidStatus
	}
	now := s.now().UTC()
	state, err := publicationState(status, req.ScheduledAt, now)
	if err != nil {
		return nil, err
	}

	post := &model.BlogPost{
		ID:          s.newID(),
		Slug:        req.Slug,
		Title:       strings.TrimSpace(req.Title),
		Excerpt:     strings.TrimSpace(req.Excerpt),
		Content:     req.Content,
		CoverImage:  req.CoverImage,
		Status:      state.Status,
		IsPublished: state.IsPublished,
		ScheduledAt: state.ScheduledAt,
		PublishedAt: state.PublishedAt,
		Featured:    req.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, post); err != nil {
		if errors.Is(err, ErrPostSlugExists) {
			return nil, ErrPostSlugExists
		}
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return post, nil
}

// SetStatus applies a direct admin transition to a post.
func (s *PostService) SetStatus(ctx context.Context, p auth.Principal, id string, req *model.UpdatePostStatusRequest) (*model.BlogPost, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	if req == nil {
		return nil, ErrInvalidRequest
	}
	status, ok := model.ParsePostStatus(req.Status)
	if !ok {
		return nil, ErrInvalidStatus
	}
	if !validID(id) {
		return nil, ErrPostNotFound
	}
	now := s.now().UTC()
	state, err := publicationState(status, req.ScheduledAt, now)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.UpdateStatus(ctx, id, state, now)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("update post status: %w", err)
	}
	return post, nil
}

// publicationState derives the stored columns for a target status.
// A scheduled post needs a time; a past time is published by the next sweep.
func publicationState(status model.PostStatus, scheduledAt *time.Time, now time.Time) (model.PublicationState, error) {
	switch status {
	case model.PostDraft:
		return model.PublicationState{Status: model.PostDraft}, nil
	case model.PostScheduled:
		if scheduledAt == nil || scheduledAt.IsZero() {
			return model.PublicationState{}, ErrInvalidRequest
		}
		at := scheduledAt.UTC()
		return model.PublicationState{Status: model.PostScheduled, ScheduledAt: &at}, nil
	case model.PostPublished:
		return model.PublicationState{Status: model.PostPublished, IsPublished: true, PublishedAt: &now}, nil
	default:
		return model.PublicationState{}, ErrInvalidStatus
	}
}

func clampLimit(requested, def, max int) int {
	if requested < 1 {
		return def
	}
	if requested > max {
		return max
	}
	return requested
}
