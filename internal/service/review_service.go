package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/fairyhunter13/storefront-api/internal/auth"
	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/internal/phone"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100

	// maxPage keeps (page-1)*limit inside a 32-bit OFFSET.
	maxPage = math.MaxInt32 / maxPageLimit

	minReviewLength = 10
	maxReviewLength = 1000
	maxPhoneLength  = 32
)

// ReviewRepositoryInterface defines the interface for review data access.
type ReviewRepositoryInterface interface {
	Insert(ctx context.Context, review *model.Review) error
	UpdateStatus(ctx context.Context, id string, status model.ReviewStatus, reviewedAt time.Time) (*model.Review, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, status model.ReviewStatus, limit, offset int) ([]model.Review, error)
	Counts(ctx context.Context, status model.ReviewStatus) (total, pending int, err error)
}

// ReviewService runs the review moderation workflow.
//
// A review starts pending and is moved to approved or rejected by an admin.
// Moderating an already moderated review is accepted and overwrites the
// previous decision and its timestamp.
type ReviewService struct {
	repo  ReviewRepositoryInterface
	now   func() time.Time
	newID func() string
}

// NewReviewService creates a new ReviewService with the given repository.
func NewReviewService(repo ReviewRepositoryInterface) *ReviewService {
	return &ReviewService{repo: repo, now: time.Now, newID: uuid.NewString}
}

// Submit stores a new pending review.
func (s *ReviewService) Submit(ctx context.Context, req *model.CreateReviewRequest) (*model.Review, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	content := strings.TrimSpace(req.Content)
	if n := utf8.RuneCountInString(content); n < minReviewLength || n > maxReviewLength {
		return nil, ErrInvalidRequest
	}
	phoneNumber := strings.TrimSpace(req.Phone)
	if phone.Normalize(phoneNumber) == "" || len(phoneNumber) > maxPhoneLength {
		return nil, ErrInvalidRequest
	}

	review := &model.Review{
		ID:        s.newID(),
		Phone:     phoneNumber,
		Content:   content,
		Status:    model.ReviewPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, review); err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	return review, nil
}

// Moderate moves a review to approved or rejected and stamps reviewedAt.
// Returns:
//   - ErrInvalidStatus if status is not approved or rejected (storage untouched)
//   - ErrReviewNotFound if id does not resolve to a review
func (s *ReviewService) Moderate(ctx context.Context, p auth.Principal, id, status string) (*model.Review, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	target, ok := model.ParseReviewStatus(status)
	if !ok || !target.IsModerationTarget() {
		return nil, ErrInvalidStatus
	}
	if !validID(id) {
		return nil, ErrReviewNotFound
	}

	review, err := s.repo.UpdateStatus(ctx, id, target, s.now().UTC())
	if err != nil {
		if errors.Is(err, ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("update review status: %w", err)
	}
	return review, nil
}

// Delete removes a review regardless of its status.
func (s *ReviewService) Delete(ctx context.Context, p auth.Principal, id string) error {
	if !p.IsAdmin() {
		return ErrForbidden
	}
	if !validID(id) {
		return ErrReviewNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// List returns one page of reviews for the back-office. The pending count
// covers all reviews whatever the filter.
func (s *ReviewService) List(ctx context.Context, p auth.Principal, filter model.ReviewFilter) (*model.ReviewPage, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	status, err := parseFilterStatus(filter.Status)
	if err != nil {
		return nil, err
	}
	page, limit := normalizePage(filter.Page, filter.Limit)

	total, pending, err := s.repo.Counts(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}
	reviews, err := s.repo.List(ctx, status, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return &model.ReviewPage{
		Reviews:      reviews,
		PendingCount: pending,
		Pagination:   model.NewPagination(page, limit, total),
	}, nil
}

// ListApproved returns one page of approved reviews with masked phones.
func (s *ReviewService) ListApproved(ctx context.Context, page, limit int) (*model.PublicReviewPage, error) {
	page, limit = normalizePage(page, limit)

	total, _, err := s.repo.Counts(ctx, model.ReviewApproved)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}
	reviews, err := s.repo.List(ctx, model.ReviewApproved, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	for i := range reviews {
		reviews[i].Phone = phone.Mask(reviews[i].Phone)
	}

	return &model.PublicReviewPage{
		Reviews:    reviews,
		Pagination: model.NewPagination(page, limit, total),
	}, nil
}

// parseFilterStatus accepts "", "all" or a known status.
func parseFilterStatus(s model.ReviewStatus) (model.ReviewStatus, error) {
	if s == "" || s == "all" {
		return "", nil
	}
	st, ok := model.ParseReviewStatus(string(s))
	if !ok {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
