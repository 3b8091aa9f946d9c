package model

import (
	"strings"
	"time"
)

// ReviewStatus is the moderation state of a review.
// pending is the only non-terminal state.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// ParseReviewStatus maps a raw value onto a known status.
func ParseReviewStatus(s string) (ReviewStatus, bool) {
	switch st := ReviewStatus(strings.TrimSpace(s)); st {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return st, true
	default:
		return "", false
	}
}

// IsModerationTarget reports whether a review may be moved into s.
func (s ReviewStatus) IsModerationTarget() bool {
	return s == ReviewApproved || s == ReviewRejected
}

// Review is a customer review awaiting or past moderation.
// ReviewedAt is set if and only if Status is not pending.
type Review struct {
	ID         string       `json:"id"`
	Phone      string       `json:"phone"`
	Content    string       `json:"content"`
	Status     ReviewStatus `json:"status"`
	CreatedAt  time.Time    `json:"createdAt"`
	ReviewedAt *time.Time   `json:"reviewedAt"`
}

// CreateReviewRequest is the DTO for POST /api/reviews.
type CreateReviewRequest struct {
	Phone   string `json:"phone" validate:"required,max=32,phone"`
	Content string `json:"content" validate:"required,notblank,min=10,max=1000"`
}

// ModerateReviewRequest is the DTO for PATCH /api/admin/reviews/:id.
// Status membership is checked by the service so storage is never reached
// with an unknown value.
type ModerateReviewRequest struct {
	Status string `json:"status" validate:"required"`
}

// ReviewFilter selects a page of reviews. An empty Status means all.
type ReviewFilter struct {
	Status ReviewStatus
	Page   int
	Limit  int
}

// Pagination is the offset pagination metadata returned with list pages.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination derives the total page count.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = total / limit
		if total%limit > 0 {
			totalPages++
		}
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// ReviewPage is the admin review listing response.
type ReviewPage struct {
	Reviews      []Review   `json:"reviews"`
	PendingCount int        `json:"pendingCount"`
	Pagination   Pagination `json:"pagination"`
}

// PublicReviewPage is the public listing of approved reviews.
type PublicReviewPage struct {
	Reviews    []Review   `json:"reviews"`
	Pagination Pagination `json:"pagination"`
}
