package model

import "time"

// PostStatus is the publication state of a blog post.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostScheduled PostStatus = "scheduled"
	PostPublished PostStatus = "published"
)

// ParsePostStatus maps a raw value onto a known status.
func ParsePostStatus(s string) (PostStatus, bool) {
	switch st := PostStatus(s); st {
	case PostDraft, PostScheduled, PostPublished:
		return st, true
	default:
		return "", false
	}
}

// ResolvePostStatus folds the stored status column and the legacy
// is_published flag into one explicit status. Rows written before the status
// column existed have it NULL and rely on the flag alone.
func ResolvePostStatus(stored *string, isPublished bool) PostStatus {
	if stored != nil && *stored != "" {
		return PostStatus(*stored)
	}
	if isPublished {
		return PostPublished
	}
	return PostDraft
}

// BlogPost is a blog article. Status is always the resolved status.
type BlogPost struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	CoverImage  string     `json:"coverImage"`
	Status      PostStatus `json:"status"`
	IsPublished bool       `json:"isPublished"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	PublishedAt *time.Time `json:"publishedAt"`
	Likes       int        `json:"likes"`
	Views       int        `json:"views"`
	Featured    bool       `json:"featured"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreatePostRequest is the DTO for POST /api/admin/blog.
type CreatePostRequest struct {
	Slug        string     `json:"slug" validate:"required,slug,max=255"`
	Title       string     `json:"title" validate:"required,notblank,max=500"`
	Excerpt     string     `json:"excerpt" validate:"max=1000"`
	Content     string     `json:"content" validate:"required,notblank"`
	CoverImage  string     `json:"coverImage" validate:"omitempty,url,max=2048"`
	Status      string     `json:"status" validate:"required,oneof=draft scheduled published"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Featured    bool       `json:"featured"`
}

// UpdatePostStatusRequest is the DTO for PATCH /api/admin/blog/:id/status.
type UpdatePostStatusRequest struct {
	Status      string     `json:"status" validate:"required,oneof=draft scheduled published"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

// LikeResponse is returned after a like.
type LikeResponse struct {
	Likes int `json:"likes"`
}

// PublicationState is the set of columns written together when a post's
// status changes.
type PublicationState struct {
	Status      PostStatus
	IsPublished bool
	ScheduledAt *time.Time
	PublishedAt *time.Time
}
