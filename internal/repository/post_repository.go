package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/internal/service"
	"github.com/fairyhunter13/storefront-api/pkg/database"
)

const postColumns = `id, slug, title, excerpt, content, cover_image, status, is_published,
	scheduled_at, published_at, likes, views, featured, created_at, updated_at`

// visiblePost is the single definition of public visibility. Rows without a
// status predate the column and are visible when flagged as published.
const visiblePost = `(status = 'published' OR (status IS NULL AND is_published))`

// PostRepository provides data access for blog posts using pgx.
type PostRepository struct {
	db database.DBTX
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(db database.DBTX) *PostRepository {
	return &PostRepository{db: db}
}

// PublishDue promotes every scheduled post due at or before now. The
// published time becomes the scheduled time, so repeated runs are no-ops.
func (r *PostRepository) PublishDue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE blog_posts
		SET status = 'published', is_published = TRUE, published_at = scheduled_at, updated_at = $1
		WHERE status = 'scheduled' AND scheduled_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("publish due posts: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListPopular returns visible posts by views, then likes.
func (r *PostRepository) ListPopular(ctx context.Context, limit int) ([]model.BlogPost, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM blog_posts
		WHERE `+visiblePost+`
		ORDER BY views DESC, likes DESC, published_at DESC NULLS LAST, id
		LIMIT $1`, limit)
}

// ListFeatured returns visible featured posts, most recently published first.
func (r *PostRepository) ListFeatured(ctx context.Context, limit int) ([]model.BlogPost, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM blog_posts
		WHERE featured AND `+visiblePost+`
		ORDER BY published_at DESC NULLS LAST, id
		LIMIT $1`, limit)
}

// IncrementLikes adds one like to a visible post and returns the new total.
// Returns service.ErrPostNotFound if no visible post has the slug.
func (r *PostRepository) IncrementLikes(ctx context.Context, slug string) (int, error) {
	var likes int
	err := r.db.QueryRow(ctx,
		`UPDATE blog_posts SET likes = likes + 1 WHERE slug = $1 AND `+visiblePost+` RETURNING likes`,
		slug).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, service.ErrPostNotFound
		}
		return 0, fmt.Errorf("increment likes for %s: %w", slug, err)
	}
	return likes, nil
}

// IncrementViews counts a view on a visible post and returns the post.
// Returns service.ErrPostNotFound if no visible post has the slug.
func (r *PostRepository) IncrementViews(ctx context.Context, slug string) (*model.BlogPost, error) {
	query := `UPDATE blog_posts SET views = views + 1 WHERE slug = $1 AND ` + visiblePost + ` RETURNING ` + postColumns
	return r.getOne(ctx, query, slug)
}

// Insert stores a new post.
// Returns service.ErrPostSlugExists if the slug is already taken.
func (r *PostRepository) Insert(ctx context.Context, post *model.BlogPost) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO blog_posts (id, slug, title, excerpt, content, cover_image, status, is_published,
			scheduled_at, published_at, featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		post.ID, post.Slug, post.Title, post.Excerpt, post.Content, post.CoverImage,
		string(post.Status), post.IsPublished, post.ScheduledAt, post.PublishedAt,
		post.Featured, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrPostSlugExists
		}
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// UpdateStatus writes a new publication state. Legacy rows get an explicit
// status from here on. Publishing a post that is already visible keeps its
// original published_at.
// Returns service.ErrPostNotFound if no post has the id.
func (r *PostRepository) UpdateStatus(ctx context.Context, id string, state model.PublicationState, at time.Time) (*model.BlogPost, error) {
	query := `UPDATE blog_posts
		SET status = $2, is_published = $3, scheduled_at = $4,
			published_at = CASE WHEN $3 AND ` + visiblePost + ` THEN COALESCE(published_at, $5) ELSE $5 END,
			updated_at = $6
		WHERE id = $1
		RETURNING ` + postColumns
	return r.getOne(ctx, query, id, string(state.Status), state.IsPublished, state.ScheduledAt, state.PublishedAt, at)
}

func (r *PostRepository) list(ctx context.Context, query string, args ...any) ([]model.BlogPost, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	posts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.BlogPost, error) {
		var post model.BlogPost
		err := scanPost(row, &post)
		return post, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) getOne(ctx context.Context, query string, args ...any) (*model.BlogPost, error) {
	var post model.BlogPost
	if err := scanPost(r.db.QueryRow(ctx, query, args...), &post); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post %v: %w", args[0], err)
	}
	return &post, nil
}

// scanPost reads a row and resolves its status, so callers never see the
// raw nullable column.
func scanPost(row pgx.Row, post *model.BlogPost) error {
	var status *string
	if err := row.Scan(
		&post.ID,
		&post.Slug,
		&post.Title,
		&post.Excerpt,
		&post.Content,
		&post.CoverImage,
		&status,
		&post.IsPublished,
		&post.ScheduledAt,
		&post.PublishedAt,
		&post.Likes,
		&post.Views,
		&post.Featured,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return err
	}
	post.Status = model.ResolvePostStatus(status, post.IsPublished)
	return nil
}
