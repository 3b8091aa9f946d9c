package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/internal/service"
	"github.com/fairyhunter13/storefront-api/pkg/database"
)

const reviewColumns = `id, phone, content, status, created_at, reviewed_at`

// ReviewRepository provides data access for reviews using pgx.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new ReviewRepository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Insert stores a new review.
func (r *ReviewRepository) Insert(ctx context.Context, review *model.Review) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO reviews (id, phone, content, status, created_at, reviewed_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		review.ID, review.Phone, review.Content, string(review.Status), review.CreatedAt, review.ReviewedAt)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// UpdateStatus records a moderation decision.
// Returns service.ErrReviewNotFound if no review has the id.
func (r *ReviewRepository) UpdateStatus(ctx context.Context, id string, status model.ReviewStatus, reviewedAt time.Time) (*model.Review, error) {
	query := `UPDATE reviews SET status = $2, reviewed_at = $3 WHERE id = $1 RETURNING ` + reviewColumns

	var review model.Review
	if err := scanReview(r.db.QueryRow(ctx, query, id, string(status), reviewedAt), &review); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrReviewNotFound
		}
		return nil, fmt.Errorf("update review %s: %w", id, err)
	}
	return &review, nil
}

// Delete removes a review. Returns service.ErrReviewNotFound if nothing was deleted.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrReviewNotFound
	}
	return nil
}

// List returns reviews newest first. An empty status lists every review.
func (r *ReviewRepository) List(ctx context.Context, status model.ReviewStatus, limit, offset int) ([]model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews
		WHERE $1::text = '' OR status = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	reviews, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Review, error) {
		var review model.Review
		err := scanReview(row, &review)
		return review, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan reviews: %w", err)
	}
	return reviews, nil
}

// Counts returns the number of reviews matching status (all when empty)
// and the number of pending reviews, in one round trip.
func (r *ReviewRepository) Counts(ctx context.Context, status model.ReviewStatus) (total, pending int, err error) {
	query := `SELECT
		count(*) FILTER (WHERE $1::text = '' OR status = $1),
		count(*) FILTER (WHERE status = 'pending')
		FROM reviews`

	if err := r.db.QueryRow(ctx, query, string(status)).Scan(&total, &pending); err != nil {
		return 0, 0, fmt.Errorf("count reviews: %w", err)
	}
	return total, pending, nil
}

func scanReview(row pgx.Row, review *model.Review) error {
	var status string
	if err := row.Scan(
		&review.ID,
		&review.Phone,
		&review.Content,
		&status,
		&review.CreatedAt,
		&review.ReviewedAt,
	); err != nil {
		return err
	}
	review.Status = model.ReviewStatus(status)
	return nil
}
