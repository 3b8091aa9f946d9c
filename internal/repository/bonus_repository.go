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

const bonusColumns = `id, phone, full_name, available_bonuses, total_bonuses, used_bonuses, created_at, updated_at`

// BonusRepository provides data access for bonus accounts using pgx.
type BonusRepository struct {
	db database.DBTX
}

// NewBonusRepository creates a new BonusRepository.
func NewBonusRepository(db database.DBTX) *BonusRepository {
	return &BonusRepository{db: db}
}

// ListAll returns every bonus account. Phones are stored as entered, so
// matching by normalized digits happens in the caller.
func (r *BonusRepository) ListAll(ctx context.Context) ([]model.BonusAccount, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bonusColumns+` FROM bonus_accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list bonus accounts: %w", err)
	}
	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.BonusAccount, error) {
		var acc model.BonusAccount
		err := scanBonusAccount(row, &acc)
		return acc, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan bonus accounts: %w", err)
	}
	return accounts, nil
}

// UpdateName sets the holder name of an account.
// Returns service.ErrBonusAccountNotFound if the account is gone.
func (r *BonusRepository) UpdateName(ctx context.Context, id, fullName string, at time.Time) (*model.BonusAccount, error) {
	query := `UPDATE bonus_accounts SET full_name = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + bonusColumns
	return r.updateOne(ctx, query, service.ErrBonusAccountNotFound, id, fullName, at)
}

// Accrue adds amount to both the available and the lifetime totals.
func (r *BonusRepository) Accrue(ctx context.Context, id string, amount int, at time.Time) (*model.BonusAccount, error) {
	query := `UPDATE bonus_accounts
		SET available_bonuses = available_bonuses + $2,
		    total_bonuses = total_bonuses + $2,
		    updated_at = $3
		WHERE id = $1
		RETURNING ` + bonusColumns
	return r.updateOne(ctx, query, service.ErrBonusAccountNotFound, id, amount, at)
}

// Redeem moves amount from available to used. The balance check is part of
// the UPDATE, so concurrent redemptions cannot overdraw an account.
// Returns service.ErrInsufficientBonuses when no row qualifies.
func (r *BonusRepository) Redeem(ctx context.Context, id string, amount int, at time.Time) (*model.BonusAccount, error) {
	query := `UPDATE bonus_accounts
		SET available_bonuses = available_bonuses - $2,
		    used_bonuses = used_bonuses + $2,
		    updated_at = $3
		WHERE id = $1 AND available_bonuses >= $2
		RETURNING ` + bonusColumns
	return r.updateOne(ctx, query, service.ErrInsufficientBonuses, id, amount, at)
}

func (r *BonusRepository) updateOne(ctx context.Context, query string, noRows error, args ...any) (*model.BonusAccount, error) {
	var acc model.BonusAccount
	if err := scanBonusAccount(r.db.QueryRow(ctx, query, args...), &acc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, noRows
		}
		return nil, fmt.Errorf("update bonus account %v: %w", args[0], err)
	}
	return &acc, nil
}

func scanBonusAccount(row pgx.Row, acc *model.BonusAccount) error {
	return row.Scan(
		&acc.ID,
		&acc.Phone,
		&acc.FullName,
		&acc.AvailableBonuses,
		&acc.TotalBonuses,
		&acc.UsedBonuses,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
}
