package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/storefront-api/internal/auth"
	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/internal/phone"
)

// BonusRepositoryInterface defines the interface for bonus account data access.
type BonusRepositoryInterface interface {
	ListAll(ctx context.Context) ([]model.BonusAccount, error)
	UpdateName(ctx context.Context, id, fullName string, at time.Time) (*model.BonusAccount, error)
	Accrue(ctx context.Context, id string, amount int, at time.Time) (*model.BonusAccount, error)
	Redeem(ctx context.Context, id string, amount int, at time.Time) (*model.BonusAccount, error)
}

// BonusService provides the bonus ledger lookup and its mutations.
//
// Lookups scan every account and compare normalized digits in memory, since
// the store holds display strings and has no index on the normalized form.
// Cost is linear in the number of accounts.
type BonusService struct {
	repo BonusRepositoryInterface
	now  func() time.Time
}

// NewBonusService creates a new BonusService with the given repository.
func NewBonusService(repo BonusRepositoryInterface) *BonusService {
	return &BonusService{repo: repo, now: time.Now}
}

// Lookup returns the balance snapshot of the account matching phoneNumber.
// Returns:
//   - ErrInvalidRequest if phoneNumber carries no digits
//   - ErrBonusAccountNotFound if no account matches
//   - ErrAmbiguousPhone if more than one account matches
func (s *BonusService) Lookup(ctx context.Context, phoneNumber string) (*model.BonusSnapshot, error) {
	acc, err := s.findByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	return acc.Snapshot(), nil
}

// UpdateName overwrites the full name of the account matching phoneNumber and
// returns the fresh snapshot. The stored display phone is kept as is.
func (s *BonusService) UpdateName(ctx context.Context, p auth.Principal, phoneNumber, fullName string) (*model.BonusSnapshot, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" || strings.TrimSpace(phoneNumber) == "" {
		return nil, ErrInvalidRequest
	}

	acc, err := s.findByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateName(ctx, acc.ID, fullName, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("update bonus name: %w", err)
	}
	return updated.Snapshot(), nil
}

// Adjust accrues or redeems amount bonuses on the account matching phoneNumber.
// Redemption fails with ErrInsufficientBonuses when the available balance is
// lower than amount; the check and the write are one statement.
func (s *BonusService) Adjust(ctx context.Context, p auth.Principal, phoneNumber string, op model.BonusOperation, amount int) (*model.BonusSnapshot, error) {
	if !p.IsAdmin() {
		return nil, ErrForbidden
	}
	if amount < 1 || (op != model.BonusAccrue && op != model.BonusRedeem) {
		return nil, ErrInvalidRequest
	}

	acc, err := s.findByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}

	var updated *model.BonusAccount
	switch op {
	case model.BonusAccrue:
		updated, err = s.repo.Accrue(ctx, acc.ID, amount, s.now().UTC())
	case model.BonusRedeem:
		updated, err = s.repo.Redeem(ctx, acc.ID, amount, s.now().UTC())
	}
	if err != nil {
		if errors.Is(err, ErrInsufficientBonuses) || errors.Is(err, ErrBonusAccountNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%s bonuses: %w", op, err)
	}
	return updated.Snapshot(), nil
}

// findByPhone resolves a free-form phone to exactly one account.
//
// An exact digit match always wins. Only when it finds nothing is a national
// trunk-prefix number (8XXXXXXXXXX) retried in its international form.
func (s *BonusService) findByPhone(ctx context.Context, phoneNumber string) (*model.BonusAccount, error) {
	digits := phone.Normalize(phoneNumber)
	if digits == "" {
		return nil, ErrInvalidRequest
	}

	accounts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bonus accounts: %w", err)
	}

	acc, err := matchDigits(accounts, digits)
	if !errors.Is(err, ErrBonusAccountNotFound) {
		return acc, err
	}

	alt, ok := phone.TrunkAlternate(digits)
	if !ok {
		return nil, err
	}
	acc, err = matchDigits(accounts, alt)
	if err == nil {
		log.Debug().Str("digits", digits).Str("matched_as", alt).Msg("bonus account matched via trunk prefix")
	}
	return acc, err
}

func matchDigits(accounts []model.BonusAccount, digits string) (*model.BonusAccount, error) {
	var found *model.BonusAccount
	for i := range accounts {
		if phone.Normalize(accounts[i].Phone) != digits {
			continue
		}
		if found != nil {
			return nil, ErrAmbiguousPhone
		}
		found = &accounts[i]
	}
	if found == nil {
		return nil, ErrBonusAccountNotFound
	}
	return found, nil
}
