package model

import "time"

// BonusAccount is a customer's bonus ledger row.
// Phone is the free-form display string as stored; identity is by its
// normalized digits, which are never persisted.
type BonusAccount struct {
	ID               string
	Phone            string
	FullName         *string
	AvailableBonuses int
	TotalBonuses     int
	UsedBonuses      int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Snapshot projects the account into its API shape.
func (a *BonusAccount) Snapshot() *BonusSnapshot {
	return &BonusSnapshot{
		Phone:            a.Phone,
		FullName:         a.FullName,
		AvailableBonuses: a.AvailableBonuses,
		TotalBonuses:     a.TotalBonuses,
		UsedBonuses:      a.UsedBonuses,
		UpdatedAt:        a.UpdatedAt,
	}
}

// BonusSnapshot is the API response for bonus lookups and mutations.
type BonusSnapshot struct {
	Phone            string    `json:"phone"`
	FullName         *string   `json:"fullName"`
	AvailableBonuses int       `json:"availableBonuses"`
	TotalBonuses     int       `json:"totalBonuses"`
	UsedBonuses      int       `json:"usedBonuses"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// BonusOperation is the kind of balance adjustment.
type BonusOperation string

const (
	BonusAccrue BonusOperation = "accrue"
	BonusRedeem BonusOperation = "redeem"
)

// UpdateBonusNameRequest is the DTO for PUT /api/admin/bonuses/name.
type UpdateBonusNameRequest struct {
	Phone    string `json:"phone" validate:"required,notblank,max=32"`
	FullName string `json:"fullName" validate:"required,notblank,max=255"`
}

// AdjustBonusRequest is the DTO for POST /api/admin/bonuses/adjust.
type AdjustBonusRequest struct {
	Phone     string `json:"phone" validate:"required,notblank,max=32"`
	Operation string `json:"operation" validate:"required,oneof=accrue redeem"`
	Amount    *int   `json:"amount" validate:"required,gte=1"`
}
