// internal/domain/balance.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// Balance is a user's spendable main-account funds in their preferred currency.
// Exactly one row exists per user and the amount never goes negative; both are
// enforced by the schema and by the services mutating it under row locks.
type Balance struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"` // NUMERIC(20, 4) in DB
	Currency  string          `db:"currency" json:"currency"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// NewBalance creates a zero balance for a user.
func NewBalance(userID int64, currency string) *Balance {
	now := time.Now().UTC()
	return &Balance{
		UserID:    userID,
		Amount:    decimal.Zero,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
