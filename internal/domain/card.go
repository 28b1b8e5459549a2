// internal/domain/card.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserCard is a virtual card with its own sub-balance, funded from and
// defundable to the main Balance. Sub-balance changes always mirror an equal,
// opposite change on the main balance within one database transaction.
type UserCard struct {
	ID         int64           `db:"id" json:"id"`
	UserID     int64           `db:"user_id" json:"user_id"`
	CardNumber string          `db:"card_number" json:"card_number"`
	ExpiryDate string          `db:"expiry_date" json:"expiry_date"` // MM/YY
	CVV        string          `db:"cvv" json:"-"`
	Balance    decimal.Decimal `db:"balance" json:"balance"`
	Currency   string          `db:"currency" json:"currency"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// CardTransactionType distinguishes the two directions of card cash movement.
type CardTransactionType string

const (
	CardTransactionAddCash CardTransactionType = "ADD_CASH"
	CardTransactionCashOut CardTransactionType = "CASH_OUT"
)

// CardTransaction is the audit row written alongside every card cash movement.
type CardTransaction struct {
	ID        int64               `db:"id" json:"id"`
	CardID    int64               `db:"card_id" json:"card_id"`
	UserID    int64               `db:"user_id" json:"user_id"`
	Amount    decimal.Decimal     `db:"amount" json:"amount"`
	Type      CardTransactionType `db:"type" json:"type"`
	CreatedAt time.Time           `db:"created_at" json:"created_at"`
}

// LinkedCard is stored funding-source metadata, not a ledger. Only the masked
// number (last four digits) is persisted.
type LinkedCard struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	Brand      string    `db:"brand" json:"brand"`
	LastFour   string    `db:"last_four" json:"last_four"`
	ExpiryDate string    `db:"expiry_date" json:"expiry_date"`
	HolderName string    `db:"holder_name" json:"holder_name"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// PhysicalCardStatus is the fulfillment state of a physical card request.
type PhysicalCardStatus string

const (
	PhysicalCardStatusPending    PhysicalCardStatus = "pending"
	PhysicalCardStatusProcessing PhysicalCardStatus = "processing"
	PhysicalCardStatusShipped    PhysicalCardStatus = "shipped"
	PhysicalCardStatusDelivered  PhysicalCardStatus = "delivered"
)

// physicalCardRank orders fulfillment states; transitions only move forward.
var physicalCardRank = map[PhysicalCardStatus]int{
	PhysicalCardStatusPending:    0,
	PhysicalCardStatusProcessing: 1,
	PhysicalCardStatusShipped:    2,
	PhysicalCardStatusDelivered:  3,
}

// CanTransitionTo reports whether the fulfillment workflow allows moving from
// s to next. Only strictly forward moves are allowed.
func (s PhysicalCardStatus) CanTransitionTo(next PhysicalCardStatus) bool {
	from, ok := physicalCardRank[s]
	if !ok {
		return false
	}
	to, ok := physicalCardRank[next]
	if !ok {
		return false
	}
	return to > from
}

// PhysicalCardRequest tracks shipping of a physical card. ShippedAt and
// DeliveredAt are set once when the matching status is reached and never unset.
type PhysicalCardRequest struct {
	ID              int64              `db:"id" json:"id"`
	UserID          int64              `db:"user_id" json:"user_id"`
	CardID          int64              `db:"card_id" json:"card_id"`
	ShippingAddress string             `db:"shipping_address" json:"shipping_address"`
	Status          PhysicalCardStatus `db:"status" json:"status"`
	ShippedAt       *time.Time         `db:"shipped_at" json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time         `db:"delivered_at" json:"delivered_at,omitempty"`
	CreatedAt       time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `db:"updated_at" json:"updated_at"`
}
