// internal/domain/withdrawal.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalStatus is the lifecycle state of a withdrawal request.
// Created as pending by the user; moved to exactly one terminal state by an
// admin. Declined and failed both return the held amount to the balance.
type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusSuccessful WithdrawalStatus = "successful"
	WithdrawalStatusDeclined   WithdrawalStatus = "declined"
	WithdrawalStatusFailed     WithdrawalStatus = "failed"
)

// Terminal reports whether the status permits no further transitions.
func (s WithdrawalStatus) Terminal() bool {
	return s == WithdrawalStatusSuccessful || s == WithdrawalStatusDeclined || s == WithdrawalStatusFailed
}

// RequiresRefund reports whether moving a pending request into this status
// must credit the held amount back to the user's balance.
func (s WithdrawalStatus) RequiresRefund() bool {
	return s == WithdrawalStatusDeclined || s == WithdrawalStatusFailed
}

// WithdrawalRequest holds a user's request to move balance funds to a bank
// account. The amount is debited from the balance when the request is created,
// so declining or failing it refunds the hold.
type WithdrawalRequest struct {
	ID                int64            `db:"id" json:"id"`
	UserID            int64            `db:"user_id" json:"user_id"`
	Amount            decimal.Decimal  `db:"amount" json:"amount"`
	Currency          string           `db:"currency" json:"currency"`
	BankName          string           `db:"bank_name" json:"bank_name"`
	AccountNumber     string           `db:"account_number" json:"account_number"`
	RoutingNumber     string           `db:"routing_number" json:"routing_number"`
	AccountHolderName string           `db:"account_holder_name" json:"account_holder_name"`
	Status            WithdrawalStatus `db:"status" json:"status"`
	AdminNotes        *string          `db:"admin_notes" json:"admin_notes,omitempty"`
	ProcessedAt       *time.Time       `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
}

// NewWithdrawalRequest creates a pending withdrawal request.
func NewWithdrawalRequest(userID int64, amount decimal.Decimal, currency, bankName, accountNumber, routingNumber, holderName string) *WithdrawalRequest {
	return &WithdrawalRequest{
		UserID:            userID,
		Amount:            amount,
		Currency:          currency,
		BankName:          bankName,
		AccountNumber:     accountNumber,
		RoutingNumber:     routingNumber,
		AccountHolderName: holderName,
		Status:            WithdrawalStatusPending,
		CreatedAt:         time.Now().UTC(),
	}
}
