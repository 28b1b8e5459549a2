// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal" // For precise monetary calculations
)

// TransactionType defines the type of a financial transaction.
type TransactionType string

const (
	TransactionTypeTransfer   TransactionType = "TRANSFER"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeRefund     TransactionType = "REFUND"
)

// TransactionStatus defines the status of a financial transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction is an immutable ledger entry. SenderID or RecipientID may be nil
// for system-originated entries (withdrawal holds, refunds, admin credits).
// Amount and Currency are what the recipient side received; for cross-currency
// transfers that is the converted amount in the recipient's currency, while
// SourceAmount is what the sender side was debited.
type Transaction struct {
	ID             int64             `db:"id" json:"id"`
	Reference      uuid.UUID         `db:"reference" json:"reference"` // public identifier
	SenderID       *int64            `db:"sender_id" json:"sender_id,omitempty"`
	RecipientID    *int64            `db:"recipient_id" json:"recipient_id,omitempty"`
	Amount         decimal.Decimal   `db:"amount" json:"amount"`
	SourceAmount   decimal.Decimal   `db:"source_amount" json:"source_amount"`
	Currency       string            `db:"currency" json:"currency"`
	Type           TransactionType   `db:"type" json:"type"`
	Status         TransactionStatus `db:"status" json:"status"`
	Description    *string           `db:"description" json:"description,omitempty"`
	IdempotencyKey *string           `db:"idempotency_key" json:"-"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
}

// NewTransaction creates a completed Transaction instance with a fresh
// reference. SourceAmount defaults to amount; cross-currency entries overwrite
// it with the debited amount.
func NewTransaction(
	senderID *int64,
	recipientID *int64,
	amount decimal.Decimal,
	currency string,
	txType TransactionType,
	description *string,
) *Transaction {
	return &Transaction{
		Reference:    uuid.New(),
		SenderID:     senderID,
		RecipientID:  recipientID,
		Amount:       amount,
		SourceAmount: amount,
		Currency:     currency,
		Type:         txType,
		Status:       TransactionStatusCompleted,
		Description:  description,
		CreatedAt:    time.Now().UTC(),
	}
}
