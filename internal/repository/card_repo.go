// internal/repository/card_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"payflow-wallet/internal/domain"
)

// CardRepository defines the interface for virtual card data operations.
type CardRepository interface {
	// CreateCard adds a new virtual card using the provided DBExecutor.
	CreateCard(ctx context.Context, q DBExecutor, card *domain.UserCard) error
	// GetCardByUserID retrieves a user's virtual card.
	GetCardByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.UserCard, error)
	// GetCardForUpdate retrieves a user's virtual card with a row lock.
	// Must be called inside a transaction.
	GetCardForUpdate(ctx context.Context, q DBExecutor, userID int64) (*domain.UserCard, error)
	// AddToCardBalance applies a signed delta to the card sub-balance.
	AddToCardBalance(ctx context.Context, q DBExecutor, cardID int64, delta decimal.Decimal) error
	// CreateCardTransaction adds the audit row for a card cash movement.
	CreateCardTransaction(ctx context.Context, q DBExecutor, tx *domain.CardTransaction) error
	// ListCardTransactions retrieves the audit rows for a card, newest first.
	ListCardTransactions(ctx context.Context, q DBExecutor, cardID int64, limit, offset int) ([]domain.CardTransaction, error)
}

// LinkedCardRepository defines the interface for funding-source metadata.
type LinkedCardRepository interface {
	CreateLinkedCard(ctx context.Context, q DBExecutor, card *domain.LinkedCard) error
	ListLinkedCardsByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.LinkedCard, error)
	// DeleteLinkedCard removes a linked card owned by the given user.
	DeleteLinkedCard(ctx context.Context, q DBExecutor, id, userID int64) error
}

// PhysicalCardRepository defines the interface for physical card fulfillment.
type PhysicalCardRepository interface {
	CreatePhysicalCardRequest(ctx context.Context, q DBExecutor, req *domain.PhysicalCardRequest) error
	GetPhysicalCardRequestByID(ctx context.Context, q DBExecutor, id int64) (*domain.PhysicalCardRequest, error)
	// GetPhysicalCardRequestForUpdate retrieves a request with a row lock.
	// Must be called inside a transaction.
	GetPhysicalCardRequestForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.PhysicalCardRequest, error)
	ListPhysicalCardRequestsByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.PhysicalCardRequest, error)
	// UpdatePhysicalCardRequest persists a fulfillment transition, including the
	// monotonically set shipped/delivered timestamps.
	UpdatePhysicalCardRequest(ctx context.Context, q DBExecutor, req *domain.PhysicalCardRequest) error
}
