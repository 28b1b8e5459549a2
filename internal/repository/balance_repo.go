// internal/repository/balance_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"payflow-wallet/internal/domain"
)

// BalanceRepository defines the interface for balance data operations.
type BalanceRepository interface {
	// CreateBalance adds a new balance row using the provided DBExecutor.
	CreateBalance(ctx context.Context, q DBExecutor, balance *domain.Balance) error
	// GetBalanceByUserID retrieves a user's balance.
	GetBalanceByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.Balance, error)
	// GetBalanceForUpdate retrieves a user's balance with a row lock.
	// Must be called inside a transaction.
	GetBalanceForUpdate(ctx context.Context, q DBExecutor, userID int64) (*domain.Balance, error)
	// AddToBalance applies a signed delta to a user's balance.
	AddToBalance(ctx context.Context, q DBExecutor, userID int64, delta decimal.Decimal) error
}
