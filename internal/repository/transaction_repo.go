// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"payflow-wallet/internal/domain"
)

// TransactionRepository defines the interface for transaction data operations.
type TransactionRepository interface {
	// CreateTransaction adds a new transaction record using the provided DBExecutor.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionByIdempotencyKey retrieves a transaction previously recorded
	// under the given idempotency key.
	GetTransactionByIdempotencyKey(ctx context.Context, q DBExecutor, key string) (*domain.Transaction, error)
	// GetTransactionsByUserID retrieves a paginated transaction history for a
	// user (either side of the entry), newest first, with the total count.
	GetTransactionsByUserID(ctx context.Context, q DBExecutor, userID int64, limit, offset int) ([]domain.Transaction, int64, error)
}
