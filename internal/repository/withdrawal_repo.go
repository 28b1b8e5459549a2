// internal/repository/withdrawal_repo.go
package repository

import (
	"context"
	"time"

	"payflow-wallet/internal/domain"
)

// WithdrawalRepository defines the interface for withdrawal request data operations.
type WithdrawalRepository interface {
	// CreateWithdrawal adds a new withdrawal request using the provided DBExecutor.
	CreateWithdrawal(ctx context.Context, q DBExecutor, w *domain.WithdrawalRequest) error
	// GetWithdrawalByID retrieves a withdrawal request by its ID.
	GetWithdrawalByID(ctx context.Context, q DBExecutor, id int64) (*domain.WithdrawalRequest, error)
	// GetWithdrawalForUpdate retrieves a withdrawal request with a row lock.
	// Must be called inside a transaction.
	GetWithdrawalForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.WithdrawalRequest, error)
	// ListWithdrawalsByUserID retrieves a user's withdrawal requests, newest first.
	ListWithdrawalsByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.WithdrawalRequest, error)
	// ListWithdrawalsByStatus retrieves all withdrawal requests in a given status.
	ListWithdrawalsByStatus(ctx context.Context, q DBExecutor, status domain.WithdrawalStatus) ([]domain.WithdrawalRequest, error)
	// SettleWithdrawal moves a pending request into a terminal status, recording
	// notes and the processing time. Returns the number of rows affected so the
	// caller can detect a lost race on the pending precondition.
	SettleWithdrawal(ctx context.Context, q DBExecutor, id int64, status domain.WithdrawalStatus, notes *string, processedAt time.Time) (int64, error)
}
