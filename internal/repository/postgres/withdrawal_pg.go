// internal/repository/postgres/withdrawal_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"payflow-wallet/internal/domain"
	"payflow-wallet/internal/repository"
	"payflow-wallet/internal/util"
)

// WithdrawalRepository implements repository.WithdrawalRepository for PostgreSQL.
type WithdrawalRepository struct{}

// NewWithdrawalRepository creates a new WithdrawalRepository.
func NewWithdrawalRepository() repository.WithdrawalRepository {
	return &WithdrawalRepository{}
}

const withdrawalColumns = `id, user_id, amount, currency, bank_name, account_number, routing_number, account_holder_name, status, admin_notes, processed_at, created_at`

// CreateWithdrawal inserts a new withdrawal request using the provided DBExecutor.
func (r *WithdrawalRepository) CreateWithdrawal(ctx context.Context, q repository.DBExecutor, w *domain.WithdrawalRequest) error {
	query := `INSERT INTO withdrawal_requests
              (user_id, amount, currency, bank_name, account_number, routing_number, account_holder_name, status, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		w.UserID, w.Amount, w.Currency, w.BankName, w.AccountNumber, w.RoutingNumber, w.AccountHolderName, w.Status, w.CreatedAt,
	).Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal request: %w", err)
	}
	return nil
}

// GetWithdrawalByID retrieves a withdrawal request by its ID.
func (r *WithdrawalRepository) GetWithdrawalByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.WithdrawalRequest, error) {
	var w domain.WithdrawalRequest
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1`
	err := q.GetContext(ctx, &w, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get withdrawal request %d: %w", id, err)
	}
	return &w, nil
}

// GetWithdrawalForUpdate retrieves a withdrawal request with a row lock.
func (r *WithdrawalRepository) GetWithdrawalForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.WithdrawalRequest, error) {
	var w domain.WithdrawalRequest
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &w, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock withdrawal request %d: %w", id, err)
	}
	return &w, nil
}

// ListWithdrawalsByUserID retrieves a user's withdrawal requests, newest first.
func (r *WithdrawalRepository) ListWithdrawalsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.WithdrawalRequest, error) {
	withdrawals := []domain.WithdrawalRequest{}
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE user_id = $1 ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &withdrawals, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list withdrawal requests for user %d: %w", userID, err)
	}
	return withdrawals, nil
}

// ListWithdrawalsByStatus retrieves all withdrawal requests in a given status.
func (r *WithdrawalRepository) ListWithdrawalsByStatus(ctx context.Context, q repository.DBExecutor, status domain.WithdrawalStatus) ([]domain.WithdrawalRequest, error) {
	withdrawals := []domain.WithdrawalRequest{}
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE status = $1 ORDER BY created_at ASC`
	if err := q.SelectContext(ctx, &withdrawals, query, status); err != nil {
		return nil, fmt.Errorf("failed to list withdrawal requests with status %s: %w", status, err)
	}
	return withdrawals, nil
}

// SettleWithdrawal moves a pending request into a terminal status. The
// status = 'pending' predicate is the refund-once guard: a request already
// settled matches zero rows, and the caller treats that as a lost race.
func (r *WithdrawalRepository) SettleWithdrawal(ctx context.Context, q repository.DBExecutor, id int64, status domain.WithdrawalStatus, notes *string, processedAt time.Time) (int64, error) {
	query := `UPDATE withdrawal_requests
              SET status = $1, admin_notes = $2, processed_at = $3
              WHERE id = $4 AND status = $5`
	result, err := q.ExecContext(ctx, query, status, notes, processedAt, id, domain.WithdrawalStatusPending)
	if err != nil {
		return 0, fmt.Errorf("failed to settle withdrawal request %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected settling withdrawal request %d: %w", id, err)
	}
	return rowsAffected, nil
}
