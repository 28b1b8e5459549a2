// internal/repository/postgres/balance_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"payflow-wallet/internal/domain"
	"payflow-wallet/internal/repository"
	"payflow-wallet/internal/util"
)

// BalanceRepository implements repository.BalanceRepository for PostgreSQL.
type BalanceRepository struct{}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository() repository.BalanceRepository {
	return &BalanceRepository{}
}

// CreateBalance inserts a new balance row using the provided DBExecutor.
func (r *BalanceRepository) CreateBalance(ctx context.Context, q repository.DBExecutor, balance *domain.Balance) error {
	query := `INSERT INTO balances (user_id, amount, currency, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		balance.UserID, balance.Amount, balance.Currency, balance.CreatedAt, balance.UpdatedAt,
	).Scan(&balance.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return util.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create balance: %w", err)
	}
	return nil
}

const balanceColumns = `id, user_id, amount, currency, created_at, updated_at`

// GetBalanceByUserID retrieves a user's balance using the provided DBExecutor.
func (r *BalanceRepository) GetBalanceByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Balance, error) {
	var balance domain.Balance
	query := `SELECT ` + balanceColumns + ` FROM balances WHERE user_id = $1`
	err := q.GetContext(ctx, &balance, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get balance for user %d: %w", userID, err)
	}
	return &balance, nil
}

// GetBalanceForUpdate retrieves a user's balance with a row lock. Callers that
// lock more than one balance must do so in ascending user id order.
func (r *BalanceRepository) GetBalanceForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Balance, error) {
	var balance domain.Balance
	query := `SELECT ` + balanceColumns + ` FROM balances WHERE user_id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &balance, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock balance for user %d: %w", userID, err)
	}
	return &balance, nil
}

// AddToBalance applies a signed delta to a user's balance.
func (r *BalanceRepository) AddToBalance(ctx context.Context, q repository.DBExecutor, userID int64, delta decimal.Decimal) error {
	query := `UPDATE balances SET amount = amount + $1, updated_at = $2 WHERE user_id = $3`
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %d: %w", userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating balance for user %d: %w", userID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
