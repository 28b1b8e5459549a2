// internal/repository/postgres/card_pg.go
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

// CardRepository implements repository.CardRepository for PostgreSQL.
type CardRepository struct{}

// NewCardRepository creates a new CardRepository.
func NewCardRepository() repository.CardRepository {
	return &CardRepository{}
}

const cardColumns = `id, user_id, card_number, expiry_date, cvv, balance, currency, created_at, updated_at`

// CreateCard inserts a new virtual card using the provided DBExecutor.
func (r *CardRepository) CreateCard(ctx context.Context, q repository.DBExecutor, card *domain.UserCard) error {
	query := `INSERT INTO user_cards (user_id, card_number, expiry_date, cvv, balance, currency, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		card.UserID, card.CardNumber, card.ExpiryDate, card.CVV, card.Balance, card.Currency, card.CreatedAt, card.UpdatedAt,
	).Scan(&card.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return util.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// GetCardByUserID retrieves a user's virtual card.
func (r *CardRepository) GetCardByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.UserCard, error) {
	var card domain.UserCard
	query := `SELECT ` + cardColumns + ` FROM user_cards WHERE user_id = $1`
	err := q.GetContext(ctx, &card, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card for user %d: %w", userID, err)
	}
	return &card, nil
}

// GetCardForUpdate retrieves a user's virtual card with a row lock.
func (r *CardRepository) GetCardForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.UserCard, error) {
	var card domain.UserCard
	query := `SELECT ` + cardColumns + ` FROM user_cards WHERE user_id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &card, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to lock card for user %d: %w", userID, err)
	}
	return &card, nil
}

// AddToCardBalance applies a signed delta to the card sub-balance.
func (r *CardRepository) AddToCardBalance(ctx context.Context, q repository.DBExecutor, cardID int64, delta decimal.Decimal) error {
	query := `UPDATE user_cards SET balance = balance + $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), cardID)
	if err != nil {
		return fmt.Errorf("failed to update card balance for card %d: %w", cardID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating card %d: %w", cardID, err)
	}
	if rowsAffected == 0 {
		return util.ErrCardNotFound
	}
	return nil
}

// CreateCardTransaction inserts the audit row for a card cash movement.
func (r *CardRepository) CreateCardTransaction(ctx context.Context, q repository.DBExecutor, tx *domain.CardTransaction) error {
	query := `INSERT INTO card_transactions (card_id, user_id, amount, type, created_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query, tx.CardID, tx.UserID, tx.Amount, tx.Type, tx.CreatedAt).Scan(&tx.ID)
	if err != nil {
		return fmt.Errorf("failed to create card transaction: %w", err)
	}
	return nil
}

// ListCardTransactions retrieves the audit rows for a card, newest first.
func (r *CardRepository) ListCardTransactions(ctx context.Context, q repository.DBExecutor, cardID int64, limit, offset int) ([]domain.CardTransaction, error) {
	transactions := []domain.CardTransaction{}
	query := `SELECT id, card_id, user_id, amount, type, created_at
              FROM card_transactions
              WHERE card_id = $1
              ORDER BY created_at DESC
              LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &transactions, query, cardID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list card transactions for card %d: %w", cardID, err)
	}
	return transactions, nil
}
