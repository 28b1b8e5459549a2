// internal/repository/postgres/linked_card_pg.go
package postgres

import (
	"context"
	"fmt"

	"payflow-wallet/internal/domain"
	"payflow-wallet/internal/repository"
	"payflow-wallet/internal/util"
)

// LinkedCardRepository implements repository.LinkedCardRepository for PostgreSQL.
type LinkedCardRepository struct{}

// NewLinkedCardRepository creates a new LinkedCardRepository.
func NewLinkedCardRepository() repository.LinkedCardRepository {
	return &LinkedCardRepository{}
}

// CreateLinkedCard inserts funding-source metadata using the provided DBExecutor.
func (r *LinkedCardRepository) CreateLinkedCard(ctx context.Context, q repository.DBExecutor, card *domain.LinkedCard) error {
	query := `INSERT INTO linked_cards (user_id, brand, last_four, expiry_date, holder_name, created_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		card.UserID, card.Brand, card.LastFour, card.ExpiryDate, card.HolderName, card.CreatedAt,
	).Scan(&card.ID)
	if err != nil {
		return fmt.Errorf("failed to create linked card: %w", err)
	}
	return nil
}

// ListLinkedCardsByUserID retrieves a user's linked cards, newest first.
func (r *LinkedCardRepository) ListLinkedCardsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.LinkedCard, error) {
	cards := []domain.LinkedCard{}
	query := `SELECT id, user_id, brand, last_four, expiry_date, holder_name, created_at
              FROM linked_cards WHERE user_id = $1 ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &cards, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list linked cards for user %d: %w", userID, err)
	}
	return cards, nil
}

// DeleteLinkedCard removes a linked card owned by the given user.
func (r *LinkedCardRepository) DeleteLinkedCard(ctx context.Context, q repository.DBExecutor, id, userID int64) error {
	query := `DELETE FROM linked_cards WHERE id = $1 AND user_id = $2`
	result, err := q.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete linked card %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected deleting linked card %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
