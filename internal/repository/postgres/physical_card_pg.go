// internal/repository/postgres/physical_card_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"payflow-wallet/internal/domain"
	"payflow-wallet/internal/repository"
	"payflow-wallet/internal/util"
)

// PhysicalCardRepository implements repository.PhysicalCardRepository for PostgreSQL.
type PhysicalCardRepository struct{}

// NewPhysicalCardRepository creates a new PhysicalCardRepository.
func NewPhysicalCardRepository() repository.PhysicalCardRepository {
	return &PhysicalCardRepository{}
}

const physicalCardColumns = `id, user_id, card_id, shipping_address, status, shipped_at, delivered_at, created_at, updated_at`

// CreatePhysicalCardRequest inserts a new fulfillment request.
func (r *PhysicalCardRepository) CreatePhysicalCardRequest(ctx context.Context, q repository.DBExecutor, req *domain.PhysicalCardRequest) error {
	query := `INSERT INTO physical_card_requests (user_id, card_id, shipping_address, status, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		req.UserID, req.CardID, req.ShippingAddress, req.Status, req.CreatedAt, req.UpdatedAt,
	).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("failed to create physical card request: %w", err)
	}
	return nil
}

// GetPhysicalCardRequestByID retrieves a fulfillment request by its ID.
func (r *PhysicalCardRepository) GetPhysicalCardRequestByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.PhysicalCardRequest, error) {
	var req domain.PhysicalCardRequest
	query := `SELECT ` + physicalCardColumns + ` FROM physical_card_requests WHERE id = $1`
	err := q.GetContext(ctx, &req, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get physical card request %d: %w", id, err)
	}
	return &req, nil
}

// GetPhysicalCardRequestForUpdate retrieves a fulfillment request with a row lock.
func (r *PhysicalCardRepository) GetPhysicalCardRequestForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.PhysicalCardRequest, error) {
	var req domain.PhysicalCardRequest
	query := `SELECT ` + physicalCardColumns + ` FROM physical_card_requests WHERE id = $1 FOR UPDATE`
	err := q.GetContext(ctx, &req, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock physical card request %d: %w", id, err)
	}
	return &req, nil
}

// ListPhysicalCardRequestsByUserID retrieves a user's fulfillment requests, newest first.
func (r *PhysicalCardRepository) ListPhysicalCardRequestsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.PhysicalCardRequest, error) {
	requests := []domain.PhysicalCardRequest{}
	query := `SELECT ` + physicalCardColumns + ` FROM physical_card_requests WHERE user_id = $1 ORDER BY created_at DESC`
	if err := q.SelectContext(ctx, &requests, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list physical card requests for user %d: %w", userID, err)
	}
	return requests, nil
}

// UpdatePhysicalCardRequest persists a fulfillment transition.
func (r *PhysicalCardRepository) UpdatePhysicalCardRequest(ctx context.Context, q repository.DBExecutor, req *domain.PhysicalCardRequest) error {
	query := `UPDATE physical_card_requests
              SET status = $1, shipped_at = $2, delivered_at = $3, updated_at = $4
              WHERE id = $5`
	result, err := q.ExecContext(ctx, query, req.Status, req.ShippedAt, req.DeliveredAt, req.UpdatedAt, req.ID)
	if err != nil {
		return fmt.Errorf("failed to update physical card request %d: %w", req.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected updating physical card request %d: %w", req.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrNotFound
	}
	return nil
}
