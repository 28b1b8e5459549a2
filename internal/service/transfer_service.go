// internal/service/transfer_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"payflow-wallet/internal/domain"
	"payflow-wallet/internal/rates"
	"payflow-wallet/internal/repository"
	"payflow-wallet/internal/util"
	"payflow-wallet/pkg/db"
)

// TransferInput is a peer-to-peer transfer request. SenderCurrency and
// RecipientCurrency are advisory; the persisted balance currencies are
// authoritative. IdempotencyKey, when set, makes retries of the same logical
// transfer return the original transaction instead of moving money twice.
type TransferInput struct {
	RecipientID    int64
	Amount         decimal.Decimal
	Description    *string
	IdempotencyKey *string
}

// TransferResult is the outcome of a successful (or replayed) transfer.
type TransferResult struct {
	Transaction     *domain.Transaction
	ConvertedAmount decimal.Decimal
	Rate            decimal.Decimal
	Replayed        bool
}

// TransferService defines the money-movement business logic between users.
type TransferService interface {
	Transfer(ctx context.Context, senderID int64, input TransferInput) (*TransferResult, error)
	GetBalance(ctx context.Context, userID int64) (*domain.Balance, error)
	GetTransactionHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, int64, error)
}

type transferService struct {
	dbBeginner      db.DBTxBeginner
	dbExecutor      repository.DBExecutor
	balanceRepo     repository.BalanceRepository
	transactionRepo repository.TransactionRepository
	converter       rates.Converter
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
}

// NewTransferService creates a new instance of TransferService.
func NewTransferService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	balanceRepo repository.BalanceRepository,
	transactionRepo repository.TransactionRepository,
	converter rates.Converter,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) TransferService {
	return &transferService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		balanceRepo:     balanceRepo,
		transactionRepo: transactionRepo,
		converter:       converter,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
	}
}

// Transfer debits the sender by Amount in the sender's currency and credits
// the recipient by the converted amount in the recipient's currency, recording
// exactly one transaction row. The debit, the credit and the insert happen in
// one database transaction with both balance rows locked, so either all three
// apply or none do.
func (s *transferService) Transfer(ctx context.Context, senderID int64, input TransferInput) (*TransferResult, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}
	if input.RecipientID == 0 {
		return nil, util.ErrInvalidInput
	}
	if input.RecipientID == senderID {
		return nil, util.ErrSameUserTransfer
	}

	if input.IdempotencyKey != nil && *input.IdempotencyKey != "" {
		existing, err := s.transactionRepo.GetTransactionByIdempotencyKey(ctx, s.dbExecutor, *input.IdempotencyKey)
		if err == nil {
			return s.replayResult(senderID, input, existing)
		}
		if !errors.Is(err, util.ErrNotFound) {
			return nil, fmt.Errorf("transfer: failed to check idempotency key: %w", err)
		}
	}

	// Balance currencies are immutable, so they can be read and converted
	// before the transaction opens. This keeps the provider call outside the
	// database transaction.
	senderBalance, err := s.balanceRepo.GetBalanceByUserID(ctx, s.dbExecutor, senderID)
	if err != nil {
		return nil, fmt.Errorf("transfer: failed to get sender balance: %w", err)
	}
	recipientBalance, err := s.balanceRepo.GetBalanceByUserID(ctx, s.dbExecutor, input.RecipientID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("transfer: failed to get recipient balance: %w", err)
	}

	quote, err := s.converter.Convert(ctx, senderBalance.Currency, recipientBalance.Currency, input.Amount)
	if err != nil {
		return nil, fmt.Errorf("transfer: conversion failed: %w", err)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("transfer: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("transfer: transaction controller does not implement DBExecutor")
	}

	// Lock both balance rows in ascending user id order to avoid deadlock
	// against a concurrent transfer in the opposite direction.
	first, second := senderID, input.RecipientID
	if second < first {
		first, second = second, first
	}
	locked := make(map[int64]*domain.Balance, 2)
	for _, id := range []int64{first, second} {
		b, err := s.balanceRepo.GetBalanceForUpdate(ctx, txExecutor, id)
		if err != nil {
			return nil, fmt.Errorf("transfer: failed to lock balance for user %d: %w", id, err)
		}
		locked[id] = b
	}

	// Authoritative funds check happens under the lock.
	if locked[senderID].Amount.LessThan(input.Amount) {
		return nil, util.ErrInsufficientFunds
	}

	if err := s.balanceRepo.AddToBalance(ctx, txExecutor, senderID, input.Amount.Neg()); err != nil {
		return nil, fmt.Errorf("transfer: failed to debit sender: %w", err)
	}
	if err := s.balanceRepo.AddToBalance(ctx, txExecutor, input.RecipientID, quote.ConvertedAmount); err != nil {
		return nil, fmt.Errorf("transfer: failed to credit recipient: %w", err)
	}

	transaction := domain.NewTransaction(&senderID, &input.RecipientID, quote.ConvertedAmount,
		recipientBalance.Currency, domain.TransactionTypeTransfer, input.Description)
	transaction.SourceAmount = input.Amount
	transaction.IdempotencyKey = input.IdempotencyKey
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		if errors.Is(err, util.ErrDuplicateEntry) && input.IdempotencyKey != nil {
			// Concurrent retry won the race; roll back and return its result.
			s.rollbackTx(txController)
			existing, gerr := s.transactionRepo.GetTransactionByIdempotencyKey(ctx, s.dbExecutor, *input.IdempotencyKey)
			if gerr != nil {
				return nil, fmt.Errorf("transfer: failed to load replayed transaction: %w", gerr)
			}
			return s.replayResult(senderID, input, existing)
		}
		return nil, fmt.Errorf("transfer: failed to create transaction: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("transfer: failed to commit transaction: %w", err)
	}

	return &TransferResult{
		Transaction:     transaction,
		ConvertedAmount: quote.ConvertedAmount,
		Rate:            quote.Rate,
	}, nil
}

// replayResult rebuilds a TransferResult from a previously recorded
// transaction, after verifying the key belongs to the same logical request.
// A reused key with a different sender, recipient or debited amount is a
// conflict, never a replay.
func (s *transferService) replayResult(senderID int64, input TransferInput, existing *domain.Transaction) (*TransferResult, error) {
	if existing.SenderID == nil || *existing.SenderID != senderID ||
		existing.RecipientID == nil || *existing.RecipientID != input.RecipientID ||
		!existing.SourceAmount.Equal(input.Amount) {
		return nil, util.ErrIdempotencyConflict
	}
	rate := decimal.NewFromInt(1)
	if !existing.SourceAmount.IsZero() {
		rate = existing.Amount.Div(existing.SourceAmount)
	}
	return &TransferResult{
		Transaction:     existing,
		ConvertedAmount: existing.Amount,
		Rate:            rate,
		Replayed:        true,
	}, nil
}

// GetBalance retrieves a user's main balance.
func (s *transferService) GetBalance(ctx context.Context, userID int64) (*domain.Balance, error) {
	balance, err := s.balanceRepo.GetBalanceByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("get balance: failed to get balance for user %d: %w", userID, err)
	}
	return balance, nil
}

// GetTransactionHistory retrieves a paginated list of a user's transactions.
func (s *transferService) GetTransactionHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	transactions, totalCount, err := s.transactionRepo.GetTransactionsByUserID(ctx, s.dbExecutor, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve transaction history: %w", err)
	}
	return transactions, totalCount, nil
}
