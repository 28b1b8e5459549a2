// internal/service/withdrawal_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"payflow-wallet/internal/domain"
	"payflow-wallet/internal/repository"
	"payflow-wallet/internal/util"
	"payflow-wallet/pkg/db"
)

// WithdrawalInput is a user's request to move balance funds to a bank account.
type WithdrawalInput struct {
	Amount            decimal.Decimal
	BankName          string
	AccountNumber     string
	RoutingNumber     string
	AccountHolderName string
}

// WithdrawalService owns the withdrawal lifecycle: the hold taken when a
// request is created, and the admin settlement that either keeps it
// (successful) or refunds it (declined, failed).
type WithdrawalService interface {
	RequestWithdrawal(ctx context.Context, userID int64, input WithdrawalInput) (*domain.WithdrawalRequest, error)
	ListUserWithdrawals(ctx context.Context, userID int64) ([]domain.WithdrawalRequest, error)
	ListPendingWithdrawals(ctx context.Context) ([]domain.WithdrawalRequest, error)
	ProcessWithdrawal(ctx context.Context, id int64, status domain.WithdrawalStatus, adminNotes *string) (*domain.WithdrawalRequest, error)
}

type withdrawalService struct {
	dbBeginner      db.DBTxBeginner
	dbExecutor      repository.DBExecutor
	balanceRepo     repository.BalanceRepository
	withdrawalRepo  repository.WithdrawalRepository
	transactionRepo repository.TransactionRepository
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
}

// NewWithdrawalService creates a new instance of WithdrawalService.
func NewWithdrawalService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	balanceRepo repository.BalanceRepository,
	withdrawalRepo repository.WithdrawalRepository,
	transactionRepo repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) WithdrawalService {
	return &withdrawalService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		balanceRepo:     balanceRepo,
		withdrawalRepo:  withdrawalRepo,
		transactionRepo: transactionRepo,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
	}
}

// RequestWithdrawal debits the amount from the user's balance as a hold and
// creates the pending request, atomically. The hold is what a later decline
// or failure refunds.
func (s *withdrawalService) RequestWithdrawal(ctx context.Context, userID int64, input WithdrawalInput) (*domain.WithdrawalRequest, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}
	if input.BankName == "" || input.AccountNumber == "" || input.RoutingNumber == "" || input.AccountHolderName == "" {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("request withdrawal: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("request withdrawal: transaction controller does not implement DBExecutor")
	}

	balance, err := s.balanceRepo.GetBalanceForUpdate(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("request withdrawal: failed to lock balance: %w", err)
	}
	if balance.Amount.LessThan(input.Amount) {
		return nil, util.ErrInsufficientFunds
	}

	if err := s.balanceRepo.AddToBalance(ctx, txExecutor, userID, input.Amount.Neg()); err != nil {
		return nil, fmt.Errorf("request withdrawal: failed to debit balance: %w", err)
	}

	withdrawal := domain.NewWithdrawalRequest(userID, input.Amount, balance.Currency,
		input.BankName, input.AccountNumber, input.RoutingNumber, input.AccountHolderName)
	if err := s.withdrawalRepo.CreateWithdrawal(ctx, txExecutor, withdrawal); err != nil {
		return nil, fmt.Errorf("request withdrawal: failed to create request: %w", err)
	}

	hold := domain.NewTransaction(&userID, nil, input.Amount, balance.Currency,
		domain.TransactionTypeWithdrawal, nil)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, hold); err != nil {
		return nil, fmt.Errorf("request withdrawal: failed to record hold: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("request withdrawal: failed to commit transaction: %w", err)
	}
	return withdrawal, nil
}

// ListUserWithdrawals retrieves a user's withdrawal requests.
func (s *withdrawalService) ListUserWithdrawals(ctx context.Context, userID int64) ([]domain.WithdrawalRequest, error) {
	return s.withdrawalRepo.ListWithdrawalsByUserID(ctx, s.dbExecutor, userID)
}

// ListPendingWithdrawals retrieves the admin work queue.
func (s *withdrawalService) ListPendingWithdrawals(ctx context.Context) ([]domain.WithdrawalRequest, error) {
	return s.withdrawalRepo.ListWithdrawalsByStatus(ctx, s.dbExecutor, domain.WithdrawalStatusPending)
}

// ProcessWithdrawal settles a pending request. Declining or failing it
// refunds the held amount in the same database transaction, guarded by the
// status = pending precondition, so a repeated admin save can never refund
// twice: re-saving the same terminal status returns the settled row
// unchanged, and any other re-save is rejected.
func (s *withdrawalService) ProcessWithdrawal(ctx context.Context, id int64, status domain.WithdrawalStatus, adminNotes *string) (*domain.WithdrawalRequest, error) {
	if !status.Terminal() {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("process withdrawal: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("process withdrawal: transaction controller does not implement DBExecutor")
	}

	withdrawal, err := s.withdrawalRepo.GetWithdrawalForUpdate(ctx, txExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("process withdrawal: failed to lock request %d: %w", id, err)
	}

	if withdrawal.Status != domain.WithdrawalStatusPending {
		if withdrawal.Status == status {
			// Idempotent re-save of the same terminal status.
			return withdrawal, nil
		}
		return nil, util.ErrAlreadyProcessed
	}

	processedAt := time.Now().UTC()
	affected, err := s.withdrawalRepo.SettleWithdrawal(ctx, txExecutor, id, status, adminNotes, processedAt)
	if err != nil {
		return nil, fmt.Errorf("process withdrawal: failed to settle request %d: %w", id, err)
	}
	if affected == 0 {
		// Lost the race despite the lock; treat as already processed.
		return nil, util.ErrAlreadyProcessed
	}

	if status.RequiresRefund() {
		if err := s.balanceRepo.AddToBalance(ctx, txExecutor, withdrawal.UserID, withdrawal.Amount); err != nil {
			return nil, fmt.Errorf("process withdrawal: failed to refund hold: %w", err)
		}
		refund := domain.NewTransaction(nil, &withdrawal.UserID, withdrawal.Amount, withdrawal.Currency,
			domain.TransactionTypeRefund, adminNotes)
		if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, refund); err != nil {
			return nil, fmt.Errorf("process withdrawal: failed to record refund: %w", err)
		}
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("process withdrawal: failed to commit transaction: %w", err)
	}

	withdrawal.Status = status
	withdrawal.AdminNotes = adminNotes
	withdrawal.ProcessedAt = &processedAt
	return withdrawal, nil
}
