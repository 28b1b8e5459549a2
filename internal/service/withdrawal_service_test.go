// internal/service/withdrawal_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"payflow-wallet/internal/domain"
	"payflow-wallet/internal/util"
)

func validWithdrawalInput(amount decimal.Decimal) WithdrawalInput {
	return WithdrawalInput{
		Amount:            amount,
		BankName:          "First National",
		AccountNumber:     "000123456789",
		RoutingNumber:     "021000021",
		AccountHolderName: "Pat Doe",
	}
}

// TestRequestWithdrawal tests the hold taken when a withdrawal is created.
func TestRequestWithdrawal(t *testing.T) {
	userID := int64(1)
	amount := decimal.NewFromFloat(150.00)

	t.Run("SuccessfulRequest", func(t *testing.T) {
		ctx := context.Background()
		mockBalanceRepo := new(MockBalanceRepository)
		mockWithdrawalRepo := new(MockWithdrawalRepository)
		mockTransactionRepo := new(MockTransactionRepository)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)
		beginTx, commitTx, rollbackTx := testTxFuncs(mockTxController)

		service := NewWithdrawalService(
			mockDBBeginner, mockDBExecutor,
			mockBalanceRepo, mockWithdrawalRepo, mockTransactionRepo,
			beginTx, commitTx, rollbackTx,
		)

		balance := &domain.Balance{UserID: userID, Amount: decimal.NewFromFloat(500.00), Currency: "USD"}
		mockBalanceRepo.On("GetBalanceForUpdate", ctx, mock.Anything, userID).Return(balance, nil).Once()
		mockBalanceRepo.On("AddToBalance", ctx, mock.Anything, userID, amount.Neg()).Return(nil).Once()
		mockWithdrawalRepo.On("CreateWithdrawal", ctx, mock.Anything, mock.AnythingOfType("*domain.WithdrawalRequest")).Return(nil).Once()
		mockTransactionRepo.On("CreateTransaction", ctx, mock.Anything, mock.AnythingOfType("*domain.Transaction")).Return(nil).Once()
		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Maybe()

		withdrawal, err := service.RequestWithdrawal(ctx, userID, validWithdrawalInput(amount))

		assert.NoError(t, err)
		assert.NotNil(t, withdrawal)
		assert.Equal(t, domain.WithdrawalStatusPending, withdrawal.Status)
		assert.Equal(t, "USD", withdrawal.Currency)
		assert.True(t, withdrawal.Amount.Equal(amount))

		// The hold is a WITHDRAWAL ledger entry debiting the user.
		holdCall := mockTransactionRepo.Calls[0]
		hold := holdCall.Arguments.Get(2).(*domain.Transaction)
		assert.Equal(t, domain.TransactionTypeWithdrawal, hold.Type)
		assert.Equal(t, userID, *hold.SenderID)
		assert.Nil(t, hold.RecipientID)

		mock.AssertExpectationsForObjects(t, mockBalanceRepo, mockWithdrawalRepo, mockTransactionRepo, mockTxController)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		ctx := context.Background()
		mockBalanceRepo := new(MockBalanceRepository)
		mockWithdrawalRepo := new(MockWithdrawalRepository)
		mockTransactionRepo := new(MockTransactionRepository)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)
		beginTx, commitTx, rollbackTx := testTxFuncs(mockTxController)

		service := NewWithdrawalService(
			mockDBBeginner, mockDBExecutor,
			mockBalanceRepo, mockWithdrawalRepo, mockTransactionRepo,
			beginTx, commitTx, rollbackTx,
		)

		balance := &domain.Balance{UserID: userID, Amount: decimal.NewFromFloat(20.00), Currency: "USD"}
		mockBalanceRepo.On("GetBalanceForUpdate", ctx, mock.Anything, userID).Return(balance, nil).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		withdrawal, err := service.RequestWithdrawal(ctx, userID, validWithdrawalInput(amount))

		assert.ErrorIs(t, err, util.ErrInsufficientFunds)
		assert.Nil(t, withdrawal)
		mockTxController.AssertNotCalled(t, "Commit")
		mockBalanceRepo.AssertNotCalled(t, "AddToBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingBankDetails", func(t *testing.T) {
		ctx := context.Background()
		mockBalanceRepo := new(MockBalanceRepository)
		mockWithdrawalRepo := new(MockWithdrawalRepository)
		mockTransactionRepo := new(MockTransactionRepository)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)
		beginTx, commitTx, rollbackTx := testTxFuncs(mockTxController)

		service := NewWithdrawalService(
			mockDBBeginner, mockDBExecutor,
			mockBalanceRepo, mockWithdrawalRepo, mockTransactionRepo,
			beginTx, commitTx, rollbackTx,
		)

		input := validWithdrawalInput(amount)
		input.AccountNumber = ""
		withdrawal, err := service.RequestWithdrawal(ctx, userID, input)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, withdrawal)
	})
}

// TestProcessWithdrawal tests the admin settlement and the refund-exactly-once
// guarantee.
func TestProcessWithdrawal(t *testing.T) {
	userID := int64(1)
	withdrawalID := int64(42)
	amount := decimal.NewFromFloat(150.00)

	pendingWithdrawal := func() *domain.WithdrawalRequest {
		w := domain.NewWithdrawalRequest(userID, amount, "USD", "First National", "000123456789", "021000021", "Pat Doe")
		w.ID = withdrawalID
		return w
	}

	t.Run("DeclineRefundsHold", func(t *testing.T) {
		ctx := context.Background()
		mockBalanceRepo := new(MockBalanceRepository)
		mockWithdrawalRepo := new(MockWithdrawalRepository)
		mockTransactionRepo := new(MockTransactionRepository)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)
		beginTx, commitTx, rollbackTx := testTxFuncs(mockTxController)

		service := NewWithdrawalService(
			mockDBBeginner, mockDBExecutor,
			mockBalanceRepo, mockWithdrawalRepo, mockTransactionRepo,
			beginTx, commitTx, rollbackTx,
		)

		notes := "bank rejected the account"
		mockWithdrawalRepo.On("GetWithdrawalForUpdate", ctx, mock.Anything, withdrawalID).Return(pendingWithdrawal(), nil).Once()
		mockWithdrawalRepo.On("SettleWithdrawal", ctx, mock.Anything, withdrawalID, domain.WithdrawalStatusDeclined, &notes, mock.AnythingOfType("time.Time")).Return(int64(1), nil).Once()
		mockBalanceRepo.On("AddToBalance", ctx, mock.Anything, userID, amount).Return(nil).Once()
		mockTransactionRepo.On("CreateTransaction", ctx, mock.Anything, mock.AnythingOfType("*domain.Transaction")).Return(nil).Once()
		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Maybe()

		withdrawal, err := service.ProcessWithdrawal(ctx, withdrawalID, domain.WithdrawalStatusDeclined, &notes)

		assert.NoError(t, err)
		assert.Equal(t, domain.WithdrawalStatusDeclined, withdrawal.Status)
		assert.NotNil(t, withdrawal.ProcessedAt)
		assert.Equal(t, &notes, withdrawal.AdminNotes)

		refund := mockTransactionRepo.Calls[0].Arguments.Get(2).(*domain.Transaction)
		assert.Equal(t, domain.TransactionTypeRefund, refund.Type)
		assert.Equal(t, userID, *refund.RecipientID)
		assert.Nil(t, refund.SenderID)
		assert.True(t, refund.Amount.Equal(amount))

		mock.AssertExpectationsForObjects(t, mockBalanceRepo, mockWithdrawalRepo, mockTransactionRepo, mockTxController)
	})

	t.Run("SuccessfulKeepsHold", func(t *testing.T) {
		ctx := context.Background()
		mockBalanceRepo := new(MockBalanceRepository)
		mockWithdrawalRepo := new(MockWithdrawalRepository)
		mockTransactionRepo := new(MockTransactionRepository)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)
		beginTx, commitTx, rollbackTx := testTxFuncs(mockTxController)

		service := NewWithdrawalService(
			mockDBBeginner, mockDBExecutor,
			mockBalanceRepo, mockWithdrawalRepo, mockTransactionRepo,
			beginTx, commitTx, rollbackTx,
		)

		mockWithdrawalRepo.On("GetWithdrawalForUpdate", ctx, mock.Anything, withdrawalID).Return(pendingWithdrawal(), nil).Once()
		mockWithdrawalRepo.On("SettleWithdrawal", ctx, mock.Anything, withdrawalID, domain.WithdrawalStatusSuccessful, (*string)(nil), mock.AnythingOfType("time.Time")).Return(int64(1), nil).Once()
		mockTxController.On("Commit").Return(nil).Once()
		mockTxController.On("Rollback").Return(nil).Maybe()

		withdrawal, err := service.ProcessWithdrawal(ctx, withdrawalID, domain.WithdrawalStatusSuccessful, nil)

		assert.NoError(t, err)
		assert.Equal(t, domain.WithdrawalStatusSuccessful, withdrawal.Status)
		mockBalanceRepo.AssertNotCalled(t, "AddToBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockTransactionRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ResaveSameTerminalStatusIsIdempotent", func(t *testing.T) {
		ctx := context.Background()
		mockBalanceRepo := new(MockBalanceRepository)
		mockWithdrawalRepo := new(MockWithdrawalRepository)
		mockTransactionRepo := new(MockTransactionRepository)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)
		beginTx, commitTx, rollbackTx := testTxFuncs(mockTxController)

		service := NewWithdrawalService(
			mockDBBeginner, mockDBExecutor,
			mockBalanceRepo, mockWithdrawalRepo, mockTransactionRepo,
			beginTx, commitTx, rollbackTx,
		)

		declined := pendingWithdrawal()
		declined.Status = domain.WithdrawalStatusDeclined
		mockWithdrawalRepo.On("GetWithdrawalForUpdate", ctx, mock.Anything, withdrawalID).Return(declined, nil).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		withdrawal, err := service.ProcessWithdrawal(ctx, withdrawalID, domain.WithdrawalStatusDeclined, nil)

		assert.NoError(t, err)
		assert.Equal(t, domain.WithdrawalStatusDeclined, withdrawal.Status)
		// No second refund, no settle, no commit.
		mockWithdrawalRepo.AssertNotCalled(t, "SettleWithdrawal", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockBalanceRepo.AssertNotCalled(t, "AddToBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockTxController.AssertNotCalled(t, "Commit")
	})

	t.Run("ResaveDifferentTerminalStatusRejected", func(t *testing.T) {
		ctx := context.Background()
		mockBalanceRepo := new(MockBalanceRepository)
		mockWithdrawalRepo := new(MockWithdrawalRepository)
		mockTransactionRepo := new(MockTransactionRepository)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)
		beginTx, commitTx, rollbackTx := testTxFuncs(mockTxController)

		service := NewWithdrawalService(
			mockDBBeginner, mockDBExecutor,
			mockBalanceRepo, mockWithdrawalRepo, mockTransactionRepo,
			beginTx, commitTx, rollbackTx,
		)

		successful := pendingWithdrawal()
		successful.Status = domain.WithdrawalStatusSuccessful
		mockWithdrawalRepo.On("GetWithdrawalForUpdate", ctx, mock.Anything, withdrawalID).Return(successful, nil).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		withdrawal, err := service.ProcessWithdrawal(ctx, withdrawalID, domain.WithdrawalStatusDeclined, nil)

		assert.ErrorIs(t, err, util.ErrAlreadyProcessed)
		assert.Nil(t, withdrawal)
	})

	t.Run("LostRaceOnPendingPrecondition", func(t *testing.T) {
		ctx := context.Background()
		mockBalanceRepo := new(MockBalanceRepository)
		mockWithdrawalRepo := new(MockWithdrawalRepository)
		mockTransactionRepo := new(MockTransactionRepository)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)
		beginTx, commitTx, rollbackTx := testTxFuncs(mockTxController)

		service := NewWithdrawalService(
			mockDBBeginner, mockDBExecutor,
			mockBalanceRepo, mockWithdrawalRepo, mockTransactionRepo,
			beginTx, commitTx, rollbackTx,
		)

		mockWithdrawalRepo.On("GetWithdrawalForUpdate", ctx, mock.Anything, withdrawalID).Return(pendingWithdrawal(), nil).Once()
		mockWithdrawalRepo.On("SettleWithdrawal", ctx, mock.Anything, withdrawalID, domain.WithdrawalStatusFailed, (*string)(nil), mock.AnythingOfType("time.Time")).Return(int64(0), nil).Once()
		mockTxController.On("Rollback").Return(nil).Once()

		withdrawal, err := service.ProcessWithdrawal(ctx, withdrawalID, domain.WithdrawalStatusFailed, nil)

		assert.ErrorIs(t, err, util.ErrAlreadyProcessed)
		assert.Nil(t, withdrawal)
		mockBalanceRepo.AssertNotCalled(t, "AddToBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockTxController.AssertNotCalled(t, "Commit")
	})

	t.Run("NonTerminalTargetStatus", func(t *testing.T) {
		ctx := context.Background()
		mockBalanceRepo := new(MockBalanceRepository)
		mockWithdrawalRepo := new(MockWithdrawalRepository)
		mockTransactionRepo := new(MockTransactionRepository)
		mockDBBeginner := new(MockDBBeginner)
		mockDBExecutor := new(MockDBExecutor)
		mockTxController := new(MockTxController)
		beginTx, commitTx, rollbackTx := testTxFuncs(mockTxController)

		service := NewWithdrawalService(
			mockDBBeginner, mockDBExecutor,
			mockBalanceRepo, mockWithdrawalRepo, mockTransactionRepo,
			beginTx, commitTx, rollbackTx,
		)

		withdrawal, err := service.ProcessWithdrawal(ctx, withdrawalID, domain.WithdrawalStatusPending, nil)

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, withdrawal)
		mockWithdrawalRepo.AssertNotCalled(t, "GetWithdrawalForUpdate", mock.Anything, mock.Anything, mock.Anything)
	})
}
